package cmd

import (
	"encoding/json"
	"os"
	"reflect"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"
)

func TestHistoryCommandStructure(t *testing.T) {
	t.Parallel()

	cmd := historyCmd

	if cmd.Use != "history" {
		t.Errorf("history command Use = %q, want %q", cmd.Use, "history")
	}

	subcommandNames := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommandNames[sub.Use] = true
	}

	for _, want := range []string{"list", "remove <term>", "clear", "path"} {
		if !subcommandNames[want] {
			t.Errorf("history command missing %q subcommand", want)
		}
	}
}

func TestHistoryListCommandFlags(t *testing.T) {
	t.Parallel()

	expectedFlags := []struct {
		name     string
		defValue string
	}{
		{"output", "text"},
		{"limit", "0"},
	}

	for _, expected := range expectedFlags {
		flag := historyListCmd.Flags().Lookup(expected.name)
		if flag == nil {
			t.Errorf("history list command missing --%s flag", expected.name)
			continue
		}
		if flag.DefValue != expected.defValue {
			t.Errorf("--%s default = %q, want %q", expected.name, flag.DefValue, expected.defValue)
		}
	}
}

func TestHistoryList_Empty(t *testing.T) {
	setupTestEnv(t)

	stdout, _, err := executeCommand(t, "", "history", "list")
	if err != nil {
		t.Fatalf("history list returned error: %v", err)
	}
	if stdout != "No search history.\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestHistoryList_Text(t *testing.T) {
	path, _ := setupTestEnv(t)
	seedHistory(t, path, "newest", "middle", "oldest")

	stdout, _, err := executeCommand(t, "", "history", "list", "--limit", "2")
	if err != nil {
		t.Fatalf("history list returned error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), stdout)
	}
	if !strings.HasPrefix(lines[0], "  1. ") || !strings.HasSuffix(lines[0], "newest") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "middle") {
		t.Errorf("second line = %q", lines[1])
	}

	if got := loadHistory(path); len(got) != 3 {
		t.Errorf("--limit must not trim stored history, got %v", got)
	}
}

func TestHistoryList_JSON(t *testing.T) {
	path, _ := setupTestEnv(t)
	seedHistory(t, path, "a", "b")

	stdout, _, err := executeCommand(t, "", "history", "list", "-o", "json")
	if err != nil {
		t.Fatalf("history list returned error: %v", err)
	}

	var got []listedEntry
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if len(got) != 2 || got[0].Query != "a" || got[1].Query != "b" {
		t.Errorf("entries = %+v", got)
	}
	if got[0].Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

func TestHistoryList_YAML(t *testing.T) {
	path, _ := setupTestEnv(t)
	seedHistory(t, path, "東京", "大阪")

	stdout, _, err := executeCommand(t, "", "history", "list", "--output", "yaml")
	if err != nil {
		t.Fatalf("history list returned error: %v", err)
	}

	var got []listedEntry
	if err := yaml.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, stdout)
	}
	if len(got) != 2 || got[0].Query != "東京" || got[1].Query != "大阪" {
		t.Errorf("entries = %+v", got)
	}
}

func TestHistoryList_InvalidOptions(t *testing.T) {
	setupTestEnv(t)

	if _, _, err := executeCommand(t, "", "history", "list", "-o", "xml"); err == nil {
		t.Error("expected an error for an unknown output format")
	}
	if _, _, err := executeCommand(t, "", "history", "list", "--limit", "-1"); err == nil {
		t.Error("expected an error for a negative limit")
	}
}

func TestHistoryRemove(t *testing.T) {
	path, _ := setupTestEnv(t)
	seedHistory(t, path, "keep", "drop", "also")

	stdout, _, err := executeCommand(t, "", "history", "remove", "drop")
	if err != nil {
		t.Fatalf("history remove returned error: %v", err)
	}
	if !strings.Contains(stdout, `Removed "drop"`) {
		t.Errorf("stdout = %q", stdout)
	}
	if got := loadHistory(path); !reflect.DeepEqual(got, []string{"keep", "also"}) {
		t.Errorf("history = %v, want [keep also]", got)
	}
}

func TestHistoryRemove_NotFound(t *testing.T) {
	path, _ := setupTestEnv(t)
	seedHistory(t, path, "Keep")

	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = executeCommand(t, "", "history", "remove", "keep")
	if err == nil || !strings.Contains(err.Error(), "not in the search history") {
		t.Fatalf("error = %v, want not found", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("history must not be rewritten when nothing was removed")
	}
}

func TestHistoryClear(t *testing.T) {
	path, _ := setupTestEnv(t)
	seedHistory(t, path, "a", "b", "c")

	stdout, _, err := executeCommand(t, "", "history", "clear")
	if err != nil {
		t.Fatalf("history clear returned error: %v", err)
	}
	if !strings.Contains(stdout, "Cleared 3 search terms") {
		t.Errorf("stdout = %q", stdout)
	}
	if got := loadHistory(path); len(got) != 0 {
		t.Errorf("history = %v, want empty", got)
	}
}

func TestHistoryPath(t *testing.T) {
	path, _ := setupTestEnv(t)

	stdout, _, err := executeCommand(t, "", "history", "path")
	if err != nil {
		t.Fatalf("history path returned error: %v", err)
	}
	if stdout != path+" (json)\n" {
		t.Errorf("stdout = %q, want %q", stdout, path+" (json)\n")
	}
}

func TestHistory_SQLiteBackend(t *testing.T) {
	setupTestEnv(t)
	t.Setenv("SEEK_HISTORY_BACKEND", "sqlite")

	for _, q := range []string{"one", "two"} {
		if _, _, err := executeCommand(t, "", "search", "-n", q); err != nil {
			t.Fatalf("search %q returned error: %v", q, err)
		}
	}

	stdout, _, err := executeCommand(t, "", "history", "list", "-o", "json")
	if err != nil {
		t.Fatalf("history list returned error: %v", err)
	}

	var got []listedEntry
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(got) != 2 || got[0].Query != "two" || got[1].Query != "one" {
		t.Errorf("entries = %+v", got)
	}
}
