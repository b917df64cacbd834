package ui

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var (
	// ErrCancelled is returned when the user cancels the selection
	ErrCancelled = errors.New("selection cancelled")
	// ErrNoFzf is returned when fzf is not installed
	ErrNoFzf = errors.New("fzf not found in PATH")
)

// SelectQuery lets the user pick a past query or type a new one using fzf.
// Queries are shown in the given order (most recent first).
func SelectQuery(queries []string) (string, error) {
	// Check if fzf is installed
	fzfPath, err := exec.LookPath("fzf")
	if err != nil {
		return "", ErrNoFzf
	}

	var input bytes.Buffer
	for _, q := range queries {
		// fzf is line oriented; a query containing a newline cannot be shown.
		if strings.ContainsAny(q, "\r\n") {
			continue
		}
		input.WriteString(q)
		input.WriteByte('\n')
	}

	// #nosec G204 - fzf binary is looked up in PATH, no user-controlled arguments are passed directly
	cmd := exec.Command(fzfPath, fzfArgs()...)
	cmd.Stdin = &input
	cmd.Stderr = os.Stderr // fzf uses stderr for UI rendering
	var output bytes.Buffer
	cmd.Stdout = &output

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("fzf failed: %w", err)
		}
		switch exitErr.ExitCode() {
		case 1:
			// No match: the typed query is still printed.
		case 130:
			// fzf returns 130 on cancellation (ESC, Ctrl-C, Ctrl-G)
			return "", ErrCancelled
		default:
			return "", fmt.Errorf("fzf failed: %w", err)
		}
	}

	return parseSelection(output.String())
}

// fzfArgs configures the picker.
// --print-query: first output line is whatever was typed, so a new term
// can be submitted even when it matches nothing in the list.
// alt-enter prints only the typed query, so a prefix of a remembered
// term can be searched even while it matches something.
// --no-sort: keep recency order.
func fzfArgs() []string {
	return []string{
		"--height=40%",
		"--layout=reverse",
		"--print-query",
		"--no-sort",
		"--prompt=search> ",
		"--bind=alt-enter:print-query",
		"--header=enter: search selected  alt-enter: search typed text  esc: cancel",
	}
}

// parseSelection picks the highlighted line if there is one, otherwise the
// typed query.
func parseSelection(output string) (string, error) {
	output = strings.TrimSuffix(output, "\n")
	typed, selected, _ := strings.Cut(output, "\n")

	if selected != "" {
		return selected, nil
	}
	if typed != "" {
		return typed, nil
	}
	return "", ErrCancelled
}
