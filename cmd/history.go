package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"thoreinstein.com/seek/pkg/history"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show and manage search history",
	Long: `Show and manage the remembered search terms.

History is loaded from the configured backend (a JSON file by default, or a
SQLite database), entries older than history.retention_days are dropped on
load, and at most history.max_count terms are kept, most recent first.`,
}

// historyListCmd lists remembered terms
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remembered search terms",
	Long: `List remembered search terms, most recent first.

Examples:
  seek history list                  # Human readable
  seek history list --limit 5        # Only the five most recent
  seek history list -o json          # Machine readable`,
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistoryList(cmd.OutOrStdout(), historyOutput, historyLimit)
	},
}

// historyRemoveCmd forgets one term
var historyRemoveCmd = &cobra.Command{
	Use:   "remove <term>",
	Short: "Forget a search term",
	Long: `Forget a single search term. The term must match exactly; case and
whitespace are significant.`,
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistoryRemove(cmd.OutOrStdout(), args[0])
	},
}

// historyClearCmd forgets every term
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all search terms",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistoryClear(cmd.OutOrStdout())
	},
}

// historyPathCmd prints where history is stored
var historyPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print where search history is stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistoryPath(cmd.OutOrStdout())
	},
}

var (
	historyOutput string
	historyLimit  int
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyRemoveCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyPathCmd)

	historyListCmd.Flags().StringVarP(&historyOutput, "output", "o", "text", "Output format: text, json or yaml")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum number of terms to show (0 for all)")
}

// listedEntry is the json/yaml shape of one history entry.
type listedEntry struct {
	Query     string    `json:"query" yaml:"query"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

func runHistoryList(out io.Writer, format string, limit int) error {
	if limit < 0 {
		return errors.Newf("invalid --limit %d: must not be negative", limit)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	session, err := openSession(cfg)
	if err != nil {
		return err
	}

	entries := session.Entries()
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	switch format {
	case "text", "":
		return printHistoryText(out, entries)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(toListed(entries))
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(toListed(entries)); err != nil {
			return errors.Wrap(err, "failed to encode history")
		}
		return enc.Close()
	default:
		return errors.Newf("unknown output format %q: must be text, json or yaml", format)
	}
}

func printHistoryText(out io.Writer, entries history.Sequence) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "No search history.")
		return err
	}

	for i, e := range entries {
		if _, err := fmt.Fprintf(out, "%3d. %s  %s\n", i+1, e.Timestamp.Local().Format("2006-01-02 15:04"), e.Query); err != nil {
			return err
		}
	}
	return nil
}

func toListed(entries history.Sequence) []listedEntry {
	out := make([]listedEntry, len(entries))
	for i, e := range entries {
		out[i] = listedEntry{Query: e.Query, Timestamp: e.Timestamp}
	}
	return out
}

func runHistoryRemove(out io.Writer, query string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	session, err := openSession(cfg)
	if err != nil {
		return err
	}

	if !session.Remove(query) {
		return errors.Newf("%q is not in the search history", query)
	}

	if err := session.Save(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Removed %q from search history\n", query)
	return nil
}

func runHistoryClear(out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	session, err := openSession(cfg)
	if err != nil {
		return err
	}

	n := len(session.Queries())
	session.Clear()
	if err := session.Save(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Cleared %d search terms\n", n)
	return nil
}

func runHistoryPath(out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s (%s)\n", cfg.History.Path, backendName(cfg.History.Backend))
	return nil
}

func backendName(backend string) string {
	if backend == "" {
		return history.BackendJSON
	}
	return backend
}
