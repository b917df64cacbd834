package cmd

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"thoreinstein.com/seek/pkg/config"
	seekerrors "thoreinstein.com/seek/pkg/errors"
	"thoreinstein.com/seek/pkg/history"
	"thoreinstein.com/seek/pkg/search"
	"thoreinstein.com/seek/pkg/ui"
)

// searchCmd opens a search results page and records the term
var searchCmd = &cobra.Command{
	Use:   "search [term...]",
	Short: "Search for a term and remember it",
	Long: `Open the search results page for a term in the default browser and add the
term to the search history.

Multiple arguments are joined with a single space. Without arguments, a
picker over recent terms is shown (fzf when available, otherwise a prompt);
typing a term that is not in the list searches for it.

Examples:
  seek search golang                 # Search the default engine
  seek search "go modules"           # Multi-word term
  seek search -e ddg channels        # Use a configured engine
  seek search --no-browser 東京      # Print the URL instead of opening it`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, args)
	},
}

var (
	searchEngine    string
	searchNoBrowser bool
)

// browserOpener opens result pages; tests replace it.
var browserOpener search.Opener = search.BrowserOpener{}

// promptForQuery asks for a term when none was given on the command line.
// It uses fzf when the command reads from a terminal and the
// line prompt otherwise.
func promptForQuery(cmd *cobra.Command, queries []string) (string, error) {
	in := cmd.InOrStdin()
	if ui.IsInteractiveReader(in) {
		query, err := ui.SelectQuery(queries)
		if !errors.Is(err, ui.ErrNoFzf) {
			return query, err
		}
	}
	return ui.PromptQuery(in, cmd.ErrOrStderr(), queries)
}

func init() {
	rootCmd.AddCommand(searchCmd)
	addSearchFlags(searchCmd)
}

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&searchEngine, "engine", "e", "", "search engine to use (default from search.engine)")
	cmd.Flags().BoolVarP(&searchNoBrowser, "no-browser", "n", false, "print the URL instead of opening a browser")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine := cfg.Search.Engine
	if searchEngine != "" {
		engine = searchEngine
	}
	template, err := cfg.Engines().Resolve(engine)
	if err != nil {
		return err
	}

	session, err := openSession(cfg)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	if len(args) == 0 {
		query, err = promptForQuery(cmd, session.Queries())
		if errors.Is(err, ui.ErrCancelled) {
			logger.Debug("search cancelled")
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to read search term")
		}
	}

	if query == "" {
		return seekerrors.ErrEmptyQuery
	}

	url := search.BuildURL(template, query)
	logger.Info("searching", "engine", engine, "query", query, "url", url)

	var opener search.Opener = search.PrintOpener{W: cmd.OutOrStdout()}
	if cfg.Search.OpenBrowser && !searchNoBrowser {
		fmt.Fprintf(cmd.OutOrStdout(), "Searching for %q: %s\n", query, url)
		opener = browserOpener
	}
	openErr := opener.Open(url)

	// The term is remembered even when the browser could not be launched.
	session.Record(query)
	saveHistory(session)

	return openErr
}

// openSession loads the history configured in cfg.
func openSession(cfg *config.Config) (*history.Session, error) {
	codec := history.NewCodec(
		history.WithRetentionDays(cfg.History.RetentionDays),
		history.WithCodecLogger(logger),
	)

	storage, err := history.OpenStorage(cfg.History.Backend, cfg.History.Path, codec, logger)
	if err != nil {
		return nil, err
	}

	return history.Load(storage, history.WithMaxCount(cfg.History.MaxCount)), nil
}

// saveHistory persists the session once. A failure is reported but does
// not fail the search.
func saveHistory(session *history.Session) {
	if err := session.Save(); err != nil {
		logger.Error("failed to save search history",
			"location", session.Location(),
			"error", err)
		return
	}
	logger.Debug("saved search history", "location", session.Location())
}
