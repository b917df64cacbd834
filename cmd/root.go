package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"thoreinstein.com/seek/pkg/bootstrap"
	"thoreinstein.com/seek/pkg/config"
	seekerrors "thoreinstein.com/seek/pkg/errors"
)

var cfgFile string
var verbose bool
var appConfig *config.Config
var configErr error
var logger = slog.Default()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "seek",
	Short: "Seek - search from the terminal and remember what you searched",
	Long: `Seek opens a search engine results page for a term in your browser and keeps
a short history of recent terms so they can be picked again.

Run without arguments to pick a recent term (or type a new one), or use
"seek search <term>" to search directly. History entries expire after a
configurable number of days and only the most recent terms are kept.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(cmd.ErrOrStderr(), verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, nil)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Pre-parse global flags so configuration is loaded before dispatch.
	// A broken config is remembered rather than fatal so that commands
	// like "config init" and "version" keep working.
	cfgFile, verbose = bootstrap.PreParseGlobalFlags(os.Args)
	logger = newLogger(os.Stderr, verbose)
	configErr = initConfig()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, seekerrors.FormatUserError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "C", "", "config file (default is $XDG_CONFIG_HOME/seek/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	addSearchFlags(rootCmd)
}

// newLogger builds the diagnostic logger. Warnings and errors are always
// shown; --verbose adds info and debug records.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	var err error
	appConfig, verbose, err = bootstrap.InitConfig(cfgFile, verbose)
	return err
}

// loadConfig returns the configuration loaded at startup, loading it now
// if that has not happened yet.
func loadConfig() (*config.Config, error) {
	if appConfig != nil {
		return appConfig, nil
	}
	if configErr != nil {
		return nil, configErr
	}
	if err := initConfig(); err != nil {
		return nil, err
	}
	return appConfig, nil
}

// resetConfig clears the cached configuration.
// This is primarily used in tests to ensure each test starts with a fresh config.
func resetConfig() {
	appConfig = nil
	configErr = nil
	bootstrap.Reset()
	viper.Reset()
}
