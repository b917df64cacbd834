package bootstrap

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"thoreinstein.com/seek/pkg/config"
)

// LocalConfigName is the per-directory override file.
const LocalConfigName = ".seek.toml"

var (
	lastLoadedConfig  string
	lastLoadedVerbose bool
	loadedConfig      *config.Config

	// diagnostics receives bootstrap notices; tests swap it out.
	diagnostics io.Writer = os.Stderr
)

// PreParseGlobalFlags scans args for --config and --verbose before the main
// Cobra execution. Unknown flags and positional arguments are ignored and
// scanning stops at "--".
func PreParseGlobalFlags(args []string) (string, bool) {
	var cfgFile string
	var verbose bool

	if len(args) < 2 {
		return "", false
	}

	fs := pflag.NewFlagSet("bootstrap", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.StringVarP(&cfgFile, "config", "C", "", "")
	fs.BoolVarP(&verbose, "verbose", "v", false, "")

	// Errors mean a malformed command line; cobra reports those later.
	_ = fs.Parse(args[1:])

	return cfgFile, verbose
}

// InitConfig reads in config file and ENV variables if set.
// It returns the loaded config and the actual verbosity state.
func InitConfig(cfgFile string, verbose bool) (*config.Config, bool, error) {
	// Skip if already loaded with same parameters (unless in test)
	if os.Getenv("GO_TEST") != "true" && loadedConfig != nil && cfgFile == lastLoadedConfig && verbose == lastLoadedVerbose {
		return loadedConfig, verbose, nil
	}

	// Reset Viper state to avoid carrying over stale settings from previous loads.
	viper.Reset()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(config.ConfigDir())
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(strings.ToUpper(config.AppName))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// An explicitly named file that cannot be read is an error; a
		// missing default file is not.
		if cfgFile != "" {
			return nil, verbose, err
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, verbose, err
		}
	} else if verbose {
		fmt.Fprintln(diagnostics, "Using config file:", viper.ConfigFileUsed())
	}

	LoadLocalConfig(verbose)

	cfg, err := config.Load()
	if err != nil {
		return nil, verbose, err
	}

	// Update state
	lastLoadedConfig = cfgFile
	lastLoadedVerbose = verbose
	loadedConfig = cfg

	return cfg, verbose, nil
}

// LoadLocalConfig merges .seek.toml from the current directory, if present.
func LoadLocalConfig(verbose bool) {
	if _, err := os.Stat(LocalConfigName); err != nil {
		return
	}

	localViper := viper.New()
	localViper.SetConfigFile(LocalConfigName)

	if err := localViper.ReadInConfig(); err != nil {
		if verbose {
			fmt.Fprintf(diagnostics, "Warning: could not read local config %s: %v\n", LocalConfigName, err)
		}
		return
	}

	if verbose {
		fmt.Fprintf(diagnostics, "Using local config: %s\n", LocalConfigName)
	}

	if err := viper.MergeConfigMap(localViper.AllSettings()); err != nil {
		if verbose {
			fmt.Fprintf(diagnostics, "Warning: could not merge local config: %v\n", err)
		}
	}
}

// Reset clears the cached configuration state.
func Reset() {
	lastLoadedConfig = ""
	lastLoadedVerbose = false
	loadedConfig = nil
}
