package cmd

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
)

// Set via -ldflags at release time.
var (
	version = "dev"
	commit  = ""
	date    = ""
)

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the seek version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion(cmd.OutOrStdout(), versionShort)
	},
}

var versionShort bool

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version number")
}

// GetVersion returns the version of this build. Builds installed with
// "go install" report their module version when no version was stamped.
func GetVersion() string {
	if version != "dev" && version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

func runVersion(out io.Writer, short bool) error {
	v := GetVersion()

	// Release versions are shown without the "v" prefix; anything that is
	// not semver is shown as-is.
	display := v
	if sv, err := semver.NewVersion(v); err == nil {
		display = sv.String()
	}

	if short {
		_, err := fmt.Fprintln(out, display)
		return err
	}

	line := "seek " + display
	if commit != "" {
		line += " (" + commit
		if date != "" {
			line += ", " + date
		}
		line += ")"
	}
	_, err := fmt.Fprintln(out, line)
	return err
}
