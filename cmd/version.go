package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the rtplus version",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "rtplus", version)

		if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
			return
		}
		fmt.Fprintln(out, "go:", runtime.Version())
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" || s.Key == "vcs.time" {
					fmt.Fprintf(out, "%s: %s\n", s.Key, s.Value)
				}
			}
		}
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "Also print the Go version and VCS revision")
}
