package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rtplus/rtplus/internal/sandbox"
)

var sandboxEmailCmd = &cobra.Command{
	Use:   "sandbox-email <name...>",
	Short: "Print the generated sandbox address for a name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sandbox.EmailOfDomain(strings.Join(args, " "), cfg.SandboxDomain))
		return nil
	},
}
