package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rtplus/rtplus/internal/catalogue"
	"github.com/rtplus/rtplus/internal/ui/theme"
)

var catalogueCmd = &cobra.Command{
	Use:   "catalogue",
	Short: "Manage skill catalogues",
}

var catalogueInstallCmd = &cobra.Command{
	Use:   "install <package.yaml>",
	Short: "Install a skill package (capability, groups and skills) into an organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		pkg, err := catalogue.LoadPackage(f)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		org, err := orgBySlug(cmd, s)
		if err != nil {
			return err
		}

		installed, err := catalogue.Install(cmd.Context(), s.Catalogue(), org.ID, pkg)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s into %s: %d groups, %d skills\n",
			theme.Ok.Render("installed"), installed.Capability.Name, org.Slug, installed.Groups, installed.Skills)
		return nil
	},
}

func init() {
	catalogueInstallCmd.Flags().String("org", "", "Organization slug (required)")
	_ = catalogueInstallCmd.MarkFlagRequired("org")

	catalogueCmd.AddCommand(catalogueInstallCmd)
}
