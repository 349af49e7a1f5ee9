package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtplus/rtplus/internal/store"
	"github.com/rtplus/rtplus/internal/ui/theme"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore(cmd, store.WithoutMigrate())
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.MigrateUp(); err != nil {
			return err
		}
		return printVersion(cmd, s)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore(cmd, store.WithoutMigrate())
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.MigrateDown(); err != nil {
			return err
		}
		return printVersion(cmd, s)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore(cmd, store.WithoutMigrate())
		if err != nil {
			return err
		}
		defer s.Close()
		return printVersion(cmd, s)
	},
}

func printVersion(cmd *cobra.Command, s *store.Store) error {
	v, dirty, err := s.MigrateVersion()
	if err != nil {
		return err
	}
	out := fmt.Sprintf("schema version %d", v)
	if dirty {
		out += " " + theme.Warn.Render("(dirty)")
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}
