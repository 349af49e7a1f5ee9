package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtplus/rtplus/internal/config"
	"github.com/rtplus/rtplus/internal/store"
)

var rootCmd = &cobra.Command{
	Use:          "rtplus",
	Short:        "Team, personnel and competency management",
	Long:         "RT+ manages teams, personnel, skill catalogues and competency assessments for multiple organizations.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides RTPLUS_DB env var)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Environment file to load before reading configuration")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(orgCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(catalogueCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(currencyCmd)
	rootCmd.AddCommand(sandboxEmailCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the env file named by --env-file, then the environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then RTPLUS_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, config.EnsureDir(p)
	}
	return config.DefaultDBPath()
}

// openStore loads config and opens the store it points at.
func openStore(cmd *cobra.Command, opts ...store.Option) (*store.Store, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, cfg, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath, opts...)
	if err != nil {
		return nil, cfg, fmt.Errorf("open database: %w", err)
	}
	return s, cfg, nil
}

// orgBySlug looks up the organization named by the --org flag.
func orgBySlug(cmd *cobra.Command, s *store.Store) (*store.Organization, error) {
	slug, _ := cmd.Flags().GetString("org")
	if slug == "" {
		return nil, fmt.Errorf("--org is required")
	}
	org, err := s.Organizations().GetBySlug(cmd.Context(), slug)
	if err != nil {
		return nil, fmt.Errorf("organization %q: %w", slug, err)
	}
	return org, nil
}
