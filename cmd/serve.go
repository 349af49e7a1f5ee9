package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rtplus/rtplus/internal/auth"
	"github.com/rtplus/rtplus/internal/server"
	"github.com/rtplus/rtplus/internal/ui/theme"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web application",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if p, _ := cmd.Flags().GetString("port"); p != "" {
			cfg.Port = p
		}
		if err := cfg.ValidateServe(); err != nil {
			return fmt.Errorf("invalid configuration:\n%w", err)
		}

		am, err := auth.New(cfg)
		if err != nil {
			return err
		}
		srv, err := server.New(cfg, s, am)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintln(cmd.OutOrStdout(), theme.Title.Render("RT+"), "listening on", cfg.ServerURL())
		return srv.Listen(ctx, ":"+cfg.Port)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "Port to listen on (overrides PORT env var)")
}
