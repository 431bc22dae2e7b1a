// Package main starts an HTTP server that converts reverse-engineered cloud
// inventories into the architecture model. It exposes health checks,
// conversion and reference-graph endpoints.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/talifan/adv-reverse2seaf/cmd/api/middleware"
	"github.com/talifan/adv-reverse2seaf/internal/config"
	"github.com/talifan/adv-reverse2seaf/internal/handlers"
	"github.com/talifan/adv-reverse2seaf/internal/logging"
)

func newRouter(cfg *config.Config, logger *slog.Logger) http.Handler {
	api := &handlers.API{BranchSegments: cfg.BranchSegments, Logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handlers.HealthHandler)
	mux.HandleFunc("/convert", api.ConvertHandler)
	mux.HandleFunc("/graph", api.GraphHandler)
	return middleware.Cors(cfg.CORSAllowedOrigin)(mux)
}

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:           "api",
		Short:         "Serve inventory conversion over HTTP",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := logging.NewLogger(cmd.ErrOrStderr(), logging.LevelFromString(cfg.LogLevel))
			logger.Info("server starting", "addr", cfg.ListenAddr, "cors_origin", cfg.CORSAllowedOrigin)
			if err := http.ListenAndServe(cfg.ListenAddr, newRouter(cfg, logger)); err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the converter config file")
	return cmd
}

func main() {
	if err := newServeCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
