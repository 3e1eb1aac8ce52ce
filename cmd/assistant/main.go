package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/krishivikas/assistant/internal/infra/config"
	"github.com/krishivikas/assistant/internal/infra/gateway"
	"github.com/krishivikas/assistant/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "assistant",
		Short:         "Farming assistant for disease detection, schemes, and farm mapping",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := initializeApp(configPath)
			if err != nil {
				return fmt.Errorf("wire application: %w", err)
			}
			return app.Run(ctx)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file")
	root.AddCommand(newHealthCmd(&configPath))
	return root
}

func newHealthCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogFile)
			client := gateway.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, log)

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			if err := client.Health(ctx); err != nil {
				return fmt.Errorf("backend unhealthy: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "backend ok:", cfg.Backend.BaseURL)
			return nil
		},
	}
}
