package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"account_backend/internal/app/config"
	"account_backend/internal/app/di"
	platformhttp "account_backend/internal/platform/http"
	"account_backend/internal/platform/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "account-server",
		Short:         "User account registration and authentication API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), envFile)
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the environment")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), envFile)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and indexes, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(envFile)
			if err != nil {
				return err
			}
			return di.Migrate(cmd.Context(), cfg)
		},
	}

	rootCmd.AddCommand(serveCmd, migrateCmd)
	return rootCmd
}

func loadConfig(envFile string) (config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, err
	}
	logger.Setup(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	return cfg, nil
}

func runServe(ctx context.Context, envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := di.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := platformhttp.NewServer(net.JoinHostPort("", cfg.Port), app.Router)
	return platformhttp.Run(ctx, srv, 10*time.Second)
}
