package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cesargomez89/tajikquran/internal/config"
	"github.com/cesargomez89/tajikquran/internal/logger"
	"github.com/cesargomez89/tajikquran/internal/store"
)

var envFile string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:           "tajikquran",
		Short:         "Arabic/Tajik Quran reading API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.AddCommand(newServeCommand(), newImportCommand(), newCacheCommand())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads and validates configuration, then opens the logger and store.
func bootstrap(ctx context.Context) (*config.Config, *logger.Logger, *store.DB, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, nil, nil, err
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	driver, dsn := cfg.Driver()
	db, err := store.Open(ctx, driver, dsn, store.Options{
		MaxOpenConns: cfg.MaxOpenConns,
		Logger:       appLogger,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to init DB: %w", err)
	}
	return cfg, appLogger, db, nil
}
