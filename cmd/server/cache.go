package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCacheCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached upstream tajweed and audio responses",
	}
	command.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached upstream response",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, appLogger, db, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			cleared, err := db.ClearCache(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			appLogger.Info("Upstream cache cleared", "entries", cleared)
			color.Green("Cleared %d cached response(s)", cleared)
			return nil
		},
	})
	return command
}
