package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sepri/internal/scheduler"
)

var watch bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the local copy of every collection from the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !watch {
			stats, err := current.repo.Refresh(cmd.Context())
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "refreshed %d collections, %d served from the local copy\n",
				stats.Remote, stats.Fallback)
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s := scheduler.NewScheduler(current.repo, current.cfg.Sync.Interval, current.logger)
		if err := s.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&watch, "watch", false, "keep refreshing on the configured interval")
	rootCmd.AddCommand(syncCmd)
}
