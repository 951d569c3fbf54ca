package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teamlens/teamlens/internal/linear"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync issues, projects, and engineers from Linear",
	Long: `Fetch the current state of issues and projects from Linear, derive
per-engineer aggregates, and replace the local tables wholesale. A failed
sync leaves the previous state untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Linear.APIKey == "" {
			return fmt.Errorf("Linear API key not configured (set LINEAR_API_KEY)")
		}

		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		client := linear.NewClient(cfg.Linear.APIKey).
			WithEndpoint(cfg.Linear.Endpoint).
			WithPageSize(cfg.Linear.PageSize)
		syncer := linear.NewSyncer(client, store, cfg.Linear.TeamKeys, log)

		meta, err := syncer.Run(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Synced %d issues, %d projects, %d engineers (run %s)\n",
			meta.IssueCount, meta.ProjectCount, meta.EngineerCount, meta.RunID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
