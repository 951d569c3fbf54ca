package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/teamlens/teamlens/internal/types"
)

var (
	trendLevel string
	trendID    string
	trendDays  int
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show snapshot history for a scope",
	RunE: func(cmd *cobra.Command, args []string) error {
		if trendDays < 1 {
			return fmt.Errorf("--days must be positive, got %d", trendDays)
		}

		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		level := string(types.ParseSnapshotLevel(trendLevel))
		since := time.Now().UTC().AddDate(0, 0, -trendDays)
		snaps, err := store.GetSnapshotTrend(ctx, level, trendID, since)
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			fmt.Fprintf(os.Stderr, "No snapshots for %s/%s in the last %d days.\n", level, trendID, trendDays)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan(fmt.Sprintf("=== Trend: %s/%s (last %d days) ===", level, trendID, trendDays)))
		fmt.Printf("%-17s %-10s %-10s %-10s %-10s %-10s\n",
			"captured", "workload", "delivery", "quality", "hygiene", "prod")

		for _, s := range snaps {
			prodStatus := types.StatusUnknown
			if s.Productivity != nil {
				prodStatus = s.Productivity.Status
			}
			fmt.Printf("%-17s %-19s %-19s %-19s %-19s %-19s\n",
				s.CapturedAt.Format("2006-01-02 15:04"),
				paintStatus(s.TeamHealth.Status),
				paintStatus(s.ProjectHealth.Status),
				paintStatus(s.Quality.Status),
				paintStatus(s.Tactical.Status),
				paintStatus(prodStatus))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	trendCmd.Flags().StringVar(&trendLevel, "level", "org", "scope level: org, domain, or team")
	trendCmd.Flags().StringVar(&trendID, "id", "org", "scope identifier (domain name or team key)")
	trendCmd.Flags().IntVar(&trendDays, "days", 30, "how many days of history to show")
	rootCmd.AddCommand(trendCmd)
}
