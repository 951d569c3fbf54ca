package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/teamlens/teamlens/internal/types"
)

var (
	statusLevel string
	statusID    string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the latest health snapshot for a scope",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		level := string(types.ParseSnapshotLevel(statusLevel))
		snap, err := store.GetLatestSnapshot(ctx, level, statusID)
		if err != nil {
			return err
		}
		if snap == nil {
			fmt.Fprintf(os.Stderr, "No snapshot for %s/%s. Run 'teamlens sync' then 'teamlens capture'.\n", level, statusID)
			os.Exit(1)
		}

		printSnapshot(snap)
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusLevel, "level", "org", "scope level: org, domain, or team")
	statusCmd.Flags().StringVar(&statusID, "id", "org", "scope identifier (domain name or team key)")
	rootCmd.AddCommand(statusCmd)
}

func printSnapshot(snap *types.MetricsSnapshotV1) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("\n%s\n", cyan(fmt.Sprintf("=== Health: %s/%s ===", snap.Level, snap.LevelID)))
	fmt.Printf("%s\n\n", gray("captured "+snap.CapturedAt.Format("2006-01-02 15:04 MST")))

	th := snap.TeamHealth
	fmt.Printf("%s Workload     %s\n", statusIcon(th.Status), paintStatus(th.Status))
	fmt.Printf("    %d/%d engineers healthy (%.0f%%), %d WIP violations, %d multi-project\n",
		th.HealthyEngineers, th.ActiveEngineers, th.HealthyPercent,
		th.WipLimitViolators, th.MultiProjectViolators)
	fmt.Printf("    %d/%d active projects impacted (%.0f%%)\n\n",
		th.ImpactedProjects, th.ActiveProjects, th.ImpactedPercent)

	ph := snap.ProjectHealth
	fmt.Printf("%s Delivery     %s\n", statusIcon(ph.Status), paintStatus(ph.Status))
	fmt.Printf("    %d active projects: %d on track, %d at risk, %d off track (%.0f%% on track)\n\n",
		ph.ActiveProjects, ph.OnTrack, ph.AtRisk, ph.OffTrack, ph.OnTrackPercent)

	q := snap.Quality
	fmt.Printf("%s Quality      %s\n", statusIcon(q.Status), paintStatus(q.Status))
	fmt.Printf("    composite %d/100, %d open bugs (avg age %.0f d, max %.0f d), net %+d over 14d\n\n",
		q.Composite, q.OpenBugs, q.AvgAgeDays, q.MaxAgeDays, q.NetChange)

	ta := snap.Tactical
	fmt.Printf("%s Hygiene      %s\n", statusIcon(ta.Status), paintStatus(ta.Status))
	fmt.Printf("    score %d/100, %d gaps of %d possible (%d engineer, %d project)\n\n",
		ta.Score, ta.TotalGaps, ta.MaxPossibleGaps, ta.EngineerGaps, ta.ProjectGaps)

	switch p := snap.Productivity; {
	case p == nil:
		fmt.Printf("%s Productivity %s\n\n", statusIcon(types.StatusUnknown), gray("no data"))
	case p.Measured != nil && p.Measured.PerEngineer != nil:
		fmt.Printf("%s Productivity %s\n", statusIcon(p.Status), paintStatus(p.Status))
		fmt.Printf("    %.1f throughput across %d engineers (%.1f each", p.Measured.Throughput,
			p.Measured.EngineerCount, *p.Measured.PerEngineer)
		if p.Measured.PercentOfTarget != nil {
			fmt.Printf(", %.0f%% of target", *p.Measured.PercentOfTarget)
		}
		fmt.Printf(")\n\n")
	default:
		fmt.Printf("%s Productivity %s", statusIcon(p.Status), paintStatus(p.Status))
		if p.Notes != "" {
			fmt.Printf("  %s", gray(p.Notes))
		}
		fmt.Printf("\n\n")
	}

	if snap.SyncedAt != nil {
		fmt.Printf("%s\n", gray("data synced "+snap.SyncedAt.Format("2006-01-02 15:04 MST")))
	}
}

func paintStatus(s types.HealthStatus) string {
	switch s {
	case types.StatusHealthy:
		return color.GreenString(string(s))
	case types.StatusWarning:
		return color.YellowString(string(s))
	case types.StatusCritical:
		return color.RedString(string(s))
	}
	return color.New(color.FgHiBlack).Sprint(string(s))
}

func statusIcon(s types.HealthStatus) string {
	switch s {
	case types.StatusHealthy:
		return color.GreenString("●")
	case types.StatusWarning:
		return color.YellowString("⚠")
	case types.StatusCritical:
		return color.RedString("✗")
	}
	return color.New(color.FgHiBlack).Sprint("○")
}
