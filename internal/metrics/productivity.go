package metrics

import (
	"strings"

	"github.com/teamlens/teamlens/internal/types"
)

// DefaultThroughputTarget is the per-engineer throughput target per 14-day
// period (roughly 3 units a week) used when no target is configured.
const DefaultThroughputTarget = 6.0

// ThroughputRecord is one per-external-team throughput measurement from the
// productivity source.
type ThroughputRecord struct {
	TeamName       string  `json:"teamName"`
	TrueThroughput float64 `json:"trueThroughput"`
	PRCount        int     `json:"prCount,omitempty"`
}

// ProductivityOptions scopes and calibrates a productivity calculation.
type ProductivityOptions struct {
	Level types.SnapshotLevel

	// TeamNames restricts which external-team records count toward the
	// scope, resolved upstream (explicit name mapping first, else the
	// scope's own team names). Empty means all records (org level).
	TeamNames []string

	// EngineerCount normalizes throughput per IC; <=0 means unknown.
	EngineerCount int

	// TargetPerPeriod is the per-engineer target for one 14-day period;
	// <=0 falls back to DefaultThroughputTarget.
	TargetPerPeriod float64
}

// CalculateProductivity aggregates external throughput records for a scope.
//
// Returns nil when the source supplied no records at all, so callers can
// tell "no data available" apart from zero throughput. Team granularity is
// not supported by the upstream integration and always reports pending.
func CalculateProductivity(records []ThroughputRecord, opts ProductivityOptions) *types.ProductivityMetrics {
	if len(records) == 0 {
		return nil
	}

	if opts.Level == types.LevelTeam {
		return &types.ProductivityMetrics{
			Status: types.StatusPending,
			Notes:  "team-level throughput not supported upstream",
		}
	}

	var throughput float64
	matched := 0
	for _, r := range records {
		if matchesScope(r.TeamName, opts.TeamNames) {
			throughput += r.TrueThroughput
			matched++
		}
	}

	measured := &types.MeasuredProductivity{
		Throughput:    throughput,
		EngineerCount: opts.EngineerCount,
	}

	if opts.EngineerCount <= 0 {
		// Without an IC count the per-engineer rate is undefined; report the
		// raw sum but classify as unknown rather than forcing a zero.
		return &types.ProductivityMetrics{Status: types.StatusUnknown, Measured: measured}
	}

	per := throughput / float64(opts.EngineerCount)
	measured.PerEngineer = &per

	target := opts.TargetPerPeriod
	if target <= 0 {
		target = DefaultThroughputTarget
	}
	percent := per / target * 100
	if percent > 100 {
		percent = 100
	}
	measured.PercentOfTarget = &percent

	return &types.ProductivityMetrics{
		Status:   Classify(100 - percent),
		Measured: measured,
	}
}

// matchesScope reports whether an external team name belongs to the scope.
// Empty scope names match everything; otherwise matching is direct
// case-insensitive equality.
func matchesScope(teamName string, scopeNames []string) bool {
	if len(scopeNames) == 0 {
		return true
	}
	for _, n := range scopeNames {
		if strings.EqualFold(strings.TrimSpace(n), strings.TrimSpace(teamName)) {
			return true
		}
	}
	return false
}

// PendingProductivity is the placeholder pillar used when the external
// source is unavailable for a run.
func PendingProductivity(notes string) *types.ProductivityMetrics {
	return &types.ProductivityMetrics{Status: types.StatusPending, Notes: notes}
}
