// Package metrics contains the pure calculators behind the five team-health
// pillars (workload, velocity, quality, hygiene, productivity) and the
// orchestrator that composes them into immutable per-scope snapshots.
//
// Every calculator is a total function over already-synced rows: no I/O, no
// shared state, and an explicit "now" wherever time matters, so identical
// inputs always produce identical output.
package metrics

import "github.com/teamlens/teamlens/internal/types"

// Classification thresholds, as violation percentages. Shared by every
// pillar so the healthy/warning/critical breakpoints stay consistent
// platform-wide; equivalently, a pillar is healthy at >=90% good and
// warning at >=75%.
const (
	warningThresholdPercent  = 10.0
	criticalThresholdPercent = 25.0
)

// Classify maps a violation percentage onto a health status. This is the
// single threshold rule for the whole platform; pillars must call it rather
// than reimplement the breakpoints.
func Classify(violationPercent float64) types.HealthStatus {
	switch {
	case violationPercent >= criticalThresholdPercent:
		return types.StatusCritical
	case violationPercent >= warningThresholdPercent:
		return types.StatusWarning
	default:
		return types.StatusHealthy
	}
}

// clampPercent confines a percentage to [0, 100].
func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// percentOf returns part/whole as a percentage, with zero whole defined as
// zero rather than a division error.
func percentOf(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
