package metrics

import (
	"strings"

	"github.com/teamlens/teamlens/internal/types"
)

// Trajectory thresholds in days past target.
const (
	atRiskAfterDays   = 14
	offTrackAfterDays = 28
)

// Health source labels carried on each per-project verdict.
const (
	SourceHuman    = "human"
	SourceVelocity = "velocity"
)

// CalculateProjectHealth computes the velocity pillar: for every active
// project it reconciles the human-entered health against the trajectory
// calculated from target vs. predicted completion dates.
//
// The reconciliation is asymmetric by design: a pessimistic signal wins no
// matter which side it comes from, while an optimistic human claim is only
// trusted when the trajectory data agrees or is unavailable.
func CalculateProjectHealth(projects []types.Project) types.ProjectHealthMetrics {
	var m types.ProjectHealthMetrics

	for _, p := range projects {
		if !projectInProgress(&p) {
			continue
		}
		m.ActiveProjects++

		verdict := reconcileProject(&p)
		switch verdict.EffectiveHealth {
		case types.HealthOnTrack:
			m.OnTrack++
		case types.HealthAtRisk:
			m.AtRisk++
		case types.HealthOffTrack:
			m.OffTrack++
		}
		m.Projects = append(m.Projects, verdict)
	}

	// No active projects is vacuously healthy, not 0/0.
	if m.ActiveProjects == 0 {
		m.OnTrackPercent = 100
	} else {
		m.OnTrackPercent = clampPercent(percentOf(m.OnTrack, m.ActiveProjects))
	}
	m.Status = Classify(100 - m.OnTrackPercent)
	return m
}

// projectInProgress matches the active-work filter for velocity: the
// project's state category (or raw state) mentions progress or started.
func projectInProgress(p *types.Project) bool {
	cat := strings.ToLower(p.StateCategory)
	state := strings.ToLower(p.State)
	return strings.Contains(cat, "progress") || strings.Contains(cat, "started") ||
		strings.Contains(state, "progress") || strings.Contains(state, "started")
}

func reconcileProject(p *types.Project) types.ProjectVelocity {
	v := types.ProjectVelocity{
		ID:              p.ID,
		Name:            p.Name,
		RawLinearHealth: p.Health,
	}

	v.DaysOffTarget = daysOffTarget(p)
	v.CalculatedHealth = trajectoryHealth(v.DaysOffTarget)

	human, hasHuman := NormalizeHumanHealth(p.Health)

	switch {
	case hasHuman && human.IsPessimistic():
		// A human flagging trouble is trusted outright.
		v.EffectiveHealth = human
		v.HealthSource = SourceHuman
	case v.CalculatedHealth.IsPessimistic():
		// Trajectory overrides an optimistic or missing human value.
		v.EffectiveHealth = v.CalculatedHealth
		v.HealthSource = SourceVelocity
	case hasHuman:
		v.EffectiveHealth = human
		v.HealthSource = SourceHuman
	default:
		v.EffectiveHealth = types.HealthOnTrack
		v.HealthSource = SourceHuman
	}
	return v
}

// daysOffTarget is predicted end minus target date in whole days, nil when
// either date is missing.
func daysOffTarget(p *types.Project) *int {
	if p.TargetDate == nil || p.EstimatedEndDate == nil {
		return nil
	}
	days := int(p.EstimatedEndDate.Sub(*p.TargetDate).Hours() / 24)
	return &days
}

// trajectoryHealth maps days-late onto the three-value vocabulary. A nil
// value (missing dates) is treated as not late.
func trajectoryHealth(days *int) types.ProjectHealth {
	if days == nil {
		return types.HealthOnTrack
	}
	switch {
	case *days > offTrackAfterDays:
		return types.HealthOffTrack
	case *days > atRiskAfterDays:
		return types.HealthAtRisk
	default:
		return types.HealthOnTrack
	}
}

// NormalizeHumanHealth maps free-text human status into the shared
// three-value vocabulary by substring matching. Unrecognized or absent text
// reports ok=false.
func NormalizeHumanHealth(raw string) (health types.ProjectHealth, ok bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}
	switch {
	case strings.Contains(s, "off"):
		return types.HealthOffTrack, true
	case strings.Contains(s, "risk"):
		return types.HealthAtRisk, true
	case strings.Contains(s, "track"):
		return types.HealthOnTrack, true
	}
	return "", false
}
