package metrics

import (
	"strings"

	"github.com/teamlens/teamlens/internal/types"
)

// CalculateTeamHealth computes the WIP/workload pillar over engineers and
// projects already filtered to the scope.
//
// An engineer's workload is healthy iff both upstream-fixed flags are clear:
// the WIP issue ceiling and the single-project focus rule. Only entities
// with current active work count: engineers with at least one WIP issue,
// projects with at least one in-progress issue. A project is impacted when
// any of its listed engineers is unhealthy.
func CalculateTeamHealth(engineers []types.Engineer, projects []types.Project) types.TeamHealthMetrics {
	var m types.TeamHealthMetrics

	unhealthy := map[string]bool{}
	for _, e := range engineers {
		if !e.HasActiveWork() {
			continue
		}
		m.ActiveEngineers++
		if e.WipLimitViolation {
			m.WipLimitViolators++
		}
		if e.MultiProjectViolation {
			m.MultiProjectViolators++
		}
		if e.HealthyWorkload() {
			m.HealthyEngineers++
		} else {
			unhealthy[strings.ToLower(strings.TrimSpace(e.Name))] = true
		}
	}

	for _, p := range projects {
		if !p.IsActive() {
			continue
		}
		m.ActiveProjects++
		for _, name := range p.EngineerList() {
			if unhealthy[strings.ToLower(strings.TrimSpace(name))] {
				m.ImpactedProjects++
				break
			}
		}
	}

	// Zero active engineers means 0% healthy but also 0% violation: there is
	// nobody to be overloaded, so the pillar reads healthy rather than
	// dividing by zero into critical.
	m.HealthyPercent = clampPercent(percentOf(m.HealthyEngineers, m.ActiveEngineers))
	m.ImpactedPercent = clampPercent(percentOf(m.ImpactedProjects, m.ActiveProjects))

	unhealthyPercent := 0.0
	if m.ActiveEngineers > 0 {
		unhealthyPercent = 100 - m.HealthyPercent
	}

	// Two signals under one pillar name: classify ICs and projects
	// separately and keep the worse.
	m.Status = types.Worse(Classify(unhealthyPercent), Classify(m.ImpactedPercent))
	return m
}
