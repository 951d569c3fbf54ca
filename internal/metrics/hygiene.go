package metrics

import (
	"math"

	"github.com/teamlens/teamlens/internal/types"
)

// Per-entity gap dimensions: four discrete gap conditions per active WIP
// issue (missing estimate, missing priority, no recent comment, WIP age)
// and five per active project (missing lead, stale update, status mismatch,
// missing health, date discrepancy).
const (
	gapsPerWipIssue = 4
	gapsPerProject  = 5
)

// CalculateTactical computes the hygiene pillar: detected gaps counted
// against the theoretical maximum for the active work in scope. The active
// filters match the workload pillar's.
func CalculateTactical(engineers []types.Engineer, projects []types.Project) types.TacticalMetrics {
	var m types.TacticalMetrics

	for _, e := range engineers {
		if !e.HasActiveWork() {
			continue
		}
		m.ActiveWipIssues += e.WipIssueCount
		m.EngineerGaps += e.GapCount()
	}

	for _, p := range projects {
		if !p.IsActive() {
			continue
		}
		m.ActiveProjects++
		m.ProjectGaps += p.GapCount()
	}

	m.TotalGaps = m.EngineerGaps + m.ProjectGaps
	m.MaxPossibleGaps = m.ActiveWipIssues*gapsPerWipIssue + m.ActiveProjects*gapsPerProject

	// Nothing active means nothing to violate: perfect hygiene by definition.
	if m.MaxPossibleGaps == 0 {
		m.Score = 100
	} else {
		ratio := float64(m.TotalGaps) / float64(m.MaxPossibleGaps)
		m.Score = int(clampPercent(math.Round((1 - ratio) * 100)))
	}

	m.Status = Classify(100 - float64(m.Score))
	return m
}
