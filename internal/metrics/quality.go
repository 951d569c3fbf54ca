package metrics

import (
	"math"
	"strings"
	"time"

	"github.com/teamlens/teamlens/internal/types"
)

// QualityWindowDays is the trailing period for bug churn (opened/closed).
const QualityWindowDays = 14

// Calibration constants for the composite quality score. These are tuned
// values that numeric-compatibility tests pin down; do not adjust casually.
const (
	openBugsPerEngineerWeight  = 12.0
	netChangePerEngineerWeight = 200.0
	agePenaltyPerDay           = 0.5

	bugScoreWeight = 0.3
	netScoreWeight = 0.4
	ageScoreWeight = 0.3
)

// CalculateQuality computes the bug-debt pillar over issues already
// filtered to the scope. engineerCount scales per-engineer normalization
// and defaults to 1 when unknown. now anchors the trailing window and ages.
func CalculateQuality(issues []types.Issue, engineerCount int, now time.Time) types.QualityMetrics {
	if engineerCount <= 0 {
		engineerCount = 1
	}
	windowStart := now.AddDate(0, 0, -QualityWindowDays)

	var m types.QualityMetrics
	var totalAge, maxAge float64

	for i := range issues {
		issue := &issues[i]
		if !isBugIssue(issue) {
			continue
		}
		if !issue.IsDone() {
			m.OpenBugs++
			age := now.Sub(issue.CreatedAt).Hours() / 24
			if age < 0 {
				age = 0
			}
			totalAge += age
			if age > maxAge {
				maxAge = age
			}
		}
		if issue.CreatedAt.After(windowStart) {
			m.BugsOpened++
		}
		if issue.CompletedAt != nil && issue.CompletedAt.After(windowStart) {
			m.BugsClosed++
		}
	}

	m.NetChange = m.BugsOpened - m.BugsClosed
	if m.OpenBugs > 0 {
		m.AvgAgeDays = totalAge / float64(m.OpenBugs)
	}
	m.MaxAgeDays = maxAge

	eng := float64(engineerCount)
	m.BugScore = clampScore(100 - (float64(m.OpenBugs)/eng)*openBugsPerEngineerWeight)
	m.NetScore = clampScore(100 - (float64(m.NetChange)/eng)*netChangePerEngineerWeight)
	m.AgeScore = clampScore(100 - m.AvgAgeDays*agePenaltyPerDay)

	composite := math.Round(bugScoreWeight*m.BugScore + netScoreWeight*m.NetScore + ageScoreWeight*m.AgeScore)
	m.Composite = int(clampPercent(composite))

	m.Status = Classify(100 - float64(m.Composite))
	return m
}

// clampScore floors a sub-score at zero. Sub-scores may exceed 100 (a
// negative net change rewards the period); only the composite is confined
// to [0,100].
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// isBugIssue applies the intentionally broad bug heuristic: a label named
// exactly "bug" under a "type" taxonomy parent, or any label whose name
// contains "bug" case-insensitively.
func isBugIssue(i *types.Issue) bool {
	for _, l := range i.LabelList() {
		if l.Name == "bug" && strings.EqualFold(l.ParentName, "type") {
			return true
		}
		if strings.Contains(strings.ToLower(l.Name), "bug") {
			return true
		}
	}
	return false
}
