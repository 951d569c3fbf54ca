package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamlens/teamlens/internal/types"
)

func sampleSnapshot() *types.MetricsSnapshotV1 {
	return &types.MetricsSnapshotV1{
		SchemaVersion: types.SnapshotSchemaVersion,
		Level:         types.LevelDomain,
		LevelID:       "infrastructure",
		CapturedAt:    time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
		TeamHealth: types.TeamHealthMetrics{
			ActiveEngineers: 8, HealthyPercent: 75,
			ActiveProjects: 4, ImpactedProjects: 1,
			Status: types.StatusWarning,
		},
		ProjectHealth: types.ProjectHealthMetrics{
			ActiveProjects: 4, OnTrack: 2, AtRisk: 1, OffTrack: 1,
			OnTrackPercent: 50, Status: types.StatusCritical,
		},
		Quality: types.QualityMetrics{
			Composite: 64, OpenBugs: 9, AvgAgeDays: 21, NetChange: -2,
			Status: types.StatusWarning,
		},
		Tactical: types.TacticalMetrics{
			Score: 88, TotalGaps: 6, MaxPossibleGaps: 52,
			Status: types.StatusHealthy,
		},
	}
}

func TestBuildDigestPrompt(t *testing.T) {
	snap := sampleSnapshot()
	per := 4.2
	pct := 70.0
	snap.Productivity = &types.ProductivityMetrics{
		Status: types.StatusWarning,
		Measured: &types.MeasuredProductivity{
			Throughput: 33.6, EngineerCount: 8,
			PerEngineer: &per, PercentOfTarget: &pct,
		},
	}

	prompt := BuildDigestPrompt(snap)

	assert.Contains(t, prompt, `domain scope "infrastructure"`)
	assert.Contains(t, prompt, "8 active engineers")
	assert.Contains(t, prompt, "2 on track, 1 at risk, 1 off track")
	assert.Contains(t, prompt, "9 open bugs")
	assert.Contains(t, prompt, "net bug change -2")
	assert.Contains(t, prompt, "6 gaps out of 52")
	assert.Contains(t, prompt, "4.2 units per engineer")
	assert.Contains(t, prompt, "70% of target")
}

func TestBuildDigestPromptPendingProductivity(t *testing.T) {
	snap := sampleSnapshot()
	snap.Productivity = &types.ProductivityMetrics{
		Status: types.StatusPending,
		Notes:  "productivity source unavailable",
	}

	prompt := BuildDigestPrompt(snap)
	assert.Contains(t, prompt, "productivity source unavailable")
}

func TestBuildDigestPromptAbsentProductivity(t *testing.T) {
	prompt := BuildDigestPrompt(sampleSnapshot())
	assert.Contains(t, prompt, "no data available")
}

func TestNewDigesterRequiresKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err := NewDigester("", "")
	require.Error(t, err)

	d, err := NewDigester("sk-test", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, d.model)
}
