package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamlens/teamlens/internal/types"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestNormalizeHumanHealth(t *testing.T) {
	tests := []struct {
		raw    string
		want   types.ProjectHealth
		wantOK bool
	}{
		{"On Track", types.HealthOnTrack, true},
		{"onTrack", types.HealthOnTrack, true},
		{"At Risk", types.HealthAtRisk, true},
		{"atRisk", types.HealthAtRisk, true},
		{"Off Track", types.HealthOffTrack, true},
		{"offTrack", types.HealthOffTrack, true},
		{"way OFF the rails", types.HealthOffTrack, true},
		{"some risk here", types.HealthAtRisk, true},
		{"", "", false},
		{"   ", "", false},
		{"green", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeHumanHealth(tt.raw)
		assert.Equal(t, tt.wantOK, ok, "raw=%q", tt.raw)
		assert.Equal(t, tt.want, got, "raw=%q", tt.raw)
	}
}

func TestTrajectoryHealthThresholds(t *testing.T) {
	val := func(d int) *int { return &d }
	tests := []struct {
		days *int
		want types.ProjectHealth
	}{
		{nil, types.HealthOnTrack}, // missing dates: not late
		{val(-10), types.HealthOnTrack},
		{val(0), types.HealthOnTrack},
		{val(14), types.HealthOnTrack},
		{val(15), types.HealthAtRisk},
		{val(28), types.HealthAtRisk},
		{val(29), types.HealthOffTrack},
		{val(40), types.HealthOffTrack},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, trajectoryHealth(tt.days))
	}
}

func TestHybridPessimisticCalculationWins(t *testing.T) {
	// Human says on track, trajectory says 40 days late: velocity wins.
	p := types.Project{
		ID: "p1", Name: "Checkout", State: "started", Health: "On Track",
		TargetDate:       datePtr(2026, 1, 1),
		EstimatedEndDate: datePtr(2026, 2, 10),
	}
	m := CalculateProjectHealth([]types.Project{p})
	require.Len(t, m.Projects, 1)
	v := m.Projects[0]

	require.NotNil(t, v.DaysOffTarget)
	assert.Equal(t, 40, *v.DaysOffTarget)
	assert.Equal(t, types.HealthOffTrack, v.CalculatedHealth)
	assert.Equal(t, types.HealthOffTrack, v.EffectiveHealth)
	assert.Equal(t, SourceVelocity, v.HealthSource)
	assert.Equal(t, "On Track", v.RawLinearHealth)
}

func TestHybridPessimisticHumanWins(t *testing.T) {
	// Human says at risk, trajectory is clean: the human is trusted.
	p := types.Project{
		ID: "p1", Name: "Checkout", StateCategory: "inProgress", Health: "At Risk",
		TargetDate:       datePtr(2026, 3, 1),
		EstimatedEndDate: datePtr(2026, 2, 20),
	}
	m := CalculateProjectHealth([]types.Project{p})
	require.Len(t, m.Projects, 1)
	v := m.Projects[0]

	assert.Equal(t, types.HealthOnTrack, v.CalculatedHealth)
	assert.Equal(t, types.HealthAtRisk, v.EffectiveHealth)
	assert.Equal(t, SourceHuman, v.HealthSource)
}

func TestHybridOptimisticAgreement(t *testing.T) {
	p := types.Project{
		ID: "p1", State: "started", Health: "On Track",
		TargetDate:       datePtr(2026, 3, 1),
		EstimatedEndDate: datePtr(2026, 3, 5),
	}
	m := CalculateProjectHealth([]types.Project{p})
	v := m.Projects[0]
	assert.Equal(t, types.HealthOnTrack, v.EffectiveHealth)
	assert.Equal(t, SourceHuman, v.HealthSource)
}

func TestHybridMissingEverythingDefaultsOnTrack(t *testing.T) {
	p := types.Project{ID: "p1", StateCategory: "started"}
	m := CalculateProjectHealth([]types.Project{p})
	v := m.Projects[0]

	assert.Nil(t, v.DaysOffTarget)
	assert.Equal(t, types.HealthOnTrack, v.EffectiveHealth)
	assert.Equal(t, SourceHuman, v.HealthSource)
}

func TestProjectHealthAggregation(t *testing.T) {
	projects := []types.Project{
		{ID: "p1", State: "started", Health: "On Track",
			TargetDate: datePtr(2026, 3, 1), EstimatedEndDate: datePtr(2026, 3, 1)},
		{ID: "p2", State: "started",
			TargetDate: datePtr(2026, 1, 1), EstimatedEndDate: datePtr(2026, 1, 20)},
		{ID: "p3", State: "started", Health: "Off Track"},
		{ID: "p4", State: "completed", Health: "Off Track"}, // inactive, ignored
		{ID: "p5", State: "backlog"},                        // inactive, ignored
	}

	m := CalculateProjectHealth(projects)
	assert.Equal(t, 3, m.ActiveProjects)
	assert.Equal(t, 1, m.OnTrack)
	assert.Equal(t, 1, m.AtRisk) // p2: 19 days late
	assert.Equal(t, 1, m.OffTrack)
	assert.InDelta(t, 33.33, m.OnTrackPercent, 0.01)
	assert.Equal(t, types.StatusCritical, m.Status)
}

func TestProjectHealthZeroActiveProjects(t *testing.T) {
	m := CalculateProjectHealth([]types.Project{
		{ID: "p1", State: "completed"},
	})
	assert.Equal(t, 0, m.ActiveProjects)
	assert.Equal(t, 100.0, m.OnTrackPercent) // vacuously healthy
	assert.Equal(t, types.StatusHealthy, m.Status)
}

func TestProjectHealthIdempotent(t *testing.T) {
	projects := []types.Project{
		{ID: "p1", State: "started", Health: "at risk",
			TargetDate: datePtr(2026, 1, 1), EstimatedEndDate: datePtr(2026, 2, 1)},
	}
	first := CalculateProjectHealth(projects)
	second := CalculateProjectHealth(projects)
	assert.Equal(t, first, second)
}
