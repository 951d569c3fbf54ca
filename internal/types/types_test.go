package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "valid list", raw: `["core","infra"]`, want: []string{"core", "infra"}},
		{name: "empty string", raw: "", want: nil},
		{name: "whitespace only", raw: "   ", want: nil},
		{name: "empty array", raw: "[]", want: nil},
		{name: "malformed json", raw: `["core",`, want: nil},
		{name: "wrong type", raw: `{"a":1}`, want: nil},
		{name: "blank entries dropped", raw: `["core","","  "]`, want: []string{"core"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseStringList(tt.raw)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeStringListRoundTrip(t *testing.T) {
	in := []string{"core", "platform"}
	assert.Equal(t, in, ParseStringList(EncodeStringList(in)))
	assert.Equal(t, "[]", EncodeStringList(nil))
}

func TestIssueLabelList(t *testing.T) {
	issue := Issue{Labels: `[{"name":"bug","parentName":"type"},{"name":"p1"}]`}
	labels := issue.LabelList()
	require.Len(t, labels, 2)
	assert.Equal(t, "bug", labels[0].Name)
	assert.Equal(t, "type", labels[0].ParentName)
	assert.Equal(t, "p1", labels[1].Name)

	corrupt := Issue{Labels: `[{"name":`}
	assert.Empty(t, corrupt.LabelList())
}

func TestProjectGapCount(t *testing.T) {
	p := Project{MissingLead: 1, StaleUpdate: 1, StatusMismatch: 0, MissingHealth: 1, DateDiscrepancy: 0}
	assert.Equal(t, 3, p.GapCount())

	// Flags above 1 still count as one gap each.
	p = Project{MissingLead: 7}
	assert.Equal(t, 1, p.GapCount())
}

func TestEngineerHealthyWorkload(t *testing.T) {
	healthy := Engineer{WipIssueCount: 3}
	assert.True(t, healthy.HealthyWorkload())

	overloaded := Engineer{WipIssueCount: 8, WipLimitViolation: true}
	assert.False(t, overloaded.HealthyWorkload())

	scattered := Engineer{WipIssueCount: 2, MultiProjectViolation: true}
	assert.False(t, scattered.HealthyWorkload())
}

func TestWorseOrdering(t *testing.T) {
	assert.Equal(t, StatusWarning, Worse(StatusHealthy, StatusWarning))
	assert.Equal(t, StatusCritical, Worse(StatusCritical, StatusWarning))
	assert.Equal(t, StatusHealthy, Worse(StatusHealthy, StatusHealthy))
	// Missing data never escalates.
	assert.Equal(t, StatusHealthy, Worse(StatusHealthy, StatusUnknown))
	assert.Equal(t, StatusHealthy, Worse(StatusPending, StatusHealthy))
}

func TestParseSnapshotLevelFallback(t *testing.T) {
	assert.Equal(t, LevelTeam, ParseSnapshotLevel("TEAM"))
	assert.Equal(t, LevelDomain, ParseSnapshotLevel(" domain "))
	assert.Equal(t, LevelOrg, ParseSnapshotLevel("org"))
	assert.Equal(t, LevelOrg, ParseSnapshotLevel("cluster"))
	assert.Equal(t, LevelOrg, ParseSnapshotLevel(""))
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	captured := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	synced := captured.Add(-5 * time.Minute)
	days := 40
	per := 2.5
	pct := 83.3

	snap := MetricsSnapshotV1{
		SchemaVersion: SnapshotSchemaVersion,
		Level:         LevelTeam,
		LevelID:       "core",
		CapturedAt:    captured,
		SyncedAt:      &synced,
		TeamHealth: TeamHealthMetrics{
			ActiveEngineers: 4, HealthyEngineers: 3, HealthyPercent: 75,
			WipLimitViolators: 1, ActiveProjects: 2, ImpactedProjects: 1,
			ImpactedPercent: 50, Status: StatusCritical,
		},
		ProjectHealth: ProjectHealthMetrics{
			ActiveProjects: 1, OffTrack: 1, OnTrackPercent: 0,
			Projects: []ProjectVelocity{{
				ID: "p1", Name: "Checkout revamp", RawLinearHealth: "On Track",
				CalculatedHealth: HealthOffTrack, EffectiveHealth: HealthOffTrack,
				DaysOffTarget: &days, HealthSource: "velocity",
			}},
			Status: StatusCritical,
		},
		Quality:  QualityMetrics{OpenBugs: 10, Composite: 56, Status: StatusCritical},
		Tactical: TacticalMetrics{Score: 100, Status: StatusHealthy},
		Productivity: &ProductivityMetrics{
			Status: StatusWarning,
			Measured: &MeasuredProductivity{
				Throughput: 10, EngineerCount: 4, PerEngineer: &per, PercentOfTarget: &pct,
			},
		},
	}

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var back MetricsSnapshotV1
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, snap, back)
}

func TestSnapshotJSONRoundTripPendingProductivity(t *testing.T) {
	snap := MetricsSnapshotV1{
		SchemaVersion: SnapshotSchemaVersion,
		Level:         LevelTeam,
		LevelID:       "infra",
		CapturedAt:    time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Productivity:  &ProductivityMetrics{Status: StatusPending, Notes: "team-level throughput not supported upstream"},
	}

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var back MetricsSnapshotV1
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.Productivity)
	assert.Nil(t, back.Productivity.Measured)
	assert.Equal(t, StatusPending, back.Productivity.Status)
	assert.Equal(t, snap, back)
}
