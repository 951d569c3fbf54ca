package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teamlens/teamlens/internal/types"
)

func TestCalculateTeamHealth(t *testing.T) {
	engineers := []types.Engineer{
		{Name: "Avery", WipIssueCount: 3},
		{Name: "Blake", WipIssueCount: 8, WipLimitViolation: true},
		{Name: "Casey", WipIssueCount: 2, MultiProjectViolation: true},
		{Name: "Drew", WipIssueCount: 0, WipLimitViolation: true}, // no active work, ignored
	}
	projects := []types.Project{
		{ID: "p1", InProgressIssues: 2, Engineers: `["Avery","Blake"]`},
		{ID: "p2", InProgressIssues: 1, Engineers: `["Avery"]`},
		{ID: "p3", InProgressIssues: 0, Engineers: `["Casey"]`}, // inactive, ignored
	}

	m := CalculateTeamHealth(engineers, projects)

	assert.Equal(t, 3, m.ActiveEngineers)
	assert.Equal(t, 1, m.HealthyEngineers)
	assert.Equal(t, 1, m.WipLimitViolators)
	assert.Equal(t, 1, m.MultiProjectViolators)
	assert.InDelta(t, 33.33, m.HealthyPercent, 0.01)

	assert.Equal(t, 2, m.ActiveProjects)
	assert.Equal(t, 1, m.ImpactedProjects) // p1 via Blake
	assert.InDelta(t, 50, m.ImpactedPercent, 0.01)

	// ~67% unhealthy ICs: critical.
	assert.Equal(t, types.StatusCritical, m.Status)
}

func TestCalculateTeamHealthImpactMatchIsCaseInsensitive(t *testing.T) {
	engineers := []types.Engineer{
		{Name: "Avery", WipIssueCount: 6, WipLimitViolation: true},
	}
	projects := []types.Project{
		{ID: "p1", InProgressIssues: 1, Engineers: `["AVERY"]`},
	}

	m := CalculateTeamHealth(engineers, projects)
	assert.Equal(t, 1, m.ImpactedProjects)
}

func TestCalculateTeamHealthZeroActiveEngineers(t *testing.T) {
	engineers := []types.Engineer{
		{Name: "Idle", WipIssueCount: 0},
	}
	m := CalculateTeamHealth(engineers, nil)

	// 0% healthy but 0% violation: nothing to be overloaded.
	assert.Equal(t, 0, m.ActiveEngineers)
	assert.Equal(t, 0.0, m.HealthyPercent)
	assert.Equal(t, types.StatusHealthy, m.Status)
}

func TestCalculateTeamHealthZeroActiveProjects(t *testing.T) {
	engineers := []types.Engineer{{Name: "Avery", WipIssueCount: 2}}
	m := CalculateTeamHealth(engineers, []types.Project{{ID: "p1", InProgressIssues: 0}})

	assert.Equal(t, 0, m.ActiveProjects)
	assert.Equal(t, 0, m.ImpactedProjects)
	assert.Equal(t, 0.0, m.ImpactedPercent)
	assert.Equal(t, types.StatusHealthy, m.Status)
}

func TestCalculateTeamHealthTwoSignalWorse(t *testing.T) {
	// ICs all healthy, but the one unhealthy-free scope still classifies
	// projects separately: here every active engineer is fine, so neither
	// signal can escalate.
	engineers := []types.Engineer{
		{Name: "Avery", WipIssueCount: 1},
		{Name: "Blake", WipIssueCount: 1},
	}
	projects := []types.Project{
		{ID: "p1", InProgressIssues: 1, Engineers: `["Avery"]`},
	}
	m := CalculateTeamHealth(engineers, projects)
	assert.Equal(t, types.StatusHealthy, m.Status)

	// One of eight ICs unhealthy (12.5% violation → warning) but that IC
	// touches the only active project (100% impacted → critical): the
	// pillar takes the worse signal.
	engineers = []types.Engineer{
		{Name: "E1", WipIssueCount: 9, WipLimitViolation: true},
		{Name: "E2", WipIssueCount: 1}, {Name: "E3", WipIssueCount: 1},
		{Name: "E4", WipIssueCount: 1}, {Name: "E5", WipIssueCount: 1},
		{Name: "E6", WipIssueCount: 1}, {Name: "E7", WipIssueCount: 1},
		{Name: "E8", WipIssueCount: 1},
	}
	projects = []types.Project{
		{ID: "p1", InProgressIssues: 3, Engineers: `["E1"]`},
	}
	m = CalculateTeamHealth(engineers, projects)
	assert.Equal(t, types.StatusCritical, m.Status)
}
