package linear

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamlens/teamlens/internal/types"
)

var syncNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func ts(t time.Time) string { return t.Format(time.RFC3339) }

func startedIssue(id, assigneeID, assigneeName, projectID string) apiIssue {
	est := 3.0
	recent := syncNow.Add(-2 * time.Hour)
	return apiIssue{
		ID:        id,
		Title:     "issue " + id,
		Priority:  2,
		Estimate:  &est,
		CreatedAt: ts(syncNow.AddDate(0, 0, -3)),
		UpdatedAt: ts(recent),
		Team:      &apiTeam{ID: "t1", Name: "Platform", Key: "PLAT"},
		State:     &apiState{ID: "s1", Name: "In Progress", Type: "started"},
		Assignee:  &apiUser{ID: assigneeID, Name: assigneeName},
		Project:   &apiProjectRef{ID: projectID},
		Comments: struct {
			Nodes []struct {
				CreatedAt string `json:"createdAt"`
			} `json:"nodes"`
		}{Nodes: []struct {
			CreatedAt string `json:"createdAt"`
		}{{CreatedAt: ts(recent)}}},
	}
}

func TestBuildRowsJoinsProjectSnapshot(t *testing.T) {
	target := syncNow.AddDate(0, 0, 30)
	projects := []apiProject{{
		ID: "p1", Name: "Runway", State: "started", Health: "onTrack",
		TargetDate: target.Format("2006-01-02"),
		UpdatedAt:  ts(syncNow.Add(-time.Hour)),
		Lead:       &apiUser{ID: "u9", Name: "Morgan"},
		Teams: struct {
			Nodes []apiTeam `json:"nodes"`
		}{Nodes: []apiTeam{{Key: "PLAT"}}},
		Members: struct {
			Nodes []apiUser `json:"nodes"`
		}{Nodes: []apiUser{{Name: "Avery"}}},
	}}
	apiIssues := []apiIssue{startedIssue("i1", "u1", "Avery", "p1")}

	issues, projRows, engineers := BuildRows(apiIssues, projects, syncNow)

	require.Len(t, issues, 1)
	i := issues[0]
	assert.Equal(t, "PLAT", i.TeamKey)
	assert.Equal(t, "Runway", i.ProjectName)
	assert.Equal(t, "started", i.ProjectStateCategory)
	assert.Equal(t, "onTrack", i.ProjectHealth)
	assert.Equal(t, "Morgan", i.ProjectLeadName)
	require.NotNil(t, i.ProjectTargetDate)

	require.Len(t, projRows, 1)
	p := projRows[0]
	assert.Equal(t, 1, p.InProgressIssues)
	assert.Equal(t, 1, p.TotalIssues)
	assert.Equal(t, []string{"PLAT"}, p.TeamKeyList())
	assert.Equal(t, []string{"Avery"}, p.EngineerList())
	assert.Equal(t, 0, p.GapCount())

	require.Len(t, engineers, 1)
	assert.Equal(t, "Avery", engineers[0].Name)
	assert.Equal(t, 1, engineers[0].WipIssueCount)
	assert.False(t, engineers[0].WipLimitViolation)
	assert.Equal(t, 0, engineers[0].GapCount())
}

func TestBuildRowsWipLimitViolation(t *testing.T) {
	var apiIssues []apiIssue
	for n := 0; n < 6; n++ {
		apiIssues = append(apiIssues, startedIssue(fmt.Sprintf("i%d", n), "u1", "Avery", "p1"))
	}

	_, _, engineers := BuildRows(apiIssues, nil, syncNow)
	require.Len(t, engineers, 1)
	assert.Equal(t, 6, engineers[0].WipIssueCount)
	assert.True(t, engineers[0].WipLimitViolation)
	assert.False(t, engineers[0].MultiProjectViolation)
}

func TestBuildRowsMultiProjectViolation(t *testing.T) {
	apiIssues := []apiIssue{
		startedIssue("i1", "u1", "Avery", "p1"),
		startedIssue("i2", "u1", "Avery", "p2"),
	}

	_, _, engineers := BuildRows(apiIssues, nil, syncNow)
	require.Len(t, engineers, 1)
	assert.True(t, engineers[0].MultiProjectViolation)
}

func TestBuildRowsEngineerGapCounts(t *testing.T) {
	// Started issue with no estimate, no priority, no comment, created 20
	// days ago: all four gap dimensions fire at once.
	issue := apiIssue{
		ID:        "i1",
		CreatedAt: ts(syncNow.AddDate(0, 0, -20)),
		State:     &apiState{Type: "started"},
		Assignee:  &apiUser{ID: "u1", Name: "Avery"},
	}
	// Completed issues never contribute WIP or gaps.
	done := apiIssue{
		ID:          "i2",
		CreatedAt:   ts(syncNow.AddDate(0, 0, -40)),
		CompletedAt: ts(syncNow.AddDate(0, 0, -1)),
		State:       &apiState{Type: "completed"},
		Assignee:    &apiUser{ID: "u1", Name: "Avery"},
	}

	_, _, engineers := BuildRows([]apiIssue{issue, done}, nil, syncNow)
	require.Len(t, engineers, 1)
	e := engineers[0]
	assert.Equal(t, 1, e.WipIssueCount)
	assert.Equal(t, 1, e.MissingEstimateCount)
	assert.Equal(t, 1, e.MissingPriorityCount)
	assert.Equal(t, 1, e.NoRecentCommentCount)
	assert.Equal(t, 1, e.WipAgeViolationCount)
	assert.Equal(t, 4, e.GapCount())
}

func TestFinalizeProjectFlags(t *testing.T) {
	target := syncNow.AddDate(0, 0, 10)
	estEnd := syncNow.AddDate(0, 0, 40) // 30 days past target
	projects := []apiProject{{
		ID: "p1", Name: "Drifting", State: "started",
		TargetDate:       target.Format("2006-01-02"),
		EstimatedEndDate: estEnd.Format("2006-01-02"),
		UpdatedAt:        ts(syncNow.AddDate(0, 0, -10)),
	}}

	// No issues: a started project with nothing in progress is a mismatch.
	_, projRows, _ := BuildRows(nil, projects, syncNow)
	require.Len(t, projRows, 1)
	p := projRows[0]

	assert.Equal(t, 1, p.MissingLead)
	assert.Equal(t, 1, p.MissingHealth)
	assert.Equal(t, 1, p.StaleUpdate)
	assert.Equal(t, 1, p.DateDiscrepancy)
	assert.Equal(t, 1, p.StatusMismatch)
	assert.Equal(t, 5, p.GapCount())
}

func TestFinalizeProjectFlagsDoneWithWipIsMismatch(t *testing.T) {
	projects := []apiProject{{
		ID: "p1", State: "completed", Health: "onTrack",
		UpdatedAt: ts(syncNow.Add(-time.Hour)),
		Lead:      &apiUser{Name: "Morgan"},
	}}
	apiIssues := []apiIssue{startedIssue("i1", "u1", "Avery", "p1")}

	_, projRows, _ := BuildRows(apiIssues, projects, syncNow)
	require.Len(t, projRows, 1)
	assert.Equal(t, 1, projRows[0].InProgressIssues)
	assert.Equal(t, 1, projRows[0].StatusMismatch)
}

func TestBuildRowsLabelEncoding(t *testing.T) {
	issue := startedIssue("i1", "u1", "Avery", "")
	issue.Labels.Nodes = []apiLabel{
		{Name: "bug", Parent: &struct {
			Name string `json:"name"`
		}{Name: "type"}},
		{Name: "p1"},
	}

	issues, _, _ := BuildRows([]apiIssue{issue}, nil, syncNow)
	require.Len(t, issues, 1)
	labels := issues[0].LabelList()
	require.Len(t, labels, 2)
	assert.Equal(t, types.Label{Name: "bug", ParentName: "type"}, labels[0])
	assert.Equal(t, types.Label{Name: "p1"}, labels[1])
}

func TestProjectStateCategory(t *testing.T) {
	assert.Equal(t, "started", projectStateCategory("started"))
	assert.Equal(t, "started", projectStateCategory("In Progress"))
	assert.Equal(t, "completed", projectStateCategory("completed"))
	assert.Equal(t, "canceled", projectStateCategory("cancelled"))
	assert.Equal(t, "planned", projectStateCategory("backlog"))
	assert.Equal(t, "weird", projectStateCategory("weird"))
}
