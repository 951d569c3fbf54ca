package linear

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/teamlens/teamlens/internal/types"
)

// Workload and hygiene thresholds baked into the synced rows. The metrics
// engine reads the resulting flags and never recomputes them.
const (
	// wipLimit is the per-engineer WIP issue ceiling.
	wipLimit = 5

	// commentStaleness marks a WIP issue as lacking a recent comment.
	commentStaleness = 24 * time.Hour

	// wipAgeLimit marks a WIP issue as having been in progress too long.
	wipAgeLimit = 14 * 24 * time.Hour

	// staleUpdateAge flags a project whose last update is older than this.
	staleUpdateAge = 7 * 24 * time.Hour

	// dateDiscrepancyLimit flags a project whose predicted end overshoots
	// its target by more than this.
	dateDiscrepancyLimit = 14 * 24 * time.Hour
)

// BuildRows converts raw API nodes into the denormalized row set the
// storage layer persists: issues with their project snapshot inlined,
// projects with counts and gap flags, and per-assignee engineer
// aggregates.
func BuildRows(apiIssues []apiIssue, apiProjects []apiProject, now time.Time) ([]types.Issue, []types.Project, []types.Engineer) {
	projects := make([]types.Project, 0, len(apiProjects))
	projectByID := make(map[string]*types.Project, len(apiProjects))
	for _, ap := range apiProjects {
		projects = append(projects, convertProject(&ap))
	}
	for idx := range projects {
		projectByID[projects[idx].ID] = &projects[idx]
	}

	issues := make([]types.Issue, 0, len(apiIssues))
	for _, ai := range apiIssues {
		issue := convertIssue(&ai)
		if p, ok := projectByID[issue.ProjectID]; ok {
			p.TotalIssues++
			if issue.IsStarted() {
				p.InProgressIssues++
			}
			issue.ProjectName = p.Name
			issue.ProjectState = p.State
			issue.ProjectStateCategory = p.StateCategory
			issue.ProjectHealth = p.Health
			issue.ProjectUpdatedAt = p.UpdatedAt
			issue.ProjectLeadName = p.LeadName
			issue.ProjectTargetDate = p.TargetDate
			issue.ProjectEstimatedEndDate = p.EstimatedEndDate
		}
		issues = append(issues, issue)
	}

	// Gap flags that depend on issue counts are fixed after the join.
	for idx := range projects {
		finalizeProjectFlags(&projects[idx], now)
	}

	return issues, projects, buildEngineers(issues, now)
}

func convertIssue(ai *apiIssue) types.Issue {
	issue := types.Issue{
		ID:        ai.ID,
		Title:     ai.Title,
		Priority:  ai.Priority,
		CreatedAt: parseTime(ai.CreatedAt),
		UpdatedAt: parseTime(ai.UpdatedAt),
	}
	if ai.Estimate != nil {
		issue.Estimate = *ai.Estimate
	}
	if t := parseTime(ai.CompletedAt); !t.IsZero() {
		issue.CompletedAt = &t
	}
	if ai.Team != nil {
		issue.TeamID = ai.Team.ID
		issue.TeamName = ai.Team.Name
		issue.TeamKey = ai.Team.Key
	}
	if ai.State != nil {
		issue.StateID = ai.State.ID
		issue.StateName = ai.State.Name
		issue.StateType = ai.State.Type
	}
	if ai.Assignee != nil {
		issue.AssigneeID = ai.Assignee.ID
		issue.AssigneeName = ai.Assignee.Name
	}
	if ai.Project != nil {
		issue.ProjectID = ai.Project.ID
	}
	if len(ai.Comments.Nodes) > 0 {
		if t := parseTime(ai.Comments.Nodes[0].CreatedAt); !t.IsZero() {
			issue.LastCommentAt = &t
		}
	}

	labels := make([]types.Label, 0, len(ai.Labels.Nodes))
	for _, l := range ai.Labels.Nodes {
		label := types.Label{Name: l.Name}
		if l.Parent != nil {
			label.ParentName = l.Parent.Name
		}
		labels = append(labels, label)
	}
	issue.Labels = encodeLabels(labels)
	return issue
}

func convertProject(ap *apiProject) types.Project {
	p := types.Project{
		ID:            ap.ID,
		Name:          ap.Name,
		State:         ap.State,
		StateCategory: projectStateCategory(ap.State),
		Health:        ap.Health,
	}
	if t := parseTime(ap.TargetDate); !t.IsZero() {
		p.TargetDate = &t
	}
	if t := parseTime(ap.EstimatedEndDate); !t.IsZero() {
		p.EstimatedEndDate = &t
	}
	if t := parseTime(ap.UpdatedAt); !t.IsZero() {
		p.UpdatedAt = &t
	}
	if ap.Lead != nil {
		p.LeadName = ap.Lead.Name
	}

	var keys []string
	for _, t := range ap.Teams.Nodes {
		if t.Key != "" {
			keys = append(keys, t.Key)
		}
	}
	p.TeamKeys = types.EncodeStringList(keys)

	var names []string
	for _, m := range ap.Members.Nodes {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	p.Engineers = types.EncodeStringList(names)

	return p
}

// finalizeProjectFlags fills the five hygiene gap flags once the issue
// counts are known.
func finalizeProjectFlags(p *types.Project, now time.Time) {
	if p.LeadName == "" {
		p.MissingLead = 1
	}
	if p.Health == "" {
		p.MissingHealth = 1
	}
	if p.UpdatedAt == nil || now.Sub(*p.UpdatedAt) > staleUpdateAge {
		p.StaleUpdate = 1
	}
	if p.TargetDate != nil && p.EstimatedEndDate != nil &&
		p.EstimatedEndDate.Sub(*p.TargetDate) > dateDiscrepancyLimit {
		p.DateDiscrepancy = 1
	}

	// A project whose tracked state disagrees with its actual issue
	// activity: marked done with work still in flight, or marked started
	// with nothing moving.
	started := p.StateCategory == "started"
	done := p.StateCategory == "completed" || p.StateCategory == "canceled"
	if (done && p.InProgressIssues > 0) || (started && p.InProgressIssues == 0) {
		p.StatusMismatch = 1
	}
}

// buildEngineers derives one aggregate row per assignee from the issue
// rows. Only started issues count toward WIP and gaps.
func buildEngineers(issues []types.Issue, now time.Time) []types.Engineer {
	byAssignee := map[string]*types.Engineer{}
	teamsByAssignee := map[string]map[string]bool{}
	projectsByAssignee := map[string]map[string]bool{}

	for _, i := range issues {
		if i.AssigneeID == "" {
			continue
		}
		e, ok := byAssignee[i.AssigneeID]
		if !ok {
			e = &types.Engineer{ID: i.AssigneeID, Name: i.AssigneeName}
			byAssignee[i.AssigneeID] = e
			teamsByAssignee[i.AssigneeID] = map[string]bool{}
			projectsByAssignee[i.AssigneeID] = map[string]bool{}
		}
		if i.TeamKey != "" {
			teamsByAssignee[i.AssigneeID][i.TeamKey] = true
		}

		if !i.IsStarted() {
			continue
		}

		e.WipIssueCount++
		if i.ProjectID != "" {
			projectsByAssignee[i.AssigneeID][i.ProjectID] = true
		}
		if i.Estimate == 0 {
			e.MissingEstimateCount++
		}
		if i.Priority == 0 {
			e.MissingPriorityCount++
		}
		if i.LastCommentAt == nil || now.Sub(*i.LastCommentAt) > commentStaleness {
			e.NoRecentCommentCount++
		}
		if now.Sub(i.CreatedAt) > wipAgeLimit {
			e.WipAgeViolationCount++
		}
	}

	engineers := make([]types.Engineer, 0, len(byAssignee))
	for id, e := range byAssignee {
		e.WipLimitViolation = e.WipIssueCount > wipLimit
		e.MultiProjectViolation = len(projectsByAssignee[id]) > 1

		teams := make([]string, 0, len(teamsByAssignee[id]))
		for t := range teamsByAssignee[id] {
			teams = append(teams, t)
		}
		sort.Strings(teams)
		e.Teams = types.EncodeStringList(teams)

		engineers = append(engineers, *e)
	}

	sort.Slice(engineers, func(a, b int) bool {
		return strings.ToLower(engineers[a].Name) < strings.ToLower(engineers[b].Name)
	})
	return engineers
}

// projectStateCategory folds Linear project states into the coarse
// categories the velocity pillar filters on.
func projectStateCategory(state string) string {
	switch strings.ToLower(state) {
	case "started", "inprogress", "in progress":
		return "started"
	case "completed":
		return "completed"
	case "canceled", "cancelled":
		return "canceled"
	case "paused":
		return "paused"
	case "planned", "backlog":
		return "planned"
	}
	return state
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func encodeLabels(labels []types.Label) string {
	if len(labels) == 0 {
		return "[]"
	}
	b, err := json.Marshal(labels)
	if err != nil {
		return "[]"
	}
	return string(b)
}
