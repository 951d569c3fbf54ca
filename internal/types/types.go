package types

import (
	"encoding/json"
	"strings"
	"time"
)

// Issue is one synced row from the tracker. List-valued fields arrive as
// JSON-encoded strings and stay that way on the row; accessors decode them
// tolerantly so one corrupt row never aborts an aggregation.
type Issue struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	TeamID        string     `json:"team_id,omitempty"`
	TeamName      string     `json:"team_name,omitempty"`
	TeamKey       string     `json:"team_key,omitempty"`
	StateID       string     `json:"state_id,omitempty"`
	StateName     string     `json:"state_name,omitempty"`
	StateType     string     `json:"state_type"` // backlog|unstarted|started|completed|canceled
	AssigneeID    string     `json:"assignee_id,omitempty"`
	AssigneeName  string     `json:"assignee_name,omitempty"`
	Priority      int        `json:"priority"` // 0 = none
	Estimate      float64    `json:"estimate"` // 0 = missing
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	LastCommentAt *time.Time `json:"last_comment_at,omitempty"`

	// Labels is the JSON-encoded label list, e.g.
	// [{"name":"bug","parentName":"type"}].
	Labels string `json:"labels,omitempty"`

	// Denormalized project snapshot, empty when the issue has no project.
	ProjectID               string     `json:"project_id,omitempty"`
	ProjectName             string     `json:"project_name,omitempty"`
	ProjectState            string     `json:"project_state,omitempty"`
	ProjectStateCategory    string     `json:"project_state_category,omitempty"`
	ProjectHealth           string     `json:"project_health,omitempty"`
	ProjectUpdatedAt        *time.Time `json:"project_updated_at,omitempty"`
	ProjectLeadName         string     `json:"project_lead_name,omitempty"`
	ProjectTargetDate       *time.Time `json:"project_target_date,omitempty"`
	ProjectEstimatedEndDate *time.Time `json:"project_estimated_end_date,omitempty"`

	InitiativeID   string `json:"initiative_id,omitempty"`
	InitiativeName string `json:"initiative_name,omitempty"`
}

// Label is one entry of an issue's label list.
type Label struct {
	Name       string `json:"name"`
	ParentName string `json:"parentName,omitempty"`
}

// LabelList decodes the JSON-encoded label list. Malformed JSON yields an
// empty list, never an error.
func (i *Issue) LabelList() []Label {
	if strings.TrimSpace(i.Labels) == "" {
		return nil
	}
	var labels []Label
	if err := json.Unmarshal([]byte(i.Labels), &labels); err != nil {
		return nil
	}
	return labels
}

// IsDone reports whether the issue's workflow state is terminal.
func (i *Issue) IsDone() bool {
	return i.StateType == "completed" || i.StateType == "canceled"
}

// IsStarted reports whether the issue is currently in progress.
func (i *Issue) IsStarted() bool {
	return i.StateType == "started"
}

// Project is one synced project row, including the gap flags precomputed
// during sync.
type Project struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	State            string     `json:"state,omitempty"`
	StateCategory    string     `json:"state_category,omitempty"`
	Health           string     `json:"health,omitempty"` // raw human-entered text, may be empty
	TargetDate       *time.Time `json:"target_date,omitempty"`
	EstimatedEndDate *time.Time `json:"estimated_end_date,omitempty"`
	LeadName         string     `json:"lead_name,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`

	// TeamKeys and Engineers are JSON-encoded string lists.
	TeamKeys  string `json:"team_keys,omitempty"`
	Engineers string `json:"engineers,omitempty"`

	InProgressIssues int `json:"in_progress_issues"`
	TotalIssues      int `json:"total_issues"`

	// Gap flags, 0 or 1, fixed at sync time.
	MissingLead     int `json:"missing_lead"`
	StaleUpdate     int `json:"stale_update"`
	StatusMismatch  int `json:"status_mismatch"`
	MissingHealth   int `json:"missing_health"`
	DateDiscrepancy int `json:"date_discrepancy"`
}

// TeamKeyList decodes the JSON-encoded team key list, tolerating malformed
// input as an empty list.
func (p *Project) TeamKeyList() []string {
	return ParseStringList(p.TeamKeys)
}

// EngineerList decodes the JSON-encoded assigned engineer name list.
func (p *Project) EngineerList() []string {
	return ParseStringList(p.Engineers)
}

// IsActive reports whether the project has current in-progress work.
func (p *Project) IsActive() bool {
	return p.InProgressIssues > 0
}

// GapCount sums the project's five hygiene gap flags.
func (p *Project) GapCount() int {
	return clampFlag(p.MissingLead) + clampFlag(p.StaleUpdate) +
		clampFlag(p.StatusMismatch) + clampFlag(p.MissingHealth) +
		clampFlag(p.DateDiscrepancy)
}

func clampFlag(v int) int {
	if v > 0 {
		return 1
	}
	return 0
}

// Engineer is an aggregate row, one per assignee, derived from issues during
// sync. The violation flags and gap counts are fixed upstream; the metrics
// engine never recomputes them.
type Engineer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Teams string `json:"teams,omitempty"` // JSON-encoded team name/key list

	WipIssueCount         int  `json:"wip_issue_count"`
	WipLimitViolation     bool `json:"wip_limit_violation"`
	MultiProjectViolation bool `json:"multi_project_violation"`

	MissingEstimateCount int `json:"missing_estimate_count"`
	MissingPriorityCount int `json:"missing_priority_count"`
	NoRecentCommentCount int `json:"no_recent_comment_count"`
	WipAgeViolationCount int `json:"wip_age_violation_count"`
}

// TeamList decodes the JSON-encoded team list.
func (e *Engineer) TeamList() []string {
	return ParseStringList(e.Teams)
}

// HasActiveWork reports whether the engineer has at least one WIP issue.
func (e *Engineer) HasActiveWork() bool {
	return e.WipIssueCount > 0
}

// HealthyWorkload reports whether the engineer is within both workload
// limits: the WIP issue ceiling and the single-project focus rule.
func (e *Engineer) HealthyWorkload() bool {
	return !e.WipLimitViolation && !e.MultiProjectViolation
}

// GapCount sums the engineer's four hygiene gap counters.
func (e *Engineer) GapCount() int {
	return e.MissingEstimateCount + e.MissingPriorityCount +
		e.NoRecentCommentCount + e.WipAgeViolationCount
}

// SyncMetadata records the outcome of the most recent sync cycle.
type SyncMetadata struct {
	RunID         string    `json:"run_id"`
	LastSyncTime  time.Time `json:"last_sync_time"`
	IssueCount    int       `json:"issue_count"`
	ProjectCount  int       `json:"project_count"`
	EngineerCount int       `json:"engineer_count"`
}

// ParseStringList decodes a JSON-encoded list of strings. Malformed input
// is treated as an empty list so a single corrupt row cannot abort an
// aggregation pass over the rest.
func ParseStringList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil
	}
	out := list[:0]
	for _, s := range list {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// EncodeStringList is the inverse of ParseStringList, used by the sync
// layer when writing rows.
func EncodeStringList(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(b)
}
