package types

import "time"

// SnapshotSchemaVersion tags the MetricsSnapshotV1 wire shape. Bump only
// with a new snapshot struct; historical rows are immutable.
const SnapshotSchemaVersion = 1

// MetricsSnapshotV1 is one immutable computation of all five health pillars
// for one scope. Snapshots are append-only: each capture run writes a new
// row per scope and existing rows are never mutated or merged.
type MetricsSnapshotV1 struct {
	SchemaVersion int           `json:"schemaVersion"`
	Level         SnapshotLevel `json:"level"`
	LevelID       string        `json:"levelId"`
	CapturedAt    time.Time     `json:"capturedAt"`
	SyncedAt      *time.Time    `json:"syncedAt,omitempty"`

	TeamHealth    TeamHealthMetrics    `json:"teamHealth"`
	ProjectHealth ProjectHealthMetrics `json:"projectHealth"`
	Quality       QualityMetrics       `json:"quality"`
	Tactical      TacticalMetrics      `json:"tactical"`

	// Productivity is nil when the external source returned no records at
	// all; callers must distinguish "no data available" from zero throughput.
	Productivity *ProductivityMetrics `json:"productivity,omitempty"`
}

// TeamHealthMetrics is the WIP/workload pillar: how many ICs are inside
// healthy work-in-progress limits, and which projects those violations touch.
type TeamHealthMetrics struct {
	ActiveEngineers       int     `json:"activeEngineers"`
	HealthyEngineers      int     `json:"healthyEngineers"`
	HealthyPercent        float64 `json:"healthyPercent"`
	WipLimitViolators     int     `json:"wipLimitViolators"`
	MultiProjectViolators int     `json:"multiProjectViolators"`

	ActiveProjects   int     `json:"activeProjects"`
	ImpactedProjects int     `json:"impactedProjects"`
	ImpactedPercent  float64 `json:"impactedPercent"`

	Status HealthStatus `json:"status"`
}

// ProjectVelocity is the per-project velocity verdict, carrying enough
// provenance for the UI to explain why a project shows a given status.
type ProjectVelocity struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	RawLinearHealth  string        `json:"rawLinearHealth,omitempty"`
	CalculatedHealth ProjectHealth `json:"calculatedHealth"`
	EffectiveHealth  ProjectHealth `json:"effectiveHealth"`
	DaysOffTarget    *int          `json:"daysOffTarget,omitempty"`
	HealthSource     string        `json:"healthSource"` // "human" | "velocity"
}

// ProjectHealthMetrics is the velocity pillar: human-reported status
// reconciled against calculated trajectory across all active projects.
type ProjectHealthMetrics struct {
	ActiveProjects int `json:"activeProjects"`
	OnTrack        int `json:"onTrack"`
	AtRisk         int `json:"atRisk"`
	OffTrack       int `json:"offTrack"`

	OnTrackPercent float64           `json:"onTrackPercent"`
	Projects       []ProjectVelocity `json:"projects"`

	Status HealthStatus `json:"status"`
}

// QualityMetrics is the bug-debt pillar: open bug load, trailing-window
// churn, and age, composed into one 0-100 score.
type QualityMetrics struct {
	OpenBugs   int `json:"openBugs"`
	BugsOpened int `json:"bugsOpened"`
	BugsClosed int `json:"bugsClosed"`
	NetChange  int `json:"netChange"`

	AvgAgeDays float64 `json:"avgAgeDays"`
	MaxAgeDays float64 `json:"maxAgeDays"`

	BugScore  float64 `json:"bugScore"`
	NetScore  float64 `json:"netScore"`
	AgeScore  float64 `json:"ageScore"`
	Composite int     `json:"composite"`

	Status HealthStatus `json:"status"`
}

// TacticalMetrics is the hygiene pillar: discrete gap conditions counted
// against the theoretical maximum for the active work in scope.
type TacticalMetrics struct {
	EngineerGaps    int `json:"engineerGaps"`
	ProjectGaps     int `json:"projectGaps"`
	TotalGaps       int `json:"totalGaps"`
	ActiveWipIssues int `json:"activeWipIssues"`
	ActiveProjects  int `json:"activeProjects"`
	MaxPossibleGaps int `json:"maxPossibleGaps"`

	Score  int          `json:"score"`
	Status HealthStatus `json:"status"`
}

// MeasuredProductivity is the populated variant of the productivity pillar.
type MeasuredProductivity struct {
	Throughput      float64  `json:"throughput"`
	EngineerCount   int      `json:"engineerCount"`
	PerEngineer     *float64 `json:"perEngineer,omitempty"`
	PercentOfTarget *float64 `json:"percentOfTarget,omitempty"`
}

// ProductivityMetrics is a tagged variant: Measured is nil for the pending
// and unknown cases and populated otherwise, so consumers switch on shape
// explicitly instead of probing for keys.
type ProductivityMetrics struct {
	Status   HealthStatus          `json:"status"`
	Notes    string                `json:"notes,omitempty"`
	Measured *MeasuredProductivity `json:"measured,omitempty"`
}
