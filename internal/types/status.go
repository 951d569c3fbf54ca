package types

import "strings"

// HealthStatus is the classified state of one health pillar.
type HealthStatus string

const (
	StatusHealthy  HealthStatus = "healthy"
	StatusWarning  HealthStatus = "warning"
	StatusCritical HealthStatus = "critical"

	// StatusUnknown means the inputs needed to classify were absent
	// (e.g. no engineer count for per-IC normalization).
	StatusUnknown HealthStatus = "unknown"

	// StatusPending means the upstream integration does not support this
	// granularity yet. Distinct from unknown: the data could never have
	// existed, rather than happened to be missing.
	StatusPending HealthStatus = "pending"
)

// IsValid checks if the status value is valid.
func (s HealthStatus) IsValid() bool {
	switch s {
	case StatusHealthy, StatusWarning, StatusCritical, StatusUnknown, StatusPending:
		return true
	}
	return false
}

// severityRank orders the three classified statuses. Unknown and pending
// rank below healthy: absence of data never escalates a pillar.
func severityRank(s HealthStatus) int {
	switch s {
	case StatusCritical:
		return 3
	case StatusWarning:
		return 2
	case StatusHealthy:
		return 1
	}
	return 0
}

// Worse returns the more severe of two statuses using the ordering
// healthy < warning < critical.
func Worse(a, b HealthStatus) HealthStatus {
	if severityRank(b) > severityRank(a) {
		return b
	}
	return a
}

// ProjectHealth is the three-value project trajectory vocabulary shared by
// human-entered status and calculated velocity.
type ProjectHealth string

const (
	HealthOnTrack  ProjectHealth = "onTrack"
	HealthAtRisk   ProjectHealth = "atRisk"
	HealthOffTrack ProjectHealth = "offTrack"
)

// IsValid checks if the project health value is valid.
func (h ProjectHealth) IsValid() bool {
	switch h {
	case HealthOnTrack, HealthAtRisk, HealthOffTrack:
		return true
	}
	return false
}

// IsPessimistic reports whether the health value signals trouble. Pessimistic
// signals always win during hybrid reconciliation, whatever their source.
func (h ProjectHealth) IsPessimistic() bool {
	return h == HealthAtRisk || h == HealthOffTrack
}

// SnapshotLevel is the aggregation granularity of a metrics snapshot.
type SnapshotLevel string

const (
	LevelOrg    SnapshotLevel = "org"
	LevelDomain SnapshotLevel = "domain"
	LevelTeam   SnapshotLevel = "team"
)

// ParseSnapshotLevel normalizes a level string. Unrecognized input falls
// back to org-level rather than erroring.
func ParseSnapshotLevel(s string) SnapshotLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "team":
		return LevelTeam
	case "domain":
		return LevelDomain
	}
	return LevelOrg
}
