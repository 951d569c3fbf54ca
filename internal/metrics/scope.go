package metrics

import (
	"strings"

	"github.com/teamlens/teamlens/internal/types"
)

// Scope identifies one aggregation granularity for a snapshot run. An empty
// TeamKeys slice means "everything" (the org scope); domain scopes expand to
// their member team keys before filtering.
type Scope struct {
	Level    types.SnapshotLevel
	ID       string
	TeamKeys []string
}

// OrgScope is the whole-organization scope.
func OrgScope() Scope {
	return Scope{Level: types.LevelOrg, ID: "org"}
}

// Unscoped reports whether the scope covers all rows.
func (s Scope) Unscoped() bool {
	return len(s.TeamKeys) == 0
}

// keySet builds a lowercase membership set; team key matching is
// case-insensitive everywhere.
func keySet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			set[k] = true
		}
	}
	return set
}

func containsAnyKey(set map[string]bool, keys []string) bool {
	for _, k := range keys {
		if set[strings.ToLower(strings.TrimSpace(k))] {
			return true
		}
	}
	return false
}

// FilterProjects returns the projects belonging to any of the scope's team
// keys. Scoping is a pure filter over the org-wide collection: team and
// domain metrics must be derivable from the same rows the org sees.
func FilterProjects(projects []types.Project, scope Scope) []types.Project {
	if scope.Unscoped() {
		return projects
	}
	set := keySet(scope.TeamKeys)
	var out []types.Project
	for _, p := range projects {
		if containsAnyKey(set, p.TeamKeyList()) {
			out = append(out, p)
		}
	}
	return out
}

// FilterIssues returns the issues whose team key falls inside the scope.
func FilterIssues(issues []types.Issue, scope Scope) []types.Issue {
	if scope.Unscoped() {
		return issues
	}
	set := keySet(scope.TeamKeys)
	var out []types.Issue
	for _, i := range issues {
		if set[strings.ToLower(strings.TrimSpace(i.TeamKey))] {
			out = append(out, i)
		}
	}
	return out
}

// FilterEngineers returns the engineers belonging to the scope. When an
// explicit engineer→team mapping is configured it is authoritative;
// otherwise membership falls back to the engineer's own team list, and
// finally to appearing in a scoped project's participant list.
func FilterEngineers(engineers []types.Engineer, projects []types.Project, scope Scope, mapping map[string][]string) []types.Engineer {
	if scope.Unscoped() {
		return engineers
	}
	set := keySet(scope.TeamKeys)

	if len(mapping) > 0 {
		var out []types.Engineer
		for _, e := range engineers {
			if containsAnyKey(set, lookupFold(mapping, e.Name)) {
				out = append(out, e)
			}
		}
		return out
	}

	// Name-based fallback: engineer's team list, then project participation.
	participants := map[string]bool{}
	for _, p := range FilterProjects(projects, scope) {
		for _, name := range p.EngineerList() {
			participants[strings.ToLower(strings.TrimSpace(name))] = true
		}
	}

	var out []types.Engineer
	for _, e := range engineers {
		if containsAnyKey(set, e.TeamList()) || participants[strings.ToLower(strings.TrimSpace(e.Name))] {
			out = append(out, e)
		}
	}
	return out
}

// lookupFold fetches a map entry by case-insensitive key.
func lookupFold(m map[string][]string, key string) []string {
	if v, ok := m[key]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}
