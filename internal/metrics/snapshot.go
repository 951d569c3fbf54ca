package metrics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/teamlens/teamlens/internal/types"
)

// SnapshotStore is the slice of the storage collaborator the orchestrator
// reads rows from and writes snapshots to.
type SnapshotStore interface {
	GetAllIssues(ctx context.Context) ([]types.Issue, error)
	GetAllProjects(ctx context.Context) ([]types.Project, error)
	GetAllEngineers(ctx context.Context) ([]types.Engineer, error)
	GetSyncMetadata(ctx context.Context) (*types.SyncMetadata, error)
	InsertMetricsSnapshot(ctx context.Context, snap *types.MetricsSnapshotV1) error
}

// DomainMapper supplies the configured domain → team-key expansion.
type DomainMapper interface {
	Domains() []string
	TeamsForDomain(domain string) []string
}

// ProductivitySource fetches per-external-team throughput records. The
// fetch happens once per capture run and is reused across scopes.
type ProductivitySource interface {
	FetchProductivityMetrics(ctx context.Context) ([]ThroughputRecord, error)
}

// Config calibrates a capture run. It is passed in explicitly so the
// calculators stay pure; nothing in this package reads ambient process
// state.
type Config struct {
	// EngineerTeams is the explicit engineer→team-keys mapping. When
	// non-empty it is authoritative both for scope membership and for the
	// per-scope engineer counts fed into productivity normalization.
	EngineerTeams map[string][]string

	// ThroughputTarget is the per-engineer throughput target per 14-day
	// period; <=0 uses the default.
	ThroughputTarget float64

	// ProductivityTeamNames maps a scope ID (domain name or team key) to
	// the external-team names its throughput records carry, for sources
	// whose team naming differs from ours. Unmapped scopes match records
	// by direct case-insensitive name equality.
	ProductivityTeamNames map[string][]string
}

// Engine composes the five pillar calculators into per-scope snapshots and
// persists them. It is the only component with cross-cutting knowledge,
// e.g. feeding the workload pillar's IC count into productivity.
type Engine struct {
	store   SnapshotStore
	domains DomainMapper
	prod    ProductivitySource // may be nil when no source is configured
	cfg     Config
	log     zerolog.Logger
	nowFn   func() time.Time
}

// NewEngine creates a snapshot engine. prod may be nil; the productivity
// pillar then reports pending for every scope.
func NewEngine(store SnapshotStore, domains DomainMapper, prod ProductivitySource, cfg Config, log zerolog.Logger) *Engine {
	return &Engine{
		store:   store,
		domains: domains,
		prod:    prod,
		cfg:     cfg,
		log:     log,
		nowFn:   time.Now,
	}
}

// CaptureResult summarizes one capture run.
type CaptureResult struct {
	SnapshotsWritten int
	ScopesFailed     int
}

// CaptureAll captures one snapshot for the org, each configured domain, and
// each team key observed in current project data. A failure in one scope
// never prevents capture for the others; the error returned joins every
// per-scope failure.
func (e *Engine) CaptureAll(ctx context.Context) (CaptureResult, error) {
	var res CaptureResult

	data, err := e.loadRows(ctx)
	if err != nil {
		return res, err
	}

	records, prodErr := e.fetchProductivity(ctx)
	if prodErr != nil {
		e.log.Warn().Err(prodErr).Msg("productivity source unavailable, pillar degrades to pending")
	}

	var errs []error
	for _, scope := range e.scopes(data.projects) {
		snap := e.buildSnapshot(scope, data, records, prodErr != nil)
		if err := e.store.InsertMetricsSnapshot(ctx, snap); err != nil {
			res.ScopesFailed++
			errs = append(errs, fmt.Errorf("capturing %s/%s: %w", scope.Level, scope.ID, err))
			e.log.Error().Err(err).Str("level", string(scope.Level)).Str("id", scope.ID).Msg("snapshot capture failed")
			continue
		}
		res.SnapshotsWritten++
	}

	e.log.Info().Int("written", res.SnapshotsWritten).Int("failed", res.ScopesFailed).Msg("snapshot capture complete")
	return res, errors.Join(errs...)
}

// CaptureScope captures a single snapshot for one level/id. An invalid
// level falls back to org-level behavior rather than erroring.
func (e *Engine) CaptureScope(ctx context.Context, level, levelID string) (*types.MetricsSnapshotV1, error) {
	data, err := e.loadRows(ctx)
	if err != nil {
		return nil, err
	}

	records, prodErr := e.fetchProductivity(ctx)
	if prodErr != nil {
		e.log.Warn().Err(prodErr).Msg("productivity source unavailable, pillar degrades to pending")
	}

	scope := e.resolveScope(level, levelID)
	snap := e.buildSnapshot(scope, data, records, prodErr != nil)
	if err := e.store.InsertMetricsSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("capturing %s/%s: %w", scope.Level, scope.ID, err)
	}
	return snap, nil
}

type rowSet struct {
	issues    []types.Issue
	projects  []types.Project
	engineers []types.Engineer
	syncedAt  *time.Time
}

func (e *Engine) loadRows(ctx context.Context) (*rowSet, error) {
	issues, err := e.store.GetAllIssues(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading issues: %w", err)
	}
	projects, err := e.store.GetAllProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	engineers, err := e.store.GetAllEngineers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading engineers: %w", err)
	}

	data := &rowSet{issues: issues, projects: projects, engineers: engineers}
	if meta, err := e.store.GetSyncMetadata(ctx); err == nil && meta != nil {
		t := meta.LastSyncTime
		data.syncedAt = &t
	}
	return data, nil
}

func (e *Engine) fetchProductivity(ctx context.Context) ([]ThroughputRecord, error) {
	if e.prod == nil {
		return nil, errors.New("no productivity source configured")
	}
	return e.prod.FetchProductivityMetrics(ctx)
}

// scopes enumerates the org, every configured domain, and every team key
// observed in current project rows, in deterministic order.
func (e *Engine) scopes(projects []types.Project) []Scope {
	scopes := []Scope{OrgScope()}

	if e.domains != nil {
		domains := append([]string(nil), e.domains.Domains()...)
		sort.Strings(domains)
		for _, d := range domains {
			scopes = append(scopes, Scope{
				Level:    types.LevelDomain,
				ID:       d,
				TeamKeys: e.domains.TeamsForDomain(d),
			})
		}
	}

	seen := map[string]string{}
	for _, p := range projects {
		for _, key := range p.TeamKeyList() {
			lower := strings.ToLower(strings.TrimSpace(key))
			if lower == "" {
				continue
			}
			if _, ok := seen[lower]; !ok {
				seen[lower] = strings.TrimSpace(key)
			}
		}
	}
	teamKeys := make([]string, 0, len(seen))
	for lower := range seen {
		teamKeys = append(teamKeys, lower)
	}
	sort.Strings(teamKeys)
	for _, lower := range teamKeys {
		key := seen[lower]
		scopes = append(scopes, Scope{Level: types.LevelTeam, ID: key, TeamKeys: []string{key}})
	}
	return scopes
}

func (e *Engine) resolveScope(level, levelID string) Scope {
	switch types.ParseSnapshotLevel(level) {
	case types.LevelTeam:
		return Scope{Level: types.LevelTeam, ID: levelID, TeamKeys: []string{levelID}}
	case types.LevelDomain:
		var keys []string
		if e.domains != nil {
			keys = e.domains.TeamsForDomain(levelID)
		}
		return Scope{Level: types.LevelDomain, ID: levelID, TeamKeys: keys}
	}
	return OrgScope()
}

// buildSnapshot runs all five calculators over the scoped row subsets and
// assembles the versioned snapshot. Pure except for the clock.
func (e *Engine) buildSnapshot(scope Scope, data *rowSet, records []ThroughputRecord, prodUnavailable bool) *types.MetricsSnapshotV1 {
	now := e.nowFn().UTC()

	projects := FilterProjects(data.projects, scope)
	issues := FilterIssues(data.issues, scope)
	engineers := FilterEngineers(data.engineers, data.projects, scope, e.cfg.EngineerTeams)

	teamHealth := CalculateTeamHealth(engineers, projects)
	engineerCount := e.resolveEngineerCount(scope, teamHealth)

	snap := &types.MetricsSnapshotV1{
		SchemaVersion: types.SnapshotSchemaVersion,
		Level:         scope.Level,
		LevelID:       scope.ID,
		CapturedAt:    now,
		SyncedAt:      data.syncedAt,
		TeamHealth:    teamHealth,
		ProjectHealth: CalculateProjectHealth(projects),
		Quality:       CalculateQuality(issues, engineerCount, now),
		Tactical:      CalculateTactical(engineers, projects),
	}

	if prodUnavailable {
		snap.Productivity = PendingProductivity("productivity source unavailable")
	} else {
		snap.Productivity = CalculateProductivity(records, ProductivityOptions{
			Level:           scope.Level,
			TeamNames:       e.productivityNames(scope),
			EngineerCount:   engineerCount,
			TargetPerPeriod: e.cfg.ThroughputTarget,
		})
	}
	return snap
}

// resolveEngineerCount prefers the explicit engineer→team mapping for the
// scope's IC count and falls back to the workload pillar's active-IC count.
func (e *Engine) resolveEngineerCount(scope Scope, teamHealth types.TeamHealthMetrics) int {
	if len(e.cfg.EngineerTeams) == 0 {
		return teamHealth.ActiveEngineers
	}
	if scope.Unscoped() {
		return len(e.cfg.EngineerTeams)
	}
	set := keySet(scope.TeamKeys)
	count := 0
	for _, teams := range e.cfg.EngineerTeams {
		if containsAnyKey(set, teams) {
			count++
		}
	}
	return count
}

// productivityNames resolves which external-team names count toward a
// scope: the explicit name mapping first, else the scope's own team keys.
func (e *Engine) productivityNames(scope Scope) []string {
	if scope.Unscoped() {
		return nil
	}
	if names := lookupFold(e.cfg.ProductivityTeamNames, scope.ID); len(names) > 0 {
		return names
	}
	return scope.TeamKeys
}
