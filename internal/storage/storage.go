package storage

import (
	"context"
	"time"

	"github.com/teamlens/teamlens/internal/storage/sqlite"
	"github.com/teamlens/teamlens/internal/types"
)

// Storage defines the interface for tracker-data storage backends
type Storage interface {
	// Synced rows - wholesale replacement per sync run
	ReplaceIssues(ctx context.Context, issues []types.Issue) error
	ReplaceProjects(ctx context.Context, projects []types.Project) error
	ReplaceEngineers(ctx context.Context, engineers []types.Engineer) error
	GetAllIssues(ctx context.Context) ([]types.Issue, error)
	GetAllProjects(ctx context.Context) ([]types.Project, error)
	GetAllEngineers(ctx context.Context) ([]types.Engineer, error)

	// Sync bookkeeping
	SetSyncMetadata(ctx context.Context, meta *types.SyncMetadata) error
	GetSyncMetadata(ctx context.Context) (*types.SyncMetadata, error)

	// Metrics snapshots - append-only history
	InsertMetricsSnapshot(ctx context.Context, snap *types.MetricsSnapshotV1) error
	GetLatestSnapshot(ctx context.Context, level, levelID string) (*types.MetricsSnapshotV1, error)
	GetSnapshotTrend(ctx context.Context, level, levelID string, since time.Time) ([]*types.MetricsSnapshotV1, error)

	// Lifecycle
	Close() error
}

// Config holds database configuration
type Config struct {
	// Path is the SQLite database file path
	// Default: ".teamlens/teamlens.db"
	// Special value ":memory:" creates an in-memory database (useful for tests)
	Path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path: ".teamlens/teamlens.db",
	}
}

// NewStorage creates a new SQLite storage backend
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Path == "" {
		cfg.Path = ".teamlens/teamlens.db"
	}
	return sqlite.New(cfg.Path)
}
