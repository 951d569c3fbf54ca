// Package server exposes snapshots and admin operations over HTTP.
package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/teamlens/teamlens/internal/types"
)

// SnapshotReader is the slice of storage the API reads from.
type SnapshotReader interface {
	GetLatestSnapshot(ctx context.Context, level, levelID string) (*types.MetricsSnapshotV1, error)
	GetSnapshotTrend(ctx context.Context, level, levelID string, since time.Time) ([]*types.MetricsSnapshotV1, error)
	GetSyncMetadata(ctx context.Context) (*types.SyncMetadata, error)
}

// Runner triggers a sync+capture cycle. Implementations are expected to
// skip rather than queue when a run is already in flight.
type Runner interface {
	RunSyncAndCapture(ctx context.Context) error
}

// NewRouter builds the HTTP API.
func NewRouter(store SnapshotReader, runner Runner, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("m", c.Request.Method).
			Str("p", c.FullPath()).
			Int("s", c.Writer.Status()).
			Dur("d", time.Since(start)).
			Msg("http")
	})

	h := &handlers{store: store, runner: runner, log: log}

	r.GET("/healthz", h.healthz)
	r.GET("/api/snapshots/latest", h.latestSnapshot)
	r.GET("/api/snapshots/trend", h.snapshotTrend)
	r.GET("/admin/last-run", h.lastRun)
	r.POST("/admin/run", h.runNow)

	return r
}
