package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/teamlens/teamlens/internal/types"
)

const defaultTrendDays = 30

type handlers struct {
	store  SnapshotReader
	runner Runner
	log    zerolog.Logger
}

func (h *handlers) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// scopeParams reads the level/id query pair. Missing values default to the
// org scope, matching the capture engine's fallback.
func scopeParams(c *gin.Context) (string, string) {
	level := c.DefaultQuery("level", string(types.LevelOrg))
	id := c.DefaultQuery("id", "org")
	return string(types.ParseSnapshotLevel(level)), id
}

func (h *handlers) latestSnapshot(c *gin.Context) {
	level, id := scopeParams(c)

	snap, err := h.store.GetLatestSnapshot(c.Request.Context(), level, id)
	if err != nil {
		h.log.Error().Err(err).Msg("latest snapshot query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot for scope"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *handlers) snapshotTrend(c *gin.Context) {
	level, id := scopeParams(c)

	days := defaultTrendDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = n
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	snaps, err := h.store.GetSnapshotTrend(c.Request.Context(), level, id, since)
	if err != nil {
		h.log.Error().Err(err).Msg("snapshot trend query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"level":     level,
		"id":        id,
		"days":      days,
		"snapshots": snaps,
	})
}

func (h *handlers) lastRun(c *gin.Context) {
	meta, err := h.store.GetSyncMetadata(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if meta == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no sync has completed"})
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (h *handlers) runNow(c *gin.Context) {
	// Detached from the request context so a closed connection cannot
	// cancel a half-finished cycle.
	go func() {
		if err := h.runner.RunSyncAndCapture(context.Background()); err != nil {
			h.log.Error().Err(err).Msg("manual run failed")
		}
	}()
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
