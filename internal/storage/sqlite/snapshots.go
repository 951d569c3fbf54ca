package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/teamlens/teamlens/internal/types"
)

// InsertMetricsSnapshot appends one snapshot to the history. The full
// snapshot is stored as JSON; level/level_id/captured_at are lifted into
// columns for querying.
func (s *SQLiteStorage) InsertMetricsSnapshot(ctx context.Context, snap *types.MetricsSnapshotV1) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO metrics_snapshots (schema_version, level, level_id, captured_at, metrics_json)
		VALUES (?, ?, ?, ?, ?)
	`, snap.SchemaVersion, string(snap.Level), snap.LevelID, encodeTime(snap.CapturedAt), string(payload))
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// GetLatestSnapshot returns the newest snapshot for a scope, or nil when
// none has been captured.
func (s *SQLiteStorage) GetLatestSnapshot(ctx context.Context, level, levelID string) (*types.MetricsSnapshotV1, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT metrics_json FROM metrics_snapshots
		WHERE level = ? AND level_id = ?
		ORDER BY captured_at DESC, id DESC
		LIMIT 1
	`, level, levelID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}
	return decodeSnapshot(payload)
}

// GetSnapshotTrend returns a scope's snapshots captured at or after since,
// oldest first.
func (s *SQLiteStorage) GetSnapshotTrend(ctx context.Context, level, levelID string, since time.Time) ([]*types.MetricsSnapshotV1, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT metrics_json FROM metrics_snapshots
		WHERE level = ? AND level_id = ? AND captured_at >= ?
		ORDER BY captured_at ASC, id ASC
	`, level, levelID, encodeTime(since))
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot trend: %w", err)
	}
	defer rows.Close()

	var snaps []*types.MetricsSnapshotV1
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap, err := decodeSnapshot(payload)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func decodeSnapshot(payload string) (*types.MetricsSnapshotV1, error) {
	var snap types.MetricsSnapshotV1
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
