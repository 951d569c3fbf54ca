package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/teamlens/teamlens/internal/types"
)

// ReplaceIssues wholesale-replaces the issues table inside one transaction.
// A failed sync run therefore never leaves a half-written table behind.
func (s *SQLiteStorage) ReplaceIssues(ctx context.Context, issues []types.Issue) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM issues"); err != nil {
		return fmt.Errorf("failed to clear issues: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO issues (
			id, title, team_id, team_name, team_key,
			state_id, state_name, state_type,
			assignee_id, assignee_name, priority, estimate,
			created_at, updated_at, completed_at, last_comment_at, labels,
			project_id, project_name, project_state, project_state_category,
			project_health, project_updated_at, project_lead_name,
			project_target_date, project_estimated_end_date,
			initiative_id, initiative_name
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare issue insert: %w", err)
	}
	defer stmt.Close()

	for _, i := range issues {
		_, err := stmt.ExecContext(ctx,
			i.ID, i.Title, i.TeamID, i.TeamName, i.TeamKey,
			i.StateID, i.StateName, i.StateType,
			i.AssigneeID, i.AssigneeName, i.Priority, i.Estimate,
			encodeTime(i.CreatedAt), encodeTime(i.UpdatedAt),
			encodeTimePtr(i.CompletedAt), encodeTimePtr(i.LastCommentAt), i.Labels,
			i.ProjectID, i.ProjectName, i.ProjectState, i.ProjectStateCategory,
			i.ProjectHealth, encodeTimePtr(i.ProjectUpdatedAt), i.ProjectLeadName,
			encodeTimePtr(i.ProjectTargetDate), encodeTimePtr(i.ProjectEstimatedEndDate),
			i.InitiativeID, i.InitiativeName,
		)
		if err != nil {
			return fmt.Errorf("failed to insert issue %s: %w", i.ID, err)
		}
	}

	return tx.Commit()
}

// GetAllIssues returns every synced issue row.
func (s *SQLiteStorage) GetAllIssues(ctx context.Context) ([]types.Issue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, team_id, team_name, team_key,
			state_id, state_name, state_type,
			assignee_id, assignee_name, priority, estimate,
			created_at, updated_at, completed_at, last_comment_at, labels,
			project_id, project_name, project_state, project_state_category,
			project_health, project_updated_at, project_lead_name,
			project_target_date, project_estimated_end_date,
			initiative_id, initiative_name
		FROM issues ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query issues: %w", err)
	}
	defer rows.Close()

	var issues []types.Issue
	for rows.Next() {
		var i types.Issue
		var createdAt, updatedAt string
		var completedAt, lastCommentAt, projUpdatedAt, projTarget, projEstEnd sql.NullString
		err := rows.Scan(
			&i.ID, &i.Title, &i.TeamID, &i.TeamName, &i.TeamKey,
			&i.StateID, &i.StateName, &i.StateType,
			&i.AssigneeID, &i.AssigneeName, &i.Priority, &i.Estimate,
			&createdAt, &updatedAt, &completedAt, &lastCommentAt, &i.Labels,
			&i.ProjectID, &i.ProjectName, &i.ProjectState, &i.ProjectStateCategory,
			&i.ProjectHealth, &projUpdatedAt, &i.ProjectLeadName,
			&projTarget, &projEstEnd,
			&i.InitiativeID, &i.InitiativeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		i.CreatedAt = decodeTime(createdAt)
		i.UpdatedAt = decodeTime(updatedAt)
		i.CompletedAt = decodeTimePtr(completedAt)
		i.LastCommentAt = decodeTimePtr(lastCommentAt)
		i.ProjectUpdatedAt = decodeTimePtr(projUpdatedAt)
		i.ProjectTargetDate = decodeTimePtr(projTarget)
		i.ProjectEstimatedEndDate = decodeTimePtr(projEstEnd)
		issues = append(issues, i)
	}
	return issues, rows.Err()
}

// ReplaceProjects wholesale-replaces the projects table.
func (s *SQLiteStorage) ReplaceProjects(ctx context.Context, projects []types.Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM projects"); err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO projects (
			id, name, state, state_category, health,
			target_date, estimated_end_date, lead_name, updated_at,
			team_keys, engineers, in_progress_issues, total_issues,
			missing_lead, stale_update, status_mismatch, missing_health, date_discrepancy
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare project insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range projects {
		_, err := stmt.ExecContext(ctx,
			p.ID, p.Name, p.State, p.StateCategory, p.Health,
			encodeTimePtr(p.TargetDate), encodeTimePtr(p.EstimatedEndDate),
			p.LeadName, encodeTimePtr(p.UpdatedAt),
			p.TeamKeys, p.Engineers, p.InProgressIssues, p.TotalIssues,
			p.MissingLead, p.StaleUpdate, p.StatusMismatch, p.MissingHealth, p.DateDiscrepancy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert project %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// GetAllProjects returns every synced project row.
func (s *SQLiteStorage) GetAllProjects(ctx context.Context) ([]types.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, state, state_category, health,
			target_date, estimated_end_date, lead_name, updated_at,
			team_keys, engineers, in_progress_issues, total_issues,
			missing_lead, stale_update, status_mismatch, missing_health, date_discrepancy
		FROM projects ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []types.Project
	for rows.Next() {
		var p types.Project
		var targetDate, estEndDate, updatedAt sql.NullString
		err := rows.Scan(
			&p.ID, &p.Name, &p.State, &p.StateCategory, &p.Health,
			&targetDate, &estEndDate, &p.LeadName, &updatedAt,
			&p.TeamKeys, &p.Engineers, &p.InProgressIssues, &p.TotalIssues,
			&p.MissingLead, &p.StaleUpdate, &p.StatusMismatch, &p.MissingHealth, &p.DateDiscrepancy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		p.TargetDate = decodeTimePtr(targetDate)
		p.EstimatedEndDate = decodeTimePtr(estEndDate)
		p.UpdatedAt = decodeTimePtr(updatedAt)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ReplaceEngineers wholesale-replaces the engineers table.
func (s *SQLiteStorage) ReplaceEngineers(ctx context.Context, engineers []types.Engineer) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM engineers"); err != nil {
		return fmt.Errorf("failed to clear engineers: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO engineers (
			id, name, teams, wip_issue_count,
			wip_limit_violation, multi_project_violation,
			missing_estimate_count, missing_priority_count,
			no_recent_comment_count, wip_age_violation_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare engineer insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range engineers {
		_, err := stmt.ExecContext(ctx,
			e.ID, e.Name, e.Teams, e.WipIssueCount,
			boolToInt(e.WipLimitViolation), boolToInt(e.MultiProjectViolation),
			e.MissingEstimateCount, e.MissingPriorityCount,
			e.NoRecentCommentCount, e.WipAgeViolationCount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert engineer %s: %w", e.Name, err)
		}
	}

	return tx.Commit()
}

// GetAllEngineers returns every synced engineer row.
func (s *SQLiteStorage) GetAllEngineers(ctx context.Context) ([]types.Engineer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, teams, wip_issue_count,
			wip_limit_violation, multi_project_violation,
			missing_estimate_count, missing_priority_count,
			no_recent_comment_count, wip_age_violation_count
		FROM engineers ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query engineers: %w", err)
	}
	defer rows.Close()

	var engineers []types.Engineer
	for rows.Next() {
		var e types.Engineer
		var wipLimit, multiProject int
		err := rows.Scan(
			&e.ID, &e.Name, &e.Teams, &e.WipIssueCount,
			&wipLimit, &multiProject,
			&e.MissingEstimateCount, &e.MissingPriorityCount,
			&e.NoRecentCommentCount, &e.WipAgeViolationCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan engineer: %w", err)
		}
		e.WipLimitViolation = wipLimit != 0
		e.MultiProjectViolation = multiProject != 0
		engineers = append(engineers, e)
	}
	return engineers, rows.Err()
}

// SetSyncMetadata upserts the single sync metadata row.
func (s *SQLiteStorage) SetSyncMetadata(ctx context.Context, meta *types.SyncMetadata) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_metadata (id, run_id, last_sync_time, issue_count, project_count, engineer_count)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			run_id = excluded.run_id,
			last_sync_time = excluded.last_sync_time,
			issue_count = excluded.issue_count,
			project_count = excluded.project_count,
			engineer_count = excluded.engineer_count
	`, meta.RunID, encodeTime(meta.LastSyncTime), meta.IssueCount, meta.ProjectCount, meta.EngineerCount)
	if err != nil {
		return fmt.Errorf("failed to write sync metadata: %w", err)
	}
	return nil
}

// GetSyncMetadata returns the most recent sync run's metadata, or nil when
// no sync has completed yet.
func (s *SQLiteStorage) GetSyncMetadata(ctx context.Context) (*types.SyncMetadata, error) {
	var meta types.SyncMetadata
	var lastSync string
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, last_sync_time, issue_count, project_count, engineer_count
		FROM sync_metadata WHERE id = 1
	`).Scan(&meta.RunID, &lastSync, &meta.IssueCount, &meta.ProjectCount, &meta.EngineerCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sync metadata: %w", err)
	}
	meta.LastSyncTime = decodeTime(lastSync)
	return &meta, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
