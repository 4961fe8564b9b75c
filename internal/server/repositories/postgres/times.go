package postgres

import (
	"database/sql"

	"github.com/vibbra/hourglass/internal/server/models"
)

// TimeEntryMapper maps models.TimeEntry to the times table.
type TimeEntryMapper struct{}

func (TimeEntryMapper) Table() string { return "times" }

func (TimeEntryMapper) SelectSQL() string {
	return `SELECT id, started_at, ended_at, user_id, project_id, created_at, updated_at, deleted_at
	        FROM times
	        WHERE deleted_at IS NULL
	        ORDER BY id`
}

func (TimeEntryMapper) Scan(rows *sql.Rows) (*models.TimeEntry, error) {
	e := &models.TimeEntry{}
	var updatedAt, deletedAt sql.NullTime
	if err := rows.Scan(&e.ID, &e.StartedAt, &e.EndedAt, &e.UserID, &e.ProjectID, &e.CreatedAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}
	e.UpdatedAt = nullableTime(updatedAt)
	e.DeletedAt = nullableTime(deletedAt)
	return e, nil
}

func (TimeEntryMapper) InsertSQL() string {
	return `INSERT INTO times (started_at, ended_at, user_id, project_id, created_at)
	        VALUES ($1, $2, $3, $4, $5)
	        RETURNING id`
}

func (TimeEntryMapper) InsertArgs(e *models.TimeEntry) []any {
	return []any{e.StartedAt, e.EndedAt, e.UserID, e.ProjectID, e.CreatedAt}
}

func (TimeEntryMapper) UpdateSQL() string {
	return `UPDATE times
	        SET started_at = $1, ended_at = $2, user_id = $3, project_id = $4, updated_at = $5
	        WHERE id = $6`
}

func (TimeEntryMapper) UpdateArgs(e *models.TimeEntry) []any {
	return []any{e.StartedAt, e.EndedAt, e.UserID, e.ProjectID, e.UpdatedAt, e.ID}
}
