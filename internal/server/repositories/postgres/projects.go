package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vibbra/hourglass/internal/dbx"
	"github.com/vibbra/hourglass/internal/server/models"
	"github.com/vibbra/hourglass/internal/server/repositories"
)

// ProjectMapper maps models.Project to the projects table and owns the
// project_users membership rows.
type ProjectMapper struct{}

func (ProjectMapper) Table() string { return "projects" }

func (ProjectMapper) SelectSQL() string {
	return `SELECT id, title, description, created_at, updated_at, deleted_at
	        FROM projects
	        WHERE deleted_at IS NULL
	        ORDER BY id`
}

func (ProjectMapper) Scan(rows *sql.Rows) (*models.Project, error) {
	p := &models.Project{}
	var updatedAt, deletedAt sql.NullTime
	if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}
	p.UpdatedAt = nullableTime(updatedAt)
	p.DeletedAt = nullableTime(deletedAt)
	return p, nil
}

func (ProjectMapper) InsertSQL() string {
	return `INSERT INTO projects (title, description, created_at)
	        VALUES ($1, $2, $3)
	        RETURNING id`
}

func (ProjectMapper) InsertArgs(p *models.Project) []any {
	return []any{p.Title, p.Description, p.CreatedAt}
}

func (ProjectMapper) UpdateSQL() string {
	return `UPDATE projects
	        SET title = $1, description = $2, updated_at = $3
	        WHERE id = $4`
}

func (ProjectMapper) UpdateArgs(p *models.Project) []any {
	return []any{p.Title, p.Description, p.UpdatedAt, p.ID}
}

// LoadRelation eager-loads project members or time entries for the given
// projects with one query per relation.
func (m ProjectMapper) LoadRelation(ctx context.Context, db dbx.DBTX, name string, items []*models.Project) error {
	ids := make([]int64, len(items))
	byID := make(map[int64]*models.Project, len(items))
	for i, p := range items {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	switch name {
	case repositories.RelationUsers:
		return m.loadUsers(ctx, db, ids, byID)
	case repositories.RelationTimes:
		return m.loadTimes(ctx, db, ids, byID)
	default:
		return fmt.Errorf("unknown relation %q for projects", name)
	}
}

func (ProjectMapper) loadUsers(ctx context.Context, db dbx.DBTX, ids []int64, byID map[int64]*models.Project) error {
	query := `SELECT pu.project_id, u.id, u.name, u.email, u.login, u.password, u.created_at, u.updated_at, u.deleted_at
	          FROM project_users pu
	          JOIN users u ON u.id = pu.user_id
	          WHERE u.deleted_at IS NULL AND pu.project_id = ANY($1)
	          ORDER BY u.id`

	rows, err := db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID int64
		u := &models.User{}
		var updatedAt, deletedAt sql.NullTime
		if err := rows.Scan(&projectID, &u.ID, &u.Name, &u.Email, &u.Login, &u.Password, &u.CreatedAt, &updatedAt, &deletedAt); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		u.UpdatedAt = nullableTime(updatedAt)
		u.DeletedAt = nullableTime(deletedAt)
		if p, ok := byID[projectID]; ok {
			p.Users = append(p.Users, u)
		}
	}
	return rows.Err()
}

func (ProjectMapper) loadTimes(ctx context.Context, db dbx.DBTX, ids []int64, byID map[int64]*models.Project) error {
	query := `SELECT id, started_at, ended_at, user_id, project_id, created_at, updated_at, deleted_at
	          FROM times
	          WHERE deleted_at IS NULL AND project_id = ANY($1)
	          ORDER BY id`

	rows, err := db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := (TimeEntryMapper{}).Scan(rows)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if p, ok := byID[entry.ProjectID]; ok {
			p.Times = append(p.Times, entry)
		}
	}
	return rows.Err()
}

// SaveRelations replaces the membership rows with the project's current user
// set. Runs inside the commit transaction, after the project row itself.
func (ProjectMapper) SaveRelations(ctx context.Context, tx dbx.DBTX, p *models.Project) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM project_users WHERE project_id = $1`, p.ID); err != nil {
		return err
	}
	for _, u := range p.Users {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_users (project_id, user_id) VALUES ($1, $2)`, p.ID, u.ID); err != nil {
			return err
		}
	}
	return nil
}
