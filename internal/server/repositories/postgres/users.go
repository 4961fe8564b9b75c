package postgres

import (
	"database/sql"
	"time"

	"github.com/vibbra/hourglass/internal/server/models"
)

// UserMapper maps models.User to the users table.
type UserMapper struct{}

func (UserMapper) Table() string { return "users" }

func (UserMapper) SelectSQL() string {
	return `SELECT id, name, email, login, password, created_at, updated_at, deleted_at
	        FROM users
	        WHERE deleted_at IS NULL
	        ORDER BY id`
}

func (UserMapper) Scan(rows *sql.Rows) (*models.User, error) {
	u := &models.User{}
	var updatedAt, deletedAt sql.NullTime
	if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Login, &u.Password, &u.CreatedAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}
	u.UpdatedAt = nullableTime(updatedAt)
	u.DeletedAt = nullableTime(deletedAt)
	return u, nil
}

func (UserMapper) InsertSQL() string {
	return `INSERT INTO users (name, email, login, password, created_at)
	        VALUES ($1, $2, $3, $4, $5)
	        RETURNING id`
}

func (UserMapper) InsertArgs(u *models.User) []any {
	return []any{u.Name, u.Email, u.Login, u.Password, u.CreatedAt}
}

func (UserMapper) UpdateSQL() string {
	return `UPDATE users
	        SET name = $1, email = $2, login = $3, password = $4, updated_at = $5
	        WHERE id = $6`
}

func (UserMapper) UpdateArgs(u *models.User) []any {
	return []any{u.Name, u.Email, u.Login, u.Password, u.UpdatedAt, u.ID}
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
