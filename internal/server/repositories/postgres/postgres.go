// Package postgres implements the repository port on PostgreSQL through a
// single generic repository driven by per-entity mappers. Reads always carry
// the deleted_at IS NULL filter; predicates run in Go on the filtered set.
// Insert and Update stage their changes and Commit flushes them in one
// transaction, which is also where deferred id assignment happens.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vibbra/hourglass/internal/common"
	"github.com/vibbra/hourglass/internal/dbx"
	"github.com/vibbra/hourglass/internal/server/repositories"
)

// Postgres error codes mapped to the duplicate kind. The partial unique
// indexes and the time-range exclusion constraint are the authoritative
// guard behind the service-level checks.
const (
	codeUniqueViolation    = "23505"
	codeExclusionViolation = "23P01"
)

// Mapper supplies the SQL an entity type needs. Statements must keep the
// column order their Args counterparts produce.
type Mapper[T repositories.Entity] interface {
	Table() string

	// SelectSQL selects all non-deleted rows, id-ordered.
	SelectSQL() string
	Scan(rows *sql.Rows) (T, error)

	// InsertSQL must end with RETURNING id.
	InsertSQL() string
	InsertArgs(e T) []any

	UpdateSQL() string
	UpdateArgs(e T) []any
}

// relationLoader is implemented by mappers whose entities have eager-loadable
// relations.
type relationLoader[T repositories.Entity] interface {
	LoadRelation(ctx context.Context, db dbx.DBTX, name string, items []T) error
}

// relationSaver is implemented by mappers whose entities own association rows
// that must be written alongside the entity.
type relationSaver[T repositories.Entity] interface {
	SaveRelations(ctx context.Context, tx dbx.DBTX, e T) error
}

type opKind int

const (
	opInsert opKind = iota
	opUpdate
)

type stagedOp[T repositories.Entity] struct {
	kind opKind
	e    T
}

// Repository is the generic PostgreSQL-backed repository.
type Repository[T repositories.Entity] struct {
	db     *sql.DB
	mapper Mapper[T]

	mu     sync.Mutex
	staged []stagedOp[T]
}

func New[T repositories.Entity](db *sql.DB, mapper Mapper[T]) *Repository[T] {
	return &Repository[T]{db: db, mapper: mapper}
}

func (r *Repository[T]) Insert(ctx context.Context, e T) (T, error) {
	e.Stamps().CreatedAt = time.Now()

	r.mu.Lock()
	r.staged = append(r.staged, stagedOp[T]{kind: opInsert, e: e})
	r.mu.Unlock()

	return e, nil
}

func (r *Repository[T]) SelectFirst(ctx context.Context, pred repositories.Predicate[T], relations ...string) (T, error) {
	matches, err := r.Select(ctx, pred, relations...)
	if err != nil {
		var zero T
		return zero, err
	}
	if len(matches) == 0 {
		var zero T
		return zero, common.ErrNotFound
	}
	return matches[0], nil
}

func (r *Repository[T]) Select(ctx context.Context, pred repositories.Predicate[T], relations ...string) ([]T, error) {
	all, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}

	var matches []T
	for _, e := range all {
		if pred == nil || pred(e) {
			matches = append(matches, e)
		}
	}

	if err := r.loadRelations(ctx, matches, relations); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *Repository[T]) SelectTopOrdered(ctx context.Context, top int, less func(a, b T) bool, descending bool) ([]T, error) {
	all, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(all, func(i, j int) bool {
		if descending {
			return less(all[j], all[i])
		}
		return less(all[i], all[j])
	})
	if top < 0 {
		top = 0
	}
	if top < len(all) {
		all = all[:top]
	}
	return all, nil
}

func (r *Repository[T]) Update(ctx context.Context, e T) error {
	now := time.Now()
	e.Stamps().UpdatedAt = &now

	r.mu.Lock()
	r.staged = append(r.staged, stagedOp[T]{kind: opUpdate, e: e})
	r.mu.Unlock()

	return nil
}

func (r *Repository[T]) SoftDeleteFirst(ctx context.Context, pred repositories.Predicate[T]) (T, error) {
	e, err := r.SelectFirst(ctx, pred)
	if err != nil {
		var zero T
		return zero, err
	}

	now := time.Now()
	e.Stamps().UpdatedAt = &now
	e.Stamps().DeletedAt = &now

	query := fmt.Sprintf("UPDATE %s SET updated_at = $1, deleted_at = $2 WHERE id = $3", r.mapper.Table())
	if _, err := r.db.ExecContext(ctx, query, now, now, e.EntityID()); err != nil {
		var zero T
		return zero, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *Repository[T]) PhysicalDelete(ctx context.Context, e T) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.mapper.Table())
	if _, err := r.db.ExecContext(ctx, query, e.EntityID()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *Repository[T]) Commit(ctx context.Context) (bool, error) {
	r.mu.Lock()
	staged := r.staged
	r.mu.Unlock()

	if len(staged) == 0 {
		return false, nil
	}

	var affected int64
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, op := range staged {
			switch op.kind {
			case opInsert:
				var id int64
				if err := tx.QueryRowContext(ctx, r.mapper.InsertSQL(), r.mapper.InsertArgs(op.e)...).Scan(&id); err != nil {
					return err
				}
				op.e.SetEntityID(id)
				affected++
			case opUpdate:
				res, err := tx.ExecContext(ctx, r.mapper.UpdateSQL(), r.mapper.UpdateArgs(op.e)...)
				if err != nil {
					return err
				}
				if n, err := res.RowsAffected(); err == nil {
					affected += n
				}
			}

			if saver, ok := r.mapper.(relationSaver[T]); ok {
				if err := saver.SaveRelations(ctx, tx, op.e); err != nil {
					return err
				}
			}
		}
		return nil
	})
	r.mu.Lock()
	r.staged = nil
	r.mu.Unlock()

	if err != nil {
		// the transaction rolled back; retrying the same ops would just
		// replay the conflict
		return false, mapConstraintError(err)
	}
	return affected > 0, nil
}

func (r *Repository[T]) Rollback(ctx context.Context) error {
	r.mu.Lock()
	r.staged = nil
	r.mu.Unlock()
	return nil
}

func (r *Repository[T]) fetch(ctx context.Context) ([]T, error) {
	rows, err := r.db.QueryContext(ctx, r.mapper.SelectSQL())
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		e, err := r.mapper.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *Repository[T]) loadRelations(ctx context.Context, items []T, relations []string) error {
	if len(items) == 0 || len(relations) == 0 {
		return nil
	}
	loader, ok := r.mapper.(relationLoader[T])
	if !ok {
		return fmt.Errorf("entity %s has no relations", r.mapper.Table())
	}
	for _, name := range relations {
		if err := loader.LoadRelation(ctx, r.db, name, items); err != nil {
			return err
		}
	}
	return nil
}

// mapConstraintError translates unique and exclusion violations raised by the
// storage constraints into the duplicate kind, so a race that slips past the
// service checks surfaces in the same taxonomy.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation, codeExclusionViolation:
			return fmt.Errorf("%w: constraint %s", common.ErrDuplicate, pgErr.ConstraintName)
		}
	}
	return err
}
