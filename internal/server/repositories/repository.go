// Package repositories defines the persistence port consumed by the
// validation services: one generic contract per entity type, with implicit
// soft-delete filtering and unit-of-work commit semantics.
package repositories

import (
	"context"

	"github.com/vibbra/hourglass/internal/server/models"
)

// Entity is the base capability every persisted type provides: a numeric id
// and the lifecycle timestamps.
type Entity interface {
	EntityID() int64
	SetEntityID(int64)
	Stamps() *models.Meta
}

// Predicate filters entities in reads. A nil predicate matches everything.
type Predicate[T any] func(T) bool

// Relation names accepted by the eager-loading reads.
const (
	RelationUsers = "Users"
	RelationTimes = "Times"
)

// Repository is the persistence contract, parameterized by entity type.
//
// All reads skip soft-deleted rows. Insert, Update and SoftDeleteFirst stamp
// the corresponding Meta timestamps. Insert and Update only stage the change;
// nothing is written until Commit flushes the staged set atomically.
// SoftDeleteFirst and PhysicalDelete take effect immediately.
//
// When no row matches, SelectFirst and SoftDeleteFirst return
// common.ErrNotFound.
type Repository[T Entity] interface {
	// Insert stamps the creation time and stages e for persistence.
	// Id assignment is deferred until Commit.
	Insert(ctx context.Context, e T) (T, error)

	// SelectFirst returns the first non-deleted match, optionally
	// eager-loading the named relations.
	SelectFirst(ctx context.Context, pred Predicate[T], relations ...string) (T, error)

	// Select returns all non-deleted matches; a nil predicate returns all.
	Select(ctx context.Context, pred Predicate[T], relations ...string) ([]T, error)

	// SelectTopOrdered returns at most top non-deleted entities ordered by
	// less (reversed when descending).
	SelectTopOrdered(ctx context.Context, top int, less func(a, b T) bool, descending bool) ([]T, error)

	// Update stamps the update time and stages the modified entity.
	Update(ctx context.Context, e T) error

	// SoftDeleteFirst stamps the deletion time on the first match and
	// persists it immediately.
	SoftDeleteFirst(ctx context.Context, pred Predicate[T]) (T, error)

	// PhysicalDelete removes the row unconditionally and immediately,
	// soft-deleted or not.
	PhysicalDelete(ctx context.Context, e T) error

	// Commit flushes the staged changes as one unit of work and reports
	// whether any rows were affected.
	Commit(ctx context.Context) (bool, error)

	// Rollback discards the staged changes.
	Rollback(ctx context.Context) error
}
