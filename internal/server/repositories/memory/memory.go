// Package memory implements the repository port in process memory. It is
// used by tests and mirrors the Postgres implementation's contract: staged
// writes, commit/rollback, implicit soft-delete filtering, id assignment on
// commit. The single mutex also serializes check-then-act sequences, so
// conflicting concurrent commits cannot slip through here.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vibbra/hourglass/internal/common"
	"github.com/vibbra/hourglass/internal/server/repositories"
)

type opKind int

const (
	opInsert opKind = iota
	opUpdate
)

type stagedOp[T repositories.Entity] struct {
	kind opKind
	e    T
}

// Repository is a generic in-memory repository. Relation arguments are
// accepted and ignored: stored aggregates already carry their associations.
// Reads hand out clones, never the stored rows, so a caller mutating a
// loaded aggregate changes nothing until the change is staged and committed.
type Repository[T repositories.Entity] struct {
	mu     sync.Mutex
	rows   map[int64]T
	nextID int64
	staged []stagedOp[T]
}

func New[T repositories.Entity]() *Repository[T] {
	return &Repository[T]{rows: make(map[int64]T)}
}

func (r *Repository[T]) Insert(ctx context.Context, e T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.Stamps().CreatedAt = time.Now()
	r.staged = append(r.staged, stagedOp[T]{kind: opInsert, e: e})
	return e, nil
}

func (r *Repository[T]) SelectFirst(ctx context.Context, pred repositories.Predicate[T], relations ...string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.sorted() {
		if pred == nil || pred(e) {
			return clone(e), nil
		}
	}
	var zero T
	return zero, common.ErrNotFound
}

func (r *Repository[T]) Select(ctx context.Context, pred repositories.Predicate[T], relations ...string) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []T
	for _, e := range r.sorted() {
		if pred == nil || pred(e) {
			out = append(out, clone(e))
		}
	}
	return out, nil
}

func (r *Repository[T]) SelectTopOrdered(ctx context.Context, top int, less func(a, b T) bool, descending bool) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.sorted()
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

	out := make([]T, len(all))
	for i, e := range all {
		out[i] = clone(e)
	}
	return out, nil
}

func (r *Repository[T]) Update(ctx context.Context, e T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	e.Stamps().UpdatedAt = &now
	r.staged = append(r.staged, stagedOp[T]{kind: opUpdate, e: e})
	return nil
}

func (r *Repository[T]) SoftDeleteFirst(ctx context.Context, pred repositories.Predicate[T]) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.sorted() {
		if pred == nil || pred(e) {
			now := time.Now()
			e.Stamps().UpdatedAt = &now
			e.Stamps().DeletedAt = &now
			return clone(e), nil
		}
	}
	var zero T
	return zero, common.ErrNotFound
}

func (r *Repository[T]) PhysicalDelete(ctx context.Context, e T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rows, e.EntityID())
	return nil
}

func (r *Repository[T]) Commit(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	affected := len(r.staged) > 0
	for _, op := range r.staged {
		if op.kind == opInsert && op.e.EntityID() == 0 {
			r.nextID++
			op.e.SetEntityID(r.nextID)
		}
		r.rows[op.e.EntityID()] = clone(op.e)
	}
	r.staged = nil
	return affected, nil
}

func (r *Repository[T]) Rollback(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.staged = nil
	return nil
}

// clone detaches an entity from the store before it crosses the repository
// boundary.
func clone[T repositories.Entity](e T) T {
	if c, ok := any(e).(interface{ Clone() T }); ok {
		return c.Clone()
	}
	return e
}

// sorted returns the non-deleted rows in id order, for deterministic reads.
func (r *Repository[T]) sorted() []T {
	out := make([]T, 0, len(r.rows))
	for _, e := range r.rows {
		if !e.Stamps().Deleted() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID() < out[j].EntityID() })
	return out
}
