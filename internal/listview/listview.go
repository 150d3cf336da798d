// Package listview implements the remote-driven list pattern shared by the
// console screens: fetch a collection, apply client-side filters, degrade to
// an empty list with a retry affordance on failure, and stay fresh via the
// Refresher.
package listview

import (
	"context"
	"strings"
	"sync"

	"github.com/lankaspa/portal/internal/model"
)

// State of a view's last fetch.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Fetch loads the collection from the association API.
type Fetch[T any] func(ctx context.Context) ([]T, error)

// Accessors tell the filter where to look inside an item. Status and
// Category may be nil when an entity has no such axis.
type Accessors[T any] struct {
	SearchFields func(T) []string
	Status       func(T) string
	Category     func(T) string
}

// Filter applies search, status and category layers with AND semantics.
// Search is a case-insensitive substring match across the item's search
// fields.
func Filter[T any](items []T, filter model.ListFilter, acc Accessors[T]) []T {
	if filter.IsZero() {
		return items
	}

	needle := strings.ToLower(filter.Search)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if needle != "" && !matchesSearch(item, needle, acc.SearchFields) {
			continue
		}
		if filter.Status != "" && (acc.Status == nil || acc.Status(item) != filter.Status) {
			continue
		}
		if filter.Category != "" && (acc.Category == nil || acc.Category(item) != filter.Category) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesSearch[T any](item T, needle string, fields func(T) []string) bool {
	if fields == nil {
		return false
	}
	for _, f := range fields(item) {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// View holds one remote collection plus its fetch state. A failed fetch
// leaves the view usable: zero items, StateFailed, retry by calling Refresh
// again. When fallback items are configured (demo mode) they substitute for
// the empty list.
type View[T any] struct {
	mu       sync.RWMutex
	fetch    Fetch[T]
	acc      Accessors[T]
	items    []T
	state    State
	lastErr  error
	fallback []T
}

func NewView[T any](fetch Fetch[T], acc Accessors[T]) *View[T] {
	return &View[T]{
		fetch: fetch,
		acc:   acc,
		state: StateLoading,
	}
}

// WithFallback configures demo-mode records substituted on fetch failure.
// Off by default; production views never fabricate data.
func (v *View[T]) WithFallback(items []T) *View[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fallback = items
	return v
}

// Refresh issues exactly one fetch and replaces the view's contents. On
// failure the previous items are discarded rather than shown stale.
func (v *View[T]) Refresh(ctx context.Context) error {
	items, err := v.fetch(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		v.items = nil
		if len(v.fallback) > 0 {
			v.items = v.fallback
		}
		v.state = StateFailed
		v.lastErr = err
		return err
	}

	v.items = items
	v.state = StateReady
	v.lastErr = nil
	return nil
}

// Items returns the filtered collection.
func (v *View[T]) Items(filter model.ListFilter) []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Filter(v.items, filter, v.acc)
}

// Snapshot returns the filtered items along with the view state, for
// rendering a loading indicator or retry affordance.
func (v *View[T]) Snapshot(filter model.ListFilter) ([]T, State, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Filter(v.items, filter, v.acc), v.state, v.lastErr
}

// State returns the view's fetch state.
func (v *View[T]) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}
