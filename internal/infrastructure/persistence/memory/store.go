// Package memory holds the application state: one ordered, concurrency-safe
// store per aggregate. Every read and write goes through a clone, so callers
// never share memory with the stored copy.
package memory

import (
	"context"
	"sync"

	"github.com/outvoice/backend/internal/domain/shared"
)

// Store is an insertion-ordered collection keyed by id
type Store[T any] struct {
	mu    sync.RWMutex
	order []string
	items map[string]T
	id    func(T) string
	clone func(T) T
}

// NewStore creates a store. id extracts the key; clone deep-copies an item.
func NewStore[T any](id func(T) string, clone func(T) T) *Store[T] {
	return &Store[T]{
		items: make(map[string]T),
		id:    id,
		clone: clone,
	}
}

// Get returns a copy of the item with the given id
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	return s.clone(item), true
}

// Has reports whether an item with the id exists
func (s *Store[T]) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok
}

// Put replaces an existing item in place or appends a new one
func (s *Store[T]) Put(item T) {
	id := s.id(item)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		s.order = append(s.order, id)
	}
	s.items[id] = s.clone(item)
}

// List returns copies of all items in insertion order
func (s *Store[T]) List() []T {
	return s.Filter(nil)
}

// Filter returns copies of the items matching keep, in insertion order.
// A nil keep matches everything.
func (s *Store[T]) Filter(keep func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		item := s.items[id]
		if keep == nil || keep(item) {
			out = append(out, s.clone(item))
		}
	}
	return out
}

// Delete removes the given ids and returns how many existed
func (s *Store[T]) Delete(ids ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.items[id]; ok {
			delete(s.items, id)
			drop[id] = struct{}{}
			removed++
		}
	}
	if removed == 0 {
		return 0
	}
	kept := s.order[:0]
	for _, id := range s.order {
		if _, gone := drop[id]; !gone {
			kept = append(kept, id)
		}
	}
	s.order = kept
	return removed
}

// Len returns the number of stored items
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *Store[T]) find(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	item, ok := s.Get(id)
	if !ok {
		return zero, shared.ErrNotFound
	}
	return item, nil
}

func (s *Store[T]) save(ctx context.Context, item T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.id(item) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Cannot store an item without an id")
	}
	s.Put(item)
	return nil
}
