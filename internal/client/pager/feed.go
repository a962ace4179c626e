// Package pager loads cursor-paginated lists incrementally.
package pager

import (
	"context"
	"errors"
	"sync"
)

// ErrStale is returned by a load whose result was discarded because a newer
// Reload started while it was in flight.
var ErrStale = errors.New("stale page discarded")

// Page is one response of a cursor-paginated endpoint. An empty NextCursor
// means there is nothing after it.
type Page[T any] struct {
	Items      []T
	NextCursor string
}

// FetchFunc loads the page at cursor; "" is the first page.
type FetchFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// Feed accumulates pages into one list.
//
// Only one LoadMore is in flight at a time. Items are deduplicated by id in
// first-seen order; a repeated id replaces the earlier value in place. Every
// Reload starts a new generation and results of older generations are
// dropped.
type Feed[T any] struct {
	fetch FetchFunc[T]
	id    func(T) string

	mu       sync.Mutex
	items    []T
	index    map[string]int
	cursor   string
	gen      uint64
	inFlight bool
	loaded   bool
	end      bool
}

func New[T any](fetch FetchFunc[T], id func(T) string) *Feed[T] {
	return &Feed[T]{fetch: fetch, id: id, index: make(map[string]int)}
}

// Reload drops everything and loads the first page.
func (f *Feed[T]) Reload(ctx context.Context) error {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.items = nil
	f.index = make(map[string]int)
	f.cursor = ""
	f.loaded = false
	f.end = false
	f.inFlight = true
	f.mu.Unlock()

	page, err := f.fetch(ctx, "")

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return ErrStale
	}
	f.inFlight = false
	if err != nil {
		return err
	}
	f.loaded = true
	f.merge(page)
	return nil
}

// LoadMore fetches the next page. It reports false without fetching when a
// load is already in flight, the list is exhausted or not loaded yet.
func (f *Feed[T]) LoadMore(ctx context.Context) (bool, error) {
	f.mu.Lock()
	if f.inFlight || !f.loaded || f.end {
		f.mu.Unlock()
		return false, nil
	}
	f.inFlight = true
	gen := f.gen
	cursor := f.cursor
	f.mu.Unlock()

	page, err := f.fetch(ctx, cursor)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return false, ErrStale
	}
	f.inFlight = false
	if err != nil {
		return false, err
	}
	f.merge(page)
	return true, nil
}

func (f *Feed[T]) merge(page Page[T]) {
	for _, it := range page.Items {
		key := f.id(it)
		if i, ok := f.index[key]; ok {
			f.items[i] = it
			continue
		}
		f.index[key] = len(f.items)
		f.items = append(f.items, it)
	}
	f.cursor = page.NextCursor
	f.end = page.NextCursor == "" || len(page.Items) == 0
}

// Items returns a copy of the accumulated list.
func (f *Feed[T]) Items() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]T, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Feed[T]) NextCursor() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor
}

// IsEndReached reports whether the last page has been loaded.
func (f *Feed[T]) IsEndReached() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loaded && f.end
}

// Loading reports whether a fetch is in flight.
func (f *Feed[T]) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}
