// Package session holds the in-memory authentication state of the client:
// which tokens are current and which user they belong to.
//
// A State is created empty, written by the auth keeper (login, register,
// refresh, current-user, logout) and read by everything else. Observers can
// Subscribe to be told about every change.
package session

import (
	"sort"
	"sync"

	"github.com/dmitrijs2005/jobportal/internal/client/models"
)

// Snapshot is an immutable copy of the session. Empty strings and a nil User
// mean "absent".
type Snapshot struct {
	AccessToken     string
	RefreshToken    string
	FingerprintHash string
	User            *models.User
}

// IsLoggedIn is derived from the access token and never stored.
func (s Snapshot) IsLoggedIn() bool {
	return s.AccessToken != ""
}

// CanRefresh reports whether an expired access token can be renewed.
func (s Snapshot) CanRefresh() bool {
	return s.RefreshToken != ""
}

// State is safe for concurrent use.
type State struct {
	mu     sync.RWMutex
	snap   Snapshot
	subs   map[uint64]func(Snapshot)
	nextID uint64
}

func New() *State {
	return &State{subs: make(map[uint64]func(Snapshot))}
}

// Snapshot returns the current session. The User pointer is copied so callers
// cannot mutate the stored value.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.snap)
}

// SetCredentials overwrites all four fields, including with absent values.
// Callers that only change some fields must pass the others through.
func (s *State) SetCredentials(snap Snapshot) {
	s.mu.Lock()
	s.snap = clone(snap)
	subs := s.subscribers()
	current := clone(s.snap)
	s.mu.Unlock()

	notify(subs, current)
}

// Clear resets the session to its empty default.
func (s *State) Clear() {
	s.SetCredentials(Snapshot{})
}

// Subscribe registers fn to be called after every change with the new
// snapshot. Callbacks run synchronously on the writer's goroutine, outside
// the lock, in registration order. The returned func unregisters fn.
func (s *State) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *State) subscribers() []func(Snapshot) {
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]func(Snapshot), 0, len(ids))
	for _, id := range ids {
		out = append(out, s.subs[id])
	}
	return out
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(clone(snap))
	}
}

func clone(s Snapshot) Snapshot {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
