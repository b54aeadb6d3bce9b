// Package fetch holds view state produced by asynchronous upstream fetches.
//
// Re-fetches are not cancelled mid-flight; instead every fetch is fenced by
// a generation counter so a slow, superseded response can never overwrite
// fresher state.
package fetch

import "sync"

// State is a generation-counted holder for one fetched value.
// The zero value is ready to use: resolved, empty, no error.
type State[T any] struct {
	mu      sync.Mutex
	gen     uint64
	loading bool
	data    T
	err     error
}

// Begin starts a new fetch: it supersedes all in-flight generations, sets
// the loading flag and returns the generation the caller must present to
// Complete.
func (s *State[T]) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.loading = true
	return s.gen
}

// Complete records the outcome of the fetch started with gen. A stale
// generation is discarded and reported as false; the loading flag is
// cleared in all current-generation outcomes, success or failure.
func (s *State[T]) Complete(gen uint64, data T, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.loading = false
	s.data = data
	s.err = err
	return true
}

// Resolve clears the loading flag for gen without touching data, used when
// a fetch is skipped (for example, no token). Stale generations are ignored.
func (s *State[T]) Resolve(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.loading = false
}

// Snapshot returns the current value, error and loading flag.
func (s *State[T]) Snapshot() (T, error, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data, s.err, s.loading
}

// Mutate applies fn to the current value under the lock, for local updates
// that must not wait for a re-fetch (optimistic list removal).
func (s *State[T]) Mutate(fn func(T) T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = fn(s.data)
}
