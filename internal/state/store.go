package state

import (
	"sync"
	"time"
)

// Store keeps one Console per browser token.
type Store struct {
	mu       sync.RWMutex
	consoles map[string]*Console
	factory  func() *Console
}

// NewStore returns an empty store that builds consoles with opts.
func NewStore(opts Options) *Store {
	return &Store{
		consoles: make(map[string]*Console),
		factory:  func() *Console { return New(opts) },
	}
}

// Get returns the console for token and marks it as seen.
func (s *Store) Get(token string) (*Console, bool) {
	if token == "" {
		return nil, false
	}
	s.mu.RLock()
	c, ok := s.consoles[token]
	s.mu.RUnlock()
	if ok {
		c.Touch()
	}
	return c, ok
}

// Create registers a fresh console under token, replacing any existing one.
func (s *Store) Create(token string) *Console {
	c := s.factory()
	s.mu.Lock()
	old := s.consoles[token]
	s.consoles[token] = c
	s.mu.Unlock()
	if old != nil {
		old.Shutdown()
	}
	return c
}

// Len returns the number of live consoles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.consoles)
}

// Prune drops consoles not seen since before now-idle and returns how many
// were removed.
func (s *Store) Prune(now time.Time, idle time.Duration) int {
	cutoff := now.Add(-idle)
	var stale []*Console

	s.mu.Lock()
	for token, c := range s.consoles {
		if c.LastSeen().Before(cutoff) {
			stale = append(stale, c)
			delete(s.consoles, token)
		}
	}
	s.mu.Unlock()

	for _, c := range stale {
		c.Shutdown()
	}
	return len(stale)
}
