package services

import (
	"sync"
)

// Sequencer hands out increasing request tokens per key so that a slow
// response can tell whether a newer request for the same key has started
type Sequencer struct {
	mu     sync.Mutex
	latest map[string]uint64
}

func NewSequencer() *Sequencer {
	return &Sequencer{latest: make(map[string]uint64)}
}

// Next starts a request for key and returns its token
func (s *Sequencer) Next(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[key]++
	return s.latest[key]
}

// IsLatest reports whether token is still the newest issued for key
func (s *Sequencer) IsLatest(key string, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[key] == token
}

// Expire makes every outstanding token stale
func (s *Sequencer) Expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.latest {
		s.latest[key]++
	}
}
