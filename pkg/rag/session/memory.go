// Package session holds per-session conversational memory with
// topic-change invalidation.
package session

import (
	"sync"
	"time"

	"campus-assistant-be/pkg/llm"

	"github.com/patrickmn/go-cache"
)

// state is the memory of one session. Its mutex serializes reset/append
// for overlapping requests on the same session id; different sessions
// never contend on it.
type state struct {
	mu       sync.Mutex
	category string
	history  []llm.Message
}

// Memory maps session id -> (current category, bounded history). Entries
// are evicted after the configured TTL of inactivity.
type Memory struct {
	cache      *cache.Cache
	maxHistory int
	mu         sync.Mutex // guards get-or-create of session states
}

func NewMemory(maxHistory int, ttl time.Duration) *Memory {
	if maxHistory <= 0 {
		maxHistory = 2
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Memory{
		cache:      cache.New(ttl, 10*time.Minute),
		maxHistory: maxHistory,
	}
}

func (m *Memory) getOrCreate(sessionID string) *state {
	m.mu.Lock()
	defer m.mu.Unlock()

	if x, found := m.cache.Get(sessionID); found {
		return x.(*state)
	}
	s := &state{}
	m.cache.Set(sessionID, s, cache.DefaultExpiration)
	return s
}

// Touch applies one conversational turn: if the category changed since the
// last turn (including the very first turn), the history is cleared before
// the new turn is appended. The window keeps only the newest maxHistory
// entries, oldest dropped first. The returned slice is a copy and already
// contains the just-appended turn.
func (m *Memory) Touch(sessionID, category string, turn llm.Message) []llm.Message {
	s := m.getOrCreate(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Strict equality on opaque category strings, no fuzzy matching.
	if category != s.category {
		s.history = s.history[:0]
		s.category = category
	}

	s.history = append(s.history, turn)
	if len(s.history) > m.maxHistory {
		s.history = s.history[len(s.history)-m.maxHistory:]
	}

	// Slide the eviction window on activity.
	m.cache.Set(sessionID, s, cache.DefaultExpiration)

	out := make([]llm.Message, len(s.history))
	copy(out, s.history)
	return out
}

// Snapshot returns the stored category and a copy of the history.
func (m *Memory) Snapshot(sessionID string) (category string, history []llm.Message, ok bool) {
	x, found := m.cache.Get(sessionID)
	if !found {
		return "", nil, false
	}
	s := x.(*state)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]llm.Message, len(s.history))
	copy(out, s.history)
	return s.category, out, true
}

// Delete drops a session outright.
func (m *Memory) Delete(sessionID string) {
	m.cache.Delete(sessionID)
}
