// internal/store/memory.go
//
// In-memory implementation of the session Store.
// This is the only home of in-progress games: state is lost when the
// process restarts, and a game is never resumed from disk.
//
// Characteristics:
//   - Stores *Session objects keyed by game ID in a map.
//   - Concurrency-safe via RWMutex; Update runs the mutation under the write lock,
//     so each commit is atomic with respect to other requests.
//   - Sessions idle longer than the TTL are dropped by Sweep.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/hangman/internal/game"
)

// ErrNotFound is returned for unknown game IDs.
var ErrNotFound = errors.New("not found")

// Owner identifies who is playing a session.
type Owner struct {
	UserID      string // set for signed-in players
	AnonymousID string // set for guests
	Name        string // display name (username or guest petname)
}

// Session wraps a game with the bookkeeping the server needs.
type Session struct {
	Game      *game.Game
	Mode      string    // "random" | "daily" | "fixed"
	Date      string    // daily date key, or the start date for other modes
	Owner     Owner
	Round     int       // 1 for the first answer, +1 per restart
	Recorded  bool      // outcome of the current round has been persisted
	StartedAt time.Time // start of the current round
	TouchedAt time.Time
}

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *Session) error

	// Update runs fn with exclusive access to the session.
	Update(ctx context.Context, id string, fn func(*Session) error) error
}

// Memory is an in-memory map-based Store implementation.
type Memory struct {
	mu       sync.RWMutex        // guards sessions
	sessions map[string]*Session // keyed by Game.ID
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() *Memory {
	return &Memory{sessions: make(map[string]*Session), now: time.Now}
}

// Save adds or updates the session in the map.
func (m *Memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.TouchedAt = m.now()
	m.sessions[s.Game.ID] = s
	return nil
}

// Update applies fn to the session under the write lock.
func (m *Memory) Update(ctx context.Context, id string, fn func(*Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.TouchedAt = m.now()
	return fn(s)
}

// Sweep removes sessions idle for longer than ttl and returns how many went.
func (m *Memory) Sweep(ttl time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-ttl)
	n := 0
	for id, s := range m.sessions {
		if s.TouchedAt.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of live sessions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
