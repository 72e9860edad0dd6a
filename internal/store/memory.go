// internal/store/memory.go
//
// In-memory implementation of the session Store interface.
// Hangman games are never persisted across restarts; this is the only place
// in-progress games live.
//
// Characteristics:
//   - Sessions keyed by ID (uuid) in a map guarded by an RWMutex.
//   - Each session carries its own mutex; Update holds it while the callback
//     mutates the game, so guesses against one game are serialized.
//   - Sweep evicts sessions idle past a TTL and finished sessions after a
//     grace period, so a long-running server does not grow without bound.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/hangman/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("store: session not found")

// Session is one game plus who is playing it.
type Session struct {
	ID        string
	Owner     string // user id or anonymous id
	Daily     string // date key for daily games, empty otherwise
	StartedAt time.Time
	Game      *game.Game
	Guesses   int  // accepted guesses, including repeats
	Custom    bool // secret chosen by the player; kept off the leaderboard

	// FinishedAt is set by the store the first time an Update leaves the
	// game won or lost.
	FinishedAt time.Time

	mu sync.Mutex
}

// Store defines the persistence interface for game sessions.
type Store interface {
	// Create registers a new session for g and returns it.
	Create(ctx context.Context, owner string, g *game.Game) (*Session, error)

	// Update runs fn with exclusive access to the session's game.
	Update(ctx context.Context, id string, fn func(s *Session) error) error

	// View runs fn with exclusive access for reading.
	View(ctx context.Context, id string, fn func(s *Session) error) error

	// Delete drops a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Sweep deletes sessions started more than idle ago and sessions
	// finished more than grace ago. It returns how many were removed.
	Sweep(ctx context.Context, idle, grace time.Duration) (int, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex        // guards sessions map
	sessions map[string]*Session // keyed by Session.ID
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session), now: time.Now}
}

func (m *memory) Create(ctx context.Context, owner string, g *game.Game) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := &Session{
		ID:        uuid.NewString(),
		Owner:     owner,
		StartedAt: m.now().UTC(),
		Game:      g,
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

func (m *memory) get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Update(ctx context.Context, id string, fn func(s *Session) error) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	err = fn(s)
	if s.FinishedAt.IsZero() && s.Game.Status() != game.StatusInProgress {
		s.FinishedAt = m.now().UTC()
	}
	return err
}

func (m *memory) View(ctx context.Context, id string, fn func(s *Session) error) error {
	return m.Update(ctx, id, fn)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context, idle, grace time.Duration) (int, error) {
	now := m.now().UTC()

	m.mu.RLock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()

	n := 0
	for _, s := range all {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		s.mu.Lock()
		expired := now.Sub(s.StartedAt) > idle ||
			(!s.FinishedAt.IsZero() && now.Sub(s.FinishedAt) > grace)
		s.mu.Unlock()
		if !expired {
			continue
		}
		if err := m.Delete(ctx, s.ID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
