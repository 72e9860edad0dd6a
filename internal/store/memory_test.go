package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/hangman/internal/game"
)

func TestCreateAndView(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	g, err := game.New("DOG", 3)
	require.NoError(t, err)

	s, err := st.Create(ctx, "anon-1", g)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "anon-1", s.Owner)
	assert.False(t, s.StartedAt.IsZero())

	err = st.View(ctx, s.ID, func(got *Session) error {
		assert.Same(t, g, got.Game)
		return nil
	})
	require.NoError(t, err)
}

func TestUnknownID(t *testing.T) {
	st := NewMemoryStore()
	err := st.Update(context.Background(), "missing", func(*Session) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePropagatesError(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	g, _ := game.New("DOG", 3)
	s, err := st.Create(ctx, "", g)
	require.NoError(t, err)

	boom := errors.New("boom")
	assert.ErrorIs(t, st.Update(ctx, s.ID, func(*Session) error { return boom }), boom)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	g, _ := game.New("DOG", 3)
	s, err := st.Create(ctx, "", g)
	require.NoError(t, err)

	require.NoError(t, st.Delete(ctx, s.ID))
	require.NoError(t, st.Delete(ctx, s.ID))
	assert.ErrorIs(t, st.View(ctx, s.ID, func(*Session) error { return nil }), ErrNotFound)
}

func TestUpdateSerializesGuesses(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	g, _ := game.New("ABCDEFGHIJKLMNOPQRSTUVWXYZ", 0)
	s, err := st.Create(ctx, "", g)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, r := range "ABCDEFGHIJKLMNOPQRSTUVWXYZ" {
		wg.Add(1)
		go func(r rune) {
			defer wg.Done()
			_ = st.Update(ctx, s.ID, func(s *Session) error {
				_, err := s.Game.GuessLetter(r)
				return err
			})
		}(r)
	}
	wg.Wait()

	require.NoError(t, st.View(ctx, s.ID, func(s *Session) error {
		assert.Equal(t, game.StatusWon, s.Game.Status())
		assert.Len(t, s.Game.CorrectLetters(), 26)
		return nil
	}))
}

func TestCanceledContext(t *testing.T) {
	st := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g, _ := game.New("DOG", 3)
	_, err := st.Create(ctx, "", g)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSweepEvictsIdleAndFinished(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	st := &memory{sessions: make(map[string]*Session), now: func() time.Time { return clock }}

	idleGame, _ := game.New("DOG", 3)
	idle, err := st.Create(ctx, "a", idleGame)
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	doneGame, _ := game.New("CAT", 0)
	done, err := st.Create(ctx, "b", doneGame)
	require.NoError(t, err)
	require.NoError(t, st.Update(ctx, done.ID, func(s *Session) error {
		_, err := s.Game.GuessLetter('z')
		return err
	}))
	require.NoError(t, st.View(ctx, done.ID, func(s *Session) error {
		assert.Equal(t, clock, s.FinishedAt)
		return nil
	}))

	liveGame, _ := game.New("OX", 3)
	live, err := st.Create(ctx, "c", liveGame)
	require.NoError(t, err)

	// nothing is old enough yet
	n, err := st.Sweep(ctx, 2*time.Hour, 10*time.Minute)
	require.NoError(t, err)
	assert.Zero(t, n)

	// the finished game is past its grace period, the first game past the idle TTL
	clock = clock.Add(61 * time.Minute)
	n, err = st.Sweep(ctx, 2*time.Hour, 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	noop := func(*Session) error { return nil }
	assert.ErrorIs(t, st.View(ctx, idle.ID, noop), ErrNotFound)
	assert.ErrorIs(t, st.View(ctx, done.ID, noop), ErrNotFound)
	assert.NoError(t, st.View(ctx, live.ID, noop))
}
