package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T, secret string, maxWrong int) *Game {
	t.Helper()
	g, err := New(secret, maxWrong)
	require.NoError(t, err)
	return g
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		maxWrong int
		wantErr  bool
		pattern  string
	}{
		{name: "uppercases secret", secret: "cactus", maxWrong: 3, pattern: "------"},
		{name: "zero ceiling allowed", secret: "DOG", maxWrong: 0, pattern: "---"},
		{name: "trims whitespace", secret: "  dog ", maxWrong: 6, pattern: "---"},
		{name: "empty word", secret: "", maxWrong: 3, wantErr: true},
		{name: "blank word", secret: "   ", maxWrong: 3, wantErr: true},
		{name: "negative ceiling", secret: "DOG", maxWrong: -1, wantErr: true},
		{name: "mystery marker in word", secret: "DO-G", maxWrong: 3, wantErr: true},
		{name: "digit in word", secret: "D0G", maxWrong: 3, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.secret, tt.maxWrong)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				assert.Nil(t, g)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.pattern, g.Pattern())
			assert.Equal(t, len(tt.pattern), g.SecretWordLength())
			assert.Equal(t, tt.maxWrong, g.MaxWrongGuesses())
			assert.Equal(t, StatusInProgress, g.Status())
			assert.Equal(t, 0, g.Score())
		})
	}
}

func TestGuessLetterRevealsAllOccurrences(t *testing.T) {
	g := newGame(t, "CACTUS", 3)

	pattern, err := g.GuessLetter('c')
	require.NoError(t, err)
	assert.Equal(t, "C-C---", pattern)
	assert.Equal(t, []rune{'C'}, g.CorrectLetters())
	assert.Equal(t, 0, g.NumWrongGuesses())

	// repeat is a no-op
	pattern, err = g.GuessLetter('C')
	require.NoError(t, err)
	assert.Equal(t, "C-C---", pattern)
	assert.Equal(t, []rune{'C'}, g.CorrectLetters())
	assert.Equal(t, 1, g.Score())
}

func TestGuessLetterWrongCountsOnce(t *testing.T) {
	g := newGame(t, "CACTUS", 3)

	_, err := g.GuessLetter('x')
	require.NoError(t, err)
	assert.Equal(t, 1, g.NumWrongGuesses())
	assert.Equal(t, 2, g.NumWrongGuessesRemaining())

	_, err = g.GuessLetter('X')
	require.NoError(t, err)
	assert.Equal(t, 1, g.NumWrongGuesses())
	assert.Equal(t, []rune{'X'}, g.IncorrectLetters())
}

func TestCactusGame(t *testing.T) {
	g := newGame(t, "CACTUS", 3)

	steps := []struct {
		letter  rune
		pattern string
		wrong   int
		status  Status
	}{
		{'C', "C-C---", 0, StatusInProgress},
		{'X', "C-C---", 1, StatusInProgress},
		{'Y', "C-C---", 2, StatusInProgress},
		{'Z', "C-C---", 3, StatusInProgress},
		{'Q', "C-C---", 4, StatusLost},
	}
	for _, s := range steps {
		pattern, err := g.GuessLetter(s.letter)
		require.NoError(t, err)
		assert.Equal(t, s.pattern, pattern, "after %c", s.letter)
		assert.Equal(t, s.wrong, g.NumWrongGuesses(), "after %c", s.letter)
		assert.Equal(t, s.status, g.Status(), "after %c", s.letter)
	}
	assert.Equal(t, LostScore, g.Score())
	assert.Equal(t, -1, g.NumWrongGuessesRemaining())
}

func TestCactusWon(t *testing.T) {
	g := newGame(t, "CACTUS", 3)
	for _, r := range "CATUS" {
		_, err := g.GuessLetter(r)
		require.NoError(t, err)
	}
	assert.Equal(t, "CACTUS", g.Pattern())
	assert.Equal(t, StatusWon, g.Status())
	assert.Equal(t, 5, g.Score())
}

func TestGuessWord(t *testing.T) {
	t.Run("correct word wins at once", func(t *testing.T) {
		g := newGame(t, "DOG", 6)
		pattern, err := g.GuessWord("dog")
		require.NoError(t, err)
		assert.Equal(t, "DOG", pattern)
		assert.Equal(t, StatusWon, g.Status())
		assert.Equal(t, 0, g.Score())
	})

	t.Run("wrong word counts once", func(t *testing.T) {
		g := newGame(t, "DOG", 6)
		pattern, err := g.GuessWord("CAT")
		require.NoError(t, err)
		assert.Equal(t, "---", pattern)
		assert.Equal(t, []string{"CAT"}, g.IncorrectWords())
		assert.Equal(t, 1, g.NumWrongGuesses())
		assert.Equal(t, StatusInProgress, g.Status())

		_, err = g.GuessWord("cat")
		require.NoError(t, err)
		assert.Equal(t, 1, g.NumWrongGuesses())
	})

	t.Run("partial word is simply wrong", func(t *testing.T) {
		g := newGame(t, "DOG", 6)
		_, err := g.GuessWord("DO")
		require.NoError(t, err)
		assert.Equal(t, "---", g.Pattern())
		assert.Equal(t, 1, g.NumWrongGuesses())
	})
}

func TestCeilingIsInclusive(t *testing.T) {
	g := newGame(t, "DOG", 2)
	_, _ = g.GuessLetter('A')
	_, _ = g.GuessWord("CAT")
	assert.Equal(t, 2, g.NumWrongGuesses())
	assert.Equal(t, StatusInProgress, g.Status())
	assert.Equal(t, 0, g.NumWrongGuessesRemaining())

	_, _ = g.GuessLetter('B')
	assert.Equal(t, StatusLost, g.Status())
}

func TestZeroCeilingLosesOnFirstMiss(t *testing.T) {
	g := newGame(t, "DOG", 0)
	_, err := g.GuessLetter('Z')
	require.NoError(t, err)
	assert.Equal(t, StatusLost, g.Status())
	assert.Equal(t, LostScore, g.Score())
}

func TestGuessAfterEndIsIllegal(t *testing.T) {
	tests := []struct {
		name  string
		setup func(g *Game)
	}{
		{name: "after win", setup: func(g *Game) { _, _ = g.GuessWord("DOG") }},
		{name: "after loss", setup: func(g *Game) { _, _ = g.GuessLetter('Z') }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGame(t, "DOG", 0)
			tt.setup(g)
			before := g.Snapshot()

			pattern, err := g.GuessLetter('D')
			assert.True(t, errors.Is(err, ErrIllegalState))
			assert.Equal(t, before.Pattern, pattern)

			_, err = g.GuessWord("CAT")
			assert.ErrorIs(t, err, ErrIllegalState)

			assert.Equal(t, before, g.Snapshot())
		})
	}
}

func TestLostScoreIgnoresCorrectLetters(t *testing.T) {
	g := newGame(t, "CACTUS", 1)
	for _, r := range "CATXY" {
		_, err := g.GuessLetter(r)
		require.NoError(t, err)
	}
	assert.Equal(t, StatusLost, g.Status())
	assert.Len(t, g.CorrectLetters(), 3)
	assert.Equal(t, LostScore, g.Score())
}

func TestAccessorsAreSnapshots(t *testing.T) {
	g := newGame(t, "CACTUS", 5)
	_, _ = g.GuessLetter('S')
	_, _ = g.GuessLetter('E')
	_, _ = g.GuessLetter('A')
	_, _ = g.GuessWord("CASTUS")

	assert.Equal(t, []rune{'A', 'E', 'S'}, g.AllGuessedLetters())
	assert.True(t, g.HasGuessed('e'))
	assert.False(t, g.HasGuessed('Q'))

	correct := g.CorrectLetters()
	correct[0] = 'Z'
	words := g.IncorrectWords()
	words[0] = "MUTATED"

	assert.Equal(t, []rune{'A', 'S'}, g.CorrectLetters())
	assert.Equal(t, []string{"CASTUS"}, g.IncorrectWords())
}

func TestRevealedPositionsMatchSecret(t *testing.T) {
	g := newGame(t, "BANANA", 10)
	for _, r := range "NXA" {
		_, _ = g.GuessLetter(r)
	}
	secret := g.Secret()
	for i, r := range g.Pattern() {
		if r != MysteryLetter {
			assert.Equal(t, rune(secret[i]), r)
		}
	}
	for _, r := range g.CorrectLetters() {
		assert.NotContains(t, g.IncorrectLetters(), r)
	}
}

func TestString(t *testing.T) {
	g := newGame(t, "CACTUS", 3)
	_, _ = g.GuessLetter('C')
	_, _ = g.GuessLetter('X')
	assert.Equal(t, "C-C---; score=2; status=IN_PROGRESS", g.String())
}

func TestSnapshot(t *testing.T) {
	g := newGame(t, "DOG", 6)
	_, _ = g.GuessLetter('o')
	_, _ = g.GuessLetter('z')
	_, _ = g.GuessWord("FOG")

	assert.Equal(t, Snapshot{
		Pattern:          "-O-",
		Length:           3,
		Status:           StatusInProgress,
		Score:            3,
		WrongGuesses:     2,
		WrongRemaining:   4,
		MaxWrongGuesses:  6,
		CorrectLetters:   "O",
		IncorrectLetters: "Z",
		IncorrectWords:   []string{"FOG"},
	}, g.Snapshot())
}
