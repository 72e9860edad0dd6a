// internal/game/engine.go
//
// Core game engine for a single Hangman game.
// Responsibilities:
//   - Create games from a secret word and a wrong-guess ceiling.
//   - Apply letter and word guesses, revealing positions of the secret.
//   - Derive status and score from the current state on every call.
//
// Notes:
//   - All input is upper-cased at the boundary; internally everything is uppercase.
//   - A guess from a finished game fails with ErrIllegalState before anything is touched.
//   - Repeated guesses land in the same set again and cost nothing extra.
package game

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// New constructs a game for secret with at most maxWrongGuesses wrong guesses.
// The secret must be a non-empty run of letters.
func New(secret string, maxWrongGuesses int) (*Game, error) {
	word := []rune(strings.ToUpper(strings.TrimSpace(secret)))
	if len(word) == 0 {
		return nil, fmt.Errorf("%w: secret word must not be empty", ErrInvalidArgument)
	}
	if maxWrongGuesses < 0 {
		return nil, fmt.Errorf("%w: max wrong guesses must not be negative, got %d", ErrInvalidArgument, maxWrongGuesses)
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return nil, fmt.Errorf("%w: secret word must contain only letters, got %q", ErrInvalidArgument, r)
		}
	}

	revealed := make([]rune, len(word))
	for i := range revealed {
		revealed[i] = MysteryLetter
	}
	return &Game{
		secret:         word,
		maxWrong:       maxWrongGuesses,
		revealed:       revealed,
		correct:        make(map[rune]struct{}),
		incorrect:      make(map[rune]struct{}),
		incorrectWords: make(map[string]struct{}),
	}, nil
}

// GuessLetter reveals every occurrence of ch and records it as a correct or
// incorrect letter. It returns the revealed pattern.
func (g *Game) GuessLetter(ch rune) (string, error) {
	if err := g.assertCanKeepGuessing(); err != nil {
		return g.Pattern(), err
	}
	ch = unicode.ToUpper(ch)

	hit := false
	for i, r := range g.secret {
		if r == ch {
			g.revealed[i] = ch
			hit = true
		}
	}
	if hit {
		g.correct[ch] = struct{}{}
	} else {
		g.incorrect[ch] = struct{}{}
	}
	return g.Pattern(), nil
}

// GuessWord reveals the whole secret on an exact match, otherwise records
// the word as an incorrect guess. It returns the revealed pattern.
func (g *Game) GuessWord(word string) (string, error) {
	if err := g.assertCanKeepGuessing(); err != nil {
		return g.Pattern(), err
	}
	word = strings.ToUpper(word)

	if word == string(g.secret) {
		copy(g.revealed, g.secret)
	} else {
		g.incorrectWords[word] = struct{}{}
	}
	return g.Pattern(), nil
}

func (g *Game) assertCanKeepGuessing() error {
	if st := g.Status(); st != StatusInProgress {
		return fmt.Errorf("%w: cannot guess after game has ended (status %s)", ErrIllegalState, st)
	}
	return nil
}

// Status reports won, lost or in progress. The ceiling is inclusive: a game
// is only lost once the wrong guesses exceed it.
func (g *Game) Status() Status {
	switch {
	case string(g.revealed) == string(g.secret):
		return StatusWon
	case g.NumWrongGuesses() > g.maxWrong:
		return StatusLost
	default:
		return StatusInProgress
	}
}

// Score is a cost, lower is better.
func (g *Game) Score() int {
	if g.Status() == StatusLost {
		return LostScore
	}
	return g.NumWrongGuesses() + len(g.correct)
}

// NumWrongGuesses counts distinct wrong letters plus distinct wrong words.
func (g *Game) NumWrongGuesses() int {
	return len(g.incorrect) + len(g.incorrectWords)
}

// NumWrongGuessesRemaining goes negative once the game is lost.
func (g *Game) NumWrongGuessesRemaining() int {
	return g.maxWrong - g.NumWrongGuesses()
}

// MaxWrongGuesses is the ceiling the game was created with.
func (g *Game) MaxWrongGuesses() int { return g.maxWrong }

// SecretWordLength is the number of letters in the secret.
func (g *Game) SecretWordLength() int { return len(g.secret) }

// Pattern returns the revealed word with MysteryLetter in unknown positions.
func (g *Game) Pattern() string { return string(g.revealed) }

// Secret returns the secret word. It is deliberately not part of View.
func (g *Game) Secret() string { return string(g.secret) }

// CorrectLetters returns the guessed letters found in the secret, sorted.
func (g *Game) CorrectLetters() []rune { return sortedRunes(g.correct) }

// IncorrectLetters returns the guessed letters missing from the secret, sorted.
func (g *Game) IncorrectLetters() []rune { return sortedRunes(g.incorrect) }

// AllGuessedLetters is the union of correct and incorrect letters.
func (g *Game) AllGuessedLetters() []rune {
	all := make(map[rune]struct{}, len(g.correct)+len(g.incorrect))
	for r := range g.correct {
		all[r] = struct{}{}
	}
	for r := range g.incorrect {
		all[r] = struct{}{}
	}
	return sortedRunes(all)
}

// IncorrectWords returns the wrong word guesses, sorted.
func (g *Game) IncorrectWords() []string {
	out := make([]string, 0, len(g.incorrectWords))
	for w := range g.incorrectWords {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// HasGuessed reports whether r was already guessed, in either case.
func (g *Game) HasGuessed(r rune) bool {
	r = unicode.ToUpper(r)
	if _, ok := g.correct[r]; ok {
		return true
	}
	_, ok := g.incorrect[r]
	return ok
}

// Snapshot copies the observable state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Pattern:          g.Pattern(),
		Length:           g.SecretWordLength(),
		Status:           g.Status(),
		Score:            g.Score(),
		WrongGuesses:     g.NumWrongGuesses(),
		WrongRemaining:   g.NumWrongGuessesRemaining(),
		MaxWrongGuesses:  g.maxWrong,
		CorrectLetters:   string(g.CorrectLetters()),
		IncorrectLetters: string(g.IncorrectLetters()),
		IncorrectWords:   g.IncorrectWords(),
	}
}

func (g *Game) String() string {
	return fmt.Sprintf("%s; score=%d; status=%s", g.Pattern(), g.Score(), g.Status())
}

func sortedRunes(set map[rune]struct{}) []rune {
	out := make([]rune, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
