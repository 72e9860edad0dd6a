// internal/game/types.go
//
// Core type definitions for the Hangman game engine.
// Defines:
//   - Status: derived state of a game (in progress / won / lost).
//   - Game: state for a single in-progress or finished game.
//   - View: the read-only surface strategies and renderers are given.
//   - Snapshot: a JSON-friendly copy of everything a caller may observe.

package game

import "errors"

// Status is the derived state of a game. It is never stored, only computed.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusWon        Status = "WON"
	StatusLost       Status = "LOST"
)

const (
	// MysteryLetter marks positions of the secret word that are not revealed yet.
	MysteryLetter = '-'

	// LostScore is the fixed cost charged for a lost game.
	LostScore = 25
)

var (
	// ErrInvalidArgument reports malformed construction or guess input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIllegalState reports a guess attempted after the game has ended.
	ErrIllegalState = errors.New("illegal state")
)

// Game holds the state of a single Hangman game.
// It performs no locking: callers serialize guesses against one Game.
type Game struct {
	secret         []rune              // uppercase, immutable
	maxWrong       int                 // wrong guesses allowed before the game is lost
	revealed       []rune              // same length as secret, MysteryLetter where unknown
	correct        map[rune]struct{}   // guessed letters present in secret
	incorrect      map[rune]struct{}   // guessed letters absent from secret
	incorrectWords map[string]struct{} // word guesses that did not match
}

// View is the read-only subset of *Game.
type View interface {
	Pattern() string
	Status() Status
	Score() int
	NumWrongGuesses() int
	NumWrongGuessesRemaining() int
	MaxWrongGuesses() int
	SecretWordLength() int
	CorrectLetters() []rune
	IncorrectLetters() []rune
	AllGuessedLetters() []rune
	IncorrectWords() []string
	HasGuessed(r rune) bool
}

var _ View = (*Game)(nil)

// Snapshot is a point-in-time copy of the observable game state.
type Snapshot struct {
	Pattern          string   `json:"pattern"`
	Length           int      `json:"length"`
	Status           Status   `json:"status"`
	Score            int      `json:"score"`
	WrongGuesses     int      `json:"wrongGuesses"`
	WrongRemaining   int      `json:"wrongRemaining"`
	MaxWrongGuesses  int      `json:"maxWrongGuesses"`
	CorrectLetters   string   `json:"correctLetters"`
	IncorrectLetters string   `json:"incorrectLetters"`
	IncorrectWords   []string `json:"incorrectWords"`
}
