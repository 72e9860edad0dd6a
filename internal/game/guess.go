package game

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Guess is a single move that knows how to apply itself to a game.
type Guess interface {
	// Apply makes the guess on g and returns the revealed pattern.
	Apply(g *Game) (string, error)
	fmt.Stringer
}

// LetterGuess guesses one letter.
type LetterGuess struct {
	letter rune
}

func NewLetterGuess(r rune) LetterGuess {
	return LetterGuess{letter: unicode.ToUpper(r)}
}

func (l LetterGuess) Letter() rune { return l.letter }

func (l LetterGuess) Apply(g *Game) (string, error) { return g.GuessLetter(l.letter) }

func (l LetterGuess) String() string { return "LetterGuess[" + string(l.letter) + "]" }

// WordGuess guesses the whole secret word.
type WordGuess struct {
	word string
}

func NewWordGuess(w string) WordGuess {
	return WordGuess{word: strings.ToUpper(w)}
}

func (w WordGuess) Word() string { return w.word }

func (w WordGuess) Apply(g *Game) (string, error) { return g.GuessWord(w.word) }

func (w WordGuess) String() string { return "WordGuess[" + w.word + "]" }

// ParseGuess turns raw input into a guess: a single rune is a letter guess,
// anything longer is a word guess.
func ParseGuess(s string) (Guess, error) {
	s = strings.TrimSpace(s)
	switch utf8.RuneCountInString(s) {
	case 0:
		return nil, fmt.Errorf("%w: empty guess", ErrInvalidArgument)
	case 1:
		r, _ := utf8.DecodeRuneInString(s)
		return NewLetterGuess(r), nil
	default:
		return NewWordGuess(s), nil
	}
}
