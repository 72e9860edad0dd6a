// Package strategy holds the extension point that picks the next guess from
// the observable state of a game, plus the strategies shipped with the server.
package strategy

import "github.com/robalobadob/hangman/internal/game"

// GuessingStrategy computes the next guess for a game.
// Implementations must not mutate the game (they only get a View), must
// return and must be safe for concurrent use if shared between games.
type GuessingStrategy interface {
	NextGuess(v game.View) game.Guess
}

// Func adapts a plain function to GuessingStrategy.
type Func func(v game.View) game.Guess

func (f Func) NextGuess(v game.View) game.Guess { return f(v) }

// englishOrder is the usual English letter frequency order.
const englishOrder = "ETAOINSHRDLCUMWFGYPBVKJXQZ"

// Ordered guesses unguessed letters in English frequency order.
type Ordered struct{}

func (Ordered) NextGuess(v game.View) game.Guess {
	for _, r := range englishOrder {
		if !v.HasGuessed(r) {
			return game.NewLetterGuess(r)
		}
	}
	// Every ASCII letter is spent; only a word guess is left.
	return game.NewWordGuess(v.Pattern())
}
