// Package results records finished games and aggregates scores per player.
// Two backends share the Store interface: SQLite through database/sql (the
// default, same file as users) and Postgres through pgx.
package results

import (
	"context"
	"errors"
	"time"

	"github.com/robalobadob/hangman/internal/game"
)

// ErrUnknownDriver is returned by Open for an unsupported backend name.
var ErrUnknownDriver = errors.New("results: unknown driver")

const defaultLimit = 20

// Result is one finished game.
type Result struct {
	GameID       string      `json:"gameId"`
	PlayerID     string      `json:"playerId"`
	PlayerName   string      `json:"playerName,omitempty"`
	Secret       string      `json:"secret"`
	WordLength   int         `json:"wordLength"`
	Status       game.Status `json:"status"`
	Score        int         `json:"score"`
	WrongGuesses int         `json:"wrongGuesses"`
	Guesses      int         `json:"guesses"`
	DailyDate    string      `json:"dailyDate,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// FromGame fills a Result from a finished game.
func FromGame(gameID, playerID, playerName string, g *game.Game, guesses int) Result {
	return Result{
		GameID:       gameID,
		PlayerID:     playerID,
		PlayerName:   playerName,
		Secret:       g.Secret(),
		WordLength:   g.SecretWordLength(),
		Status:       g.Status(),
		Score:        g.Score(),
		WrongGuesses: g.NumWrongGuesses(),
		Guesses:      guesses,
	}
}

// PlayerStats aggregates every recorded game of one player.
// Lower AverageScore is better.
type PlayerStats struct {
	PlayerID     string  `json:"playerId"`
	PlayerName   string  `json:"playerName,omitempty"`
	Games        int     `json:"games"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	TotalScore   int     `json:"totalScore"`
	AverageScore float64 `json:"averageScore"`
}

// Store persists finished games.
type Store interface {
	// Record inserts r. Recording the same GameID twice keeps the first row.
	Record(ctx context.Context, r Result) error

	// PlayerStats aggregates the games of one player. Unknown players get zero stats.
	PlayerStats(ctx context.Context, playerID string) (PlayerStats, error)

	// Recent lists a player's latest results, newest first.
	Recent(ctx context.Context, playerID string, limit int) ([]Result, error)

	// Leaderboard ranks players by average score ascending, then games played.
	Leaderboard(ctx context.Context, limit int) ([]PlayerStats, error)

	// PlayedDaily reports whether playerID already finished the daily game of date.
	PlayedDaily(ctx context.Context, playerID, date string) (bool, error)

	Close() error
}

func normLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return defaultLimit
	}
	return limit
}
