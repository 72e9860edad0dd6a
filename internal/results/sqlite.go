package results

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/robalobadob/hangman/internal/game"
)

// SQLStore is the database/sql backend, used with the migrated SQLite file.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps an already-migrated database. Closing the store does not
// close db; the caller owns it.
func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Record(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO results
            (game_id, player_id, player_name, secret, word_length, status, score, wrong_guesses, guesses, daily_date)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.PlayerID, r.PlayerName, r.Secret, r.WordLength, string(r.Status),
		r.Score, r.WrongGuesses, r.Guesses, r.DailyDate,
	)
	if err != nil {
		return fmt.Errorf("record result %s: %w", r.GameID, err)
	}
	return nil
}

const sqlAggregate = `
        SELECT player_id,
               MAX(player_name),
               COUNT(1),
               COALESCE(SUM(CASE WHEN status = 'WON' THEN 1 ELSE 0 END), 0),
               COALESCE(SUM(CASE WHEN status = 'LOST' THEN 1 ELSE 0 END), 0),
               COALESCE(SUM(score), 0),
               COALESCE(AVG(score), 0)
        FROM results`

func (s *SQLStore) PlayerStats(ctx context.Context, playerID string) (PlayerStats, error) {
	rows, err := s.db.QueryContext(ctx, sqlAggregate+` WHERE player_id=? GROUP BY player_id`, playerID)
	if err != nil {
		return PlayerStats{}, err
	}
	defer rows.Close()

	st := PlayerStats{PlayerID: playerID}
	if rows.Next() {
		if err := scanStats(rows, &st); err != nil {
			return PlayerStats{}, err
		}
	}
	return st, rows.Err()
}

func (s *SQLStore) Leaderboard(ctx context.Context, limit int) ([]PlayerStats, error) {
	rows, err := s.db.QueryContext(ctx, sqlAggregate+`
        GROUP BY player_id
        ORDER BY AVG(score) ASC, COUNT(1) DESC, player_id ASC
        LIMIT ?`, normLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PlayerStats{}
	for rows.Next() {
		var st PlayerStats
		if err := scanStats(rows, &st); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func scanStats(rows *sql.Rows, st *PlayerStats) error {
	return rows.Scan(&st.PlayerID, &st.PlayerName, &st.Games, &st.Wins, &st.Losses, &st.TotalScore, &st.AverageScore)
}

func (s *SQLStore) Recent(ctx context.Context, playerID string, limit int) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT game_id, player_id, player_name, secret, word_length, status, score,
               wrong_guesses, guesses, daily_date, created_at
        FROM results
        WHERE player_id=?
        ORDER BY created_at DESC, id DESC
        LIMIT ?`, playerID, normLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		var (
			r       Result
			status  string
			created string
		)
		if err := rows.Scan(&r.GameID, &r.PlayerID, &r.PlayerName, &r.Secret, &r.WordLength, &status,
			&r.Score, &r.WrongGuesses, &r.Guesses, &r.DailyDate, &created); err != nil {
			return nil, err
		}
		r.Status = game.Status(status)
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) PlayedDaily(ctx context.Context, playerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM results WHERE player_id=? AND daily_date=?`,
		playerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// Close is a no-op; the *sql.DB belongs to the caller.
func (s *SQLStore) Close() error { return nil }
