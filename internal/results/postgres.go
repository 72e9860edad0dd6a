package results

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/game"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS results (
    id            BIGSERIAL PRIMARY KEY,
    game_id       TEXT NOT NULL UNIQUE,
    player_id     TEXT NOT NULL,
    player_name   TEXT NOT NULL DEFAULT '',
    secret        TEXT NOT NULL,
    word_length   INTEGER NOT NULL,
    status        TEXT NOT NULL,
    score         INTEGER NOT NULL,
    wrong_guesses INTEGER NOT NULL,
    guesses       INTEGER NOT NULL,
    daily_date    TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_results_player ON results(player_id);
CREATE INDEX IF NOT EXISTS idx_results_daily ON results(player_id, daily_date);
`

// PostgresStore keeps results in Postgres so several server instances can
// share one leaderboard.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to connStr and creates the results table if needed.
// The caller is responsible for calling Close.
func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	var username, database string
	if err := pool.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database); err != nil {
		pool.Close()
		return nil, fmt.Errorf("query postgres: %w", err)
	}
	log.Info().Str("database", database).Str("user", username).Msg("connected to postgres")

	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create results schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Record(ctx context.Context, r Result) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO results
		    (game_id, player_id, player_name, secret, word_length, status, score, wrong_guesses, guesses, daily_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (game_id) DO NOTHING`,
		r.GameID, r.PlayerID, r.PlayerName, r.Secret, r.WordLength, string(r.Status),
		r.Score, r.WrongGuesses, r.Guesses, r.DailyDate,
	)
	if err != nil {
		return fmt.Errorf("record result %s: %w", r.GameID, err)
	}
	return nil
}

const pgAggregate = `
		SELECT player_id,
		       MAX(player_name),
		       COUNT(1)::int,
		       COALESCE(SUM(CASE WHEN status = 'WON' THEN 1 ELSE 0 END), 0)::int,
		       COALESCE(SUM(CASE WHEN status = 'LOST' THEN 1 ELSE 0 END), 0)::int,
		       COALESCE(SUM(score), 0)::int,
		       COALESCE(AVG(score), 0)::float8
		FROM results`

func (s *PostgresStore) PlayerStats(ctx context.Context, playerID string) (PlayerStats, error) {
	st := PlayerStats{PlayerID: playerID}
	err := s.pool.QueryRow(ctx, pgAggregate+` WHERE player_id=$1 GROUP BY player_id`, playerID).
		Scan(&st.PlayerID, &st.PlayerName, &st.Games, &st.Wins, &st.Losses, &st.TotalScore, &st.AverageScore)
	if err == pgx.ErrNoRows {
		return PlayerStats{PlayerID: playerID}, nil
	}
	return st, err
}

func (s *PostgresStore) Leaderboard(ctx context.Context, limit int) ([]PlayerStats, error) {
	rows, err := s.pool.Query(ctx, pgAggregate+`
		GROUP BY player_id
		ORDER BY AVG(score) ASC, COUNT(1) DESC, player_id ASC
		LIMIT $1`, normLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PlayerStats{}
	for rows.Next() {
		var st PlayerStats
		if err := rows.Scan(&st.PlayerID, &st.PlayerName, &st.Games, &st.Wins, &st.Losses, &st.TotalScore, &st.AverageScore); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Recent(ctx context.Context, playerID string, limit int) ([]Result, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT game_id, player_id, player_name, secret, word_length, status, score,
		       wrong_guesses, guesses, daily_date, created_at
		FROM results
		WHERE player_id=$1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, playerID, normLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		var (
			r      Result
			status string
		)
		if err := rows.Scan(&r.GameID, &r.PlayerID, &r.PlayerName, &r.Secret, &r.WordLength, &status,
			&r.Score, &r.WrongGuesses, &r.Guesses, &r.DailyDate, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Status = game.Status(status)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) PlayedDaily(ctx context.Context, playerID, date string) (bool, error) {
	var cnt int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(1)::int FROM results WHERE player_id=$1 AND daily_date=$2`,
		playerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
