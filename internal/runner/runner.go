// internal/runner/runner.go
//
// Drives games to completion with a guessing strategy.
// Responsibilities:
//   - Run: ask a strategy for guesses and apply them until the game ends.
//   - Simulate: play many independent games in parallel and aggregate scores.
//
// Notes:
//   - Each game is owned by exactly one goroutine; strategies shared across
//     games must be safe for concurrent use.
//   - MaxTurns bounds a run so a strategy that repeats itself cannot spin forever.

package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/strategy"
)

const (
	defaultMaxTurns    = 64
	defaultParallelism = 8
)

// ErrTooManyTurns is returned when a game is still running after MaxTurns guesses.
var ErrTooManyTurns = errors.New("runner: too many turns")

// Options tunes Run and Simulate. Zero values pick defaults.
type Options struct {
	MaxTurns    int
	Parallelism int
	Logger      *zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxTurns <= 0 {
		o.MaxTurns = defaultMaxTurns
	}
	if o.Parallelism <= 0 {
		o.Parallelism = defaultParallelism
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	return o
}

// Outcome is the result of one driven game.
type Outcome struct {
	Secret  string        `json:"secret"`
	Pattern string        `json:"pattern"`
	Status  game.Status   `json:"status"`
	Score   int           `json:"score"`
	Turns   int           `json:"turns"`
	Guesses []string      `json:"guesses"`
	Elapsed time.Duration `json:"elapsedNs"`
}

// Run plays g with s until the game is no longer in progress.
// On error the returned Outcome still describes the game as far as it got.
func Run(ctx context.Context, g *game.Game, s strategy.GuessingStrategy, opts Options) (Outcome, error) {
	opts = opts.withDefaults()
	start := time.Now()
	out := Outcome{Secret: g.Secret()}

	finish := func(err error) (Outcome, error) {
		out.Pattern = g.Pattern()
		out.Status = g.Status()
		out.Score = g.Score()
		out.Elapsed = time.Since(start)
		return out, err
	}

	for g.Status() == game.StatusInProgress {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		if out.Turns >= opts.MaxTurns {
			return finish(fmt.Errorf("%w: %d guesses on %s", ErrTooManyTurns, out.Turns, g.Pattern()))
		}
		guess := s.NextGuess(g)
		pattern, err := guess.Apply(g)
		if err != nil {
			return finish(fmt.Errorf("apply %s: %w", guess, err))
		}
		out.Turns++
		out.Guesses = append(out.Guesses, guess.String())
		opts.Logger.Debug().
			Int("turn", out.Turns).
			Str("guess", guess.String()).
			Str("pattern", pattern).
			Int("wrong", g.NumWrongGuesses()).
			Msg("guess applied")
	}

	res, err := finish(nil)
	opts.Logger.Debug().Str("game", g.String()).Int("turns", res.Turns).Msg("game finished")
	return res, err
}

// Summary aggregates a batch of simulated games.
type Summary struct {
	Games        int       `json:"games"`
	Wins         int       `json:"wins"`
	Losses       int       `json:"losses"`
	TotalScore   int       `json:"totalScore"`
	AverageScore float64   `json:"averageScore"`
	Outcomes     []Outcome `json:"outcomes"`
}

// Simulate plays one fresh game per secret, each with maxWrong allowed wrong
// guesses, and aggregates the results. Outcomes keep the order of secrets.
func Simulate(ctx context.Context, secrets []string, maxWrong int, s strategy.GuessingStrategy, opts Options) (Summary, error) {
	opts = opts.withDefaults()
	outcomes := make([]Outcome, len(secrets))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Parallelism)
	for i, secret := range secrets {
		i, secret := i, secret
		eg.Go(func() error {
			g, err := game.New(secret, maxWrong)
			if err != nil {
				return fmt.Errorf("secret %d: %w", i, err)
			}
			out, err := Run(ctx, g, s, opts)
			if err != nil {
				return fmt.Errorf("secret %q: %w", g.Secret(), err)
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Summary{}, err
	}

	sum := Summary{Games: len(outcomes), Outcomes: outcomes}
	for _, o := range outcomes {
		sum.TotalScore += o.Score
		switch o.Status {
		case game.StatusWon:
			sum.Wins++
		case game.StatusLost:
			sum.Losses++
		}
	}
	if sum.Games > 0 {
		sum.AverageScore = float64(sum.TotalScore) / float64(sum.Games)
	}
	opts.Logger.Info().
		Int("games", sum.Games).
		Int("wins", sum.Wins).
		Int("losses", sum.Losses).
		Float64("avgScore", sum.AverageScore).
		Msg("simulation finished")
	return sum, nil
}
