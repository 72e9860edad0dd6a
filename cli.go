// cli.go
//
// Command-line tools that run next to the server.
// Responsibilities:
//   - play: let the frequency strategy play the words given on the command line.
//   - bench: simulate games over the dictionary and report score statistics.
//
// Both print to out and share the config used by serve.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/runner"
	"github.com/robalobadob/hangman/internal/strategy"
	"github.com/robalobadob/hangman/internal/words"
)

// play runs the frequency strategy against each word and prints every game
// followed by the total and average score.
func play(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.SetOutput(out)
	maxWrong := fs.Int("max", cfg.MaxWrongGuesses, "maximum wrong guesses per game")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("play: no words given")
	}

	dict, err := words.Load(cfg.WordsFile)
	if err != nil {
		return err
	}
	s := strategy.NewFrequency(dict)
	logger := log.Logger

	total := 0
	for _, w := range fs.Args() {
		g, err := game.New(w, *maxWrong)
		if err != nil {
			return err
		}
		if _, err := runner.Run(ctx, g, s, runner.Options{Logger: &logger}); err != nil {
			return fmt.Errorf("play %q: %w", w, err)
		}
		fmt.Fprintln(out, g)
		total += g.Score()
	}
	fmt.Fprintf(out, "-----\ngames=%d total=%d average=%.2f\n", fs.NArg(), total, float64(total)/float64(fs.NArg()))
	return nil
}

// bench simulates n games over random dictionary words (all words when n <= 0).
func bench(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	fs.SetOutput(out)
	n := fs.Int("n", 200, "number of games, 0 for the whole dictionary")
	maxWrong := fs.Int("max", cfg.MaxWrongGuesses, "maximum wrong guesses per game")
	parallel := fs.Int("p", 0, "parallel games (0 = default)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dict, err := words.Load(cfg.WordsFile)
	if err != nil {
		return err
	}
	secrets := dict.Words()
	if *n > 0 && *n < len(secrets) {
		rand.Shuffle(len(secrets), func(i, j int) { secrets[i], secrets[j] = secrets[j], secrets[i] })
		secrets = secrets[:*n]
	}

	logger := log.Logger
	sum, err := runner.Simulate(ctx, secrets, *maxWrong, strategy.NewFrequency(dict), runner.Options{
		Parallelism: *parallel,
		Logger:      &logger,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "games=%d wins=%d losses=%d total=%d average=%.2f\n",
		sum.Games, sum.Wins, sum.Losses, sum.TotalScore, sum.AverageScore)
	return nil
}
