// main.go
//
// Entry point for the Hangman server and its command-line tools.
//
//	hangman [serve]                 run the HTTP API (default)
//	hangman play [-max N] WORD...   let the strategy play the given words
//	hangman bench [-n N] [-max N]   simulate games over the dictionary
//
// Configuration comes from the environment (and .env when present); see
// internal/config.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/auth"
	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/db"
	"github.com/robalobadob/hangman/internal/httpserver"
	"github.com/robalobadob/hangman/internal/results"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/strategy"
	"github.com/robalobadob/hangman/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = serve(ctx, cfg)
	case "play":
		err = play(ctx, cfg, args, os.Stdout)
	case "bench":
		err = bench(ctx, cfg, args, os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want serve, play or bench)\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", cmd).Msg("exited")
	}
}

// setupLogging applies LOG_LEVEL and LOG_FORMAT to the global zerolog logger.
func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	dict, err := words.Load(cfg.WordsFile)
	if err != nil {
		return fmt.Errorf("load word list: %w", err)
	}

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer conn.Close()
	if err := db.Migrate(ctx, conn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	res, err := results.Open(ctx, cfg.DBDriver, conn, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open results store: %w", err)
	}
	defer res.Close()

	authn := auth.NewAuthenticator(auth.Config{
		Secret:      cfg.JWTSecret,
		ExpiresDays: cfg.JWTExpiresDays,
		CookieName:  cfg.CookieName,
		Secure:      cfg.Production,
	}, auth.NewUsers(conn))

	srv := httpserver.New(httpserver.Deps{
		Sessions:        store.NewMemoryStore(),
		Results:         res,
		Auth:            authn,
		Words:           dict,
		Strategy:        strategy.NewFrequency(dict),
		Logger:          log.Logger,
		MaxWrongGuesses: cfg.MaxWrongGuesses,
		DailySalt:       cfg.DailySalt,
		ClientOrigin:    cfg.ClientOrigin,
	})

	log.Info().
		Str("port", cfg.Port).
		Str("results", cfg.DBDriver).
		Int("words", dict.Len()).
		Msg("starting hangman server")
	return srv.Start(ctx, ":"+cfg.Port)
}
