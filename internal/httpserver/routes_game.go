// internal/httpserver/routes_game.go
//
// Game endpoints:
//   - POST /game/new           → start a game (random word unless one is given)
//   - POST /game/guess         → apply a letter or word guess
//   - GET  /game/{id}          → current snapshot
//   - GET  /game/{id}/hint     → next guess suggested by the strategy
//   - POST /game/{id}/autoplay → let the strategy finish the game
//
// Every guess against a game runs under the session lock, so concurrent
// requests for one game are applied one at a time. Only the player who
// started a game may guess on it or autoplay it. A game that ends is
// recorded to the results store once, best effort; games started with a
// player-chosen word are never recorded.

package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/hangman/internal/auth"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/results"
	"github.com/robalobadob/hangman/internal/runner"
	"github.com/robalobadob/hangman/internal/store"
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Post("/game/guess", s.handleGuess)
	r.Get("/game/{id}", s.handleGetGame)
	r.Get("/game/{id}/hint", s.handleHint)
	r.Post("/game/{id}/autoplay", s.handleAutoplay)
}

// gameRes is the common game payload. The secret is only filled in once the
// game has ended.
type gameRes struct {
	GameID string `json:"gameId"`
	game.Snapshot
	Secret string `json:"secret,omitempty"`
	Date   string `json:"date,omitempty"`
	Custom bool   `json:"custom,omitempty"`
}

func gameResponse(sess *store.Session) gameRes {
	res := gameRes{GameID: sess.ID, Snapshot: sess.Game.Snapshot(), Date: sess.Daily, Custom: sess.Custom}
	if res.Status != game.StatusInProgress {
		res.Secret = sess.Game.Secret()
	}
	return res
}

type newGameReq struct {
	Word            string `json:"word"`            // optional fixed secret
	MaxWrongGuesses *int   `json:"maxWrongGuesses"` // optional, defaults to config
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	word := req.Word
	if word == "" {
		word = s.deps.Words.Random()
	}
	maxWrong := s.deps.MaxWrongGuesses
	if req.MaxWrongGuesses != nil {
		maxWrong = *req.MaxWrongGuesses
	}
	g, err := game.New(word, maxWrong)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	owner, _ := s.deps.Auth.PlayerID(w, r)
	sess, err := s.deps.Sessions.Create(r.Context(), owner, g)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.log.Debug().Str("gameId", sess.ID).Str("owner", owner).Int("length", g.SecretWordLength()).Msg("new game")

	var res gameRes
	if err := s.deps.Sessions.Update(r.Context(), sess.ID, func(sess *store.Session) error {
		sess.Custom = req.Word != ""
		res = gameResponse(sess)
		return nil
	}); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	guess, err := game.ParseGuess(req.Guess)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	var (
		res      gameRes
		finished *results.Result
	)
	err = s.deps.Sessions.Update(r.Context(), req.GameID, func(sess *store.Session) error {
		if !s.deps.Auth.IsPlayer(r, sess.Owner) {
			return errForbidden
		}
		if _, err := guess.Apply(sess.Game); err != nil {
			return err
		}
		sess.Guesses++
		res = gameResponse(sess)
		finished = s.finishedResult(r, sess)
		return nil
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if finished != nil {
		s.record(r, *finished)
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	var res gameRes
	err := s.deps.Sessions.View(r.Context(), chi.URLParam(r, "id"), func(sess *store.Session) error {
		res = gameResponse(sess)
		return nil
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var hint string
	err := s.deps.Sessions.View(r.Context(), chi.URLParam(r, "id"), func(sess *store.Session) error {
		if sess.Game.Status() != game.StatusInProgress {
			return game.ErrIllegalState
		}
		hint = s.deps.Strategy.NextGuess(sess.Game).String()
		return nil
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"guess": hint})
}

func (s *Server) handleAutoplay(w http.ResponseWriter, r *http.Request) {
	var (
		out      runner.Outcome
		runErr   error
		finished *results.Result
	)
	err := s.deps.Sessions.Update(r.Context(), chi.URLParam(r, "id"), func(sess *store.Session) error {
		if !s.deps.Auth.IsPlayer(r, sess.Owner) {
			return errForbidden
		}
		if sess.Game.Status() != game.StatusInProgress {
			return game.ErrIllegalState
		}
		out, runErr = runner.Run(r.Context(), sess.Game, s.deps.Strategy, runner.Options{Logger: &s.log})
		sess.Guesses += out.Turns
		finished = s.finishedResult(r, sess)
		return nil
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if finished != nil {
		s.record(r, *finished)
	}
	if runErr != nil {
		if errors.Is(runErr, runner.ErrTooManyTurns) {
			s.log.Warn().Err(runErr).Str("gameId", chi.URLParam(r, "id")).Msg("autoplay stalled")
		}
		s.writeDomainError(w, runErr)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// finishedResult returns the result row for a dictionary game that has just
// ended, or nil while it is still in progress or when the player chose the
// word. Called with the session locked.
func (s *Server) finishedResult(r *http.Request, sess *store.Session) *results.Result {
	if sess.Custom || sess.Game.Status() == game.StatusInProgress {
		return nil
	}
	var name string
	if u := auth.FromContext(r.Context()); u != nil && u.ID == sess.Owner {
		name = u.Username
	}
	res := results.FromGame(sess.ID, sess.Owner, name, sess.Game, sess.Guesses)
	res.DailyDate = sess.Daily
	return &res
}

// record persists a finished game and bumps account counters. Failures are
// logged, never returned to the player.
func (s *Server) record(r *http.Request, res results.Result) {
	ctx := r.Context()
	if s.deps.Results != nil {
		if err := s.deps.Results.Record(ctx, res); err != nil {
			s.log.Warn().Err(err).Str("gameId", res.GameID).Msg("record result")
		}
	}
	if u := auth.FromContext(r.Context()); u != nil && u.ID == res.PlayerID {
		if err := s.deps.Auth.Users().BumpStats(ctx, u.ID, res.Status == game.StatusWon); err != nil {
			s.log.Warn().Err(err).Str("user", u.ID).Msg("bump stats")
		}
	}
	s.log.Info().
		Str("gameId", res.GameID).
		Str("player", res.PlayerID).
		Str("status", string(res.Status)).
		Int("score", res.Score).
		Msg("game finished")
}
