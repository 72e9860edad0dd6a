// internal/httpserver/routes_daily.go
//
// HTTP route for the daily word.
//   - POST /daily/new → start (or resume) today's game
//
// Every player gets the same word for a UTC date, chosen by HMAC(salt, date).
// A player can finish the daily game once; after that /daily/new answers
// played=true. Guesses go through the normal /game/guess endpoint and the
// result is recorded with its date.

package httpserver

import (
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/store"
)

// dailyIndex remembers the in-progress daily session per player and date.
type dailyIndex struct {
	mu       sync.Mutex
	sessions map[string]string // "player|date" → session id
}

func newDailyIndex() *dailyIndex {
	return &dailyIndex{sessions: make(map[string]string)}
}

func (d *dailyIndex) get(key string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, ok := d.sessions[key]
	return id, ok
}

func (d *dailyIndex) put(key, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions[key] = id
}

func (d *dailyIndex) drop(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sessions, key)
}

// prune drops entries for dates other than today and returns how many went.
func (d *dailyIndex) prune(today string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for key := range d.sessions {
		if !strings.HasSuffix(key, "|"+today) {
			delete(d.sessions, key)
			n++
		}
	}
	return n
}

func (s *Server) mountDaily(r chi.Router) {
	r.Post("/daily/new", s.handleDailyNew)
}

// dailyRes is returned by /daily/new.
type dailyRes struct {
	gameRes
	Played bool `json:"played"`
}

func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, _ := s.deps.Auth.PlayerID(w, r)
	date, word := daily.Word(s.deps.Now(), s.deps.DailySalt, s.deps.Words)

	if s.deps.Results != nil {
		played, err := s.deps.Results.PlayedDaily(ctx, owner, date)
		if err != nil {
			s.log.Warn().Err(err).Str("player", owner).Msg("check daily played")
		} else if played {
			writeJSON(w, http.StatusOK, dailyRes{gameRes: gameRes{Date: date}, Played: true})
			return
		}
	}

	key := owner + "|" + date
	if id, ok := s.daily.get(key); ok {
		var res gameRes
		err := s.deps.Sessions.View(ctx, id, func(sess *store.Session) error {
			res = gameResponse(sess)
			return nil
		})
		if err == nil {
			writeJSON(w, http.StatusOK, dailyRes{gameRes: res, Played: res.Status != game.StatusInProgress})
			return
		}
		s.daily.drop(key)
	}

	g, err := game.New(word, s.deps.MaxWrongGuesses)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	sess, err := s.deps.Sessions.Create(ctx, owner, g)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	var res gameRes
	if err := s.deps.Sessions.Update(ctx, sess.ID, func(sess *store.Session) error {
		sess.Daily = date
		res = gameResponse(sess)
		return nil
	}); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.daily.put(key, sess.ID)
	s.log.Debug().Str("gameId", sess.ID).Str("date", date).Msg("daily game")
	writeJSON(w, http.StatusOK, dailyRes{gameRes: res})
}
