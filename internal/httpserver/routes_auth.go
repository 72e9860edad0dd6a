// internal/httpserver/routes_auth.go
//
// Account and result endpoints.
//   - POST /auth/signup, POST /auth/login, POST /auth/logout
//   - GET  /auth/me (require auth)
//   - GET  /results/me          → stats + recent games for the caller (user or guest)
//   - GET  /results/leaderboard → players ranked by average score, lowest first

package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/robalobadob/hangman/internal/auth"
	"github.com/robalobadob/hangman/internal/results"
)

// credentialsReq is the payload for signup/login.
type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) mountAuth() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)
	s.r.With(s.deps.Auth.Require).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, auth.FromContext(r.Context()))
	})
}

// handleSignup creates a new user, signs a JWT and sets the auth cookie.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.deps.Auth.Users().Create(r.Context(), body.Username, body.Password)
	switch {
	case errors.Is(err, auth.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username_taken")
		return
	case err != nil:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_signup", "detail": err.Error()})
		return
	}
	s.issueToken(w, u)
}

// handleLogin authenticates the user and sets the auth cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.deps.Auth.Users().Authenticate(r.Context(), body.Username, body.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			s.log.Error().Err(err).Msg("login")
		}
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	s.issueToken(w, u)
}

func (s *Server) issueToken(w http.ResponseWriter, u *auth.User) {
	tok, exp, err := s.deps.Auth.Sign(u)
	if err != nil {
		s.log.Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.deps.Auth.SetCookie(w, tok, exp)
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username, "token": tok})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.deps.Auth.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleMyResults(w http.ResponseWriter, r *http.Request) {
	if s.deps.Results == nil {
		writeError(w, http.StatusServiceUnavailable, "results_disabled")
		return
	}
	player, _ := s.deps.Auth.PlayerID(w, r)
	stats, err := s.deps.Results.PlayerStats(r.Context(), player)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	recent, err := s.deps.Results.Recent(r.Context(), player, queryInt(r, "limit", 0))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if recent == nil {
		recent = []results.Result{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats, "recent": recent})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.deps.Results == nil {
		writeError(w, http.StatusServiceUnavailable, "results_disabled")
		return
	}
	rows, err := s.deps.Results.Leaderboard(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if rows == nil {
		rows = []results.PlayerStats{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// queryInt reads an integer query parameter; bad values fall back to def.
func queryInt(r *http.Request, k string, def int) int {
	if n, err := strconv.Atoi(r.URL.Query().Get(k)); err == nil {
		return n
	}
	return def
}
