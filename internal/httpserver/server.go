// internal/httpserver/server.go
//
// HTTP server wiring for the Hangman backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): /game/*.
//   - Daily word (optional auth): POST /daily/new.
//   - Auth endpoints: /auth/*; result history and leaderboard: /results/*.
//   - Mapping domain errors onto HTTP status codes.
//   - Periodic eviction of expired sessions and stale daily entries.
//
// Notes:
//   - CORS is origin‑aware and credentials‑enabled (so cookies work).
//   - Guests are identified by an anonymous cookie; their results are recorded
//     under that id.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/robalobadob/hangman/internal/auth"
	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/results"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/strategy"
	"github.com/robalobadob/hangman/internal/words"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Sessions store.Store
	Results  results.Store
	Auth     *auth.Authenticator
	Words    *words.Dictionary
	Strategy strategy.GuessingStrategy
	Logger   zerolog.Logger

	MaxWrongGuesses int           // used when a new game does not name one
	DailySalt       string        // HMAC key for the daily word
	ClientOrigin    string        // CORS origin
	SessionTTL      time.Duration // sessions older than this are evicted
	FinishedGrace   time.Duration // finished sessions are evicted after this
	Now             func() time.Time
}

const (
	defaultSessionTTL    = 24 * time.Hour
	defaultFinishedGrace = 10 * time.Minute
	sweepInterval        = time.Minute
)

// errForbidden is returned when a caller acts on another player's game.
var errForbidden = errors.New("not your game")

// Server bundles router and dependencies.
type Server struct {
	r     *chi.Mux
	deps  Deps
	log   zerolog.Logger
	daily *dailyIndex
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Strategy == nil {
		d.Strategy = strategy.NewFrequency(d.Words)
	}
	if d.ClientOrigin == "" {
		d.ClientOrigin = "http://localhost:5173"
	}
	if d.SessionTTL <= 0 {
		d.SessionTTL = defaultSessionTTL
	}
	if d.FinishedGrace <= 0 {
		d.FinishedGrace = defaultFinishedGrace
	}
	s := &Server{r: chi.NewRouter(), deps: d, log: d.Logger, daily: newDailyIndex()}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(s.accessLog)                     // one line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(d.ClientOrigin))            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"hangman-go","endpoints":["/health","POST /game/new","POST /game/guess","GET /game/{id}","POST /daily/new","/auth/*","/results/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Game + daily endpoints: OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(d.Auth.Optional)
		s.mountGame(r)
		s.mountDaily(r)
		r.Get("/results/me", s.handleMyResults)
	})
	s.r.Get("/results/leaderboard", s.handleLeaderboard)

	s.mountAuth()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr and shuts down gracefully when ctx ends.
// Expired sessions are swept in the background while it runs.
func (s *Server) Start(ctx context.Context, addr string) error {
	go s.sweepLoop(ctx)

	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

func (s *Server) sweepLoop(ctx context.Context) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep(ctx)
		}
	}
}

// sweep evicts expired sessions and daily index entries from earlier dates.
func (s *Server) sweep(ctx context.Context) {
	n, err := s.deps.Sessions.Sweep(ctx, s.deps.SessionTTL, s.deps.FinishedGrace)
	if err != nil {
		s.log.Warn().Err(err).Msg("sweep sessions")
	}
	dropped := s.daily.prune(daily.DateKey(s.deps.Now()))
	if n > 0 || dropped > 0 {
		s.log.Debug().Int("sessions", n).Int("daily", dropped).Msg("swept")
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes method, path, status and duration through zerolog.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("http")
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeDomainError maps store/game errors to status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, game.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_argument", "detail": err.Error()})
	case errors.Is(err, game.ErrIllegalState):
		writeError(w, http.StatusConflict, "game_over")
	case errors.Is(err, errForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	default:
		s.log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal")
	}
}

// decodeBody decodes an optional JSON body; an empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
