// internal/auth/tokens.go
//
// JWT + cookie handling and the auth middleware.
//   - Tokens are HS256 with id/username claims and a configurable expiry.
//   - Tokens are read from "Authorization: Bearer" or the auth cookie.
//   - Optional decorates the request with the user when a valid token is present.
//   - Require rejects requests without one.
//   - Guests get a stable anonymous id cookie so their games can be tied together.
//     The cookie carries an HMAC of the id, so only ids this server issued are accepted.

package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const anonCookieName = "hangman_anon"

// Config holds token and cookie settings.
type Config struct {
	Secret      string
	ExpiresDays int
	CookieName  string
	Secure      bool // production: Secure + SameSite=None cookies
}

// Authenticator signs and verifies tokens and resolves users.
type Authenticator struct {
	cfg   Config
	users *Users
	now   func() time.Time
}

func NewAuthenticator(cfg Config, users *Users) *Authenticator {
	if cfg.Secret == "" {
		cfg.Secret = "dev_secret_change_me"
	}
	if cfg.ExpiresDays <= 0 {
		cfg.ExpiresDays = 14
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "hangman_token"
	}
	return &Authenticator{cfg: cfg, users: users, now: time.Now}
}

func (a *Authenticator) Users() *Users { return a.users }

// Sign creates an HS256 JWT for the user.
func (a *Authenticator) Sign(u *User) (string, time.Time, error) {
	now := a.now()
	exp := now.Add(time.Duration(a.cfg.ExpiresDays) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       u.ID,
		"username": u.Username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString([]byte(a.cfg.Secret))
	return ss, exp, err
}

// Parse verifies a token and returns the user it names. The user must still exist.
func (a *Authenticator) Parse(ctx context.Context, tokenStr string) (*User, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(a.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return nil, errors.New("invalid token")
	}
	return a.users.ByID(ctx, id)
}

// SetCookie writes the auth token cookie with appropriate security attributes.
func (a *Authenticator) SetCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, a.cookie(token, exp, 0))
}

// ClearCookie deletes the auth token cookie.
func (a *Authenticator) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, a.cookie("", time.Time{}, -1))
}

func (a *Authenticator) cookie(value string, exp time.Time, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if a.cfg.Secure {
		sameSite = http.SameSiteNoneMode // required for third‑party contexts when Secure
	}
	return &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.cfg.Secure,
		SameSite: sameSite,
		Expires:  exp,
		MaxAge:   maxAge,
	}
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func (a *Authenticator) bearerOrCookie(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if c, err := r.Cookie(a.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// ctxUserKey is the context key type for storing *User.
type ctxUserKey struct{}

// FromContext returns the authenticated user, or nil for guests.
func FromContext(ctx context.Context) *User {
	u, _ := ctx.Value(ctxUserKey{}).(*User)
	return u
}

// WithUser stores u in ctx.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, u)
}

// Optional decorates requests with the user if a valid JWT is present.
// It never 401s; used for routes where guests are allowed.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := a.bearerOrCookie(r); tok != "" {
			if u, err := a.Parse(r.Context(), tok); err == nil {
				r = r.WithContext(WithUser(r.Context(), u))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Require enforces a valid JWT and injects the user into the request context.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := a.bearerOrCookie(r)
		if tok == "" {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		u, err := a.Parse(r.Context(), tok)
		if err != nil {
			http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

// PlayerID returns the user id for authenticated requests, otherwise an
// anonymous id read from (or newly set as) a signed cookie.
func (a *Authenticator) PlayerID(w http.ResponseWriter, r *http.Request) (id, name string) {
	if u := FromContext(r.Context()); u != nil {
		return u.ID, u.Username
	}
	if id, ok := a.anonID(r); ok {
		return id, ""
	}
	id = "anon-" + uuid.NewString()
	sameSite := http.SameSiteLaxMode
	if a.cfg.Secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id + "." + a.anonMAC(id),
		Path:     "/",
		HttpOnly: true,
		Secure:   a.cfg.Secure,
		SameSite: sameSite,
		Expires:  a.now().Add(180 * 24 * time.Hour),
	})
	return id, ""
}

// IsPlayer reports whether the request comes from player id, either as the
// logged-in user or through the anonymous cookie issued to that id.
func (a *Authenticator) IsPlayer(r *http.Request, id string) bool {
	if id == "" {
		return false
	}
	if u := FromContext(r.Context()); u != nil && u.ID == id {
		return true
	}
	anon, ok := a.anonID(r)
	return ok && anon == id
}

// anonID returns the id from a valid anonymous cookie.
func (a *Authenticator) anonID(r *http.Request) (string, bool) {
	c, err := r.Cookie(anonCookieName)
	if err != nil {
		return "", false
	}
	i := strings.LastIndexByte(c.Value, '.')
	if i <= 0 {
		return "", false
	}
	id, mac := c.Value[:i], c.Value[i+1:]
	if !strings.HasPrefix(id, "anon-") || !hmac.Equal([]byte(mac), []byte(a.anonMAC(id))) {
		return "", false
	}
	return id, true
}

func (a *Authenticator) anonMAC(id string) string {
	h := hmac.New(sha256.New, []byte(a.cfg.Secret))
	h.Write([]byte("anon:" + id))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
