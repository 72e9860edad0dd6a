package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/hangman/internal/db"
)

func newUsers(t *testing.T) *Users {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(context.Background(), conn))
	u := NewUsers(conn)
	u.cost = bcrypt.MinCost
	return u
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		user, pass string
		ok         bool
	}{
		{"alice", "password1", true},
		{"al", "password1", false},
		{"alice!", "password1", false},
		{"alice", "short", false},
	}
	for _, tt := range tests {
		err := validateSignup(tt.user, tt.pass)
		assert.Equal(t, tt.ok, err == nil, "%s/%s", tt.user, tt.pass)
	}
}

func TestCreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)

	u, err := users.Create(ctx, "  alice ", "password1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = users.Create(ctx, "ALICE", "password2")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := users.Authenticate(ctx, "Alice", "password1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.Authenticate(ctx, "alice", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.Authenticate(ctx, "bob", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestBumpStats(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)
	u, err := users.Create(ctx, "carol", "password1")
	require.NoError(t, err)

	require.NoError(t, users.BumpStats(ctx, u.ID, true))
	require.NoError(t, users.BumpStats(ctx, u.ID, true))
	got, err := users.ByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.GamesPlayed)
	assert.Equal(t, 2, got.Wins)
	assert.Equal(t, 2, got.Streak)

	require.NoError(t, users.BumpStats(ctx, u.ID, false))
	got, err = users.ByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.GamesPlayed)
	assert.Equal(t, 0, got.Streak)

	assert.ErrorIs(t, users.BumpStats(ctx, "missing", true), ErrUserNotFound)
}

func TestTokenRoundTripAndMiddleware(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)
	a := NewAuthenticator(Config{Secret: "test-secret"}, users)
	u, err := users.Create(ctx, "dave", "password1")
	require.NoError(t, err)

	tok, exp, err := a.Sign(u)
	require.NoError(t, err)
	assert.True(t, exp.After(a.now()))

	parsed, err := a.Parse(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, parsed.ID)

	other := NewAuthenticator(Config{Secret: "other"}, users)
	_, err = other.Parse(ctx, tok)
	assert.Error(t, err)

	var seen *User
	h := a.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "dave", seen.Username)

	// cookie works too, and Optional never rejects
	seen = nil
	opt := a.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "hangman_token", Value: tok})
	opt.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, seen)

	seen = nil
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	opt.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, seen)
}

func TestPlayerID(t *testing.T) {
	a := NewAuthenticator(Config{Secret: "test"}, nil)

	rec := httptest.NewRecorder()
	id, name := a.PlayerID(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, id, "anon-")
	assert.Empty(t, name)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, strings.HasPrefix(cookies[0].Value, id+"."), "cookie carries id and signature")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	again, _ := a.PlayerID(httptest.NewRecorder(), req)
	assert.Equal(t, id, again)
	assert.True(t, a.IsPlayer(req, id))
	assert.False(t, a.IsPlayer(req, "anon-someone-else"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), &User{ID: "u1", Username: "erin"}))
	id, name = a.PlayerID(httptest.NewRecorder(), req)
	assert.Equal(t, "u1", id)
	assert.Equal(t, "erin", name)
	assert.True(t, a.IsPlayer(req, "u1"))
}

func TestPlayerIDRejectsForgedCookie(t *testing.T) {
	a := NewAuthenticator(Config{Secret: "test"}, nil)
	other := NewAuthenticator(Config{Secret: "other"}, nil)

	rec := httptest.NewRecorder()
	foreignID, _ := other.PlayerID(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	foreign := rec.Result().Cookies()[0]

	forged := []string{
		"u1",                    // a user id with no signature
		"anon-abc",              // unsigned anon id
		"anon-abc.bm90LWEtbWFj", // wrong signature
		"u1." + a.anonMAC("u1"), // valid mac but not an anon id
		foreign.Value,           // signed with another secret
	}
	for _, v := range forged {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: anonCookieName, Value: v})
		rec := httptest.NewRecorder()
		id, _ := a.PlayerID(rec, req)
		assert.NotEqual(t, "u1", id, v)
		assert.NotEqual(t, "anon-abc", id, v)
		assert.NotEqual(t, foreignID, id, v)
		assert.Len(t, rec.Result().Cookies(), 1, "a fresh id is issued for %q", v)
		assert.False(t, a.IsPlayer(req, "u1"))
	}
}
