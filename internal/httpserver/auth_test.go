package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/hangman/internal/results"
	"github.com/robalobadob/hangman/internal/words"
)

func myStats(t *testing.T, c *client) results.Stats {
	t.Helper()
	rec := c.do(http.MethodGet, "/stats/me", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var st results.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	return st
}

func TestValidateSignup(t *testing.T) {
	cases := []struct {
		name    string
		user    string
		pass    string
		wantErr bool
	}{
		{name: "ok", user: "alice_1", pass: "longenough"},
		{name: "short username", user: "al", pass: "longenough", wantErr: true},
		{name: "bad chars", user: "al ice", pass: "longenough", wantErr: true},
		{name: "short password", user: "alice", pass: "short", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateSignup(tc.user, tc.pass)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSignupLoginAndStats(t *testing.T) {
	_, c := newTestServer(t, func(cfg *Config) {
		cfg.Words = words.NewList([]string{"gopher"})
	})

	// Play a guest game first; it is claimed on signup.
	id := c.newGame("REACT").GameID
	for _, l := range []string{"R", "E", "A", "C", "T"} {
		c.game(http.MethodPost, "/game/"+id+"/guess", letterReq{Letter: l}, http.StatusOK)
	}

	rec := c.do(http.MethodPost, "/auth/signup", credentials{Username: "alice", Password: "password123"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Contains(t, c.cookies, "hangman_token")

	rec = c.do(http.MethodPost, "/auth/signup", credentials{Username: "ALICE", Password: "password123"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me authUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)

	// A signed-in random game bumps stats.
	id = c.game(http.MethodPost, "/game/new", nil, http.StatusCreated).GameID
	for _, l := range []string{"B", "D", "F", "I", "J", "K"} {
		c.game(http.MethodPost, "/game/"+id+"/guess", letterReq{Letter: l}, http.StatusOK)
	}
	assert.Equal(t, results.Stats{GamesPlayed: 1}, myStats(t, c))

	// A win against a chosen answer is practice and leaves stats alone.
	id = c.newGame("REACT").GameID
	for _, l := range []string{"R", "E", "A", "C", "T"} {
		c.game(http.MethodPost, "/game/"+id+"/guess", letterReq{Letter: l}, http.StatusOK)
	}
	assert.Equal(t, results.Stats{GamesPlayed: 1}, myStats(t, c))

	rec = c.do(http.MethodGet, "/games/mine", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []results.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	require.Len(t, mine, 3, "guest game was claimed")
	for _, r := range mine {
		assert.Equal(t, "alice", r.PlayerName)
	}

	c.do(http.MethodPost, "/auth/logout", nil)
	rec = c.do(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodPost, "/auth/login", credentials{Username: "alice", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = c.do(http.MethodPost, "/auth/login", credentials{Username: "alice", Password: "password123"})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = c.do(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthRejectsBadToken(t *testing.T) {
	srv, c := newTestServer(t)

	rec := c.do(http.MethodGet, "/stats/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, _, err := srv.signJWT("ghost", "ghost")
	require.NoError(t, err)
	c.cookies["hangman_token"] = &http.Cookie{Name: "hangman_token", Value: tok}
	rec = c.do(http.MethodGet, "/stats/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "token for a missing user")

	c.cookies["hangman_token"] = &http.Cookie{Name: "hangman_token", Value: "garbage"}
	rec = c.do(http.MethodGet, "/stats/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutDropsAccessToUserGames(t *testing.T) {
	_, c := newTestServer(t)

	// The guest cookie is issued here and survives signup and logout.
	c.newGame("REACT")
	rec := c.do(http.MethodPost, "/auth/signup", credentials{Username: "bob", Password: "password123"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Contains(t, c.cookies, anonCookieName)

	id := c.newGame("GOPHER").GameID
	c.game(http.MethodPost, "/game/"+id+"/guess", letterReq{Letter: "G"}, http.StatusOK)

	c.do(http.MethodPost, "/auth/logout", nil)
	require.NotContains(t, c.cookies, "hangman_token")

	rec = c.do(http.MethodPost, "/game/"+id+"/guess", letterReq{Letter: "O"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = c.do(http.MethodGet, "/game/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
