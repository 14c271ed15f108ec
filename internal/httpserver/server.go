// internal/httpserver/server.go
//
// HTTP server wiring for the Hangman backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): create, read, input, commit, guess, restart.
//   - Daily leaderboard and auth/profile endpoints (see routes_daily.go, auth.go).
//   - Recording finished rounds in the results store.
//
// Notes:
//   - In-progress games live only in the session store; every mutation goes
//     through Store.Update so one request's commit completes before the next.
//   - Results are written after the session lock is released; failures are logged
//     and never fail the move itself.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/results"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

// Game modes accepted by POST /game/new.
const (
	ModeRandom = results.ModeRandom
	ModeDaily  = results.ModeDaily
	ModeFixed  = results.ModeFixed // practice: recorded, never counted in stats
)

var (
	errStillPlaying  = errors.New("still playing")
	errAlreadyPlayed = errors.New("daily already played")
)

// Config carries the environment-derived settings of the server.
type Config struct {
	Words          *words.List // answers for random and daily modes
	DailySalt      string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Production     bool
	Now            func() time.Time
}

// ConfigFromEnv reads Config from environment variables with development defaults.
func ConfigFromEnv(list *words.List) Config {
	days, err := strconv.Atoi(getEnv("JWT_EXPIRES_DAYS", "14"))
	if err != nil || days <= 0 {
		days = 14
	}
	return Config{
		Words:          list,
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: days,
		CookieName:     getEnv("COOKIE_NAME", "hangman_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:     os.Getenv("NODE_ENV") == "production",
	}
}

// Server bundles router, in-memory session store, results store and DB handle.
type Server struct {
	r       *chi.Mux
	store   store.Store
	db      *sql.DB
	results *results.Store
	cfg     Config
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, cfg Config) *Server {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Words == nil {
		cfg.Words = words.NewList(nil)
	}
	s := &Server{r: chi.NewRouter(), store: st, db: db, results: results.NewStore(db), cfg: cfg}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))     // request-scoped zerolog logger
	s.r.Use(accessLog)                       // one line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"hangman-go","endpoints":["/health","POST /game/new","POST /game/{id}/guess","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"answers": s.cfg.Words.Len()})
	})

	// Game endpoints — OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/game/new", s.handleNewGame)
		r.Route("/game/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGame)
			r.Post("/input", s.handleInput)
			r.Post("/commit", s.handleCommit)
			r.Post("/guess", s.handleGuess)
			r.Post("/restart", s.handleRestart)
		})
	})

	s.mountDaily(s.r)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one structured line per request.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("reqId", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("took", d).
		Msg("request")
})

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.ClientOrigin)
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

// ------------------------------ GAME ---------------------------------------

// newGameReq is the payload for POST /game/new.
type newGameReq struct {
	Mode   string `json:"mode"`   // "random" (default) | "daily"
	Answer string `json:"answer"` // optional fixed answer (practice)
}

// letterReq is the payload for /input and /guess.
type letterReq struct {
	Letter string `json:"letter"`
}

// gameRes is the render contract sent to clients after every call.
type gameRes struct {
	GameID       string       `json:"gameId"`
	Mode         string       `json:"mode"`
	Round        int          `json:"round"`
	Pattern      []string     `json:"pattern"`
	Lives        int          `json:"lives"`
	WrongGuesses []string     `json:"wrongGuesses"`
	Pending      string       `json:"pending"`
	State        game.State   `json:"state"`
	Message      string       `json:"message,omitempty"`
	Answer       string       `json:"answer,omitempty"`
	Outcome      game.Outcome `json:"outcome,omitempty"`
	Accepted     *bool        `json:"accepted,omitempty"`
}

func viewOf(sess *store.Session) gameRes {
	snap := sess.Game.Snapshot()
	return gameRes{
		GameID:       snap.ID,
		Mode:         sess.Mode,
		Round:        sess.Round,
		Pattern:      snap.Glyphs(),
		Lives:        snap.Lives,
		WrongGuesses: snap.WrongGuesses,
		Pending:      snap.Pending,
		State:        snap.State,
		Message:      snap.Message(),
		Answer:       snap.Answer,
	}
}

// handleNewGame creates a session owned by the current user or guest.
// An empty body starts a random game. Each player gets one daily game per date.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}

	now := s.cfg.Now()
	owner := s.owner(w, r)
	mode, date := req.Mode, daily.DateKey(now)
	var provider game.WordProvider
	switch {
	case req.Answer != "":
		answer := words.Normalize(req.Answer)
		if !words.Valid(answer) {
			writeErr(w, http.StatusBadRequest, "invalid_answer")
			return
		}
		mode, provider = ModeFixed, game.Fixed(answer)
	case mode == "" || mode == ModeRandom:
		mode, provider = ModeRandom, s.cfg.Words
	case mode == ModeDaily:
		if s.cfg.Words.Len() == 0 {
			writeErr(w, http.StatusServiceUnavailable, "no_words")
			return
		}
		played, err := s.results.PlayedDaily(r.Context(), date, owner.UserID, owner.AnonymousID)
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("played daily")
			writeErr(w, http.StatusInternalServerError, "db_error")
			return
		}
		if played {
			writeErr(w, http.StatusConflict, "already_played")
			return
		}
		provider = daily.Provider{Words: s.cfg.Words, Salt: s.cfg.DailySalt, Now: s.cfg.Now}
	default:
		writeErr(w, http.StatusBadRequest, "bad_mode")
		return
	}

	sess := &store.Session{
		Game:      game.New(provider),
		Mode:      mode,
		Date:      date,
		Owner:     owner,
		Round:     1,
		StartedAt: now,
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save game")
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	hlog.FromRequest(r).Info().Str("gameId", sess.Game.ID).Str("mode", mode).Msg("game started")
	writeJSON(w, http.StatusCreated, viewOf(sess))
}

// handleGetGame returns the current snapshot.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	var res gameRes
	s.mutate(w, r, func(sess *store.Session) error {
		res = viewOf(sess)
		return nil
	}, &res)
}

// handleInput replaces the pending letter; rejected input is reported, not an error.
func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	var req letterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	var res gameRes
	s.mutate(w, r, func(sess *store.Session) error {
		ok := sess.Game.SubmitInput(req.Letter)
		res = viewOf(sess)
		res.Accepted = &ok
		return nil
	}, &res)
}

// handleCommit commits the pending letter.
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var res gameRes
	s.mutate(w, r, func(sess *store.Session) error {
		out := sess.Game.CommitGuess()
		res = viewOf(sess)
		res.Outcome = out
		return nil
	}, &res)
}

// handleGuess submits and commits a letter in one call.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req letterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	var res gameRes
	s.mutate(w, r, func(sess *store.Session) error {
		out, err := sess.Game.Guess(req.Letter)
		if err != nil {
			return err
		}
		res = viewOf(sess)
		res.Outcome = out
		return nil
	}, &res)
}

// handleRestart starts the next round; only allowed once the game is over.
// A daily session can only move on to a date the player has not played yet.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	var res gameRes
	s.mutate(w, r, func(sess *store.Session) error {
		if !sess.Game.State().Terminal() {
			return errStillPlaying
		}
		now := s.cfg.Now()
		if sess.Mode == ModeDaily {
			today := daily.DateKey(now)
			if sess.Date == today {
				return errAlreadyPlayed
			}
			played, err := s.results.PlayedDaily(r.Context(), today, sess.Owner.UserID, sess.Owner.AnonymousID)
			if err != nil {
				return err
			}
			if played {
				return errAlreadyPlayed
			}
		}
		sess.Game.Restart()
		sess.Round++
		sess.Recorded = false
		sess.StartedAt = now
		sess.Date = daily.DateKey(now)
		res = viewOf(sess)
		return nil
	}, &res)
}

// mutate runs fn on the session named by the {id} URL param with exclusive
// access, records the round if fn finished it, and writes *res or the error.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*store.Session) error, res *gameRes) {
	id := chi.URLParam(r, "id")
	var finished *results.Result

	err := s.store.Update(r.Context(), id, func(sess *store.Session) error {
		if !s.owns(r, sess) {
			return store.ErrNotFound
		}
		if err := fn(sess); err != nil {
			return err
		}
		if sess.Game.State().Terminal() && !sess.Recorded {
			sess.Recorded = true
			rr := s.resultOf(sess)
			finished = &rr
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeErr(w, http.StatusNotFound, "not_found")
		case errors.Is(err, game.ErrInvalidLetter):
			writeErr(w, http.StatusBadRequest, "invalid_letter")
		case errors.Is(err, game.ErrGameOver):
			writeErr(w, http.StatusConflict, "game_finished")
		case errors.Is(err, errStillPlaying):
			writeErr(w, http.StatusConflict, "still_playing")
		case errors.Is(err, errAlreadyPlayed):
			writeErr(w, http.StatusConflict, "already_played")
		default:
			hlog.FromRequest(r).Error().Err(err).Str("gameId", id).Msg("update game")
			writeErr(w, http.StatusInternalServerError, "server_error")
		}
		return
	}

	if finished != nil {
		hlog.FromRequest(r).Info().Str("gameId", id).Bool("won", finished.Won).
			Int("round", finished.Round).Msg("game finished")
		if _, err := s.results.Record(r.Context(), *finished); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("gameId", id).Msg("record result")
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// resultOf captures the finished round of sess for the results store.
func (s *Server) resultOf(sess *store.Session) results.Result {
	snap := sess.Game.Snapshot()
	now := s.cfg.Now()
	return results.Result{
		GameID:       snap.ID,
		Round:        sess.Round,
		UserID:       sess.Owner.UserID,
		AnonymousID:  sess.Owner.AnonymousID,
		PlayerName:   sess.Owner.Name,
		Mode:         sess.Mode,
		Date:         sess.Date,
		Answer:       snap.Answer,
		Won:          snap.State == game.StateWon,
		WrongGuesses: len(snap.WrongGuesses),
		LivesLeft:    snap.Lives,
		ElapsedMs:    int(now.Sub(sess.StartedAt).Milliseconds()),
		FinishedAt:   now,
	}
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
