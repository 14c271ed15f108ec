// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily word.
//   - GET /daily          → today's date key and word length (never the word)
//   - GET /daily/leaderboard → top 20 daily wins for today (or ?date=YYYY-MM-DD)
//
// Daily games themselves are ordinary sessions created with
// POST /game/new {"mode":"daily"}; their outcomes land in the results table.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/results"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDailyInfo)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

type dailyInfoRes struct {
	Date   string `json:"date"`
	Length int    `json:"length"`
}

func (s *Server) handleDailyInfo(w http.ResponseWriter, r *http.Request) {
	p := daily.Provider{Words: s.cfg.Words, Salt: s.cfg.DailySalt, Now: s.cfg.Now}
	writeJSON(w, http.StatusOK, dailyInfoRes{Date: p.Date(), Length: len(p.Word())})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string          `json:"date"`
	Top  []results.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.cfg.Now())
	}
	rows, err := s.results.Leaderboard(r.Context(), date, 20)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("leaderboard")
		writeErr(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
