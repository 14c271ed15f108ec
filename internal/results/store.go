// internal/results/store.go
//
// SQLite-backed record of finished Hangman games.
// Responsibilities:
//   - Record each finished round once (UNIQUE(game_id, round)).
//   - Bump games played / wins / streak for signed-in players in the same tx.
//     Practice rounds (client-chosen answers) are kept in history only.
//   - Recent history per user and the daily leaderboard.
//   - Tell whether a player already finished the daily word.
//   - Move guest history onto an account after signup/login.
//
// In-progress games are never written here; only outcomes are.

package results

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Modes stored in results.mode.
const (
	ModeRandom = "random"
	ModeDaily  = "daily"
	ModeFixed  = "fixed"
)

// Result is one finished round of a session.
type Result struct {
	GameID       string    `json:"gameId"`
	Round        int       `json:"round"`
	UserID       string    `json:"-"`
	AnonymousID  string    `json:"-"`
	PlayerName   string    `json:"playerName"`
	Mode         string    `json:"mode"`
	Date         string    `json:"date"`
	Answer       string    `json:"answer"`
	Won          bool      `json:"won"`
	WrongGuesses int       `json:"wrongGuesses"`
	LivesLeft    int       `json:"livesLeft"`
	ElapsedMs    int       `json:"elapsedMs"`
	FinishedAt   time.Time `json:"finishedAt"`
}

// LBRow is one leaderboard entry.
type LBRow struct {
	PlayerName   string `json:"playerName"`
	WrongGuesses int    `json:"wrongGuesses"`
	ElapsedMs    int    `json:"elapsedMs"`
}

// Stats are the per-user counters kept on the users table.
type Stats struct {
	GamesPlayed int `json:"gamesPlayed"`
	Wins        int `json:"wins"`
	Streak      int `json:"streak"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts r and, for signed-in players, bumps their stats unless r is
// a practice round (ModeFixed).
// A round that was already recorded is ignored; the returned bool reports
// whether a new row was written.
func (s *Store) Record(ctx context.Context, r Result) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	if r.Round <= 0 {
		r.Round = 1
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	res, err := tx.ExecContext(ctx, `
        INSERT OR IGNORE INTO results
            (game_id, round, user_id, anonymous_id, player_name, mode, date, answer,
             won, wrong_guesses, lives_left, elapsed_ms, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.Round, nullable(r.UserID), nullable(r.AnonymousID), r.PlayerName, r.Mode, r.Date,
		r.Answer, r.Won, r.WrongGuesses, r.LivesLeft, r.ElapsedMs, r.FinishedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("insert result: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return false, nil
	}

	if r.UserID != "" && r.Mode != ModeFixed {
		if err := bumpStats(ctx, tx, r.UserID, r.Won); err != nil {
			return false, fmt.Errorf("bump stats: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// bumpStats increments games played; updates wins and streak based on result (within tx).
func bumpStats(ctx context.Context, tx *sql.Tx, userID string, won bool) error {
	var st Stats
	row := tx.QueryRowContext(ctx, `SELECT games_played, wins, streak FROM users WHERE id=?`, userID)
	if err := row.Scan(&st.GamesPlayed, &st.Wins, &st.Streak); err != nil {
		return err
	}
	st.GamesPlayed++
	if won {
		st.Wins++
		st.Streak++
	} else {
		st.Streak = 0
	}
	_, err := tx.ExecContext(ctx, `UPDATE users SET games_played=?, wins=?, streak=? WHERE id=?`,
		st.GamesPlayed, st.Wins, st.Streak, userID)
	return err
}

// UserStats loads the counters for userID.
func (s *Store) UserStats(ctx context.Context, userID string) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT games_played, wins, streak FROM users WHERE id=?`, userID,
	).Scan(&st.GamesPlayed, &st.Wins, &st.Streak)
	return st, err
}

// Recent returns the latest results for userID, newest first.
func (s *Store) Recent(ctx context.Context, userID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT game_id, round, player_name, mode, date, answer, won, wrong_guesses,
               lives_left, elapsed_ms, finished_at
        FROM results
        WHERE user_id=?
        ORDER BY finished_at DESC, id DESC
        LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		var r Result
		var finished string
		if err := rows.Scan(&r.GameID, &r.Round, &r.PlayerName, &r.Mode, &r.Date, &r.Answer, &r.Won,
			&r.WrongGuesses, &r.LivesLeft, &r.ElapsedMs, &finished); err != nil {
			return nil, err
		}
		r.UserID = userID
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// PlayedDaily reports whether the player (by user or guest id) has a finished
// daily round for date.
func (s *Store) PlayedDaily(ctx context.Context, date, userID, anonID string) (bool, error) {
	if userID == "" && anonID == "" {
		return false, nil
	}
	var n int
	err := s.db.QueryRowContext(ctx, `
        SELECT COUNT(*) FROM results
        WHERE mode=? AND date=?
          AND ((? <> '' AND user_id=?) OR (? <> '' AND anonymous_id=?))`,
		ModeDaily, date, userID, userID, anonID, anonID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("played daily: %w", err)
	}
	return n > 0, nil
}

// Leaderboard fetches the best daily wins for a date.
//
//   - Only a player's first daily round of the day counts, and only if it was won.
//   - Ordered by wrong guesses ASC, then elapsed time ASC, then finish time ASC.
//   - Default limit is 20 if not specified.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT player_name, wrong_guesses, elapsed_ms
        FROM results r
        WHERE mode='daily' AND date=? AND won=1
          AND id = (SELECT MIN(id) FROM results x
                    WHERE x.mode='daily' AND x.date=r.date
                      AND COALESCE(x.user_id, x.anonymous_id) = COALESCE(r.user_id, r.anonymous_id))
        ORDER BY wrong_guesses ASC, elapsed_ms ASC, finished_at ASC
        LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerName, &r.WrongGuesses, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClaimAnonymous transfers guest results to a user account after auth.
func (s *Store) ClaimAnonymous(ctx context.Context, anonID, userID, playerName string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE results SET user_id=?, anonymous_id=NULL, player_name=? WHERE anonymous_id=?`,
		userID, playerName, anonID)
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
