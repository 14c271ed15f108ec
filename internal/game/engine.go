// internal/game/engine.go
//
// Core game engine for a single Hangman session.
// Responsibilities:
//   - Create sessions from a WordProvider (or a fixed answer).
//   - Buffer the letter the player is typing (SubmitInput).
//   - Apply a committed letter: reveal every occurrence or spend a life (CommitGuess).
//   - Derive the session state (playing → won/lost) from lives and the pattern.
//   - Reset everything from a fresh answer (Restart).
//
// Notes:
//   - A Game is not safe for concurrent use; callers that share one (the HTTP
//     store) serialize access themselves.
//   - Invalid input and duplicate guesses are absorbed as no-ops, never errors.
package game

import (
	"strings"

	"github.com/google/uuid"
)

// Game holds the state of a single Hangman session.
type Game struct {
	ID string // Unique session identifier.

	words   WordProvider
	answer  string // uppercase, immutable until Restart
	pattern []rune // Placeholder or the revealed answer letter, per position
	lives   int
	wrong   []rune // wrong letters in insertion order; doubles as the set
	pending rune   // 0 when nothing is buffered
}

// New starts a session whose answers come from p.
func New(p WordProvider) *Game {
	g := &Game{ID: uuid.New().String(), words: p}
	g.reset(p.Word())
	return g
}

// NewWithAnswer starts a session with a fixed answer. Restart keeps returning
// the same answer.
func NewWithAnswer(answer string) *Game {
	return New(Fixed(answer))
}

// Restart draws a new answer and resets the session to a fresh playing state.
func (g *Game) Restart() {
	g.reset(g.words.Word())
}

func (g *Game) reset(answer string) {
	g.answer = strings.ToUpper(strings.TrimSpace(answer))
	g.pattern = make([]rune, len(g.answer))
	for i := range g.pattern {
		g.pattern[i] = Placeholder
	}
	g.lives = MaxLives
	g.wrong = g.wrong[:0]
	g.pending = 0
}

// SubmitInput replaces the pending letter.
// Accepts "" (clear) or exactly one ASCII letter in either case; anything else
// is rejected and leaves the pending letter untouched.
func (g *Game) SubmitInput(s string) bool {
	if s == "" {
		g.pending = 0
		return true
	}
	if len(s) != 1 {
		return false
	}
	r := toUpper(rune(s[0]))
	if r < 'A' || r > 'Z' {
		return false
	}
	g.pending = r
	return true
}

// CommitGuess evaluates the pending letter.
//
// Rules:
//   - Terminal sessions ignore commits entirely.
//   - An empty buffer is a no-op.
//   - A letter already in the wrong list, or already revealed, only clears the buffer.
//   - A letter in the answer is revealed at every position it occurs.
//   - Any other letter is recorded as wrong and costs one life.
func (g *Game) CommitGuess() Outcome {
	if g.State().Terminal() || g.pending == 0 {
		return OutcomeNone
	}
	letter := g.pending
	g.pending = 0

	if g.guessed(letter) {
		return OutcomeRepeat
	}
	if strings.ContainsRune(g.answer, letter) {
		for i, r := range g.answer {
			if r == letter {
				g.pattern[i] = letter
			}
		}
		return OutcomeHit
	}
	g.wrong = append(g.wrong, letter)
	if g.lives > 0 {
		g.lives--
	}
	return OutcomeMiss
}

// Guess submits letter and commits it in one step.
// Unlike the two-step flow, it reports rejected input and finished games as
// errors so request/response transports can surface them.
func (g *Game) Guess(letter string) (Outcome, error) {
	if g.State().Terminal() {
		return OutcomeNone, ErrGameOver
	}
	if letter == "" || !g.SubmitInput(letter) {
		return OutcomeNone, ErrInvalidLetter
	}
	return g.CommitGuess(), nil
}

// State is derived on every call; lives are checked before the pattern.
func (g *Game) State() State {
	if g.lives == 0 {
		return StateLost
	}
	for _, r := range g.pattern {
		if r == Placeholder {
			return StatePlaying
		}
	}
	return StateWon
}

// Snapshot returns a copy of the observable state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		ID:           g.ID,
		Pattern:      append([]rune(nil), g.pattern...),
		Lives:        g.lives,
		WrongGuesses: make([]string, len(g.wrong)),
		State:        g.State(),
	}
	for i, r := range g.wrong {
		s.WrongGuesses[i] = string(r)
	}
	if g.pending != 0 {
		s.Pending = string(g.pending)
	}
	if s.State.Terminal() {
		s.Answer = g.answer
	}
	return s
}

// Answer exposes the hidden word for persistence of finished games.
func (g *Game) Answer() string { return g.answer }

// guessed reports whether letter was already committed, right or wrong.
func (g *Game) guessed(letter rune) bool {
	for _, r := range g.wrong {
		if r == letter {
			return true
		}
	}
	for _, r := range g.pattern {
		if r == letter {
			return true
		}
	}
	return false
}

// toUpper maps an ASCII lowercase letter to uppercase.
func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}
