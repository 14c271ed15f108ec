// internal/game/types.go
//
// Core type definitions for the Hangman game engine.
// Defines:
//   - State:        coarse lifecycle of a session (playing/won/lost).
//   - Outcome:      what a single commit did to the session.
//   - WordProvider: the collaborator that supplies answers.
//   - Snapshot:     read-only view of a session handed to renderers.

package game

import "errors"

// MaxLives is the number of wrong guesses a player can afford per session.
const MaxLives = 6

// Placeholder stands in for a letter that has not been revealed yet.
const Placeholder = '_'

// State represents where a session is in its lifecycle.
// "won" and "lost" are terminal; only Restart leaves them.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Terminal reports whether s is won or lost.
func (s State) Terminal() bool { return s == StateWon || s == StateLost }

// Outcome describes the effect of one CommitGuess call.
type Outcome string

const (
	OutcomeNone   Outcome = "none"   // nothing pending, or the game is over
	OutcomeRepeat Outcome = "repeat" // letter was already guessed; only the input was cleared
	OutcomeHit    Outcome = "hit"    // letter revealed at every position
	OutcomeMiss   Outcome = "miss"   // letter recorded as wrong, one life lost
)

var (
	// ErrInvalidLetter is returned by Guess when the input is not a single A–Z letter.
	ErrInvalidLetter = errors.New("invalid letter")
	// ErrGameOver is returned by Guess when the session is already won or lost.
	ErrGameOver = errors.New("game finished")
)

// WordProvider supplies a fresh answer: a non-empty string of letters.
// It is consulted once at session start and once per restart.
type WordProvider interface {
	Word() string
}

// ProviderFunc adapts a plain function to WordProvider.
type ProviderFunc func() string

// Word calls f.
func (f ProviderFunc) Word() string { return f() }

// Fixed returns a provider that always yields word.
func Fixed(word string) WordProvider {
	return ProviderFunc(func() string { return word })
}

// Snapshot is an immutable copy of a session's observable state.
type Snapshot struct {
	ID           string   // Session identifier (UUID).
	Pattern      []rune   // Revealed letters or Placeholder, same length as the answer.
	Lives        int      // Remaining lives, 0..MaxLives.
	WrongGuesses []string // Wrong letters in the order they were guessed.
	Pending      string   // Letter typed but not yet committed ("" when empty).
	State        State    // Derived from Lives and Pattern.
	Answer       string   // Only populated once the session is terminal.
}
