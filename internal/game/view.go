package game

import "strings"

const (
	winMessage  = "Congratulations! You guessed the word!"
	lossMessage = "You lost! The word was: "
)

// Glyphs returns the pattern as one string per position.
func (s Snapshot) Glyphs() []string {
	out := make([]string, len(s.Pattern))
	for i, r := range s.Pattern {
		out[i] = string(r)
	}
	return out
}

// Blanks counts positions still showing the placeholder.
func (s Snapshot) Blanks() int {
	n := 0
	for _, r := range s.Pattern {
		if r == Placeholder {
			n++
		}
	}
	return n
}

// WrongGuessesText joins wrong letters the way the game board shows them.
func (s Snapshot) WrongGuessesText() string {
	return strings.Join(s.WrongGuesses, ", ")
}

// Message is the end-of-game banner; empty while playing.
func (s Snapshot) Message() string {
	switch s.State {
	case StateWon:
		return winMessage
	case StateLost:
		return lossMessage + s.Answer
	}
	return ""
}
