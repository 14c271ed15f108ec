package tui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/robalobadob/hangman/internal/game"
)

// Kind tags a rendered line so Draw can style it.
type Kind int

const (
	KindTitle Kind = iota
	KindPattern
	KindText
	KindInput
	KindWin
	KindLoss
	KindButton
	KindHelp
)

// Line is one row of the board.
type Line struct {
	Kind Kind
	Text string
}

const (
	title       = "Hangman"
	inputPrompt = "Guess a letter: "
	playAgain   = "[ Play Again ]"
	helpPlaying = "type a letter, Enter to guess, Backspace to clear, Esc to quit"
	helpOver    = "Enter to play again, Esc to quit"
)

// Lines renders s top to bottom. Rendering never feeds back into the game.
func Lines(s game.Snapshot) []Line {
	out := []Line{
		{KindTitle, title},
		{KindPattern, strings.Join(s.Glyphs(), " ")},
		{KindText, "Lives: " + strconv.Itoa(s.Lives)},
		{KindText, "Wrong Guesses: " + s.WrongGuessesText()},
	}
	switch s.State {
	case game.StateWon:
		out = append(out, Line{KindWin, s.Message()}, Line{KindButton, playAgain}, Line{KindHelp, helpOver})
	case game.StateLost:
		out = append(out, Line{KindLoss, s.Message()}, Line{KindButton, playAgain}, Line{KindHelp, helpOver})
	default:
		pending := s.Pending
		if pending == "" {
			pending = " "
		}
		out = append(out, Line{KindInput, inputPrompt + "[" + pending + "]"}, Line{KindHelp, helpPlaying})
	}
	return out
}

func styleFor(k Kind) tcell.Style {
	base := tcell.StyleDefault
	switch k {
	case KindTitle:
		return base.Bold(true).Foreground(tcell.ColorYellow)
	case KindPattern:
		return base.Bold(true)
	case KindInput:
		return base.Foreground(tcell.ColorAqua)
	case KindWin:
		return base.Bold(true).Foreground(tcell.ColorGreen)
	case KindLoss:
		return base.Bold(true).Foreground(tcell.ColorRed)
	case KindButton:
		return base.Reverse(true)
	case KindHelp:
		return base.Foreground(tcell.ColorGray)
	}
	return base
}
