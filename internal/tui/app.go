// Package tui is the interactive terminal board for a single Hangman session.
//
// It owns the input surface (one pending letter, Enter to commit), the restart
// action shown once the game is over, and rendering of the game snapshot.
// All game rules live in package game; this package only translates keys into
// SubmitInput/CommitGuess/Restart and redraws afterwards.
package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/game"
)

const (
	originX = 2
	originY = 1
)

// App binds a game to a screen.
type App struct {
	screen tcell.Screen
	game   *game.Game
	sound  Player
}

// New creates an App. A nil sound player is treated as Silent.
func New(screen tcell.Screen, g *game.Game, sound Player) *App {
	if sound == nil {
		sound = Silent{}
	}
	return &App{screen: screen, game: g, sound: sound}
}

// Run draws and processes events until the player quits or the screen is finalized.
func (a *App) Run() {
	for {
		a.Draw()
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		if !a.HandleEvent(ev) {
			return
		}
	}
}

// HandleEvent applies one terminal event. It returns false when the player quits.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	over := a.game.State().Terminal()

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false

	case tcell.KeyEnter:
		if over {
			a.game.Restart()
			log.Debug().Str("gameId", a.game.ID).Msg("restart")
			return true
		}
		a.commit()

	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		if !over {
			a.game.SubmitInput("")
		}

	case tcell.KeyRune:
		// While the restart action has focus, typing goes nowhere.
		if !over {
			a.game.SubmitInput(string(ev.Rune()))
		}
	}
	return true
}

func (a *App) commit() {
	out := a.game.CommitGuess()
	state := a.game.State()
	log.Debug().Str("gameId", a.game.ID).Str("outcome", string(out)).Str("state", string(state)).Msg("commit")

	switch {
	case state == game.StateWon:
		a.sound.Play(CueWin)
	case state == game.StateLost:
		a.sound.Play(CueLoss)
	case out == game.OutcomeHit:
		a.sound.Play(CueHit)
	case out == game.OutcomeMiss:
		a.sound.Play(CueMiss)
	}
}

// Draw renders the current snapshot.
func (a *App) Draw() {
	a.screen.Clear()
	for i, l := range Lines(a.game.Snapshot()) {
		// blank row before the outcome block
		y := originY + i
		if i >= 4 {
			y++
		}
		drawText(a.screen, originX, y, styleFor(l.Kind), l.Text)
	}
	a.screen.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	w, h := s.Size()
	if y < 0 || y >= h {
		return
	}
	for _, r := range text {
		if x >= w {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
