// Command hangman plays Hangman in the terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/tui"
	"github.com/robalobadob/hangman/internal/words"
)

func main() {
	wordsFile := flag.String("words", "", "word list file, one word per line (default: built-in list)")
	dailyMode := flag.Bool("daily", false, "play the word of the day")
	salt := flag.String("salt", "local_dev_salt", "salt for the daily word")
	mute := flag.Bool("mute", false, "disable sound")
	logFile := flag.String("log", "", "write debug logs to this file")
	flag.Parse()

	if err := run(*wordsFile, *dailyMode, *salt, *mute, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "hangman: %v\n", err)
		os.Exit(1)
	}
}

func run(wordsFile string, dailyMode bool, salt string, mute bool, logFile string) error {
	// The screen owns stdout, so logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		out = f
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger().Level(zerolog.DebugLevel)

	list, err := loadWords(wordsFile)
	if err != nil {
		return err
	}

	var provider game.WordProvider = list
	if dailyMode {
		provider = daily.Provider{Words: list, Salt: salt}
	}

	var sound tui.Player = tui.Silent{}
	if !mute {
		if sp, err := tui.NewSpeaker(); err != nil {
			// Non-fatal, the game runs without sound
			log.Warn().Err(err).Msg("audio init failed")
		} else {
			defer sp.Close()
			sound = sp
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("new screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	g := game.New(provider)
	log.Info().Str("gameId", g.ID).Bool("daily", dailyMode).Int("words", list.Len()).Msg("game started")
	tui.New(screen, g, sound).Run()
	return nil
}

func loadWords(path string) (*words.List, error) {
	var (
		list *words.List
		err  error
	)
	if path != "" {
		list, err = words.ReadFile(path)
	} else {
		list, err = words.Embedded()
	}
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	if list.Len() == 0 {
		return nil, words.ErrEmpty
	}
	return list, nil
}
