// internal/words/words.go
//
// Provides answer word lists for the game engine.
//
// Responsibilities:
//   - Load answers from an environment-provided file or fall back to the embedded default.
//   - Normalize and filter entries (uppercase, letters only, bounded length).
//   - Pick answers at random; *List is usable as a game.WordProvider.
//
// Initialization behavior (Init):
//   1. If WORDS_FILE is set, load answers from that file.
//   2. Otherwise use the embedded assets/words.txt.
//
// Environment variables:
//   WORDS_FILE=/path/to/words.txt
//
// Constraints:
//   • Words are MinLen..MaxLen ASCII letters.
//   • Lists are normalized to uppercase and de-duplicated.
//   • Initialization is run once (sync.Once).

package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/hangman/assets"
)

const (
	MinLen = 3
	MaxLen = 16

	// fallback is served when no list could be loaded.
	fallback = "HANGMAN"
)

// ErrEmpty is returned when a source yields no usable words.
var ErrEmpty = errors.New("words: answers list is empty")

// List is an immutable set of candidate answers.
type List struct {
	answers []string
	set     map[string]struct{}
}

// NewList normalizes raw entries into a List, dropping anything that is not a
// valid answer. Duplicates keep their first position.
func NewList(raw []string) *List {
	l := &List{set: make(map[string]struct{}, len(raw))}
	for _, w := range raw {
		w = Normalize(w)
		if !Valid(w) {
			continue
		}
		if _, dup := l.set[w]; dup {
			continue
		}
		l.set[w] = struct{}{}
		l.answers = append(l.answers, w)
	}
	return l
}

// Read parses one word per line; blank lines and # comments are skipped.
func Read(r io.Reader) (*List, error) {
	var raw []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		raw = append(raw, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return NewList(raw), nil
}

// ReadFile loads a List from path.
func ReadFile(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	l, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return l, nil
}

// Embedded loads the default list compiled into the binary.
func Embedded() (*List, error) {
	raw, err := assets.WordList()
	if err != nil {
		return nil, err
	}
	return NewList(raw), nil
}

// Len returns the number of answers.
func (l *List) Len() int { return len(l.answers) }

// At returns the i-th answer.
func (l *List) At(i int) string { return l.answers[i] }

// Answers returns a copy of the answers in load order.
func (l *List) Answers() []string { return append([]string(nil), l.answers...) }

// Contains reports whether w (any case) is an answer.
func (l *List) Contains(w string) bool {
	_, ok := l.set[Normalize(w)]
	return ok
}

// Random returns a cryptographically random answer, or the fallback word
// when the list is empty.
func (l *List) Random() string {
	if l == nil || len(l.answers) == 0 {
		return fallback
	}
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(l.answers))))
	return l.answers[nBig.Int64()]
}

// Word makes *List a game.WordProvider.
func (l *List) Word() string { return l.Random() }

// Normalize trims and upper-cases w.
func Normalize(w string) string {
	return strings.ToUpper(strings.TrimSpace(w))
}

// Valid reports whether w is an uppercase ASCII word of acceptable length.
func Valid(w string) bool {
	if len(w) < MinLen || len(w) > MaxLen {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return false
		}
	}
	return true
}

// --- process-wide default list ---

var (
	initOnce   sync.Once
	defaultLst *List
	initialErr error
)

// Init loads the default list exactly once.
// Returns an error if the list cannot be read or ends up empty.
func Init() error {
	initOnce.Do(func() {
		var l *List
		var err error
		if path := os.Getenv("WORDS_FILE"); path != "" {
			l, err = ReadFile(path)
		} else {
			l, err = Embedded()
		}
		if err != nil {
			initialErr = err
			return
		}
		defaultLst = l
		if l.Len() == 0 {
			initialErr = ErrEmpty
		}
	})
	return initialErr
}

// Default returns the list loaded by Init (nil before Init).
func Default() *List { return defaultLst }

// Stats returns the number of loaded answers.
func Stats() int {
	if defaultLst == nil {
		return 0
	}
	return defaultLst.Len()
}
