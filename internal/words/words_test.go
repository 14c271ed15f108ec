package words

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/hangman/internal/game"
)

func TestNewListFilters(t *testing.T) {
	l := NewList([]string{"react", " Gopher ", "ab", "x-ray", "REACT", "naïve", "abcdefghijklmnopq", "tea"})

	assert.Equal(t, []string{"REACT", "GOPHER", "TEA"}, l.Answers())
	assert.True(t, l.Contains("gopher"))
	assert.False(t, l.Contains("xray"))
}

func TestReadSkipsCommentsAndBlanks(t *testing.T) {
	src := "# header\n\nreact\n  # indented comment\nqueue\n"
	l, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"REACT", "QUEUE"}, l.Answers())
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\nbravo\n"), 0o644))

	l, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, l.Len())

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestEmbeddedListIsValid(t *testing.T) {
	l, err := Embedded()
	require.NoError(t, err)
	require.Greater(t, l.Len(), 0)
	for _, w := range l.Answers() {
		assert.True(t, Valid(w), w)
	}
}

func TestRandomStaysInList(t *testing.T) {
	l := NewList([]string{"alpha", "bravo", "charlie"})
	var p game.WordProvider = l
	for i := 0; i < 50; i++ {
		assert.True(t, l.Contains(p.Word()))
	}
}

func TestRandomFallsBackWhenEmpty(t *testing.T) {
	assert.Equal(t, "HANGMAN", NewList(nil).Random())
	var nilList *List
	assert.Equal(t, "HANGMAN", nilList.Random())
}

func TestInitUsesEmbeddedDefault(t *testing.T) {
	t.Setenv("WORDS_FILE", "")
	require.NoError(t, Init())
	assert.Greater(t, Stats(), 0)
	assert.True(t, Default().Contains(Default().Word()))
}
