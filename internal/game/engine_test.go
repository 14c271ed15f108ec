package game

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commit(t *testing.T, g *Game, letter string) Outcome {
	t.Helper()
	require.True(t, g.SubmitInput(letter), "input %q rejected", letter)
	return g.CommitGuess()
}

func TestNewGameStartsBlank(t *testing.T) {
	g := NewWithAnswer("react")
	s := g.Snapshot()

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, []rune("_____"), s.Pattern)
	assert.Equal(t, MaxLives, s.Lives)
	assert.Empty(t, s.WrongGuesses)
	assert.Empty(t, s.Pending)
	assert.Equal(t, StatePlaying, s.State)
	assert.Empty(t, s.Answer, "answer must stay hidden while playing")
	assert.Equal(t, "REACT", g.Answer())
}

func TestSubmitInput(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		ok      bool
		pending string
	}{
		{name: "uppercase letter", input: "R", ok: true, pending: "R"},
		{name: "lowercase is normalized", input: "r", ok: true, pending: "R"},
		{name: "empty clears", input: "", ok: true, pending: ""},
		{name: "digit rejected", input: "1", ok: false, pending: "Q"},
		{name: "punctuation rejected", input: "!", ok: false, pending: "Q"},
		{name: "two letters rejected", input: "AB", ok: false, pending: "Q"},
		{name: "non-ascii rejected", input: "É", ok: false, pending: "Q"},
		{name: "space rejected", input: " ", ok: false, pending: "Q"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewWithAnswer("REACT")
			require.True(t, g.SubmitInput("q"))

			ok := g.SubmitInput(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.pending, g.Snapshot().Pending)
		})
	}
}

func TestSubmitInputDoesNotTouchBoard(t *testing.T) {
	g := NewWithAnswer("REACT")
	before := g.Snapshot()
	g.SubmitInput("Z")
	after := g.Snapshot()

	assert.Equal(t, before.Pattern, after.Pattern)
	assert.Equal(t, before.Lives, after.Lives)
	assert.Equal(t, before.WrongGuesses, after.WrongGuesses)
}

func TestCommitWithNothingPending(t *testing.T) {
	g := NewWithAnswer("REACT")
	assert.Equal(t, OutcomeNone, g.CommitGuess())
	assert.Equal(t, MaxLives, g.Snapshot().Lives)
}

func TestReactScenario(t *testing.T) {
	g := NewWithAnswer("REACT")

	assert.Equal(t, OutcomeHit, commit(t, g, "R"))
	s := g.Snapshot()
	assert.Equal(t, "R____", string(s.Pattern))
	assert.Equal(t, 6, s.Lives)
	assert.Empty(t, s.Pending, "commit clears the input")

	assert.Equal(t, OutcomeMiss, commit(t, g, "Z"))
	s = g.Snapshot()
	assert.Equal(t, []string{"Z"}, s.WrongGuesses)
	assert.Equal(t, 5, s.Lives)

	assert.Equal(t, OutcomeRepeat, commit(t, g, "Z"))
	s = g.Snapshot()
	assert.Equal(t, []string{"Z"}, s.WrongGuesses)
	assert.Equal(t, 5, s.Lives)
	assert.Empty(t, s.Pending)

	assert.Equal(t, OutcomeRepeat, commit(t, g, "R"))
	s = g.Snapshot()
	assert.Equal(t, "R____", string(s.Pattern))
	assert.Equal(t, 5, s.Lives)
}

func TestRepeatedCorrectLetterKeepsLives(t *testing.T) {
	g := NewWithAnswer("REACT")
	commit(t, g, "R")
	commit(t, g, "R")

	s := g.Snapshot()
	assert.Equal(t, 6, s.Lives)
	assert.Equal(t, 4, s.Blanks())
}

func TestAllOccurrencesRevealed(t *testing.T) {
	g := NewWithAnswer("BANANA")
	assert.Equal(t, OutcomeHit, commit(t, g, "a"))
	assert.Equal(t, "_A_A_A", string(g.Snapshot().Pattern))

	assert.Equal(t, OutcomeHit, commit(t, g, "N"))
	assert.Equal(t, "_ANANA", string(g.Snapshot().Pattern))
}

func TestWinInAnyOrder(t *testing.T) {
	letters := []string{"R", "E", "A", "C", "T"}
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 10; i++ {
		rng.Shuffle(len(letters), func(a, b int) { letters[a], letters[b] = letters[b], letters[a] })
		g := NewWithAnswer("REACT")
		for j, l := range letters {
			commit(t, g, l)
			if j < len(letters)-1 {
				require.Equal(t, StatePlaying, g.State())
			}
		}
		s := g.Snapshot()
		assert.Equal(t, StateWon, s.State, "order %v", letters)
		assert.Equal(t, MaxLives, s.Lives)
		assert.Equal(t, "REACT", s.Answer)
		assert.Equal(t, "Congratulations! You guessed the word!", s.Message())
	}
}

func TestSixWrongGuessesLose(t *testing.T) {
	g := NewWithAnswer("REACT")
	for i, l := range []string{"B", "D", "F", "G", "H", "I"} {
		assert.Equal(t, OutcomeMiss, commit(t, g, l))
		assert.Equal(t, MaxLives-i-1, g.Snapshot().Lives)
	}

	s := g.Snapshot()
	assert.Equal(t, StateLost, s.State)
	assert.Equal(t, 0, s.Lives)
	assert.Equal(t, "REACT", s.Answer)
	assert.Equal(t, "You lost! The word was: REACT", s.Message())
	assert.Equal(t, "B, D, F, G, H, I", s.WrongGuessesText())
}

func TestTerminalStateLocksCommits(t *testing.T) {
	g := NewWithAnswer("AT")
	commit(t, g, "A")
	commit(t, g, "T")
	require.Equal(t, StateWon, g.State())

	require.True(t, g.SubmitInput("Z"))
	assert.Equal(t, OutcomeNone, g.CommitGuess())
	s := g.Snapshot()
	assert.Empty(t, s.WrongGuesses)
	assert.Equal(t, MaxLives, s.Lives)
	assert.Equal(t, "Z", s.Pending, "locked commit leaves the buffer alone")
}

func TestGuess(t *testing.T) {
	g := NewWithAnswer("REACT")

	out, err := g.Guess("e")
	require.NoError(t, err)
	assert.Equal(t, OutcomeHit, out)

	_, err = g.Guess("7")
	assert.ErrorIs(t, err, ErrInvalidLetter)
	_, err = g.Guess("")
	assert.ErrorIs(t, err, ErrInvalidLetter)

	for _, l := range []string{"B", "D", "F", "G", "H", "I"} {
		_, err = g.Guess(l)
		require.NoError(t, err)
	}
	_, err = g.Guess("R")
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestRestartResetsEverything(t *testing.T) {
	next := []string{"REACT", "hangman"}
	g := New(ProviderFunc(func() string {
		w := next[0]
		next = next[1:]
		return w
	}))
	commit(t, g, "R")
	commit(t, g, "Z")
	g.SubmitInput("Q")

	g.Restart()
	s := g.Snapshot()
	assert.Equal(t, StatePlaying, s.State)
	assert.Equal(t, MaxLives, s.Lives)
	assert.Empty(t, s.WrongGuesses)
	assert.Empty(t, s.Pending)
	assert.Equal(t, strings.Repeat("_", 7), string(s.Pattern))
	assert.Equal(t, "HANGMAN", g.Answer())
}

func TestRestartAfterLoss(t *testing.T) {
	g := NewWithAnswer("REACT")
	for _, l := range []string{"B", "D", "F", "G", "H", "I"} {
		commit(t, g, l)
	}
	require.Equal(t, StateLost, g.State())

	g.Restart()
	assert.Equal(t, StatePlaying, g.State())
	assert.Equal(t, OutcomeHit, commit(t, g, "C"))
}

// TestInvariantsUnderRandomPlay drives sessions with random keystrokes and
// checks the board invariants after every step.
func TestInvariantsUnderRandomPlay(t *testing.T) {
	answers := []string{"REACT", "BANANA", "MISSISSIPPI", "GOPHER", "QUIZ"}
	alphabet := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	rng := rand.New(rand.NewSource(42))

	for _, answer := range answers {
		g := NewWithAnswer(answer)
		prevLives := MaxLives
		seen := map[string]bool{}

		for step := 0; step < 60 && !g.State().Terminal(); step++ {
			letter := string(alphabet[rng.Intn(len(alphabet))])
			before := g.Snapshot()
			commit(t, g, letter)
			s := g.Snapshot()

			require.Len(t, s.Pattern, len(answer))
			assert.LessOrEqual(t, s.Lives, prevLives)
			assert.GreaterOrEqual(t, s.Lives, 0)
			for _, w := range s.WrongGuesses {
				assert.NotContains(t, answer, w)
			}
			for i, r := range s.Pattern {
				if r != Placeholder {
					assert.Equal(t, rune(answer[i]), r)
				}
			}
			if seen[letter] {
				assert.Equal(t, before.Lives, s.Lives)
				assert.Equal(t, before.WrongGuesses, s.WrongGuesses)
				assert.Equal(t, before.Pattern, s.Pattern)
			}
			assert.Equal(t, s.Lives == 0, s.State == StateLost)
			if s.Lives > 0 {
				assert.Equal(t, s.Blanks() == 0, s.State == StateWon)
			}
			seen[letter] = true
			prevLives = s.Lives
		}
	}
}
