// Package daily picks one answer per UTC day so every player who chooses the
// daily mode gets the same word.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % answersLen.
func WordIndex(date time.Time, salt string, answersLen int) int {
	if answersLen <= 0 {
		return 0
	}
	dk := DateKey(date)
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(dk))
	sum := h.Sum(nil)
	// take first 8 bytes to uint64 for modulus distribution
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(answersLen))
}

// Words is the slice of a word list the provider needs.
type Words interface {
	Len() int
	At(i int) string
}

// Provider serves the word of the day. It satisfies game.WordProvider, so a
// restarted daily session gets the same word until the date rolls over.
type Provider struct {
	Words Words
	Salt  string
	Now   func() time.Time // defaults to time.Now
}

// Word returns today's answer, or "" if the list is empty.
func (p Provider) Word() string {
	n := p.Words.Len()
	if n == 0 {
		return ""
	}
	return p.Words.At(WordIndex(p.now(), p.Salt, n))
}

// Date returns today's date key.
func (p Provider) Date() string { return DateKey(p.now()) }

func (p Provider) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
