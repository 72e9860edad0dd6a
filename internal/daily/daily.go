// Package daily picks the word of the day. Every player gets the same word for
// a UTC date; the choice is HMAC(salt, YYYY-MM-DD) so it cannot be predicted
// without the salt.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/hangman/internal/words"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for modulus distribution
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Word returns the date key and the dictionary word for date.
func Word(date time.Time, salt string, dict *words.Dictionary) (key, word string) {
	return DateKey(date), dict.At(WordIndex(date, salt, dict.Len()))
}
