// internal/words/words.go
//
// Provides dictionary management for picking secrets and for strategies.
//
// Responsibilities:
//   - Load a word list from a file (WORDS_FILE) or fall back to the embedded default.
//   - Normalize to uppercase A–Z, drop blanks, comments and duplicates.
//   - Index words by length for candidate filtering.
//   - Supply helpers like Random, Contains and OfLength.
//
// Word lists:
//   - One word per line; lines starting with '#' are comments.
//   - Words with anything other than ASCII letters are skipped.

package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/hangman/assets"
)

// ErrEmptyWordList is returned when no usable word survives normalization.
var ErrEmptyWordList = errors.New("words: word list is empty")

// Dictionary is an immutable, normalized word list.
// It is safe for concurrent use.
type Dictionary struct {
	words    []string
	set      map[string]struct{}
	byLength map[int][]string
}

var (
	defaultOnce sync.Once
	defaultDict *Dictionary
	defaultErr  error
)

// Default returns the embedded dictionary, loaded once.
func Default() (*Dictionary, error) {
	defaultOnce.Do(func() {
		list, err := assets.WordList()
		if err != nil {
			defaultErr = fmt.Errorf("words: read embedded list: %w", err)
			return
		}
		defaultDict, defaultErr = New(list)
	})
	return defaultDict, defaultErr
}

// Load reads a dictionary from path, or returns the embedded default when
// path is empty.
func Load(path string) (*Dictionary, error) {
	if path == "" {
		return Default()
	}
	list, err := readWordFile(path)
	if err != nil {
		return nil, fmt.Errorf("words: read %s: %w", path, err)
	}
	return New(list)
}

// New builds a dictionary from raw words.
func New(list []string) (*Dictionary, error) {
	d := &Dictionary{
		set:      make(map[string]struct{}, len(list)),
		byLength: make(map[int][]string),
	}
	for _, raw := range list {
		w := normalize(raw)
		if w == "" {
			continue
		}
		if _, dup := d.set[w]; dup {
			continue
		}
		d.set[w] = struct{}{}
		d.words = append(d.words, w)
		d.byLength[len(w)] = append(d.byLength[len(w)], w)
	}
	if len(d.words) == 0 {
		return nil, ErrEmptyWordList
	}
	return d, nil
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

// normalize upper-cases w, or returns "" if it is not a plain A–Z word.
func normalize(w string) string {
	w = strings.ToUpper(strings.TrimSpace(w))
	if w == "" || !isAlpha(w) {
		return ""
	}
	return w
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Random returns a cryptographically random word.
func (d *Dictionary) Random() string {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(d.words))))
	if err != nil {
		return d.words[0]
	}
	return d.words[nBig.Int64()]
}

// At returns the word at i modulo the dictionary size.
func (d *Dictionary) At(i int) string {
	if i < 0 {
		i = -i
	}
	return d.words[i%len(d.words)]
}

// Contains reports whether w is in the dictionary, case-insensitively.
func (d *Dictionary) Contains(w string) bool {
	_, ok := d.set[strings.ToUpper(w)]
	return ok
}

// OfLength returns the words with n letters. The slice is shared; callers
// must not modify it.
func (d *Dictionary) OfLength(n int) []string {
	return d.byLength[n]
}

// Words returns a copy of every word in load order.
func (d *Dictionary) Words() []string {
	return append([]string(nil), d.words...)
}

// Len returns the number of words.
func (d *Dictionary) Len() int { return len(d.words) }
