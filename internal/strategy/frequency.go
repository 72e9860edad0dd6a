package strategy

import (
	"sort"
	"strings"
	"sync"

	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/words"
)

const defaultCacheSize = 4096

// Frequency narrows the dictionary to the words still consistent with the
// game and guesses the unguessed letter found in the most of them. Once a
// single candidate is left it guesses that word.
type Frequency struct {
	dict     *words.Dictionary
	fallback GuessingStrategy

	mu       sync.Mutex
	cache    map[string][]string // candidate lists keyed by observable state
	maxCache int
}

// NewFrequency returns a Frequency strategy over dict.
func NewFrequency(dict *words.Dictionary) *Frequency {
	return &Frequency{
		dict:     dict,
		fallback: Ordered{},
		cache:    make(map[string][]string),
		maxCache: defaultCacheSize,
	}
}

func (f *Frequency) NextGuess(v game.View) game.Guess {
	cands := f.Candidates(v)
	if len(cands) == 1 {
		return game.NewWordGuess(cands[0])
	}

	pattern := []rune(v.Pattern())
	counts := make(map[rune]int)
	for _, w := range cands {
		seen := make(map[rune]bool, len(w))
		for i, r := range w {
			if pattern[i] != game.MysteryLetter || seen[r] || v.HasGuessed(r) {
				continue
			}
			seen[r] = true
			counts[r]++
		}
	}
	if len(counts) == 0 {
		return f.fallback.NextGuess(v)
	}

	letters := make([]rune, 0, len(counts))
	for r := range counts {
		letters = append(letters, r)
	}
	sort.Slice(letters, func(i, j int) bool {
		if counts[letters[i]] != counts[letters[j]] {
			return counts[letters[i]] > counts[letters[j]]
		}
		return letters[i] < letters[j]
	})
	return game.NewLetterGuess(letters[0])
}

// Candidates returns the dictionary words still consistent with v.
func (f *Frequency) Candidates(v game.View) []string {
	key := cacheKey(v)
	f.mu.Lock()
	cached, ok := f.cache[key]
	f.mu.Unlock()
	if ok {
		return cached
	}

	cands := filter(f.dict.OfLength(v.SecretWordLength()), v)

	f.mu.Lock()
	if len(f.cache) >= f.maxCache {
		f.cache = make(map[string][]string)
	}
	f.cache[key] = cands
	f.mu.Unlock()
	return cands
}

// filter keeps the words that match the revealed pattern, contain no wrong
// letter, hide no already-correct letter and were not guessed as a word.
func filter(pool []string, v game.View) []string {
	pattern := []rune(v.Pattern())
	correct := toSet(v.CorrectLetters())
	wrong := toSet(v.IncorrectLetters())
	wrongWords := make(map[string]struct{})
	for _, w := range v.IncorrectWords() {
		wrongWords[w] = struct{}{}
	}

	var out []string
next:
	for _, w := range pool {
		if _, bad := wrongWords[w]; bad {
			continue
		}
		for i, r := range w {
			if i >= len(pattern) {
				continue next
			}
			p := pattern[i]
			if p != game.MysteryLetter {
				if r != p {
					continue next
				}
				continue
			}
			if _, ok := correct[r]; ok {
				continue next
			}
			if _, ok := wrong[r]; ok {
				continue next
			}
		}
		out = append(out, w)
	}
	return out
}

func cacheKey(v game.View) string {
	var b strings.Builder
	b.WriteString(v.Pattern())
	b.WriteByte('|')
	b.WriteString(string(v.IncorrectLetters()))
	b.WriteByte('|')
	b.WriteString(strings.Join(v.IncorrectWords(), ","))
	return b.String()
}

func toSet(rs []rune) map[rune]struct{} {
	m := make(map[rune]struct{}, len(rs))
	for _, r := range rs {
		m[r] = struct{}{}
	}
	return m
}
