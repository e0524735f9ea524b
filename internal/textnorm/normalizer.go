// Package textnorm turns raw catalog and query text into canonical token streams.
package textnorm

import (
	"strings"
	"unicode"
)

// DefaultMinLength drops single-rune tokens, which carry no ranking signal.
const DefaultMinLength = 2

// Normalizer lower-cases text, splits it on anything that is not a letter, digit
// or hyphen, and optionally drops stop words. It holds no mutable state and is
// safe for concurrent use.
type Normalizer struct {
	stopWords map[string]struct{}
	minLength int
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithStopWords enables or disables the English stop-word filter (enabled by default).
func WithStopWords(enabled bool) Option {
	return func(n *Normalizer) {
		if enabled {
			n.stopWords = englishStopWords
		} else {
			n.stopWords = nil
		}
	}
}

// WithMinLength sets the minimum token length in runes. Values below 1 are treated as 1.
func WithMinLength(runes int) Option {
	return func(n *Normalizer) {
		if runes < 1 {
			runes = 1
		}
		n.minLength = runes
	}
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		stopWords: englishStopWords,
		minLength: DefaultMinLength,
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

var defaultNormalizer = New()

// Normalize tokenizes text with the default normalizer.
func Normalize(text string) []string {
	return defaultNormalizer.Normalize(text)
}

// Normalize returns the token sequence for text, in order of appearance.
// Empty or whitespace-only input yields nil.
func (n *Normalizer) Normalize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), isSeparator)
	if len(fields) == 0 {
		return nil
	}

	var tokens []string
	for _, f := range fields {
		f = strings.Trim(f, "-")
		if f == "" || utf8Len(f) < n.minLength {
			continue
		}
		if _, stop := n.stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// StopWordsEnabled reports whether the stop-word filter is active.
func (n *Normalizer) StopWordsEnabled() bool { return n.stopWords != nil }

// Join renders tokens back into text. Normalize(Join(t)) returns t for any t
// produced by the same Normalizer.
func Join(tokens []string) string {
	return strings.Join(tokens, " ")
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
}

func utf8Len(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
