package analysis

import (
	"strings"
	"unicode"
)

// MinTokenLen is the shortest token kept by Tokenize.
const MinTokenLen = 3

// Tokenize lowercases text, drops every character that is not an ASCII
// lowercase letter or whitespace, splits on whitespace and keeps tokens of
// at least MinTokenLen letters. Digits and punctuation are removed in place,
// so "covid-19" becomes "covid" and "sars-cov-2" becomes "sarscov".
func Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	fields := strings.Fields(b.String())
	out := fields[:0]
	for _, f := range fields {
		if len(f) >= MinTokenLen {
			out = append(out, f)
		}
	}
	return out
}

// Stopwords is a set of tokens excluded from frequency counts.
type Stopwords map[string]struct{}

// NewStopwords builds a set from words, lowercased.
func NewStopwords(words ...string) Stopwords {
	s := make(Stopwords, len(words))
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// Add inserts words into the set.
func (s Stopwords) Add(words ...string) {
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			s[w] = struct{}{}
		}
	}
}

// Contains reports membership; a nil set contains nothing.
func (s Stopwords) Contains(w string) bool {
	_, ok := s[w]
	return ok
}

var defaultStopwords = []string{
	"the", "and", "to", "of", "in", "is", "a", "with", "for", "was", "as",
	"are", "on", "this", "we", "from", "or", "by", "at", "that", "were",
	"an", "be", "can", "has", "our", "have", "results", "data", "study",
	"new", "also", "which", "may", "these", "more", "one", "all", "research",
	"used", "paper", "found", "two", "using", "analysis", "showed", "been",
	"could", "other", "potential", "time", "infection", "fig", "figure",
	"covid", "sars", "mers",
}

// DefaultStopwords returns a fresh copy of the built-in set, shared by the
// batch report and the dashboard.
func DefaultStopwords() Stopwords {
	return NewStopwords(defaultStopwords...)
}
