// Package keywords derives salient search terms from Turkish case narratives.
package keywords

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DefaultMaxTerms  = 10
	DefaultMinLength = 4
)

// defaultStopwords are conjunctions, pronouns and clitic particles that carry no search value
var defaultStopwords = []string{
	"ve", "veya", "ile", "bir", "bu", "şu", "o", "ki", "da", "de", "mi", "mu", "mı", "mü",
	"için", "gibi", "daha", "olan", "olarak", "ancak", "fakat", "ama", "çok", "kadar",
	"sonra", "önce", "ise", "göre", "ayrıca", "hem", "ne", "ya", "ben", "sen", "biz",
	"siz", "onlar", "bunu", "şunu", "onu", "bunlar", "şunlar", "her", "hiç", "tüm",
	"oldu", "olduğu", "olması", "diye", "yani", "değil", "bile", "eğer",
}

// Extractor picks the most frequent qualifying tokens of a text
type Extractor struct {
	stopwords map[string]struct{}
	minLength int
	maxTerms  int
}

// Option configures an Extractor
type Option func(*Extractor)

// WithMaxTerms sets the default number of returned terms
func WithMaxTerms(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxTerms = n
		}
	}
}

// WithMinLength sets the minimum token length in runes
func WithMinLength(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.minLength = n
		}
	}
}

// WithStopwords adds words to the stopword set
func WithStopwords(words ...string) Option {
	return func(e *Extractor) {
		for _, w := range words {
			e.stopwords[w] = struct{}{}
		}
	}
}

// NewExtractor creates an extractor with the Turkish stopword set
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		stopwords: make(map[string]struct{}, len(defaultStopwords)),
		minLength: DefaultMinLength,
		maxTerms:  DefaultMaxTerms,
	}
	for _, w := range defaultStopwords {
		e.stopwords[w] = struct{}{}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxTerms returns the default term count
func (e *Extractor) MaxTerms() int {
	return e.maxTerms
}

// Extract returns up to the default number of terms
func (e *Extractor) Extract(text string) []string {
	return e.ExtractN(text, e.maxTerms)
}

// ExtractN returns up to n terms ordered by frequency, ties broken by first occurrence.
// Empty or punctuation-only input yields an empty slice.
func (e *Extractor) ExtractN(text string, n int) []string {
	terms := make([]string, 0)
	if n <= 0 {
		return terms
	}

	type entry struct {
		term  string
		count int
		first int
	}
	index := make(map[string]*entry)
	var order []*entry

	for _, token := range strings.Fields(stripPunctuation(Lower(text))) {
		if utf8.RuneCountInString(token) < e.minLength {
			continue
		}
		if _, stop := e.stopwords[token]; stop {
			continue
		}
		if ent, ok := index[token]; ok {
			ent.count++
			continue
		}
		ent := &entry{term: token, count: 1, first: len(order)}
		index[token] = ent
		order = append(order, ent)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].count > order[j].count
	})

	for _, ent := range order {
		if len(terms) == n {
			break
		}
		terms = append(terms, ent.term)
	}
	return terms
}

// Lower folds s with Turkish casing rules: "I" becomes "ı" and "İ" becomes "i"
func Lower(s string) string {
	// Casers keep state, so one per call
	return cases.Lower(language.Turkish).String(s)
}

// stripPunctuation drops every rune that is not a letter, digit, underscore or space
func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' || unicode.Is(unicode.Mn, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
