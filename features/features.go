package features

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Default bounds on feature length, inclusive.
const (
	MinLength = 3
	MaxLength = 19
)

// DefaultLanguage is the stemmer language used when none is configured.
const DefaultLanguage = "english"

var splitter = regexp.MustCompile(`\W+`)

var errInvalidBounds = errors.New("invalid feature length bounds")

// Extractor turns a document into its set of features.
type Extractor func(doc string) []string

// Options configures an Extractor built by New. Both the token and its stem
// must fall within MinLength and MaxLength.
type Options struct {
	MinLength int
	MaxLength int
	Fold      bool   // strip diacritics and case-fold before splitting
	Stem      bool   // reduce tokens with the snowball stemmer
	Language  string // stemmer language, DefaultLanguage when empty
}

// DefaultOptions returns options equivalent to Words.
func DefaultOptions() Options {
	return Options{
		MinLength: MinLength,
		MaxLength: MaxLength,
		Language:  DefaultLanguage,
	}
}

// Words splits doc on runs of non-word characters and returns the distinct
// lowercased tokens of 3 to 19 characters, sorted.
func Words(doc string) []string {
	return extract(doc, MinLength, MaxLength, nil)
}

// New builds an Extractor from opts.
func New(opts Options) (Extractor, error) {
	if opts.MinLength < 1 || opts.MaxLength < opts.MinLength {
		return nil, fmt.Errorf("%w: min=%d max=%d", errInvalidBounds, opts.MinLength, opts.MaxLength)
	}

	var stem func(string) string
	if opts.Stem {
		language := opts.Language
		if language == "" {
			language = DefaultLanguage
		}
		if _, err := snowball.Stem("word", language, true); err != nil {
			return nil, fmt.Errorf("stemmer: %w", err)
		}
		stem = func(word string) string {
			stemmed, err := snowball.Stem(word, language, true)
			if err != nil || stemmed == "" {
				return word
			}
			return stemmed
		}
	}

	minLen, maxLen, fold := opts.MinLength, opts.MaxLength, opts.Fold
	return func(doc string) []string {
		if fold {
			doc = foldText(doc)
		}
		return extract(doc, minLen, maxLen, stem)
	}, nil
}

func extract(doc string, minLen, maxLen int, stem func(string) string) []string {
	seen := make(map[string]struct{})
	for _, token := range splitter.Split(doc, -1) {
		if len(token) < minLen || len(token) > maxLen {
			continue
		}
		word := strings.ToLower(token)
		if stem != nil {
			if word = stem(word); len(word) < minLen {
				continue
			}
		}
		seen[word] = struct{}{}
	}

	words := make([]string, 0, len(seen))
	for word := range seen {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}

// foldText lowers doc and removes combining marks so accented letters
// survive the ASCII word split.
func foldText(doc string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), cases.Fold(), norm.NFC)
	folded, _, err := transform.String(t, doc)
	if err != nil {
		return doc
	}
	return folded
}
