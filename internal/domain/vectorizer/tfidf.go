// Package vectorizer turns free text into fixed-dimension term-weight vectors.
package vectorizer

import (
	"fmt"
	"math"
	"regexp"
	"sort"

	"github.com/okian/rolematch/internal/domain/model"
	"gonum.org/v1/gonum/floats"
)

// Vectorizer is a fitted text-to-vector transform. Implementations must be
// safe for concurrent Transform calls.
type Vectorizer interface {
	// Transform maps text to a vector of length Dimension().
	Transform(text string) ([]float64, error)
	// Dimension is the length of every vector Transform returns.
	Dimension() int
}

// tokenPattern keeps runs of two or more letters, digits or underscores.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize lower-cases text and splits it into terms.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(lowerTerm(text), -1)
}

func lowerTerm(s string) string { return model.Lower(s) }

// TFIDF is a term-frequency / inverse-document-frequency model with smoothed
// idf, raw term counts and L2-normalized output.
type TFIDF struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64

	minDF     int
	stopWords map[string]struct{}
}

var _ Vectorizer = (*TFIDF)(nil)

// Fit learns the vocabulary and idf weights from docs.
// Vocabulary indices follow the sorted term order.
func Fit(docs []string, opts ...Option) (*TFIDF, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}
	t := &TFIDF{
		minDF:     1,
		stopWords: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}

	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range Tokenize(doc) {
			if _, stop := t.stopWords[term]; stop {
				continue
			}
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	for term, n := range df {
		if n >= t.minDF {
			t.terms = append(t.terms, term)
		}
	}
	if len(t.terms) == 0 {
		return nil, fmt.Errorf("fit %d documents: %w", len(docs), ErrEmptyVocabulary)
	}
	sort.Strings(t.terms)

	n := float64(len(docs))
	t.vocabulary = make(map[string]int, len(t.terms))
	t.idf = make([]float64, len(t.terms))
	for i, term := range t.terms {
		t.vocabulary[term] = i
		t.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return t, nil
}

// Transform returns the L2-normalized tf-idf vector of text. Unknown terms are
// ignored; text without known terms yields the zero vector.
func (t *TFIDF) Transform(text string) ([]float64, error) {
	vec := make([]float64, len(t.terms))
	for _, term := range Tokenize(text) {
		if i, ok := t.vocabulary[term]; ok {
			vec[i]++
		}
	}
	floats.Mul(vec, t.idf)
	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec, nil
}

// Dimension returns the vocabulary size.
func (t *TFIDF) Dimension() int { return len(t.terms) }

// Vocabulary returns a copy of the terms in index order.
func (t *TFIDF) Vocabulary() []string {
	out := make([]string, len(t.terms))
	copy(out, t.terms)
	return out
}

// IDF returns the idf weight of term.
func (t *TFIDF) IDF(term string) (float64, bool) {
	i, ok := t.vocabulary[lowerTerm(term)]
	if !ok {
		return 0, false
	}
	return t.idf[i], true
}
