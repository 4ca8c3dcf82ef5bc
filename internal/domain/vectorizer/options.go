package vectorizer

// Option applies a fitting option.
type Option func(*TFIDF)

// WithMinDF ignores terms that appear in fewer than n documents.
func WithMinDF(n int) Option {
	return func(t *TFIDF) {
		if n > 0 {
			t.minDF = n
		}
	}
}

// WithStopWords drops the given terms from the vocabulary. Terms are matched
// after lower-casing.
func WithStopWords(words ...string) Option {
	return func(t *TFIDF) {
		for _, w := range words {
			t.stopWords[lowerTerm(w)] = struct{}{}
		}
	}
}
