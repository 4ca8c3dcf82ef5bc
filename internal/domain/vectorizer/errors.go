package vectorizer

import "errors"

// Sentinel kinds for vectorizer errors.
var (
	ErrEmptyCorpus     = errors.New("empty corpus")
	ErrEmptyVocabulary = errors.New("empty vocabulary")
)
