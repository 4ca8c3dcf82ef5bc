package service

import (
	"time"

	"github.com/okian/rolematch/internal/adapters/cache"
	"github.com/okian/rolematch/internal/adapters/repository"
	"github.com/okian/rolematch/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where the catalog is loaded from.
func WithSource(src repository.Source) Option {
	return func(s *Service) { s.source = src }
}

// WithCache enables result caching with the given entry lifetime.
func WithCache(c *cache.RedisCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithDefaults sets the ranking parameters used when a request omits them.
func WithDefaults(topN int, alpha float64) Option {
	return func(s *Service) {
		s.defaults.TopN = topN
		s.defaults.Alpha = alpha
	}
}

// WithMaxTopN caps the top_n a caller may ask for.
func WithMaxTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTopN = n
		}
	}
}

// WithMaxBatch caps the number of candidates per batch.
func WithMaxBatch(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBatch = n
		}
	}
}

// WithBatchConcurrency bounds the goroutines scoring one batch.
func WithBatchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchConcurrency = n
		}
	}
}

// WithMinDF drops vocabulary terms seen in fewer than n postings.
func WithMinDF(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minDF = n
		}
	}
}

// WithLoadTimeout bounds catalog loading including retries.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.loadTimeout = d
		}
	}
}

// WithRetryInterval sets the first catalog load retry delay.
func WithRetryInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.retryInterval = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
