// Package service provides the recommendation service behind the HTTP API
// and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/okian/rolematch/internal/adapters/cache"
	"github.com/okian/rolematch/internal/adapters/repository"
	"github.com/okian/rolematch/internal/domain/catalog"
	"github.com/okian/rolematch/internal/domain/model"
	"github.com/okian/rolematch/internal/domain/options"
	"github.com/okian/rolematch/internal/domain/scoring"
	"github.com/okian/rolematch/internal/domain/vectorizer"
	"github.com/okian/rolematch/pkg/logger"
	"github.com/okian/rolematch/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Service loads the catalog once and answers recommendation queries.
type Service struct {
	mu sync.RWMutex

	source repository.Source
	cache  *cache.RedisCache

	// Configuration
	defaults         scoring.Params
	maxTopN          int
	maxBatch         int
	batchConcurrency int
	minDF            int
	loadTimeout      time.Duration
	retryInterval    time.Duration
	cacheTTL         time.Duration

	// Built by Start
	catalog     *catalog.Catalog
	vec         *vectorizer.TFIDF
	scorer      *scoring.Scorer
	fingerprint string

	started   bool
	startedAt time.Time

	logger logger.Logger
}

// New constructs a Service. Start must be called before serving.
func New(opts ...Option) *Service {
	s := &Service{
		defaults:         scoring.DefaultParams(),
		maxTopN:          50,
		maxBatch:         100,
		batchConcurrency: runtime.NumCPU(),
		minDF:            1,
		loadTimeout:      30 * time.Second,
		retryInterval:    200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the catalog, fits the vectorizer and prepares the scorer.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if err := s.defaults.Validate(); err != nil {
		return fmt.Errorf("default parameters: %w", err)
	}
	if s.source == nil {
		return ErrNoSource
	}

	s.logger.Info(ctx, "starting recommendation service...")
	start := time.Now()

	cat, vec, scorer, err := s.build(ctx)
	if err != nil {
		metrics.RecordCatalogLoad("failure")
		s.release(ctx)
		return err
	}

	s.catalog, s.vec, s.scorer = cat, vec, scorer
	s.fingerprint = cat.Fingerprint()
	s.started = true
	s.startedAt = time.Now()

	metrics.RecordCatalogLoad("success")
	metrics.UpdateCatalogSize(cat.Len(), len(cat.Roles()))
	metrics.UpdateVocabularySize(vec.Dimension())

	s.logger.Info(ctx, "recommendation service started",
		logger.Int("postings", cat.Len()),
		logger.Int("roles", len(cat.Roles())),
		logger.Int("vocabulary", vec.Dimension()),
		logger.String("fingerprint", s.fingerprint),
		logger.Bool("cache", s.cache.Enabled()),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

func (s *Service) build(ctx context.Context) (*catalog.Catalog, *vectorizer.TFIDF, *scoring.Scorer, error) {
	postings, err := s.loadPostings(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	cat, err := catalog.New(postings)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build catalog: %w", err)
	}
	vec, err := vectorizer.Fit(cat.Documents(), vectorizer.WithMinDF(s.minDF))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fit vectorizer: %w", err)
	}
	scorer, err := scoring.NewScorer(cat, vec)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build scorer: %w", err)
	}
	return cat, vec, scorer, nil
}

// loadPostings retries transient source failures until loadTimeout.
func (s *Service) loadPostings(ctx context.Context) ([]model.JobPosting, error) {
	lctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = s.retryInterval
	expo.MaxElapsedTime = s.loadTimeout

	var postings []model.JobPosting
	attempt := 0
	op := func() error {
		attempt++
		p, err := s.source.Load(lctx)
		if err == nil {
			postings = p
			return nil
		}
		if isPermanent(err) {
			return backoff.Permanent(err)
		}
		s.logger.Warn(lctx, "catalog load failed, retrying",
			logger.Int("attempt", attempt), logger.Error(err))
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(expo, lctx)); err != nil {
		return nil, fmt.Errorf("load catalog after %d attempts: %w", attempt, err)
	}
	return postings, nil
}

func isPermanent(err error) bool {
	return errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, repository.ErrMissingColumn) ||
		errors.Is(err, repository.ErrInvalidTable) ||
		errors.Is(err, repository.ErrClosed)
}

// Stop releases the source and cache.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping recommendation service...")
	s.release(ctx)
	s.started = false
	s.logger.Info(ctx, "recommendation service stopped")
}

// release closes the source and cache. A failed Start releases them too, so
// the service cannot be started again afterwards.
func (s *Service) release(ctx context.Context) {
	if s.source != nil {
		if err := s.source.Close(); err != nil {
			s.logger.Warn(ctx, "close catalog source", logger.Error(err))
		}
	}
	if err := s.cache.Close(); err != nil {
		s.logger.Warn(ctx, "close result cache", logger.Error(err))
	}
}

// Defaults returns the parameters applied when a request omits them.
func (s *Service) Defaults() scoring.Params { return s.defaults }

// ready returns the scorer, or ErrNotStarted.
func (s *Service) ready() (*scoring.Scorer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.scorer, nil
}

// Ready reports per-dependency status. The error is ErrNotStarted until the
// catalog is loaded; an unreachable cache is reported but does not fail
// readiness since requests fall back to scoring.
func (s *Service) Ready(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	checks := map[string]string{"catalog": "loaded", "cache": "disabled"}
	if s.cache.Enabled() {
		checks["cache"] = "ok"
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = "unreachable"
		}
	}
	if !started {
		checks["catalog"] = "not_loaded"
		return checks, ErrNotStarted
	}
	return checks, nil
}

// cached returns a stored result when every role still exists in the loaded
// catalog. Anything else counts as a miss.
func (s *Service) cached(ctx context.Context, key string) ([]string, bool) {
	roles, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.RecordCacheError()
		return nil, false
	case !ok:
		metrics.RecordCacheMiss()
		return nil, false
	}
	s.mu.RLock()
	cat := s.catalog
	s.mu.RUnlock()
	for _, r := range roles {
		if cat == nil || !cat.HasRole(r) {
			s.logger.Debug(ctx, "discarding cached roles unknown to the catalog", logger.String("role", r))
			metrics.RecordCacheMiss()
			return nil, false
		}
	}
	metrics.RecordCacheHit()
	return roles, true
}

func (s *Service) checkParams(p scoring.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.TopN > s.maxTopN {
		return fmt.Errorf("top_n %d exceeds maximum %d: %w", p.TopN, s.maxTopN, scoring.ErrInvalidInput)
	}
	return nil
}

// Recommend returns up to p.TopN distinct roles for candidate, consulting the
// result cache first.
func (s *Service) Recommend(ctx context.Context, candidate model.CandidateProfile, p scoring.Params) ([]string, error) {
	scorer, err := s.ready()
	if err != nil {
		return nil, err
	}
	if err := s.checkParams(p); err != nil {
		metrics.RecordRecommendationError(errorKind(err))
		return nil, err
	}

	key := cache.Key(s.fingerprint, candidate.CombinedFeatures(), p.TopN, p.Alpha)
	if s.cache.Enabled() {
		if roles, ok := s.cached(ctx, key); ok {
			metrics.RecordRecommendation()
			return roles, nil
		}
	}

	start := time.Now()
	roles, err := scorer.Recommend(ctx, candidate, scoring.WithParams(p))
	if err != nil {
		metrics.RecordRecommendationError(errorKind(err))
		return nil, err
	}
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordRecommendation()

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, key, roles, s.cacheTTL); err != nil {
			metrics.RecordCacheError()
		}
	}
	return roles, nil
}

// Explain returns the scored posting behind each recommended role. It
// bypasses the cache.
func (s *Service) Explain(ctx context.Context, candidate model.CandidateProfile, p scoring.Params) ([]scoring.ScoredJob, error) {
	scorer, err := s.ready()
	if err != nil {
		return nil, err
	}
	if err := s.checkParams(p); err != nil {
		return nil, err
	}
	return scorer.Explain(ctx, candidate, scoring.WithParams(p))
}

// RecommendBatch scores candidates concurrently and returns results in input
// order. The first failure cancels the remaining candidates.
func (s *Service) RecommendBatch(ctx context.Context, candidates []model.CandidateProfile, p scoring.Params) ([][]string, error) {
	if len(candidates) == 0 || len(candidates) > s.maxBatch {
		return nil, fmt.Errorf("%w: %d candidates, want 1..%d", ErrBatchSize, len(candidates), s.maxBatch)
	}
	if _, err := s.ready(); err != nil {
		return nil, err
	}
	metrics.RecordBatchSize(len(candidates))

	out := make([][]string, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)
	for i, c := range candidates {
		g.Go(func() error {
			roles, err := s.Recommend(gctx, c, p)
			if err != nil {
				return fmt.Errorf("candidate %d: %w", i, err)
			}
			out[i] = roles
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Roles lists catalog roles by descending popularity.
func (s *Service) Roles(_ context.Context) ([]catalog.RoleCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.catalog.Roles(), nil
}

// Options returns the predefined form choices.
func (s *Service) Options() options.Choices { return options.All() }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"default_top_n": s.defaults.TopN,
		"default_alpha": s.defaults.Alpha,
		"max_top_n":     s.maxTopN,
		"max_batch":     s.maxBatch,
		"cache_enabled": s.cache.Enabled(),
	}
	if s.started {
		stats["postings"] = s.catalog.Len()
		stats["distinct_roles"] = len(s.catalog.Roles())
		stats["vocabulary_size"] = s.vec.Dimension()
		stats["catalog_fingerprint"] = s.fingerprint
		stats["uptime_seconds"] = int64(time.Since(s.startedAt).Seconds())
	}
	return stats
}

// errorKind labels an error for the recommendation error counter.
func errorKind(err error) string {
	switch {
	case errors.Is(err, scoring.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, scoring.ErrVectorizerMismatch):
		return "vectorizer_mismatch"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
