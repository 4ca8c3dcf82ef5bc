package service

import (
	"context"
	"fmt"

	"github.com/okian/rolematch/internal/adapters/cache"
	"github.com/okian/rolematch/internal/adapters/repository"
	"github.com/okian/rolematch/internal/config"
	"github.com/okian/rolematch/pkg/logger"
)

// FromConfig builds an unstarted Service with the catalog source and result
// cache selected by cfg. Extra options are applied last.
func FromConfig(ctx context.Context, cfg *config.Config, log logger.Logger, extra ...Option) (*Service, error) {
	src, err := repository.NewSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("catalog source: %w", err)
	}
	rc := cache.NewRedisCache(ctx, cfg.RedisAddr,
		cache.WithPassword(cfg.RedisPassword),
		cache.WithDB(cfg.RedisDB),
		cache.WithLogger(log),
	)

	opts := []Option{
		WithLogger(log),
		WithSource(src),
		WithCache(rc, cfg.CacheTTL()),
		WithDefaults(cfg.DefaultTopN, cfg.DefaultAlpha),
		WithMaxTopN(cfg.MaxTopN),
		WithMaxBatch(cfg.MaxBatch),
		WithBatchConcurrency(cfg.BatchConcurrency),
		WithMinDF(cfg.MinDF),
		WithLoadTimeout(cfg.CatalogLoadTimeout()),
	}
	return New(append(opts, extra...)...), nil
}
