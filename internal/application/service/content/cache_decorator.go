package content_service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rollup-blog-service/internal/domain/custom_errors"
	output "rollup-blog-service/internal/domain/ports/output"
	"rollup-blog-service/internal/domain/ports/output/cache"
	"rollup-blog-service/internal/domain/ports/output/content"
)

// StoreCacheDecorator serves bodies from the cache before going to the
// underlying store. Cache errors are logged and never fail a request.
type StoreCacheDecorator struct {
	store     content.Store
	bodyCache cache.BodyCache
	log       output.Logger
	metrics   output.MetricsProvider
}

func NewStoreCacheDecorator(
	store content.Store,
	bodyCache cache.BodyCache,
	log output.Logger,
	metrics output.MetricsProvider,
) content.Store {
	return &StoreCacheDecorator{
		store:     store,
		bodyCache: bodyCache,
		log:       log,
		metrics:   metrics,
	}
}

func (d *StoreCacheDecorator) Add(ctx context.Context, data []byte) (string, error) {
	ref, err := d.store.Add(ctx, data)
	if err != nil {
		return "", err
	}

	start := time.Now()
	if err := d.bodyCache.SetBody(ctx, ref, data); err != nil {
		d.log.Warn("Failed to cache uploaded body",
			slog.String("ref", ref),
			slog.String("error", err.Error()))
	}
	d.metrics.RecordCacheOperationDuration("body_set", time.Since(start))

	return ref, nil
}

func (d *StoreCacheDecorator) Fetch(ctx context.Context, ref string) ([]byte, error) {
	start := time.Now()
	body, err := d.bodyCache.GetBody(ctx, ref)
	d.metrics.RecordCacheOperationDuration("body_get", time.Since(start))
	if err == nil {
		d.metrics.IncrementCacheHits()
		d.log.Debug("Body found in cache", slog.String("ref", ref))
		return body, nil
	}

	d.metrics.IncrementCacheMisses()
	if !errors.Is(err, custom_errors.ErrCacheMiss) {
		d.log.Warn("Failed to read body from cache",
			slog.String("ref", ref),
			slog.String("error", err.Error()))
	}

	body, err = d.store.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	setStart := time.Now()
	if err := d.bodyCache.SetBody(ctx, ref, body); err != nil {
		d.log.Warn("Failed to cache fetched body",
			slog.String("ref", ref),
			slog.String("error", err.Error()))
	}
	d.metrics.RecordCacheOperationDuration("body_set", time.Since(setStart))

	return body, nil
}

func (d *StoreCacheDecorator) Ping(ctx context.Context) error {
	return d.store.Ping(ctx)
}
