package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rollup-blog-service/internal/domain/custom_errors"
	ports "rollup-blog-service/internal/domain/ports/output"
)

const (
	bodyCacheKeyPrefix = "post_body:"
	defaultBodyTTL     = 24 * time.Hour
)

// BodyCache stores post bodies by content reference. A reference names
// immutable content, so entries never need invalidation, only expiry.
type BodyCache struct {
	client *Client
	log    ports.Logger
	ttl    time.Duration
}

func NewBodyCache(client *Client, log ports.Logger, ttl time.Duration) *BodyCache {
	if ttl <= 0 {
		ttl = defaultBodyTTL
	}
	return &BodyCache{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

func (b *BodyCache) GetBody(ctx context.Context, ref string) ([]byte, error) {
	body, err := b.client.GetBytes(ctx, b.getBodyKey(ref))
	if err != nil {
		if errors.Is(err, custom_errors.ErrCacheMiss) {
			return nil, custom_errors.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get body from cache: %w", err)
	}
	return body, nil
}

func (b *BodyCache) SetBody(ctx context.Context, ref string, body []byte) error {
	if ref == "" {
		return fmt.Errorf("content reference cannot be empty")
	}
	if err := b.client.SetBytes(ctx, b.getBodyKey(ref), body, b.ttl); err != nil {
		return fmt.Errorf("failed to set body cache: %w", err)
	}
	b.log.Debug("Body cached", slog.String("ref", ref), slog.Int("size", len(body)))
	return nil
}

func (b *BodyCache) getBodyKey(ref string) string {
	return bodyCacheKeyPrefix + ref
}
