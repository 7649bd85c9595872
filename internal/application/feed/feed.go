package feed

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"rollup-blog-service/internal/domain/custom_errors"
	model "rollup-blog-service/internal/domain/models"
	output "rollup-blog-service/internal/domain/ports/output"
)

type PostLister interface {
	ListPosts(ctx context.Context, opts *model.ListOptions) ([]*model.Post, error)
}

// Snapshot is the last successfully listed set of posts. LastError carries
// the failure of the most recent refresh, if it failed.
type Snapshot struct {
	Posts      []*model.Post `json:"posts"`
	Generation uint64        `json:"generation"`
	UpdatedAt  time.Time     `json:"updated_at"`
	LastError  string        `json:"last_error,omitempty"`
}

// Feed keeps the current post list. Each refresh takes a new generation and
// cancels the one before it; only the newest generation may commit.
type Feed struct {
	lister  PostLister
	opts    model.ListOptions
	log     output.Logger
	metrics output.MetricsProvider

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	snapshot   Snapshot
}

func New(lister PostLister, opts model.ListOptions, log output.Logger, metrics output.MetricsProvider) *Feed {
	return &Feed{
		lister:   lister,
		opts:     opts,
		log:      log,
		metrics:  metrics,
		snapshot: Snapshot{Posts: []*model.Post{}},
	}
}

func (f *Feed) Refresh(ctx context.Context) (Snapshot, error) {
	f.mu.Lock()
	f.generation++
	generation := f.generation
	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.mu.Unlock()
	defer cancel()

	opts := f.opts
	posts, err := f.lister.ListPosts(ctx, &opts)

	f.mu.Lock()
	defer f.mu.Unlock()

	if generation != f.generation {
		f.metrics.IncrementFeedRefreshes("superseded")
		f.log.Debug("Feed refresh superseded",
			slog.Uint64("generation", generation),
			slog.Uint64("current_generation", f.generation))
		return f.snapshotLocked(), custom_errors.ErrRefreshSuperseded
	}
	f.cancel = nil

	if err != nil {
		f.metrics.IncrementFeedRefreshes("failed")
		f.snapshot.LastError = err.Error()
		f.log.Warn("Feed refresh failed, keeping previous posts",
			slog.Uint64("generation", generation),
			slog.Int("posts", len(f.snapshot.Posts)),
			slog.String("error", err.Error()))
		return f.snapshotLocked(), err
	}

	f.snapshot = Snapshot{
		Posts:      posts,
		Generation: generation,
		UpdatedAt:  time.Now(),
	}
	f.metrics.IncrementFeedRefreshes("success")
	f.metrics.SetFeedPosts(len(posts))
	f.log.Debug("Feed refreshed", slog.Uint64("generation", generation), slog.Int("posts", len(posts)))
	return f.snapshotLocked(), nil
}

func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Feed) snapshotLocked() Snapshot {
	s := f.snapshot
	s.Posts = make([]*model.Post, len(f.snapshot.Posts))
	copy(s.Posts, f.snapshot.Posts)
	return s
}

// Run refreshes immediately and then every interval until ctx is done.
func (f *Feed) Run(ctx context.Context, interval time.Duration) {
	f.log.Info("Feed refresher started", slog.Duration("interval", interval))
	f.runOnce(ctx)

	if interval <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			f.log.Info("Feed refresher stopped")
			return
		case <-ticker.C:
			f.runOnce(ctx)
		}
	}
}

func (f *Feed) runOnce(ctx context.Context) {
	if _, err := f.Refresh(ctx); err != nil && !errors.Is(err, custom_errors.ErrRefreshSuperseded) && ctx.Err() == nil {
		f.log.Error("Periodic feed refresh failed", slog.String("error", err.Error()))
	}
}
