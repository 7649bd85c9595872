package post_service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"rollup-blog-service/internal/domain/custom_errors"
	model "rollup-blog-service/internal/domain/models"
	output "rollup-blog-service/internal/domain/ports/output"
	"rollup-blog-service/internal/domain/ports/output/content"
	"rollup-blog-service/internal/domain/ports/output/ledger"
	publication_repository "rollup-blog-service/internal/domain/ports/output/publication"
	"rollup-blog-service/internal/infrastructure/observability"
)

const maxTitleLength = 255

type PostService struct {
	ledger           ledger.Client
	store            content.Store
	journal          publication_repository.Repository
	log              output.Logger
	metrics          output.MetricsProvider
	fetchConcurrency int
}

// NewPostService builds the service. fetchConcurrency bounds parallel body
// fetches while listing; zero or less means unbounded.
func NewPostService(
	ledgerClient ledger.Client,
	store content.Store,
	journal publication_repository.Repository,
	log output.Logger,
	metrics output.MetricsProvider,
	fetchConcurrency int,
) *PostService {
	return &PostService{
		ledger:           ledgerClient,
		store:            store,
		journal:          journal,
		log:              log,
		metrics:          metrics,
		fetchConcurrency: fetchConcurrency,
	}
}

func (s *PostService) ListPosts(ctx context.Context, opts *model.ListOptions) (posts []*model.Post, err error) {
	if opts == nil {
		opts = &model.ListOptions{}
	}
	ctx, span := observability.StartSpan(ctx, "post_service.ListPosts",
		attribute.Bool("partial", opts.AllowPartial),
		attribute.Bool("published_only", opts.PublishedOnly))
	defer func() { observability.EndSpan(span, err) }()
	defer func() { s.recordOperation("list", err) }()

	records, err := s.ledger.FetchPosts(ctx)
	if err != nil {
		s.log.Error("Failed to fetch posts from ledger", slog.String("error", err.Error()))
		return nil, err
	}

	posts = make([]*model.Post, 0, len(records))
	for _, record := range records {
		if opts.PublishedOnly && !record.Published {
			continue
		}
		posts = append(posts, record.ToPost())
	}
	span.SetAttributes(attribute.Int("posts", len(posts)))

	if err := s.resolveBodies(ctx, posts, opts.AllowPartial); err != nil {
		s.log.Error("Failed to resolve post bodies",
			slog.Int("posts", len(posts)),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.log.Debug("Listed posts", slog.Int("count", len(posts)), slog.Bool("partial", opts.AllowPartial))
	return posts, nil
}

// resolveBodies fetches every body concurrently. Results are written by index
// so the ledger order is kept regardless of completion order. In strict mode
// the first failure cancels the outstanding fetches.
func (s *PostService) resolveBodies(ctx context.Context, posts []*model.Post, allowPartial bool) error {
	g, gctx := errgroup.WithContext(ctx)
	if s.fetchConcurrency > 0 {
		g.SetLimit(s.fetchConcurrency)
	}

	for _, post := range posts {
		post := post
		g.Go(func() error {
			data, err := s.store.Fetch(gctx, post.ContentRef)
			if err != nil {
				if allowPartial {
					s.log.Warn("Post body unavailable",
						slog.String("post_id", post.ID),
						slog.String("content_ref", post.ContentRef),
						slog.String("error", err.Error()))
					post.BodyError = err.Error()
					return nil
				}
				return fmt.Errorf("post %s: %w", post.ID, asContentFetchError(err))
			}
			body := string(data)
			post.Body = &body
			return nil
		})
	}

	return g.Wait()
}

func (s *PostService) GetPost(ctx context.Context, id string) (post *model.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "post_service.GetPost", attribute.String("post_id", id))
	defer func() { observability.EndSpan(span, err) }()
	defer func() { s.recordOperation("get", err) }()

	postID, err := parsePostID(id)
	if err != nil {
		return nil, err
	}

	records, err := s.ledger.FetchPosts(ctx)
	if err != nil {
		s.log.Error("Failed to fetch posts from ledger", slog.String("post_id", id), slog.String("error", err.Error()))
		return nil, err
	}

	for _, record := range records {
		if record.ID == nil || record.ID.Cmp(postID) != 0 {
			continue
		}
		post = record.ToPost()
		data, err := s.store.Fetch(ctx, post.ContentRef)
		if err != nil {
			s.log.Error("Failed to fetch post body",
				slog.String("post_id", id),
				slog.String("content_ref", post.ContentRef),
				slog.String("error", err.Error()))
			return nil, asContentFetchError(err)
		}
		body := string(data)
		post.Body = &body
		return post, nil
	}

	s.log.Debug("Post not found", slog.String("post_id", id))
	return nil, custom_errors.ErrPostNotFound
}

func (s *PostService) PublishPost(ctx context.Context, post *model.CreatePostDTO) (publication *model.Publication, err error) {
	if post == nil {
		return nil, fmt.Errorf("%w: post is required", custom_errors.ErrInvalidInput)
	}
	ctx, span := observability.StartSpan(ctx, "post_service.PublishPost", attribute.Int("body_size", len(post.Body)))
	defer func() { observability.EndSpan(span, err) }()
	defer func() { s.recordOperation("publish", err) }()

	if err := validateTitle(post.Title); err != nil {
		return nil, err
	}

	return s.commit(ctx, model.PublicationOperationCreate, "", post.Title, post.Body,
		func(ctx context.Context, ref string) (ledger.Transaction, error) {
			return s.ledger.CreatePost(ctx, post.Title, ref)
		})
}

func (s *PostService) EditPost(ctx context.Context, id string, post *model.UpdatePostDTO) (publication *model.Publication, err error) {
	if post == nil {
		return nil, fmt.Errorf("%w: post is required", custom_errors.ErrInvalidInput)
	}
	ctx, span := observability.StartSpan(ctx, "post_service.EditPost",
		attribute.String("post_id", id),
		attribute.Int("body_size", len(post.Body)))
	defer func() { observability.EndSpan(span, err) }()
	defer func() { s.recordOperation("edit", err) }()

	postID, err := parsePostID(id)
	if err != nil {
		return nil, err
	}
	if err := validateTitle(post.Title); err != nil {
		return nil, err
	}

	return s.commit(ctx, model.PublicationOperationUpdate, id, post.Title, post.Body,
		func(ctx context.Context, ref string) (ledger.Transaction, error) {
			return s.ledger.UpdatePost(ctx, postID, post.Title, ref, true)
		})
}

// commit uploads the body, submits the ledger write built by submit and
// waits for inclusion. The upload always completes before submit runs.
func (s *PostService) commit(
	ctx context.Context,
	operation model.PublicationOperation,
	postID, title, body string,
	submit func(ctx context.Context, ref string) (ledger.Transaction, error),
) (*model.Publication, error) {
	ref, err := s.store.Add(ctx, []byte(body))
	if err != nil {
		s.log.Error("Failed to upload post body",
			slog.String("operation", string(operation)),
			slog.String("error", err.Error()))
		return nil, err
	}
	s.log.Debug("Uploaded post body", slog.String("operation", string(operation)), slog.String("content_ref", ref))

	publication := s.journalCreate(ctx, &model.Publication{
		PostID:     postID,
		Title:      title,
		ContentRef: ref,
		Operation:  operation,
		Status:     model.PublicationStatusUploaded,
	})

	tx, err := submit(ctx, ref)
	if err != nil {
		s.log.Error("Failed to submit ledger write",
			slog.String("operation", string(operation)),
			slog.String("content_ref", ref),
			slog.String("error", err.Error()))
		s.journalUpdate(ctx, publication, terminalStatus(err), "", err)
		return nil, err
	}

	hash := tx.Hash()
	s.log.Info("Submitted ledger write",
		slog.String("operation", string(operation)),
		slog.String("tx_hash", hash),
		slog.String("content_ref", ref))
	s.journalUpdate(ctx, publication, model.PublicationStatusSubmitted, hash, nil)

	if err := tx.Wait(ctx); err != nil {
		s.log.Error("Ledger write did not succeed",
			slog.String("operation", string(operation)),
			slog.String("tx_hash", hash),
			slog.String("error", err.Error()))
		s.journalUpdate(ctx, publication, terminalStatus(err), hash, err)
		return nil, err
	}

	s.journalUpdate(ctx, publication, model.PublicationStatusConfirmed, hash, nil)
	s.log.Info("Ledger write confirmed",
		slog.String("operation", string(operation)),
		slog.String("tx_hash", hash),
		slog.String("content_ref", ref))
	return publication, nil
}

func (s *PostService) ListPublications(ctx context.Context, filters *model.PublicationFilters) ([]*model.Publication, int, error) {
	if filters == nil {
		filters = &model.PublicationFilters{}
	}
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, 0, fmt.Errorf("%w: unknown publication status %q", custom_errors.ErrInvalidInput, *filters.Status)
	}
	if s.journal == nil {
		return []*model.Publication{}, 0, nil
	}

	publications, total, err := s.journal.List(ctx, *filters)
	if err != nil {
		s.log.Error("Failed to list publications", slog.String("error", err.Error()))
		return nil, 0, err
	}
	return publications, total, nil
}

// journalCreate records a new attempt. Journal failures never change the
// outcome of a publication, so the returned value is always usable.
func (s *PostService) journalCreate(ctx context.Context, publication *model.Publication) *model.Publication {
	if s.journal == nil {
		stamp(publication)
		return publication
	}
	created, err := s.journal.Create(ctx, publication)
	if err != nil {
		s.log.Warn("Failed to journal publication",
			slog.String("content_ref", publication.ContentRef),
			slog.String("error", err.Error()))
		stamp(publication)
		return publication
	}
	return created
}

func (s *PostService) journalUpdate(ctx context.Context, publication *model.Publication, status model.PublicationStatus, hash string, cause error) {
	publication.Status = status
	publication.UpdatedAt = time.Now()
	update := &model.PublicationStatusUpdate{Status: status}
	if hash != "" {
		publication.TxHash = hash
		update.TxHash = &hash
	}
	if cause != nil {
		msg := cause.Error()
		publication.Error = msg
		update.Error = &msg
	}

	if s.journal == nil || publication.ID == 0 {
		return
	}
	// The caller's context may already be cancelled when a wait fails.
	if _, err := s.journal.UpdateStatus(context.WithoutCancel(ctx), publication.ID, update); err != nil {
		s.log.Warn("Failed to update publication status",
			slog.Int64("publication_id", publication.ID),
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
	}
}

func (s *PostService) recordOperation(operation string, err error) {
	s.metrics.IncrementPostOperations(operation, err == nil)
}

func stamp(publication *model.Publication) {
	now := time.Now()
	publication.CreatedAt = now
	publication.UpdatedAt = now
}

func terminalStatus(err error) model.PublicationStatus {
	switch {
	case errors.Is(err, custom_errors.ErrTransactionRejected):
		return model.PublicationStatusRejected
	case errors.Is(err, custom_errors.ErrTransactionReverted):
		return model.PublicationStatusReverted
	default:
		return model.PublicationStatusFailed
	}
}

func asContentFetchError(err error) error {
	if errors.Is(err, custom_errors.ErrContentFetch) {
		return err
	}
	return fmt.Errorf("%w: %v", custom_errors.ErrContentFetch, err)
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", custom_errors.ErrInvalidInput)
	}
	if len(title) > maxTitleLength {
		return fmt.Errorf("%w: title exceeds %d bytes", custom_errors.ErrInvalidInput, maxTitleLength)
	}
	return nil
}

func parsePostID(id string) (*big.Int, error) {
	postID, ok := new(big.Int).SetString(id, 10)
	if !ok || postID.Sign() < 0 {
		return nil, fmt.Errorf("%w: post id %q is not a non-negative integer", custom_errors.ErrInvalidInput, id)
	}
	return postID, nil
}
