package post_service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rollup-blog-service/internal/domain/custom_errors"
	model "rollup-blog-service/internal/domain/models"
	"rollup-blog-service/internal/infrastructure/logger"
	content_memory "rollup-blog-service/internal/infrastructure/outbound/content/memory"
	ledger_memory "rollup-blog-service/internal/infrastructure/outbound/ledger/memory"
	prometheus_metrics "rollup-blog-service/internal/infrastructure/outbound/metrics/prometheus"
	publication_memory "rollup-blog-service/internal/infrastructure/outbound/repository/publication/memory"
	content_mock "rollup-blog-service/mocks/content"
	ledger_mock "rollup-blog-service/mocks/ledger"
	publication_mock "rollup-blog-service/mocks/publication"
)

type memoryFixture struct {
	service *PostService
	ledger  *ledger_memory.Ledger
	store   *content_memory.Store
	journal *publication_memory.PublicationRepository
}

func setupMemoryService(t *testing.T) *memoryFixture {
	t.Helper()
	log := logger.New("test")
	f := &memoryFixture{
		ledger:  ledger_memory.NewLedger(log),
		store:   content_memory.NewStore(log),
		journal: publication_memory.NewPublicationRepository(log),
	}
	f.service = NewPostService(f.ledger, f.store, f.journal, log, prometheus_metrics.NewPrometheusMetricsProvider(), 4)
	return f
}

func newMockedService(t *testing.T, fetchConcurrency int) (*PostService, *ledger_mock.Client, *content_mock.Store) {
	t.Helper()
	ledgerClient := ledger_mock.NewClient(t)
	store := content_mock.NewStore(t)
	service := NewPostService(ledgerClient, store, nil, logger.New("test"), prometheus_metrics.NewPrometheusMetricsProvider(), fetchConcurrency)
	return service, ledgerClient, store
}

func strPtr(s string) *string { return &s }

func TestPostService_ListPosts(t *testing.T) {
	records := []*model.LedgerPost{
		{ID: big.NewInt(1), Title: "Hello", Content: "cidA", Published: true},
		{ID: big.NewInt(2), Title: "Draft", Content: "cidB", Published: false},
	}

	tests := []struct {
		name        string
		opts        *model.ListOptions
		mocks       func(ledgerClient *ledger_mock.Client, store *content_mock.Store)
		want        []*model.Post
		wantErrType error
	}{
		{
			name: "Success",
			opts: nil,
			mocks: func(ledgerClient *ledger_mock.Client, store *content_mock.Store) {
				ledgerClient.On("FetchPosts", mock.Anything).Return(records[:1], nil)
				store.On("Fetch", mock.Anything, "cidA").Return([]byte("World"), nil)
			},
			want: []*model.Post{
				{ID: "1", Title: "Hello", ContentRef: "cidA", Published: true, Body: strPtr("World")},
			},
		},
		{
			name: "Empty ledger",
			mocks: func(ledgerClient *ledger_mock.Client, store *content_mock.Store) {
				ledgerClient.On("FetchPosts", mock.Anything).Return([]*model.LedgerPost{}, nil)
			},
			want: []*model.Post{},
		},
		{
			name: "Ledger unavailable",
			mocks: func(ledgerClient *ledger_mock.Client, store *content_mock.Store) {
				ledgerClient.On("FetchPosts", mock.Anything).Return(nil, custom_errors.ErrLedgerUnavailable)
			},
			wantErrType: custom_errors.ErrLedgerUnavailable,
		},
		{
			name: "Ledger call failure",
			mocks: func(ledgerClient *ledger_mock.Client, store *content_mock.Store) {
				ledgerClient.On("FetchPosts", mock.Anything).Return(nil, fmt.Errorf("%w: execution reverted", custom_errors.ErrLedgerCall))
			},
			wantErrType: custom_errors.ErrLedgerCall,
		},
		{
			name: "One body fails in strict mode",
			opts: &model.ListOptions{},
			mocks: func(ledgerClient *ledger_mock.Client, store *content_mock.Store) {
				ledgerClient.On("FetchPosts", mock.Anything).Return(records, nil)
				store.On("Fetch", mock.Anything, "cidA").Return([]byte("World"), nil).Maybe()
				store.On("Fetch", mock.Anything, "cidB").Return(nil, fmt.Errorf("%w: gateway timeout", custom_errors.ErrContentFetch))
			},
			wantErrType: custom_errors.ErrContentFetch,
		},
		{
			name: "Untyped store error is reported as content fetch",
			mocks: func(ledgerClient *ledger_mock.Client, store *content_mock.Store) {
				ledgerClient.On("FetchPosts", mock.Anything).Return(records[:1], nil)
				store.On("Fetch", mock.Anything, "cidA").Return(nil, errors.New("connection reset"))
			},
			wantErrType: custom_errors.ErrContentFetch,
		},
		{
			name: "Partial mode keeps failed posts",
			opts: &model.ListOptions{AllowPartial: true},
			mocks: func(ledgerClient *ledger_mock.Client, store *content_mock.Store) {
				ledgerClient.On("FetchPosts", mock.Anything).Return(records, nil)
				store.On("Fetch", mock.Anything, "cidA").Return([]byte("World"), nil)
				store.On("Fetch", mock.Anything, "cidB").Return(nil, custom_errors.ErrContentFetch)
			},
			want: []*model.Post{
				{ID: "1", Title: "Hello", ContentRef: "cidA", Published: true, Body: strPtr("World")},
				{ID: "2", Title: "Draft", ContentRef: "cidB", Published: false, BodyError: custom_errors.ErrContentFetch.Error()},
			},
		},
		{
			name: "Published only",
			opts: &model.ListOptions{PublishedOnly: true},
			mocks: func(ledgerClient *ledger_mock.Client, store *content_mock.Store) {
				ledgerClient.On("FetchPosts", mock.Anything).Return(records, nil)
				store.On("Fetch", mock.Anything, "cidA").Return([]byte("World"), nil)
			},
			want: []*model.Post{
				{ID: "1", Title: "Hello", ContentRef: "cidA", Published: true, Body: strPtr("World")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, ledgerClient, store := newMockedService(t, 0)
			tt.mocks(ledgerClient, store)

			got, err := service.ListPosts(context.Background(), tt.opts)

			if tt.wantErrType != nil {
				assert.ErrorIs(t, err, tt.wantErrType)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPostService_ListPosts_PreservesLedgerOrder(t *testing.T) {
	service, ledgerClient, store := newMockedService(t, 3)

	const n = 20
	records := make([]*model.LedgerPost, n)
	for i := range records {
		records[i] = &model.LedgerPost{ID: big.NewInt(int64(i + 1)), Title: fmt.Sprintf("post-%d", i+1), Content: fmt.Sprintf("cid-%d", i+1), Published: true}
	}
	ledgerClient.On("FetchPosts", mock.Anything).Return(records, nil)
	// Earlier posts resolve last.
	store.On("Fetch", mock.Anything, mock.AnythingOfType("string")).Return(func(ctx context.Context, ref string) ([]byte, error) {
		var idx int
		_, _ = fmt.Sscanf(ref, "cid-%d", &idx)
		time.Sleep(time.Duration(n-idx) * time.Millisecond)
		return []byte("body-" + ref), nil
	})

	got, err := service.ListPosts(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, got, n)
	for i, post := range got {
		assert.Equal(t, records[i].ID.String(), post.ID)
		assert.Equal(t, records[i].Title, post.Title)
		assert.Equal(t, records[i].Published, post.Published)
		require.NotNil(t, post.Body)
		assert.Equal(t, "body-"+records[i].Content, *post.Body)
	}
}

type countingStore struct {
	content_mock.Store
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (c *countingStore) Fetch(ctx context.Context, ref string) ([]byte, error) {
	current := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		peak := c.peak.Load()
		if current <= peak || c.peak.CompareAndSwap(peak, current) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return []byte(ref), nil
}

func TestPostService_ListPosts_BoundedConcurrency(t *testing.T) {
	ledgerClient := ledger_mock.NewClient(t)
	store := &countingStore{}
	service := NewPostService(ledgerClient, store, nil, logger.New("test"), prometheus_metrics.NewPrometheusMetricsProvider(), 2)

	records := make([]*model.LedgerPost, 12)
	for i := range records {
		records[i] = &model.LedgerPost{ID: big.NewInt(int64(i)), Title: "t", Content: fmt.Sprintf("cid-%d", i)}
	}
	ledgerClient.On("FetchPosts", mock.Anything).Return(records, nil)

	got, err := service.ListPosts(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, got, 12)
	assert.LessOrEqual(t, store.peak.Load(), int32(2))
	assert.GreaterOrEqual(t, store.peak.Load(), int32(1))
}

func TestPostService_GetPost(t *testing.T) {
	records := []*model.LedgerPost{
		{ID: big.NewInt(1), Title: "Hello", Content: "cidA", Published: true},
		{ID: big.NewInt(7), Title: "Other", Content: "cidB", Published: true},
	}

	tests := []struct {
		name        string
		id          string
		mocks       func(ledgerClient *ledger_mock.Client, store *content_mock.Store)
		want        *model.Post
		wantErrType error
	}{
		{
			name: "Success",
			id:   "7",
			mocks: func(ledgerClient *ledger_mock.Client, store *content_mock.Store) {
				ledgerClient.On("FetchPosts", mock.Anything).Return(records, nil)
				store.On("Fetch", mock.Anything, "cidB").Return([]byte("Body"), nil)
			},
			want: &model.Post{ID: "7", Title: "Other", ContentRef: "cidB", Published: true, Body: strPtr("Body")},
		},
		{
			name: "Leading zeros match the same post",
			id:   "007",
			mocks: func(ledgerClient *ledger_mock.Client, store *content_mock.Store) {
				ledgerClient.On("FetchPosts", mock.Anything).Return(records, nil)
				store.On("Fetch", mock.Anything, "cidB").Return([]byte("Body"), nil)
			},
			want: &model.Post{ID: "7", Title: "Other", ContentRef: "cidB", Published: true, Body: strPtr("Body")},
		},
		{
			name: "Not found",
			id:   "3",
			mocks: func(ledgerClient *ledger_mock.Client, store *content_mock.Store) {
				ledgerClient.On("FetchPosts", mock.Anything).Return(records, nil)
			},
			wantErrType: custom_errors.ErrPostNotFound,
		},
		{
			name:        "Invalid id",
			id:          "abc",
			mocks:       func(ledgerClient *ledger_mock.Client, store *content_mock.Store) {},
			wantErrType: custom_errors.ErrInvalidInput,
		},
		{
			name: "Body fetch fails",
			id:   "1",
			mocks: func(ledgerClient *ledger_mock.Client, store *content_mock.Store) {
				ledgerClient.On("FetchPosts", mock.Anything).Return(records, nil)
				store.On("Fetch", mock.Anything, "cidA").Return(nil, custom_errors.ErrContentFetch)
			},
			wantErrType: custom_errors.ErrContentFetch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, ledgerClient, store := newMockedService(t, 0)
			tt.mocks(ledgerClient, store)

			got, err := service.GetPost(context.Background(), tt.id)
			if tt.wantErrType != nil {
				assert.ErrorIs(t, err, tt.wantErrType)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPostService_PublishPost_UploadPrecedesWrite(t *testing.T) {
	service, ledgerClient, store := newMockedService(t, 0)
	tx := ledger_mock.NewTransaction(t)

	var (
		mu    sync.Mutex
		calls []string
	)
	record := func(name string) func(mock.Arguments) {
		return func(mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, name)
		}
	}

	store.On("Add", mock.Anything, []byte("World")).Run(record("upload")).Return("cidA", nil)
	ledgerClient.On("CreatePost", mock.Anything, "Hello", "cidA").Run(record("write")).Return(tx, nil)
	tx.On("Hash").Return("0xabc")
	tx.On("Wait", mock.Anything).Run(record("wait")).Return(nil)

	publication, err := service.PublishPost(context.Background(), &model.CreatePostDTO{Title: "Hello", Body: "World"})
	require.NoError(t, err)
	assert.Equal(t, []string{"upload", "write", "wait"}, calls)
	assert.Equal(t, model.PublicationStatusConfirmed, publication.Status)
	assert.Equal(t, "cidA", publication.ContentRef)
	assert.Equal(t, "0xabc", publication.TxHash)
	assert.Equal(t, model.PublicationOperationCreate, publication.Operation)
}

func TestPostService_PublishPost_Failures(t *testing.T) {
	tests := []struct {
		name        string
		post        *model.CreatePostDTO
		mocks       func(ledgerClient *ledger_mock.Client, store *content_mock.Store, tx *ledger_mock.Transaction)
		wantErrType error
	}{
		{
			name:        "Missing title",
			post:        &model.CreatePostDTO{Title: "  ", Body: "World"},
			mocks:       func(*ledger_mock.Client, *content_mock.Store, *ledger_mock.Transaction) {},
			wantErrType: custom_errors.ErrInvalidInput,
		},
		{
			name:        "Nil post",
			mocks:       func(*ledger_mock.Client, *content_mock.Store, *ledger_mock.Transaction) {},
			wantErrType: custom_errors.ErrInvalidInput,
		},
		{
			name: "Upload fails, no ledger write",
			post: &model.CreatePostDTO{Title: "Hello", Body: "World"},
			mocks: func(ledgerClient *ledger_mock.Client, store *content_mock.Store, tx *ledger_mock.Transaction) {
				store.On("Add", mock.Anything, []byte("World")).Return("", custom_errors.ErrStoreUpload)
			},
			wantErrType: custom_errors.ErrStoreUpload,
		},
		{
			name: "No signer",
			post: &model.CreatePostDTO{Title: "Hello", Body: "World"},
			mocks: func(ledgerClient *ledger_mock.Client, store *content_mock.Store, tx *ledger_mock.Transaction) {
				store.On("Add", mock.Anything, []byte("World")).Return("cidA", nil)
				ledgerClient.On("CreatePost", mock.Anything, "Hello", "cidA").Return(nil, custom_errors.ErrSignerUnavailable)
			},
			wantErrType: custom_errors.ErrSignerUnavailable,
		},
		{
			name: "Rejected",
			post: &model.CreatePostDTO{Title: "Hello", Body: "World"},
			mocks: func(ledgerClient *ledger_mock.Client, store *content_mock.Store, tx *ledger_mock.Transaction) {
				store.On("Add", mock.Anything, []byte("World")).Return("cidA", nil)
				ledgerClient.On("CreatePost", mock.Anything, "Hello", "cidA").Return(nil, custom_errors.ErrTransactionRejected)
			},
			wantErrType: custom_errors.ErrTransactionRejected,
		},
		{
			name: "Reverted on inclusion",
			post: &model.CreatePostDTO{Title: "Hello", Body: "World"},
			mocks: func(ledgerClient *ledger_mock.Client, store *content_mock.Store, tx *ledger_mock.Transaction) {
				store.On("Add", mock.Anything, []byte("World")).Return("cidA", nil)
				ledgerClient.On("CreatePost", mock.Anything, "Hello", "cidA").Return(tx, nil)
				tx.On("Hash").Return("0xabc")
				tx.On("Wait", mock.Anything).Return(custom_errors.ErrTransactionReverted)
			},
			wantErrType: custom_errors.ErrTransactionReverted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, ledgerClient, store := newMockedService(t, 0)
			tx := ledger_mock.NewTransaction(t)
			tt.mocks(ledgerClient, store, tx)

			got, err := service.PublishPost(context.Background(), tt.post)
			assert.ErrorIs(t, err, tt.wantErrType)
			assert.Nil(t, got)
			if errors.Is(tt.wantErrType, custom_errors.ErrStoreUpload) || errors.Is(tt.wantErrType, custom_errors.ErrInvalidInput) {
				ledgerClient.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestPostService_PublishPost_JournalFailureIsIgnored(t *testing.T) {
	ledgerClient := ledger_mock.NewClient(t)
	store := content_mock.NewStore(t)
	journal := publication_mock.NewRepository(t)
	tx := ledger_mock.NewTransaction(t)
	service := NewPostService(ledgerClient, store, journal, logger.New("test"), prometheus_metrics.NewPrometheusMetricsProvider(), 0)

	store.On("Add", mock.Anything, []byte("World")).Return("cidA", nil)
	journal.On("Create", mock.Anything, mock.AnythingOfType("*model.Publication")).Return(nil, custom_errors.ErrDatabaseQuery)
	ledgerClient.On("CreatePost", mock.Anything, "Hello", "cidA").Return(tx, nil)
	tx.On("Hash").Return("0xabc")
	tx.On("Wait", mock.Anything).Return(nil)

	publication, err := service.PublishPost(context.Background(), &model.CreatePostDTO{Title: "Hello", Body: "World"})
	require.NoError(t, err)
	assert.Equal(t, model.PublicationStatusConfirmed, publication.Status)
	journal.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestPostService_PublishPost_Memory(t *testing.T) {
	ctx := context.Background()

	t.Run("Published post is listed", func(t *testing.T) {
		f := setupMemoryService(t)

		publication, err := f.service.PublishPost(ctx, &model.CreatePostDTO{Title: "Hello", Body: "World"})
		require.NoError(t, err)
		assert.Equal(t, model.PublicationStatusConfirmed, publication.Status)

		posts, err := f.service.ListPosts(ctx, nil)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "1", posts[0].ID)
		assert.Equal(t, "Hello", posts[0].Title)
		assert.Equal(t, publication.ContentRef, posts[0].ContentRef)
		require.NotNil(t, posts[0].Body)
		assert.Equal(t, "World", *posts[0].Body)
	})

	t.Run("Rejected write leaves an orphaned upload", func(t *testing.T) {
		f := setupMemoryService(t)
		f.ledger.SimulateRejectNext()

		_, err := f.service.PublishPost(ctx, &model.CreatePostDTO{Title: "Hello", Body: "World"})
		require.ErrorIs(t, err, custom_errors.ErrTransactionRejected)

		ref, err := content_memory.Ref([]byte("World"))
		require.NoError(t, err)
		assert.True(t, f.store.Has(ref))

		posts, err := f.service.ListPosts(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, posts)

		orphaned, total, err := f.service.ListPublications(ctx, &model.PublicationFilters{OrphanedOnly: true})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, orphaned, 1)
		assert.Equal(t, model.PublicationStatusRejected, orphaned[0].Status)
		assert.Equal(t, ref, orphaned[0].ContentRef)
		assert.NotEmpty(t, orphaned[0].Error)
	})

	t.Run("Reverted write is journaled with its hash", func(t *testing.T) {
		f := setupMemoryService(t)
		f.ledger.SimulateRevertNext()

		_, err := f.service.PublishPost(ctx, &model.CreatePostDTO{Title: "Hello", Body: "World"})
		require.ErrorIs(t, err, custom_errors.ErrTransactionReverted)

		publications, _, err := f.service.ListPublications(ctx, nil)
		require.NoError(t, err)
		require.Len(t, publications, 1)
		assert.Equal(t, model.PublicationStatusReverted, publications[0].Status)
		assert.NotEmpty(t, publications[0].TxHash)
		assert.True(t, publications[0].Status.Orphaned())
	})

	t.Run("Missing signer fails after upload", func(t *testing.T) {
		f := setupMemoryService(t)
		f.ledger.SimulateNoSigner(true)

		_, err := f.service.PublishPost(ctx, &model.CreatePostDTO{Title: "Hello", Body: "World"})
		require.ErrorIs(t, err, custom_errors.ErrSignerUnavailable)

		failed := model.PublicationStatusFailed
		publications, _, err := f.service.ListPublications(ctx, &model.PublicationFilters{Status: &failed})
		require.NoError(t, err)
		assert.Len(t, publications, 1)
	})
}

func TestPostService_EditPost(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := setupMemoryService(t)
		_, err := f.service.PublishPost(ctx, &model.CreatePostDTO{Title: "Hello", Body: "World"})
		require.NoError(t, err)

		publication, err := f.service.EditPost(ctx, "1", &model.UpdatePostDTO{Title: "Hello again", Body: "New world"})
		require.NoError(t, err)
		assert.Equal(t, model.PublicationOperationUpdate, publication.Operation)
		assert.Equal(t, "1", publication.PostID)

		post, err := f.service.GetPost(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "Hello again", post.Title)
		assert.Equal(t, publication.ContentRef, post.ContentRef)
		assert.Equal(t, "New world", *post.Body)
		assert.True(t, post.Published)
	})

	t.Run("Unknown post reverts", func(t *testing.T) {
		f := setupMemoryService(t)
		_, err := f.service.EditPost(ctx, "42", &model.UpdatePostDTO{Title: "x", Body: "y"})
		assert.ErrorIs(t, err, custom_errors.ErrTransactionReverted)
	})

	t.Run("Invalid id", func(t *testing.T) {
		service, _, _ := newMockedService(t, 0)
		_, err := service.EditPost(ctx, "-1", &model.UpdatePostDTO{Title: "x", Body: "y"})
		assert.ErrorIs(t, err, custom_errors.ErrInvalidInput)
	})

	t.Run("Edit unsupported", func(t *testing.T) {
		service, ledgerClient, store := newMockedService(t, 0)
		store.On("Add", mock.Anything, []byte("y")).Return("cidB", nil)
		ledgerClient.On("UpdatePost", mock.Anything, big.NewInt(3), "x", "cidB", true).Return(nil, custom_errors.ErrEditUnsupported)

		_, err := service.EditPost(ctx, "3", &model.UpdatePostDTO{Title: "x", Body: "y"})
		assert.ErrorIs(t, err, custom_errors.ErrEditUnsupported)
	})
}

func TestPostService_ListPublications_InvalidStatus(t *testing.T) {
	f := setupMemoryService(t)
	status := model.PublicationStatus("bogus")

	_, _, err := f.service.ListPublications(context.Background(), &model.PublicationFilters{Status: &status})
	assert.ErrorIs(t, err, custom_errors.ErrInvalidInput)
}
