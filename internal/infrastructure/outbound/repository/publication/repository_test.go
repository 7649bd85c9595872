package publication_repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollup-blog-service/internal/domain/custom_errors"
	model "rollup-blog-service/internal/domain/models"
	publication_repository "rollup-blog-service/internal/domain/ports/output/publication"
	"rollup-blog-service/internal/infrastructure/logger"
	"rollup-blog-service/internal/infrastructure/outbound/repository/publication/memory"
)

func setupPublicationTest(t *testing.T) publication_repository.Repository {
	t.Helper()
	return memory.NewPublicationRepository(logger.New("test"))
}

func createPublication(t *testing.T, repo publication_repository.Repository, status model.PublicationStatus) *model.Publication {
	t.Helper()
	created, err := repo.Create(context.Background(), &model.Publication{
		Title:      "Hello",
		ContentRef: "cidA",
		Operation:  model.PublicationOperationCreate,
		Status:     status,
	})
	require.NoError(t, err)
	return created
}

func TestPublicationRepository_Create(t *testing.T) {
	repo := setupPublicationTest(t)

	first := createPublication(t, repo, model.PublicationStatusUploaded)
	second := createPublication(t, repo, model.PublicationStatusUploaded)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, "cidA", first.ContentRef)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestPublicationRepository_UpdateStatus(t *testing.T) {
	repo := setupPublicationTest(t)
	created := createPublication(t, repo, model.PublicationStatusUploaded)

	hash := "0xabc"
	tests := []struct {
		name    string
		id      int64
		update  *model.PublicationStatusUpdate
		wantErr error
	}{
		{
			name:   "submitted with hash",
			id:     created.ID,
			update: &model.PublicationStatusUpdate{Status: model.PublicationStatusSubmitted, TxHash: &hash},
		},
		{
			name:    "unknown publication",
			id:      999,
			update:  &model.PublicationStatusUpdate{Status: model.PublicationStatusConfirmed},
			wantErr: custom_errors.ErrPublicationNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.UpdateStatus(context.Background(), tt.id, tt.update)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.update.Status, got.Status)
			assert.Equal(t, hash, got.TxHash)
		})
	}

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PublicationStatusSubmitted, stored.Status)
}

func TestPublicationRepository_List(t *testing.T) {
	repo := setupPublicationTest(t)
	ctx := context.Background()

	createPublication(t, repo, model.PublicationStatusConfirmed)
	createPublication(t, repo, model.PublicationStatusRejected)
	createPublication(t, repo, model.PublicationStatusUploaded)
	createPublication(t, repo, model.PublicationStatusSubmitted)

	all, total, err := repo.List(ctx, model.PublicationFilters{})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, all, 4)
	assert.Equal(t, int64(4), all[0].ID, "newest first")

	orphaned, total, err := repo.List(ctx, model.PublicationFilters{OrphanedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, p := range orphaned {
		assert.True(t, p.Status.Orphaned())
	}

	rejected := model.PublicationStatusRejected
	byStatus, _, err := repo.List(ctx, model.PublicationFilters{Status: &rejected})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, int64(2), byStatus[0].ID)

	limit, offset := 2, 1
	page, total, err := repo.List(ctx, model.PublicationFilters{Limit: &limit, Offset: &offset})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, page, 2)
	assert.Equal(t, int64(3), page[0].ID)

	far := 10
	empty, _, err := repo.List(ctx, model.PublicationFilters{Offset: &far})
	require.NoError(t, err)
	assert.Empty(t, empty)
}
