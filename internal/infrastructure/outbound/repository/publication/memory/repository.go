package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"rollup-blog-service/internal/domain/custom_errors"
	model "rollup-blog-service/internal/domain/models"
	ports "rollup-blog-service/internal/domain/ports/output"
)

type PublicationRepository struct {
	log          ports.Logger
	mu           sync.RWMutex
	publications map[int64]*model.Publication
	nextID       int64
}

func NewPublicationRepository(log ports.Logger) *PublicationRepository {
	return &PublicationRepository{
		log:          log,
		publications: make(map[int64]*model.Publication),
		nextID:       1,
	}
}

func (r *PublicationRepository) Create(ctx context.Context, publication *model.Publication) (*model.Publication, error) {
	r.log.Debug("Creating publication (memory impl)",
		slog.String("operation", string(publication.Operation)),
		slog.String("content_ref", publication.ContentRef))

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	created := *publication
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.publications[created.ID] = &created

	result := created
	return &result, nil
}

func (r *PublicationRepository) UpdateStatus(ctx context.Context, id int64, update *model.PublicationStatusUpdate) (*model.Publication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	publication, exists := r.publications[id]
	if !exists {
		return nil, custom_errors.ErrPublicationNotFound
	}

	publication.Status = update.Status
	if update.TxHash != nil {
		publication.TxHash = *update.TxHash
	}
	if update.Error != nil {
		publication.Error = *update.Error
	}
	publication.UpdatedAt = time.Now()

	result := *publication
	return &result, nil
}

func (r *PublicationRepository) GetByID(ctx context.Context, id int64) (*model.Publication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	publication, exists := r.publications[id]
	if !exists {
		r.log.Debug("Publication not found by id", slog.Int64("id", id))
		return nil, custom_errors.ErrPublicationNotFound
	}

	result := *publication
	return &result, nil
}

func (r *PublicationRepository) List(ctx context.Context, filters model.PublicationFilters) ([]*model.Publication, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*model.Publication, 0, len(r.publications))
	for _, publication := range r.publications {
		if filters.Status != nil && publication.Status != *filters.Status {
			continue
		}
		if filters.OrphanedOnly && !publication.Status.Orphaned() {
			continue
		}
		publicationCopy := *publication
		matched = append(matched, &publicationCopy)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	offset := 0
	if filters.Offset != nil && *filters.Offset > 0 {
		offset = *filters.Offset
	}
	if offset >= total {
		return []*model.Publication{}, total, nil
	}
	end := total
	if filters.Limit != nil && *filters.Limit >= 0 && offset+*filters.Limit < end {
		end = offset + *filters.Limit
	}

	return matched[offset:end], total, nil
}
