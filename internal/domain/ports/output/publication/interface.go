package publication_repository

import (
	"context"

	model "rollup-blog-service/internal/domain/models"
)

//go:generate mockery --name Repository --dir . --output ../../../../../mocks/publication --outpkg mocks --filename PublicationRepository.go
type Repository interface {
	Create(ctx context.Context, publication *model.Publication) (*model.Publication, error)
	UpdateStatus(ctx context.Context, id int64, update *model.PublicationStatusUpdate) (*model.Publication, error)
	GetByID(ctx context.Context, id int64) (*model.Publication, error)
	List(ctx context.Context, filters model.PublicationFilters) ([]*model.Publication, int, error)
}
