package post_service

import (
	"context"

	model "rollup-blog-service/internal/domain/models"
)

//go:generate mockery --name Service --dir . --output ../../../../../mocks/post --outpkg mocks --filename PostService.go
type Service interface {
	ListPosts(ctx context.Context, opts *model.ListOptions) ([]*model.Post, error)
	GetPost(ctx context.Context, id string) (*model.Post, error)
	PublishPost(ctx context.Context, post *model.CreatePostDTO) (*model.Publication, error)
	EditPost(ctx context.Context, id string, post *model.UpdatePostDTO) (*model.Publication, error)
	ListPublications(ctx context.Context, filters *model.PublicationFilters) ([]*model.Publication, int, error)
}
