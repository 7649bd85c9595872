package cache

import "context"

//go:generate mockery --name BodyCache --dir . --output ../../../../../mocks/cache --outpkg mocks --filename BodyCache.go
type BodyCache interface {
	GetBody(ctx context.Context, ref string) ([]byte, error)
	SetBody(ctx context.Context, ref string, body []byte) error
}
