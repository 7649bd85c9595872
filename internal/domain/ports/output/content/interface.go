package content

import "context"

// Store is a content-addressed object store. Add returns the identifier the
// content can later be fetched by.
//
//go:generate mockery --name Store --dir . --output ../../../../../mocks/content --outpkg mocks --filename Store.go
type Store interface {
	Add(ctx context.Context, data []byte) (string, error)
	Fetch(ctx context.Context, ref string) ([]byte, error)
	Ping(ctx context.Context) error
}
