package ledger

import (
	"context"
	"math/big"

	model "rollup-blog-service/internal/domain/models"
)

// Transaction is a submitted ledger write.
//
//go:generate mockery --name Transaction --dir . --output ../../../../../mocks/ledger --outpkg mocks --filename Transaction.go
type Transaction interface {
	Hash() string
	// Wait blocks until the transaction is included in a block. It returns
	// ErrTransactionReverted when the receipt reports failure.
	Wait(ctx context.Context) error
}

//go:generate mockery --name Client --dir . --output ../../../../../mocks/ledger --outpkg mocks --filename Client.go
type Client interface {
	FetchPosts(ctx context.Context) ([]*model.LedgerPost, error)
	CreatePost(ctx context.Context, title, contentRef string) (Transaction, error)
	UpdatePost(ctx context.Context, id *big.Int, title, contentRef string, published bool) (Transaction, error)
	Ping(ctx context.Context) error
}
