package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"rollup-blog-service/internal/domain/custom_errors"
	model "rollup-blog-service/internal/domain/models"
	ports "rollup-blog-service/internal/domain/ports/output"
	"rollup-blog-service/internal/domain/ports/output/ledger"
)

// Ledger is an in-process stand-in for the blog contract. Writes are applied
// when their transaction is waited on, the way a block includes them.
type Ledger struct {
	log   ports.Logger
	mu    sync.RWMutex
	posts []*model.LedgerPost
	index map[string]int
	nonce uint64

	unavailable bool
	noSigner    bool
	rejectNext  bool
	revertNext  bool
}

func NewLedger(log ports.Logger) *Ledger {
	return &Ledger{
		log:   log,
		index: make(map[string]int),
	}
}

func (l *Ledger) SimulateUnavailable(unavailable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unavailable = unavailable
}

func (l *Ledger) SimulateNoSigner(noSigner bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.noSigner = noSigner
}

// SimulateRejectNext makes the next write fail as if the signer declined it.
func (l *Ledger) SimulateRejectNext() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rejectNext = true
}

// SimulateRevertNext makes the next write be included with a failed status.
func (l *Ledger) SimulateRevertNext() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revertNext = true
}

func (l *Ledger) FetchPosts(ctx context.Context) ([]*model.LedgerPost, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.unavailable {
		return nil, custom_errors.ErrLedgerUnavailable
	}

	result := make([]*model.LedgerPost, 0, len(l.posts))
	for _, p := range l.posts {
		postCopy := *p
		postCopy.ID = new(big.Int).Set(p.ID)
		result = append(result, &postCopy)
	}
	return result, nil
}

func (l *Ledger) CreatePost(ctx context.Context, title, contentRef string) (ledger.Transaction, error) {
	return l.submit(func() error {
		id := big.NewInt(int64(len(l.posts) + 1))
		l.posts = append(l.posts, &model.LedgerPost{
			ID:        id,
			Title:     title,
			Content:   contentRef,
			Published: true,
		})
		l.index[id.String()] = len(l.posts) - 1
		l.log.Debug("Memory ledger created post", slog.String("id", id.String()))
		return nil
	})
}

func (l *Ledger) UpdatePost(ctx context.Context, id *big.Int, title, contentRef string, published bool) (ledger.Transaction, error) {
	if id == nil {
		return nil, fmt.Errorf("%w: post id is required", custom_errors.ErrInvalidInput)
	}
	return l.submit(func() error {
		pos, ok := l.index[id.String()]
		if !ok {
			return fmt.Errorf("%w: post %s does not exist", custom_errors.ErrTransactionReverted, id)
		}
		post := l.posts[pos]
		post.Title = title
		post.Content = contentRef
		post.Published = published
		return nil
	})
}

func (l *Ledger) Ping(ctx context.Context) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.unavailable {
		return custom_errors.ErrLedgerUnavailable
	}
	return nil
}

func (l *Ledger) submit(apply func() error) (ledger.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.unavailable:
		return nil, custom_errors.ErrLedgerUnavailable
	case l.noSigner:
		return nil, custom_errors.ErrSignerUnavailable
	case l.rejectNext:
		l.rejectNext = false
		return nil, fmt.Errorf("%w: user denied transaction signature", custom_errors.ErrTransactionRejected)
	}

	l.nonce++
	sum := sha256.Sum256([]byte(fmt.Sprintf("memory-tx-%d", l.nonce)))
	tx := &transaction{
		ledger: l,
		hash:   "0x" + hex.EncodeToString(sum[:]),
		apply:  apply,
		revert: l.revertNext,
	}
	l.revertNext = false
	return tx, nil
}

type transaction struct {
	ledger *Ledger
	hash   string
	apply  func() error
	revert bool

	once sync.Once
	err  error
}

func (t *transaction) Hash() string {
	return t.hash
}

func (t *transaction) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: waiting for %s: %v", custom_errors.ErrLedgerCall, t.hash, err)
	}
	t.once.Do(func() {
		if t.revert {
			t.err = fmt.Errorf("%w: %s", custom_errors.ErrTransactionReverted, t.hash)
			return
		}
		t.ledger.mu.Lock()
		defer t.ledger.mu.Unlock()
		t.err = t.apply()
	})
	return t.err
}
