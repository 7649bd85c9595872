package ethereum

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"rollup-blog-service/internal/domain/custom_errors"
	model "rollup-blog-service/internal/domain/models"
	ports "rollup-blog-service/internal/domain/ports/output"
	"rollup-blog-service/internal/domain/ports/output/ledger"
)

//go:embed blog.abi.json
var blogABI []byte

const (
	methodFetchPosts = "fetchPosts"
	methodCreatePost = "createPost"
	methodUpdatePost = "updatePost"
)

// Backend is the part of an RPC client the ledger adapter uses.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

type Options struct {
	ContractAddress string
	ChainID         int64
	PrivateKey      string
	ABIPath         string
	CallTimeout     time.Duration
}

// blogPost mirrors the Blog.Post tuple returned by fetchPosts.
type blogPost struct {
	Id        *big.Int
	Title     string
	Content   string
	Published bool
}

type Client struct {
	backend     Backend
	contract    *bind.BoundContract
	abi         abi.ABI
	address     common.Address
	chainID     *big.Int
	signer      *bind.TransactOpts
	callTimeout time.Duration
	log         ports.Logger
	metrics     ports.MetricsProvider
}

// NewClient binds the blog contract. A nil backend yields a client whose
// every call fails with ErrLedgerUnavailable; an empty private key yields a
// read-only client.
func NewClient(backend Backend, opts Options, log ports.Logger, metrics ports.MetricsProvider) (*Client, error) {
	parsed, err := loadABI(opts.ABIPath)
	if err != nil {
		return nil, err
	}

	if !common.IsHexAddress(opts.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", opts.ContractAddress)
	}
	address := common.HexToAddress(opts.ContractAddress)
	chainID := big.NewInt(opts.ChainID)

	c := &Client{
		backend:     backend,
		abi:         parsed,
		address:     address,
		chainID:     chainID,
		callTimeout: opts.CallTimeout,
		log:         log,
		metrics:     metrics,
	}
	if backend != nil {
		c.contract = bind.NewBoundContract(address, parsed, backend, backend, backend)
	}

	if opts.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(opts.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid ledger private key: %w", err)
		}
		signer, err := bind.NewKeyedTransactorWithChainID(key, chainID)
		if err != nil {
			return nil, fmt.Errorf("failed to create transactor: %w", err)
		}
		c.signer = signer
		log.Info("Ledger signer configured", slog.String("account", signer.From.Hex()))
	} else {
		log.Warn("No ledger private key configured, writes are disabled")
	}

	return c, nil
}

func loadABI(path string) (abi.ABI, error) {
	data := blogABI
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return abi.ABI{}, fmt.Errorf("failed to read contract abi: %w", err)
		}
		data = raw
	}
	parsed, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse contract abi: %w", err)
	}
	if _, ok := parsed.Methods[methodFetchPosts]; !ok {
		return abi.ABI{}, fmt.Errorf("contract abi has no %s method", methodFetchPosts)
	}
	return parsed, nil
}

func (c *Client) FetchPosts(ctx context.Context) ([]*model.LedgerPost, error) {
	start := time.Now()
	if c.contract == nil {
		c.recordCall(methodFetchPosts, false, start)
		return nil, fmt.Errorf("%w: no rpc provider configured", custom_errors.ErrLedgerUnavailable)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, methodFetchPosts); err != nil {
		c.recordCall(methodFetchPosts, false, start)
		c.log.Error("Failed to fetch posts from ledger",
			slog.String("contract", c.address.Hex()),
			slog.String("error", err.Error()))
		return nil, classifyCallError(err)
	}
	if len(out) == 0 {
		c.recordCall(methodFetchPosts, false, start)
		return nil, fmt.Errorf("%w: empty %s result", custom_errors.ErrLedgerCall, methodFetchPosts)
	}

	converted, ok := abi.ConvertType(out[0], new([]blogPost)).(*[]blogPost)
	if !ok {
		c.recordCall(methodFetchPosts, false, start)
		return nil, fmt.Errorf("%w: unexpected %s result type %T", custom_errors.ErrLedgerCall, methodFetchPosts, out[0])
	}

	posts := make([]*model.LedgerPost, 0, len(*converted))
	for _, p := range *converted {
		posts = append(posts, &model.LedgerPost{
			ID:        p.Id,
			Title:     p.Title,
			Content:   p.Content,
			Published: p.Published,
		})
	}

	c.recordCall(methodFetchPosts, true, start)
	c.log.Debug("Fetched posts from ledger", slog.Int("count", len(posts)))
	return posts, nil
}

func (c *Client) CreatePost(ctx context.Context, title, contentRef string) (ledger.Transaction, error) {
	return c.transact(ctx, methodCreatePost, title, contentRef)
}

func (c *Client) UpdatePost(ctx context.Context, id *big.Int, title, contentRef string, published bool) (ledger.Transaction, error) {
	if _, ok := c.abi.Methods[methodUpdatePost]; !ok {
		return nil, custom_errors.ErrEditUnsupported
	}
	if id == nil || id.Sign() < 0 {
		return nil, fmt.Errorf("%w: post id must be a non-negative integer", custom_errors.ErrInvalidInput)
	}
	return c.transact(ctx, methodUpdatePost, id, title, contentRef, published)
}

func (c *Client) transact(ctx context.Context, method string, params ...interface{}) (ledger.Transaction, error) {
	start := time.Now()
	if c.contract == nil {
		c.recordCall(method, false, start)
		return nil, fmt.Errorf("%w: no rpc provider configured", custom_errors.ErrLedgerUnavailable)
	}
	if c.signer == nil {
		c.recordCall(method, false, start)
		return nil, custom_errors.ErrSignerUnavailable
	}

	opts := *c.signer
	opts.Context = ctx

	tx, err := c.contract.Transact(&opts, method, params...)
	if err != nil {
		c.recordCall(method, false, start)
		c.log.Error("Ledger transaction failed",
			slog.String("method", method),
			slog.String("error", err.Error()))
		return nil, classifyTransactError(err)
	}

	c.recordCall(method, true, start)
	c.log.Info("Ledger transaction submitted",
		slog.String("method", method),
		slog.String("tx_hash", tx.Hash().Hex()))
	return &transaction{tx: tx, backend: c.backend, log: c.log, metrics: c.metrics}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	if c.backend == nil {
		return fmt.Errorf("%w: no rpc provider configured", custom_errors.ErrLedgerUnavailable)
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	chainID, err := c.backend.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", custom_errors.ErrLedgerUnavailable, err)
	}
	if chainID.Cmp(c.chainID) != 0 {
		return fmt.Errorf("%w: connected to chain %s, expected %s", custom_errors.ErrLedgerUnavailable, chainID, c.chainID)
	}
	return nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.callTimeout)
}

func (c *Client) recordCall(method string, success bool, start time.Time) {
	c.metrics.IncrementLedgerCalls(method, success)
	c.metrics.RecordLedgerCallDuration(method, time.Since(start))
}
