package ipfs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ipfs/boxo/files"
	"github.com/ipfs/go-cid"
	shell "github.com/ipfs/go-ipfs-api"

	"rollup-blog-service/internal/domain/custom_errors"
	ports "rollup-blog-service/internal/domain/ports/output"
)

const defaultMaxBodyBytes = 4 << 20

type Options struct {
	APIURL        string
	GatewayURL    string
	ProjectID     string
	ProjectSecret string
	FetchTimeout  time.Duration
	MaxBodyBytes  int64
	// Transport overrides the HTTP transport for both the API and the gateway.
	Transport http.RoundTripper
}

// Store uploads through the IPFS HTTP API and reads back through a public
// gateway as <gateway>/<cid>.
type Store struct {
	shell        *shell.Shell
	gateway      *url.URL
	client       *http.Client
	maxBodyBytes int64
	log          ports.Logger
	metrics      ports.MetricsProvider
}

func NewStore(opts Options, log ports.Logger, metrics ports.MetricsProvider) (*Store, error) {
	if opts.APIURL == "" {
		return nil, errors.New("ipfs api url is required")
	}
	gateway, err := url.Parse(strings.TrimSuffix(opts.GatewayURL, "/"))
	if err != nil || gateway.Scheme == "" || gateway.Host == "" {
		return nil, fmt.Errorf("invalid ipfs gateway url %q", opts.GatewayURL)
	}
	maxBodyBytes := opts.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Store{
		shell:   shell.NewShellWithClient(opts.APIURL, newAPIClient(opts.ProjectID, opts.ProjectSecret, transport)),
		gateway: gateway,
		client: &http.Client{
			Timeout:   opts.FetchTimeout,
			Transport: transport,
		},
		maxBodyBytes: maxBodyBytes,
		log:          log,
		metrics:      metrics,
	}, nil
}

type addOutput struct {
	Hash string
}

// Add uploads data as a single unnamed file and pins it. Cancelling ctx
// aborts the request.
func (s *Store) Add(ctx context.Context, data []byte) (string, error) {
	start := time.Now()

	entry := files.NewSliceDirectory([]files.DirEntry{
		files.FileEntry("", files.NewReaderFile(bytes.NewReader(data))),
	})
	body := files.NewMultiFileReader(entry, true, false)

	var out addOutput
	err := s.shell.Request("add").
		Option("pin", true).
		Body(body).
		Exec(ctx, &out)
	if err == nil && out.Hash == "" {
		err = errors.New("ipfs api returned no hash")
	}

	s.metrics.RecordContentOperationDuration("add", time.Since(start))
	if err != nil {
		s.metrics.IncrementContentOperations("add", false)
		s.log.Error("Failed to upload content to ipfs",
			slog.Int("size", len(data)),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", custom_errors.ErrStoreUpload, err)
	}

	s.metrics.IncrementContentOperations("add", true)
	s.log.Debug("Uploaded content to ipfs",
		slog.String("ref", out.Hash),
		slog.Int("size", len(data)))
	return out.Hash, nil
}

// Fetch retrieves content from the gateway. Every failure is reported as
// ErrContentFetch with the cause attached.
func (s *Store) Fetch(ctx context.Context, ref string) ([]byte, error) {
	start := time.Now()
	data, err := s.fetch(ctx, ref)
	s.metrics.RecordContentOperationDuration("fetch", time.Since(start))
	if err != nil {
		s.metrics.IncrementContentOperations("fetch", false)
		s.log.Warn("Failed to fetch content from gateway",
			slog.String("ref", ref),
			slog.String("error", err.Error()))
		return nil, err
	}
	s.metrics.IncrementContentOperations("fetch", true)
	return data, nil
}

func (s *Store) fetch(ctx context.Context, ref string) ([]byte, error) {
	if _, err := cid.Decode(ref); err != nil {
		return nil, fmt.Errorf("%w: invalid content reference %q: %v", custom_errors.ErrContentFetch, ref, err)
	}

	endpoint := s.gateway.JoinPath(ref)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", custom_errors.ErrContentFetch, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", custom_errors.ErrContentFetch, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			s.log.Debug("Failed to close gateway response body", slog.String("error", closeErr.Error()))
		}
	}()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s not found on gateway", custom_errors.ErrContentFetch, ref)
	default:
		return nil, fmt.Errorf("%w: unexpected status code %d", custom_errors.ErrContentFetch, resp.StatusCode)
	}

	if resp.ContentLength > s.maxBodyBytes {
		return nil, fmt.Errorf("%w: content length %d exceeds maximum %d bytes",
			custom_errors.ErrContentFetch, resp.ContentLength, s.maxBodyBytes)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", custom_errors.ErrContentFetch, err)
	}
	if int64(len(data)) > s.maxBodyBytes {
		return nil, fmt.Errorf("%w: response body exceeds maximum %d bytes", custom_errors.ErrContentFetch, s.maxBodyBytes)
	}
	return data, nil
}

func (s *Store) Ping(ctx context.Context) error {
	var version struct {
		Version string
	}
	if err := s.shell.Request("version").Exec(ctx, &version); err != nil {
		return fmt.Errorf("%w: %v", custom_errors.ErrStoreUnavailable, err)
	}
	return nil
}
