package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"rollup-blog-service/internal/domain/custom_errors"
	ports "rollup-blog-service/internal/domain/ports/output"
)

// Store keeps content in memory under a CIDv0 of its sha2-256 digest.
// References are well-formed CIDs but do not match what an IPFS node would
// assign, since no UnixFS wrapping is applied.
type Store struct {
	log     ports.Logger
	mu      sync.RWMutex
	objects map[string][]byte

	uploadFailure error
	fetchFailures map[string]error
}

func NewStore(log ports.Logger) *Store {
	return &Store{
		log:           log,
		objects:       make(map[string][]byte),
		fetchFailures: make(map[string]error),
	}
}

// Ref returns the reference Add would assign to data.
func Ref(data []byte) (string, error) {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return "", err
	}
	return cid.NewCidV0(mh).String(), nil
}

func (s *Store) SimulateUploadFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadFailure = err
}

func (s *Store) SimulateFetchFailure(ref string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fetchFailures, ref)
		return
	}
	s.fetchFailures[ref] = err
}

// Has reports whether an object is stored under ref.
func (s *Store) Has(ref string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[ref]
	return ok
}

func (s *Store) Add(ctx context.Context, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uploadFailure != nil {
		return "", fmt.Errorf("%w: %v", custom_errors.ErrStoreUpload, s.uploadFailure)
	}

	ref, err := Ref(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", custom_errors.ErrStoreUpload, err)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[ref] = stored

	s.log.Debug("Memory store added object", slog.String("ref", ref), slog.Int("size", len(data)))
	return ref, nil
}

func (s *Store) Fetch(ctx context.Context, ref string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.fetchFailures[ref]; err != nil {
		return nil, fmt.Errorf("%w: %v", custom_errors.ErrContentFetch, err)
	}
	data, ok := s.objects[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s not found", custom_errors.ErrContentFetch, ref)
	}

	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}
