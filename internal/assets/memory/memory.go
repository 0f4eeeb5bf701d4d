package memory

import (
	"context"
	"fmt"
	"io"
	"path"
	"sync"

	"github.com/google/uuid"

	"github.com/dont21900-lgtm/editing-store/internal/assets"
)

// Storage is an in-memory implementation of assets.Storage for tests and
// local development.
type Storage struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string

	// FailKinds makes uploads of the listed kinds fail; used by tests to
	// drive the composer's abort path.
	FailKinds map[assets.AssetKind]error
}

// New creates a new in-memory asset storage.
func New() *Storage {
	return &Storage{
		objects: make(map[string][]byte),
		baseURL: "memory://assets",
	}
}

// Upload stores the asset in memory under a generated key.
func (s *Storage) Upload(_ context.Context, input *assets.UploadInput) (*assets.UploadResult, error) {
	if err, ok := s.FailKinds[input.Kind]; ok {
		return nil, err
	}

	data, err := io.ReadAll(input.Data)
	if err != nil {
		return nil, fmt.Errorf("assets/memory: read: %w", err)
	}

	key := string(input.Kind) + "/" + uuid.New().String() + path.Ext(input.Filename)

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return &assets.UploadResult{
		Key: key,
		URL: s.baseURL + "/" + key,
	}, nil
}

// Delete removes an asset by its key.
func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Get returns the stored bytes for a key (used in tests).
func (s *Storage) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

// Len returns the number of stored objects (used in tests).
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
