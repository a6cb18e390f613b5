package metadata

import (
	"context"
	"sync"

	"github.com/Ken19931113/debook/internal/domain"
)

// MemoryStore keeps documents in process, keyed by CIDv0.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Scheme returns "mem".
func (s *MemoryStore) Scheme() string { return "mem" }

// Fetch returns a fresh copy of the stored document.
func (s *MemoryStore) Fetch(_ context.Context, hash string) (domain.Metadata, error) {
	s.mu.RLock()
	data, ok := s.docs[hash]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	return Decode(data)
}

// Publish stores doc under the CID of its canonical encoding.
func (s *MemoryStore) Publish(_ context.Context, doc domain.Metadata) (string, error) {
	data, err := Encode(doc)
	if err != nil {
		return "", err
	}
	cid := ComputeCID(data)

	s.mu.Lock()
	s.docs[cid] = data
	s.mu.Unlock()
	return cid, nil
}

// Len returns the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
