package transfer

import (
	"fmt"
	"sync"

	"github.com/payflowlabs/libpayflow-go/ledger"
)

// MemStore is an in-memory Store for tests and simulations.
type MemStore struct {
	mu sync.Mutex
	m  map[string]Transfer
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty in-memory transfer store.
func NewMemStore() *MemStore {
	return &MemStore{m: make(map[string]Transfer)}
}

// Put writes the transfer, overwriting any existing record.
func (s *MemStore) Put(t *Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[t.ID] = *t
	return nil
}

// Get retrieves a transfer by id.
func (s *MemStore) Get(id string) (*Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.m[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	cp := t
	return &cp, nil
}

// ListBySender returns all transfers created by addr.
func (s *MemStore) ListBySender(addr ledger.Address) ([]*Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Transfer
	for _, t := range s.m {
		if t.Sender == addr {
			cp := t
			out = append(out, &cp)
		}
	}
	return out, nil
}
