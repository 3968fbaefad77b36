package drop

import (
	"fmt"
	"sync"

	"github.com/payflowlabs/libpayflow-go/ledger"
)

// MemStore is an in-memory Store for tests and simulations.
type MemStore struct {
	mu sync.Mutex
	m  map[string]Drop
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty in-memory drop store.
func NewMemStore() *MemStore {
	return &MemStore{m: make(map[string]Drop)}
}

func cloneDrop(d *Drop) Drop {
	cp := *d
	cp.ClaimedBy = make(map[ledger.Address]uint64, len(d.ClaimedBy))
	for k, v := range d.ClaimedBy {
		cp.ClaimedBy[k] = v
	}
	return cp
}

// Put writes the drop, overwriting any existing record.
func (s *MemStore) Put(d *Drop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[d.ID] = cloneDrop(d)
	return nil
}

// Get retrieves a drop by id.
func (s *MemStore) Get(id string) (*Drop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.m[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	cp := cloneDrop(&d)
	return &cp, nil
}

// ListByCreator returns all drops created by addr.
func (s *MemStore) ListByCreator(addr ledger.Address) ([]*Drop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Drop
	for _, d := range s.m {
		if d.Creator == addr {
			cp := cloneDrop(&d)
			out = append(out, &cp)
		}
	}
	return out, nil
}
