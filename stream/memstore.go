package stream

import (
	"fmt"
	"sync"

	"github.com/payflowlabs/libpayflow-go/ledger"
)

// MemStore is an in-memory Store for tests and simulations.
type MemStore struct {
	mu sync.Mutex
	m  map[string]Stream
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty in-memory stream store.
func NewMemStore() *MemStore {
	return &MemStore{m: make(map[string]Stream)}
}

// Put writes the stream, overwriting any existing record.
func (st *MemStore) Put(s *Stream) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	cp := *s
	cp.Milestones = make([]Milestone, len(s.Milestones))
	copy(cp.Milestones, s.Milestones)
	st.m[s.ID] = cp
	return nil
}

// Get retrieves a stream by id.
func (st *MemStore) Get(id string) (*Stream, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.m[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	cp := s
	cp.Milestones = make([]Milestone, len(s.Milestones))
	copy(cp.Milestones, s.Milestones)
	return &cp, nil
}

// ListByParticipant returns all streams where addr is sender or recipient.
func (st *MemStore) ListByParticipant(addr ledger.Address) ([]*Stream, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	var out []*Stream
	for _, s := range st.m {
		if s.Sender == addr || s.Recipient == addr {
			cp := s
			cp.Milestones = make([]Milestone, len(s.Milestones))
			copy(cp.Milestones, s.Milestones)
			out = append(out, &cp)
		}
	}
	return out, nil
}
