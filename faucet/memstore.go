package faucet

import (
	"fmt"
	"sync"

	"github.com/payflowlabs/libpayflow-go/ledger"
)

// MemStore is an in-memory Store for tests and simulations.
type MemStore struct {
	mu       sync.Mutex
	params   *Params
	accounts map[ledger.Address]Account
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty in-memory faucet store.
func NewMemStore() *MemStore {
	return &MemStore{accounts: make(map[ledger.Address]Account)}
}

// Params retrieves the dispensing parameters.
func (s *MemStore) Params() (*Params, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.params == nil {
		return nil, fmt.Errorf("%w: params", ErrNotFound)
	}
	cp := *s.params
	return &cp, nil
}

// PutParams writes the dispensing parameters.
func (s *MemStore) PutParams(p *Params) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.params = &cp
	return nil
}

// Account retrieves the claim history for addr.
func (s *MemStore) Account(addr ledger.Address) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, addr)
	}
	cp := a
	return &cp, nil
}

// PutAccount writes an account record.
func (s *MemStore) PutAccount(a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.Address] = *a
	return nil
}
