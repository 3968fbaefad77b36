// Package storage persists engine state in a single bbolt database, one
// bucket per entity kind. Records are gob-encoded and keyed by id; the
// bolt stores satisfy the Store interface each engine package declares.
package storage

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/payflowlabs/libpayflow-go/drop"
	"github.com/payflowlabs/libpayflow-go/faucet"
	"github.com/payflowlabs/libpayflow-go/ledger"
	"github.com/payflowlabs/libpayflow-go/stream"
	"github.com/payflowlabs/libpayflow-go/transfer"
)

var (
	bucketTransfers      = []byte("transfers")
	bucketStreams        = []byte("streams")
	bucketDrops          = []byte("drops")
	bucketFaucetAccounts = []byte("faucet_accounts")
	bucketFaucetParams   = []byte("faucet_params")

	keyFaucetParams = []byte("params")
)

// BoltStore wraps a bbolt database holding all engine state.
type BoltStore struct {
	db *bbolt.DB
}

// Open opens or creates the bbolt database at dbPath. The parent directory
// is created if it does not exist.
func Open(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("storage: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketTransfers, bucketStreams, bucketDrops, bucketFaucetAccounts, bucketFaucetParams} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Transfers returns a transfer.Store backed by this database.
func (s *BoltStore) Transfers() *BoltTransferStore { return &BoltTransferStore{db: s.db} }

// Streams returns a stream.Store backed by this database.
func (s *BoltStore) Streams() *BoltStreamStore { return &BoltStreamStore{db: s.db} }

// Drops returns a drop.Store backed by this database.
func (s *BoltStore) Drops() *BoltDropStore { return &BoltDropStore{db: s.db} }

// Faucet returns a faucet.Store backed by this database.
func (s *BoltStore) Faucet() *BoltFaucetStore { return &BoltFaucetStore{db: s.db} }

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// ---------------------------------------------------------------------------
// BoltTransferStore implements transfer.Store.
// ---------------------------------------------------------------------------

// BoltTransferStore persists conditional transfers in bbolt.
type BoltTransferStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ transfer.Store = (*BoltTransferStore)(nil)

// Put writes the transfer, overwriting any existing record.
func (s *BoltTransferStore) Put(t *transfer.Transfer) error {
	if t == nil {
		return ErrNilRecord
	}
	data, err := encodeGob(t)
	if err != nil {
		return fmt.Errorf("storage: encode transfer: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketTransfers).Put([]byte(t.ID), data)
	})
}

// Get retrieves a transfer by id.
func (s *BoltTransferStore) Get(id string) (*transfer.Transfer, error) {
	var t transfer.Transfer
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketTransfers).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", transfer.ErrNotFound, id)
		}
		return decodeGob(data, &t)
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListBySender returns all transfers created by addr.
func (s *BoltTransferStore) ListBySender(addr ledger.Address) ([]*transfer.Transfer, error) {
	var out []*transfer.Transfer
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketTransfers).ForEach(func(_, data []byte) error {
			var t transfer.Transfer
			if err := decodeGob(data, &t); err != nil {
				return err
			}
			if t.Sender == addr {
				out = append(out, &t)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// BoltStreamStore implements stream.Store.
// ---------------------------------------------------------------------------

// BoltStreamStore persists payment streams in bbolt.
type BoltStreamStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ stream.Store = (*BoltStreamStore)(nil)

// Put writes the stream, overwriting any existing record.
func (s *BoltStreamStore) Put(rec *stream.Stream) error {
	if rec == nil {
		return ErrNilRecord
	}
	data, err := encodeGob(rec)
	if err != nil {
		return fmt.Errorf("storage: encode stream: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketStreams).Put([]byte(rec.ID), data)
	})
}

// Get retrieves a stream by id.
func (s *BoltStreamStore) Get(id string) (*stream.Stream, error) {
	var rec stream.Stream
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketStreams).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", stream.ErrNotFound, id)
		}
		return decodeGob(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByParticipant returns all streams where addr is sender or recipient.
func (s *BoltStreamStore) ListByParticipant(addr ledger.Address) ([]*stream.Stream, error) {
	var out []*stream.Stream
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketStreams).ForEach(func(_, data []byte) error {
			var rec stream.Stream
			if err := decodeGob(data, &rec); err != nil {
				return err
			}
			if rec.Sender == addr || rec.Recipient == addr {
				out = append(out, &rec)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// BoltDropStore implements drop.Store.
// ---------------------------------------------------------------------------

// BoltDropStore persists drops in bbolt.
type BoltDropStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ drop.Store = (*BoltDropStore)(nil)

// Put writes the drop, overwriting any existing record.
func (s *BoltDropStore) Put(d *drop.Drop) error {
	if d == nil {
		return ErrNilRecord
	}
	data, err := encodeGob(d)
	if err != nil {
		return fmt.Errorf("storage: encode drop: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDrops).Put([]byte(d.ID), data)
	})
}

// Get retrieves a drop by id.
func (s *BoltDropStore) Get(id string) (*drop.Drop, error) {
	var d drop.Drop
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDrops).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", drop.ErrNotFound, id)
		}
		return decodeGob(data, &d)
	})
	if err != nil {
		return nil, err
	}
	if d.ClaimedBy == nil {
		d.ClaimedBy = make(map[ledger.Address]uint64)
	}
	return &d, nil
}

// ListByCreator returns all drops created by addr.
func (s *BoltDropStore) ListByCreator(addr ledger.Address) ([]*drop.Drop, error) {
	var out []*drop.Drop
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDrops).ForEach(func(_, data []byte) error {
			var d drop.Drop
			if err := decodeGob(data, &d); err != nil {
				return err
			}
			if d.Creator == addr {
				if d.ClaimedBy == nil {
					d.ClaimedBy = make(map[ledger.Address]uint64)
				}
				out = append(out, &d)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// BoltFaucetStore implements faucet.Store.
// ---------------------------------------------------------------------------

// BoltFaucetStore persists faucet parameters and accounts in bbolt.
type BoltFaucetStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ faucet.Store = (*BoltFaucetStore)(nil)

// Params retrieves the dispensing parameters.
func (s *BoltFaucetStore) Params() (*faucet.Params, error) {
	var p faucet.Params
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketFaucetParams).Get(keyFaucetParams)
		if data == nil {
			return fmt.Errorf("%w: params", faucet.ErrNotFound)
		}
		return decodeGob(data, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PutParams writes the dispensing parameters.
func (s *BoltFaucetStore) PutParams(p *faucet.Params) error {
	if p == nil {
		return ErrNilRecord
	}
	data, err := encodeGob(p)
	if err != nil {
		return fmt.Errorf("storage: encode faucet params: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketFaucetParams).Put(keyFaucetParams, data)
	})
}

// Account retrieves the claim history for addr.
func (s *BoltFaucetStore) Account(addr ledger.Address) (*faucet.Account, error) {
	var a faucet.Account
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketFaucetAccounts).Get([]byte(addr))
		if data == nil {
			return fmt.Errorf("%w: %s", faucet.ErrNotFound, addr)
		}
		return decodeGob(data, &a)
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// PutAccount writes an account record.
func (s *BoltFaucetStore) PutAccount(a *faucet.Account) error {
	if a == nil {
		return ErrNilRecord
	}
	data, err := encodeGob(a)
	if err != nil {
		return fmt.Errorf("storage: encode faucet account: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketFaucetAccounts).Put([]byte(a.Address), data)
	})
}
