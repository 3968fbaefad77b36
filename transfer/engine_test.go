package transfer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payflowlabs/libpayflow-go/fee"
	"github.com/payflowlabs/libpayflow-go/ledger"
)

const (
	testAsset = ledger.Asset("PUSD")

	alice     = ledger.Address("alice")
	bob       = ledger.Address("bob")
	carol     = ledger.Address("carol")
	escrow    = ledger.Address("escrow")
	collector = ledger.Address("collector")
)

type fixture struct {
	engine *Engine
	book   *ledger.MemoryLedger
	clock  *ledger.ManualClock
}

// newFixture builds an engine with a 1% fee and funded accounts.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	book := ledger.NewMemoryLedger()
	book.Mint(testAsset, alice, 1_000_000)
	book.Mint(testAsset, bob, 1_000_000)
	clock := ledger.NewManualClock(1_000_000)
	policy, err := fee.NewPolicy(100)
	require.NoError(t, err)
	eng := NewEngine(NewMemStore(), book, clock, policy, EngineConfig{
		Escrow:       escrow,
		FeeCollector: collector,
	})
	return &fixture{engine: eng, book: book, clock: clock}
}

func (f *fixture) balance(t *testing.T, addr ledger.Address) uint64 {
	t.Helper()
	b, err := f.book.BalanceOf(testAsset, addr)
	require.NoError(t, err)
	return b
}

func TestCreateDirect_Validation(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()

	tests := []struct {
		name      string
		sender    ledger.Address
		recipient ledger.Address
		gross     uint64
		expiry    int64
		wantErr   error
	}{
		{"zero amount", alice, bob, 0, now + 3600, ErrInvalidAmount},
		{"empty sender", "", bob, 100, now + 3600, ErrInvalidAddress},
		{"empty recipient", alice, "", 100, now + 3600, ErrInvalidAddress},
		{"expiry too soon", alice, bob, 100, now + 10, ErrInvalidExpiry},
		{"expiry too far", alice, bob, 100, now + 365*24*3600, ErrInvalidExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.CreateDirect(tt.sender, tt.recipient, testAsset, tt.gross, tt.expiry, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateDirect_AmountConsumedByFee(t *testing.T) {
	f := newFixture(t)
	full, err := fee.NewPolicy(10_000)
	require.NoError(t, err)
	eng := NewEngine(NewMemStore(), f.book, f.clock, full, EngineConfig{
		Escrow:       escrow,
		FeeCollector: collector,
	})

	_, err = eng.CreateDirect(alice, bob, testAsset, 100, f.clock.Now()+3600, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCreateDirect_DebitsAndEscrows(t *testing.T) {
	f := newFixture(t)

	id, err := f.engine.CreateDirect(alice, bob, testAsset, 10_000, f.clock.Now()+3600, "")
	require.NoError(t, err)
	assert.Len(t, id, IDLen)

	// 1% fee: 100 to the collector, 9900 escrowed.
	assert.Equal(t, uint64(1_000_000-10_000), f.balance(t, alice))
	assert.Equal(t, uint64(9_900), f.balance(t, escrow))
	assert.Equal(t, uint64(100), f.balance(t, collector))

	got, err := f.engine.Get(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000), got.GrossAmount)
	assert.Equal(t, uint64(9_900), got.NetAmount)
	assert.Equal(t, StatusPending, got.Status)
	assert.False(t, got.IsLink)
	assert.False(t, got.HasCode)
}

func TestCreateDirect_DefaultExpiry(t *testing.T) {
	f := newFixture(t)

	id, err := f.engine.CreateDirect(alice, bob, testAsset, 1_000, 0, "")
	require.NoError(t, err)

	got, err := f.engine.Get(id)
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now()+DefaultExpiryWindow, got.Expiry)
}

// The canonical claim scenario: a code-gated transfer of 100 units is
// claimable exactly once with the right code.
func TestClaim_CodeGatedOnce(t *testing.T) {
	f := newFixture(t)

	id, err := f.engine.CreateDirect(alice, bob, testAsset, 100, f.clock.Now()+3600, "abc123")
	require.NoError(t, err)

	_, err = f.engine.Claim(bob, id, "wrong")
	assert.ErrorIs(t, err, ErrInvalidClaimCode)

	before := f.balance(t, bob)
	got, err := f.engine.Claim(bob, id, "abc123")
	require.NoError(t, err)
	assert.Equal(t, uint64(99), got) // 100 - fee(100)
	assert.Equal(t, before+99, f.balance(t, bob))

	_, err = f.engine.Claim(bob, id, "abc123")
	assert.ErrorIs(t, err, ErrNotClaimable)
}

func TestClaim_RecipientGate(t *testing.T) {
	f := newFixture(t)

	id, err := f.engine.CreateDirect(alice, bob, testAsset, 1_000, f.clock.Now()+3600, "")
	require.NoError(t, err)

	_, err = f.engine.Claim(carol, id, "")
	assert.ErrorIs(t, err, ErrNotIntendedRecipient)

	_, err = f.engine.Claim(bob, id, "")
	assert.NoError(t, err)
}

func TestClaim_LinkTransferAnyCaller(t *testing.T) {
	f := newFixture(t)

	id, err := f.engine.CreateLink(alice, testAsset, 1_000, f.clock.Now()+3600, "")
	require.NoError(t, err)

	got, err := f.engine.Claim(carol, id, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(990), got)
	assert.Equal(t, uint64(990), f.balance(t, carol))
}

func TestClaim_AfterExpiry(t *testing.T) {
	f := newFixture(t)

	id, err := f.engine.CreateDirect(alice, bob, testAsset, 1_000, f.clock.Now()+3600, "")
	require.NoError(t, err)

	f.clock.Advance(3601)
	_, err = f.engine.Claim(bob, id, "")
	assert.ErrorIs(t, err, ErrNotClaimable)

	got, err := f.engine.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, got.EffectiveStatus(f.clock.Now()))
	assert.Equal(t, StatusPending, got.Status)
}

func TestClaim_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Claim(bob, "no-such-id", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClaim_LedgerFailureRollsBack(t *testing.T) {
	f := newFixture(t)

	id, err := f.engine.CreateDirect(alice, bob, testAsset, 1_000, f.clock.Now()+3600, "")
	require.NoError(t, err)

	boom := errors.New("ledger down")
	f.book.TransferHook = func(ledger.Asset, ledger.Address, ledger.Address, uint64) error {
		return boom
	}
	_, err = f.engine.Claim(bob, id, "")
	assert.ErrorIs(t, err, boom)

	// The status gate must not be left in the terminal state.
	got, err := f.engine.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	f.book.TransferHook = nil
	_, err = f.engine.Claim(bob, id, "")
	assert.NoError(t, err)
}

func TestRefund(t *testing.T) {
	f := newFixture(t)

	id, err := f.engine.CreateDirect(alice, bob, testAsset, 1_000, f.clock.Now()+3600, "")
	require.NoError(t, err)

	_, err = f.engine.Refund(alice, id)
	assert.ErrorIs(t, err, ErrNotExpired)

	f.clock.Advance(3601)

	_, err = f.engine.Refund(carol, id)
	assert.ErrorIs(t, err, ErrNotSender)

	before := f.balance(t, alice)
	got, err := f.engine.Refund(alice, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(990), got)
	assert.Equal(t, before+990, f.balance(t, alice))

	_, err = f.engine.Refund(alice, id)
	assert.ErrorIs(t, err, ErrNotRefundable)
}

func TestIsClaimable(t *testing.T) {
	f := newFixture(t)

	id, err := f.engine.CreateDirect(alice, bob, testAsset, 1_000, f.clock.Now()+3600, "")
	require.NoError(t, err)

	ok, err := f.engine.IsClaimable(id)
	require.NoError(t, err)
	assert.True(t, ok)

	f.clock.Advance(3601)
	ok, err = f.engine.IsClaimable(id)
	require.NoError(t, err)
	assert.False(t, ok)
}

// Conservation: everything escrowed at creation is either paid out or still
// in escrow, across every reachable operation sequence.
func TestConservation(t *testing.T) {
	f := newFixture(t)

	id1, err := f.engine.CreateDirect(alice, bob, testAsset, 10_000, f.clock.Now()+3600, "")
	require.NoError(t, err)
	id2, err := f.engine.CreateLink(alice, testAsset, 5_000, f.clock.Now()+3600, "")
	require.NoError(t, err)

	// escrow = net(10000) + net(5000)
	assert.Equal(t, uint64(9_900+4_950), f.balance(t, escrow))

	_, err = f.engine.Claim(bob, id1, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(4_950), f.balance(t, escrow))

	f.clock.Advance(3601)
	_, err = f.engine.Refund(alice, id2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), f.balance(t, escrow))

	// Fees: 1% of each gross.
	assert.Equal(t, uint64(100+50), f.balance(t, collector))
}

func TestListBySender(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.CreateDirect(alice, bob, testAsset, 1_000, f.clock.Now()+3600, "")
	require.NoError(t, err)
	_, err = f.engine.CreateDirect(bob, alice, testAsset, 1_000, f.clock.Now()+3600, "")
	require.NoError(t, err)

	got, err := f.engine.ListBySender(alice)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, alice, got[0].Sender)
}

func TestClaimCodeHashing(t *testing.T) {
	hash, salt, err := hashClaimCode("secret")
	require.NoError(t, err)
	assert.Len(t, hash, codeHashLen)
	assert.Len(t, salt, codeSaltLen)

	assert.True(t, verifyClaimCode("secret", hash, salt))
	assert.False(t, verifyClaimCode("Secret", hash, salt))

	// Fresh salt per transfer: same code, different stored hash.
	hash2, salt2, err := hashClaimCode("secret")
	require.NoError(t, err)
	assert.NotEqual(t, salt, salt2)
	assert.NotEqual(t, hash, hash2)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "claimed", StatusClaimed.String())
	assert.Equal(t, "refunded", StatusRefunded.String())
	assert.Equal(t, "expired", StatusExpired.String())
}

// failingStore wraps a MemStore with injectable Put and Get failures.
type failingStore struct {
	*MemStore
	putErr error
	getErr error
}

func (s *failingStore) Put(t *Transfer) error {
	if s.putErr != nil {
		return s.putErr
	}
	return s.MemStore.Put(t)
}

func (s *failingStore) Get(id string) (*Transfer, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.MemStore.Get(id)
}

func TestCreateDirect_StoreFailureRefundsGross(t *testing.T) {
	f := newFixture(t)
	store := &failingStore{MemStore: NewMemStore(), putErr: errors.New("store down")}
	eng := NewEngine(store, f.book, f.clock, f.engine.fees, EngineConfig{
		Escrow:       escrow,
		FeeCollector: collector,
	})

	_, err := eng.CreateDirect(alice, bob, testAsset, 10_000, f.clock.Now()+3600, "")
	require.ErrorIs(t, err, store.putErr)

	// The whole deposit comes back, fee included.
	assert.Equal(t, uint64(1_000_000), f.balance(t, alice))
	assert.Equal(t, uint64(0), f.balance(t, escrow))
	assert.Equal(t, uint64(0), f.balance(t, collector))

	store.putErr = nil
	_, err = eng.CreateDirect(alice, bob, testAsset, 10_000, f.clock.Now()+3600, "")
	require.NoError(t, err)
}

func TestCreateDirect_StoreReadFailurePropagates(t *testing.T) {
	f := newFixture(t)
	store := &failingStore{MemStore: NewMemStore(), getErr: errors.New("store down")}
	eng := NewEngine(store, f.book, f.clock, f.engine.fees, EngineConfig{
		Escrow:       escrow,
		FeeCollector: collector,
	})

	// A store read error during the duplicate-id check is not "id free".
	_, err := eng.CreateDirect(alice, bob, testAsset, 10_000, f.clock.Now()+3600, "")
	require.ErrorIs(t, err, store.getErr)
	assert.NotErrorIs(t, err, ErrDuplicateID)

	// No funds moved before the check.
	assert.Equal(t, uint64(1_000_000), f.balance(t, alice))
	assert.Equal(t, uint64(0), f.balance(t, escrow))
}
