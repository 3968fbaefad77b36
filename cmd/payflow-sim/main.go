// Command payflow-sim runs a scripted scenario across all four payment
// engines against an in-memory ledger and a manual clock, so the full
// lifecycle of each state machine can be observed without waiting on wall
// time. Pass -db to persist engine state in a bolt database instead of
// memory.
package main

import (
	"flag"
	"math/rand"
	"os"

	"github.com/echa/log"

	"github.com/payflowlabs/libpayflow-go/config"
	"github.com/payflowlabs/libpayflow-go/drop"
	"github.com/payflowlabs/libpayflow-go/faucet"
	"github.com/payflowlabs/libpayflow-go/fee"
	"github.com/payflowlabs/libpayflow-go/ledger"
	"github.com/payflowlabs/libpayflow-go/storage"
	"github.com/payflowlabs/libpayflow-go/stream"
	"github.com/payflowlabs/libpayflow-go/transfer"
)

var (
	dbPath  string
	feeBps  uint
	seed    int64
	verbose bool
	flags   = flag.NewFlagSet("payflow-sim", flag.ContinueOnError)
)

func init() {
	flags.Usage = func() {}
	flags.StringVar(&dbPath, "db", "", "bolt database path (empty = in-memory stores)")
	flags.UintVar(&feeBps, "fee", 50, "protocol fee in basis points")
	flags.Int64Var(&seed, "seed", 42, "PRNG seed for random drops")
	flags.BoolVar(&verbose, "v", false, "debug logging")
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

const (
	asset = ledger.Asset("PUSD")

	alice     = ledger.Address("alice")
	bob       = ledger.Address("bob")
	carol     = ledger.Address("carol")
	dave      = ledger.Address("dave")
	escrow    = ledger.Address("escrow")
	collector = ledger.Address("collector")
	pool      = ledger.Address("faucet-pool")
	owner     = ledger.Address("faucet-owner")
)

func run() error {
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			flags.PrintDefaults()
			return nil
		}
		return err
	}
	if verbose {
		log.SetLevel(log.LevelDebug)
	}

	cfg := config.DefaultConfig()
	cfg.FeeBps = uint32(feeBps)

	policy, err := fee.NewPolicy(cfg.FeeBps)
	if err != nil {
		return err
	}

	book := ledger.NewMemoryLedger()
	for _, a := range []ledger.Address{alice, bob, carol, dave} {
		book.Mint(asset, a, 100_000)
	}
	book.Mint(asset, pool, 500)

	clock := ledger.NewManualClock(1_000_000)

	var (
		transfers transfer.Store = transfer.NewMemStore()
		streams   stream.Store   = stream.NewMemStore()
		drops     drop.Store     = drop.NewMemStore()
		accounts  faucet.Store   = faucet.NewMemStore()
	)
	if dbPath != "" {
		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		transfers, streams, drops, accounts = db.Transfers(), db.Streams(), db.Drops(), db.Faucet()
		log.Infof("persisting state in %s", dbPath)
	}

	// Conditional transfer: code-gated direct payment, claimed by the
	// recipient, then a link transfer refunded after expiry.
	te := transfer.NewEngine(transfers, book, clock, policy, transfer.EngineConfig{
		Escrow:          escrow,
		FeeCollector:    collector,
		MinExpiryWindow: cfg.MinTransferExpiry,
		MaxExpiryWindow: cfg.MaxTransferExpiry,
	})
	id, err := te.CreateDirect(alice, bob, asset, 10_000, clock.Now()+3600, "abc123")
	if err != nil {
		return err
	}
	log.Infof("transfer %s: alice -> bob, 10000 gross", id)
	if _, err := te.Claim(bob, id, "wrong"); err != nil {
		log.Infof("transfer %s: claim with wrong code rejected: %v", id, err)
	}
	got, err := te.Claim(bob, id, "abc123")
	if err != nil {
		return err
	}
	log.Infof("transfer %s: bob claimed %d net", id, got)

	linkID, err := te.CreateLink(alice, asset, 5_000, clock.Now()+3600, "")
	if err != nil {
		return err
	}
	clock.Advance(3601)
	back, err := te.Refund(alice, linkID)
	if err != nil {
		return err
	}
	log.Infof("transfer %s: expired unclaimed, alice refunded %d", linkID, back)

	// Stream: 1000s window with a 200s pause in the middle.
	se := stream.NewEngine(streams, book, clock, policy, stream.EngineConfig{
		Escrow:       escrow,
		FeeCollector: collector,
	})
	sid, err := se.Create(alice, carol, asset, 10_000, clock.Now(), clock.Now()+1000, nil)
	if err != nil {
		return err
	}
	clock.Advance(500)
	w, err := se.Withdraw(carol, sid)
	if err != nil {
		return err
	}
	log.Infof("stream %s: carol withdrew %d at t+500", sid, w)
	if err := se.Pause(alice, sid); err != nil {
		return err
	}
	clock.Advance(200)
	if err := se.Resume(alice, sid); err != nil {
		return err
	}
	clock.Advance(700)
	w, err = se.Withdraw(carol, sid)
	if err != nil {
		return err
	}
	s, _ := se.Get(sid)
	log.Infof("stream %s: carol withdrew %d more, status %s", sid, w, s.Status)

	// Drop: random partition among 3 claimants.
	de := drop.NewEngine(drops, book, clock, policy, rand.New(rand.NewSource(seed)), drop.EngineConfig{
		Escrow:       escrow,
		FeeCollector: collector,
	})
	did, err := de.Create(alice, asset, 3_000, 3, true, clock.Now()+3600, "happy friday")
	if err != nil {
		return err
	}
	for _, claimant := range []ledger.Address{bob, carol, dave} {
		amt, err := de.Claim(claimant, did)
		if err != nil {
			return err
		}
		log.Infof("drop %s: %s claimed %d", did, claimant, amt)
	}

	// Faucet: cooldown blocks the second claim.
	fe, err := faucet.NewEngine(accounts, book, clock, faucet.EngineConfig{
		Pool:  pool,
		Owner: owner,
		Asset: asset,
	}, faucet.Params{
		ClaimAmount:        cfg.FaucetClaimAmount,
		CooldownPeriod:     cfg.FaucetCooldown,
		MaxClaimPerAddress: cfg.FaucetMaxClaim,
	})
	if err != nil {
		return err
	}
	amt, err := fe.Claim(bob)
	if err != nil {
		return err
	}
	log.Infof("faucet: bob claimed %d", amt)
	if _, err := fe.Claim(bob); err != nil {
		log.Infof("faucet: second claim rejected: %v", err)
	}

	feeBal, _ := book.BalanceOf(asset, collector)
	escBal, _ := book.BalanceOf(asset, escrow)
	log.Infof("done: collector holds %d in fees, escrow holds %d", feeBal, escBal)
	return nil
}
