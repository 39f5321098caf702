package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"

	"github.com/swth/dmkt/libs/log"
	"github.com/swth/dmkt/market"
)

func newTestProcessor(t *testing.T) (*Processor, *DBStore) {
	t.Helper()
	store := NewDBStore(dbm.NewMemDB())
	return New(store, log.NewTestingLogger(t)), store
}

func apply(t *testing.T, p *Processor, pl market.Payload) error {
	t.Helper()
	bz, err := pl.Marshal()
	require.NoError(t, err)
	return p.Apply(market.Envelope{SignerPublicKey: market.AdminPubKey, Payload: bz})
}

func register(t *testing.T, p *Processor, name, addr string, cash, assets uint64) {
	t.Helper()
	acct, err := market.NewSeededAccount(name, addr, cash, assets)
	require.NoError(t, err)
	require.NoError(t, apply(t, p, market.Payload{Kind: market.KindRegisterAccount, Account: &acct}))
}

func loadBalances(t *testing.T, store *DBStore) *market.BalanceBook {
	t.Helper()
	bz, err := store.Get(market.StateBalanceBook)
	require.NoError(t, err)
	require.NotNil(t, bz)
	bb := market.NewBalanceBook()
	require.NoError(t, market.UnmarshalCBOR(bz, bb))
	return bb
}

func TestRegisterAndTrade(t *testing.T) {
	p, store := newTestProcessor(t)
	register(t, p, "alice", "aa11", 0, 10)
	register(t, p, "bob", "bb22", 100, 0)

	sell := market.NewOrder("aa11", 5, 10)
	require.NoError(t, apply(t, p, market.Payload{Kind: market.KindPlaceSell, SellOrder: &sell}))
	buy := market.NewOrder("bb22", 5, 10)
	require.NoError(t, apply(t, p, market.Payload{Kind: market.KindPlaceBuy, BuyOrder: &buy}))

	bb := loadBalances(t, store)
	alice, _ := bb.Account("aa11")
	bob, _ := bb.Account("bb22")
	assert.Equal(t, uint64(50), alice.Cash)
	assert.Zero(t, alice.Assets)
	assert.Zero(t, alice.HoldAssets)
	assert.Equal(t, uint64(50), bob.Cash)
	assert.Equal(t, uint64(10), bob.Assets)

	// The traded-out book persists with its nonce advanced.
	bz, err := store.Get(market.StateOrderBook)
	require.NoError(t, err)
	require.NotNil(t, bz)
	ob := market.NewOrderBook()
	require.NoError(t, market.UnmarshalCBOR(bz, ob))
	assert.True(t, ob.Empty())
	assert.Equal(t, uint64(1), ob.Nonce)
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	p, _ := newTestProcessor(t)
	register(t, p, "alice", "aa11", 0, 0)

	acct, err := market.NewSeededAccount("imposter", "aa11", 0, 0)
	require.NoError(t, err)
	err = apply(t, p, market.Payload{Kind: market.KindRegisterAccount, Account: &acct})
	require.Error(t, err)
	var dup market.DuplicateAccountError
	assert.ErrorAs(t, err, &dup)
}

func TestFailedRouteCommitsNothing(t *testing.T) {
	p, store := newTestProcessor(t)
	register(t, p, "alice", "aa11", 10, 0)
	before := loadBalances(t, store)

	buy := market.NewOrder("aa11", 5, 10)
	err := apply(t, p, market.Payload{Kind: market.KindPlaceBuy, BuyOrder: &buy})
	require.Error(t, err)
	var funds market.InsufficientFundsError
	assert.ErrorAs(t, err, &funds)

	// Neither touched object reached the store.
	bz, err := store.Get(market.StateOrderBook)
	require.NoError(t, err)
	assert.Nil(t, bz)
	assert.Equal(t, before, loadBalances(t, store))
}

func TestAuctionLifecycle(t *testing.T) {
	p, store := newTestProcessor(t)
	register(t, p, "alice", "aa11", 100, 0)
	register(t, p, "bob", "bb22", 100, 0)

	a := market.NewAuction(1, "lot", true, 50, 0)
	require.NoError(t, apply(t, p, market.Payload{Kind: market.KindNewAuction, Auction: &a}))

	bid := market.NewBid("aa11", 1, 10)
	require.NoError(t, apply(t, p, market.Payload{Kind: market.KindAuctionBid, Bid: &bid}))
	bid = market.NewBid("bb22", 1, 20)
	require.NoError(t, apply(t, p, market.Payload{Kind: market.KindAuctionBid, Bid: &bid}))

	require.NoError(t, apply(t, p, market.Payload{Kind: market.KindEndAuction, Serial: 1}))

	bb := loadBalances(t, store)
	alice, _ := bb.Account("aa11")
	bob, _ := bb.Account("bb22")
	assert.Equal(t, uint64(100), alice.Cash)
	assert.Equal(t, uint64(80), bob.Cash)
	assert.Zero(t, bob.HoldCash)
	assert.Equal(t, uint64(50), bob.Assets)
}

func TestSealedAuctionGovernanceGate(t *testing.T) {
	p, store := newTestProcessor(t)

	sa := market.NewSealedAuction(1, "lot", true, 100, 0)
	err := apply(t, p, market.Payload{Kind: market.KindNewSealedAuction, SealedAuction: &sa})
	require.ErrorIs(t, err, market.ErrNoGovernanceResult)

	// Publish a 50% result: the cap is 5e9 units.
	bz, err := market.MarshalCBOR(uint64(50))
	require.NoError(t, err)
	require.NoError(t, store.Set(market.StateGovernanceResult, bz))

	over := market.NewSealedAuction(2, "oversized", true, 5_000_000_001, 0)
	err = apply(t, p, market.Payload{Kind: market.KindNewSealedAuction, SealedAuction: &over})
	require.Error(t, err)
	var capErr market.GovernanceCapError
	assert.ErrorAs(t, err, &capErr)
	assert.Equal(t, uint64(5_000_000_000), capErr.Cap)

	require.NoError(t, apply(t, p, market.Payload{Kind: market.KindNewSealedAuction, SealedAuction: &sa}))
}

func TestSealedAuctionLifecycle(t *testing.T) {
	p, store := newTestProcessor(t)
	register(t, p, "alice", "aa11", 1000, 0)
	register(t, p, "bob", "bb22", 1000, 0)

	bz, err := market.MarshalCBOR(uint64(100))
	require.NoError(t, err)
	require.NoError(t, store.Set(market.StateGovernanceResult, bz))

	sa := market.NewSealedAuction(1, "lot", true, 10, 0)
	require.NoError(t, apply(t, p, market.Payload{Kind: market.KindNewSealedAuction, SealedAuction: &sa}))

	for _, u := range []market.UnsealedBid{
		market.NewUnsealedBid("aa11", 1, 100, "a"),
		market.NewUnsealedBid("bb22", 1, 300, "b"),
	} {
		sealed := u.Seal()
		require.NoError(t, apply(t, p, market.Payload{Kind: market.KindSealedBid, SealedBid: &sealed}))
		unsealed := u
		require.NoError(t, apply(t, p, market.Payload{Kind: market.KindUnsealedBid, UnsealedBid: &unsealed}))
	}

	require.NoError(t, apply(t, p, market.Payload{Kind: market.KindEndSealedAuction, Serial: 1}))

	bb := loadBalances(t, store)
	bob, _ := bb.Account("bb22")
	assert.Equal(t, uint64(900), bob.Cash)
	assert.Equal(t, uint64(10), bob.Assets)
}

func TestClearRoutes(t *testing.T) {
	p, store := newTestProcessor(t)
	register(t, p, "alice", "aa11", 100, 0)

	require.NoError(t, apply(t, p, market.Payload{Kind: market.KindClearBalanceBook}))
	bb := loadBalances(t, store)
	assert.Zero(t, bb.Len())

	require.NoError(t, apply(t, p, market.Payload{Kind: market.KindClearOrderBook}))
	require.NoError(t, apply(t, p, market.Payload{Kind: market.KindClearAuctionList}))
	require.NoError(t, apply(t, p, market.Payload{Kind: market.KindClearSealedAuctionList}))

	bz, err := store.Get(market.StateOrderBook)
	require.NoError(t, err)
	require.NotNil(t, bz)
	ob := market.NewOrderBook()
	require.NoError(t, market.UnmarshalCBOR(bz, ob))
	assert.True(t, ob.Empty())
}

func TestRejectsMalformedEnvelopes(t *testing.T) {
	p, _ := newTestProcessor(t)

	err := p.Apply(market.Envelope{SignerPublicKey: market.AdminPubKey, Payload: []byte("not cbor")})
	require.Error(t, err)

	pl := market.Payload{Kind: market.Kind(99)}
	bz, err := pl.Marshal()
	require.NoError(t, err)
	err = p.Apply(market.Envelope{SignerPublicKey: market.AdminPubKey, Payload: bz})
	require.ErrorIs(t, err, market.ErrUnknownMessage)
}
