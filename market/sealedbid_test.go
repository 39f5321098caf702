package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sealedList(t *testing.T, serial, lotQty uint64) *SealedAuctionList {
	t.Helper()
	sl := NewSealedAuctionList()
	sl.Add(NewSealedAuction(serial, "sealed lot", true, lotQty, 0))
	return sl
}

func commitAndReveal(t *testing.T, sl *SealedAuctionList, u UnsealedBid) {
	t.Helper()
	require.NoError(t, sl.SubmitSealedBid(u.Seal()))
	require.NoError(t, sl.SubmitUnsealedBid(u))
}

func TestDigestBindsAllFields(t *testing.T) {
	u := NewUnsealedBid("aa11", 1, 100, "s3cret")
	assert.Equal(t, u.Digest(), u.Seal().Digest)
	assert.Len(t, u.Digest(), 128)

	for _, other := range []UnsealedBid{
		NewUnsealedBid("bb22", 1, 100, "s3cret"),
		NewUnsealedBid("aa11", 2, 100, "s3cret"),
		NewUnsealedBid("aa11", 1, 101, "s3cret"),
		NewUnsealedBid("aa11", 1, 100, "other"),
	} {
		assert.NotEqual(t, u.Digest(), other.Digest())
	}
}

func TestRevealRequiresCommitment(t *testing.T) {
	sl := sealedList(t, 1, 10)

	err := sl.SubmitUnsealedBid(NewUnsealedBid("aa11", 1, 100, "salt"))
	require.Error(t, err)
	assert.IsType(t, NoMatchingCommitmentError{}, err)

	err = sl.SubmitSealedBid(SealedBid{Serial: 9, Digest: "d"})
	assert.IsType(t, NoSuchAuctionError{}, err)
}

func TestCommitHoldsNoFunds(t *testing.T) {
	bb := testBook(t, seeded(t, "alice", "aa11", 1000, 0))
	sl := sealedList(t, 1, 10)

	commitAndReveal(t, sl, NewUnsealedBid("aa11", 1, 100, "salt"))

	a, _ := bb.Account("aa11")
	assert.Equal(t, uint64(1000), a.Cash)
	assert.Zero(t, a.HoldCash)
}

func TestWinnerPaysSecondPrice(t *testing.T) {
	bb := testBook(t,
		seeded(t, "alice", "aa11", 1000, 0),
		seeded(t, "bob", "bb22", 1000, 0),
		seeded(t, "carol", "cc33", 1000, 0),
	)
	sl := sealedList(t, 1, 10)

	commitAndReveal(t, sl, NewUnsealedBid("aa11", 1, 100, "a"))
	commitAndReveal(t, sl, NewUnsealedBid("bb22", 1, 500, "b"))
	commitAndReveal(t, sl, NewUnsealedBid("cc33", 1, 200, "c"))

	require.NoError(t, sl.EndAuction(bb, 1))

	bob, _ := bb.Account("bb22")
	assert.Equal(t, uint64(800), bob.Cash)
	assert.Equal(t, uint64(10), bob.Assets)
	require.NotNil(t, sl.Auctions[1].SecondPrice)
	assert.Equal(t, uint64(200), *sl.Auctions[1].SecondPrice)
	assert.False(t, sl.Auctions[1].Open)

	// Losers pay nothing.
	alice, _ := bb.Account("aa11")
	carol, _ := bb.Account("cc33")
	assert.Equal(t, uint64(1000), alice.Cash)
	assert.Equal(t, uint64(1000), carol.Cash)
}

func TestSoleBidderPaysOwnPrice(t *testing.T) {
	bb := testBook(t, seeded(t, "alice", "aa11", 1000, 0))
	sl := sealedList(t, 1, 10)

	commitAndReveal(t, sl, NewUnsealedBid("aa11", 1, 100, "a"))
	require.NoError(t, sl.EndAuction(bb, 1))

	a, _ := bb.Account("aa11")
	assert.Equal(t, uint64(900), a.Cash)
	assert.Equal(t, uint64(10), a.Assets)
}

func TestEqualPricesCollapse(t *testing.T) {
	bb := testBook(t,
		seeded(t, "alice", "aa11", 1000, 0),
		seeded(t, "bob", "bb22", 1000, 0),
		seeded(t, "carol", "cc33", 1000, 0),
	)
	sl := sealedList(t, 1, 10)

	commitAndReveal(t, sl, NewUnsealedBid("aa11", 1, 500, "a"))
	commitAndReveal(t, sl, NewUnsealedBid("bb22", 1, 500, "b"))
	commitAndReveal(t, sl, NewUnsealedBid("cc33", 1, 100, "c"))

	require.NoError(t, sl.EndAuction(bb, 1))

	// Two bids at 500 collapse to one distinct price, so the runner-up
	// price is 100.
	winner, _ := bb.Account(sl.Auctions[1].Leader)
	assert.Equal(t, uint64(900), winner.Cash)
	assert.Equal(t, uint64(10), winner.Assets)
}

func TestEndWithoutReveals(t *testing.T) {
	bb := testBook(t, seeded(t, "alice", "aa11", 1000, 0))
	sl := sealedList(t, 1, 10)
	require.NoError(t, sl.SubmitSealedBid(NewUnsealedBid("aa11", 1, 100, "a").Seal()))

	err := sl.EndAuction(bb, 1)
	require.ErrorIs(t, err, ErrNoBids)

	a, _ := bb.Account("aa11")
	assert.Equal(t, uint64(1000), a.Cash)
	assert.Zero(t, a.Assets)
}

func TestEndWithoutLeader(t *testing.T) {
	bb := testBook(t, seeded(t, "alice", "aa11", 1000, 0))
	sl := sealedList(t, 1, 10)

	// A zero-price reveal records a price but never takes the lead.
	commitAndReveal(t, sl, NewUnsealedBid("aa11", 1, 0, "a"))

	err := sl.EndAuction(bb, 1)
	require.ErrorIs(t, err, ErrNoLeader)
}
