package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFillBuyRestsWhenNoCross(t *testing.T) {
	bb := testBook(t, seeded(t, "alice", "aa11", 100, 0))
	ob := NewOrderBook()

	require.NoError(t, ob.FillBuy(bb, NewOrder("aa11", 5, 10)))

	require.Equal(t, 1, ob.BuyLen())
	assert.Equal(t, uint64(0), ob.PeekBuy().Nonce)
	a, _ := bb.Account("aa11")
	assert.Equal(t, uint64(50), a.Cash)
	assert.Equal(t, uint64(50), a.HoldCash)
}

func TestFillBuyInsufficientFunds(t *testing.T) {
	bb := testBook(t, seeded(t, "alice", "aa11", 10, 0))
	ob := NewOrderBook()

	err := ob.FillBuy(bb, NewOrder("aa11", 5, 10))
	require.Error(t, err)
	assert.IsType(t, InsufficientFundsError{}, err)
	assert.True(t, ob.Empty())

	a, _ := bb.Account("aa11")
	assert.Equal(t, uint64(10), a.Cash)
	assert.Zero(t, a.HoldCash)
}

func TestFillSellInsufficientAssets(t *testing.T) {
	bb := testBook(t, seeded(t, "alice", "aa11", 0, 3))
	ob := NewOrderBook()

	err := ob.FillSell(bb, NewOrder("aa11", 5, 10))
	require.Error(t, err)
	assert.IsType(t, InsufficientAssetsError{}, err)
	assert.True(t, ob.Empty())
}

func TestBuyCrossSettlesAtRestingPrice(t *testing.T) {
	bb := testBook(t,
		seeded(t, "alice", "aa11", 0, 10),
		seeded(t, "bob", "bb22", 100, 0),
	)
	ob := NewOrderBook()

	require.NoError(t, ob.FillSell(bb, NewOrder("aa11", 5, 10)))
	require.NoError(t, ob.FillBuy(bb, NewOrder("bb22", 7, 10)))

	assert.True(t, ob.Empty())
	alice, _ := bb.Account("aa11")
	bob, _ := bb.Account("bb22")

	// The resting sell at 5 sets the deal price even though the buyer bid 7.
	assert.Equal(t, uint64(50), alice.Cash)
	assert.Zero(t, alice.Assets)
	assert.Zero(t, alice.HoldAssets)
	assert.Equal(t, uint64(50), bob.Cash)
	assert.Equal(t, uint64(10), bob.Assets)
	assert.Zero(t, bob.HoldCash)
}

func TestSellCrossSettlesAtRestingPrice(t *testing.T) {
	bb := testBook(t,
		seeded(t, "alice", "aa11", 0, 10),
		seeded(t, "bob", "bb22", 100, 0),
	)
	ob := NewOrderBook()

	require.NoError(t, ob.FillBuy(bb, NewOrder("bb22", 7, 10)))
	require.NoError(t, ob.FillSell(bb, NewOrder("aa11", 5, 10)))

	assert.True(t, ob.Empty())
	alice, _ := bb.Account("aa11")
	bob, _ := bb.Account("bb22")

	// The resting buy held 70; the seller receives exactly that hold.
	assert.Equal(t, uint64(70), alice.Cash)
	assert.Zero(t, alice.Assets)
	assert.Equal(t, uint64(30), bob.Cash)
	assert.Zero(t, bob.HoldCash)
	assert.Equal(t, uint64(10), bob.Assets)
}

func TestPartialFillBooksRemainder(t *testing.T) {
	bb := testBook(t,
		seeded(t, "alice", "aa11", 0, 5),
		seeded(t, "bob", "bb22", 100, 0),
	)
	ob := NewOrderBook()

	require.NoError(t, ob.FillSell(bb, NewOrder("aa11", 5, 5)))
	require.NoError(t, ob.FillBuy(bb, NewOrder("bb22", 5, 10)))

	require.Equal(t, 1, ob.BuyLen())
	assert.Zero(t, ob.SellLen())
	rest := ob.PeekBuy()
	assert.Equal(t, uint64(5), rest.Qty)
	assert.Equal(t, Address("bb22"), rest.Address)

	bob, _ := bb.Account("bb22")
	assert.Equal(t, uint64(5), bob.Assets)
	assert.Equal(t, uint64(25), bob.HoldCash)
	assert.Equal(t, uint64(50), bob.Cash)
}

func TestPartialFillConsumesResting(t *testing.T) {
	bb := testBook(t,
		seeded(t, "alice", "aa11", 0, 10),
		seeded(t, "bob", "bb22", 100, 0),
	)
	ob := NewOrderBook()

	require.NoError(t, ob.FillSell(bb, NewOrder("aa11", 5, 10)))
	require.NoError(t, ob.FillBuy(bb, NewOrder("bb22", 5, 4)))

	require.Equal(t, 1, ob.SellLen())
	assert.Equal(t, uint64(6), ob.PeekSell().Qty)
	alice, _ := bb.Account("aa11")
	assert.Equal(t, uint64(20), alice.Cash)
	assert.Equal(t, uint64(6), alice.HoldAssets)
}

func TestEqualPriceFillsEarliestFirst(t *testing.T) {
	bb := testBook(t,
		seeded(t, "alice", "aa11", 0, 10),
		seeded(t, "carol", "cc33", 0, 10),
		seeded(t, "bob", "bb22", 100, 0),
	)
	ob := NewOrderBook()

	require.NoError(t, ob.FillSell(bb, NewOrder("aa11", 5, 5)))
	require.NoError(t, ob.FillSell(bb, NewOrder("cc33", 5, 5)))
	require.NoError(t, ob.FillBuy(bb, NewOrder("bb22", 5, 5)))

	// Alice booked first at the same price, so her order fills.
	alice, _ := bb.Account("aa11")
	carol, _ := bb.Account("cc33")
	assert.Equal(t, uint64(25), alice.Cash)
	assert.Zero(t, alice.HoldAssets)
	assert.Zero(t, carol.Cash)
	assert.Equal(t, uint64(5), carol.HoldAssets)
	require.Equal(t, 1, ob.SellLen())
	assert.Equal(t, Address("cc33"), ob.PeekSell().Address)
}

func TestBuySweepsMultiplePriceLevels(t *testing.T) {
	bb := testBook(t,
		seeded(t, "alice", "aa11", 0, 10),
		seeded(t, "carol", "cc33", 0, 10),
		seeded(t, "bob", "bb22", 100, 0),
	)
	ob := NewOrderBook()

	require.NoError(t, ob.FillSell(bb, NewOrder("aa11", 5, 5)))
	require.NoError(t, ob.FillSell(bb, NewOrder("cc33", 6, 5)))
	require.NoError(t, ob.FillBuy(bb, NewOrder("bb22", 6, 10)))

	assert.True(t, ob.Empty())
	bob, _ := bb.Account("bb22")
	// 5 units at 5 plus 5 units at 6.
	assert.Equal(t, uint64(100-25-30), bob.Cash)
	assert.Equal(t, uint64(10), bob.Assets)
}

func TestClearKeepsNonce(t *testing.T) {
	bb := testBook(t, seeded(t, "alice", "aa11", 100, 0))
	ob := NewOrderBook()
	require.NoError(t, ob.FillBuy(bb, NewOrder("aa11", 5, 1)))

	ob.Clear()
	assert.True(t, ob.Empty())
	assert.Equal(t, uint64(1), ob.Nonce)
}

func TestMatchingConservesTotals(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		bb := NewBalanceBook()
		addrs := []Address{"aa11", "bb22"}
		for i, addr := range addrs {
			a, err := NewSeededAccount("trader", string(addr), 1_000_000, 1_000)
			if err != nil {
				rt.Fatal(err)
			}
			if err := bb.InsertNewAccount(a); err != nil {
				rt.Fatalf("inserting account %d: %v", i, err)
			}
		}
		ob := NewOrderBook()

		n := rapid.IntRange(1, 25).Draw(rt, "ops").(int)
		for i := 0; i < n; i++ {
			addr := addrs[rapid.IntRange(0, 1).Draw(rt, "trader").(int)]
			price := rapid.Uint64Range(1, 50).Draw(rt, "price").(uint64)
			qty := rapid.Uint64Range(1, 20).Draw(rt, "qty").(uint64)
			if rapid.Bool().Draw(rt, "buy").(bool) {
				_ = ob.FillBuy(bb, NewOrder(addr, price, qty))
			} else {
				_ = ob.FillSell(bb, NewOrder(addr, price, qty))
			}
		}

		var cash, assets uint64
		for _, addr := range addrs {
			a, ok := bb.Account(addr)
			if !ok {
				rt.Fatalf("account %s vanished", addr)
			}
			cash += a.Cash + a.HoldCash
			assets += a.Assets + a.HoldAssets
		}
		if cash != 2_000_000 {
			rt.Fatalf("cash not conserved: %d", cash)
		}
		if assets != 2_000 {
			rt.Fatalf("assets not conserved: %d", assets)
		}
	})
}
