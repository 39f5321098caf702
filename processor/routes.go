package processor

import (
	"github.com/swth/dmkt/market"
)

// capBase scales the governance result into the sealed-auction lot cap:
// cap = capBase * result / 100.
const capBase uint64 = 10_000_000_000

// Each route fetches the ledger objects its message needs, applies the
// engine operation and buffers back every object it touches. Errors abort
// the route before anything is committed.

func registerAccountRoute(st *FamilyState, acct market.Account) error {
	bb, err := st.BalanceBook()
	if err != nil {
		return err
	}
	if err := bb.InsertNewAccount(acct); err != nil {
		return err
	}
	return st.SetBalanceBook(bb)
}

func placeBuyRoute(st *FamilyState, order market.Order) error {
	bb, err := st.BalanceBook()
	if err != nil {
		return err
	}
	ob, err := st.OrderBook()
	if err != nil {
		return err
	}
	if err := ob.FillBuy(bb, order); err != nil {
		return err
	}
	if err := st.SetBalanceBook(bb); err != nil {
		return err
	}
	return st.SetOrderBook(ob)
}

func placeSellRoute(st *FamilyState, order market.Order) error {
	bb, err := st.BalanceBook()
	if err != nil {
		return err
	}
	ob, err := st.OrderBook()
	if err != nil {
		return err
	}
	if err := ob.FillSell(bb, order); err != nil {
		return err
	}
	if err := st.SetBalanceBook(bb); err != nil {
		return err
	}
	return st.SetOrderBook(ob)
}

func clearOrderBookRoute(st *FamilyState) error {
	return st.SetOrderBook(market.NewOrderBook())
}

func clearBalanceBookRoute(st *FamilyState) error {
	return st.SetBalanceBook(market.NewBalanceBook())
}

func newAuctionRoute(st *FamilyState, a market.Auction) error {
	al, err := st.AuctionList()
	if err != nil {
		return err
	}
	al.Add(a)
	return st.SetAuctionList(al)
}

func auctionBidRoute(st *FamilyState, bid market.Bid) error {
	bb, err := st.BalanceBook()
	if err != nil {
		return err
	}
	al, err := st.AuctionList()
	if err != nil {
		return err
	}
	if err := al.PlaceBid(bb, bid); err != nil {
		return err
	}
	if err := st.SetAuctionList(al); err != nil {
		return err
	}
	return st.SetBalanceBook(bb)
}

func endAuctionRoute(st *FamilyState, serial uint64) error {
	bb, err := st.BalanceBook()
	if err != nil {
		return err
	}
	al, err := st.AuctionList()
	if err != nil {
		return err
	}
	if err := al.EndAuction(bb, serial); err != nil {
		return err
	}
	if err := st.SetAuctionList(al); err != nil {
		return err
	}
	return st.SetBalanceBook(bb)
}

func clearAuctionListRoute(st *FamilyState) error {
	return st.SetAuctionList(market.NewAuctionList())
}

func newSealedAuctionRoute(st *FamilyState, sa market.SealedAuction) error {
	result, err := st.GovernanceResult()
	if err != nil {
		return err
	}
	cap := capBase * result / 100
	if sa.LotQty > cap {
		return market.GovernanceCapError{LotQty: sa.LotQty, Cap: cap}
	}
	sl, err := st.SealedAuctionList()
	if err != nil {
		return err
	}
	sl.Add(sa)
	return st.SetSealedAuctionList(sl)
}

func sealedBidRoute(st *FamilyState, sealed market.SealedBid) error {
	sl, err := st.SealedAuctionList()
	if err != nil {
		return err
	}
	if err := sl.SubmitSealedBid(sealed); err != nil {
		return err
	}
	return st.SetSealedAuctionList(sl)
}

func unsealedBidRoute(st *FamilyState, unsealed market.UnsealedBid) error {
	sl, err := st.SealedAuctionList()
	if err != nil {
		return err
	}
	if err := sl.SubmitUnsealedBid(unsealed); err != nil {
		return err
	}
	return st.SetSealedAuctionList(sl)
}

func endSealedAuctionRoute(st *FamilyState, serial uint64) error {
	bb, err := st.BalanceBook()
	if err != nil {
		return err
	}
	sl, err := st.SealedAuctionList()
	if err != nil {
		return err
	}
	if err := sl.EndAuction(bb, serial); err != nil {
		return err
	}
	if err := st.SetSealedAuctionList(sl); err != nil {
		return err
	}
	return st.SetBalanceBook(bb)
}

func clearSealedAuctionListRoute(st *FamilyState) error {
	return st.SetSealedAuctionList(market.NewSealedAuctionList())
}
