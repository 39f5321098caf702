package market

import (
	"fmt"
	"sort"
)

// Bid is one bid against an open auction.
type Bid struct {
	Address Address `cbor:"address"`
	Serial  uint64  `cbor:"serial"`
	Amount  uint64  `cbor:"amount"`
}

// NewBid builds a bid on the auction with the given serial.
func NewBid(addr Address, serial, amount uint64) Bid {
	return Bid{Address: addr, Serial: serial, Amount: amount}
}

// ValidateBasic checks the bid's submission invariants.
func (b Bid) ValidateBasic() error {
	if err := b.Address.ValidateBasic(); err != nil {
		return err
	}
	if b.Address.Empty() {
		return EmptyFieldError{Field: "bid address"}
	}
	if b.Amount == 0 {
		return EmptyFieldError{Field: "bid amount"}
	}
	return nil
}

// Auction is a single-item ascending auction. Once closed it never reopens.
// The bidder's cash is held while they lead and released when outbid;
// superseded high bids are archived in History.
type Auction struct {
	Serial      uint64  `cbor:"serial"`
	Description string  `cbor:"description"`
	Open        bool    `cbor:"open"`
	LotQty      uint64  `cbor:"lot_qty"`
	HighBidder  Address `cbor:"high_bidder"`
	HighBid     *Bid    `cbor:"high_bid,omitempty"`
	EndDate     uint64  `cbor:"end_date"`
	History     []Bid   `cbor:"history,omitempty"`
}

// NewAuction builds an auction. The admin address seeds HighBidder until a
// first bid arrives.
func NewAuction(serial uint64, description string, open bool, lotQty, endDate uint64) Auction {
	return Auction{
		Serial:      serial,
		Description: description,
		Open:        open,
		LotQty:      lotQty,
		HighBidder:  AddressFromPubKey(AdminPubKey),
		EndDate:     endDate,
	}
}

// ValidateBasic checks the auction's submission invariants.
func (a Auction) ValidateBasic() error {
	if a.LotQty == 0 {
		return EmptyFieldError{Field: "auction lot quantity"}
	}
	return nil
}

// AuctionList holds every auction in the family keyed by serial, plus the
// running total of units auctioned off.
type AuctionList struct {
	Auctions       map[uint64]*Auction `cbor:"auctions"`
	TotalAuctioned uint64              `cbor:"total_auctioned"`
}

// NewAuctionList returns an empty auction list.
func NewAuctionList() *AuctionList {
	return &AuctionList{Auctions: make(map[uint64]*Auction)}
}

// Add inserts an auction, replacing any previous auction with that serial.
func (al *AuctionList) Add(a Auction) {
	auction := a
	al.Auctions[a.Serial] = &auction
}

// Serials returns the auction serials in ascending order.
func (al *AuctionList) Serials() []uint64 {
	serials := make([]uint64, 0, len(al.Auctions))
	for s := range al.Auctions {
		serials = append(serials, s)
	}
	sort.Slice(serials, func(i, j int) bool { return serials[i] < serials[j] })
	return serials
}

// History returns the superseded high bids of the auction with the given
// serial, earliest first.
func (al *AuctionList) History(serial uint64) ([]Bid, error) {
	a, ok := al.Auctions[serial]
	if !ok {
		return nil, NoSuchAuctionError{Serial: serial}
	}
	history := make([]Bid, len(a.History))
	copy(history, a.History)
	return history, nil
}

// HighBid returns the current high bid of the auction with the given serial,
// or nil if nobody has bid.
func (al *AuctionList) HighBid(serial uint64) (*Bid, error) {
	a, ok := al.Auctions[serial]
	if !ok {
		return nil, NoSuchAuctionError{Serial: serial}
	}
	if a.HighBid == nil {
		return nil, nil
	}
	bid := *a.HighBid
	return &bid, nil
}

// PlaceBid applies bid to its auction. The bidder must have liquid cash
// covering the bid and must strictly beat the current high bid; an
// unaffordable bid fails on funds even when it would also be too low. On
// success the new bidder's cash is held, the previous leader's hold is
// released and their bid archived.
func (al *AuctionList) PlaceBid(bb *BalanceBook, bid Bid) error {
	a, ok := al.Auctions[bid.Serial]
	if !ok {
		return NoSuchAuctionError{Serial: bid.Serial}
	}
	if !a.Open {
		return AuctionClosedError{Serial: bid.Serial}
	}

	acct, ok := bb.Account(bid.Address)
	if !ok {
		return UnknownAccountError{Address: bid.Address}
	}

	var currentHigh uint64
	if a.HighBid != nil {
		currentHigh = a.HighBid.Amount
	}
	if acct.Cash < bid.Amount {
		return InsufficientFundsError{Address: bid.Address, Need: bid.Amount, Have: acct.Cash}
	}
	if bid.Amount <= currentHigh {
		return BidTooLowError{Serial: bid.Serial, Bid: bid.Amount, HighBid: currentHigh}
	}

	if a.HighBid != nil {
		a.History = append(a.History, *a.HighBid)
	}
	prevBidder := a.HighBidder

	if err := bb.DebitCash(bid.Address, bid.Amount); err != nil {
		return err
	}
	if err := bb.CreditHoldCash(bid.Address, bid.Amount); err != nil {
		return err
	}
	if currentHigh > 0 {
		if err := bb.CreditCash(prevBidder, currentHigh); err != nil {
			return err
		}
		if err := bb.DebitHoldCash(prevBidder, currentHigh); err != nil {
			return err
		}
	}

	a.HighBidder = bid.Address
	bidCopy := bid
	a.HighBid = &bidCopy
	return nil
}

// EndAuction closes the auction with the given serial. If a high bid exists
// the winner's held cash is spent and the lot is credited to their assets;
// ending an auction nobody bid on just closes it.
func (al *AuctionList) EndAuction(bb *BalanceBook, serial uint64) error {
	a, ok := al.Auctions[serial]
	if !ok {
		return NoSuchAuctionError{Serial: serial}
	}
	a.Open = false
	if a.HighBid == nil {
		return nil
	}
	if err := bb.DebitHoldCash(a.HighBidder, a.HighBid.Amount); err != nil {
		return err
	}
	if err := bb.CreditAssets(a.HighBidder, a.LotQty); err != nil {
		return err
	}
	al.TotalAuctioned += a.LotQty
	return nil
}

func (a Auction) String() string {
	state := "open"
	if !a.Open {
		state = "closed"
	}
	return fmt.Sprintf("auction %d (%s): %q, lot %d, %d superseded bids", a.Serial, state, a.Description, a.LotQty, len(a.History))
}
