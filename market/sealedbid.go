package market

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"sort"
)

// SealedBid is the commit half of a sealed auction bid: a digest binding the
// bidder to a still-secret price. No address is carried, keeping the commit
// anonymous, and no funds are held at commit time.
type SealedBid struct {
	Serial uint64 `cbor:"serial"`
	Digest string `cbor:"digest"`
}

// ValidateBasic checks the sealed bid's submission invariants.
func (s SealedBid) ValidateBasic() error {
	if len(s.Digest) == 0 {
		return EmptyFieldError{Field: "sealed bid digest"}
	}
	return nil
}

// UnsealedBid is the reveal half of a sealed auction bid. The salt prevents
// brute-forcing the bidder and price from the committed digest.
type UnsealedBid struct {
	Address Address `cbor:"address"`
	Serial  uint64  `cbor:"serial"`
	Price   uint64  `cbor:"price"`
	Salt    string  `cbor:"salt"`
}

// NewUnsealedBid builds a reveal for the auction with the given serial.
func NewUnsealedBid(addr Address, serial, price uint64, salt string) UnsealedBid {
	return UnsealedBid{Address: addr, Serial: serial, Price: price, Salt: salt}
}

// ValidateBasic checks the unsealed bid's submission invariants.
func (u UnsealedBid) ValidateBasic() error {
	if err := u.Address.ValidateBasic(); err != nil {
		return err
	}
	if u.Address.Empty() {
		return EmptyFieldError{Field: "unsealed bid address"}
	}
	return nil
}

// Digest returns the SHA-512 hex digest binding this bid.
func (u UnsealedBid) Digest() string {
	sum := sha512.Sum512([]byte(fmt.Sprintf("%s%d%d%s", u.Address, u.Serial, u.Price, u.Salt)))
	return hex.EncodeToString(sum[:])
}

// Seal returns the commitment for this bid.
func (u UnsealedBid) Seal() SealedBid {
	return SealedBid{Serial: u.Serial, Digest: u.Digest()}
}

// SealedAuction is a two-phase commit-reveal second-price auction. Commits
// populate Bids with unrevealed digests; reveals fill in the matching entry,
// record the price in the Prices pool (equal prices from different bidders
// collapse to one entry) and promote the highest revealed price to leader.
// Settlement charges the leader the second-highest distinct price from liquid
// cash, since sealed bids never hold funds.
type SealedAuction struct {
	Serial      uint64                  `cbor:"serial"`
	Description string                  `cbor:"description"`
	Open        bool                    `cbor:"open"`
	LotQty      uint64                  `cbor:"lot_qty"`
	Leader      Address                 `cbor:"leader"`
	LeaderPrice uint64                  `cbor:"leader_price"`
	SecondPrice *uint64                 `cbor:"second_price,omitempty"`
	Bids        map[string]*UnsealedBid `cbor:"bids"`
	Prices      map[uint64]bool         `cbor:"prices"`
	EndDate     uint64                  `cbor:"end_date"`
}

// NewSealedAuction builds a sealed auction with empty pools.
func NewSealedAuction(serial uint64, description string, open bool, lotQty, endDate uint64) SealedAuction {
	return SealedAuction{
		Serial:      serial,
		Description: description,
		Open:        open,
		LotQty:      lotQty,
		Bids:        make(map[string]*UnsealedBid),
		Prices:      make(map[uint64]bool),
		EndDate:     endDate,
	}
}

// ValidateBasic checks the sealed auction's submission invariants.
func (sa SealedAuction) ValidateBasic() error {
	if sa.LotQty == 0 {
		return EmptyFieldError{Field: "sealed auction lot quantity"}
	}
	return nil
}

// reveal accepts an unsealed bid whose digest matches a prior commitment.
func (sa *SealedAuction) reveal(u UnsealedBid) error {
	digest := u.Digest()
	if _, ok := sa.Bids[digest]; !ok {
		return NoMatchingCommitmentError{Serial: u.Serial}
	}
	if u.Price > sa.LeaderPrice {
		sa.Leader = u.Address
		sa.LeaderPrice = u.Price
	}
	sa.Prices[u.Price] = true
	bid := u
	sa.Bids[digest] = &bid
	return nil
}

// settlementPrice returns the second-highest distinct revealed price, or the
// sole price if only one distinct price was revealed.
func (sa *SealedAuction) settlementPrice() (uint64, error) {
	if len(sa.Prices) == 0 {
		return 0, ErrNoBids
	}
	prices := make([]uint64, 0, len(sa.Prices))
	for p := range sa.Prices {
		prices = append(prices, p)
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i] > prices[j] })
	if len(prices) == 1 {
		return prices[0], nil
	}
	return prices[1], nil
}

// endAuction closes the auction and settles with the leader.
func (sa *SealedAuction) endAuction(bb *BalanceBook) error {
	sa.Open = false
	price, err := sa.settlementPrice()
	if err != nil {
		return err
	}
	if sa.Leader.Empty() {
		return ErrNoLeader
	}
	sa.SecondPrice = &price
	if err := bb.DebitCash(sa.Leader, price); err != nil {
		return err
	}
	return bb.CreditAssets(sa.Leader, sa.LotQty)
}

func (sa SealedAuction) String() string {
	state := "open"
	if !sa.Open {
		state = "closed"
	}
	return fmt.Sprintf("sealed auction %d (%s): %q, lot %d, %d commitments, %d distinct prices",
		sa.Serial, state, sa.Description, sa.LotQty, len(sa.Bids), len(sa.Prices))
}

// SealedAuctionList holds every sealed auction in the family keyed by serial.
type SealedAuctionList struct {
	Auctions       map[uint64]*SealedAuction `cbor:"auctions"`
	TotalAuctioned uint64                    `cbor:"total_auctioned"`
}

// NewSealedAuctionList returns an empty sealed auction list.
func NewSealedAuctionList() *SealedAuctionList {
	return &SealedAuctionList{Auctions: make(map[uint64]*SealedAuction)}
}

// Add inserts an auction, replacing any previous auction with that serial.
func (sl *SealedAuctionList) Add(sa SealedAuction) {
	auction := sa
	sl.Auctions[sa.Serial] = &auction
}

// SubmitSealedBid records a commitment in the bid pool. The ledger is not
// touched.
func (sl *SealedAuctionList) SubmitSealedBid(sealed SealedBid) error {
	sa, ok := sl.Auctions[sealed.Serial]
	if !ok {
		return NoSuchAuctionError{Serial: sealed.Serial}
	}
	sa.Bids[sealed.Digest] = nil
	return nil
}

// SubmitUnsealedBid reveals a previously committed bid.
func (sl *SealedAuctionList) SubmitUnsealedBid(unsealed UnsealedBid) error {
	sa, ok := sl.Auctions[unsealed.Serial]
	if !ok {
		return NoSuchAuctionError{Serial: unsealed.Serial}
	}
	return sa.reveal(unsealed)
}

// EndAuction closes the sealed auction with the given serial and settles:
// the leader pays the second-highest distinct revealed price from liquid cash
// and receives the lot.
func (sl *SealedAuctionList) EndAuction(bb *BalanceBook, serial uint64) error {
	sa, ok := sl.Auctions[serial]
	if !ok {
		return NoSuchAuctionError{Serial: serial}
	}
	return sa.endAuction(bb)
}
