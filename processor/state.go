package processor

import (
	"fmt"

	"github.com/swth/dmkt/market"
)

// FamilyState is one transaction's view of the family's ledger objects. Reads
// go through to the store; writes are buffered in memory and only reach the
// store when Flush is called, so a route that fails partway commits nothing.
// An absent blob decodes to the type's zero value, except the governance
// result, whose absence is an error.
type FamilyState struct {
	store  Store
	writes map[string][]byte
	order  []string
}

// NewFamilyState wraps store for a single transaction.
func NewFamilyState(store Store) *FamilyState {
	return &FamilyState{
		store:  store,
		writes: make(map[string][]byte),
	}
}

func (s *FamilyState) get(addr string) ([]byte, error) {
	if bz, ok := s.writes[addr]; ok {
		return bz, nil
	}
	return s.store.Get(addr)
}

func (s *FamilyState) set(addr string, value []byte) {
	if _, ok := s.writes[addr]; !ok {
		s.order = append(s.order, addr)
	}
	s.writes[addr] = value
}

// Flush commits every buffered write to the store in first-write order.
func (s *FamilyState) Flush() error {
	for _, addr := range s.order {
		if err := s.store.Set(addr, s.writes[addr]); err != nil {
			return fmt.Errorf("writing state at %s: %w", addr, err)
		}
	}
	return nil
}

// BalanceBook loads the balance book, empty if never written.
func (s *FamilyState) BalanceBook() (*market.BalanceBook, error) {
	bz, err := s.get(market.StateBalanceBook)
	if err != nil {
		return nil, fmt.Errorf("reading balance book: %w", err)
	}
	if bz == nil {
		return market.NewBalanceBook(), nil
	}
	bb := market.NewBalanceBook()
	if err := market.UnmarshalCBOR(bz, bb); err != nil {
		return nil, fmt.Errorf("decoding balance book: %w", err)
	}
	return bb, nil
}

// SetBalanceBook buffers the balance book for commit.
func (s *FamilyState) SetBalanceBook(bb *market.BalanceBook) error {
	bz, err := market.MarshalCBOR(bb)
	if err != nil {
		return fmt.Errorf("encoding balance book: %w", err)
	}
	s.set(market.StateBalanceBook, bz)
	return nil
}

// OrderBook loads the order book, empty if never written.
func (s *FamilyState) OrderBook() (*market.OrderBook, error) {
	bz, err := s.get(market.StateOrderBook)
	if err != nil {
		return nil, fmt.Errorf("reading order book: %w", err)
	}
	if bz == nil {
		return market.NewOrderBook(), nil
	}
	ob := market.NewOrderBook()
	if err := market.UnmarshalCBOR(bz, ob); err != nil {
		return nil, fmt.Errorf("decoding order book: %w", err)
	}
	return ob, nil
}

// SetOrderBook buffers the order book for commit.
func (s *FamilyState) SetOrderBook(ob *market.OrderBook) error {
	bz, err := market.MarshalCBOR(ob)
	if err != nil {
		return fmt.Errorf("encoding order book: %w", err)
	}
	s.set(market.StateOrderBook, bz)
	return nil
}

// AuctionList loads the open-auction list, empty if never written.
func (s *FamilyState) AuctionList() (*market.AuctionList, error) {
	bz, err := s.get(market.StateAuctionList)
	if err != nil {
		return nil, fmt.Errorf("reading auction list: %w", err)
	}
	if bz == nil {
		return market.NewAuctionList(), nil
	}
	al := market.NewAuctionList()
	if err := market.UnmarshalCBOR(bz, al); err != nil {
		return nil, fmt.Errorf("decoding auction list: %w", err)
	}
	return al, nil
}

// SetAuctionList buffers the auction list for commit.
func (s *FamilyState) SetAuctionList(al *market.AuctionList) error {
	bz, err := market.MarshalCBOR(al)
	if err != nil {
		return fmt.Errorf("encoding auction list: %w", err)
	}
	s.set(market.StateAuctionList, bz)
	return nil
}

// SealedAuctionList loads the sealed-auction list, empty if never written.
func (s *FamilyState) SealedAuctionList() (*market.SealedAuctionList, error) {
	bz, err := s.get(market.StateSealedAuctionList)
	if err != nil {
		return nil, fmt.Errorf("reading sealed auction list: %w", err)
	}
	if bz == nil {
		return market.NewSealedAuctionList(), nil
	}
	sl := market.NewSealedAuctionList()
	if err := market.UnmarshalCBOR(bz, sl); err != nil {
		return nil, fmt.Errorf("decoding sealed auction list: %w", err)
	}
	return sl, nil
}

// SetSealedAuctionList buffers the sealed auction list for commit.
func (s *FamilyState) SetSealedAuctionList(sl *market.SealedAuctionList) error {
	bz, err := market.MarshalCBOR(sl)
	if err != nil {
		return fmt.Errorf("encoding sealed auction list: %w", err)
	}
	s.set(market.StateSealedAuctionList, bz)
	return nil
}

// GovernanceResult loads the published governance result from the voting
// family's namespace. Unlike the family's own objects it has no default:
// nothing has been published until an election ran.
func (s *FamilyState) GovernanceResult() (uint64, error) {
	bz, err := s.get(market.StateGovernanceResult)
	if err != nil {
		return 0, fmt.Errorf("reading governance result: %w", err)
	}
	if bz == nil {
		return 0, market.ErrNoGovernanceResult
	}
	var r uint64
	if err := market.UnmarshalCBOR(bz, &r); err != nil {
		return 0, fmt.Errorf("decoding governance result: %w", err)
	}
	return r, nil
}
