package client

import (
	"github.com/swth/dmkt/market"
)

// FamilyMeta names the transaction family a request is addressed to.
type FamilyMeta struct {
	Name    string `cbor:"name"`
	Version string `cbor:"version"`
	Prefix  string `cbor:"prefix"`
}

// Request is a fully prepared submission: the encoded payload plus the exact
// state addresses the transaction will read and write. The host runtime uses
// the declared sets for scheduling, so they must cover everything the route
// touches and nothing more.
type Request struct {
	Payload     []byte     `cbor:"payload"`
	Family      FamilyMeta `cbor:"family"`
	InputAddrs  []string   `cbor:"input_addrs"`
	OutputAddrs []string   `cbor:"output_addrs"`
}

// NewRequest encodes pl and declares its read and write address sets.
func NewRequest(pl market.Payload) (Request, error) {
	bz, err := pl.Marshal()
	if err != nil {
		return Request{}, err
	}
	inputs, outputs := addrSets(pl.Kind)
	return Request{
		Payload: bz,
		Family: FamilyMeta{
			Name:    market.FamilyName,
			Version: market.FamilyVersion,
			Prefix:  market.FamilyPrefix,
		},
		InputAddrs:  inputs,
		OutputAddrs: outputs,
	}, nil
}

// addrSets returns the reads and writes of each message variant.
func addrSets(kind market.Kind) (inputs, outputs []string) {
	switch kind {
	case market.KindRegisterAccount:
		return []string{market.StateBalanceBook},
			[]string{market.StateBalanceBook}
	case market.KindPlaceBuy, market.KindPlaceSell:
		return []string{market.StateBalanceBook, market.StateOrderBook},
			[]string{market.StateBalanceBook, market.StateOrderBook}
	case market.KindClearOrderBook:
		return nil, []string{market.StateOrderBook}
	case market.KindClearBalanceBook:
		return nil, []string{market.StateBalanceBook}
	case market.KindNewAuction:
		return []string{market.StateAuctionList},
			[]string{market.StateAuctionList}
	case market.KindAuctionBid, market.KindEndAuction:
		return []string{market.StateAuctionList, market.StateBalanceBook},
			[]string{market.StateAuctionList, market.StateBalanceBook}
	case market.KindClearAuctionList:
		return nil, []string{market.StateAuctionList}
	case market.KindNewSealedAuction:
		return []string{market.StateSealedAuctionList, market.StateGovernanceResult},
			[]string{market.StateSealedAuctionList}
	case market.KindSealedBid, market.KindUnsealedBid:
		return []string{market.StateSealedAuctionList},
			[]string{market.StateSealedAuctionList}
	case market.KindEndSealedAuction:
		return []string{market.StateSealedAuctionList, market.StateBalanceBook},
			[]string{market.StateSealedAuctionList, market.StateBalanceBook}
	case market.KindClearSealedAuctionList:
		return nil, []string{market.StateSealedAuctionList}
	default:
		return nil, nil
	}
}
