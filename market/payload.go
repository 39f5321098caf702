package market

import "fmt"

// Kind tags a payload with its message variant. The set is closed: the
// router switches over it exhaustively and rejects anything else.
type Kind uint8

const (
	KindRegisterAccount Kind = iota + 1
	KindPlaceBuy
	KindPlaceSell
	KindClearOrderBook
	KindClearBalanceBook
	KindNewAuction
	KindAuctionBid
	KindEndAuction
	KindClearAuctionList
	KindNewSealedAuction
	KindSealedBid
	KindUnsealedBid
	KindEndSealedAuction
	KindClearSealedAuctionList
)

func (k Kind) String() string {
	switch k {
	case KindRegisterAccount:
		return "register_account"
	case KindPlaceBuy:
		return "place_buy"
	case KindPlaceSell:
		return "place_sell"
	case KindClearOrderBook:
		return "clear_order_book"
	case KindClearBalanceBook:
		return "clear_balance_book"
	case KindNewAuction:
		return "new_auction"
	case KindAuctionBid:
		return "auction_bid"
	case KindEndAuction:
		return "end_auction"
	case KindClearAuctionList:
		return "clear_auction_list"
	case KindNewSealedAuction:
		return "new_sealed_auction"
	case KindSealedBid:
		return "sealed_bid"
	case KindUnsealedBid:
		return "unsealed_bid"
	case KindEndSealedAuction:
		return "end_sealed_auction"
	case KindClearSealedAuctionList:
		return "clear_sealed_auction_list"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Payload is the tagged union carried by a transaction. Exactly the body
// selected by Kind is set; clear messages and the serial-only end messages
// carry no body beyond Serial.
type Payload struct {
	Kind          Kind           `cbor:"kind"`
	Account       *Account       `cbor:"account,omitempty"`
	BuyOrder      *Order         `cbor:"buy_order,omitempty"`
	SellOrder     *Order         `cbor:"sell_order,omitempty"`
	Auction       *Auction       `cbor:"auction,omitempty"`
	Bid           *Bid           `cbor:"bid,omitempty"`
	SealedAuction *SealedAuction `cbor:"sealed_auction,omitempty"`
	SealedBid     *SealedBid     `cbor:"sealed_bid,omitempty"`
	UnsealedBid   *UnsealedBid   `cbor:"unsealed_bid,omitempty"`
	Serial        uint64         `cbor:"serial,omitempty"`
}

// Marshal encodes the payload to its wire form.
func (p Payload) Marshal() ([]byte, error) {
	return MarshalCBOR(p)
}

// UnmarshalPayload decodes a wire payload.
func UnmarshalPayload(data []byte) (Payload, error) {
	var p Payload
	if err := UnmarshalCBOR(data, &p); err != nil {
		return Payload{}, err
	}
	return p, nil
}

// ValidateBasic checks that the body matching Kind is present and valid.
func (p Payload) ValidateBasic() error {
	switch p.Kind {
	case KindRegisterAccount:
		if p.Account == nil {
			return EmptyFieldError{Field: "account body"}
		}
		return p.Account.ValidateBasic()
	case KindPlaceBuy:
		if p.BuyOrder == nil {
			return EmptyFieldError{Field: "buy order body"}
		}
		return p.BuyOrder.ValidateBasic()
	case KindPlaceSell:
		if p.SellOrder == nil {
			return EmptyFieldError{Field: "sell order body"}
		}
		return p.SellOrder.ValidateBasic()
	case KindNewAuction:
		if p.Auction == nil {
			return EmptyFieldError{Field: "auction body"}
		}
		return p.Auction.ValidateBasic()
	case KindAuctionBid:
		if p.Bid == nil {
			return EmptyFieldError{Field: "bid body"}
		}
		return p.Bid.ValidateBasic()
	case KindNewSealedAuction:
		if p.SealedAuction == nil {
			return EmptyFieldError{Field: "sealed auction body"}
		}
		return p.SealedAuction.ValidateBasic()
	case KindSealedBid:
		if p.SealedBid == nil {
			return EmptyFieldError{Field: "sealed bid body"}
		}
		return p.SealedBid.ValidateBasic()
	case KindUnsealedBid:
		if p.UnsealedBid == nil {
			return EmptyFieldError{Field: "unsealed bid body"}
		}
		return p.UnsealedBid.ValidateBasic()
	case KindEndAuction, KindEndSealedAuction,
		KindClearOrderBook, KindClearBalanceBook,
		KindClearAuctionList, KindClearSealedAuctionList:
		return nil
	default:
		return ErrUnknownMessage
	}
}

// Envelope is what the host runtime hands the processor per transaction: the
// already-authenticated signer's public key and the encoded payload.
// Signature verification happened upstream.
type Envelope struct {
	SignerPublicKey string `cbor:"signer_public_key"`
	Payload         []byte `cbor:"payload"`
}

// Marshal encodes the envelope to its wire form.
func (e Envelope) Marshal() ([]byte, error) {
	return MarshalCBOR(e)
}

// UnmarshalEnvelope decodes a wire envelope.
func UnmarshalEnvelope(data []byte) (Envelope, error) {
	var e Envelope
	if err := UnmarshalCBOR(data, &e); err != nil {
		return Envelope{}, err
	}
	return e, nil
}
