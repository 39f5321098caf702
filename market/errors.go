package market

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBids is returned when a sealed auction is ended with an empty
	// price pool. The auction closes with no payout.
	ErrNoBids = errors.New("no revealed bids")

	// ErrNoLeader is returned when a sealed auction has revealed prices but
	// no recorded leader. Reveal bookkeeping should make this impossible.
	ErrNoLeader = errors.New("price pool is non-empty but no leader was recorded")

	// ErrNoGovernanceResult is returned when a sealed auction is created
	// before any governance result has been published.
	ErrNoGovernanceResult = errors.New("no governance result has been published")

	// ErrUnknownMessage is returned for a payload kind outside the closed
	// message set.
	ErrUnknownMessage = errors.New("unknown message kind")
)

// LengthError reports a field exceeding its maximum length.
type LengthError struct {
	Field string
	Max   int
	Got   int
}

func (e LengthError) Error() string {
	return fmt.Sprintf("%s must be at most %d characters, got %d", e.Field, e.Max, e.Got)
}

// EncodingError reports a field holding characters outside its expected
// encoding.
type EncodingError struct {
	Field    string
	Encoding string
	Got      string
}

func (e EncodingError) Error() string {
	return fmt.Sprintf("%s must be %s, got %q", e.Field, e.Encoding, e.Got)
}

// EmptyFieldError reports a required field left empty.
type EmptyFieldError struct {
	Field string
}

func (e EmptyFieldError) Error() string {
	return fmt.Sprintf("%s must not be empty", e.Field)
}

// DuplicateAccountError reports registration of an address that already
// exists in the balance book.
type DuplicateAccountError struct {
	Address Address
}

func (e DuplicateAccountError) Error() string {
	return fmt.Sprintf("account %s already exists in the balance book", e.Address)
}

// UnknownAccountError reports a balance operation against an address with no
// account.
type UnknownAccountError struct {
	Address Address
}

func (e UnknownAccountError) Error() string {
	return fmt.Sprintf("account %s does not exist in the balance book", e.Address)
}

// OverflowError reports a checked addition or multiplication that would wrap.
type OverflowError struct {
	Field string
	Op    string
	A, B  uint64
}

func (e OverflowError) Error() string {
	return fmt.Sprintf("uint64 overflow in %s on field %q: operands %d and %d", e.Op, e.Field, e.A, e.B)
}

// UnderflowError reports a checked subtraction that would go negative.
type UnderflowError struct {
	Field string
	Op    string
	A, B  uint64
}

func (e UnderflowError) Error() string {
	return fmt.Sprintf("uint64 underflow in %s on field %q: operands %d and %d", e.Op, e.Field, e.A, e.B)
}

// InsufficientFundsError reports an order or bid exceeding the submitter's
// liquid cash.
type InsufficientFundsError struct {
	Address Address
	Need    uint64
	Have    uint64
}

func (e InsufficientFundsError) Error() string {
	return fmt.Sprintf("account %s needs %d liquid cash but has %d", e.Address, e.Need, e.Have)
}

// InsufficientAssetsError reports a sell order exceeding the submitter's
// liquid assets.
type InsufficientAssetsError struct {
	Address Address
	Need    uint64
	Have    uint64
}

func (e InsufficientAssetsError) Error() string {
	return fmt.Sprintf("account %s needs %d liquid assets but has %d", e.Address, e.Need, e.Have)
}

// NoSuchAuctionError reports a serial with no matching auction.
type NoSuchAuctionError struct {
	Serial uint64
}

func (e NoSuchAuctionError) Error() string {
	return fmt.Sprintf("no auction found with serial %d", e.Serial)
}

// AuctionClosedError reports a bid against an auction that has ended.
type AuctionClosedError struct {
	Serial uint64
}

func (e AuctionClosedError) Error() string {
	return fmt.Sprintf("auction %d is no longer open for bidding", e.Serial)
}

// BidTooLowError reports a bid at or below the current high bid.
type BidTooLowError struct {
	Serial  uint64
	Bid     uint64
	HighBid uint64
}

func (e BidTooLowError) Error() string {
	return fmt.Sprintf("bid of %d on auction %d does not beat the current high bid of %d", e.Bid, e.Serial, e.HighBid)
}

// NoMatchingCommitmentError reports an unsealed bid whose digest matches no
// committed sealed bid.
type NoMatchingCommitmentError struct {
	Serial uint64
}

func (e NoMatchingCommitmentError) Error() string {
	return fmt.Sprintf("no sealed bid on auction %d corresponds to the unsealed bid", e.Serial)
}

// GovernanceCapError reports a sealed-auction lot exceeding the cap derived
// from the published governance result.
type GovernanceCapError struct {
	LotQty uint64
	Cap    uint64
}

func (e GovernanceCapError) Error() string {
	return fmt.Sprintf("cannot auction %d units: governance cap is %d", e.LotQty, e.Cap)
}
