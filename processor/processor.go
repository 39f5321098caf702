package processor

import (
	"fmt"
	"time"

	"github.com/swth/dmkt/libs/log"
	"github.com/swth/dmkt/market"
)

// Processor is the family's state-transition function. The host runtime
// calls Apply once per transaction, synchronously; there is no concurrency
// inside a route. Every ledger object is one blob at one reserved address,
// so transactions touching the same object must be serialized by the caller.
type Processor struct {
	store   Store
	logger  log.Logger
	metrics *Metrics
}

// Option configures a Processor.
type Option func(*Processor)

// WithMetrics instruments the processor.
func WithMetrics(m *Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

// New builds a Processor over store.
func New(store Store, logger log.Logger, opts ...Option) *Processor {
	p := &Processor{
		store:   store,
		logger:  logger,
		metrics: NopMetrics(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Apply executes one transaction envelope against the current state. The
// route runs against a buffered view and the buffer is committed only if the
// whole route succeeds; a failed route changes nothing and the error is
// returned to the host runtime so the transaction is rejected.
func (p *Processor) Apply(env market.Envelope) error {
	signer := market.AddressFromPubKey(env.SignerPublicKey)

	pl, err := market.UnmarshalPayload(env.Payload)
	if err != nil {
		p.metrics.FailedTxs.Add(1)
		return fmt.Errorf("decoding payload: %w", err)
	}
	if err := pl.ValidateBasic(); err != nil {
		p.metrics.FailedTxs.Add(1)
		return fmt.Errorf("invalid %s payload: %w", pl.Kind, err)
	}

	st := NewFamilyState(p.store)
	start := time.Now()
	err = p.route(st, pl)
	p.metrics.RouteSeconds.With("kind", pl.Kind.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.FailedTxs.Add(1)
		p.logger.Error("route failed", "kind", pl.Kind, "signer", signer, "err", err)
		return fmt.Errorf("%s route: %w", pl.Kind, err)
	}

	if err := st.Flush(); err != nil {
		p.metrics.FailedTxs.Add(1)
		return err
	}
	p.metrics.ProcessedTxs.Add(1)
	p.logger.Debug("applied transaction", "kind", pl.Kind, "signer", signer)
	return nil
}

// route dispatches over the closed message set.
func (p *Processor) route(st *FamilyState, pl market.Payload) error {
	switch pl.Kind {
	case market.KindRegisterAccount:
		return registerAccountRoute(st, *pl.Account)
	case market.KindPlaceBuy:
		return placeBuyRoute(st, *pl.BuyOrder)
	case market.KindPlaceSell:
		return placeSellRoute(st, *pl.SellOrder)
	case market.KindClearOrderBook:
		return clearOrderBookRoute(st)
	case market.KindClearBalanceBook:
		return clearBalanceBookRoute(st)
	case market.KindNewAuction:
		return newAuctionRoute(st, *pl.Auction)
	case market.KindAuctionBid:
		return auctionBidRoute(st, *pl.Bid)
	case market.KindEndAuction:
		return endAuctionRoute(st, pl.Serial)
	case market.KindClearAuctionList:
		return clearAuctionListRoute(st)
	case market.KindNewSealedAuction:
		return newSealedAuctionRoute(st, *pl.SealedAuction)
	case market.KindSealedBid:
		return sealedBidRoute(st, *pl.SealedBid)
	case market.KindUnsealedBid:
		return unsealedBidRoute(st, *pl.UnsealedBid)
	case market.KindEndSealedAuction:
		return endSealedAuctionRoute(st, pl.Serial)
	case market.KindClearSealedAuctionList:
		return clearSealedAuctionListRoute(st)
	default:
		return market.ErrUnknownMessage
	}
}
