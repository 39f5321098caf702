package market

import (
	"container/heap"
	"fmt"
	"strings"
)

// OrderBook holds the two priority queues of outstanding orders: buys ranked
// highest price first, sells lowest price first, nonce breaking ties within
// each side. One monotonically increasing nonce counter is shared by both
// sides. The slices are stored in heap order, which round-trips through
// serialization unchanged.
type OrderBook struct {
	Buys  []*Order `cbor:"buys"`
	Sells []*Order `cbor:"sells"`
	Nonce uint64   `cbor:"nonce"`
}

// NewOrderBook returns an empty order book.
func NewOrderBook() *OrderBook {
	return &OrderBook{}
}

// BuyLen returns the number of resting buy orders.
func (ob *OrderBook) BuyLen() int { return len(ob.Buys) }

// SellLen returns the number of resting sell orders.
func (ob *OrderBook) SellLen() int { return len(ob.Sells) }

// Empty reports whether both sides of the book are empty.
func (ob *OrderBook) Empty() bool { return len(ob.Buys) == 0 && len(ob.Sells) == 0 }

// Clear drops every resting order. Held balances are not released; the clear
// routes are administrative resets for the whole family state.
func (ob *OrderBook) Clear() {
	ob.Buys = nil
	ob.Sells = nil
}

// PeekBuy returns the best-priced resting buy order, or nil.
func (ob *OrderBook) PeekBuy() *Order {
	if len(ob.Buys) == 0 {
		return nil
	}
	return ob.Buys[0]
}

// PeekSell returns the best-priced resting sell order, or nil.
func (ob *OrderBook) PeekSell() *Order {
	if len(ob.Sells) == 0 {
		return nil
	}
	return ob.Sells[0]
}

func (ob *OrderBook) pushBuy(o *Order) {
	heap.Push((*highPriceFirst)(&ob.Buys), o)
}

func (ob *OrderBook) popBuy() *Order {
	return heap.Pop((*highPriceFirst)(&ob.Buys)).(*Order)
}

func (ob *OrderBook) pushSell(o *Order) {
	heap.Push((*lowPriceFirst)(&ob.Sells), o)
}

func (ob *OrderBook) popSell() *Order {
	return heap.Pop((*lowPriceFirst)(&ob.Sells)).(*Order)
}

func (ob *OrderBook) nextNonce() uint64 {
	n := ob.Nonce
	ob.Nonce++
	return n
}

// insertBuy moves the order's cost from liquid to held cash, assigns the next
// nonce and books the order.
func (ob *OrderBook) insertBuy(bb *BalanceBook, order Order) error {
	cost, err := checkedMul("cash", "buy order cost", order.Price, order.Qty)
	if err != nil {
		return err
	}
	if err := bb.DebitCash(order.Address, cost); err != nil {
		return err
	}
	if err := bb.CreditHoldCash(order.Address, cost); err != nil {
		return err
	}
	order.Nonce = ob.nextNonce()
	ob.pushBuy(&order)
	return nil
}

// insertSell moves the order's quantity from liquid to held assets, assigns
// the next nonce and books the order.
func (ob *OrderBook) insertSell(bb *BalanceBook, order Order) error {
	if err := bb.DebitAssets(order.Address, order.Qty); err != nil {
		return err
	}
	if err := bb.CreditHoldAssets(order.Address, order.Qty); err != nil {
		return err
	}
	order.Nonce = ob.nextNonce()
	ob.pushSell(&order)
	return nil
}

// FillBuy matches an incoming buy order against the sell book. The order must
// be covered by the buyer's liquid cash. While the order crosses the best
// resting sell it settles the overlapping quantity at the resting price: the
// buyer pays from liquid cash, the seller's held assets are released to the
// buyer. Any remainder that no longer crosses is booked with held funds.
// Zero-quantity remainders are never stored.
func (ob *OrderBook) FillBuy(bb *BalanceBook, order Order) error {
	acct, ok := bb.Account(order.Address)
	if !ok {
		return UnknownAccountError{Address: order.Address}
	}
	cost, err := checkedMul("cash", "buy order cost", order.Price, order.Qty)
	if err != nil {
		return err
	}
	if acct.Cash < cost {
		return InsufficientFundsError{Address: order.Address, Need: cost, Have: acct.Cash}
	}

	for order.Qty > 0 {
		best := ob.PeekSell()
		if best == nil || order.Price < best.Price {
			return ob.insertBuy(bb, order)
		}

		resting := ob.popSell()
		traded := order.Qty
		if resting.Qty < traded {
			traded = resting.Qty
		}
		deal, err := checkedMul("cash", "buy fill settlement", resting.Price, traded)
		if err != nil {
			return err
		}

		if err := bb.CreditCash(resting.Address, deal); err != nil {
			return err
		}
		if err := bb.DebitCash(order.Address, deal); err != nil {
			return err
		}
		if err := bb.CreditAssets(order.Address, traded); err != nil {
			return err
		}
		if err := bb.DebitHoldAssets(resting.Address, traded); err != nil {
			return err
		}

		order.Qty -= traded
		resting.Qty -= traded
		if resting.Qty > 0 {
			ob.pushSell(resting)
		}
	}
	return nil
}

// FillSell matches an incoming sell order against the buy book. The order
// must be covered by the seller's liquid assets. While the order crosses the
// best resting buy it settles at the resting price: the buyer's held cash is
// released to the seller (the hold was taken at that same price, so the
// release is exact) and the seller's liquid assets go to the buyer. Any
// remainder that no longer crosses is booked with held assets.
func (ob *OrderBook) FillSell(bb *BalanceBook, order Order) error {
	acct, ok := bb.Account(order.Address)
	if !ok {
		return UnknownAccountError{Address: order.Address}
	}
	if acct.Assets < order.Qty {
		return InsufficientAssetsError{Address: order.Address, Need: order.Qty, Have: acct.Assets}
	}

	for order.Qty > 0 {
		best := ob.PeekBuy()
		if best == nil || order.Price > best.Price {
			return ob.insertSell(bb, order)
		}

		resting := ob.popBuy()
		traded := order.Qty
		if resting.Qty < traded {
			traded = resting.Qty
		}
		deal, err := checkedMul("cash", "sell fill settlement", resting.Price, traded)
		if err != nil {
			return err
		}

		if err := bb.CreditCash(order.Address, deal); err != nil {
			return err
		}
		if err := bb.DebitHoldCash(resting.Address, deal); err != nil {
			return err
		}
		if err := bb.CreditAssets(resting.Address, traded); err != nil {
			return err
		}
		if err := bb.DebitAssets(order.Address, traded); err != nil {
			return err
		}

		order.Qty -= traded
		resting.Qty -= traded
		if resting.Qty > 0 {
			ob.pushBuy(resting)
		}
	}
	return nil
}

func (ob *OrderBook) String() string {
	var sb strings.Builder
	for _, o := range ob.Buys {
		fmt.Fprintf(&sb, "buy  %s\n", o)
	}
	for _, o := range ob.Sells {
		fmt.Fprintf(&sb, "sell %s\n", o)
	}
	fmt.Fprintf(&sb, "nonce: %d\n", ob.Nonce)
	return sb.String()
}
