package market

import "fmt"

// Order is an outstanding offer to buy or sell. The side is determined by
// which book it sits in. Nonce is assigned by the order book at insertion and
// breaks ties between equal-priced orders: the lower nonce booked earlier and
// fills first. Qty only ever decreases as fills occur.
type Order struct {
	Address Address `cbor:"address"`
	Price   uint64  `cbor:"price"`
	Qty     uint64  `cbor:"qty"`
	Nonce   uint64  `cbor:"nonce"`
}

// NewOrder builds an order with an unassigned nonce.
func NewOrder(addr Address, price, qty uint64) Order {
	return Order{Address: addr, Price: price, Qty: qty}
}

// ValidateBasic checks the order's submission invariants.
func (o Order) ValidateBasic() error {
	if err := o.Address.ValidateBasic(); err != nil {
		return err
	}
	if o.Address.Empty() {
		return EmptyFieldError{Field: "order address"}
	}
	if o.Qty == 0 {
		return EmptyFieldError{Field: "order quantity"}
	}
	if o.Price == 0 {
		return EmptyFieldError{Field: "order unit price"}
	}
	return nil
}

func (o Order) String() string {
	return fmt.Sprintf("order from %s: %d @ %d (nonce %d)", o.Address, o.Qty, o.Price, o.Nonce)
}

// highPriceFirst orders buy orders: highest price first, earliest nonce
// breaking ties.
type highPriceFirst []*Order

func (l highPriceFirst) Len() int { return len(l) }

func (l highPriceFirst) Less(i, j int) bool {
	if l[i].Price != l[j].Price {
		return l[i].Price > l[j].Price
	}
	return l[i].Nonce < l[j].Nonce
}

func (l highPriceFirst) Swap(i, j int) {
	l[i], l[j] = l[j], l[i]
}

func (l *highPriceFirst) Push(x interface{}) {
	*l = append(*l, x.(*Order))
}

func (l *highPriceFirst) Pop() interface{} {
	old := *l
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*l = old[0 : n-1]
	return item
}

// lowPriceFirst orders sell orders: lowest price first, earliest nonce
// breaking ties.
type lowPriceFirst []*Order

func (l lowPriceFirst) Len() int { return len(l) }

func (l lowPriceFirst) Less(i, j int) bool {
	if l[i].Price != l[j].Price {
		return l[i].Price < l[j].Price
	}
	return l[i].Nonce < l[j].Nonce
}

func (l lowPriceFirst) Swap(i, j int) {
	l[i], l[j] = l[j], l[i]
}

func (l *lowPriceFirst) Push(x interface{}) {
	*l = append(*l, x.(*Order))
}

func (l *lowPriceFirst) Pop() interface{} {
	old := *l
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*l = old[0 : n-1]
	return item
}
