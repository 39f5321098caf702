package market

import (
	"sort"
	"strings"
)

// BalanceBook maps addresses to accounts. It holds every economic balance in
// the family and is persisted as a single blob at a reserved state address.
// It enforces no cross-account invariant itself; the matching and auction
// engines are responsible for pairing every debit with a credit.
type BalanceBook struct {
	Accounts map[string]*Account `cbor:"accounts"`
}

// NewBalanceBook returns an empty balance book.
func NewBalanceBook() *BalanceBook {
	return &BalanceBook{Accounts: make(map[string]*Account)}
}

// InsertNewAccount registers an account. Registering an address that already
// exists is an error.
func (bb *BalanceBook) InsertNewAccount(acct Account) error {
	if _, ok := bb.Accounts[string(acct.Address)]; ok {
		return DuplicateAccountError{Address: acct.Address}
	}
	a := acct
	bb.Accounts[string(acct.Address)] = &a
	return nil
}

// Account returns a copy of the account at addr for viewing.
func (bb *BalanceBook) Account(addr Address) (Account, bool) {
	a, ok := bb.Accounts[string(addr)]
	if !ok {
		return Account{}, false
	}
	return *a, true
}

// Len returns the number of registered accounts.
func (bb *BalanceBook) Len() int { return len(bb.Accounts) }

// Addresses returns all registered addresses in lexicographic order.
func (bb *BalanceBook) Addresses() []Address {
	addrs := make([]Address, 0, len(bb.Accounts))
	for k := range bb.Accounts {
		addrs = append(addrs, Address(k))
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

func (bb *BalanceBook) acct(addr Address) (*Account, error) {
	a, ok := bb.Accounts[string(addr)]
	if !ok {
		return nil, UnknownAccountError{Address: addr}
	}
	return a, nil
}

func checkedAdd(field, op string, a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, OverflowError{Field: field, Op: op, A: a, B: b}
	}
	return sum, nil
}

func checkedSub(field, op string, a, b uint64) (uint64, error) {
	if b > a {
		return 0, UnderflowError{Field: field, Op: op, A: a, B: b}
	}
	return a - b, nil
}

func checkedMul(field, op string, a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	prod := a * b
	if prod/a != b {
		return 0, OverflowError{Field: field, Op: op, A: a, B: b}
	}
	return prod, nil
}

// CreditCash adds amt to the liquid cash of addr.
func (bb *BalanceBook) CreditCash(addr Address, amt uint64) error {
	a, err := bb.acct(addr)
	if err != nil {
		return err
	}
	sum, err := checkedAdd("cash", "credit cash", a.Cash, amt)
	if err != nil {
		return err
	}
	a.Cash = sum
	return nil
}

// DebitCash removes amt from the liquid cash of addr.
func (bb *BalanceBook) DebitCash(addr Address, amt uint64) error {
	a, err := bb.acct(addr)
	if err != nil {
		return err
	}
	diff, err := checkedSub("cash", "debit cash", a.Cash, amt)
	if err != nil {
		return err
	}
	a.Cash = diff
	return nil
}

// CreditAssets adds amt to the liquid assets of addr.
func (bb *BalanceBook) CreditAssets(addr Address, amt uint64) error {
	a, err := bb.acct(addr)
	if err != nil {
		return err
	}
	sum, err := checkedAdd("assets", "credit assets", a.Assets, amt)
	if err != nil {
		return err
	}
	a.Assets = sum
	return nil
}

// DebitAssets removes amt from the liquid assets of addr.
func (bb *BalanceBook) DebitAssets(addr Address, amt uint64) error {
	a, err := bb.acct(addr)
	if err != nil {
		return err
	}
	diff, err := checkedSub("assets", "debit assets", a.Assets, amt)
	if err != nil {
		return err
	}
	a.Assets = diff
	return nil
}

// CreditHoldCash adds amt to the held cash of addr.
func (bb *BalanceBook) CreditHoldCash(addr Address, amt uint64) error {
	a, err := bb.acct(addr)
	if err != nil {
		return err
	}
	sum, err := checkedAdd("hold_cash", "credit held cash", a.HoldCash, amt)
	if err != nil {
		return err
	}
	a.HoldCash = sum
	return nil
}

// DebitHoldCash removes amt from the held cash of addr.
func (bb *BalanceBook) DebitHoldCash(addr Address, amt uint64) error {
	a, err := bb.acct(addr)
	if err != nil {
		return err
	}
	diff, err := checkedSub("hold_cash", "debit held cash", a.HoldCash, amt)
	if err != nil {
		return err
	}
	a.HoldCash = diff
	return nil
}

// CreditHoldAssets adds amt to the held assets of addr.
func (bb *BalanceBook) CreditHoldAssets(addr Address, amt uint64) error {
	a, err := bb.acct(addr)
	if err != nil {
		return err
	}
	sum, err := checkedAdd("hold_assets", "credit held assets", a.HoldAssets, amt)
	if err != nil {
		return err
	}
	a.HoldAssets = sum
	return nil
}

// DebitHoldAssets removes amt from the held assets of addr.
func (bb *BalanceBook) DebitHoldAssets(addr Address, amt uint64) error {
	a, err := bb.acct(addr)
	if err != nil {
		return err
	}
	diff, err := checkedSub("hold_assets", "debit held assets", a.HoldAssets, amt)
	if err != nil {
		return err
	}
	a.HoldAssets = diff
	return nil
}

func (bb *BalanceBook) String() string {
	var sb strings.Builder
	for _, addr := range bb.Addresses() {
		a := bb.Accounts[string(addr)]
		sb.WriteString(a.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
