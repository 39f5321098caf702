package market

import "fmt"

// MaxNameLen is the maximum length of an account display name.
const MaxNameLen = 40

// Account holds one user's balances. Cash and HoldCash are two views of the
// same money: funds move from Cash to HoldCash when committed to an open
// order or bid, and back (or to a counterparty) on cancellation or
// settlement. Assets and HoldAssets behave the same way. Balances are only
// mutated through the BalanceBook credit/debit pairs.
type Account struct {
	Address    Address `cbor:"address"`
	Name       string  `cbor:"name"`
	Cash       uint64  `cbor:"cash"`
	Assets     uint64  `cbor:"assets"`
	HoldCash   uint64  `cbor:"hold_cash"`
	HoldAssets uint64  `cbor:"hold_assets"`
}

// NewAccount builds an account with zero balances.
func NewAccount(name, addr string) (Account, error) {
	return NewSeededAccount(name, addr, 0, 0)
}

// NewSeededAccount builds an account carrying initial cash and assets.
func NewSeededAccount(name, addr string, cash, assets uint64) (Account, error) {
	address, err := NewAddress(addr)
	if err != nil {
		return Account{}, err
	}
	acct := Account{
		Address: address,
		Name:    name,
		Cash:    cash,
		Assets:  assets,
	}
	if err := acct.ValidateBasic(); err != nil {
		return Account{}, err
	}
	return acct, nil
}

// ValidateBasic checks the account's address and name invariants.
func (a Account) ValidateBasic() error {
	if err := a.Address.ValidateBasic(); err != nil {
		return err
	}
	if len(a.Name) == 0 {
		return EmptyFieldError{Field: "account name"}
	}
	if len(a.Name) > MaxNameLen {
		return LengthError{Field: "account name", Max: MaxNameLen, Got: len(a.Name)}
	}
	if !isASCII(a.Name) {
		return EncodingError{Field: "account name", Encoding: "ASCII", Got: a.Name}
	}
	return nil
}

func (a Account) String() string {
	return fmt.Sprintf("%s: %s\n    cash (liquid): %d\n    assets (liquid): %d\n    cash (held): %d\n    assets (held): %d",
		a.Name, a.Address, a.Cash, a.Assets, a.HoldCash, a.HoldAssets)
}
