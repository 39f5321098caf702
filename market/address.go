package market

// MaxAddressLen is the maximum length of an account address.
const MaxAddressLen = 40

// pubKeyDiscard is the number of leading hex characters dropped when deriving
// an address from a signer public key.
const pubKeyDiscard = 26

// Address identifies an account. It is an opaque ASCII-hex string of at most
// MaxAddressLen characters, compared lexicographically.
type Address string

// NewAddress validates source and returns it as an Address.
func NewAddress(source string) (Address, error) {
	if len(source) > MaxAddressLen {
		return "", LengthError{Field: "address", Max: MaxAddressLen, Got: len(source)}
	}
	if !isASCII(source) {
		return "", EncodingError{Field: "address", Encoding: "ASCII hexadecimal", Got: source}
	}
	return Address(source), nil
}

// AddressFromPubKey derives an address from a signer's public key hex string
// by discarding its first 26 characters.
func AddressFromPubKey(pubKey string) Address {
	if len(pubKey) <= pubKeyDiscard {
		return ""
	}
	return Address(pubKey[pubKeyDiscard:])
}

func (a Address) String() string { return string(a) }

// Empty reports whether the address is unset.
func (a Address) Empty() bool { return a == "" }

// ValidateBasic checks the address invariants without constructing a new one.
func (a Address) ValidateBasic() error {
	_, err := NewAddress(string(a))
	return err
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}
