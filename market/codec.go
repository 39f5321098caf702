package market

import "github.com/fxamacker/cbor/v2"

// State blobs and payloads are CBOR. Encoding is canonical so that equal
// values serialize to equal bytes on every replica.
var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	cborEnc, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	cborDec, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(err)
	}
}

// MarshalCBOR encodes v canonically.
func MarshalCBOR(v interface{}) ([]byte, error) {
	return cborEnc.Marshal(v)
}

// UnmarshalCBOR decodes data into v.
func UnmarshalCBOR(data []byte, v interface{}) error {
	return cborDec.Unmarshal(data, v)
}
