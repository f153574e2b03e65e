package codec

import (
	"bytes"
	"fmt"

	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multicodec"
	"github.com/multiformats/go-varint"
)

// MultibasePrefix is the multibase marker for base58-btc.
const MultibasePrefix = byte(multibase.Base58BTC)

// Header returns the unsigned-varint encoding of a multicodec code.
func Header(code multicodec.Code) []byte {
	return varint.ToUvarint(uint64(code))
}

// EncodeMultibase prefixes raw with the multicodec header for code and
// returns the base58-btc multibase string.
func EncodeMultibase(code multicodec.Code, raw []byte) string {
	h := Header(code)
	buf := make([]byte, 0, len(h)+len(raw))
	buf = append(buf, h...)
	buf = append(buf, raw...)

	// Base58BTC is always a supported encoding.
	s, _ := multibase.Encode(multibase.Base58BTC, buf)
	return s
}

// DecodeMultibase decodes a base58-btc multibase string, checks that the
// payload starts with the multicodec header for code, and returns the
// remaining bytes.
func DecodeMultibase(value string, code multicodec.Code) ([]byte, error) {
	if len(value) == 0 || value[0] != MultibasePrefix {
		return nil, ErrNotMultibase
	}
	enc, data, err := multibase.Decode(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBase58Decode, err)
	}
	if enc != multibase.Base58BTC {
		return nil, ErrNotMultibase
	}
	h := Header(code)
	if !bytes.HasPrefix(data, h) {
		return nil, fmt.Errorf("%w: want %s (%x)", ErrHeaderMismatch, code, h)
	}
	return data[len(h):], nil
}
