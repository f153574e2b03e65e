package codec

import (
	"fmt"

	"github.com/jmcleod/keyagree/internal/util"
)

// EncodeBase58 returns the base58-btc encoding of b.
func EncodeBase58(b []byte) string {
	return util.Base58Encode(b)
}

// DecodeBase58 decodes a base58-btc string. Failures match ErrBase58Decode.
func DecodeBase58(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", ErrBase58Decode)
	}
	b, err := util.Base58Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBase58Decode, err)
	}
	return b, nil
}

// DecodeKeyBase58 decodes a base58 key field and requires exactly KeySize bytes.
func DecodeKeyBase58(s string) ([]byte, error) {
	b, err := DecodeBase58(s)
	if err != nil {
		return nil, err
	}
	if len(b) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyLength, len(b), KeySize)
	}
	return b, nil
}
