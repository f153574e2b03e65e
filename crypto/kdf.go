package crypto

import (
	"errors"
	"fmt"

	"github.com/jmcleod/keyagree/internal/util"
)

var defaultInfo = []byte("X25519KeyAgreementKey2019")

// ErrInvalidKDFParams is returned by DeriveKey for an empty secret or an
// unsupported output length.
var ErrInvalidKDFParams = errors.New("invalid KDF parameters")

// DeriveKeyOption is a functional option for DeriveKey.
type DeriveKeyOption func(*deriveKeyOptions)

type deriveKeyOptions struct {
	salt   []byte
	info   []byte
	length int
}

// WithSalt sets the HKDF salt.
func WithSalt(salt []byte) DeriveKeyOption {
	return func(o *deriveKeyOptions) {
		o.salt = salt
	}
}

// WithInfo sets the HKDF info parameter.
func WithInfo(info []byte) DeriveKeyOption {
	return func(o *deriveKeyOptions) {
		o.info = info
	}
}

// WithLength sets the output length in bytes.
func WithLength(n int) DeriveKeyOption {
	return func(o *deriveKeyOptions) {
		o.length = n
	}
}

// DeriveKey turns a raw shared secret into a symmetric key with
// HKDF-SHA256. Shared secrets from ScalarMult must go through a KDF like
// this one before being used for encryption.
func DeriveKey(sharedSecret []byte, opts ...DeriveKeyOption) ([]byte, error) {
	options := deriveKeyOptions{
		info:   defaultInfo,
		length: util.HKDFKeyLength,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if len(sharedSecret) == 0 {
		return nil, fmt.Errorf("%w: empty shared secret", ErrInvalidKDFParams)
	}
	if options.length <= 0 || options.length > 255*32 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidKDFParams, options.length)
	}

	return util.HKDFLength(sharedSecret, options.salt, options.info, options.length)
}
