package codec

import "errors"

var (
	// ErrUnsupportedFingerprintType indicates a fingerprint without the 'z'
	// prefix or with a multicodec header other than x25519-pub.
	ErrUnsupportedFingerprintType = errors.New("unsupported fingerprint type")
	// ErrBase58Decode indicates malformed base58 input.
	ErrBase58Decode = errors.New("base58 decode failure")
	// ErrNotMultibase indicates a value that is not base58-btc multibase encoded.
	ErrNotMultibase = errors.New("value is not base58-btc multibase encoded")
	// ErrHeaderMismatch indicates a multicodec header other than the expected one.
	ErrHeaderMismatch = errors.New("multicodec header mismatch")
	// ErrInvalidKeyLength indicates key material that is not exactly KeySize bytes.
	ErrInvalidKeyLength = errors.New("invalid key length")
)

// Verification failures reported through VerifyResult.Err.
var (
	ErrNotMultibaseEncoded = errors.New("fingerprint is not multibase encoded")
	ErrDecodeFailed        = errors.New("fingerprint could not be decoded")
	ErrFingerprintMismatch = errors.New("fingerprint does not match public key")
)
