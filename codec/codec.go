package codec

import (
	"fmt"

	"github.com/multiformats/go-multicodec"
)

// KeySize is the length of raw X25519 public and private keys.
const KeySize = 32

// FingerprintCode is the multicodec for X25519 public keys.
const FingerprintCode = multicodec.X25519Pub

// legacyHeader is the single-byte tag used by fingerprints produced before
// the varint multicodec header was adopted.
var legacyHeader = []byte{byte(multicodec.X25519Pub)}

// EncodeFingerprint returns the fingerprint of a 32-byte X25519 public key.
func EncodeFingerprint(publicKey []byte) string {
	return EncodeMultibase(FingerprintCode, publicKey)
}

// DecodeFingerprint returns the public key encoded by fingerprint.
// All failures match ErrUnsupportedFingerprintType.
func DecodeFingerprint(fingerprint string) ([]byte, error) {
	raw, err := DecodeMultibase(fingerprint, FingerprintCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFingerprintType, err)
	}
	if len(raw) != KeySize {
		return nil, fmt.Errorf("%w: %w: got %d bytes", ErrUnsupportedFingerprintType, ErrInvalidKeyLength, len(raw))
	}
	return raw, nil
}

// DecodeLegacyFingerprint decodes a fingerprint that uses the historical
// single-byte 0xec tag instead of the varint header. It is never tried
// implicitly by DecodeFingerprint.
func DecodeLegacyFingerprint(fingerprint string) ([]byte, error) {
	if len(fingerprint) == 0 || fingerprint[0] != MultibasePrefix {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFingerprintType, ErrNotMultibase)
	}
	data, err := DecodeBase58(fingerprint[1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFingerprintType, err)
	}
	if len(data) != len(legacyHeader)+KeySize || data[0] != legacyHeader[0] {
		return nil, fmt.Errorf("%w: not a legacy x25519-pub fingerprint", ErrUnsupportedFingerprintType)
	}
	return data[len(legacyHeader):], nil
}

// EncodeLegacyFingerprint produces the historical single-byte-tag
// fingerprint. New documents should use EncodeFingerprint.
func EncodeLegacyFingerprint(publicKey []byte) string {
	buf := make([]byte, 0, len(legacyHeader)+len(publicKey))
	buf = append(buf, legacyHeader...)
	buf = append(buf, publicKey...)
	return string(MultibasePrefix) + EncodeBase58(buf)
}
