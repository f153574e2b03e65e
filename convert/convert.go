// Package convert maps Ed25519 signing keys onto X25519 key-agreement keys.
//
// The public key is mapped from its twisted-Edwards encoding to the
// Montgomery u-coordinate with the birational map u = (1 + y) / (1 - y).
// The private key is derived the way Ed25519 derives its signing scalar:
// SHA-512 of the 32-byte seed, truncated to 32 bytes and clamped.
//
// The mapping only runs from Edwards to Montgomery. An X25519 key obtained
// here cannot be turned back into an Ed25519 signing key.
package convert

import (
	"crypto/ed25519"
	"crypto/sha512"
	"errors"
	"fmt"

	"filippo.io/edwards25519"

	"github.com/jmcleod/keyagree/internal/util"
)

var (
	// ErrInvalidEdPublicKey indicates bytes that do not encode an Ed25519 point.
	ErrInvalidEdPublicKey = errors.New("invalid Ed25519 public key")
	// ErrInvalidEdPrivateKey indicates a private key that is neither a
	// 32-byte seed nor a 64-byte expanded key.
	ErrInvalidEdPrivateKey = errors.New("invalid Ed25519 private key")
	// ErrMultibaseHeaderMismatch indicates a multibase source key whose
	// multicodec header does not match the expected Ed25519 tag.
	ErrMultibaseHeaderMismatch = errors.New("multibase header mismatch")
)

// PublicKey converts a 32-byte Ed25519 public key to an X25519 public key.
func PublicKey(edPublicKey []byte) ([]byte, error) {
	if len(edPublicKey) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidEdPublicKey, len(edPublicKey), ed25519.PublicKeySize)
	}
	p, err := new(edwards25519.Point).SetBytes(edPublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEdPublicKey, err)
	}
	return p.BytesMontgomery(), nil
}

// PrivateKey converts an Ed25519 seed (32 bytes) or expanded private key
// (64 bytes, seed followed by public key) to a clamped X25519 scalar.
func PrivateKey(edPrivateKey []byte) ([]byte, error) {
	var seed []byte
	switch len(edPrivateKey) {
	case ed25519.SeedSize, ed25519.PrivateKeySize:
		seed = edPrivateKey[:ed25519.SeedSize]
	default:
		return nil, fmt.Errorf("%w: got %d bytes, want %d or %d",
			ErrInvalidEdPrivateKey, len(edPrivateKey), ed25519.SeedSize, ed25519.PrivateKeySize)
	}

	h := sha512.Sum512(seed)
	defer util.WipeBytes(h[:])

	var scalar [32]byte
	copy(scalar[:], h[:32])
	util.ClampX25519(&scalar)
	return scalar[:], nil
}

// Keys converts an Ed25519 key pair. edPrivateKey may be nil, in which
// case the returned X25519 private key is nil.
func Keys(edPublicKey, edPrivateKey []byte) (publicKey, privateKey []byte, err error) {
	publicKey, err = PublicKey(edPublicKey)
	if err != nil {
		return nil, nil, err
	}
	if edPrivateKey == nil {
		return publicKey, nil, nil
	}
	privateKey, err = PrivateKey(edPrivateKey)
	if err != nil {
		return nil, nil, err
	}
	return publicKey, privateKey, nil
}
