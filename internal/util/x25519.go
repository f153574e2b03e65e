package util

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/curve25519"
)

// ErrInvalidPeerKey is returned when a peer public key yields the all-zero
// shared secret.
var ErrInvalidPeerKey = errors.New("invalid peer public key")

type KeyPair struct {
	Private [32]byte
	Public  [32]byte
}

func GenerateX25519Keypair() (KeyPair, error) {
	var priv [32]byte
	if _, err := rand.Read(priv[:]); err != nil {
		return KeyPair{}, fmt.Errorf("error generating random bytes for X25519 private key: %w", err)
	}

	ClampX25519(&priv)

	pub, err := X25519PublicKey(priv)
	if err != nil {
		return KeyPair{}, err
	}

	return KeyPair{
		Private: priv,
		Public:  pub,
	}, nil
}

// ClampX25519 applies the RFC 7748 scalar clamping in place.
func ClampX25519(priv *[32]byte) {
	priv[0] &= 248
	priv[31] &= 127
	priv[31] |= 64
}

func X25519PublicKey(priv [32]byte) ([32]byte, error) {
	pub, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		return [32]byte{}, fmt.Errorf("error deriving X25519 public key: %w", err)
	}
	var res [32]byte
	copy(res[:], pub)
	return res, nil
}

func SharedSecret(priv [32]byte, pub [32]byte) ([32]byte, error) {
	secret, err := curve25519.X25519(priv[:], pub[:])
	if err != nil {
		return [32]byte{}, fmt.Errorf("%w: %w", ErrInvalidPeerKey, err)
	}
	var res [32]byte
	copy(res[:], secret)
	return res, nil
}
