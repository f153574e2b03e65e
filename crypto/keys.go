// Package crypto provides the key generation and scalar multiplication
// primitives used by the key package, and a KDF for turning raw shared
// secrets into symmetric keys.
package crypto

import (
	"crypto/ecdh"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/jmcleod/keyagree/internal/util"
)

// ErrInvalidPeerKey reports a peer public key that is low order, so the
// X25519 output would be all zeros.
var ErrInvalidPeerKey = util.ErrInvalidPeerKey

// Backend supplies X25519 key generation and scalar multiplication.
// Callers pick the implementation; nothing in this module selects one
// based on the platform.
type Backend interface {
	// GenerateKey returns a fresh random key pair.
	GenerateKey() (publicKey, privateKey [32]byte, err error)
	// ScalarMult returns the X25519 function of privateKey and peerPublicKey.
	// The output is raw key-agreement output, not a symmetric key.
	ScalarMult(privateKey, peerPublicKey [32]byte) ([32]byte, error)
}

// Curve25519 returns the default backend, built on golang.org/x/crypto/curve25519.
// ScalarMult rejects peer keys that produce the all-zero output.
func Curve25519() Backend {
	return curve25519Backend{}
}

type curve25519Backend struct{}

func (curve25519Backend) GenerateKey() (publicKey, privateKey [32]byte, err error) {
	kp, err := util.GenerateX25519Keypair()
	if err != nil {
		return publicKey, privateKey, err
	}
	return kp.Public, kp.Private, nil
}

func (curve25519Backend) ScalarMult(privateKey, peerPublicKey [32]byte) ([32]byte, error) {
	return util.SharedSecret(privateKey, peerPublicKey)
}

// ECDH returns a backend built on the standard library's crypto/ecdh.
// ScalarMult rejects low-order peer keys.
func ECDH() Backend {
	return ecdhBackend{curve: ecdh.X25519(), rand: rand.Reader}
}

type ecdhBackend struct {
	curve ecdh.Curve
	rand  io.Reader
}

func (b ecdhBackend) GenerateKey() (publicKey, privateKey [32]byte, err error) {
	priv, err := b.curve.GenerateKey(b.rand)
	if err != nil {
		return publicKey, privateKey, fmt.Errorf("generating X25519 key: %w", err)
	}
	copy(privateKey[:], priv.Bytes())
	copy(publicKey[:], priv.PublicKey().Bytes())
	return publicKey, privateKey, nil
}

func (b ecdhBackend) ScalarMult(privateKey, peerPublicKey [32]byte) ([32]byte, error) {
	priv, err := b.curve.NewPrivateKey(privateKey[:])
	if err != nil {
		return [32]byte{}, fmt.Errorf("loading X25519 private key: %w", err)
	}
	pub, err := b.curve.NewPublicKey(peerPublicKey[:])
	if err != nil {
		return [32]byte{}, fmt.Errorf("%w: %w", ErrInvalidPeerKey, err)
	}
	secret, err := priv.ECDH(pub)
	if err != nil {
		return [32]byte{}, fmt.Errorf("%w: %w", ErrInvalidPeerKey, err)
	}
	var res [32]byte
	copy(res[:], secret)
	util.WipeBytes(secret)
	return res, nil
}
