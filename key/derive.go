package key

import (
	"github.com/jmcleod/keyagree/codec"
	"github.com/jmcleod/keyagree/crypto"
	"github.com/jmcleod/keyagree/internal/util"
)

// DeriveSecret computes the X25519 shared secret between local's private
// key and remote's public key using backend b.
//
// The result is raw key-agreement output, not a symmetric key. Pass it
// through a KDF such as crypto.DeriveKey before using it for encryption.
// Low-order peer keys are rejected by the backend with crypto.ErrInvalidPeerKey.
func DeriveSecret(b crypto.Backend, local, remote *KeyPair) ([]byte, error) {
	if local == nil {
		return nil, ErrMissingPrivateKey
	}
	if remote == nil {
		return nil, ErrMissingPublicKey
	}

	var secret [codec.KeySize]byte
	err := local.withPrivateKey(func(priv [codec.KeySize]byte) error {
		var err error
		secret, err = b.ScalarMult(priv, remote.publicKey)
		return err
	})
	if err != nil {
		return nil, err
	}
	defer util.WipeArray32(&secret)

	return util.CopyBytes(secret[:]), nil
}

// DeriveSecret derives a shared secret with remote using the default backend.
func (kp *KeyPair) DeriveSecret(remote *KeyPair) ([]byte, error) {
	return DeriveSecret(crypto.Curve25519(), kp, remote)
}
