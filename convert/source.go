package convert

import (
	"errors"
	"fmt"

	"github.com/multiformats/go-multicodec"

	"github.com/jmcleod/keyagree/codec"
	"github.com/jmcleod/keyagree/internal/util"
)

// Ed25519KeyPair is an Ed25519 verification key in the legacy encoding,
// with raw key bytes as plain base58 strings.
type Ed25519KeyPair struct {
	ID               string `json:"id,omitempty"`
	Controller       string `json:"controller,omitempty"`
	PublicKeyBase58  string `json:"publicKeyBase58"`
	PrivateKeyBase58 string `json:"privateKeyBase58,omitempty"`
}

// Ed25519MultibaseKeyPair is an Ed25519 verification key whose key bytes
// carry multicodec headers (ed25519-pub, ed25519-priv) and are base58-btc
// multibase encoded.
type Ed25519MultibaseKeyPair struct {
	ID                  string `json:"id,omitempty"`
	Controller          string `json:"controller,omitempty"`
	PublicKeyMultibase  string `json:"publicKeyMultibase"`
	PrivateKeyMultibase string `json:"privateKeyMultibase,omitempty"`
}

// Convert decodes the legacy base58 fields and converts them.
func (kp Ed25519KeyPair) Convert() (publicKey, privateKey []byte, err error) {
	edPub, err := codec.DecodeBase58(kp.PublicKeyBase58)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidEdPublicKey, err)
	}
	var edPriv []byte
	if kp.PrivateKeyBase58 != "" {
		edPriv, err = codec.DecodeBase58(kp.PrivateKeyBase58)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidEdPrivateKey, err)
		}
		defer util.WipeBytes(edPriv)
	}
	return Keys(edPub, edPriv)
}

// Convert strips and checks the multicodec headers, then converts.
func (kp Ed25519MultibaseKeyPair) Convert() (publicKey, privateKey []byte, err error) {
	edPub, err := decodeMultibase(kp.PublicKeyMultibase, multicodec.Ed25519Pub, ErrInvalidEdPublicKey)
	if err != nil {
		return nil, nil, err
	}
	var edPriv []byte
	if kp.PrivateKeyMultibase != "" {
		edPriv, err = decodeMultibase(kp.PrivateKeyMultibase, multicodec.Ed25519Priv, ErrInvalidEdPrivateKey)
		if err != nil {
			return nil, nil, err
		}
		defer util.WipeBytes(edPriv)
	}
	return Keys(edPub, edPriv)
}

func decodeMultibase(value string, code multicodec.Code, invalid error) ([]byte, error) {
	b, err := codec.DecodeMultibase(value, code)
	switch {
	case err == nil:
		return b, nil
	case errors.Is(err, codec.ErrHeaderMismatch), errors.Is(err, codec.ErrNotMultibase):
		return nil, fmt.Errorf("%w: %w", ErrMultibaseHeaderMismatch, err)
	default:
		return nil, fmt.Errorf("%w: %w", invalid, err)
	}
}
