package key

import (
	"errors"
	"fmt"

	"github.com/jmcleod/keyagree/codec"
	"github.com/jmcleod/keyagree/internal/util"
)

// ErrExportRequiresSelection is returned by Export when neither the public
// nor the private key is selected.
var ErrExportRequiresSelection = errors.New("export requires publicKey or privateKey to be selected")

// ExportOptions selects the key material included in an exported Record.
type ExportOptions struct {
	PublicKey  bool
	PrivateKey bool
}

// Record is the serialized form of a KeyPair as it appears in identity
// documents and key stores.
type Record struct {
	ID               string `json:"id,omitempty"`
	Type             Type   `json:"type"`
	Controller       string `json:"controller,omitempty"`
	PublicKeyBase58  string `json:"publicKeyBase58,omitempty"`
	PrivateKeyBase58 string `json:"privateKeyBase58,omitempty"`
	Revoked          string `json:"revoked,omitempty"`
}

// Export serializes the key pair. A selected private key is omitted when
// the key pair does not hold one.
func (kp *KeyPair) Export(opts ExportOptions) (Record, error) {
	if !opts.PublicKey && !opts.PrivateKey {
		return Record{}, ErrExportRequiresSelection
	}

	rec := Record{
		ID:         kp.id,
		Type:       kp.Type(),
		Controller: kp.controller,
		Revoked:    kp.revoked,
	}
	if opts.PublicKey {
		rec.PublicKeyBase58 = kp.PublicKeyBase58()
	}
	if opts.PrivateKey && kp.HasPrivateKey() {
		err := kp.withPrivateKey(func(priv [codec.KeySize]byte) error {
			rec.PrivateKeyBase58 = codec.EncodeBase58(priv[:])
			return nil
		})
		if err != nil {
			return Record{}, err
		}
	}
	return rec, nil
}

// FromRecord reconstructs a KeyPair from a serialized record. Key fields
// are base58 decoded and length checked; nothing else is validated.
func FromRecord(rec Record) (*KeyPair, error) {
	if rec.Type != X25519KeyAgreementKey2019 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, rec.Type)
	}
	if rec.PublicKeyBase58 == "" {
		return nil, ErrMissingPublicKey
	}

	pub, err := codec.DecodeKeyBase58(rec.PublicKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}

	opts := []Option{
		WithID(rec.ID),
		WithController(rec.Controller),
		WithRevoked(rec.Revoked),
		WithPublicKey(pub),
	}

	if rec.PrivateKeyBase58 != "" {
		priv, err := codec.DecodeKeyBase58(rec.PrivateKeyBase58)
		if err != nil {
			return nil, fmt.Errorf("private key: %w", err)
		}
		defer util.WipeBytes(priv)
		opts = append(opts, WithPrivateKey(priv))
	}

	return New(opts...)
}
