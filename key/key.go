// Package key provides X25519 key-agreement key pairs
// ("X25519KeyAgreementKey2019") for Linked-Data identity documents:
// generation, conversion from Ed25519 keys, fingerprints, export and
// reconstruction, and shared-secret derivation.
//
// A KeyPair always holds a 32-byte public key and optionally a 32-byte
// private key. The private key is kept sealed in a memguard enclave and is
// only decrypted for the duration of an export or a derivation. Key bytes
// never change after construction; only the id and revoked metadata can be
// set afterwards.
package key

import (
	"errors"
	"fmt"
	"slices"

	"github.com/awnumar/memguard"

	"github.com/jmcleod/keyagree/codec"
	"github.com/jmcleod/keyagree/convert"
	"github.com/jmcleod/keyagree/crypto"
	"github.com/jmcleod/keyagree/internal/util"
)

var (
	// ErrMissingPublicKey is returned when a key pair is built without a public key.
	ErrMissingPublicKey = errors.New("missing public key")
	// ErrMissingPrivateKey is returned when an operation needs the private key
	// of a public-only key pair.
	ErrMissingPrivateKey = errors.New("missing private key")
)

// KeyPair is an X25519 key-agreement key.
type KeyPair struct {
	id         string
	controller string
	revoked    string
	publicKey  [codec.KeySize]byte
	privateKey *memguard.Enclave
}

// Option configures a KeyPair under construction.
type Option func(*options)

type options struct {
	id         string
	controller string
	revoked    string
	publicKey  []byte
	privateKey []byte
}

// WithID sets the key id. If omitted and a controller is set, the id is
// derived as controller + "#" + fingerprint.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithController sets the identifier of the entity that owns the key.
func WithController(controller string) Option {
	return func(o *options) {
		o.controller = controller
	}
}

// WithRevoked sets the opaque revocation timestamp.
func WithRevoked(revoked string) Option {
	return func(o *options) {
		o.revoked = revoked
	}
}

// WithPublicKey sets the raw 32-byte public key.
func WithPublicKey(publicKey []byte) Option {
	return func(o *options) {
		o.publicKey = publicKey
	}
}

// WithPrivateKey sets the raw 32-byte private key.
func WithPrivateKey(privateKey []byte) Option {
	return func(o *options) {
		o.privateKey = privateKey
	}
}

// New builds a KeyPair from raw key bytes. Only lengths are checked; the
// public key is not checked for curve membership.
func New(opts ...Option) (*KeyPair, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if len(o.publicKey) == 0 {
		return nil, ErrMissingPublicKey
	}
	pub, ok := util.ToArray32(o.publicKey)
	if !ok {
		return nil, fmt.Errorf("public key: %w: got %d bytes", codec.ErrInvalidKeyLength, len(o.publicKey))
	}

	kp := &KeyPair{
		id:         o.id,
		controller: o.controller,
		revoked:    o.revoked,
		publicKey:  pub,
	}

	if o.privateKey != nil {
		if len(o.privateKey) != codec.KeySize {
			return nil, fmt.Errorf("private key: %w: got %d bytes", codec.ErrInvalidKeyLength, len(o.privateKey))
		}
		// NewEnclave wipes its input, so hand it a copy.
		kp.privateKey = memguard.NewEnclave(util.CopyBytes(o.privateKey))
	}

	if kp.id == "" && kp.controller != "" {
		kp.id = kp.controller + "#" + kp.Fingerprint()
	}

	return kp, nil
}

// Generate creates a key pair with fresh random keys from the default
// backend. Metadata options (WithController, WithID, WithRevoked) are
// applied to the result. An error means the entropy source failed and
// should be treated as fatal.
func Generate(opts ...Option) (*KeyPair, error) {
	return GenerateWith(crypto.Curve25519(), opts...)
}

// GenerateWith is Generate with an explicit backend.
func GenerateWith(b crypto.Backend, opts ...Option) (*KeyPair, error) {
	pub, priv, err := b.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating X25519 key pair: %w", err)
	}
	defer util.WipeArray32(&priv)

	return New(slices.Concat(opts, []Option{WithPublicKey(pub[:]), WithPrivateKey(priv[:])})...)
}

// FromEd25519 converts a legacy base58-encoded Ed25519 key pair. The
// controller is copied from the source key.
func FromEd25519(src convert.Ed25519KeyPair) (*KeyPair, error) {
	pub, priv, err := src.Convert()
	if err != nil {
		return nil, err
	}
	defer util.WipeBytes(priv)
	return New(WithController(src.Controller), WithPublicKey(pub), WithPrivateKey(priv))
}

// FromEd25519Multibase converts a multibase-encoded Ed25519 key pair. The
// controller is copied from the source key.
func FromEd25519Multibase(src convert.Ed25519MultibaseKeyPair) (*KeyPair, error) {
	pub, priv, err := src.Convert()
	if err != nil {
		return nil, err
	}
	defer util.WipeBytes(priv)
	return New(WithController(src.Controller), WithPublicKey(pub), WithPrivateKey(priv))
}

// FromFingerprint returns a public-only key pair with no controller or id.
func FromFingerprint(fingerprint string) (*KeyPair, error) {
	pub, err := codec.DecodeFingerprint(fingerprint)
	if err != nil {
		return nil, err
	}
	return New(WithPublicKey(pub))
}

// FromLegacyFingerprint is FromFingerprint for fingerprints that use the
// historical single-byte multicodec tag.
func FromLegacyFingerprint(fingerprint string) (*KeyPair, error) {
	pub, err := codec.DecodeLegacyFingerprint(fingerprint)
	if err != nil {
		return nil, err
	}
	return New(WithPublicKey(pub))
}

func (kp *KeyPair) ID() string {
	return kp.id
}

// SetID replaces the key id.
func (kp *KeyPair) SetID(id string) {
	kp.id = id
}

func (kp *KeyPair) Controller() string {
	return kp.controller
}

func (kp *KeyPair) Type() Type {
	return X25519KeyAgreementKey2019
}

func (kp *KeyPair) Revoked() string {
	return kp.revoked
}

// SetRevoked records an opaque revocation timestamp.
func (kp *KeyPair) SetRevoked(revoked string) {
	kp.revoked = revoked
}

// PublicKey returns a copy of the raw public key.
func (kp *KeyPair) PublicKey() []byte {
	return util.CopyBytes(kp.publicKey[:])
}

func (kp *KeyPair) PublicKeyBase58() string {
	return codec.EncodeBase58(kp.publicKey[:])
}

func (kp *KeyPair) HasPrivateKey() bool {
	return kp.privateKey != nil
}

// Fingerprint returns the multibase fingerprint of the public key.
func (kp *KeyPair) Fingerprint() string {
	return codec.EncodeFingerprint(kp.publicKey[:])
}

// VerifyFingerprint checks that fingerprint was produced from this key's
// public key.
func (kp *KeyPair) VerifyFingerprint(fingerprint string) codec.VerifyResult {
	return codec.VerifyFingerprint(kp.publicKey[:], fingerprint)
}

// withPrivateKey opens the enclave and passes the private key to fn. The
// buffer is destroyed when fn returns.
func (kp *KeyPair) withPrivateKey(fn func(priv [codec.KeySize]byte) error) error {
	if kp.privateKey == nil {
		return ErrMissingPrivateKey
	}
	buf, err := kp.privateKey.Open()
	if err != nil {
		return fmt.Errorf("opening private key: %w", err)
	}
	defer buf.Destroy()

	priv, ok := util.ToArray32(buf.Bytes())
	if !ok {
		return fmt.Errorf("private key: %w", codec.ErrInvalidKeyLength)
	}
	defer util.WipeArray32(&priv)

	return fn(priv)
}
