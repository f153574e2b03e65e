package key

import "github.com/jmcleod/keyagree/crypto"

// Suite bundles the X25519KeyAgreementKey2019 operations with a backend so
// that callers dispatching on a document's type tag can treat it as one
// capability.
type Suite struct {
	backend crypto.Backend
}

// NewSuite returns a Suite using b. A nil backend selects crypto.Curve25519.
func NewSuite(b crypto.Backend) *Suite {
	if b == nil {
		b = crypto.Curve25519()
	}
	return &Suite{backend: b}
}

// Type returns the suite's type tag.
func (s *Suite) Type() string {
	return X25519KeyAgreementKey2019.String()
}

func (s *Suite) Generate(opts ...Option) (*KeyPair, error) {
	return GenerateWith(s.backend, opts...)
}

func (s *Suite) FromFingerprint(fingerprint string) (*KeyPair, error) {
	return FromFingerprint(fingerprint)
}

func (s *Suite) DeriveSecret(local, remote *KeyPair) ([]byte, error) {
	return DeriveSecret(s.backend, local, remote)
}
