package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcleod/keyagree/crypto"
	"github.com/jmcleod/keyagree/key"
)

type renamed struct {
	*key.Suite
	name string
}

func (r renamed) Type() string { return r.name }

func TestDefault(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"X25519KeyAgreementKey2019"}, r.Types())

	s, err := r.Lookup("X25519KeyAgreementKey2019")
	require.NoError(t, err)

	alice, err := s.Generate(key.WithController("did:example:alice"))
	require.NoError(t, err)
	bob, err := s.Generate()
	require.NoError(t, err)

	bobPub, err := s.FromFingerprint(bob.Fingerprint())
	require.NoError(t, err)

	s1, err := s.DeriveSecret(alice, bobPub)
	require.NoError(t, err)
	s2, err := s.DeriveSecret(bob, alice)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	_, err := r.Lookup("X25519KeyAgreementKey2019")
	assert.ErrorIs(t, err, ErrUnknownSuite)

	require.NoError(t, r.Register(key.NewSuite(crypto.ECDH())))
	assert.ErrorIs(t, r.Register(key.NewSuite(nil)), ErrDuplicateSuite)

	require.NoError(t, r.Register(renamed{Suite: key.NewSuite(nil), name: "A-Test"}))
	assert.Equal(t, []string{"A-Test", "X25519KeyAgreementKey2019"}, r.Types())
}
