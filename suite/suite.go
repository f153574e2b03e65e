// Package suite dispatches key-agreement operations on a document's type
// tag.
package suite

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/jmcleod/keyagree/key"
)

var (
	ErrUnknownSuite   = errors.New("unknown key agreement suite")
	ErrDuplicateSuite = errors.New("key agreement suite already registered")
)

// KeyAgreementSuite is the capability shared by key-agreement key types.
type KeyAgreementSuite interface {
	Type() string
	Generate(opts ...key.Option) (*key.KeyPair, error)
	FromFingerprint(fingerprint string) (*key.KeyPair, error)
	DeriveSecret(local, remote *key.KeyPair) ([]byte, error)
}

// Registry maps type tags to suites. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	suites map[string]KeyAgreementSuite
}

func NewRegistry() *Registry {
	return &Registry{suites: make(map[string]KeyAgreementSuite)}
}

// Default returns a registry holding the X25519KeyAgreementKey2019 suite
// on the default backend.
func Default() *Registry {
	r := NewRegistry()
	_ = r.Register(key.NewSuite(nil))
	return r
}

// Register adds s under its type tag.
func (r *Registry) Register(s KeyAgreementSuite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := s.Type()
	if _, ok := r.suites[t]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSuite, t)
	}
	r.suites[t] = s
	return nil
}

// Lookup returns the suite registered for typ.
func (r *Registry) Lookup(typ string) (KeyAgreementSuite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.suites[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSuite, typ)
	}
	return s, nil
}

// Types returns the registered type tags in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.suites))
	for t := range r.suites {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
