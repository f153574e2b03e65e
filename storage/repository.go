// Package storage provides the storage abstraction layer for key records.
//
// Records are scoped by controller and addressed by the fingerprint of
// their public key. Private key material is stored as exported; callers
// that persist secrets decide whether to export them.
package storage

import (
	"errors"
	"fmt"

	"github.com/jmcleod/keyagree/internal/uuid"
	"github.com/jmcleod/keyagree/key"
)

var (
	// ErrNotFound is returned when no record exists for a controller and fingerprint.
	ErrNotFound = errors.New("key record not found")
	// ErrMissingController is returned when a record without a controller is stored.
	ErrMissingController = errors.New("key record has no controller")
)

// Repository defines the interface for key record storage.
type Repository interface {
	// Put stores rec under its controller and fingerprint, replacing any
	// previous record. A record without an id is assigned a "urn:uuid:" id.
	// The stored record is returned.
	Put(rec key.Record) (key.Record, error)
	Get(controller, fingerprint string) (key.Record, error)
	// List returns the controller's records ordered by fingerprint.
	List(controller string) ([]key.Record, error)
	Delete(controller, fingerprint string) error
}

// Prepare validates rec for storage and returns it with an id assigned,
// along with the fingerprint it is stored under.
func Prepare(rec key.Record) (key.Record, string, error) {
	if rec.Controller == "" {
		return key.Record{}, "", ErrMissingController
	}
	kp, err := key.FromRecord(rec)
	if err != nil {
		return key.Record{}, "", fmt.Errorf("validating key record: %w", err)
	}
	if rec.ID == "" {
		rec.ID = uuid.URN()
	}
	return rec, kp.Fingerprint(), nil
}
