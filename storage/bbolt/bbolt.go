// Package bbolt provides a BBolt-backed keyring.
package bbolt

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/jmcleod/keyagree/key"
	"github.com/jmcleod/keyagree/storage"
)

// Store implements storage.Repository backed by a BBolt database. Each
// controller gets its own bucket keyed by fingerprint.
type Store struct {
	db *bbolt.DB
}

var _ storage.Repository = (*Store)(nil)

// NewRepository returns a Repository backed by the given BBolt database.
func NewRepository(db *bbolt.DB) *Store {
	return &Store{db: db}
}

// NewRepositoryFromFile opens a BBolt database at the given path and returns a new Repository.
func NewRepositoryFromFile(path string, options *bbolt.Options) (*Store, error) {
	db, err := bbolt.Open(path, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return NewRepository(db), nil
}

// Close closes the underlying BBolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Put(rec key.Record) (key.Record, error) {
	rec, fp, err := storage.Prepare(rec)
	if err != nil {
		return key.Record{}, err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return key.Record{}, fmt.Errorf("marshaling key record: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(rec.Controller))
		if err != nil {
			return err
		}
		return b.Put([]byte(fp), data)
	})
	if err != nil {
		return key.Record{}, err
	}
	return rec, nil
}

func (s *Store) Get(controller, fingerprint string) (key.Record, error) {
	var rec key.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(controller))
		if b == nil {
			return fmt.Errorf("%s: %w", controller, storage.ErrNotFound)
		}
		data := b.Get([]byte(fingerprint))
		if data == nil {
			return fmt.Errorf("%s/%s: %w", controller, fingerprint, storage.ErrNotFound)
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return key.Record{}, err
	}
	return rec, nil
}

// List walks the controller's bucket in key order, so records come back
// sorted by fingerprint.
func (s *Store) List(controller string) ([]key.Record, error) {
	records := []key.Record{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(controller))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var rec key.Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("%s/%s: %w", controller, k, err)
			}
			records = append(records, rec)
			return nil
		})
	})
	return records, err
}

func (s *Store) Delete(controller, fingerprint string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(controller))
		if b == nil {
			return fmt.Errorf("%s: %w", controller, storage.ErrNotFound)
		}
		if b.Get([]byte(fingerprint)) == nil {
			return fmt.Errorf("%s/%s: %w", controller, fingerprint, storage.ErrNotFound)
		}
		if err := b.Delete([]byte(fingerprint)); err != nil {
			return err
		}
		if k, _ := b.Cursor().First(); k == nil {
			return tx.DeleteBucket([]byte(controller))
		}
		return nil
	})
}
