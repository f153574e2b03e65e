// Package memory provides a thread-safe in-memory implementation of storage.Repository.
package memory

import (
	"maps"
	"slices"
	"sync"

	"github.com/jmcleod/keyagree/key"
	"github.com/jmcleod/keyagree/storage"
)

// Repository is a thread-safe in-memory implementation of storage.Repository.
// Suitable for testing, demos, and single-process use cases.
type Repository struct {
	mu   sync.RWMutex
	data map[string]map[string]key.Record
}

var _ storage.Repository = (*Repository)(nil)

// NewRepository creates a new empty in-memory Repository.
func NewRepository() *Repository {
	return &Repository{data: make(map[string]map[string]key.Record)}
}

func (r *Repository) Put(rec key.Record) (key.Record, error) {
	rec, fp, err := storage.Prepare(rec)
	if err != nil {
		return key.Record{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[rec.Controller]; !ok {
		r.data[rec.Controller] = make(map[string]key.Record)
	}
	r.data[rec.Controller][fp] = rec
	return rec, nil
}

func (r *Repository) Get(controller, fingerprint string) (key.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.data[controller][fingerprint]
	if !ok {
		return key.Record{}, storage.ErrNotFound
	}
	return rec, nil
}

func (r *Repository) List(controller string) ([]key.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := r.data[controller]
	out := make([]key.Record, 0, len(records))
	for _, fp := range slices.Sorted(maps.Keys(records)) {
		out = append(out, records[fp])
	}
	return out, nil
}

func (r *Repository) Delete(controller, fingerprint string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	records, ok := r.data[controller]
	if !ok {
		return storage.ErrNotFound
	}
	if _, ok := records[fingerprint]; !ok {
		return storage.ErrNotFound
	}
	delete(records, fingerprint)
	if len(records) == 0 {
		delete(r.data, controller)
	}
	return nil
}
