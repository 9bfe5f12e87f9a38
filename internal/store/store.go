// Package store holds the frozen, read-only set of event records that every
// query scans. A Store is assembled once through a Builder and never changes
// afterwards, so any number of goroutines may read it without locking.
package store

import (
	"errors"
	"iter"
	"slices"

	"eventlog/internal/models"
)

// ErrFrozen is returned when adding to a builder that has already been built.
var ErrFrozen = errors.New("store: builder already built")

// Store is an immutable, unordered collection of records.
type Store struct {
	records []models.Record
}

// New builds a store holding a private copy of records.
func New(records []models.Record) *Store {
	return &Store{records: slices.Clone(records)}
}

// Len returns the number of records.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// All yields every record. Iteration order carries no meaning.
func (s *Store) All() iter.Seq[models.Record] {
	return func(yield func(models.Record) bool) {
		if s == nil {
			return
		}
		for _, r := range s.records {
			if !yield(r) {
				return
			}
		}
	}
}

// Builder accumulates records during ingestion.
type Builder struct {
	records []models.Record
	built   bool
}

// NewBuilder returns a builder with room for sizeHint records.
func NewBuilder(sizeHint int) *Builder {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Builder{records: make([]models.Record, 0, sizeHint)}
}

// Add appends records. It fails once Build has been called.
func (b *Builder) Add(records ...models.Record) error {
	if b.built {
		return ErrFrozen
	}
	b.records = append(b.records, records...)
	return nil
}

// Build freezes the builder and returns the store.
func (b *Builder) Build() *Store {
	b.built = true
	s := &Store{records: b.records}
	b.records = nil
	return s
}
