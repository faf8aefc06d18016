package vector

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/viant/lexvec/lexeme"
)

// Record is the unit persisted in a Store, keyed by the lexical item.
type Record struct {
	// Key is the lexical item and primary key of the store.
	Key string

	// Category is the coarse grammatical class; it must be a member of the
	// lexeme enumeration.
	Category lexeme.Category

	// Particle is the finer subclass within Category. Stores keep it as
	// given; the ingestion pipeline fills in lexeme.ParticleUnknown when a
	// tag has no mapping.
	Particle string

	// Vector holds the encoded features; its length equals the store's
	// dimension.
	Vector []float32

	// Gloss is an optional free-text annotation.
	Gloss string
}

// Validate checks the record against a store of the given dimension.
func (r *Record) Validate(dim int) error {
	if strings.TrimSpace(r.Key) == "" {
		return &ValidationError{Field: "key", Reason: "is empty"}
	}
	if !r.Category.Valid() {
		return &ValidationError{Key: r.Key, Field: "category", Reason: "is missing or unknown"}
	}
	if err := CheckDimension(r.Vector, dim); err != nil {
		return err
	}
	for i, x := range r.Vector {
		if f := float64(x); math.IsNaN(f) || math.IsInf(f, 0) {
			return &ValidationError{Key: r.Key, Field: "vector", Reason: fmt.Sprintf("has non-finite coordinate at %d", i)}
		}
	}
	return nil
}

// Clone returns a deep copy, so that callers never share vector storage
// with a store.
func (r Record) Clone() Record {
	if r.Vector != nil {
		r.Vector = append([]float32(nil), r.Vector...)
	}
	return r
}

// Match is a single similarity search hit.
type Match struct {
	Record
	Score float64
}

// Store defines the lexeme store API. Every call is atomic on its own;
// there is no isolation across calls.
type Store interface {
	// Dimension returns the canonical vector length of this store.
	Dimension() int

	// Upsert validates and persists the record, fully replacing any prior
	// record with the same key.
	Upsert(ctx context.Context, rec Record) error

	// UpsertAll persists every record in one transaction: either all of them
	// are committed or none is.
	UpsertAll(ctx context.Context, recs []Record) error

	// Get returns the record stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (*Record, error)

	// SearchSubstring returns records whose key or gloss contains text,
	// compared case-insensitively, ordered by key.
	SearchSubstring(ctx context.Context, text string) ([]Record, error)

	// ScanAll returns every record ordered by key ascending.
	ScanAll(ctx context.Context) ([]Record, error)

	// Search ranks stored records by dot product with query, descending,
	// ties broken by key ascending, and returns the first topN. A topN of
	// zero or less returns all records.
	Search(ctx context.Context, query []float32, topN int) ([]Match, error)

	// Close releases resources owned by the store.
	Close() error
}
