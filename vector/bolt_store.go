package vector

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/viant/lexvec/index"
	"github.com/viant/lexvec/lexeme"
)

const (
	defaultBucket = "lexemes"
	metaBucket    = "lexvec_meta"
)

// BoltStore implements Store on a bbolt bucket. Records are stored as JSON
// keyed by lexeme, so bbolt's byte ordering of keys gives ScanAll its order.
type BoltStore struct {
	db       *bolt.DB
	bucket   []byte
	dim      int
	newIndex func() index.Index
}

// boltRecord is the stored form of a Record.
type boltRecord struct {
	Key      string    `json:"key"`
	Category string    `json:"category"`
	Particle string    `json:"particle_class"`
	Vector   []float32 `json:"vector"`
	Gloss    string    `json:"gloss,omitempty"`
}

// NewBoltStore creates a BoltStore of dimension dim on db. The record bucket
// is created if it doesn't exist; an existing bucket must have been created
// with the same dimension. The store takes ownership of db and closes it in
// Close.
func NewBoltStore(db *bolt.DB, dim int, opts ...Option) (*BoltStore, error) {
	if db == nil {
		return nil, fmt.Errorf("vector: bolt db is nil")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("vector: invalid dimension %d", dim)
	}
	o := newOptions(opts)
	s := &BoltStore{db: db, bucket: []byte(o.bucket), dim: dim, newIndex: o.newIndex}

	err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(s.bucket); err != nil {
			return err
		}
		meta, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
		if err != nil {
			return err
		}
		dimKey := []byte(o.bucket + ".dimension")
		stored := meta.Get(dimKey)
		if stored == nil {
			return meta.Put(dimKey, []byte(strconv.Itoa(dim)))
		}
		existing, err := strconv.Atoi(string(stored))
		if err != nil {
			return fmt.Errorf("vector: corrupt stored dimension %q: %w", stored, err)
		}
		if existing != dim {
			return &DimensionMismatchError{Expected: existing, Actual: dim}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// OpenBoltStore opens (or creates) the bbolt file at path and wraps it in a
// BoltStore.
func OpenBoltStore(path string, dim int, opts ...Option) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}
	s, err := NewBoltStore(db, dim, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Dimension returns the canonical vector length.
func (s *BoltStore) Dimension() int { return s.dim }

func (s *BoltStore) encode(rec Record) ([]byte, error) {
	if err := rec.Validate(s.dim); err != nil {
		return nil, err
	}
	return json.Marshal(boltRecord{
		Key:      rec.Key,
		Category: rec.Category.String(),
		Particle: rec.Particle,
		Vector:   rec.Vector,
		Gloss:    rec.Gloss,
	})
}

func (s *BoltStore) decode(data []byte) (Record, error) {
	var br boltRecord
	if err := json.Unmarshal(data, &br); err != nil {
		return Record{}, fmt.Errorf("vector: decode record: %w", err)
	}
	c, err := lexeme.ParseCategory(br.Category)
	if err != nil {
		return Record{}, fmt.Errorf("vector: record %q: %w", br.Key, err)
	}
	if err := CheckDimension(br.Vector, s.dim); err != nil {
		return Record{}, fmt.Errorf("vector: record %q: %w", br.Key, err)
	}
	return Record{Key: br.Key, Category: c, Particle: br.Particle, Vector: br.Vector, Gloss: br.Gloss}, nil
}

// Upsert replaces the value stored at rec.Key.
func (s *BoltStore) Upsert(_ context.Context, rec Record) error {
	data, err := s.encode(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(rec.Key), data)
	})
}

// UpsertAll writes recs in one bbolt transaction.
func (s *BoltStore) UpsertAll(_ context.Context, recs []Record) error {
	if len(recs) == 0 {
		return nil
	}
	encoded := make([][]byte, len(recs))
	for i, rec := range recs {
		data, err := s.encode(rec)
		if err != nil {
			return err
		}
		encoded[i] = data
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		for i, rec := range recs {
			if err := b.Put([]byte(rec.Key), encoded[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get returns the record stored under key.
func (s *BoltStore) Get(_ context.Context, key string) (*Record, error) {
	var rec Record
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(s.bucket).Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		// data is only valid within the transaction; decode copies it.
		var err error
		rec, err = s.decode(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *BoltStore) each(fn func(Record) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).ForEach(func(_, v []byte) error {
			rec, err := s.decode(v)
			if err != nil {
				return err
			}
			return fn(rec)
		})
	})
}

// SearchSubstring matches text against key and gloss with Unicode case
// folding.
func (s *BoltStore) SearchSubstring(_ context.Context, text string) ([]Record, error) {
	needle := strings.ToLower(text)
	var out []Record
	err := s.each(func(rec Record) error {
		if strings.Contains(strings.ToLower(rec.Key), needle) || strings.Contains(strings.ToLower(rec.Gloss), needle) {
			out = append(out, rec)
		}
		return nil
	})
	return out, err
}

// ScanAll returns every record ordered by key.
func (s *BoltStore) ScanAll(_ context.Context) ([]Record, error) {
	var out []Record
	err := s.each(func(rec Record) error {
		out = append(out, rec)
		return nil
	})
	return out, err
}

// Search builds an index over a consistent snapshot of the bucket and
// queries it.
func (s *BoltStore) Search(ctx context.Context, query []float32, topN int) ([]Match, error) {
	if err := CheckDimension(query, s.dim); err != nil {
		return nil, err
	}
	recs, err := s.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(recs))
	vecs := make([][]float32, len(recs))
	byKey := make(map[string]Record, len(recs))
	for i, rec := range recs {
		ids[i] = rec.Key
		vecs[i] = rec.Vector
		byKey[rec.Key] = rec
	}
	idx := s.newIndex()
	if err := idx.Build(ids, vecs); err != nil {
		return nil, err
	}
	hitIDs, scores, err := idx.Query(query, topN)
	if err != nil {
		return nil, err
	}
	out := make([]Match, len(hitIDs))
	for i, id := range hitIDs {
		out[i] = Match{Record: byKey[id], Score: scores[i]}
	}
	return out, nil
}

// Close closes the underlying bbolt database.
func (s *BoltStore) Close() error { return s.db.Close() }

var _ Store = (*BoltStore)(nil)
