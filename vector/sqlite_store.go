package vector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/viant/lexvec/changelog"
	"github.com/viant/lexvec/lexeme"
)

// SQLiteStore implements Store on the lexemes table of a SQLite database.
// Similarity ranking runs inside SQLite through the vec_dot scalar function
// and substring search through vec_lower, so the database must have been
// opened with engine.Open (or the functions registered beforehand).
type SQLiteStore struct {
	db  *sql.DB
	dim int
}

// NewSQLiteStore creates a new SQLite-backed Store of dimension dim. It
// ensures the schema exists and that the database was not created for a
// different dimension.
func NewSQLiteStore(ctx context.Context, db *sql.DB, dim int, opts ...Option) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("vector: db is nil")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("vector: invalid dimension %d", dim)
	}
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	if err := ensureDimension(ctx, db, dim); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	if o.changeLog {
		if err := changelog.Install(ctx, db, o.changeLogCfg); err != nil {
			return nil, err
		}
	}
	return &SQLiteStore{db: db, dim: dim}, nil
}

// DB exposes the underlying database, e.g. for changelog.Read.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

// Dimension returns the canonical vector length.
func (s *SQLiteStore) Dimension() int { return s.dim }

const upsertSQL = `
INSERT INTO lexemes(key, category, particle_class, vector, gloss)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  category = excluded.category,
  particle_class = excluded.particle_class,
  vector = excluded.vector,
  gloss = excluded.gloss`

const selectColumns = `SELECT key, category, particle_class, vector, gloss FROM lexemes`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLiteStore) upsert(ctx context.Context, ex execer, rec Record) error {
	if err := rec.Validate(s.dim); err != nil {
		return err
	}
	blob, err := EncodeVector(rec.Vector, s.dim)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, upsertSQL, rec.Key, rec.Category.String(), rec.Particle, blob, rec.Gloss)
	return err
}

// Upsert inserts rec or replaces every column of the existing row.
func (s *SQLiteStore) Upsert(ctx context.Context, rec Record) error {
	return s.upsert(ctx, s.db, rec)
}

// UpsertAll writes recs in a single transaction. The first invalid record
// aborts the batch and nothing is committed.
func (s *SQLiteStore) UpsertAll(ctx context.Context, recs []Record) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, rec := range recs {
		if err := s.upsert(ctx, tx, rec); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get returns the record stored under key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*Record, error) {
	recs, err := s.query(ctx, selectColumns+` WHERE key = ?`, key)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return &recs[0], nil
}

// SearchSubstring matches text against key and gloss with Unicode case
// folding.
func (s *SQLiteStore) SearchSubstring(ctx context.Context, text string) ([]Record, error) {
	if text == "" {
		return s.ScanAll(ctx)
	}
	q := selectColumns + `
WHERE instr(vec_lower(key), vec_lower(?)) > 0 OR instr(vec_lower(gloss), vec_lower(?)) > 0
ORDER BY key`
	return s.query(ctx, q, text, text)
}

// ScanAll returns every record ordered by key.
func (s *SQLiteStore) ScanAll(ctx context.Context) ([]Record, error) {
	return s.query(ctx, selectColumns+` ORDER BY key`)
}

// Search ranks records by vec_dot against query.
func (s *SQLiteStore) Search(ctx context.Context, query []float32, topN int) ([]Match, error) {
	qBlob, err := EncodeVector(query, s.dim)
	if err != nil {
		return nil, err
	}
	base := `SELECT key, category, particle_class, vector, gloss, vec_dot(vector, ?) AS score
FROM lexemes ORDER BY score DESC, key ASC`
	var rows *sql.Rows
	if topN > 0 {
		rows, err = s.db.QueryContext(ctx, base+` LIMIT ?`, qBlob, topN)
	} else {
		rows, err = s.db.QueryContext(ctx, base, qBlob)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		rec, err := s.scan(rows, &m.Score)
		if err != nil {
			return nil, err
		}
		m.Record = rec
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close is a no-op: the *sql.DB belongs to the caller.
func (s *SQLiteStore) Close() error { return nil }

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// scan reads the five record columns followed by any extra destinations.
func (s *SQLiteStore) scan(rows *sql.Rows, extra ...any) (Record, error) {
	var (
		rec      Record
		category string
		blob     []byte
	)
	dest := append([]any{&rec.Key, &category, &rec.Particle, &blob, &rec.Gloss}, extra...)
	if err := rows.Scan(dest...); err != nil {
		return Record{}, err
	}
	c, err := lexeme.ParseCategory(category)
	if err != nil {
		return Record{}, fmt.Errorf("vector: record %q: %w", rec.Key, err)
	}
	rec.Category = c
	if rec.Vector, err = DecodeVector(blob, s.dim); err != nil {
		return Record{}, fmt.Errorf("vector: record %q: %w", rec.Key, err)
	}
	return rec, nil
}

// Ensure SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)
