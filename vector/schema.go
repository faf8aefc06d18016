package vector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

const lexemesSchema = `
CREATE TABLE IF NOT EXISTS lexemes (
    key            TEXT PRIMARY KEY,
    category       TEXT NOT NULL,
    particle_class TEXT NOT NULL DEFAULT '',
    vector         BLOB NOT NULL,
    gloss          TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS lexvec_meta (
    name  TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

const dimensionMetaKey = "dimension"

// EnsureSchema creates the lexemes and lexvec_meta tables in the provided
// database if they do not already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(lexemesSchema)
	return err
}

// ensureDimension records dim for a fresh database, or verifies it against
// the dimension recorded when the database was created.
func ensureDimension(ctx context.Context, db *sql.DB, dim int) error {
	var stored string
	err := db.QueryRowContext(ctx, `SELECT value FROM lexvec_meta WHERE name = ?`, dimensionMetaKey).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.ExecContext(ctx, `INSERT INTO lexvec_meta(name, value) VALUES(?, ?)`, dimensionMetaKey, strconv.Itoa(dim))
		return err
	case err != nil:
		return err
	}
	existing, err := strconv.Atoi(stored)
	if err != nil {
		return fmt.Errorf("vector: corrupt stored dimension %q: %w", stored, err)
	}
	if existing != dim {
		return &DimensionMismatchError{Expected: existing, Actual: dim}
	}
	return nil
}
