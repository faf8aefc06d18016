package vector

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/lexvec/changelog"
	"github.com/viant/lexvec/engine"
	"github.com/viant/lexvec/lexeme"
)

// TestSQLiteStore_DimensionIsPersisted verifies that a database created for
// one dimension refuses to open with another.
func TestSQLiteStore_DimensionIsPersisted(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lexicon.db")

	db, err := engine.Open(path)
	require.NoError(t, err)
	_, err = NewSQLiteStore(ctx, db, 7)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = engine.Open(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSQLiteStore(ctx, db, 10)
	var dm *DimensionMismatchError
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 7, dm.Expected)
	assert.Equal(t, 10, dm.Actual)

	_, err = NewSQLiteStore(ctx, db, 7)
	assert.NoError(t, err)
}

func TestSQLiteStore_InvalidArgs(t *testing.T) {
	_, err := NewSQLiteStore(context.Background(), nil, 7)
	assert.Error(t, err)

	db, err := engine.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	_, err = NewSQLiteStore(context.Background(), db, 0)
	assert.Error(t, err)
}

// TestSQLiteStore_ChangeLog exercises the trigger-maintained change log:
// a first upsert logs an insert, a second one an update.
func TestSQLiteStore_ChangeLog(t *testing.T) {
	ctx := context.Background()
	db, err := engine.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	s, err := NewSQLiteStore(ctx, db, testDim, WithChangeLog(""))
	require.NoError(t, err)

	require.NoError(t, s.Upsert(ctx, Record{Key: "mulilo", Category: lexeme.Noun, Particle: lexeme.ParticleBoson, Vector: unit(0), Gloss: "fire"}))
	require.NoError(t, s.Upsert(ctx, Record{Key: "mulilo", Category: lexeme.Noun, Particle: lexeme.ParticleBoson, Vector: unit(0), Gloss: "flame"}))

	entries, err := changelog.Read(ctx, s.DB(), "", 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, changelog.OpInsert, entries[0].Op)
	assert.Equal(t, changelog.OpUpdate, entries[1].Op)
	assert.Equal(t, "mulilo", entries[1].Key)
	assert.Less(t, entries[0].Seq, entries[1].Seq)

	var payload struct {
		Gloss  string `json:"gloss"`
		Vector string `json:"vector"`
	}
	require.NoError(t, json.Unmarshal(entries[1].Payload, &payload))
	assert.Equal(t, "flame", payload.Gloss)
	assert.Equal(t, "0000803f000000000000000000000000000000000000000000000000", payload.Vector)

	rest, err := changelog.Read(ctx, s.DB(), "", entries[0].Seq, 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, entries[1].Seq, rest[0].Seq)
}
