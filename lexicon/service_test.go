package lexicon

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/lexvec/compose"
	"github.com/viant/lexvec/engine"
	"github.com/viant/lexvec/feature"
	"github.com/viant/lexvec/lexeme"
	"github.com/viant/lexvec/snapshot"
	"github.com/viant/lexvec/vector"
)

func newSQLiteService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	db, err := engine.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store, err := vector.NewSQLiteStore(context.Background(), db, 7)
	require.NoError(t, err)
	svc, err := New(store, nil, opts...)
	require.NoError(t, err)
	return svc
}

func newBoltService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	store, err := vector.OpenBoltStore(filepath.Join(t.TempDir(), "lexicon.db"), 7)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	svc, err := New(store, nil, opts...)
	require.NoError(t, err)
	return svc
}

func recordKeys(recs []vector.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Key
	}
	return out
}

func scrapeMetrics(t *testing.T, svc *Service) string {
	t.Helper()
	rec := httptest.NewRecorder()
	svc.Metrics().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestService_IngestAndFind(t *testing.T) {
	for name, mk := range map[string]func(*testing.T, ...Option) *Service{
		"sqlite": newSQLiteService,
		"bolt":   newBoltService,
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			svc := mk(t)

			res, err := svc.Ingest(ctx, Entry{Word: "cattle", Tag: "NNS", Gloss: "cows"})
			require.NoError(t, err)
			assert.False(t, res.Fallback)
			assert.Equal(t, lexeme.Noun, res.Record.Category)
			assert.Equal(t, lexeme.ParticleBoson, res.Record.Particle)
			assert.Equal(t, []float32{1, 0, 0, 0, 0, 0, 0}, res.Record.Vector)

			recs, err := svc.Find(ctx, "cat")
			require.NoError(t, err)
			require.Len(t, recs, 1)
			assert.Equal(t, res.Record, recs[0])
		})
	}
}

func TestService_IngestFallback(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)

	res, err := svc.Ingest(ctx, Entry{Word: "ngoma", Tag: "NOUN", Particle: lexeme.ParticleGauge})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, lexeme.ParticleGauge, res.Record.Particle)
	assert.Equal(t, []float32{1, 0, 0, 0, 0, 0, 0}, res.Record.Vector)

	res, err = svc.Ingest(ctx, Entry{Word: "hm", Tag: "???"})
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Equal(t, lexeme.Other, res.Record.Category)
	assert.Equal(t, lexeme.ParticleUnknown, res.Record.Particle)

	assert.Contains(t, scrapeMetrics(t, svc), `lexvec_lexicon_encoding_fallbacks_total{category="NOUN"} 1`)
}

func TestService_IngestOverwritesCachedRecord(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t, WithCacheSize(8))

	_, err := svc.Ingest(ctx, Entry{Word: "bala", Tag: "VB"})
	require.NoError(t, err)
	got, err := svc.Lookup(ctx, "bala")
	require.NoError(t, err)
	assert.Equal(t, lexeme.Verb, got.Category)

	// The second lookup is served from the cache.
	_, err = svc.Lookup(ctx, "bala")
	require.NoError(t, err)
	assert.Contains(t, scrapeMetrics(t, svc), `lexvec_lexicon_cache_lookups_total{result="hit"} 1`)

	_, err = svc.Ingest(ctx, Entry{Word: "bala", Tag: "NN", Gloss: "letter"})
	require.NoError(t, err)
	got, err = svc.Lookup(ctx, "bala")
	require.NoError(t, err)
	assert.Equal(t, lexeme.Noun, got.Category)
	assert.Equal(t, "letter", got.Gloss)

	// Mutating a returned record does not leak into the cache.
	got.Vector[0] = 42
	again, err := svc.Lookup(ctx, "bala")
	require.NoError(t, err)
	assert.Equal(t, float32(1), again.Vector[0])
}

func TestService_LookupNotFound(t *testing.T) {
	for _, size := range []int{0, 4} {
		svc := newSQLiteService(t, WithCacheSize(size))
		_, err := svc.Lookup(context.Background(), "missing")
		assert.True(t, errors.Is(err, vector.ErrNotFound), "%v", err)
	}
}

func TestService_IngestBatch(t *testing.T) {
	testCases := []struct {
		name        string
		atomic      bool
		entries     []Entry
		wantErr     error
		wantStored  int
		wantFailIdx []int
		wantKeys    []string
	}{
		{
			name: "best effort skips invalid",
			entries: []Entry{
				{Word: "mbwa", Tag: "NN"},
				{Word: "", Tag: "NN"},
				{Word: "enda", Tag: "VB"},
			},
			wantStored:  2,
			wantFailIdx: []int{1},
			wantKeys:    []string{"enda", "mbwa"},
		},
		{
			name: "atomic rejects whole batch",
			entries: []Entry{
				{Word: "mbwa", Tag: "NN"},
				{Word: "  ", Tag: "NN"},
			},
			atomic:      true,
			wantErr:     ErrBatchRejected,
			wantFailIdx: []int{1},
			wantKeys:    []string{},
		},
		{
			name: "atomic commits valid batch",
			entries: []Entry{
				{Word: "mbwa", Tag: "NN"},
				{Word: "enda", Tag: "VB"},
			},
			atomic:     true,
			wantStored: 2,
			wantKeys:   []string{"enda", "mbwa"},
		},
		{
			name: "last duplicate wins",
			entries: []Entry{
				{Word: "run", Tag: "NN"},
				{Word: "run", Tag: "VB"},
			},
			wantStored: 2,
			wantKeys:   []string{"run"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			svc := newSQLiteService(t, WithAtomicBatch(tc.atomic))

			report, err := svc.IngestBatch(ctx, tc.entries)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr), "%v", err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, len(tc.entries), report.Total)
			assert.Equal(t, tc.wantStored, report.Stored)
			var failed []int
			for _, f := range report.Failures {
				failed = append(failed, f.Index)
				assert.True(t, vector.IsValidation(f.Err), "%v", f.Err)
			}
			assert.Equal(t, tc.wantFailIdx, failed)

			all, err := svc.Store().ScanAll(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.wantKeys, recordKeys(all))
		})
	}
}

func TestService_IngestBatchLastDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)
	_, err := svc.IngestBatch(ctx, []Entry{{Word: "run", Tag: "NN"}, {Word: "run", Tag: "VB"}})
	require.NoError(t, err)
	got, err := svc.Lookup(ctx, "run")
	require.NoError(t, err)
	assert.Equal(t, lexeme.Verb, got.Category)
}

func TestService_IngestBatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := newSQLiteService(t)
	report, err := svc.IngestBatch(ctx, []Entry{{Word: "mbwa", Tag: "NN"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, report.Stored)
}

func TestService_Similar(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)
	_, err := svc.IngestBatch(ctx, []Entry{
		{Word: "A", Tag: "NN"},
		{Word: "B", Tag: "VB"},
	})
	require.NoError(t, err)

	matches, err := svc.Similar(ctx, []float32{1, 0, 0, 0, 0, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "A", matches[0].Key)
	assert.Equal(t, 1.0, matches[0].Score)
	assert.Equal(t, "B", matches[1].Key)
	assert.Equal(t, 0.0, matches[1].Score)

	_, err = svc.Similar(ctx, []float32{1, 0}, 2)
	assert.True(t, vector.IsDimensionMismatch(err), "%v", err)
}

func TestService_Gist(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)
	_, err := svc.IngestBatch(ctx, []Entry{
		{Word: "dogs", Tag: "NNS"},
		{Word: "run", Tag: "VB"},
		{Word: "fast", Tag: "RB"},
	})
	require.NoError(t, err)

	words := []string{"dogs", "run", "fast", "zzz"}
	got, err := svc.Gist(ctx, words, compose.SumClamp, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"dogs", "run", "fast"}, got.Found)
	assert.Equal(t, []string{"zzz"}, got.Missing)
	assert.InDeltaSlice(t, []float32{1, 1.2, 1, 0, 0, 0, 0}, got.Vector, 1e-6)

	got, err = svc.Gist(ctx, words, compose.SumClamp, true)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{1.2, 1.2, 1, 0, 0, 0, 0}, got.Vector, 1e-6)

	got, err = svc.Gist(ctx, []string{"nothing"}, compose.WeightedAverage, true)
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 7), got.Vector)
	assert.Empty(t, got.Found)
}

func TestService_Stats(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)
	_, err := svc.IngestBatch(ctx, []Entry{
		{Word: "dogs", Tag: "NNS"},
		{Word: "cats", Tag: "NOUN"},
		{Word: "run", Tag: "VB"},
	})
	require.NoError(t, err)

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, map[lexeme.Category]int{lexeme.Noun: 2, lexeme.Verb: 1}, st.ByCategory)
}

func TestService_ExportImport(t *testing.T) {
	for _, format := range []snapshot.Format{snapshot.JSON, snapshot.YAML} {
		t.Run(string(format), func(t *testing.T) {
			ctx := context.Background()
			src := newSQLiteService(t)
			_, err := src.IngestBatch(ctx, []Entry{
				{Word: "mulilo", Tag: "NN", Gloss: "fire"},
				{Word: "who", Tag: "WP"},
				{Word: "very", Tag: "RB"},
			})
			require.NoError(t, err)

			var buf bytes.Buffer
			n, err := src.Export(ctx, &buf, format)
			require.NoError(t, err)
			assert.Equal(t, 3, n)

			dst := newBoltService(t)
			n, err = dst.Import(ctx, &buf, format)
			require.NoError(t, err)
			assert.Equal(t, 3, n)

			want, err := src.Store().ScanAll(ctx)
			require.NoError(t, err)
			got, err := dst.Store().ScanAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestService_ImportRejectsInvalidSnapshot(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)
	doc := `[{"key":"a","category":"NOUN","particle_class":"Boson","vector":[1,0,0,0,0,0,0]},
{"key":"b","category":"NOUN","particle_class":"Boson","vector":[1,0]}]`

	_, err := svc.Import(ctx, bytes.NewBufferString(doc), snapshot.JSON)
	assert.True(t, vector.IsDimensionMismatch(err), "%v", err)

	all, err := svc.Store().ScanAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)

	db, err := engine.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	store, err := vector.NewSQLiteStore(context.Background(), db, 7)
	require.NoError(t, err)

	rows := map[lexeme.Category]feature.Row{}
	for _, c := range lexeme.Categories() {
		rows[c] = feature.Row{Default: []float32{0, 0}}
	}
	small, err := feature.New([]string{"entity", "action"}, rows)
	require.NoError(t, err)

	_, err = New(store, small)
	assert.True(t, vector.IsDimensionMismatch(err), "%v", err)

	_, err = New(store, nil, WithCacheSize(-1))
	assert.Error(t, err)
}

func TestService_ConcurrentIngestAndLookup(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t, WithCacheSize(2))
	tags := []string{"NN", "VB"}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				_, err := svc.Ingest(ctx, Entry{Word: "k", Tag: tags[(w+i)%2]})
				assert.NoError(t, err)
				_, err = svc.Lookup(ctx, "k")
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	// After all writers finish, the cache agrees with the store.
	cached, err := svc.Lookup(ctx, "k")
	require.NoError(t, err)
	stored, err := svc.Store().Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, stored.Category, cached.Category)
}
