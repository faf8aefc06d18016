package lexicon

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/viant/lexvec/compose"
	"github.com/viant/lexvec/lexeme"
	"github.com/viant/lexvec/vector"
)

// Find returns records whose word or gloss contains text, ignoring case.
func (s *Service) Find(ctx context.Context, text string) ([]vector.Record, error) {
	defer s.metrics.ObserveLatency("find", time.Now())
	recs, err := s.store.SearchSubstring(ctx, text)
	s.logger.LogSearch(ctx, "substring", 0, len(recs), err)
	s.metrics.RecordSearch("substring", err)
	if err != nil {
		return nil, errors.Wrapf(err, "find %q", text)
	}
	return recs, nil
}

// Similar returns the n records whose vectors have the highest dot product
// with query; n <= 0 returns every record.
func (s *Service) Similar(ctx context.Context, query []float32, n int) ([]vector.Match, error) {
	defer s.metrics.ObserveLatency("similar", time.Now())
	matches, err := s.store.Search(ctx, query, n)
	s.logger.LogSearch(ctx, "similar", n, len(matches), err)
	s.metrics.RecordSearch("similar", err)
	if err != nil {
		return nil, errors.Wrap(err, "similar")
	}
	return matches, nil
}

// GistResult is the aggregate of a word sequence.
type GistResult struct {
	Vector []float32
	// Found lists the words that contributed, in input order.
	Found []string
	// Missing lists the words with no record; they were skipped.
	Missing []string
}

// Gist looks up every word, optionally disambiguates the sequence of their
// vectors and aggregates it with mode. Nothing is ingested. When no word
// is known the result is the zero vector.
func (s *Service) Gist(ctx context.Context, words []string, mode compose.Mode, disambiguate bool) (GistResult, error) {
	defer s.metrics.ObserveLatency("gist", time.Now())
	var (
		result GistResult
		seq    [][]float32
	)
	for _, w := range words {
		rec, err := s.Lookup(ctx, w)
		if errors.Is(err, vector.ErrNotFound) {
			result.Missing = append(result.Missing, w)
			continue
		}
		if err != nil {
			return GistResult{}, errors.Wrapf(err, "gist: lookup %q", w)
		}
		result.Found = append(result.Found, w)
		seq = append(seq, rec.Vector)
	}
	if disambiguate {
		seq = compose.Disambiguate(seq, s.rule)
	}
	vec, err := compose.Aggregate(seq, mode, s.store.Dimension())
	if err != nil {
		return GistResult{}, errors.Wrap(err, "gist")
	}
	result.Vector = vec
	return result, nil
}

// Stats counts records per category.
type Stats struct {
	Total      int
	ByCategory map[lexeme.Category]int
}

// Stats scans the lexicon and counts its records.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	recs, err := s.store.ScanAll(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "stats")
	}
	st := Stats{Total: len(recs), ByCategory: make(map[lexeme.Category]int)}
	for _, r := range recs {
		st.ByCategory[r.Category]++
	}
	return st, nil
}
