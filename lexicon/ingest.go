package lexicon

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/viant/lexvec/lexeme"
	"github.com/viant/lexvec/vector"
)

// ErrBatchRejected is returned by an atomic IngestBatch when at least one
// entry is invalid; nothing is written.
var ErrBatchRejected = errors.New("lexicon: batch rejected")

// Entry is one (word, tag) pair to ingest.
type Entry struct {
	Word string `json:"word" yaml:"word"`
	// Tag is a part-of-speech tag in any supported tagset.
	Tag string `json:"tag" yaml:"tag"`
	// Particle overrides the particle class derived from Tag.
	Particle string `json:"particle_class,omitempty" yaml:"particle_class,omitempty"`
	Gloss    string `json:"gloss,omitempty" yaml:"gloss,omitempty"`
}

// Result describes one ingested entry.
type Result struct {
	Record vector.Record
	// Fallback is set when the (category, particle) pair had no entry in
	// the feature table and the category default was used.
	Fallback bool
}

// Failure is an entry a batch rejected.
type Failure struct {
	Index int
	Word  string
	Err   error
}

// BatchReport summarizes IngestBatch.
type BatchReport struct {
	Total     int
	Stored    int
	Fallbacks int
	Failures  []Failure
}

// Encode classifies and encodes e without storing it. Word, particle and
// gloss are trimmed.
func (s *Service) Encode(ctx context.Context, e Entry) Result {
	category := lexeme.Classify(e.Tag)
	particle := strings.TrimSpace(e.Particle)
	if particle == "" {
		particle = lexeme.Particle(e.Tag)
	}
	vec, exact := s.table.Encode(category, particle)
	if !exact {
		s.logger.LogFallback(ctx, e.Word, category.String(), particle)
		s.metrics.RecordFallback(category.String())
	}
	return Result{
		Record: vector.Record{
			Key:      strings.TrimSpace(e.Word),
			Category: category,
			Particle: particle,
			Vector:   vec,
			Gloss:    strings.TrimSpace(e.Gloss),
		},
		Fallback: !exact,
	}
}

// Ingest classifies, encodes and upserts one entry. A later ingest of the
// same word replaces the earlier record.
func (s *Service) Ingest(ctx context.Context, e Entry) (Result, error) {
	defer s.metrics.ObserveLatency("ingest", time.Now())
	res := s.Encode(ctx, e)
	if err := s.put(ctx, res.Record); err != nil {
		return res, errors.Wrapf(err, "ingest %q", e.Word)
	}
	return res, nil
}

// IngestBatch ingests entries in order, so a word repeated in the batch
// ends up with its last entry.
//
// By default each entry is upserted on its own: invalid entries are
// reported in Failures and the rest are stored. With WithAtomicBatch every
// entry is validated first and the batch is written in one transaction; a
// single invalid entry rejects the batch with ErrBatchRejected.
//
// Errors other than per-entry validation abort the batch and are returned
// alongside the report so far.
func (s *Service) IngestBatch(ctx context.Context, entries []Entry) (BatchReport, error) {
	defer s.metrics.ObserveLatency("ingest_batch", time.Now())
	report := BatchReport{Total: len(entries)}
	var err error
	if s.atomicBatch {
		err = s.ingestAtomic(ctx, entries, &report)
	} else {
		err = s.ingestEach(ctx, entries, &report)
	}
	s.logger.LogBatch(ctx, report.Total, len(report.Failures), s.atomicBatch)
	return report, err
}

func (s *Service) ingestEach(ctx context.Context, entries []Entry, report *BatchReport) error {
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := s.Ingest(ctx, e)
		if res.Fallback {
			report.Fallbacks++
		}
		if err != nil {
			if !rejected(err) {
				return err
			}
			report.Failures = append(report.Failures, Failure{Index: i, Word: e.Word, Err: err})
			continue
		}
		report.Stored++
	}
	return nil
}

func (s *Service) ingestAtomic(ctx context.Context, entries []Entry, report *BatchReport) error {
	dim := s.store.Dimension()
	recs := make([]vector.Record, 0, len(entries))
	for i, e := range entries {
		res := s.Encode(ctx, e)
		if res.Fallback {
			report.Fallbacks++
		}
		if err := res.Record.Validate(dim); err != nil {
			report.Failures = append(report.Failures, Failure{Index: i, Word: e.Word, Err: err})
			continue
		}
		recs = append(recs, res.Record)
	}
	if len(report.Failures) > 0 {
		return errors.Wrapf(ErrBatchRejected, "%d of %d entries invalid", len(report.Failures), len(entries))
	}
	if err := s.putAll(ctx, recs); err != nil {
		return errors.Wrap(err, "atomic batch")
	}
	report.Stored = len(recs)
	return nil
}

// rejected reports whether err is a per-record rejection.
func rejected(err error) bool {
	return vector.IsValidation(err) || vector.IsDimensionMismatch(err)
}
