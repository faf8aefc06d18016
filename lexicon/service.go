package lexicon

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/viant/lexvec/compose"
	"github.com/viant/lexvec/feature"
	"github.com/viant/lexvec/internal/logging"
	"github.com/viant/lexvec/internal/metrics"
	"github.com/viant/lexvec/vector"
)

// DefaultCacheSize is the number of records kept by the read cache.
const DefaultCacheSize = 1024

// Service ties the classifier, the feature table and a vector.Store into
// the lexicon pipeline. It is safe for concurrent use.
type Service struct {
	store   vector.Store
	table   *feature.Table
	rule    compose.Rule
	logger  *logging.Logger
	metrics *metrics.Recorder

	atomicBatch bool
	cacheSize   int

	// mu orders cache fills after store reads against writes, so that a
	// reader never re-caches a record a writer has just replaced.
	mu    sync.RWMutex
	cache *lru.Cache[string, vector.Record]
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithCacheSize bounds the record read cache; 0 disables it.
func WithCacheSize(n int) Option {
	return func(s *Service) { s.cacheSize = n }
}

// WithAtomicBatch makes IngestBatch all-or-nothing.
func WithAtomicBatch(atomic bool) Option {
	return func(s *Service) { s.atomicBatch = atomic }
}

// WithRule overrides the disambiguation rule used by Gist.
func WithRule(r compose.Rule) Option {
	return func(s *Service) { s.rule = r }
}

// New creates a Service over store. A nil table selects feature.Default();
// the table dimension must equal the store dimension.
func New(store vector.Store, table *feature.Table, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("lexicon: store is nil")
	}
	if table == nil {
		table = feature.Default()
	}
	if table.Dimension() != store.Dimension() {
		return nil, errors.Wrap(&vector.DimensionMismatchError{Expected: store.Dimension(), Actual: table.Dimension()},
			"lexicon: feature table does not fit store")
	}
	s := &Service{
		store:     store,
		table:     table,
		rule:      compose.RuleFor(table),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NoopLogger()
	}
	if s.metrics == nil {
		s.metrics = metrics.New(metrics.DefaultConfig())
	}
	if s.cacheSize < 0 {
		return nil, errors.Errorf("lexicon: invalid cache size %d", s.cacheSize)
	}
	if s.cacheSize > 0 {
		cache, err := lru.New[string, vector.Record](s.cacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "lexicon: create cache")
		}
		s.cache = cache
	}
	return s, nil
}

// Store returns the underlying store.
func (s *Service) Store() vector.Store { return s.store }

// Table returns the feature table used for encoding.
func (s *Service) Table() *feature.Table { return s.table }

// Metrics returns the service's metrics recorder.
func (s *Service) Metrics() *metrics.Recorder { return s.metrics }

// put writes one record and drops any cached copy.
func (s *Service) put(ctx context.Context, rec vector.Record) error {
	s.mu.Lock()
	err := s.store.Upsert(ctx, rec)
	if err == nil && s.cache != nil {
		s.cache.Remove(rec.Key)
	}
	s.mu.Unlock()

	s.logger.LogUpsert(ctx, rec.Key, rec.Category.String(), err)
	s.metrics.RecordUpsert(rec.Category.String(), err)
	return err
}

// putAll writes recs in one transaction and drops the affected cache
// entries.
func (s *Service) putAll(ctx context.Context, recs []vector.Record) error {
	s.mu.Lock()
	err := s.store.UpsertAll(ctx, recs)
	if err == nil && s.cache != nil {
		for _, rec := range recs {
			s.cache.Remove(rec.Key)
		}
	}
	s.mu.Unlock()

	for _, rec := range recs {
		s.metrics.RecordUpsert(rec.Category.String(), err)
	}
	return err
}

// Lookup returns the record stored under key, or vector.ErrNotFound.
func (s *Service) Lookup(ctx context.Context, key string) (*vector.Record, error) {
	defer s.metrics.ObserveLatency("lookup", time.Now())
	if s.cache == nil {
		return s.store.Get(ctx, key)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.cache.Get(key); ok {
		s.metrics.RecordCache(true)
		rec = rec.Clone()
		return &rec, nil
	}
	s.metrics.RecordCache(false)
	rec, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, rec.Clone())
	return rec, nil
}
