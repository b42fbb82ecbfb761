package masterdata

import (
	"context"
	"sync"
	"time"

	"addressjp-api/internal/metrics"

	"github.com/rs/zerolog"
)

// Record is one raw row of reference data, keyed by field name.
type Record map[string]any

// Source reads the raw records stored under a key, in source order.
type Source interface {
	Load(ctx context.Context, key string) ([]Record, error)
}

// Store caches the records of each key after the first load. It is safe for
// concurrent use: the first caller for a key performs the load while later
// callers block and observe its outcome. Failed loads are cached as well.
type Store struct {
	source  Source
	logger  zerolog.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	once    sync.Once
	records []Record
	err     error
}

// NewStore creates a store backed by the given source
func NewStore(source Source, logger zerolog.Logger, m *metrics.Metrics) *Store {
	return &Store{
		source:  source,
		logger:  logger,
		metrics: m,
		entries: make(map[string]*entry),
	}
}

// Load returns the records for key, reading the source only on first access.
func (s *Store) Load(ctx context.Context, key string) ([]Record, error) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	s.mu.Unlock()

	e.once.Do(func() {
		start := time.Now()
		records, err := s.source.Load(ctx, key)
		s.metrics.ObserveLoad(key, time.Since(start), err)
		if err != nil {
			e.err = &DataSourceError{Key: key, Err: err}
			s.logger.Error().Err(err).Str("key", key).Msg("reference data load failed")
			return
		}
		e.records = records
		s.logger.Debug().Str("key", key).Int("records", len(records)).Dur("took", time.Since(start)).Msg("reference data loaded")
	})

	return e.records, e.err
}
