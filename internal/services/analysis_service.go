package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"protostats/internal/analytics"
	"protostats/internal/anniversary"
	"protostats/internal/catalog"
	"protostats/internal/models"
	"protostats/internal/providers"
	"protostats/internal/snapshot"
)

var (
	// ErrNoData means the snapshot is empty and a populate is still running;
	// distinct from an upstream failure.
	ErrNoData = errors.New("no data available yet")

	// ErrUpstream means the catalog fetch failed and nothing is cached.
	ErrUpstream = errors.New("upstream unavailable")

	// ErrNotFound means the requested record exists nowhere we can see.
	ErrNotFound = errors.New("record not found")
)

type AnalysisServiceInterface interface {
	GetRecords(ctx context.Context) ([]models.Record, bool, error)
	GetRecord(ctx context.Context, id int) (models.Record, error)
	GetRandomRecord(ctx context.Context) (models.Record, error)
	Refresh(ctx context.Context) error
	ServerAnalysis(ctx context.Context) (*analytics.ServerAnalysis, error)
	ClientAnalysis(ctx context.Context, hostNow time.Time) (anniversary.ClientAnalysis, error)
	SnapshotInfo() (size int, builtAt time.Time, stale bool)
}

// AnalysisService composes the snapshot store, the catalog fetcher and the
// analyzer. It is the only place that knows the fallback policy: serve stale
// immediately, refresh in the background, block only when there is nothing
// to serve at all.
type AnalysisService struct {
	store    *snapshot.Store
	fetcher  catalog.Fetcher
	analyzer *analytics.Analyzer
	metrics  providers.MetricsProviderInterface
	logger   providers.Logger
}

func NewAnalysisService(store *snapshot.Store, fetcher catalog.Fetcher, analyzer *analytics.Analyzer, metrics providers.MetricsProviderInterface, logger providers.Logger) AnalysisServiceInterface {
	return &AnalysisService{
		store:    store,
		fetcher:  fetcher,
		analyzer: analyzer,
		metrics:  metrics,
		logger:   logger,
	}
}

// Refresh populates the snapshot under the single-flight guard. Callers that
// lose the race get snapshot.ErrRefreshInFlight and must not retry the fetch
// themselves. A failed fetch leaves the previous snapshot untouched.
func (s *AnalysisService) Refresh(ctx context.Context) error {
	return s.store.RunExclusive(func() error {
		start := time.Now()

		records, err := s.fetcher.FetchAll(ctx)
		if err != nil {
			s.metrics.IncRefreshFailures()
			return err
		}
		if len(records) == 0 {
			s.store.Clear(time.Now())
			s.logger.Warnf(providers.TypeApp, "Catalog returned zero records, snapshot cleared")
			return nil
		}

		size, err := s.store.SetAll(records, time.Now())
		if err != nil {
			s.metrics.IncRefreshFailures()
			return err
		}

		s.metrics.ObserveRefreshDuration(time.Since(start))
		s.logger.Infof(providers.TypeApp, "Snapshot refreshed: %d records in %dms", size, time.Since(start).Milliseconds())
		return nil
	})
}

// GetRecords implements stale-while-revalidate. A stale snapshot is returned
// immediately while a background refresh is kicked off; only an empty
// snapshot blocks on a populate. Callers that merely observe a refresh in
// flight are not told about its outcome.
func (s *AnalysisService) GetRecords(ctx context.Context) ([]models.Record, bool, error) {
	records, stale := s.store.GetSnapshot(time.Now())

	if len(records) == 0 {
		if err := s.Refresh(ctx); err != nil {
			if errors.Is(err, snapshot.ErrRefreshInFlight) {
				return nil, true, ErrNoData
			}
			var fetchErr *catalog.FetchError
			if errors.As(err, &fetchErr) {
				return nil, true, fmt.Errorf("%w: %s", ErrUpstream, fetchErr.Message)
			}
			return nil, true, err
		}
		records, stale = s.store.GetSnapshot(time.Now())
		return records, stale, nil
	}

	if stale && !s.store.IsRefreshInFlight() {
		go func() {
			if err := s.Refresh(context.Background()); err != nil && !errors.Is(err, snapshot.ErrRefreshInFlight) {
				s.logger.Warnf(providers.TypeApp, "Background refresh failed: %s", err)
			}
		}()
	}

	return records, stale, nil
}

// GetRecord serves from the snapshot index, falling back to a direct catalog
// fetch for ids the snapshot does not carry. The direct result is handed to
// the caller without touching the snapshot.
func (s *AnalysisService) GetRecord(ctx context.Context, id int) (models.Record, error) {
	if record, ok := s.store.GetById(id); ok {
		return record, nil
	}

	if s.store.Len() == 0 {
		if _, _, err := s.GetRecords(ctx); err != nil {
			return models.Record{}, err
		}
		if record, ok := s.store.GetById(id); ok {
			return record, nil
		}
	}

	record, err := s.fetcher.FetchById(ctx, id)
	if err != nil {
		var fetchErr *catalog.FetchError
		if errors.As(err, &fetchErr) {
			return models.Record{}, fmt.Errorf("%w: %s", ErrUpstream, fetchErr.Message)
		}
		return models.Record{}, err
	}
	if record == nil {
		return models.Record{}, ErrNotFound
	}
	return *record, nil
}

func (s *AnalysisService) GetRandomRecord(ctx context.Context) (models.Record, error) {
	if _, _, err := s.GetRecords(ctx); err != nil {
		return models.Record{}, err
	}
	record, ok := s.store.GetRandom()
	if !ok {
		return models.Record{}, ErrNotFound
	}
	return record, nil
}

// ServerAnalysis runs the timezone-independent aggregation pass over the
// current record set.
func (s *AnalysisService) ServerAnalysis(ctx context.Context) (*analytics.ServerAnalysis, error) {
	records, _, err := s.GetRecords(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	analysis := s.analyzer.Analyze(records, time.Now())
	s.metrics.ObserveAnalysisDuration(time.Since(start))
	return analysis, nil
}

// ClientAnalysis computes the timezone-sensitive half against hostNow, which
// should be the viewer's wall clock.
func (s *AnalysisService) ClientAnalysis(ctx context.Context, hostNow time.Time) (anniversary.ClientAnalysis, error) {
	records, _, err := s.GetRecords(ctx)
	if err != nil {
		return anniversary.ClientAnalysis{}, err
	}

	set := anniversary.BuildCandidates(records, time.Now())
	return anniversary.Evaluate(set.Candidates, hostNow), nil
}

func (s *AnalysisService) SnapshotInfo() (int, time.Time, bool) {
	records, stale := s.store.GetSnapshot(time.Now())
	return len(records), s.store.BuiltAt(), stale
}
