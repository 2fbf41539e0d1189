// Package snapshot owns the canonical in-memory record collection. The
// snapshot is replaced wholesale on refresh and never mutated in place, so
// readers always observe an internally consistent state.
package snapshot

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/atomic"

	"protostats/internal/models"
	"protostats/internal/providers"
	"protostats/internal/structures"
)

var (
	// ErrRefreshInFlight signals that another caller already holds the
	// refresh slot; the loser must not duplicate the upstream fetch.
	ErrRefreshInFlight = errors.New("snapshot refresh already in flight")

	// ErrTooLarge signals that a refresh payload exceeded the configured
	// ceiling. The prior snapshot stays untouched.
	ErrTooLarge = errors.New("snapshot payload exceeds size ceiling")
)

// Snapshot is one immutable generation of the record collection.
type Snapshot struct {
	Records   []models.Record
	BuiltAt   time.Time
	ExpiresAt time.Time

	byId  map[int]int
	maxId int
}

func build(records []models.Record, now time.Time, ttl time.Duration) *Snapshot {
	snap := &Snapshot{
		Records:   records,
		BuiltAt:   now,
		ExpiresAt: now.Add(ttl),
		byId:      make(map[int]int, len(records)),
	}
	for i := range records {
		snap.byId[records[i].Id] = i
		if records[i].Id > snap.maxId {
			snap.maxId = records[i].Id
		}
	}
	return snap
}

// Store is the snapshot cache plus its refresh coordinator. All mutation
// funnels through SetAll/Clear; RunExclusive guards the populate path.
type Store struct {
	mu         sync.RWMutex
	snap       *Snapshot
	ttl        time.Duration
	maxRecords int

	refreshMu sync.Mutex
	inFlight  atomic.Bool

	logger providers.Logger
}

func NewStore(conf *structures.Config, logger providers.Logger) *Store {
	return &Store{
		snap:       build(nil, time.Time{}, 0),
		ttl:        conf.Snapshot.TTL,
		maxRecords: conf.Snapshot.MaxRecords,
		logger:     logger,
	}
}

// GetSnapshot returns the current records and whether the snapshot has
// expired relative to now. It never blocks on a concurrent refresh; a stale
// read during an in-flight refresh is the intended stale-while-revalidate
// behavior. Callers must treat the slice as read-only.
func (s *Store) GetSnapshot(now time.Time) ([]models.Record, bool) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()

	expired := snap.BuiltAt.IsZero() || now.After(snap.ExpiresAt)
	return snap.Records, expired
}

// GetById looks a record up in the current snapshot's index.
func (s *Store) GetById(id int) (models.Record, bool) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()

	idx, ok := snap.byId[id]
	if !ok {
		return models.Record{}, false
	}
	return snap.Records[idx], true
}

// GetRandom returns a uniformly random record from the current snapshot.
func (s *Store) GetRandom() (models.Record, bool) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()

	if len(snap.Records) == 0 {
		return models.Record{}, false
	}
	return snap.Records[rand.IntN(len(snap.Records))], true
}

func (s *Store) GetMaxId() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.maxId
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snap.Records)
}

func (s *Store) BuiltAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.BuiltAt
}

// SetAll atomically replaces the snapshot with a new generation and returns
// its size. When the payload exceeds the configured ceiling the current
// snapshot is left unchanged and ErrTooLarge is returned: a failed refresh
// must not corrupt a good prior snapshot.
func (s *Store) SetAll(records []models.Record, now time.Time) (int, error) {
	if s.maxRecords > 0 && len(records) > s.maxRecords {
		s.logger.Warnf(providers.TypeApp, "Snapshot rejected: %d records exceeds ceiling %d", len(records), s.maxRecords)
		return 0, ErrTooLarge
	}

	snap := build(records, now, s.ttl)

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	return len(records), nil
}

// Clear empties the snapshot. Used when an upstream refresh legitimately
// returns zero records.
func (s *Store) Clear(now time.Time) {
	snap := build(nil, now, s.ttl)

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// IsRefreshInFlight reports whether a RunExclusive task is currently running.
func (s *Store) IsRefreshInFlight() bool {
	return s.inFlight.Load()
}

// RunExclusive executes task while holding the refresh slot. At most one task
// runs at a time across all callers; losers get ErrRefreshInFlight without
// blocking. TryLock makes check-then-act atomic, so concurrent callers cannot
// race a boolean flag into a duplicate fetch.
func (s *Store) RunExclusive(task func() error) error {
	if !s.refreshMu.TryLock() {
		return ErrRefreshInFlight
	}
	s.inFlight.Store(true)
	defer func() {
		s.inFlight.Store(false)
		s.refreshMu.Unlock()
	}()

	return task()
}
