// Package memory provides an in-memory implementation of the flock
// source interfaces, used in tests and for demo scenarios.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/avigest/flock-engine/flock"
)

// =============================================================================
// MEMORY STORE - In-memory sources (for testing/dev)
// =============================================================================

type Store struct {
	mu         sync.RWMutex
	lots       map[flock.LotID]flock.Lot
	earlyLife  map[flock.LotID][]flock.DailyRecord
	production map[flock.LotID][]flock.DailyRecord
	movements  map[flock.LotID][]statusMovement
	feed       map[flock.FarmID][]flock.FeedMovement
}

type statusMovement struct {
	flock.BirdMovement
	Status flock.MovementStatus
}

var _ flock.Sources = (*Store)(nil)

func New() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.lots = make(map[flock.LotID]flock.Lot)
	s.earlyLife = make(map[flock.LotID][]flock.DailyRecord)
	s.production = make(map[flock.LotID][]flock.DailyRecord)
	s.movements = make(map[flock.LotID][]statusMovement)
	s.feed = make(map[flock.FarmID][]flock.FeedMovement)
}

// =============================================================================
// WRITES
// =============================================================================

// CreateLot stores a placement, enforcing the two-level hierarchy.
func (s *Store) CreateLot(_ context.Context, lot flock.Lot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lot.ParentID != nil {
		parent, ok := s.lots[*lot.ParentID]
		if !ok {
			return fmt.Errorf("parent %s: %w", *lot.ParentID, flock.ErrLotNotFound)
		}
		if parent.ParentID != nil {
			return &flock.NotParentError{LotID: parent.ID, ParentID: *parent.ParentID}
		}
	}
	s.lots[lot.ID] = lot
	return nil
}

func (s *Store) AddDailyRecord(_ context.Context, stream flock.RecordStream, rec flock.DailyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.earlyLife
	if stream == flock.StreamProduction {
		target = s.production
	}
	target[rec.LotID] = insertByDate(target[rec.LotID], rec, func(r flock.DailyRecord) flock.DayPoint { return r.Date })
	return nil
}

func (s *Store) AddBirdMovement(_ context.Context, mv flock.BirdMovement, status flock.MovementStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.movements[mv.LotID] = insertByDate(s.movements[mv.LotID],
		statusMovement{BirdMovement: mv, Status: status},
		func(m statusMovement) flock.DayPoint { return m.Date })
	return nil
}

func (s *Store) AddFeedMovement(_ context.Context, mv flock.FeedMovement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.feed[mv.FarmID] = insertByDate(s.feed[mv.FarmID], mv, func(m flock.FeedMovement) flock.DayPoint { return m.Date })
	return nil
}

// Reset drops all data (scenario reloads).
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

// insertByDate keeps each slice sorted on insert so reads are cheap.
func insertByDate[T any](items []T, item T, date func(T) flock.DayPoint) []T {
	i := sort.Search(len(items), func(i int) bool {
		return date(items[i]).After(date(item))
	})
	items = append(items, item)
	copy(items[i+1:], items[i:])
	items[i] = item
	return items
}

// =============================================================================
// SOURCE INTERFACES
// =============================================================================

func (s *Store) Family(_ context.Context, parentID flock.LotID) (flock.LotFamily, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parent, ok := s.lots[parentID]
	if !ok {
		return flock.LotFamily{}, flock.ErrLotNotFound
	}
	if parent.ParentID != nil {
		return flock.LotFamily{}, &flock.NotParentError{LotID: parent.ID, ParentID: *parent.ParentID}
	}

	family := flock.LotFamily{Parent: parent}
	for _, lot := range s.lots {
		if lot.ParentID != nil && *lot.ParentID == parentID {
			family.Children = append(family.Children, lot)
		}
	}
	sort.Slice(family.Children, func(i, j int) bool {
		return family.Children[i].ID < family.Children[j].ID
	})
	return family, nil
}

func (s *Store) EarlyLifeRecords(_ context.Context, lotID flock.LotID, window flock.DateRange) ([]flock.DailyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterByDate(s.earlyLife[lotID], window, func(r flock.DailyRecord) flock.DayPoint { return r.Date }), nil
}

func (s *Store) ProductionRecords(_ context.Context, lotID flock.LotID, window flock.DateRange) ([]flock.DailyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterByDate(s.production[lotID], window, func(r flock.DailyRecord) flock.DayPoint { return r.Date }), nil
}

func (s *Store) CompletedMovements(_ context.Context, lotID flock.LotID, window flock.DateRange) ([]flock.BirdMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []flock.BirdMovement
	for _, mv := range s.movements[lotID] {
		if mv.Status == flock.MovementCompleted && window.Contains(mv.Date) {
			out = append(out, mv.BirdMovement)
		}
	}
	return out, nil
}

func (s *Store) FeedMovements(_ context.Context, farmID flock.FarmID, window flock.DateRange) ([]flock.FeedMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterByDate(s.feed[farmID], window, func(m flock.FeedMovement) flock.DayPoint { return m.Date }), nil
}

func filterByDate[T any](items []T, window flock.DateRange, date func(T) flock.DayPoint) []T {
	var out []T
	for _, item := range items {
		if window.Contains(date(item)) {
			out = append(out, item)
		}
	}
	return out
}

// =============================================================================
// LOT DIRECTORY
// =============================================================================

// ParentLots lists every parent lot, ordered by ID.
func (s *Store) ParentLots(_ context.Context) ([]flock.Lot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []flock.Lot
	for _, lot := range s.lots {
		if lot.IsParent() {
			out = append(out, lot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Lot returns one lot by ID.
func (s *Store) Lot(_ context.Context, id flock.LotID) (*flock.Lot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lot, ok := s.lots[id]
	if !ok {
		return nil, flock.ErrLotNotFound
	}
	return &lot, nil
}
