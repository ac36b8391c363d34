/*
dataset.go - The fetch phase

PURPOSE:
  Everything the pure pipeline consumes is loaded here, up front, into
  indexed in-memory maps. The source interfaces may hit a database; the
  rest of the engine never does. A caller-level cancellation is honored
  only inside FetchDataset.

INDEXING:
  - Daily records and bird movements are keyed by (lot, day).
  - Feed movements are keyed by day only: the bag ledger is scoped to
    the family's farm, fetched exactly once per report.
  - TrackedDays is the sorted union of every day that appears in any
    source; days with no underlying record are never materialized.
  - FirstTracked is the earliest day carried by either daily tracking
    stream (not movements), which anchors the ONSET section and may
    trail the arrival date.
*/
package accounting

import (
	"context"
	"sort"

	"github.com/avigest/flock-engine/flock"
)

type lotDay struct {
	Lot flock.LotID
	Day string
}

// Dataset is one family's raw records over one window, indexed for the
// pure pipeline. Treat as read-only after FetchDataset returns.
type Dataset struct {
	Family flock.LotFamily
	Window flock.DateRange

	earlyLife  map[lotDay]flock.DailyRecord
	production map[lotDay]flock.DailyRecord
	movements  map[lotDay][]flock.BirdMovement
	feed       map[string][]flock.FeedMovement

	trackedDays  []flock.DayPoint
	firstTracked *flock.DayPoint
}

// FetchSources is the subset of collaborators FetchDataset reads from.
type FetchSources interface {
	flock.EarlyLifeRecords
	flock.ProductionRecords
	flock.BirdMovementLedger
	flock.FeedInventoryLedger
}

// FetchDataset loads every record stream for the family over the given
// window. The window must already be validated.
func FetchDataset(ctx context.Context, src FetchSources, family flock.LotFamily, window flock.DateRange) (*Dataset, error) {
	d := &Dataset{
		Family:     family,
		Window:     window,
		earlyLife:  make(map[lotDay]flock.DailyRecord),
		production: make(map[lotDay]flock.DailyRecord),
		movements:  make(map[lotDay][]flock.BirdMovement),
		feed:       make(map[string][]flock.FeedMovement),
	}

	seen := make(map[string]flock.DayPoint)
	note := func(day flock.DayPoint) { seen[day.String()] = day }
	trackDaily := func(day flock.DayPoint) {
		note(day)
		if d.firstTracked == nil || day.Before(*d.firstTracked) {
			first := day
			d.firstTracked = &first
		}
	}

	for _, lot := range family.Members() {
		early, err := src.EarlyLifeRecords(ctx, lot.ID, window)
		if err != nil {
			return nil, err
		}
		for _, rec := range early {
			d.earlyLife[lotDay{Lot: lot.ID, Day: rec.Date.String()}] = rec
			trackDaily(rec.Date)
		}

		production, err := src.ProductionRecords(ctx, lot.ID, window)
		if err != nil {
			return nil, err
		}
		for _, rec := range production {
			d.production[lotDay{Lot: lot.ID, Day: rec.Date.String()}] = rec
			trackDaily(rec.Date)
		}

		moves, err := src.CompletedMovements(ctx, lot.ID, window)
		if err != nil {
			return nil, err
		}
		for _, mv := range moves {
			k := lotDay{Lot: lot.ID, Day: mv.Date.String()}
			d.movements[k] = append(d.movements[k], mv)
			note(mv.Date)
		}
	}

	feed, err := src.FeedMovements(ctx, family.FarmID(), window)
	if err != nil {
		return nil, err
	}
	for _, mv := range feed {
		d.feed[mv.Date.String()] = append(d.feed[mv.Date.String()], mv)
		note(mv.Date)
	}

	d.trackedDays = make([]flock.DayPoint, 0, len(seen))
	for _, day := range seen {
		d.trackedDays = append(d.trackedDays, day)
	}
	sort.Slice(d.trackedDays, func(i, j int) bool {
		return d.trackedDays[i].Before(d.trackedDays[j])
	})

	return d, nil
}

// TrackedDays returns the sorted union of days with any record.
func (d *Dataset) TrackedDays() []flock.DayPoint { return d.trackedDays }

// FirstTracked is the family's first daily tracking record date, nil
// when neither stream holds anything.
func (d *Dataset) FirstTracked() *flock.DayPoint { return d.firstTracked }
