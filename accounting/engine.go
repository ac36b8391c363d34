/*
engine.go - Orchestration: fetch, then the pure pipeline

PURPOSE:
  One GenerateReport call covers one family and one window. The request
  is validated, the family resolved, the window derived, and the raw
  streams fetched; from there the computation is pure and raises no
  further errors, since degraded data zero-fills and saturates.

WINDOW RULES:
  - from and to absent: full history, arrival through today
  - only from: a 90-day window from that date
  - only to: arrival through that date
  - always capped at the 200-week horizon from the first arrival
  - an explicit week index restricts output to exactly that week and
    takes precedence over the date range

  Balances are always walked from the first arrival regardless of the
  requested window; a partial window only restricts which week rows are
  returned, never what they carry forward.
*/
package accounting

import (
	"context"
	"fmt"

	"github.com/avigest/flock-engine/flock"
)

// DefaultWindowDays is the window length applied when only a start
// date is requested.
const DefaultWindowDays = 90

// Engine wires the read-only collaborators into report generation.
// Invocations are independent; callers may run them concurrently.
type Engine struct {
	Lots          flock.LotRepository
	EarlyLife     flock.EarlyLifeRecords
	Production    flock.ProductionRecords
	BirdMovements flock.BirdMovementLedger
	FeedInventory flock.FeedInventoryLedger

	// Now is injectable for deterministic current-week selection.
	Now func() flock.DayPoint
}

// NewEngine builds an engine from a bundled source implementation.
func NewEngine(src flock.Sources) *Engine {
	return &Engine{
		Lots:          src,
		EarlyLife:     src,
		Production:    src,
		BirdMovements: src,
		FeedInventory: src,
		Now:           flock.Today,
	}
}

// ReportRequest is the engine's boundary input.
type ReportRequest struct {
	ParentLotID flock.LotID
	From        *flock.DayPoint
	To          *flock.DayPoint
	WeekIndex   *int
}

// GenerateReport produces the weekly accounting report for one family.
// All-or-nothing: a failed precondition returns no partial report.
func (e *Engine) GenerateReport(ctx context.Context, req ReportRequest) (*FullReport, error) {
	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return nil, &InvalidRangeError{From: *req.From, To: *req.To}
	}

	family, err := flock.ResolveFamily(ctx, e.Lots, req.ParentLotID)
	if err != nil {
		return nil, err
	}

	arrival := family.EarliestArrival()
	horizonEnd := e.horizonEnd(req, arrival)

	today := flock.Today()
	if e.Now != nil {
		today = e.Now()
	}

	// A horizon before the first arrival (a future placement, or an
	// explicit window ending pre-arrival) yields no weeks; the assembler
	// synthesizes a placeholder so callers always get a usable shape.
	if horizonEnd.Before(arrival) {
		rows, err := restrictRows(nil, req)
		if err != nil {
			return nil, err
		}
		return Assemble(family, rows, family.InitialBaseline(), nil, today), nil
	}

	weeks, err := BuildWeeks(arrival, horizonEnd)
	if err != nil {
		return nil, err
	}

	data, err := FetchDataset(ctx, e.fetchSources(), family, flock.NewDateRange(arrival, horizonEnd))
	if err != nil {
		return nil, err
	}

	baseline := family.InitialBaseline()
	balanced := ComputeBalances(AggregateDays(data), baseline)
	rows := Consolidate(balanced, weeks, baseline, data.FirstTracked())

	rows, err = restrictRows(rows, req)
	if err != nil {
		return nil, err
	}

	return Assemble(family, rows, baseline, data.FirstTracked(), today), nil
}

func (e *Engine) horizonEnd(req ReportRequest, arrival flock.DayPoint) flock.DayPoint {
	var end flock.DayPoint
	switch {
	case req.To != nil:
		end = *req.To
	case req.From != nil:
		end = req.From.AddDays(DefaultWindowDays - 1)
	default:
		end = flock.Today()
		if e.Now != nil {
			end = e.Now()
		}
	}

	horizonCap := arrival.AddDays(MaxWeeks*7 - 1)
	if end.After(horizonCap) {
		end = horizonCap
	}
	return end
}

// restrictRows applies the week-index override or the explicit start
// of the requested range. Openings stay intact: rows already carry
// their running values.
func restrictRows(rows []WeeklyReport, req ReportRequest) ([]WeeklyReport, error) {
	if req.WeekIndex != nil {
		for _, row := range rows {
			if row.Week.Index == *req.WeekIndex {
				return []WeeklyReport{row}, nil
			}
		}
		return nil, fmt.Errorf("week %d: %w", *req.WeekIndex, ErrWeekOutOfRange)
	}

	if req.From != nil {
		kept := rows[:0:0]
		for _, row := range rows {
			if !row.Week.End.Before(*req.From) {
				kept = append(kept, row)
			}
		}
		return kept, nil
	}
	return rows, nil
}

type engineSources struct {
	early flock.EarlyLifeRecords
	prod  flock.ProductionRecords
	flock.BirdMovementLedger
	flock.FeedInventoryLedger
}

func (s engineSources) EarlyLifeRecords(ctx context.Context, lotID flock.LotID, window flock.DateRange) ([]flock.DailyRecord, error) {
	return s.early.EarlyLifeRecords(ctx, lotID, window)
}

func (s engineSources) ProductionRecords(ctx context.Context, lotID flock.LotID, window flock.DateRange) ([]flock.DailyRecord, error) {
	return s.prod.ProductionRecords(ctx, lotID, window)
}

func (e *Engine) fetchSources() FetchSources {
	return engineSources{
		early:               e.EarlyLife,
		prod:                e.Production,
		BirdMovementLedger:  e.BirdMovements,
		FeedInventoryLedger: e.FeedInventory,
	}
}
