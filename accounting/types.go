/*
Package accounting implements the weekly accounting consolidation engine.

PURPOSE:
  Turns the heterogeneous daily operational records of one lot family
  (bird mortality/selection/sales/transfers, feed consumption, feed-bag
  inventory movements) into a sequence of non-overlapping, contiguous
  accounting weeks carrying forward running balances for bird counts by
  sex and feed stock in bags, split into an onset and a rearing
  sub-period.

PIPELINE (leaf first):
  calendar.go    BuildWeeks: the family's own 7-day calendar, anchored
                 at the earliest arrival date, never Mon-Sun
  fuse.go        Fuser: one normalized event per lot-day, plus the
                 farm-scoped bag flows computed once per family-day
  aggregate.go   AggregateDays: one consolidated record per family-day
  balance.go     ComputeBalances: the strictly ordered carry-forward
                 fold with saturating subtraction
  consolidate.go Consolidate: weekly rows with boundary snapshots and
                 the ONSET/REARING section split
  report.go      Assemble: family metadata and current-week selection
  engine.go      Engine: the fetch phase and orchestration

PURITY:
  Everything below engine.go is a pure function of in-memory data: no
  I/O, no clocks, no logging. One invocation covers one family; callers
  may parallelize across families, never within the balance walk.

KEY TYPES IN THIS FILE:
  - DayFlows: the summable per-day flow quantities
  - DailyLotEvent: fused flows for one lot-day, tagged with its source
  - ConsolidatedDay / BalancedDay: family-day records, then annotated
    with running balances
  - AccountingWeek / WeeklyReport / FullReport: the output shape
*/
package accounting

import "github.com/avigest/flock-engine/flock"

// =============================================================================
// RECORD SOURCE - Which daily stream won the fuse
// =============================================================================

// RecordSource tags a fused lot-day with the stream that contributed
// its mortality/selection/feed fields. When both streams hold a record
// for the same lot-day (bad upstream capture, not actively prevented),
// the early-life record wins and the production record is ignored; the
// tag makes that precedence assertable.
type RecordSource string

const (
	SourceNone       RecordSource = "none"
	SourceEarlyLife  RecordSource = "early_life"
	SourceProduction RecordSource = "production"
)

// =============================================================================
// DAY FLOWS - Element-wise summable flow quantities for one day
// =============================================================================

// DayFlows carries every flow the weekly report sums. Bird and feed-kg
// fields are lot-scoped; the three bag fields are farm-scoped and only
// ever populated once per family-day (see aggregate.go).
type DayFlows struct {
	EntriesF flock.Quantity
	EntriesM flock.Quantity

	MortalityF flock.Quantity
	MortalityM flock.Quantity

	SelectionF flock.Quantity
	SelectionM flock.Quantity

	SalesF flock.Quantity
	SalesM flock.Quantity

	TransfersF flock.Quantity
	TransfersM flock.Quantity

	FeedKgF flock.Quantity
	FeedKgM flock.Quantity

	BagsEntry       flock.Quantity
	BagsTransferOut flock.Quantity
	BagsWithdraw    flock.Quantity
}

// ZeroFlows returns flows zeroed with their proper units.
func ZeroFlows() DayFlows {
	return DayFlows{
		EntriesF:        flock.Birds(0),
		EntriesM:        flock.Birds(0),
		MortalityF:      flock.Birds(0),
		MortalityM:      flock.Birds(0),
		SelectionF:      flock.Birds(0),
		SelectionM:      flock.Birds(0),
		SalesF:          flock.Birds(0),
		SalesM:          flock.Birds(0),
		TransfersF:      flock.Birds(0),
		TransfersM:      flock.Birds(0),
		FeedKgF:         flock.Kg(0),
		FeedKgM:         flock.Kg(0),
		BagsEntry:       flock.Bags(0),
		BagsTransferOut: flock.Bags(0),
		BagsWithdraw:    flock.Bags(0),
	}
}

// Add returns the element-wise sum of two flow sets.
func (f DayFlows) Add(g DayFlows) DayFlows {
	return DayFlows{
		EntriesF:        f.EntriesF.Add(g.EntriesF),
		EntriesM:        f.EntriesM.Add(g.EntriesM),
		MortalityF:      f.MortalityF.Add(g.MortalityF),
		MortalityM:      f.MortalityM.Add(g.MortalityM),
		SelectionF:      f.SelectionF.Add(g.SelectionF),
		SelectionM:      f.SelectionM.Add(g.SelectionM),
		SalesF:          f.SalesF.Add(g.SalesF),
		SalesM:          f.SalesM.Add(g.SalesM),
		TransfersF:      f.TransfersF.Add(g.TransfersF),
		TransfersM:      f.TransfersM.Add(g.TransfersM),
		FeedKgF:         f.FeedKgF.Add(g.FeedKgF),
		FeedKgM:         f.FeedKgM.Add(g.FeedKgM),
		BagsEntry:       f.BagsEntry.Add(g.BagsEntry),
		BagsTransferOut: f.BagsTransferOut.Add(g.BagsTransferOut),
		BagsWithdraw:    f.BagsWithdraw.Add(g.BagsWithdraw),
	}
}

// FeedBags is the day's feed consumption normalized to bags (÷ 40).
func (f DayFlows) FeedBags() flock.Quantity {
	return f.FeedKgF.Add(f.FeedKgM).ToBags()
}

// =============================================================================
// DAILY EVENTS - Per lot, then consolidated per family
// =============================================================================

// DailyLotEvent is the fused view of one lot on one calendar day.
// Bag fields inside Flows are always zero here; bags are farm stock.
type DailyLotEvent struct {
	LotID  flock.LotID
	Date   flock.DayPoint
	Source RecordSource
	Flows  DayFlows
}

// ConsolidatedDay is one calendar day summed across every member lot
// of a family, with the farm's bag flows attached exactly once.
type ConsolidatedDay struct {
	Date  flock.DayPoint
	Flows DayFlows
}

// BalancedDay annotates a consolidated day with the running balances
// after that day's flows were applied, plus the end-of-previous-day
// snapshot of each balance.
type BalancedDay struct {
	ConsolidatedDay

	FemaleBalance flock.Quantity
	MaleBalance   flock.Quantity
	BagBalance    flock.Quantity

	FemalePriorDay flock.Quantity
	MalePriorDay   flock.Quantity
	BagPriorDay    flock.Quantity
}

// =============================================================================
// ACCOUNTING WEEK - 7-day interval of the family's own calendar
// =============================================================================

type AccountingWeek struct {
	Index int // 1-based
	Start flock.DayPoint
	End   flock.DayPoint // Start + 6 days
}

func (w AccountingWeek) Contains(d flock.DayPoint) bool {
	return d.AfterOrEqual(w.Start) && d.BeforeOrEqual(w.End)
}

func (w AccountingWeek) Range() flock.DateRange {
	return flock.NewDateRange(w.Start, w.End)
}

// =============================================================================
// WEEKLY REPORT - One row per accounting week
// =============================================================================

type SectionKind string

const (
	SectionOnset   SectionKind = "ONSET"
	SectionRearing SectionKind = "REARING"
)

// WeekSection is the onset or rearing slice of one week. Each section
// independently carries its own opening/closing feed-bag balance:
// opening is the bag snapshot immediately preceding the section's first
// day, closing the last day's running bag balance.
type WeekSection struct {
	Kind SectionKind
	Days int

	BagsOpening      flock.Quantity
	BagsEntry        flock.Quantity
	BagsTransferOut  flock.Quantity
	BagsWithdraw     flock.Quantity
	FeedBagsConsumed flock.Quantity
	BagsClosing      flock.Quantity
}

// WeeklyReport is one consolidated accounting week. Opening balances
// for week 1 are the family's initial counts (bags start at zero);
// later weeks open on the previous week's closing. Weeks without any
// data day still appear, flows zeroed and closing == opening.
type WeeklyReport struct {
	Week AccountingWeek

	OpeningFemales flock.Quantity
	OpeningMales   flock.Quantity
	OpeningBags    flock.Quantity

	Flows DayFlows

	ClosingFemales flock.Quantity
	ClosingMales   flock.Quantity
	ClosingBags    flock.Quantity

	// Nullable: a section is present only when the week has data days
	// on that side of the onset boundary.
	Onset   *WeekSection
	Rearing *WeekSection

	DaysWithData int
}

// =============================================================================
// FULL REPORT - The assembled output structure
// =============================================================================

// FullReport is what the tabular view and the spreadsheet exporter
// consume. It carries no generation timestamp: identical inputs yield
// byte-identical reports.
type FullReport struct {
	ParentLotID   flock.LotID
	ParentLotName string
	FarmID        flock.FarmID
	FarmName      string
	Nucleus       string

	FirstArrivalDate flock.DayPoint

	// FirstTrackedDate anchors the ONSET section. It is the date of the
	// family's very first daily tracking record, which can trail the
	// arrival date when historical capture started late; nil when the
	// family has no tracking records at all.
	FirstTrackedDate *flock.DayPoint

	// MissingInitialBaseline flags a family with no discoverable initial
	// counts: balances were computed from zero rather than failing.
	MissingInitialBaseline bool

	CurrentWeekIndex int
	CurrentWeekStart flock.DayPoint
	CurrentWeekEnd   flock.DayPoint

	Weeks []WeeklyReport
}
