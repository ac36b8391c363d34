/*
Package flock holds the base domain model for the livestock accounting
backend.

PURPOSE:
  Everything the consolidation engine consumes lives here: lots and the
  parent/child lot family, the raw daily record streams (early-life and
  production), the bird movement ledger, the farm-scoped feed inventory
  ledger, and the day/quantity primitives shared by every package.

KEY CONCEPTS IN THIS FILE (types.go):
  - Lot: a cohort of birds placed on a farm, with initial counts by sex
  - LotFamily: a parent lot plus its child sub-lots (strict two levels)
  - DailyRecord: one day of mortality/selection/feed for one lot
  - BirdMovement: a sale or transfer from the bird movement ledger
  - FeedMovement: a feed-bag inventory movement for a farm

DESIGN PRINCIPLES:
  1. Read-only inputs: the engine never mutates these records
  2. Precision: feed quantities use decimal.Decimal (see quantity.go)
  3. Day granularity: all dates are DayPoint values (see time.go)

SEE ALSO:
  - sources.go: the collaborator interfaces the engine fetches through
  - family.go: family resolution and the initial-count baseline
  - quantity.go: Quantity with units and saturating arithmetic
*/
package flock

import "github.com/shopspring/decimal"

// =============================================================================
// IDENTIFIERS
// =============================================================================

type LotID string
type FarmID string

// =============================================================================
// LOT - A cohort of birds under management
// =============================================================================

// Lot is created once at placement and is read-only input to the
// accounting engine. ParentID is nil for a parent lot; child lots point
// at a lot that itself has no parent (the two-level rule is enforced at
// write time, not here).
type Lot struct {
	ID             LotID
	ParentID       *LotID
	Name           string
	FarmID         FarmID
	FarmName       string
	Nucleus        string
	ArrivalDate    DayPoint
	InitialFemales int64
	InitialMales   int64
}

// IsParent reports whether this lot heads a family.
func (l Lot) IsParent() bool { return l.ParentID == nil }

// =============================================================================
// DAILY RECORD - One lot-day from either tracking stream
// =============================================================================

// RecordStream identifies which daily tracking stream a record belongs
// to. The streams are mutually exclusive per lot life stage: early-life
// capture runs first, production capture takes over later.
type RecordStream string

const (
	StreamEarlyLife  RecordStream = "early_life"
	StreamProduction RecordStream = "production"
)

// DailyRecord carries the per-sex mortality, selection, and feed
// consumption captured for one lot on one calendar day.
//
// Early-life records may encode an outbound transfer as a negative
// selection; the balance walk credits it back naturally, so the value
// is carried as captured. Production records additionally capture egg
// counts upstream, which this engine does not consume.
type DailyRecord struct {
	LotID      LotID
	Date       DayPoint
	MortalityF int64
	MortalityM int64
	SelectionF int64
	SelectionM int64
	FeedKgF    decimal.Decimal
	FeedKgM    decimal.Decimal
}

// =============================================================================
// BIRD MOVEMENT LEDGER - Sales and transfers
// =============================================================================

type MovementType string

const (
	MovementSale     MovementType = "sale"
	MovementTransfer MovementType = "transfer"
)

type MovementStatus string

const (
	MovementPending   MovementStatus = "pending"
	MovementCompleted MovementStatus = "completed"
	MovementCanceled  MovementStatus = "canceled"
)

// BirdMovement is one completed sale or transfer of birds out of a lot.
// Quantities are additive: several movements may land on the same day.
type BirdMovement struct {
	LotID   LotID
	Date    DayPoint
	Type    MovementType
	Females int64
	Males   int64
}

// =============================================================================
// FEED INVENTORY LEDGER - Farm-scoped bag movements
// =============================================================================

// FeedMovementKind mirrors the generic inventory ledger's movement
// kinds, already filtered upstream to feed-type catalog items.
type FeedMovementKind string

const (
	FeedEntry       FeedMovementKind = "entry"
	FeedTransferIn  FeedMovementKind = "transfer_in"
	FeedTransferOut FeedMovementKind = "transfer_out"
	FeedExit        FeedMovementKind = "exit"
)

type FeedUnit string

const (
	UnitFeedKg   FeedUnit = "kg"
	UnitFeedBags FeedUnit = "bags"
)

// FeedMovement is one inventory movement of feed for a farm. The ledger
// is farm-scoped, not lot-scoped: lots sharing a farm share this stock.
type FeedMovement struct {
	FarmID   FarmID
	Date     DayPoint
	Kind     FeedMovementKind
	Quantity decimal.Decimal
	Unit     FeedUnit
}

// Bags returns the movement quantity normalized to bags, dividing
// kilogram-denominated records by the 40 kg/bag conversion constant.
func (m FeedMovement) Bags() Quantity {
	if m.Unit == UnitFeedKg {
		return BagsFromKg(m.Quantity)
	}
	return NewQuantityFromDecimal(m.Quantity, UnitBags)
}
