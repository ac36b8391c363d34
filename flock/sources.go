/*
sources.go - Read-only collaborator interfaces

PURPOSE:
  The consolidation engine is a pure batch computation over data fetched
  up front. These interfaces are that fetch boundary: persistence,
  tenancy filtering, and retries all live behind them. Both the sqlx
  store and the in-memory store implement every interface.

CONTRACTS:
  - All queries are inclusive over the given DateRange.
  - Records come back in ascending date order.
  - BirdMovementLedger returns Completed movements only.
  - FeedInventoryLedger is farm-scoped and pre-filtered to catalog items
    tagged as feed.
  - A context cancellation is only ever honored here; the pure engine
    never blocks.
*/
package flock

import "context"

// LotRepository resolves lots and families.
type LotRepository interface {
	// Family returns the lot headed by parentID together with every lot
	// whose parent is that lot. Returns ErrLotNotFound when the parent
	// does not exist.
	Family(ctx context.Context, parentID LotID) (LotFamily, error)
}

// EarlyLifeRecords is the daily tracking stream for the first life
// stage of a lot.
type EarlyLifeRecords interface {
	EarlyLifeRecords(ctx context.Context, lotID LotID, window DateRange) ([]DailyRecord, error)
}

// ProductionRecords is the daily tracking stream for the production
// life stage. For a given (lot, day) at most one of the two streams
// contributes a record under correct upstream capture.
type ProductionRecords interface {
	ProductionRecords(ctx context.Context, lotID LotID, window DateRange) ([]DailyRecord, error)
}

// BirdMovementLedger serves completed sale and transfer movements.
type BirdMovementLedger interface {
	CompletedMovements(ctx context.Context, lotID LotID, window DateRange) ([]BirdMovement, error)
}

// FeedInventoryLedger serves feed-bag movements for one farm.
type FeedInventoryLedger interface {
	FeedMovements(ctx context.Context, farmID FarmID, window DateRange) ([]FeedMovement, error)
}

// Sources bundles every collaborator the engine needs for one report.
type Sources interface {
	LotRepository
	EarlyLifeRecords
	ProductionRecords
	BirdMovementLedger
	FeedInventoryLedger
}
