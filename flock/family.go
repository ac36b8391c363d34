/*
family.go - The resolved lot family

PURPOSE:
  The parent/child relationship is a shallow hierarchy reconstructed by
  query. Instead of re-deriving it inside nested helpers, it is resolved
  once per request into a LotFamily value and passed down through the
  whole consolidation pipeline.

INVARIANTS:
  - Non-empty: the parent itself always counts as a member.
  - Two levels: children never have children (enforced at write time).
  - One farm: the feed-bag ledger is scoped to the parent's farm; child
    lots placed on the same farm share that stock.
*/
package flock

import "context"

// =============================================================================
// LOT FAMILY - Parent lot plus its child sub-lots
// =============================================================================

// LotFamily is derived, never persisted.
type LotFamily struct {
	Parent   Lot
	Children []Lot
}

// Members returns the parent followed by every child lot.
func (f LotFamily) Members() []Lot {
	members := make([]Lot, 0, 1+len(f.Children))
	members = append(members, f.Parent)
	members = append(members, f.Children...)
	return members
}

// FarmID is the farm whose feed inventory the family draws from.
func (f LotFamily) FarmID() FarmID { return f.Parent.FarmID }

// EarliestArrival is the anchor of the family's accounting calendar:
// week 1 starts exactly on this day.
func (f LotFamily) EarliestArrival() DayPoint {
	earliest := f.Parent.ArrivalDate
	for _, c := range f.Children {
		earliest = MinDay(earliest, c.ArrivalDate)
	}
	return earliest
}

// Baseline sums the members' initial counts. HasCounts is false when no
// member carries any initial count at all; the engine then reports with
// zero openings and flags the report instead of failing (incomplete
// onboarding data is common on historical farms).
type Baseline struct {
	Females   Quantity
	Males     Quantity
	HasCounts bool
}

func (f LotFamily) InitialBaseline() Baseline {
	var females, males int64
	for _, lot := range f.Members() {
		females += lot.InitialFemales
		males += lot.InitialMales
	}
	return Baseline{
		Females:   Birds(females),
		Males:     Birds(males),
		HasCounts: females != 0 || males != 0,
	}
}

// =============================================================================
// FAMILY RESOLUTION
// =============================================================================

// ResolveFamily loads and validates the family headed by parentID.
// Fails with a NotFound-class error when the lot is missing, is itself
// a child, or resolution yields no members.
func ResolveFamily(ctx context.Context, repo LotRepository, parentID LotID) (LotFamily, error) {
	family, err := repo.Family(ctx, parentID)
	if err != nil {
		return LotFamily{}, err
	}
	if family.Parent.ParentID != nil {
		return LotFamily{}, &NotParentError{LotID: family.Parent.ID, ParentID: *family.Parent.ParentID}
	}
	if family.Parent.ID == "" {
		return LotFamily{}, ErrEmptyFamily
	}
	return family, nil
}
