/*
balance.go - Running Balance Calculator

PURPOSE:
  Walks the consolidated days strictly in ascending date order and
  carries four running totals: female birds, male birds, feed bags, and
  the end-of-previous-day snapshot of each. This is a genuine sequential
  dependency (each day opens on the previous day's close) and must never
  be parallelized within one family.

SATURATION:
  Balances are floored at zero through Quantity.SatSub, the one
  saturating primitive. Inconsistent input that would drive a balance
  negative is silently absorbed: a deliberate precision trade-off that
  keeps the report best-effort under partial data.

SHAPE:
  Implemented as a fold over the ordered day sequence carrying an
  immutable state record, so the carry-forward invariants are testable
  without any data fetching.
*/
package accounting

import "github.com/avigest/flock-engine/flock"

// balanceState is the fold accumulator. Values are replaced, never
// mutated in place.
type balanceState struct {
	Females flock.Quantity
	Males   flock.Quantity
	Bags    flock.Quantity
}

// ComputeBalances annotates each consolidated day with running
// balances. Bird balances open on the family baseline; bag stock is
// assumed to start empty and accrues only from entries. Days must be
// ascending by date.
func ComputeBalances(days []ConsolidatedDay, baseline flock.Baseline) []BalancedDay {
	state := balanceState{
		Females: baseline.Females,
		Males:   baseline.Males,
		Bags:    flock.Bags(0),
	}

	out := make([]BalancedDay, 0, len(days))
	for _, day := range days {
		prior := state
		state = applyDay(state, day.Flows)

		out = append(out, BalancedDay{
			ConsolidatedDay: day,
			FemaleBalance:   state.Females,
			MaleBalance:     state.Males,
			BagBalance:      state.Bags,
			FemalePriorDay:  prior.Females,
			MalePriorDay:    prior.Males,
			BagPriorDay:     prior.Bags,
		})
	}
	return out
}

// applyDay produces the next state from one day's flows.
func applyDay(s balanceState, f DayFlows) balanceState {
	femaleOut := f.MortalityF.Add(f.SelectionF).Add(f.SalesF).Add(f.TransfersF)
	maleOut := f.MortalityM.Add(f.SelectionM).Add(f.SalesM).Add(f.TransfersM)
	bagsOut := f.BagsTransferOut.Add(f.BagsWithdraw).Add(f.FeedBags())

	return balanceState{
		Females: s.Females.Add(f.EntriesF).SatSub(femaleOut),
		Males:   s.Males.Add(f.EntriesM).SatSub(maleOut),
		Bags:    s.Bags.Add(f.BagsEntry).SatSub(bagsOut),
	}
}
