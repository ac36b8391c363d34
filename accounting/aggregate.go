/*
aggregate.go - Family Aggregator

PURPOSE:
  Collapses the per-lot fused events into one consolidated record per
  family-day: the element-wise sum of every member lot's flows, plus
  the farm's bag flows attached exactly once.

  Only days with at least one underlying record materialize; the output
  is ascending by date, ready for the balance fold.
*/
package accounting

// AggregateDays consolidates the dataset into one record per tracked
// day. Bag flows come from the family farm's ledger once per day,
// independent of how many lots share the farm.
func AggregateDays(data *Dataset) []ConsolidatedDay {
	fuser := NewFuser(data)
	members := data.Family.Members()

	days := make([]ConsolidatedDay, 0, len(data.TrackedDays()))
	for _, day := range data.TrackedDays() {
		flows := ZeroFlows()
		for _, lot := range members {
			event := fuser.LotDay(lot, day)
			flows = flows.Add(event.Flows)
		}

		entry, transferOut, withdraw := fuser.FarmBags(day)
		flows.BagsEntry = entry
		flows.BagsTransferOut = transferOut
		flows.BagsWithdraw = withdraw

		days = append(days, ConsolidatedDay{Date: day, Flows: flows})
	}
	return days
}
