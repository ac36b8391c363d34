/*
fuse.go - Daily Event Fuser

PURPOSE:
  Merges the per-lot record streams for one calendar day into one
  normalized event: mortality/selection/feed from whichever daily
  tracking stream owns the day, placement entries on the lot's own
  arrival date, and sale/transfer quantities summed from the completed
  bird movements.

SOURCE PRECEDENCE:
  The early-life and production streams are mutually exclusive per
  lot-day under correct capture. When both hold a record anyway, the
  early-life record wins and the production record is ignored for that
  day; the event's Source tag records which stream contributed.

FARM STOCK:
  Feed bags are farm stock, not lot stock. FarmBags computes the bag
  flows for one family-day from the farm's inventory ledger, normalized
  to bags; it is consumed once per day by the aggregator, never summed
  per lot (lots sharing a farm would double count).

  A lot-day with no record in any source fuses to all-zero flows; that
  is data absence, not an error.
*/
package accounting

import "github.com/avigest/flock-engine/flock"

// Fuser fuses one dataset's raw records into normalized daily events.
type Fuser struct {
	data *Dataset
}

func NewFuser(data *Dataset) *Fuser { return &Fuser{data: data} }

// LotDay fuses the lot-scoped flows for one lot on one day.
func (f *Fuser) LotDay(lot flock.Lot, day flock.DayPoint) DailyLotEvent {
	event := DailyLotEvent{
		LotID:  lot.ID,
		Date:   day,
		Source: SourceNone,
		Flows:  ZeroFlows(),
	}

	// Placement entries land exactly on the lot's own arrival date.
	if day.Equal(lot.ArrivalDate) {
		event.Flows.EntriesF = flock.Birds(lot.InitialFemales)
		event.Flows.EntriesM = flock.Birds(lot.InitialMales)
	}

	key := lotDay{Lot: lot.ID, Day: day.String()}
	if rec, ok := f.data.earlyLife[key]; ok {
		event.Source = SourceEarlyLife
		applyDailyRecord(&event.Flows, rec)
	} else if rec, ok := f.data.production[key]; ok {
		event.Source = SourceProduction
		applyDailyRecord(&event.Flows, rec)
	}

	for _, mv := range f.data.movements[key] {
		switch mv.Type {
		case flock.MovementSale:
			event.Flows.SalesF = event.Flows.SalesF.Add(flock.Birds(mv.Females))
			event.Flows.SalesM = event.Flows.SalesM.Add(flock.Birds(mv.Males))
		case flock.MovementTransfer:
			event.Flows.TransfersF = event.Flows.TransfersF.Add(flock.Birds(mv.Females))
			event.Flows.TransfersM = event.Flows.TransfersM.Add(flock.Birds(mv.Males))
		}
	}

	return event
}

// FarmBags sums the family farm's bag flows for one day. Entries and
// transfers-in both feed the stock; kg-denominated records are
// normalized to bags on the way in.
func (f *Fuser) FarmBags(day flock.DayPoint) (entry, transferOut, withdraw flock.Quantity) {
	entry, transferOut, withdraw = flock.Bags(0), flock.Bags(0), flock.Bags(0)
	for _, mv := range f.data.feed[day.String()] {
		bags := mv.Bags()
		switch mv.Kind {
		case flock.FeedEntry, flock.FeedTransferIn:
			entry = entry.Add(bags)
		case flock.FeedTransferOut:
			transferOut = transferOut.Add(bags)
		case flock.FeedExit:
			withdraw = withdraw.Add(bags)
		}
	}
	return entry, transferOut, withdraw
}

func applyDailyRecord(flows *DayFlows, rec flock.DailyRecord) {
	flows.MortalityF = flows.MortalityF.Add(flock.Birds(rec.MortalityF))
	flows.MortalityM = flows.MortalityM.Add(flock.Birds(rec.MortalityM))
	flows.SelectionF = flows.SelectionF.Add(flock.Birds(rec.SelectionF))
	flows.SelectionM = flows.SelectionM.Add(flock.Birds(rec.SelectionM))
	flows.FeedKgF = flows.FeedKgF.Add(flock.NewQuantityFromDecimal(rec.FeedKgF, flock.UnitKg))
	flows.FeedKgM = flows.FeedKgM.Add(flock.NewQuantityFromDecimal(rec.FeedKgM, flock.UnitKg))
}
