/*
consolidate.go - Week Consolidator

PURPOSE:
  Groups the balanced days into the accounting weeks, sums flow
  quantities per week, and selects boundary snapshots for the balances:
  closings are taken from the last balanced day inside the week, never
  recomputed, because they are already running values. Weeks with no
  data still appear with zero flows and closing == opening, so openings
  carry forward across arbitrary gaps.

ONSET / REARING:
  The split is a family-level property, not a weekly one: the onset
  period is the first 7 calendar days measured from the family's first
  tracking record date (which may trail arrival). Days on or before the
  onset end date belong to ONSET, later days to REARING. Each week row
  carries a nullable section per side, each with its own opening and
  closing bag balance.
*/
package accounting

import "github.com/avigest/flock-engine/flock"

// Consolidate produces one report row per accounting week. The days
// must be ascending and already annotated with running balances; weeks
// must come from BuildWeeks. firstTracked may be nil (no tracking data
// anywhere), which suppresses the section split entirely.
func Consolidate(days []BalancedDay, weeks []AccountingWeek, baseline flock.Baseline, firstTracked *flock.DayPoint) []WeeklyReport {
	var onsetEnd flock.DayPoint
	hasOnset := firstTracked != nil
	if hasOnset {
		onsetEnd = firstTracked.AddDays(6)
	}

	openingF := baseline.Females
	openingM := baseline.Males
	openingBags := flock.Bags(0)

	rows := make([]WeeklyReport, 0, len(weeks))
	cursor := 0
	for _, week := range weeks {
		// Advance over the week's day span. Days are sorted, so each day
		// is visited exactly once across all weeks.
		first := cursor
		for cursor < len(days) && days[cursor].Date.BeforeOrEqual(week.End) {
			cursor++
		}
		weekDays := days[first:cursor]

		row := WeeklyReport{
			Week:           week,
			OpeningFemales: openingF,
			OpeningMales:   openingM,
			OpeningBags:    openingBags,
			Flows:          ZeroFlows(),
			ClosingFemales: openingF,
			ClosingMales:   openingM,
			ClosingBags:    openingBags,
			DaysWithData:   len(weekDays),
		}

		for _, day := range weekDays {
			row.Flows = row.Flows.Add(day.Flows)
		}

		if len(weekDays) > 0 {
			last := weekDays[len(weekDays)-1]
			row.ClosingFemales = last.FemaleBalance
			row.ClosingMales = last.MaleBalance
			row.ClosingBags = last.BagBalance
		}

		if hasOnset {
			split := 0
			for split < len(weekDays) && weekDays[split].Date.BeforeOrEqual(onsetEnd) {
				split++
			}
			row.Onset = buildSection(SectionOnset, weekDays[:split])
			row.Rearing = buildSection(SectionRearing, weekDays[split:])
		}

		rows = append(rows, row)

		openingF = row.ClosingFemales
		openingM = row.ClosingMales
		openingBags = row.ClosingBags
	}
	return rows
}

// buildSection sums one side of the onset boundary; nil when the week
// has no data day on that side.
func buildSection(kind SectionKind, days []BalancedDay) *WeekSection {
	if len(days) == 0 {
		return nil
	}

	section := &WeekSection{
		Kind:             kind,
		Days:             len(days),
		BagsOpening:      days[0].BagPriorDay,
		BagsEntry:        flock.Bags(0),
		BagsTransferOut:  flock.Bags(0),
		BagsWithdraw:     flock.Bags(0),
		FeedBagsConsumed: flock.Bags(0),
		BagsClosing:      days[len(days)-1].BagBalance,
	}
	for _, day := range days {
		section.BagsEntry = section.BagsEntry.Add(day.Flows.BagsEntry)
		section.BagsTransferOut = section.BagsTransferOut.Add(day.Flows.BagsTransferOut)
		section.BagsWithdraw = section.BagsWithdraw.Add(day.Flows.BagsWithdraw)
		section.FeedBagsConsumed = section.FeedBagsConsumed.Add(day.Flows.FeedBags())
	}
	return section
}
