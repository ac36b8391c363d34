/*
report.go - Report Assembler

PURPOSE:
  Attaches the family metadata to the ordered weekly rows and computes
  the "current" week: the one whose interval contains today. When the
  horizon ended in the past or begins in the future, the last computed
  week stands in; when the family has no weeks at all, a single
  placeholder week anchored at the first arrival date is synthesized so
  callers always receive a well-formed structure.
*/
package accounting

import "github.com/avigest/flock-engine/flock"

// Assemble builds the final report structure from the consolidated
// weekly rows.
func Assemble(family flock.LotFamily, rows []WeeklyReport, baseline flock.Baseline, firstTracked *flock.DayPoint, today flock.DayPoint) *FullReport {
	report := &FullReport{
		ParentLotID:            family.Parent.ID,
		ParentLotName:          family.Parent.Name,
		FarmID:                 family.Parent.FarmID,
		FarmName:               family.Parent.FarmName,
		Nucleus:                family.Parent.Nucleus,
		FirstArrivalDate:       family.EarliestArrival(),
		FirstTrackedDate:       firstTracked,
		MissingInitialBaseline: !baseline.HasCounts,
		Weeks:                  rows,
	}

	if len(rows) == 0 {
		// Placeholder: one empty week anchored at the arrival date.
		week := AccountingWeek{
			Index: 1,
			Start: report.FirstArrivalDate,
			End:   report.FirstArrivalDate.AddDays(6),
		}
		report.Weeks = []WeeklyReport{{
			Week:           week,
			OpeningFemales: baseline.Females,
			OpeningMales:   baseline.Males,
			OpeningBags:    flock.Bags(0),
			Flows:          ZeroFlows(),
			ClosingFemales: baseline.Females,
			ClosingMales:   baseline.Males,
			ClosingBags:    flock.Bags(0),
		}}
		report.CurrentWeekIndex = week.Index
		report.CurrentWeekStart = week.Start
		report.CurrentWeekEnd = week.End
		return report
	}

	current := rows[len(rows)-1].Week
	for _, row := range rows {
		if row.Week.Contains(today) {
			current = row.Week
			break
		}
	}
	report.CurrentWeekIndex = current.Index
	report.CurrentWeekStart = current.Start
	report.CurrentWeekEnd = current.End
	return report
}
