/*
calendar.go - Week Calendar Builder

PURPOSE:
  The accounting calendar is the family's own invention: week 1 starts
  exactly on the earliest arrival date, every week spans 7 calendar
  days, and week n+1 starts the day after week n ends. Nothing aligns
  to Mon-Sun.

INVARIANTS:
  - Contiguous: weeks[i+1].Start == weeks[i].End + 1 day
  - Fixed width: weeks[i].End - weeks[i].Start == 6 days
  - Bounded: never more than MaxWeeks weeks, so a corrupted horizon
    cannot produce a runaway loop; the cap truncates, it does not fail
*/
package accounting

import "github.com/avigest/flock-engine/flock"

// MaxWeeks caps the calendar at 200 accounting weeks (~3.8 years),
// well past any real rearing cycle.
const MaxWeeks = 200

// BuildWeeks produces the ordered, gap-free list of accounting weeks
// from the first arrival date through the horizon end. A horizon before
// the first arrival is a precondition violation and returns an
// InvalidRange error; hitting the MaxWeeks cap returns what was built.
// Pure function of its two inputs.
func BuildWeeks(firstArrival, horizonEnd flock.DayPoint) ([]AccountingWeek, error) {
	if firstArrival.After(horizonEnd) {
		return nil, &InvalidRangeError{From: firstArrival, To: horizonEnd}
	}

	var weeks []AccountingWeek
	start := firstArrival
	for index := 1; index <= MaxWeeks; index++ {
		if start.After(horizonEnd) {
			break
		}
		end := start.AddDays(6)
		weeks = append(weeks, AccountingWeek{Index: index, Start: start, End: end})
		start = end.AddDays(1)
	}
	return weeks, nil
}

// WeekFor returns the week containing the given day, or nil.
func WeekFor(weeks []AccountingWeek, d flock.DayPoint) *AccountingWeek {
	for i := range weeks {
		if weeks[i].Contains(d) {
			return &weeks[i]
		}
	}
	return nil
}
