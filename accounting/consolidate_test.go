package accounting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avigest/flock-engine/accounting"
	"github.com/avigest/flock-engine/flock"
)

func balancedDays(baseline flock.Baseline, days ...accounting.ConsolidatedDay) []accounting.BalancedDay {
	return accounting.ComputeBalances(days, baseline)
}

func weeksOver(ndays int) []accounting.AccountingWeek {
	weeks, err := accounting.BuildWeeks(day(0), day(ndays-1))
	if err != nil {
		panic(err)
	}
	return weeks
}

// =============================================================================
// WEEKLY ROW TESTS
// =============================================================================

func TestConsolidate_OpeningsCarryForwardAcrossWeeks(t *testing.T) {
	baseline := birdBaseline(1000, 100)
	days := balancedDays(baseline,
		consolidated(2, func(f *accounting.DayFlows) { f.MortalityF = flock.Birds(40) }),
		consolidated(9, func(f *accounting.DayFlows) { f.MortalityF = flock.Birds(10) }),
	)

	rows := accounting.Consolidate(days, weeksOver(14), baseline, nil)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].OpeningFemales.Equal(flock.Birds(1000)))
	assert.True(t, rows[0].ClosingFemales.Equal(flock.Birds(960)))
	assert.True(t, rows[1].OpeningFemales.Equal(rows[0].ClosingFemales))
	assert.True(t, rows[1].ClosingFemales.Equal(flock.Birds(950)))
}

func TestConsolidate_EmptyWeekKeepsBalancesFlat(t *testing.T) {
	// GIVEN: Data in weeks 1 and 3, nothing in week 2
	// WHEN: Consolidating
	// THEN: Week 2 appears with zero flows and closing == opening

	baseline := birdBaseline(500, 50)
	days := balancedDays(baseline,
		consolidated(0, func(f *accounting.DayFlows) { f.MortalityF = flock.Birds(5) }),
		consolidated(15, func(f *accounting.DayFlows) { f.MortalityF = flock.Birds(5) }),
	)

	rows := accounting.Consolidate(days, weeksOver(21), baseline, nil)
	require.Len(t, rows, 3)

	gap := rows[1]
	assert.Equal(t, 0, gap.DaysWithData)
	assert.True(t, gap.Flows.MortalityF.IsZero())
	assert.True(t, gap.OpeningFemales.Equal(flock.Birds(495)))
	assert.True(t, gap.ClosingFemales.Equal(gap.OpeningFemales))
	assert.True(t, rows[2].OpeningFemales.Equal(flock.Birds(495)))
}

func TestConsolidate_WeekFlowsAreDaySums(t *testing.T) {
	baseline := birdBaseline(100, 100)
	days := balancedDays(baseline,
		consolidated(0, func(f *accounting.DayFlows) { f.SalesF = flock.Birds(3) }),
		consolidated(1, func(f *accounting.DayFlows) { f.SalesF = flock.Birds(4) }),
		consolidated(6, func(f *accounting.DayFlows) { f.SalesF = flock.Birds(5) }),
	)

	rows := accounting.Consolidate(days, weeksOver(7), baseline, nil)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Flows.SalesF.Equal(flock.Birds(12)))
	assert.Equal(t, 3, rows[0].DaysWithData)
}

// =============================================================================
// ONSET / REARING SECTION TESTS
// =============================================================================

func TestConsolidate_SectionsSplitAtFirstTrackedPlusSix(t *testing.T) {
	// GIVEN: Tracking starts on day 3; onset runs through day 9
	// WHEN: Consolidating week 2 (days 7..13)
	// THEN: Days 7..9 are ONSET, days 10..13 are REARING

	baseline := birdBaseline(100, 10)
	var consolidatedDays []accounting.ConsolidatedDay
	for i := 3; i <= 13; i++ {
		consolidatedDays = append(consolidatedDays, consolidated(i, func(f *accounting.DayFlows) {
			f.FeedKgF = flock.Kg(40) // one bag per day
		}))
	}
	days := balancedDays(baseline, consolidatedDays...)

	firstTracked := day(3)
	rows := accounting.Consolidate(days, weeksOver(14), baseline, &firstTracked)
	require.Len(t, rows, 2)

	week2 := rows[1]
	require.NotNil(t, week2.Onset)
	require.NotNil(t, week2.Rearing)
	assert.Equal(t, accounting.SectionOnset, week2.Onset.Kind)
	assert.Equal(t, 3, week2.Onset.Days)
	assert.Equal(t, accounting.SectionRearing, week2.Rearing.Kind)
	assert.Equal(t, 4, week2.Rearing.Days)

	// Section days partition the week's data days.
	assert.Equal(t, week2.DaysWithData, week2.Onset.Days+week2.Rearing.Days)

	// The rearing section opens on the onset section's close.
	assert.True(t, week2.Rearing.BagsOpening.Equal(week2.Onset.BagsClosing))

	// Week 1 is entirely onset.
	require.NotNil(t, rows[0].Onset)
	assert.Nil(t, rows[0].Rearing)
}

func TestConsolidate_NoTrackingData_NoSections(t *testing.T) {
	baseline := birdBaseline(100, 10)
	days := balancedDays(baseline,
		consolidated(0, func(f *accounting.DayFlows) { f.BagsEntry = flock.Bags(10) }),
	)

	rows := accounting.Consolidate(days, weeksOver(7), baseline, nil)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Onset)
	assert.Nil(t, rows[0].Rearing)
}

func TestConsolidate_SectionBagBoundaries(t *testing.T) {
	baseline := birdBaseline(100, 10)
	days := balancedDays(baseline,
		consolidated(0, func(f *accounting.DayFlows) { f.BagsEntry = flock.Bags(50) }),
		consolidated(8, func(f *accounting.DayFlows) { f.FeedKgF = flock.Kg(80) }),
	)

	firstTracked := day(0)
	rows := accounting.Consolidate(days, weeksOver(14), baseline, &firstTracked)
	require.Len(t, rows, 2)

	onset := rows[0].Onset
	require.NotNil(t, onset)
	assert.True(t, onset.BagsOpening.IsZero())
	assert.True(t, onset.BagsEntry.Equal(flock.Bags(50)))
	assert.True(t, onset.BagsClosing.Equal(flock.Bags(50)))

	rearing := rows[1].Rearing
	require.NotNil(t, rearing)
	assert.True(t, rearing.BagsOpening.Equal(flock.Bags(50)))
	assert.True(t, rearing.FeedBagsConsumed.Equal(flock.Bags(2)))
	assert.True(t, rearing.BagsClosing.Equal(flock.Bags(48)))
}
