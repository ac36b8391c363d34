package flock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avigest/flock-engine/flock"
	"github.com/avigest/flock-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func seedFamily(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.New()
	ctx := context.Background()

	parent := flock.Lot{
		ID:             "L-100",
		Name:           "L-100",
		FarmID:         "F-01",
		ArrivalDate:    flock.NewDay(2025, time.January, 6),
		InitialFemales: 5000,
		InitialMales:   500,
	}
	require.NoError(t, store.CreateLot(ctx, parent))

	pid := flock.LotID("L-100")
	for _, child := range []flock.Lot{
		{ID: "L-100-B", ParentID: &pid, FarmID: "F-01", ArrivalDate: flock.NewDay(2025, time.January, 8), InitialFemales: 2000},
		{ID: "L-100-A", ParentID: &pid, FarmID: "F-01", ArrivalDate: flock.NewDay(2025, time.January, 4), InitialMales: 300},
	} {
		require.NoError(t, store.CreateLot(ctx, child))
	}
	return store
}

// =============================================================================
// RESOLUTION TESTS
// =============================================================================

func TestResolveFamily_ParentWithChildren(t *testing.T) {
	store := seedFamily(t)

	family, err := flock.ResolveFamily(context.Background(), store, "L-100")
	require.NoError(t, err)

	assert.Equal(t, flock.LotID("L-100"), family.Parent.ID)
	require.Len(t, family.Children, 2)
	assert.Len(t, family.Members(), 3)
}

func TestResolveFamily_UnknownLot_NotFound(t *testing.T) {
	store := seedFamily(t)

	_, err := flock.ResolveFamily(context.Background(), store, "L-999")
	require.Error(t, err)
	assert.True(t, flock.IsNotFound(err))
}

func TestResolveFamily_ChildLot_Rejected(t *testing.T) {
	// GIVEN: L-100-A is a child of L-100
	// WHEN: Resolving a family headed by L-100-A
	// THEN: The NotParent error names the offending lot

	store := seedFamily(t)

	_, err := flock.ResolveFamily(context.Background(), store, "L-100-A")
	require.Error(t, err)
	assert.ErrorIs(t, err, flock.ErrNotParentLot)
	assert.True(t, flock.IsNotFound(err))
}

func TestCreateLot_GrandchildRejected(t *testing.T) {
	store := seedFamily(t)
	childID := flock.LotID("L-100-A")

	err := store.CreateLot(context.Background(), flock.Lot{
		ID:          "L-100-A-1",
		ParentID:    &childID,
		FarmID:      "F-01",
		ArrivalDate: flock.NewDay(2025, time.February, 1),
	})
	assert.ErrorIs(t, err, flock.ErrNotParentLot)
}

// =============================================================================
// BASELINE TESTS
// =============================================================================

func TestInitialBaseline_SumsAllMembers(t *testing.T) {
	store := seedFamily(t)

	family, err := flock.ResolveFamily(context.Background(), store, "L-100")
	require.NoError(t, err)

	baseline := family.InitialBaseline()
	assert.True(t, baseline.HasCounts)
	assert.True(t, baseline.Females.Equal(flock.Birds(7000)))
	assert.True(t, baseline.Males.Equal(flock.Birds(800)))
}

func TestInitialBaseline_NoCountsAnywhere_Flagged(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.CreateLot(ctx, flock.Lot{
		ID:          "L-200",
		FarmID:      "F-02",
		ArrivalDate: flock.NewDay(2025, time.March, 1),
	}))

	family, err := flock.ResolveFamily(ctx, store, "L-200")
	require.NoError(t, err)

	baseline := family.InitialBaseline()
	assert.False(t, baseline.HasCounts)
	assert.True(t, baseline.Females.IsZero())
}

func TestEarliestArrival_MinOverMembers(t *testing.T) {
	store := seedFamily(t)

	family, err := flock.ResolveFamily(context.Background(), store, "L-100")
	require.NoError(t, err)

	// L-100-A arrived two days before the parent.
	assert.Equal(t, "2025-01-04", family.EarliestArrival().String())
}
