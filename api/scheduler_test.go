package api_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avigest/flock-engine/api"
	"github.com/avigest/flock-engine/flock"
	"github.com/avigest/flock-engine/store/sqlite"
)

func newSnapshotFixture(t *testing.T) (*api.SnapshotScheduler, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return api.NewSnapshotScheduler(store, store, zap.NewNop()), store
}

func TestRunNow_SnapshotsEveryParent(t *testing.T) {
	scheduler, store := newSnapshotFixture(t)
	ctx := context.Background()

	arrival := flock.Today().AddDays(-14)
	for _, id := range []flock.LotID{"L-500", "L-501"} {
		require.NoError(t, store.CreateLot(ctx, flock.Lot{
			ID:             id,
			Name:           string(id),
			FarmID:         "F-01",
			ArrivalDate:    arrival,
			InitialFemales: 1000,
			InitialMales:   100,
		}))
	}

	require.NoError(t, scheduler.RunNow(ctx))

	for _, id := range []flock.LotID{"L-500", "L-501"} {
		snaps, err := store.ListReportSnapshots(ctx, id, 10)
		require.NoError(t, err)
		require.Len(t, snaps, 1)

		var report api.ReportDTO
		require.NoError(t, json.Unmarshal([]byte(snaps[0].ReportJSON), &report))
		assert.Equal(t, string(id), report.ParentLotID)
		assert.NotEmpty(t, report.Weeks)
	}
}

func TestRunNow_RepeatedRunsAppend(t *testing.T) {
	scheduler, store := newSnapshotFixture(t)
	ctx := context.Background()

	require.NoError(t, store.CreateLot(ctx, flock.Lot{
		ID:             "L-500",
		Name:           "L-500",
		FarmID:         "F-01",
		ArrivalDate:    flock.Today().AddDays(-7),
		InitialFemales: 1000,
	}))

	require.NoError(t, scheduler.RunNow(ctx))
	require.NoError(t, scheduler.RunNow(ctx))

	snaps, err := store.ListReportSnapshots(ctx, "L-500", 10)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}

func TestRunNow_NoParents_NoSnapshots(t *testing.T) {
	scheduler, store := newSnapshotFixture(t)
	ctx := context.Background()

	require.NoError(t, scheduler.RunNow(ctx))

	snaps, err := store.ListReportSnapshots(ctx, "L-500", 10)
	require.NoError(t, err)
	assert.Empty(t, snaps)
}
