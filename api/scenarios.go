/*
scenarios.go - Demo scenario loaders

PURPOSE:
  Seeds the backend with self-contained demo datasets so the tabular
  frontend has something to show without manual capture. Each scenario
  resets the store first, so exactly one scenario is loaded at a time.

SCENARIOS:
  rearing-standard  One family six weeks into rearing, with feed stock
                    movements, a completed sale, and a pending transfer
                    that must not affect balances
  late-capture      Historical family whose daily tracking started ten
                    days after arrival (onset anchors on first record)
  shared-farm       Two families on one farm; the feed-bag ledger is
                    farm stock and shows up in both reports
  fresh-placement   A lot placed yesterday with no tracking records
                    (the report shows a single placeholder week)

DATES:
  All dates are generated relative to today so the "current week"
  marker always lands inside the data.

SEE ALSO:
  - handlers.go: LoadScenario / ListScenarios endpoints
  - store/memory: The backend used by tests loading these scenarios
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avigest/flock-engine/flock"
)

// =============================================================================
// SCENARIO REGISTRY
// =============================================================================

// Scenario is one loadable demo dataset.
type Scenario struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	load func(ctx context.Context, b Backend) error
}

// Scenarios lists every available demo scenario, in display order.
func Scenarios() []Scenario {
	return []Scenario{
		{
			ID:          "rearing-standard",
			Name:        "Standard Rearing Family",
			Description: "One parent with two child lots, six weeks of daily records, feed stock movements, and a completed sale.",
			load:        loadRearingStandard,
		},
		{
			ID:          "late-capture",
			Name:        "Late Capture Start",
			Description: "Daily tracking started ten days after arrival; the onset period anchors on the first record.",
			load:        loadLateCapture,
		},
		{
			ID:          "shared-farm",
			Name:        "Shared Farm Feed Stock",
			Description: "Two families on one farm sharing the feed-bag ledger.",
			load:        loadSharedFarm,
		},
		{
			ID:          "fresh-placement",
			Name:        "Fresh Placement",
			Description: "A lot placed yesterday with no tracking records yet.",
			load:        loadFreshPlacement,
		},
	}
}

func findScenario(id string) *Scenario {
	for _, s := range Scenarios() {
		if s.ID == id {
			return &s
		}
	}
	return nil
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the available demo scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"scenarios": Scenarios(),
		"current":   h.currentScenario,
	})
}

// LoadScenario resets the backend and seeds the requested scenario.
// POST /api/scenarios/load {"id": "rearing-standard"}
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	scenario := findScenario(req.ID)
	if scenario == nil {
		writeError(w, http.StatusNotFound, "Unknown scenario: "+req.ID, nil)
		return
	}

	ctx := r.Context()
	if err := h.Backend.Reset(ctx); err != nil {
		h.serverError(w, "Failed to reset backend", err)
		return
	}
	if err := scenario.load(ctx, h.Backend); err != nil {
		h.serverError(w, "Failed to load scenario", err)
		return
	}

	h.currentScenario = scenario.ID
	h.Log.Info("scenario loaded", zap.String("scenario", scenario.ID))
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "loaded",
		"id":     scenario.ID,
	})
}

// =============================================================================
// SEED HELPERS
// =============================================================================

func seedLot(ctx context.Context, b Backend, id string, parentID *string, farmID, farmName string, arrival flock.DayPoint, females, males int64) error {
	lot := flock.Lot{
		ID:             flock.LotID(id),
		Name:           id,
		FarmID:         flock.FarmID(farmID),
		FarmName:       farmName,
		Nucleus:        "N1",
		ArrivalDate:    arrival,
		InitialFemales: females,
		InitialMales:   males,
	}
	if parentID != nil {
		pid := flock.LotID(*parentID)
		lot.ParentID = &pid
	}
	return b.CreateLot(ctx, lot)
}

func seedDays(ctx context.Context, b Backend, lotID string, stream flock.RecordStream, from flock.DayPoint, days int, mortF, mortM int64, feedKg int64) error {
	for i := 0; i < days; i++ {
		rec := flock.DailyRecord{
			LotID:      flock.LotID(lotID),
			Date:       from.AddDays(i),
			MortalityF: mortF,
			MortalityM: mortM,
			FeedKgF:    decimal.NewFromInt(feedKg),
			FeedKgM:    decimal.NewFromInt(feedKg / 4),
		}
		if err := b.AddDailyRecord(ctx, stream, rec); err != nil {
			return err
		}
	}
	return nil
}

func seedFeed(ctx context.Context, b Backend, farmID string, date flock.DayPoint, kind flock.FeedMovementKind, bags int64) error {
	return b.AddFeedMovement(ctx, flock.FeedMovement{
		FarmID:   flock.FarmID(farmID),
		Date:     date,
		Kind:     kind,
		Quantity: decimal.NewFromInt(bags),
		Unit:     flock.UnitFeedBags,
	})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func loadRearingStandard(ctx context.Context, b Backend) error {
	arrival := flock.Today().AddDays(-41) // today falls inside week 6
	parent := "L-2401"

	if err := seedLot(ctx, b, parent, nil, "F-01", "Granja Norte", arrival, 9500, 950); err != nil {
		return err
	}
	if err := seedLot(ctx, b, "L-2401-A", &parent, "F-01", "Granja Norte", arrival, 4750, 475); err != nil {
		return err
	}
	if err := seedLot(ctx, b, "L-2401-B", &parent, "F-01", "Granja Norte", arrival, 4750, 475); err != nil {
		return err
	}

	// Three weeks of early-life capture starting the day after
	// placement, then production takes over.
	for _, child := range []string{"L-2401-A", "L-2401-B"} {
		if err := seedDays(ctx, b, child, flock.StreamEarlyLife, arrival.AddDays(1), 21, 3, 1, 180); err != nil {
			return err
		}
		if err := seedDays(ctx, b, child, flock.StreamProduction, arrival.AddDays(22), 21, 1, 0, 320); err != nil {
			return err
		}
	}

	// Feed stock: a big opening delivery, weekly top-ups, one adjustment.
	if err := seedFeed(ctx, b, "F-01", arrival, flock.FeedEntry, 400); err != nil {
		return err
	}
	for week := 1; week <= 5; week++ {
		if err := seedFeed(ctx, b, "F-01", arrival.AddDays(week*7), flock.FeedEntry, 120); err != nil {
			return err
		}
	}
	if err := seedFeed(ctx, b, "F-01", arrival.AddDays(17), flock.FeedExit, 12); err != nil {
		return err
	}

	// A completed sale in week 5 and a pending transfer that must not
	// show up in any balance.
	if err := b.AddBirdMovement(ctx, flock.BirdMovement{
		LotID:   "L-2401-A",
		Date:    arrival.AddDays(30),
		Type:    flock.MovementSale,
		Females: 200,
		Males:   0,
	}, flock.MovementCompleted); err != nil {
		return err
	}
	return b.AddBirdMovement(ctx, flock.BirdMovement{
		LotID:   "L-2401-B",
		Date:    arrival.AddDays(35),
		Type:    flock.MovementTransfer,
		Females: 500,
		Males:   50,
	}, flock.MovementPending)
}

func loadLateCapture(ctx context.Context, b Backend) error {
	arrival := flock.Today().AddDays(-60)
	parent := "L-2389"

	if err := seedLot(ctx, b, parent, nil, "F-02", "Granja Sur", arrival, 8000, 800); err != nil {
		return err
	}
	// Capture started ten days after placement.
	if err := seedDays(ctx, b, parent, flock.StreamEarlyLife, arrival.AddDays(10), 25, 4, 1, 150); err != nil {
		return err
	}
	return seedFeed(ctx, b, "F-02", arrival.AddDays(10), flock.FeedEntry, 300)
}

func loadSharedFarm(ctx context.Context, b Backend) error {
	arrival := flock.Today().AddDays(-20)

	for _, parent := range []string{"L-2410", "L-2411"} {
		if err := seedLot(ctx, b, parent, nil, "F-03", "Granja Centro", arrival, 6000, 600); err != nil {
			return err
		}
		if err := seedDays(ctx, b, parent, flock.StreamEarlyLife, arrival.AddDays(1), 20, 2, 0, 140); err != nil {
			return err
		}
	}

	// One delivery feeds both families' reports.
	return seedFeed(ctx, b, "F-03", arrival, flock.FeedEntry, 500)
}

func loadFreshPlacement(ctx context.Context, b Backend) error {
	return seedLot(ctx, b, "L-2420", nil, "F-04", "Granja Este", flock.Today().AddDays(-1), 10000, 1000)
}
