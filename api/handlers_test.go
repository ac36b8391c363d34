package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avigest/flock-engine/api"
	"github.com/avigest/flock-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	handler := api.NewHandler(store, nil, zap.NewNop())
	server := httptest.NewServer(api.NewRouter(handler, []string{"*"}))
	t.Cleanup(server.Close)
	return server, store
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createLotRequest(id string) api.CreateLotRequest {
	return api.CreateLotRequest{
		ID:             id,
		Name:           id,
		FarmID:         "F-01",
		FarmName:       "Granja Norte",
		Nucleus:        "N1",
		ArrivalDate:    "2025-02-03",
		InitialFemales: 1000,
		InitialMales:   100,
	}
}

// =============================================================================
// HEALTH AND LOT ENDPOINTS
// =============================================================================

func TestHealth_OK(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateAndGetLot(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/lots", createLotRequest("L-100"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/lots/L-100", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	lot := decode[api.LotDTO](t, resp)
	assert.Equal(t, "L-100", lot.ID)
	assert.Equal(t, "2025-02-03", lot.ArrivalDate)
	assert.Equal(t, int64(1000), lot.InitialFemales)
}

func TestGetLot_Unknown_404(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/lots/L-999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateLot_BadDate_400(t *testing.T) {
	server, _ := newTestServer(t)

	req := createLotRequest("L-100")
	req.ArrivalDate = "03/02/2025"
	resp := doJSON(t, http.MethodPost, server.URL+"/api/lots", req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListLots_OnlyParents(t *testing.T) {
	server, _ := newTestServer(t)

	require.Equal(t, http.StatusCreated,
		doJSON(t, http.MethodPost, server.URL+"/api/lots", createLotRequest("L-100")).StatusCode)

	child := createLotRequest("L-100-A")
	parent := "L-100"
	child.ParentID = &parent
	require.Equal(t, http.StatusCreated,
		doJSON(t, http.MethodPost, server.URL+"/api/lots", child).StatusCode)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/lots", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	lots := decode[[]api.LotDTO](t, resp)
	require.Len(t, lots, 1)
	assert.Equal(t, "L-100", lots[0].ID)
}

// =============================================================================
// CAPTURE ENDPOINTS
// =============================================================================

func TestAddDailyRecord_Validates(t *testing.T) {
	server, _ := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		doJSON(t, http.MethodPost, server.URL+"/api/lots", createLotRequest("L-100")).StatusCode)

	good := api.DailyRecordRequest{
		Stream: "early_life", Date: "2025-02-04",
		MortalityF: 3, FeedKgF: "42.5",
	}
	resp := doJSON(t, http.MethodPost, server.URL+"/api/lots/L-100/records", good)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	bad := good
	bad.Stream = "weekly"
	resp = doJSON(t, http.MethodPost, server.URL+"/api/lots/L-100/records", bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/lots/L-999/records", good)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddBirdMovement_DefaultsToCompleted(t *testing.T) {
	server, _ := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		doJSON(t, http.MethodPost, server.URL+"/api/lots", createLotRequest("L-100")).StatusCode)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/lots/L-100/movements", api.BirdMovementRequest{
		Date: "2025-02-10", Type: "sale", Females: 50,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decode[map[string]string](t, resp)
	assert.Equal(t, "completed", body["status"])
}

func TestAddFeedMovement_RejectsUnknownKind(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/farms/F-01/feed-movements", api.FeedMovementRequest{
		Date: "2025-02-04", Kind: "donation", Quantity: "10", Unit: "bags",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// ACCOUNTING ENDPOINT
// =============================================================================

func seedReportableFamily(t *testing.T, server *httptest.Server) {
	t.Helper()
	require.Equal(t, http.StatusCreated,
		doJSON(t, http.MethodPost, server.URL+"/api/lots", createLotRequest("L-100")).StatusCode)

	for _, date := range []string{"2025-02-04", "2025-02-05", "2025-02-06"} {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/lots/L-100/records", api.DailyRecordRequest{
			Stream: "early_life", Date: date, MortalityF: 2, FeedKgF: "40",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp := doJSON(t, http.MethodPost, server.URL+"/api/farms/F-01/feed-movements", api.FeedMovementRequest{
		Date: "2025-02-04", Kind: "entry", Quantity: "100", Unit: "bags",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestGetAccountingReport_FullFlow(t *testing.T) {
	server, _ := newTestServer(t)
	seedReportableFamily(t, server)

	resp := doJSON(t, http.MethodGet,
		server.URL+"/api/lots/L-100/accounting?to=2025-02-09", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	report := decode[api.ReportDTO](t, resp)
	assert.Equal(t, "L-100", report.ParentLotID)
	assert.Equal(t, "2025-02-03", report.FirstArrivalDate)
	require.NotNil(t, report.FirstTrackedDate)
	assert.Equal(t, "2025-02-04", *report.FirstTrackedDate)
	require.Len(t, report.Weeks, 1)

	week := report.Weeks[0]
	assert.Equal(t, "2025-02-03", week.Start)
	assert.Equal(t, "1000", week.OpeningFemales)
	assert.Equal(t, "994", week.ClosingFemales)
	assert.Equal(t, "6", week.Flows.MortalityF)
	assert.Equal(t, "100", week.Flows.BagsEntry)
	// 120 kg consumed is 3 bags: 100 - 3.
	assert.Equal(t, "97", week.ClosingBags)
	require.NotNil(t, week.Onset)
	assert.Equal(t, 3, week.Onset.Days)
}

func TestGetAccountingReport_UnknownLot_404(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/lots/L-999/accounting", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetAccountingReport_WeekOutOfRange_400(t *testing.T) {
	server, _ := newTestServer(t)
	seedReportableFamily(t, server)

	resp := doJSON(t, http.MethodGet,
		server.URL+"/api/lots/L-100/accounting?to=2025-02-09&week=40", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetAccountingReport_BackwardsRange_400(t *testing.T) {
	server, _ := newTestServer(t)
	seedReportableFamily(t, server)

	resp := doJSON(t, http.MethodGet,
		server.URL+"/api/lots/L-100/accounting?from=2025-03-01&to=2025-02-10", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListSnapshots_DisabledBackend_404(t *testing.T) {
	server, _ := newTestServer(t)
	seedReportableFamily(t, server)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/lots/L-100/accounting/snapshots", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// SCENARIO ENDPOINTS
// =============================================================================

func TestScenarios_ListAndLoad(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/scenarios", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	listing := decode[map[string]json.RawMessage](t, resp)
	var scenarios []api.Scenario
	require.NoError(t, json.Unmarshal(listing["scenarios"], &scenarios))
	assert.NotEmpty(t, scenarios)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/scenarios/load", map[string]string{"id": "rearing-standard"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The loaded family reports end to end.
	resp = doJSON(t, http.MethodGet, server.URL+"/api/lots/L-2401/accounting", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[api.ReportDTO](t, resp)
	assert.NotEmpty(t, report.Weeks)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/scenarios/load", map[string]string{"id": "no-such"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
