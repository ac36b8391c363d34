/*
handlers.go - HTTP API handlers for the flock accounting engine

PURPOSE:
  Exposes lot capture and the weekly accounting report via REST.
  Handles HTTP request/response, JSON serialization, and delegates to
  the accounting engine and the storage backend.

ENDPOINTS:
  Lots:
    GET  /api/lots                      List parent lots
    POST /api/lots                      Create a lot (parent or child)
    GET  /api/lots/{id}                 Get one lot
    POST /api/lots/{id}/records         Capture a daily tracking record
    POST /api/lots/{id}/movements       Capture a bird sale/transfer

  Accounting:
    GET  /api/lots/{id}/accounting            Weekly report (from/to/week)
    GET  /api/lots/{id}/accounting/snapshots  Stored scheduler snapshots

  Farms:
    POST /api/farms/{id}/feed-movements Capture a feed-bag movement

  Scenarios:
    GET  /api/scenarios                 List demo scenarios
    POST /api/scenarios/load            Load a demo scenario

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid ranges, out-of-range week index
  - 404: Unknown lot, non-parent lot on family endpoints
  - 500: Storage failures

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avigest/flock-engine/accounting"
	"github.com/avigest/flock-engine/flock"
	"github.com/avigest/flock-engine/store/sqlite"
)

// =============================================================================
// BACKEND CONTRACTS
// =============================================================================

// Backend is everything the HTTP layer needs from storage: the engine's
// read interfaces plus the capture writes and the lot directory. Both
// the sqlite and the in-memory store satisfy it.
type Backend interface {
	flock.Sources

	ParentLots(ctx context.Context) ([]flock.Lot, error)
	Lot(ctx context.Context, id flock.LotID) (*flock.Lot, error)

	CreateLot(ctx context.Context, lot flock.Lot) error
	AddDailyRecord(ctx context.Context, stream flock.RecordStream, rec flock.DailyRecord) error
	AddBirdMovement(ctx context.Context, mv flock.BirdMovement, status flock.MovementStatus) error
	AddFeedMovement(ctx context.Context, mv flock.FeedMovement) error
	Reset(ctx context.Context) error
}

// SnapshotStore persists scheduler-generated reports. Optional: a nil
// store disables the snapshot endpoints.
type SnapshotStore interface {
	SaveReportSnapshot(ctx context.Context, snap sqlite.ReportSnapshot) error
	ListReportSnapshots(ctx context.Context, parentLotID flock.LotID, limit int) ([]sqlite.ReportSnapshot, error)
}

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Backend   Backend
	Snapshots SnapshotStore
	Engine    *accounting.Engine
	Log       *zap.Logger

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a handler over the given backend.
func NewHandler(backend Backend, snapshots SnapshotStore, log *zap.Logger) *Handler {
	return &Handler{
		Backend:   backend,
		Snapshots: snapshots,
		Engine:    accounting.NewEngine(backend),
		Log:       log,
	}
}

// =============================================================================
// HEALTH
// =============================================================================

// Health reports liveness.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// LOT HANDLERS
// =============================================================================

// ListLots returns every parent lot.
// GET /api/lots
func (h *Handler) ListLots(w http.ResponseWriter, r *http.Request) {
	lots, err := h.Backend.ParentLots(r.Context())
	if err != nil {
		h.serverError(w, "Failed to list lots", err)
		return
	}

	dtos := make([]LotDTO, 0, len(lots))
	for _, lot := range lots {
		dtos = append(dtos, toLotDTO(lot))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetLot returns a single lot.
// GET /api/lots/{id}
func (h *Handler) GetLot(w http.ResponseWriter, r *http.Request) {
	id := flock.LotID(chi.URLParam(r, "id"))

	lot, err := h.Backend.Lot(r.Context(), id)
	if err != nil {
		if flock.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Lot not found", err)
			return
		}
		h.serverError(w, "Failed to get lot", err)
		return
	}
	writeJSON(w, http.StatusOK, toLotDTO(*lot))
}

// CreateLot registers a placement.
// POST /api/lots
func (h *Handler) CreateLot(w http.ResponseWriter, r *http.Request) {
	var req CreateLotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.FarmID == "" {
		writeError(w, http.StatusBadRequest, "id and farm_id are required", nil)
		return
	}

	arrival, err := flock.ParseDay(req.ArrivalDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid arrival_date format (use YYYY-MM-DD)", err)
		return
	}

	lot := flock.Lot{
		ID:             flock.LotID(req.ID),
		Name:           req.Name,
		FarmID:         flock.FarmID(req.FarmID),
		FarmName:       req.FarmName,
		Nucleus:        req.Nucleus,
		ArrivalDate:    arrival,
		InitialFemales: req.InitialFemales,
		InitialMales:   req.InitialMales,
	}
	if req.ParentID != nil {
		pid := flock.LotID(*req.ParentID)
		lot.ParentID = &pid
	}

	if err := h.Backend.CreateLot(r.Context(), lot); err != nil {
		if flock.IsNotFound(err) {
			writeError(w, http.StatusBadRequest, "Invalid parent lot", err)
			return
		}
		h.serverError(w, "Failed to create lot", err)
		return
	}

	h.Log.Info("lot created",
		zap.String("lot_id", string(lot.ID)),
		zap.String("farm_id", string(lot.FarmID)))
	writeJSON(w, http.StatusCreated, toLotDTO(lot))
}

// =============================================================================
// CAPTURE HANDLERS
// =============================================================================

// AddDailyRecord captures one lot-day into a tracking stream.
// POST /api/lots/{id}/records
func (h *Handler) AddDailyRecord(w http.ResponseWriter, r *http.Request) {
	lotID := flock.LotID(chi.URLParam(r, "id"))

	var req DailyRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	stream := flock.RecordStream(req.Stream)
	if stream != flock.StreamEarlyLife && stream != flock.StreamProduction {
		writeError(w, http.StatusBadRequest, "stream must be early_life or production", nil)
		return
	}
	date, err := flock.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	feedF, err := parseDecimal(req.FeedKgF)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid feed_kg_f", err)
		return
	}
	feedM, err := parseDecimal(req.FeedKgM)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid feed_kg_m", err)
		return
	}

	if _, err := h.Backend.Lot(r.Context(), lotID); err != nil {
		if flock.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Lot not found", err)
			return
		}
		h.serverError(w, "Failed to resolve lot", err)
		return
	}

	rec := flock.DailyRecord{
		LotID:      lotID,
		Date:       date,
		MortalityF: req.MortalityF,
		MortalityM: req.MortalityM,
		SelectionF: req.SelectionF,
		SelectionM: req.SelectionM,
		FeedKgF:    feedF,
		FeedKgM:    feedM,
	}
	if err := h.Backend.AddDailyRecord(r.Context(), stream, rec); err != nil {
		h.serverError(w, "Failed to save record", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"lot_id": string(lotID),
		"stream": string(stream),
		"date":   date.String(),
	})
}

// AddBirdMovement captures a sale or transfer.
// POST /api/lots/{id}/movements
func (h *Handler) AddBirdMovement(w http.ResponseWriter, r *http.Request) {
	lotID := flock.LotID(chi.URLParam(r, "id"))

	var req BirdMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	mvType := flock.MovementType(req.Type)
	if mvType != flock.MovementSale && mvType != flock.MovementTransfer {
		writeError(w, http.StatusBadRequest, "type must be sale or transfer", nil)
		return
	}
	status := flock.MovementStatus(req.Status)
	if status == "" {
		status = flock.MovementCompleted
	}
	if status != flock.MovementPending && status != flock.MovementCompleted && status != flock.MovementCanceled {
		writeError(w, http.StatusBadRequest, "status must be pending, completed, or canceled", nil)
		return
	}
	date, err := flock.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	if _, err := h.Backend.Lot(r.Context(), lotID); err != nil {
		if flock.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Lot not found", err)
			return
		}
		h.serverError(w, "Failed to resolve lot", err)
		return
	}

	mv := flock.BirdMovement{
		LotID:   lotID,
		Date:    date,
		Type:    mvType,
		Females: req.Females,
		Males:   req.Males,
	}
	if err := h.Backend.AddBirdMovement(r.Context(), mv, status); err != nil {
		h.serverError(w, "Failed to save movement", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"lot_id": string(lotID),
		"type":   string(mvType),
		"status": string(status),
		"date":   date.String(),
	})
}

// AddFeedMovement captures one farm-scoped feed-bag movement.
// POST /api/farms/{id}/feed-movements
func (h *Handler) AddFeedMovement(w http.ResponseWriter, r *http.Request) {
	farmID := flock.FarmID(chi.URLParam(r, "id"))

	var req FeedMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	kind := flock.FeedMovementKind(req.Kind)
	switch kind {
	case flock.FeedEntry, flock.FeedTransferIn, flock.FeedTransferOut, flock.FeedExit:
	default:
		writeError(w, http.StatusBadRequest, "kind must be entry, transfer_in, transfer_out, or exit", nil)
		return
	}
	unit := flock.FeedUnit(req.Unit)
	if unit != flock.UnitFeedKg && unit != flock.UnitFeedBags {
		writeError(w, http.StatusBadRequest, "unit must be kg or bags", nil)
		return
	}
	date, err := flock.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	quantity, err := parseDecimal(req.Quantity)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid quantity", err)
		return
	}

	mv := flock.FeedMovement{
		FarmID:   farmID,
		Date:     date,
		Kind:     kind,
		Quantity: quantity,
		Unit:     unit,
	}
	if err := h.Backend.AddFeedMovement(r.Context(), mv); err != nil {
		h.serverError(w, "Failed to save feed movement", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"farm_id": string(farmID),
		"kind":    string(kind),
		"date":    date.String(),
	})
}

// =============================================================================
// ACCOUNTING HANDLERS
// =============================================================================

// GetAccountingReport generates the weekly accounting report for a
// parent lot's family.
// GET /api/lots/{id}/accounting?from=YYYY-MM-DD&to=YYYY-MM-DD&week=N
func (h *Handler) GetAccountingReport(w http.ResponseWriter, r *http.Request) {
	req := accounting.ReportRequest{
		ParentLotID: flock.LotID(chi.URLParam(r, "id")),
	}

	q := r.URL.Query()
	if s := q.Get("from"); s != "" {
		d, err := flock.ParseDay(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
			return
		}
		req.From = &d
	}
	if s := q.Get("to"); s != "" {
		d, err := flock.ParseDay(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
			return
		}
		req.To = &d
	}
	if s := q.Get("week"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid week index", err)
			return
		}
		req.WeekIndex = &n
	}

	report, err := h.Engine.GenerateReport(r.Context(), req)
	if err != nil {
		switch {
		case flock.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Lot not found or not a parent lot", err)
		case accounting.IsClientError(err):
			writeError(w, http.StatusBadRequest, "Invalid report request", err)
		default:
			h.serverError(w, "Failed to generate report", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, toReportDTO(report))
}

// ListSnapshots returns the stored scheduler snapshots for a parent
// lot, most recent first.
// GET /api/lots/{id}/accounting/snapshots?limit=N
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	if h.Snapshots == nil {
		writeError(w, http.StatusNotFound, "Snapshots are not enabled on this backend", nil)
		return
	}

	lotID := flock.LotID(chi.URLParam(r, "id"))
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	snaps, err := h.Snapshots.ListReportSnapshots(r.Context(), lotID, limit)
	if err != nil {
		h.serverError(w, "Failed to list snapshots", err)
		return
	}

	dtos := make([]SnapshotDTO, 0, len(snaps))
	for _, s := range snaps {
		dtos = append(dtos, SnapshotDTO{
			ID:          s.ID,
			ParentLotID: s.ParentLotID,
			TakenAt:     s.TakenAt,
			ReportJSON:  s.ReportJSON,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshots": dtos})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) serverError(w http.ResponseWriter, message string, err error) {
	h.Log.Error(message, zap.Error(err))
	writeError(w, http.StatusInternalServerError, message, err)
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a decimal number: %q", s)
	}
	return d, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
