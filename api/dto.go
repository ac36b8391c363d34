/*
dto.go - Request/response data structures for the HTTP API

PURPOSE:
  JSON shapes exchanged with clients, kept separate from domain types
  so the wire format can evolve independently.

CONVENTIONS:
  - Dates are "YYYY-MM-DD" strings (day granularity, like the engine)
  - Quantities are decimal strings ("12.5"), never floats, so feed-bag
    fractions survive the round trip exactly
  - Nullable report fields (onset/rearing sections, first tracked date)
    are pointers and omitted when absent

SEE ALSO:
  - handlers.go: Serialization call sites
  - accounting/types.go: The domain-side report shapes
*/
package api

import (
	"github.com/avigest/flock-engine/accounting"
	"github.com/avigest/flock-engine/flock"
)

// =============================================================================
// ERROR RESPONSE
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// LOT DTOS
// =============================================================================

type LotDTO struct {
	ID             string  `json:"id"`
	ParentID       *string `json:"parent_id,omitempty"`
	Name           string  `json:"name"`
	FarmID         string  `json:"farm_id"`
	FarmName       string  `json:"farm_name"`
	Nucleus        string  `json:"nucleus"`
	ArrivalDate    string  `json:"arrival_date"`
	InitialFemales int64   `json:"initial_females"`
	InitialMales   int64   `json:"initial_males"`
}

func toLotDTO(lot flock.Lot) LotDTO {
	dto := LotDTO{
		ID:             string(lot.ID),
		Name:           lot.Name,
		FarmID:         string(lot.FarmID),
		FarmName:       lot.FarmName,
		Nucleus:        lot.Nucleus,
		ArrivalDate:    lot.ArrivalDate.String(),
		InitialFemales: lot.InitialFemales,
		InitialMales:   lot.InitialMales,
	}
	if lot.ParentID != nil {
		id := string(*lot.ParentID)
		dto.ParentID = &id
	}
	return dto
}

type CreateLotRequest struct {
	ID             string  `json:"id"`
	ParentID       *string `json:"parent_id,omitempty"`
	Name           string  `json:"name"`
	FarmID         string  `json:"farm_id"`
	FarmName       string  `json:"farm_name"`
	Nucleus        string  `json:"nucleus"`
	ArrivalDate    string  `json:"arrival_date"`
	InitialFemales int64   `json:"initial_females"`
	InitialMales   int64   `json:"initial_males"`
}

// =============================================================================
// CAPTURE DTOS
// =============================================================================

type DailyRecordRequest struct {
	Stream     string `json:"stream"` // "early_life" or "production"
	Date       string `json:"date"`
	MortalityF int64  `json:"mortality_f"`
	MortalityM int64  `json:"mortality_m"`
	SelectionF int64  `json:"selection_f"`
	SelectionM int64  `json:"selection_m"`
	FeedKgF    string `json:"feed_kg_f"`
	FeedKgM    string `json:"feed_kg_m"`
}

type BirdMovementRequest struct {
	Date    string `json:"date"`
	Type    string `json:"type"`   // "sale" or "transfer"
	Status  string `json:"status"` // defaults to "completed"
	Females int64  `json:"females"`
	Males   int64  `json:"males"`
}

type FeedMovementRequest struct {
	Date     string `json:"date"`
	Kind     string `json:"kind"` // "entry", "transfer_in", "transfer_out", "exit"
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"` // "kg" or "bags"
}

// =============================================================================
// REPORT DTOS
// =============================================================================

type FlowsDTO struct {
	EntriesF string `json:"entries_f"`
	EntriesM string `json:"entries_m"`

	MortalityF string `json:"mortality_f"`
	MortalityM string `json:"mortality_m"`

	SelectionF string `json:"selection_f"`
	SelectionM string `json:"selection_m"`

	SalesF string `json:"sales_f"`
	SalesM string `json:"sales_m"`

	TransfersF string `json:"transfers_f"`
	TransfersM string `json:"transfers_m"`

	FeedKgF string `json:"feed_kg_f"`
	FeedKgM string `json:"feed_kg_m"`

	BagsEntry       string `json:"bags_entry"`
	BagsTransferOut string `json:"bags_transfer_out"`
	BagsWithdraw    string `json:"bags_withdraw"`
}

type SectionDTO struct {
	Kind string `json:"kind"`
	Days int    `json:"days"`

	BagsOpening      string `json:"bags_opening"`
	BagsEntry        string `json:"bags_entry"`
	BagsTransferOut  string `json:"bags_transfer_out"`
	BagsWithdraw     string `json:"bags_withdraw"`
	FeedBagsConsumed string `json:"feed_bags_consumed"`
	BagsClosing      string `json:"bags_closing"`
}

type WeekDTO struct {
	Index int    `json:"index"`
	Start string `json:"start"`
	End   string `json:"end"`

	OpeningFemales string `json:"opening_females"`
	OpeningMales   string `json:"opening_males"`
	OpeningBags    string `json:"opening_bags"`

	Flows FlowsDTO `json:"flows"`

	ClosingFemales string `json:"closing_females"`
	ClosingMales   string `json:"closing_males"`
	ClosingBags    string `json:"closing_bags"`

	Onset   *SectionDTO `json:"onset,omitempty"`
	Rearing *SectionDTO `json:"rearing,omitempty"`

	DaysWithData int `json:"days_with_data"`
}

type ReportDTO struct {
	ParentLotID   string `json:"parent_lot_id"`
	ParentLotName string `json:"parent_lot_name"`
	FarmID        string `json:"farm_id"`
	FarmName      string `json:"farm_name"`
	Nucleus       string `json:"nucleus"`

	FirstArrivalDate string  `json:"first_arrival_date"`
	FirstTrackedDate *string `json:"first_tracked_date,omitempty"`

	MissingInitialBaseline bool `json:"missing_initial_baseline"`

	CurrentWeekIndex int    `json:"current_week_index"`
	CurrentWeekStart string `json:"current_week_start"`
	CurrentWeekEnd   string `json:"current_week_end"`

	Weeks []WeekDTO `json:"weeks"`
}

func qty(q flock.Quantity) string { return q.Value.String() }

func toFlowsDTO(f accounting.DayFlows) FlowsDTO {
	return FlowsDTO{
		EntriesF:        qty(f.EntriesF),
		EntriesM:        qty(f.EntriesM),
		MortalityF:      qty(f.MortalityF),
		MortalityM:      qty(f.MortalityM),
		SelectionF:      qty(f.SelectionF),
		SelectionM:      qty(f.SelectionM),
		SalesF:          qty(f.SalesF),
		SalesM:          qty(f.SalesM),
		TransfersF:      qty(f.TransfersF),
		TransfersM:      qty(f.TransfersM),
		FeedKgF:         qty(f.FeedKgF),
		FeedKgM:         qty(f.FeedKgM),
		BagsEntry:       qty(f.BagsEntry),
		BagsTransferOut: qty(f.BagsTransferOut),
		BagsWithdraw:    qty(f.BagsWithdraw),
	}
}

func toSectionDTO(s *accounting.WeekSection) *SectionDTO {
	if s == nil {
		return nil
	}
	return &SectionDTO{
		Kind:             string(s.Kind),
		Days:             s.Days,
		BagsOpening:      qty(s.BagsOpening),
		BagsEntry:        qty(s.BagsEntry),
		BagsTransferOut:  qty(s.BagsTransferOut),
		BagsWithdraw:     qty(s.BagsWithdraw),
		FeedBagsConsumed: qty(s.FeedBagsConsumed),
		BagsClosing:      qty(s.BagsClosing),
	}
}

func toWeekDTO(w accounting.WeeklyReport) WeekDTO {
	return WeekDTO{
		Index:          w.Week.Index,
		Start:          w.Week.Start.String(),
		End:            w.Week.End.String(),
		OpeningFemales: qty(w.OpeningFemales),
		OpeningMales:   qty(w.OpeningMales),
		OpeningBags:    qty(w.OpeningBags),
		Flows:          toFlowsDTO(w.Flows),
		ClosingFemales: qty(w.ClosingFemales),
		ClosingMales:   qty(w.ClosingMales),
		ClosingBags:    qty(w.ClosingBags),
		Onset:          toSectionDTO(w.Onset),
		Rearing:        toSectionDTO(w.Rearing),
		DaysWithData:   w.DaysWithData,
	}
}

func toReportDTO(r *accounting.FullReport) ReportDTO {
	dto := ReportDTO{
		ParentLotID:            string(r.ParentLotID),
		ParentLotName:          r.ParentLotName,
		FarmID:                 string(r.FarmID),
		FarmName:               r.FarmName,
		Nucleus:                r.Nucleus,
		FirstArrivalDate:       r.FirstArrivalDate.String(),
		MissingInitialBaseline: r.MissingInitialBaseline,
		CurrentWeekIndex:       r.CurrentWeekIndex,
		CurrentWeekStart:       r.CurrentWeekStart.String(),
		CurrentWeekEnd:         r.CurrentWeekEnd.String(),
		Weeks:                  make([]WeekDTO, 0, len(r.Weeks)),
	}
	if r.FirstTrackedDate != nil {
		s := r.FirstTrackedDate.String()
		dto.FirstTrackedDate = &s
	}
	for _, w := range r.Weeks {
		dto.Weeks = append(dto.Weeks, toWeekDTO(w))
	}
	return dto
}

// =============================================================================
// SNAPSHOT DTO
// =============================================================================

type SnapshotDTO struct {
	ID          int64  `json:"id"`
	ParentLotID string `json:"parent_lot_id"`
	TakenAt     string `json:"taken_at"`
	ReportJSON  string `json:"report_json"`
}
