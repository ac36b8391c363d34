/*
Package sqlite provides the SQLite-backed implementation of the flock
source interfaces.

PURPOSE:
  Persists lots, both daily tracking streams, the bird movement ledger,
  and the farm feed inventory ledger, and serves them back through the
  read-only interfaces the accounting engine fetches through. The same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  lots:             One row per lot; parent_id NULL marks a parent lot
  daily_records:    Both capture streams, discriminated by stream
  bird_movements:   Sales/transfers with status; engine reads completed
  feed_movements:   Farm-scoped bag ledger, filtered to feed items
  report_snapshots: Scheduler-generated weekly report JSON

DATA REPRESENTATION:
  Dates are stored as 2006-01-02 TEXT. Decimal quantities (feed kg, bag
  counts) are stored as TEXT and parsed with shopspring/decimal, so no
  precision is lost round-tripping through the database.

WAL MODE:
  The database is opened with WAL so readers don't block during
  capture-heavy periods.

USAGE:
  store, err := sqlite.New("./data/flock.db")
  if err != nil { ... }
  defer store.Close()
  engine := accounting.NewEngine(store)
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/avigest/flock-engine/flock"
)

// Store implements flock.Sources on SQLite.
type Store struct {
	db *sqlx.DB
}

var _ flock.Sources = (*Store)(nil)

// New opens (or creates) the database at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS lots (
		id TEXT PRIMARY KEY,
		parent_id TEXT REFERENCES lots(id),
		name TEXT NOT NULL,
		farm_id TEXT NOT NULL,
		farm_name TEXT NOT NULL DEFAULT '',
		nucleus TEXT NOT NULL DEFAULT '',
		arrival_date TEXT NOT NULL,
		initial_females INTEGER NOT NULL DEFAULT 0,
		initial_males INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_lots_parent ON lots(parent_id);
	CREATE INDEX IF NOT EXISTS idx_lots_farm ON lots(farm_id);

	-- Both daily tracking streams; a lot-day appears at most once per
	-- stream (duplicate capture is rejected at write time).
	CREATE TABLE IF NOT EXISTS daily_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lot_id TEXT NOT NULL REFERENCES lots(id),
		stream TEXT NOT NULL CHECK (stream IN ('early_life', 'production')),
		date TEXT NOT NULL,
		mortality_f INTEGER NOT NULL DEFAULT 0,
		mortality_m INTEGER NOT NULL DEFAULT 0,
		selection_f INTEGER NOT NULL DEFAULT 0,
		selection_m INTEGER NOT NULL DEFAULT 0,
		feed_kg_f TEXT NOT NULL DEFAULT '0',
		feed_kg_m TEXT NOT NULL DEFAULT '0',
		eggs_total INTEGER NOT NULL DEFAULT 0,
		eggs_hatchable INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		UNIQUE (lot_id, stream, date)
	);

	-- Hot path: per-lot range scans for the fetch phase
	CREATE INDEX IF NOT EXISTS idx_daily_records_lot_date
		ON daily_records(lot_id, stream, date);

	CREATE TABLE IF NOT EXISTS bird_movements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lot_id TEXT NOT NULL REFERENCES lots(id),
		date TEXT NOT NULL,
		movement_type TEXT NOT NULL CHECK (movement_type IN ('sale', 'transfer')),
		status TEXT NOT NULL DEFAULT 'completed'
			CHECK (status IN ('pending', 'completed', 'canceled')),
		females INTEGER NOT NULL DEFAULT 0,
		males INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_bird_movements_lot_date
		ON bird_movements(lot_id, date) WHERE status = 'completed';

	-- Farm-scoped inventory ledger for feed-type catalog items.
	CREATE TABLE IF NOT EXISTS feed_movements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		farm_id TEXT NOT NULL,
		date TEXT NOT NULL,
		kind TEXT NOT NULL
			CHECK (kind IN ('entry', 'transfer_in', 'transfer_out', 'exit')),
		quantity TEXT NOT NULL,
		unit TEXT NOT NULL CHECK (unit IN ('kg', 'bags')),
		item_type TEXT NOT NULL DEFAULT 'feed',
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_feed_movements_farm_date
		ON feed_movements(farm_id, date);

	CREATE TABLE IF NOT EXISTS report_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		parent_lot_id TEXT NOT NULL REFERENCES lots(id),
		taken_at TEXT NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_report_snapshots_lot
		ON report_snapshots(parent_lot_id, taken_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ROW TYPES
// =============================================================================

type lotRow struct {
	ID             string         `db:"id"`
	ParentID       sql.NullString `db:"parent_id"`
	Name           string         `db:"name"`
	FarmID         string         `db:"farm_id"`
	FarmName       string         `db:"farm_name"`
	Nucleus        string         `db:"nucleus"`
	ArrivalDate    string         `db:"arrival_date"`
	InitialFemales int64          `db:"initial_females"`
	InitialMales   int64          `db:"initial_males"`
	CreatedAt      string         `db:"created_at"`
}

func (r lotRow) toLot() (flock.Lot, error) {
	arrival, err := flock.ParseDay(r.ArrivalDate)
	if err != nil {
		return flock.Lot{}, fmt.Errorf("lot %s: bad arrival_date %q: %w", r.ID, r.ArrivalDate, err)
	}
	lot := flock.Lot{
		ID:             flock.LotID(r.ID),
		Name:           r.Name,
		FarmID:         flock.FarmID(r.FarmID),
		FarmName:       r.FarmName,
		Nucleus:        r.Nucleus,
		ArrivalDate:    arrival,
		InitialFemales: r.InitialFemales,
		InitialMales:   r.InitialMales,
	}
	if r.ParentID.Valid {
		parent := flock.LotID(r.ParentID.String)
		lot.ParentID = &parent
	}
	return lot, nil
}

type dailyRecordRow struct {
	LotID      string `db:"lot_id"`
	Date       string `db:"date"`
	MortalityF int64  `db:"mortality_f"`
	MortalityM int64  `db:"mortality_m"`
	SelectionF int64  `db:"selection_f"`
	SelectionM int64  `db:"selection_m"`
	FeedKgF    string `db:"feed_kg_f"`
	FeedKgM    string `db:"feed_kg_m"`
}

func (r dailyRecordRow) toRecord() (flock.DailyRecord, error) {
	date, err := flock.ParseDay(r.Date)
	if err != nil {
		return flock.DailyRecord{}, err
	}
	feedF, err := decimal.NewFromString(r.FeedKgF)
	if err != nil {
		return flock.DailyRecord{}, fmt.Errorf("lot %s %s: bad feed_kg_f %q: %w", r.LotID, r.Date, r.FeedKgF, err)
	}
	feedM, err := decimal.NewFromString(r.FeedKgM)
	if err != nil {
		return flock.DailyRecord{}, fmt.Errorf("lot %s %s: bad feed_kg_m %q: %w", r.LotID, r.Date, r.FeedKgM, err)
	}
	return flock.DailyRecord{
		LotID:      flock.LotID(r.LotID),
		Date:       date,
		MortalityF: r.MortalityF,
		MortalityM: r.MortalityM,
		SelectionF: r.SelectionF,
		SelectionM: r.SelectionM,
		FeedKgF:    feedF,
		FeedKgM:    feedM,
	}, nil
}

type birdMovementRow struct {
	LotID        string `db:"lot_id"`
	Date         string `db:"date"`
	MovementType string `db:"movement_type"`
	Females      int64  `db:"females"`
	Males        int64  `db:"males"`
}

type feedMovementRow struct {
	FarmID   string `db:"farm_id"`
	Date     string `db:"date"`
	Kind     string `db:"kind"`
	Quantity string `db:"quantity"`
	Unit     string `db:"unit"`
}

// =============================================================================
// SOURCE INTERFACES (reads)
// =============================================================================

func (s *Store) Family(ctx context.Context, parentID flock.LotID) (flock.LotFamily, error) {
	var row lotRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM lots WHERE id = ?`, string(parentID))
	if errors.Is(err, sql.ErrNoRows) {
		return flock.LotFamily{}, flock.ErrLotNotFound
	}
	if err != nil {
		return flock.LotFamily{}, err
	}

	parent, err := row.toLot()
	if err != nil {
		return flock.LotFamily{}, err
	}
	if parent.ParentID != nil {
		return flock.LotFamily{}, &flock.NotParentError{LotID: parent.ID, ParentID: *parent.ParentID}
	}

	var childRows []lotRow
	err = s.db.SelectContext(ctx, &childRows,
		`SELECT * FROM lots WHERE parent_id = ? ORDER BY id`, string(parentID))
	if err != nil {
		return flock.LotFamily{}, err
	}

	family := flock.LotFamily{Parent: parent}
	for _, cr := range childRows {
		child, err := cr.toLot()
		if err != nil {
			return flock.LotFamily{}, err
		}
		family.Children = append(family.Children, child)
	}
	return family, nil
}

func (s *Store) EarlyLifeRecords(ctx context.Context, lotID flock.LotID, window flock.DateRange) ([]flock.DailyRecord, error) {
	return s.dailyRecords(ctx, lotID, flock.StreamEarlyLife, window)
}

func (s *Store) ProductionRecords(ctx context.Context, lotID flock.LotID, window flock.DateRange) ([]flock.DailyRecord, error) {
	return s.dailyRecords(ctx, lotID, flock.StreamProduction, window)
}

func (s *Store) dailyRecords(ctx context.Context, lotID flock.LotID, stream flock.RecordStream, window flock.DateRange) ([]flock.DailyRecord, error) {
	var rows []dailyRecordRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT lot_id, date, mortality_f, mortality_m, selection_f, selection_m, feed_kg_f, feed_kg_m
		FROM daily_records
		WHERE lot_id = ? AND stream = ? AND date BETWEEN ? AND ?
		ORDER BY date`,
		string(lotID), string(stream), window.From.String(), window.To.String())
	if err != nil {
		return nil, err
	}

	records := make([]flock.DailyRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Store) CompletedMovements(ctx context.Context, lotID flock.LotID, window flock.DateRange) ([]flock.BirdMovement, error) {
	var rows []birdMovementRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT lot_id, date, movement_type, females, males
		FROM bird_movements
		WHERE lot_id = ? AND status = 'completed' AND date BETWEEN ? AND ?
		ORDER BY date`,
		string(lotID), window.From.String(), window.To.String())
	if err != nil {
		return nil, err
	}

	movements := make([]flock.BirdMovement, 0, len(rows))
	for _, r := range rows {
		date, err := flock.ParseDay(r.Date)
		if err != nil {
			return nil, err
		}
		movements = append(movements, flock.BirdMovement{
			LotID:   flock.LotID(r.LotID),
			Date:    date,
			Type:    flock.MovementType(r.MovementType),
			Females: r.Females,
			Males:   r.Males,
		})
	}
	return movements, nil
}

func (s *Store) FeedMovements(ctx context.Context, farmID flock.FarmID, window flock.DateRange) ([]flock.FeedMovement, error) {
	var rows []feedMovementRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT farm_id, date, kind, quantity, unit
		FROM feed_movements
		WHERE farm_id = ? AND item_type = 'feed' AND date BETWEEN ? AND ?
		ORDER BY date`,
		string(farmID), window.From.String(), window.To.String())
	if err != nil {
		return nil, err
	}

	movements := make([]flock.FeedMovement, 0, len(rows))
	for _, r := range rows {
		date, err := flock.ParseDay(r.Date)
		if err != nil {
			return nil, err
		}
		qty, err := decimal.NewFromString(r.Quantity)
		if err != nil {
			return nil, fmt.Errorf("feed movement %s/%s: bad quantity %q: %w", r.FarmID, r.Date, r.Quantity, err)
		}
		movements = append(movements, flock.FeedMovement{
			FarmID:   flock.FarmID(r.FarmID),
			Date:     date,
			Kind:     flock.FeedMovementKind(r.Kind),
			Quantity: qty,
			Unit:     flock.FeedUnit(r.Unit),
		})
	}
	return movements, nil
}

// =============================================================================
// LOT DIRECTORY (api reads)
// =============================================================================

func (s *Store) ParentLots(ctx context.Context) ([]flock.Lot, error) {
	var rows []lotRow
	err := s.db.SelectContext(ctx, &rows, `SELECT * FROM lots WHERE parent_id IS NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}

	lots := make([]flock.Lot, 0, len(rows))
	for _, r := range rows {
		lot, err := r.toLot()
		if err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}
	return lots, nil
}

func (s *Store) Lot(ctx context.Context, id flock.LotID) (*flock.Lot, error) {
	var row lotRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM lots WHERE id = ?`, string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, flock.ErrLotNotFound
	}
	if err != nil {
		return nil, err
	}
	lot, err := row.toLot()
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

// =============================================================================
// WRITES (capture surfaces + scheduler snapshots)
// =============================================================================

// CreateLot records a placement. The two-level hierarchy is enforced
// here: a child's parent must exist and must itself be a parent lot.
func (s *Store) CreateLot(ctx context.Context, lot flock.Lot) error {
	var parentID any
	if lot.ParentID != nil {
		parent, err := s.Lot(ctx, *lot.ParentID)
		if err != nil {
			return fmt.Errorf("parent %s: %w", *lot.ParentID, err)
		}
		if parent.ParentID != nil {
			return &flock.NotParentError{LotID: parent.ID, ParentID: *parent.ParentID}
		}
		parentID = string(*lot.ParentID)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lots (id, parent_id, name, farm_id, farm_name, nucleus, arrival_date, initial_females, initial_males)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(lot.ID), parentID, lot.Name, string(lot.FarmID), lot.FarmName, lot.Nucleus,
		lot.ArrivalDate.String(), lot.InitialFemales, lot.InitialMales)
	return err
}

// AddDailyRecord captures one lot-day into the given stream.
func (s *Store) AddDailyRecord(ctx context.Context, stream flock.RecordStream, rec flock.DailyRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_records (lot_id, stream, date, mortality_f, mortality_m, selection_f, selection_m, feed_kg_f, feed_kg_m)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(rec.LotID), string(stream), rec.Date.String(),
		rec.MortalityF, rec.MortalityM, rec.SelectionF, rec.SelectionM,
		rec.FeedKgF.String(), rec.FeedKgM.String())
	return err
}

// AddBirdMovement records a sale or transfer with the given status.
func (s *Store) AddBirdMovement(ctx context.Context, mv flock.BirdMovement, status flock.MovementStatus) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bird_movements (lot_id, date, movement_type, status, females, males)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(mv.LotID), mv.Date.String(), string(mv.Type), string(status), mv.Females, mv.Males)
	return err
}

// AddFeedMovement records one farm feed-bag movement.
func (s *Store) AddFeedMovement(ctx context.Context, mv flock.FeedMovement) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feed_movements (farm_id, date, kind, quantity, unit)
		VALUES (?, ?, ?, ?, ?)`,
		string(mv.FarmID), mv.Date.String(), string(mv.Kind), mv.Quantity.String(), string(mv.Unit))
	return err
}

// ReportSnapshot is one scheduler-generated report, stored as JSON.
type ReportSnapshot struct {
	ID          int64  `db:"id"`
	ParentLotID string `db:"parent_lot_id"`
	TakenAt     string `db:"taken_at"`
	ReportJSON  string `db:"report_json"`
}

func (s *Store) SaveReportSnapshot(ctx context.Context, snap ReportSnapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO report_snapshots (parent_lot_id, taken_at, report_json)
		VALUES (?, ?, ?)`,
		snap.ParentLotID, snap.TakenAt, snap.ReportJSON)
	return err
}

func (s *Store) ListReportSnapshots(ctx context.Context, parentLotID flock.LotID, limit int) ([]ReportSnapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	var snaps []ReportSnapshot
	err := s.db.SelectContext(ctx, &snaps, `
		SELECT id, parent_lot_id, taken_at, report_json
		FROM report_snapshots
		WHERE parent_lot_id = ?
		ORDER BY taken_at DESC, id DESC
		LIMIT ?`,
		string(parentLotID), limit)
	return snaps, err
}

// Reset clears every table (demo scenario reloads only).
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"report_snapshots", "feed_movements", "bird_movements", "daily_records", "lots"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
