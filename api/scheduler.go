/*
scheduler.go - Cron-driven report snapshot scheduler

PURPOSE:
  Periodically regenerates the weekly accounting report for every
  parent lot and stores the result as a JSON snapshot, so week-close
  numbers are preserved even when operational data is corrected later.

DESIGN:
  - robfig/cron drives the schedule (default: Mondays at 06:00)
  - Each run walks the parent lot directory and generates one report
    per family; families are independent, failures are logged and
    skipped, the run continues
  - Snapshots are append-only rows; readers page through them with
    GET /api/lots/{id}/accounting/snapshots

USAGE:
  sched := NewSnapshotScheduler(backend, snapshots, log)
  if err := sched.Start("0 6 * * 1"); err != nil { ... }
  defer sched.Stop()

SEE ALSO:
  - handlers.go: ListSnapshots endpoint
  - store/sqlite: report_snapshots table
*/
package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/avigest/flock-engine/accounting"
	"github.com/avigest/flock-engine/store/sqlite"
)

// SnapshotScheduler regenerates and stores reports on a cron schedule.
type SnapshotScheduler struct {
	Backend   Backend
	Snapshots SnapshotStore
	Engine    *accounting.Engine
	Log       *zap.Logger

	// Timeout bounds one full run across all families.
	Timeout time.Duration

	cron *cron.Cron
}

// NewSnapshotScheduler creates a scheduler over the given backend.
func NewSnapshotScheduler(backend Backend, snapshots SnapshotStore, log *zap.Logger) *SnapshotScheduler {
	return &SnapshotScheduler{
		Backend:   backend,
		Snapshots: snapshots,
		Engine:    accounting.NewEngine(backend),
		Log:       log,
		Timeout:   10 * time.Minute,
	}
}

// Start registers the cron entry and begins scheduling. The spec uses
// standard five-field cron syntax.
func (s *SnapshotScheduler) Start(spec string) error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	s.Log.Info("snapshot scheduler started", zap.String("schedule", spec))
	return nil
}

// Stop halts scheduling and waits for a running job to finish.
func (s *SnapshotScheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.Log.Info("snapshot scheduler stopped")
}

func (s *SnapshotScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()

	if err := s.RunNow(ctx); err != nil {
		s.Log.Error("snapshot run failed", zap.Error(err))
	}
}

// RunNow takes one snapshot of every parent lot's report. Exported so
// operators can trigger a run outside the schedule.
func (s *SnapshotScheduler) RunNow(ctx context.Context) error {
	parents, err := s.Backend.ParentLots(ctx)
	if err != nil {
		return err
	}

	takenAt := time.Now().UTC().Format(time.RFC3339)
	saved := 0
	for _, parent := range parents {
		report, err := s.Engine.GenerateReport(ctx, accounting.ReportRequest{ParentLotID: parent.ID})
		if err != nil {
			s.Log.Warn("snapshot skipped",
				zap.String("lot_id", string(parent.ID)),
				zap.Error(err))
			continue
		}

		payload, err := json.Marshal(toReportDTO(report))
		if err != nil {
			s.Log.Warn("snapshot marshal failed",
				zap.String("lot_id", string(parent.ID)),
				zap.Error(err))
			continue
		}

		snap := sqlite.ReportSnapshot{
			ParentLotID: string(parent.ID),
			TakenAt:     takenAt,
			ReportJSON:  string(payload),
		}
		if err := s.Snapshots.SaveReportSnapshot(ctx, snap); err != nil {
			s.Log.Warn("snapshot save failed",
				zap.String("lot_id", string(parent.ID)),
				zap.Error(err))
			continue
		}
		saved++
	}

	s.Log.Info("snapshot run complete",
		zap.Int("families", len(parents)),
		zap.Int("saved", saved))
	return nil
}
