package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"lattice/internal/core/domain/model/truck"
	"lattice/internal/core/domain/services/reroute"
	"lattice/internal/core/ports"
)

// RecoveryJob scans the fleet for failed trucks still carrying packages and
// runs the rerouting pipeline for each. Trucks whose cargo could not be fully
// rerouted are picked up again on the next scan.
type RecoveryJob struct {
	store    ports.Store
	pipeline *reroute.Pipeline
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewRecoveryJob creates a recovery job scanning every second.
func NewRecoveryJob(store ports.Store, pipeline *reroute.Pipeline, logger *slog.Logger) (*RecoveryJob, error) {
	job := &RecoveryJob{
		store:    store,
		pipeline: pipeline,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "recovery_job"),
	}

	_, err := job.cron.AddFunc("* * * * * *", job.tick)
	if err != nil {
		return nil, err
	}
	return job, nil
}

// Start begins the recovery scans.
func (j *RecoveryJob) Start() {
	j.cron.Start()
	j.logger.Info("recovery job started")
}

// Stop cancels the scans.
func (j *RecoveryJob) Stop() {
	j.cron.Stop()
	j.logger.Info("recovery job stopped")
}

func (j *RecoveryJob) tick() {
	ctx := context.Background()

	failed, err := j.store.ListTrucks(ctx, ports.TruckFilter{Status: truck.StatusFailed})
	if err != nil {
		j.logger.ErrorContext(ctx, "failed truck scan failed", "error", err)
		return
	}

	for _, t := range failed {
		carried, err := j.store.TruckPackages(ctx, t.ID())
		if err != nil {
			j.logger.ErrorContext(ctx, "cargo lookup failed", "truck_id", t.ID().String(), "error", err)
			continue
		}
		if len(carried) == 0 {
			continue
		}

		result := j.pipeline.HandleTruckFailure(ctx, t.ID())
		if result.Status == reroute.StatusError {
			j.logger.ErrorContext(ctx, "recovery run failed",
				"truck_id", t.ID().String(), "message", result.Message)
			continue
		}

		j.logger.Info("recovery run completed",
			"truck_id", t.ID().String(),
			"packages_affected", len(result.AffectedPackages),
			"packages_rerouted", len(result.Plan),
		)
	}
}
