package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"lattice/internal/core/domain/services/chaos"
)

// ChaosInjectionJob periodically rolls the chaos dice against the network.
// Each tick calls InjectRandomChaos with the configured probability; most
// ticks inject nothing.
type ChaosInjectionJob struct {
	engine      *chaos.Engine
	probability float64
	cron        *cron.Cron
	logger      *slog.Logger
}

// NewChaosInjectionJob creates a chaos job ticking every intervalSeconds.
func NewChaosInjectionJob(
	engine *chaos.Engine,
	intervalSeconds int,
	probability float64,
	logger *slog.Logger,
) (*ChaosInjectionJob, error) {
	if intervalSeconds <= 0 {
		return nil, fmt.Errorf("chaos interval must be positive, got %d", intervalSeconds)
	}

	job := &ChaosInjectionJob{
		engine:      engine,
		probability: probability,
		cron:        cron.New(cron.WithSeconds()),
		logger:      logger.With("component", "chaos_injection_job"),
	}

	_, err := job.cron.AddFunc(fmt.Sprintf("@every %ds", intervalSeconds), job.tick)
	if err != nil {
		return nil, err
	}
	return job, nil
}

// Start begins the injection schedule.
func (j *ChaosInjectionJob) Start() {
	j.cron.Start()
	j.logger.Info("chaos injection job started")
}

// Stop cancels the schedule. The cancellation takes effect before the next
// tick fires.
func (j *ChaosInjectionJob) Stop() {
	j.cron.Stop()
	j.logger.Info("chaos injection job stopped")
}

func (j *ChaosInjectionJob) tick() {
	ctx := context.Background()

	event, err := j.engine.InjectRandomChaos(ctx, j.probability)
	if err != nil {
		// A fleet with no active trucks left is an expected state late in a
		// simulation, not a system failure.
		if errors.Is(err, chaos.ErrNoActiveTrucks) {
			j.logger.Info("no active trucks left to disrupt")
			return
		}
		j.logger.ErrorContext(ctx, "chaos injection failed", "error", err)
		return
	}

	if event != nil {
		j.logger.Info("disruption injected",
			"type", string(event.Type()),
			"entity_id", event.EntityID().String(),
			"severity", string(event.Severity()),
			"description", event.Description(),
		)
	}
}
