// Package impact computes the blast radius of a truck failure: how many
// deliveries run late, how many customers are hit and what the SLA penalties
// cost. It is strictly read-only and independent of whether rerouting has run.
package impact

import (
	"context"
	"fmt"

	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/core/domain/services/queryengine"
	"lattice/internal/pkg/errs"
)

// assumedDelayHours is the fixed average rerouting delay applied per affected
// package. It is a deliberate simplification, not derived from the actual
// reroute distance.
const assumedDelayHours = 3.0

// BlastRadius is the financial and customer impact of one truck failure.
type BlastRadius struct {
	AffectedDeliveries  int
	AffectedCustomers   int
	EstimatedDelayHours float64
	PenaltyPerPackage   float64
	TotalPenalty        float64
	Summary             string
}

// Analyzer computes blast radii over the impact traversal.
type Analyzer struct {
	queries           *queryengine.Engine
	slaPenaltyPerHour float64
}

// NewAnalyzer creates a blast-radius analyzer. slaPenaltyPerHour is the
// configured cost per hour of delay per package and must be positive.
func NewAnalyzer(queries *queryengine.Engine, slaPenaltyPerHour float64) (*Analyzer, error) {
	if queries == nil {
		return nil, errs.NewValueIsRequiredError("queries")
	}
	if slaPenaltyPerHour <= 0 {
		return nil, errs.NewValueIsRequiredError("slaPenaltyPerHour")
	}

	return &Analyzer{
		queries:           queries,
		slaPenaltyPerHour: slaPenaltyPerHour,
	}, nil
}

// CalculateBlastRadius reports the impact of a truck's failure. It only
// fails when the underlying store read fails; a truck carrying nothing
// yields a zero-cost result.
func (a *Analyzer) CalculateBlastRadius(ctx context.Context, truckID kernel.ID) (BlastRadius, error) {
	report, err := a.queries.ImpactAnalysis(ctx, truckID)
	if err != nil {
		return BlastRadius{}, err
	}

	penaltyPerPackage := assumedDelayHours * a.slaPenaltyPerHour
	totalPenalty := float64(report.PackageCount()) * penaltyPerPackage

	return BlastRadius{
		AffectedDeliveries:  report.PackageCount(),
		AffectedCustomers:   report.CustomerCount(),
		EstimatedDelayHours: assumedDelayHours,
		PenaltyPerPackage:   penaltyPerPackage,
		TotalPenalty:        totalPenalty,
		Summary: fmt.Sprintf(
			"This truck failure will cause %d late deliveries affecting %d customers and cost $%.2f in SLA penalties.",
			report.PackageCount(), report.CustomerCount(), totalPenalty),
	}, nil
}
