// Package queryengine implements the read-side searches over the entity
// graph: the constrained nearest-truck query used to pick reroute candidates,
// and the two-hop impact traversal shared by the recovery pipeline and the
// blast-radius analyzer.
package queryengine

import (
	"context"
	"sort"

	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/core/domain/model/truck"
	"lattice/internal/core/ports"
	"lattice/internal/pkg/errs"
)

// TruckDistance pairs a candidate truck with its distance from the query
// origin. Distance is in raw degrees, not kilometers; callers converting to
// kilometers multiply by the fixed degree-to-km constant.
type TruckDistance struct {
	Truck    *truck.Truck
	Distance float64
}

// ImpactReport is the result of the two-hop CARRYING -> DESTINED_FOR
// traversal for a single truck. Customer ids are distinct; packages without an
// assigned destination contribute to the package side only.
type ImpactReport struct {
	TruckID             kernel.ID
	AffectedPackageIDs  []kernel.ID
	AffectedCustomerIDs []kernel.ID
	TotalWeight         float64
}

// PackageCount returns the number of affected packages.
func (r ImpactReport) PackageCount() int {
	return len(r.AffectedPackageIDs)
}

// CustomerCount returns the number of distinct affected customers.
func (r ImpactReport) CustomerCount() int {
	return len(r.AffectedCustomerIDs)
}

// Engine answers graph queries over a Store.
type Engine struct {
	store ports.Store
}

// NewEngine creates a query engine over the given store.
func NewEngine(store ports.Store) (*Engine, error) {
	if store == nil {
		return nil, errs.NewValueIsRequiredError("store")
	}

	return &Engine{store: store}, nil
}

// FindNearestAvailableTrucks returns up to limit active trucks whose available
// capacity is at least minCapacity, optionally restricted to trucks heading in
// the given direction (empty string disables the filter).
//
// Distance is planar Euclidean over raw lat/lon degrees, an approximation
// acceptable only at regional scales. Results are ordered by ascending
// distance, ties broken by truck id so repeated queries are reproducible.
// When nothing matches, the result is an empty slice, not an error.
func (e *Engine) FindNearestAvailableTrucks(
	ctx context.Context,
	origin kernel.GeoPoint,
	minCapacity float64,
	direction string,
	limit int,
) ([]TruckDistance, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsRequiredError("limit")
	}
	if minCapacity < 0 {
		return nil, errs.NewValueIsInvalidError("minCapacity")
	}

	active, err := e.store.ListTrucks(ctx, ports.TruckFilter{Status: truck.StatusActive})
	if err != nil {
		return nil, err
	}

	candidates := make([]TruckDistance, 0, len(active))
	for _, t := range active {
		if t.AvailableCapacity() < minCapacity {
			continue
		}
		if direction != "" && t.Direction() != direction {
			continue
		}

		distance, err := t.Location().DistanceTo(origin)
		if err != nil {
			return nil, err
		}

		candidates = append(candidates, TruckDistance{
			Truck:    t,
			Distance: distance,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return candidates[i].Truck.ID().String() < candidates[j].Truck.ID().String()
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// ImpactAnalysis traverses Truck -> CARRYING -> Package -> DESTINED_FOR ->
// Customer and reports the affected package and customer ids plus the total
// carried weight. A truck carrying nothing yields an all-zero report. The
// traversal never mutates the store.
func (e *Engine) ImpactAnalysis(ctx context.Context, truckID kernel.ID) (ImpactReport, error) {
	if _, err := e.store.GetTruck(ctx, truckID); err != nil {
		return ImpactReport{}, err
	}

	carried, err := e.store.TruckPackages(ctx, truckID)
	if err != nil {
		return ImpactReport{}, err
	}

	report := ImpactReport{
		TruckID:             truckID,
		AffectedPackageIDs:  make([]kernel.ID, 0, len(carried)),
		AffectedCustomerIDs: make([]kernel.ID, 0, len(carried)),
	}

	seenCustomers := make(map[string]struct{})
	for _, p := range carried {
		report.AffectedPackageIDs = append(report.AffectedPackageIDs, p.ID())
		report.TotalWeight += p.Weight()

		customer, err := e.store.PackageCustomer(ctx, p.ID())
		if err != nil {
			return ImpactReport{}, err
		}
		if customer == nil {
			continue
		}
		if _, seen := seenCustomers[customer.ID().String()]; seen {
			continue
		}

		seenCustomers[customer.ID().String()] = struct{}{}
		report.AffectedCustomerIDs = append(report.AffectedCustomerIDs, customer.ID())
	}

	return report, nil
}
