package cmd

import (
	"log/slog"
	"math/rand/v2"

	httpserver "lattice/internal/adapters/in/http"
	"lattice/internal/core/application/usecases/queries"
	"lattice/internal/core/domain/services/chaos"
	"lattice/internal/core/domain/services/impact"
	"lattice/internal/core/domain/services/queryengine"
	"lattice/internal/core/domain/services/reroute"
	"lattice/internal/core/ports"
	"lattice/internal/jobs"
	"lattice/internal/seed"

	"gorm.io/gorm"
)

// CompositionRoot wires the process graph. The stateful services (chaos
// engine, recovery pipeline, impact analyzer) are constructed exactly once
// per process; query handlers are cheap and created on demand.
type CompositionRoot struct {
	configs Config
	// gormDB is nil when the process runs on the in-memory store; the CQRS
	// read models are then unavailable.
	gormDB *gorm.DB
	store  ports.Store
	logger *slog.Logger

	queryEngine *queryengine.Engine
	chaosEngine *chaos.Engine
	pipeline    *reroute.Pipeline
	analyzer    *impact.Analyzer
}

// NewCompositionRoot constructs the singleton service graph over the given
// store. The rng seeds every random decision in the chaos engine and the
// data loader, so a fixed Config.RandomSeed makes a whole run reproducible.
func NewCompositionRoot(
	configs Config,
	gormDB *gorm.DB,
	store ports.Store,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	queryEngine, err := queryengine.NewEngine(store)
	if err != nil {
		return nil, err
	}

	chaosEngine, err := chaos.NewEngine(store, newRand(configs.RandomSeed))
	if err != nil {
		return nil, err
	}

	pipeline, err := reroute.NewPipeline(store, queryEngine, configs.TruckSpeedKmh, logger)
	if err != nil {
		return nil, err
	}

	analyzer, err := impact.NewAnalyzer(queryEngine, configs.SLAPenaltyPerHour)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		configs:     configs,
		gormDB:      gormDB,
		store:       store,
		logger:      logger,
		queryEngine: queryEngine,
		chaosEngine: chaosEngine,
		pipeline:    pipeline,
		analyzer:    analyzer,
	}, nil
}

func (c *CompositionRoot) Store() ports.Store {
	return c.store
}

func (c *CompositionRoot) ChaosEngine() *chaos.Engine {
	return c.chaosEngine
}

func (c *CompositionRoot) Pipeline() *reroute.Pipeline {
	return c.pipeline
}

func (c *CompositionRoot) Analyzer() *impact.Analyzer {
	return c.analyzer
}

func (c *CompositionRoot) CreateGetAllTrucksQueryHandler() queries.GetAllTrucksQueryHandler {
	return queries.NewGetAllTrucksQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetInTransitPackagesQueryHandler() queries.GetInTransitPackagesQueryHandler {
	return queries.NewGetInTransitPackagesQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the dashboard API server.
func (c *CompositionRoot) CreateHTTPServer() *httpserver.Server {
	return httpserver.NewServer(
		c.CreateGetAllTrucksQueryHandler(),
		c.CreateGetInTransitPackagesQueryHandler(),
		c.chaosEngine,
		c.pipeline,
		c.analyzer,
	)
}

// CreateJobManager assembles the background jobs: periodic chaos injection
// and the recovery sweep that reroutes loaded failed trucks.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	chaosJob, err := jobs.NewChaosInjectionJob(
		c.chaosEngine,
		c.configs.ChaosIntervalSeconds,
		c.configs.ChaosProbability,
		c.logger,
	)
	if err != nil {
		return nil, err
	}

	recoveryJob, err := jobs.NewRecoveryJob(c.store, c.pipeline, c.logger)
	if err != nil {
		return nil, err
	}

	return jobs.NewJobManager(chaosJob, recoveryJob), nil
}

// CreateSeedLoader assembles the sample-network loader.
func (c *CompositionRoot) CreateSeedLoader() (*seed.Loader, error) {
	return seed.NewLoader(c.store, newRand(c.configs.RandomSeed), c.logger)
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
