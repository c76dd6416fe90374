package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"lattice/cmd"
	"lattice/internal/adapters/out/memory"
	"lattice/internal/adapters/out/postgres/graphstore"
	"lattice/internal/core/ports"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const usage = `Usage: lattice <command>

Commands:
  setup      create the database schema
  load-data  load the sample trucking network
  test       check store connectivity
  simulate   run a self-contained chaos simulation on the in-memory store
  serve      start the dashboard API and background jobs`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	configs := getConfigs()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	switch os.Args[1] {
	case "setup":
		runSetup(configs)
	case "load-data":
		runLoadData(configs, logger)
	case "test":
		runTest(configs, logger)
	case "simulate":
		runSimulate(configs, logger)
	case "serve":
		runServe(configs, logger)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", os.Args[1], usage)
		os.Exit(2)
	}
}

func runSetup(configs cmd.Config) {
	gormDB := mustOpenDB(configs)

	if err := graphstore.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}
	log.Info("Schema created")
}

func runLoadData(configs cmd.Config, logger *slog.Logger) {
	gormDB := mustOpenDB(configs)
	root := mustComposeRoot(configs, gormDB, mustGraphStore(gormDB), logger)

	loader, err := root.CreateSeedLoader()
	if err != nil {
		log.Fatalf("Failed to create loader: %v", err)
	}
	if err := loader.LoadAll(context.Background(), 10, 30); err != nil {
		log.Fatalf("Failed to load sample data: %v", err)
	}
	log.Info("Sample network loaded")
}

func runTest(configs cmd.Config, logger *slog.Logger) {
	gormDB := mustOpenDB(configs)
	store := mustGraphStore(gormDB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		log.Fatalf("Store connectivity check failed: %v", err)
	}
	logger.Info("store connectivity check passed",
		"host", configs.DBHost, "db", configs.DBName)
}

// runSimulate seeds the in-memory store and lets the chaos and recovery jobs
// run against it for a fixed window, then reports what happened. It needs no
// database and is the quickest way to watch the system fail and heal.
func runSimulate(configs cmd.Config, logger *slog.Logger) {
	root := mustComposeRoot(configs, nil, memory.NewStore(), logger)

	loader, err := root.CreateSeedLoader()
	if err != nil {
		log.Fatalf("Failed to create loader: %v", err)
	}
	if err := loader.LoadAll(context.Background(), 10, 30); err != nil {
		log.Fatalf("Failed to seed simulation: %v", err)
	}

	jobManager, err := root.CreateJobManager()
	if err != nil {
		log.Fatalf("Failed to create jobs: %v", err)
	}

	const simulationWindow = 60 * time.Second
	logger.Info("simulation started", "window", simulationWindow.String())
	jobManager.StartAll()
	time.Sleep(simulationWindow)
	jobManager.StopAll()

	chaosStats := root.ChaosEngine().EventStatistics()
	rerouteStats := root.Pipeline().ReroutingStatistics()
	logger.Info("simulation finished",
		"disruptions_total", chaosStats.TotalEvents,
		"disruptions_active", chaosStats.ActiveEvents,
		"reroute_operations", rerouteStats.TotalOperations,
		"packages_rerouted", rerouteStats.TotalPackagesRerouted,
	)
}

func runServe(configs cmd.Config, logger *slog.Logger) {
	gormDB := mustOpenDB(configs)
	root := mustComposeRoot(configs, gormDB, mustGraphStore(gormDB), logger)

	jobManager, err := root.CreateJobManager()
	if err != nil {
		log.Fatalf("Failed to create jobs: %v", err)
	}
	jobManager.StartAll()
	defer jobManager.StopAll()

	e := echo.New()
	root.CreateHTTPServer().RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)))
}

func mustGraphStore(gormDB *gorm.DB) *graphstore.Store {
	store, err := graphstore.NewStore(gormDB)
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func mustOpenDB(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return gormDB
}

func mustComposeRoot(
	configs cmd.Config,
	gormDB *gorm.DB,
	store ports.Store,
	logger *slog.Logger,
) *cmd.CompositionRoot {
	root, err := cmd.NewCompositionRoot(configs, gormDB, store, logger)
	if err != nil {
		log.Fatalf("Failed to build composition root: %v", err)
	}
	return root
}

func getConfigs() cmd.Config {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load(".env")

	config := cmd.Config{
		HTTPPort:   envOr("HTTP_PORT", "8080"),
		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     envOr("DB_USER", "postgres"),
		DBPassword: envOr("DB_PASSWORD", "postgres"),
		DBName:     envOr("DB_NAME", "lattice"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		ChaosIntervalSeconds: envOrInt("CHAOS_INTERVAL_SECONDS", 5),
		ChaosProbability:     envOrFloat("CHAOS_PROBABILITY", 0.3),
		SLAPenaltyPerHour:    envOrFloat("SLA_PENALTY_PER_HOUR", 10),
		TruckSpeedKmh:        envOrFloat("TRUCK_SPEED_KMH", 60),
		RandomSeed:           envOrUint("RANDOM_SEED", uint64(time.Now().UnixNano())),
	}
	return config
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return parsed
}

func envOrFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return parsed
}

func envOrUint(key string, fallback uint64) uint64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return parsed
}
