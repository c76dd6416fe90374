package cmd

import "fmt"

// Config carries everything the process needs from the environment. Tuning
// values (chaos cadence, SLA penalty, assumed truck speed) live here so the
// domain services never hardcode them.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	ChaosIntervalSeconds int
	ChaosProbability     float64
	SLAPenaltyPerHour    float64
	TruckSpeedKmh        float64
	RandomSeed           uint64
}

// DSN builds the Postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}
