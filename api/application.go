package api

import (
	"context"

	"github.com/nocodejam/badge-engine/badges"
	"github.com/nocodejam/badge-engine/datastore"
	"github.com/nocodejam/badge-engine/logger"
	"github.com/nocodejam/badge-engine/metrics"
)

type Config struct {
	HTTPPort         string
	DatabaseType     string
	DatabaseHost     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	SSLMode          string
	LogMode          string
	AllowedOrigins   []string
	JwtSecret        string // shared HS256 secret of the hosted auth backend

	Workers       int
	SeedFile      string
	BatchInterval int // minutes, 0 runs daily at midnight
	RunScheduler  bool
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// BatchRunner runs one badge batch on demand.
type BatchRunner interface {
	RunOnce(ctx context.Context) error
}

type Application struct {
	Config  Config
	DB      Pinger
	Users   datastore.UserRepository
	Badges  *badges.Service
	Batch   BatchRunner
	Log     *logger.Logger
	Metrics *metrics.Metrics
}
