package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nocodejam/badge-engine/api"
	"github.com/nocodejam/badge-engine/badges"
	"github.com/nocodejam/badge-engine/datastore"
	"github.com/nocodejam/badge-engine/logger"
	"github.com/nocodejam/badge-engine/metrics"
	"github.com/nocodejam/badge-engine/migrations"
	"github.com/nocodejam/badge-engine/scheduler"
)

func main() {
	once := flag.Bool("once", false, "run one badge batch for every user and exit")
	userID := flag.String("user", "", "print progress, owned and eligible badges for one user as JSON and exit")
	migrateOnly := flag.Bool("migrate-only", false, "apply database migrations and exit")
	flag.Parse()

	// Load .env file if it exists
	_ = godotenv.Load()

	config := loadConfig()

	log, err := logger.New(config.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	connStr := datastore.BuildDBConnStr(
		config.DatabaseHost,
		config.DatabasePassword,
		config.DatabaseUser,
		config.DatabaseName,
		config.SSLMode,
	)

	dbConn, err := datastore.NewDB(config.DatabaseType, connStr)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	defer dbConn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrations.RunMigrations(ctx, dbConn, log); err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}
	if *migrateOnly {
		return
	}

	userRepo, err := datastore.NewUserDatabase(dbConn)
	if err != nil {
		log.Fatal("failed to create user repository", "error", err)
	}
	submissionRepo, err := datastore.NewSubmissionDatabase(dbConn)
	if err != nil {
		log.Fatal("failed to create submission repository", "error", err)
	}
	badgeRepo, err := datastore.NewBadgeDatabase(dbConn)
	if err != nil {
		log.Fatal("failed to create badge repository", "error", err)
	}
	userBadgeRepo, err := datastore.NewUserBadgeDatabase(dbConn)
	if err != nil {
		log.Fatal("failed to create user badge repository", "error", err)
	}

	seeds := badges.DefaultSeeds()
	if config.SeedFile != "" {
		seeds, err = badges.LoadSeedFile(config.SeedFile)
		if err != nil {
			log.Fatal("failed to load badge seed file", "path", config.SeedFile, "error", err)
		}
		log.Info("loaded badge seeds", "path", config.SeedFile, "count", len(seeds))
	}

	m := metrics.New()
	service := &badges.Service{
		Users:       userRepo,
		Submissions: submissionRepo,
		Badges:      badgeRepo,
		UserBadges:  userBadgeRepo,
		Seeds:       seeds,
		Workers:     config.Workers,
		Log:         log,
		Metrics:     m,
	}

	batch := scheduler.NewScheduler(service, time.Duration(config.BatchInterval)*time.Minute, log)

	switch {
	case *userID != "":
		report, err := service.Report(ctx, *userID)
		if err != nil {
			log.Fatal("failed to build user report", "user_id", *userID, "error", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatal("failed to write report", "error", err)
		}
		return
	case *once:
		if err := batch.RunOnce(ctx); err != nil {
			log.Fatal("badge batch failed", "error", err)
		}
		return
	}

	if config.RunScheduler {
		batch.Start(ctx)
		defer batch.Stop()
	}

	app := &api.Application{
		Config:  config,
		DB:      dbConn,
		Users:   userRepo,
		Badges:  service,
		Batch:   batch,
		Log:     log,
		Metrics: m,
	}

	log.Info("badge engine starting", "workers", config.Workers, "scheduler", config.RunScheduler)
	if err := app.Serve(http.NewServeMux()); err != nil {
		log.Fatal("server error", "error", err)
	}
}

func loadConfig() api.Config {
	return api.Config{
		HTTPPort:         getEnv("HTTP_PORT", ":8080"),
		DatabaseType:     getEnv("DB_TYPE", "postgres"),
		DatabaseHost:     getEnv("DB_HOST", "localhost:5432"),
		DatabaseUser:     getEnv("DB_USER", "postgres"),
		DatabasePassword: getEnv("DB_PASSWORD", ""),
		DatabaseName:     getEnv("DB_NAME", "nocodejam"),
		SSLMode:          getEnv("SSL_MODE", "disable"),
		LogMode:          getEnv("LOG_MODE", "development"),
		AllowedOrigins:   getEnvSlice("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		JwtSecret:        getEnv("JWT_SECRET", ""),
		Workers:          getEnvInt("BADGE_WORKERS", 1),
		SeedFile:         getEnv("BADGE_SEED_FILE", ""),
		BatchInterval:    getEnvInt("BATCH_INTERVAL_MINUTES", 0),
		RunScheduler:     getEnvBool("RUN_SCHEDULER", true),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolVal
}

func getEnvSlice(key, defaultValue string) []string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	return strings.Split(value, ",")
}
