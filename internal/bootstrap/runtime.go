// Package bootstrap initializes runtime dependencies shared by the
// server and the operational commands.
package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/observability"
	"yatube/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoData populates an empty development database with fake
	// users, groups, and posts so the site is browsable immediately.
	SeedDemoData bool
}

// Runtime holds the initialized shared dependencies.
type Runtime struct {
	DB              *gorm.DB
	Redis           *redis.Client
	ShutdownTracing func(context.Context) error
}

// InitRuntime connects to the database and Redis, initializes tracing,
// and optionally seeds demo content in development.
func InitRuntime(cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis is optional; a nil client disables caching and the live feed.
	cache.InitRedis(cfg.RedisURL)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "yatube-api",
		ServiceVersion: "1.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TraceExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TraceSampling,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing initialization failed: %w", err)
	}

	if opts.SeedDemoData {
		if err := seedDemoData(cfg, db); err != nil {
			return nil, fmt.Errorf("demo seeding failed: %w", err)
		}
	}

	return &Runtime{
		DB:              db,
		Redis:           cache.GetClient(),
		ShutdownTracing: shutdownTracing,
	}, nil
}

// seedDemoData fills an empty development database. A database that
// already has users is left alone so restarts do not pile up content.
func seedDemoData(cfg *config.Config, db *gorm.DB) error {
	if !strings.EqualFold(cfg.Env, "development") {
		return nil
	}

	var userCount int64
	if err := db.Table("users").Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return nil
	}

	log.Println("empty development database, seeding demo content")
	return seed.Seed(db, seed.Options{
		NumUsers:  10,
		NumGroups: 3,
		NumPosts:  40,
	})
}
