package app

import (
	"context"
	"errors"
	"time"

	"talent-bridge/internal/config"
	"talent-bridge/internal/database"
	"talent-bridge/internal/database/migration"
	dbpostgres "talent-bridge/internal/database/postgres"
	"talent-bridge/internal/infrastructure/cache"
	"talent-bridge/internal/logger"
	"talent-bridge/internal/metrics"
	"talent-bridge/internal/pkg/jwt"
	"talent-bridge/internal/repository"
	"talent-bridge/internal/usecase"
	"talent-bridge/internal/ws"
	"talent-bridge/migrations"

	"github.com/prometheus/client_golang/prometheus"
)

// Container owns every long-lived dependency of the server.
type Container struct {
	Config config.Config
	Log    logger.Logger

	DB       database.DB
	Cache    *cache.Redis
	Hub      *ws.Hub
	JWT      jwt.Service
	Matching usecase.MatchingUsecase
}

func NewContainer(ctx context.Context, cfg config.Config, log logger.Logger) (*Container, error) {
	if log == nil {
		log = logger.NewNop()
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		r := migration.Runner{FS: migrations.FS, Dir: cfg.Database.MigrationsDir, Logger: log}
		if _, err := r.Run(ctx, db.SQLDB()); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	if pool, ok := db.(*dbpostgres.Pool); ok {
		if err := metrics.RegisterPoolGauges(prometheus.DefaultRegisterer, pool.Stats); err != nil {
			log.Warn("db pool gauges not registered", map[string]interface{}{"error": err})
		}
	}

	rc := cache.NewRedis(ctx, cfg.Redis, cfg.Matching.ResultCacheTTL, log)
	hub := ws.NewHub(log)

	matching := usecase.NewMatchingUsecase(usecase.MatchingDeps{
		Projects:     repository.NewPostgresProjectRepository(db),
		Users:        repository.NewPostgresUserRepository(db),
		Requirements: repository.NewPostgresRequirementRepository(db),
		Skills:       repository.NewPostgresEmployeeSkillRepository(db),
		Assignments:  repository.NewPostgresAssignmentRepository(db),
		Availability: repository.NewPostgresAvailabilityRepository(db),
		Matches:      repository.NewPostgresMatchRepository(db),
		Cache:        rc,
		Notifier:     ws.NewNotifier(hub, log),
		Logger:       log,
	}, usecase.MatchingOptions{
		Workers:        cfg.Matching.Workers,
		ResultCacheTTL: cfg.Matching.ResultCacheTTL,
	})

	return &Container{
		Config:   cfg,
		Log:      log,
		DB:       db,
		Cache:    rc,
		Hub:      hub,
		JWT:      jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiresIn),
		Matching: matching,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
