package commands

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/secangkircinta/scug/internal/adapters/cache"
	"github.com/secangkircinta/scug/internal/adapters/repository"
	"github.com/secangkircinta/scug/internal/adapters/storage"
	"github.com/secangkircinta/scug/internal/application/services"
	"github.com/secangkircinta/scug/internal/infrastructure/config"
	"github.com/secangkircinta/scug/internal/infrastructure/database"
	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/infrastructure/metrics"
	"github.com/secangkircinta/scug/internal/infrastructure/server"
	"github.com/secangkircinta/scug/internal/ports"
)

// app holds the infrastructure shared by the commands
type app struct {
	cfg     *config.Config
	logger  *logger.Logger
	db      *database.DB
	redis   *redis.Client
	cache   ports.CacheRepository
	storage *storage.FileStorage
	repos   ports.Repositories
	metrics *metrics.Metrics
}

// bootstrap loads configuration and creates the logger
func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, appLogger, nil
}

// openDatabase connects to the configured Record Store
func openDatabase(cfg *config.Config) (*database.DB, error) {
	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// newApp opens the database, object storage and, when enabled, Redis
func newApp(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (*app, error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  appLogger,
		db:      db,
		cache:   cache.NopCache{},
		repos:   repository.NewRepositories(db),
		metrics: metrics.New(),
	}

	a.storage, err = storage.NewOsStorage(cfg.Storage.Root, cfg.Storage.PublicBaseURL)
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Redis.Enabled {
		a.redis, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.cache = cache.NewRedisCache(a.redis)
		appLogger.Infow("Redis cache enabled", "addr", cfg.Redis.GetAddr())
	}

	return a, nil
}

// Close releases every connection the app opened
func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.WithError(err).Warn("Failed to close redis client")
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Warn("Failed to close database")
	}
}

// sweeper builds the orphan sweeper from configuration
func (a *app) sweeper() *services.SweeperService {
	return services.NewSweeperService(a.repos, a.storage, a.cfg.Sweeper.Interval, a.cfg.Sweeper.GracePeriod, a.metrics, a.logger)
}

// dependencies builds the services the HTTP routes are bound to
func (a *app) dependencies() server.Dependencies {
	maxBytes := a.cfg.Storage.MaxUploadBytes
	views := services.NewProjectViewCache(a.cache, a.cfg.Redis.TTL, a.logger)
	if !a.cfg.Redis.Enabled {
		views = nil
	}

	return server.Dependencies{
		Projects: services.NewProjectService(a.repos, views, a.logger),
		Tasks:    services.NewTaskService(a.repos.Tasks, a.repos.Projects, a.repos.Members, a.metrics, a.logger),
		Members:  services.NewMemberService(a.repos.Members, a.logger),
		Rosters:  services.NewProjectMemberService(a.repos, a.logger),
		Media:    services.NewMediaService(a.repos.Media, a.repos.Projects, a.storage, views, maxBytes, a.metrics, a.logger),
		Covers:   services.NewCoverService(a.repos.Covers, a.repos.Projects, a.storage, views, maxBytes, a.metrics, a.logger),
		Reports:  services.NewReportService(a.repos.Reports, a.repos.Projects, a.storage, maxBytes, a.metrics, a.logger),
		Auth:     services.NewAuthService(a.repos.Admins, a.cfg.JWT, a.logger),
		Files:    a.storage.HTTPHandler(),
		Metrics:  a.metrics,
		Checks: map[string]server.ReadinessCheck{
			"database": a.db.HealthCheck,
			"cache":    a.cache.Ping,
		},
		DatabaseStats: a.db.GetConnectionInfo,
	}
}
