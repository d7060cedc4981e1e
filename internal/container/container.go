package container

import (
	"context"

	"sleepcalc-api/internal/config"
	"sleepcalc-api/internal/provider"
	"sleepcalc-api/internal/repository"
	"sleepcalc-api/internal/service"
	"sleepcalc-api/internal/session"
	"sleepcalc-api/pkg/database"
	"sleepcalc-api/pkg/logger"
	"sleepcalc-api/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           *database.PostgresDB
	RedisClient  *redis.Client
	Repositories *repository.Repositories
	Services     *service.Services
	Provider     *provider.GoTrueClient
	GoogleOAuth  *provider.GoogleOAuth
	Sessions     *session.Manager
}

// New creates a new dependency injection container and starts the session
// manager. Call Close when shutting down.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, cfg.DatabaseReadURL)
	if err != nil {
		return nil, err
	}

	redisClient, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	repos := &repository.Repositories{
		Profile:   repository.NewProfileRepository(db),
		Team:      repository.NewTeamRepository(db),
		Bank:      repository.NewBankRepository(db),
		Reference: repository.NewReferenceRepository(db),
	}

	recommendations := service.NewRecommendationService(cfg, redisClient, log)
	services := &service.Services{
		Token:          service.NewTokenService(cfg, log),
		Profile:        service.NewProfileService(repos.Profile, log),
		Team:           service.NewTeamService(repos.Team, repos.Bank, log),
		Bank:           service.NewBankService(repos.Bank, recommendations, log),
		Reference:      service.NewReferenceService(repos.Reference, redisClient, log),
		Recommendation: recommendations,
	}

	idp := provider.NewGoTrueClient(cfg, log)
	google := provider.NewGoogleOAuth(cfg)

	profileCache := session.NewRedisProfileCache(redisClient, log)
	sessions := session.NewManager(idp, repos.Profile, profileCache, log)
	sessions.Start(ctx)

	return &Container{
		Config:       cfg,
		Logger:       log,
		DB:           db,
		RedisClient:  redisClient,
		Repositories: repos,
		Services:     services,
		Provider:     idp,
		GoogleOAuth:  google,
		Sessions:     sessions,
	}, nil
}

// Close releases everything the container owns, session manager first so
// in-flight profile fetches drain before their backends go away.
func (c *Container) Close() {
	if c.Sessions != nil {
		c.Sessions.Close()
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.WithError(err).Warn("Failed to close Redis client")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}
