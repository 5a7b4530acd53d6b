package container

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-trip-planner/app/db"
	appMiddleware "github.com/FACorreiaa/go-trip-planner/app/middleware"
	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
	"github.com/FACorreiaa/go-trip-planner/internal/api/destination"
	generativeAI "github.com/FACorreiaa/go-trip-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-planner/internal/api/itinerary"
	"github.com/FACorreiaa/go-trip-planner/internal/api/places"
	"github.com/FACorreiaa/go-trip-planner/internal/api/trip"
	"github.com/FACorreiaa/go-trip-planner/internal/api/user"
)

// Container holds all application dependencies
type Container struct {
	Config             *config.Config
	Logger             *slog.Logger
	Pool               *pgxpool.Pool
	AuthHandler        *auth.AuthHandler
	UserHandler        *user.HandlerImpl
	TripHandler        *trip.HandlerImpl
	DestinationHandler *destination.Handler
	GenerationLimiter  *appMiddleware.RateLimiter
}

// NewContainer opens the pool and builds every repository, service and
// handler. The AI client and the places enricher are only created when
// their API keys are configured.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, cfg, logger)
	authHandler := auth.NewAuthHandler(authService, logger)

	userRepo := user.NewPostgresUserRepo(pool, logger)
	userService := user.NewUserService(userRepo, logger)
	userHandler := user.NewHandlerImpl(userService, logger)

	destinationRepo := destination.NewDestinationRepository(pool, logger)
	destinationService := destination.NewServiceImpl(destinationRepo, logger)
	destinationHandler := destination.NewHandler(destinationService, logger)

	var ai itinerary.ContentGenerator
	if cfg.Gemini.Enabled() {
		client, err := generativeAI.NewAIClient(ctx, cfg.Gemini)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to create AI client: %w", err)
		}
		ai = client
		logger.Info("AI itinerary generation enabled", slog.String("model", client.ModelName()))
	} else {
		logger.Warn("No AI API key configured, itineraries will use the fallback generator")
	}
	itineraryRepo := itinerary.NewRepository(pool, logger)
	itineraryService := itinerary.NewServiceImpl(ai, itineraryRepo, cfg.Gemini, logger)

	var enricher trip.Enricher
	if cfg.Places.Enabled() {
		provider := places.NewCachedProvider(places.NewGoogleClient(cfg.Places, logger), cfg.Places.CacheTTL)
		enricher = places.NewEnricher(provider, cfg.Places, logger)
	} else {
		logger.Warn("No places API key configured, itineraries will not be enriched")
	}

	tripRepo := trip.NewRepositoryImpl(pool, logger)
	tripService := trip.NewServiceImpl(tripRepo, itineraryService, enricher, destinationService, logger)
	tripHandler := trip.NewHandlerImpl(tripService, logger)

	limiter := appMiddleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, generationClientKey, logger)
	go limiter.Run(ctx, time.Minute)

	return &Container{
		Config:             cfg,
		Logger:             logger,
		Pool:               pool,
		AuthHandler:        authHandler,
		UserHandler:        userHandler,
		TripHandler:        tripHandler,
		DestinationHandler: destinationHandler,
		GenerationLimiter:  limiter,
	}, nil
}

// generationClientKey buckets itinerary generation by caller, falling back
// to the client IP.
func generationClientKey(r *http.Request) string {
	if id, ok := auth.GetUserIDFromContext(r.Context()); ok {
		return "user:" + id
	}
	return appMiddleware.RemoteIP(r)
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
