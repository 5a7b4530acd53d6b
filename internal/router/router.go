package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
	"github.com/FACorreiaa/go-trip-planner/internal/api/destination"
	"github.com/FACorreiaa/go-trip-planner/internal/api/trip"
	"github.com/FACorreiaa/go-trip-planner/internal/api/user"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler            *auth.AuthHandler
	UserHandler            *user.HandlerImpl
	TripHandler            *trip.HandlerImpl
	DestinationHandler     *destination.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
	// GenerationLimiter guards the routes that call the AI provider.
	GenerationLimiter func(http.Handler) http.Handler
	AllowedOrigins    []string
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (like logger, requestID, recoverer) are expected
// to be applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Location", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	limit := cfg.GenerationLimiter
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes. Logout only needs the refresh token it revokes.
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.AuthHandler.RefreshSession)
			r.Post("/auth/logout", cfg.AuthHandler.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Route("/trips", func(r chi.Router) {
				r.With(limit).Post("/", cfg.TripHandler.CreateTrip)
				r.Get("/", cfg.TripHandler.ListTrips)
				r.Get("/{tripID}", cfg.TripHandler.GetTrip)
				r.Patch("/{tripID}", cfg.TripHandler.UpdateTrip)
				r.Delete("/{tripID}", cfg.TripHandler.DeleteTrip)
				r.With(limit).Post("/{tripID}/regenerate", cfg.TripHandler.RegenerateItinerary)
			})

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", cfg.UserHandler.GetUserProfile)
				r.Patch("/", cfg.UserHandler.UpdateUserProfile)
				r.Get("/stats", cfg.UserHandler.GetUserStats)
			})

			r.Get("/destinations/popular", cfg.DestinationHandler.ListPopular)
			r.Get("/destinations/{destinationID}", cfg.DestinationHandler.GetDestination)
		})
	})

	return r
}
