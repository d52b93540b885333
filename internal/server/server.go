// Package server wires the HTTP server together: database, services,
// handlers, middleware, and the route tree. main.go only builds a Config
// and calls New + Start; everything else is assembled here, in one place.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/belfast-eats/internal/auth"
	"github.com/sakif/belfast-eats/internal/handler"
	"github.com/sakif/belfast-eats/internal/middleware"
	sqliteRepo "github.com/sakif/belfast-eats/internal/repository/sqlite"
	"github.com/sakif/belfast-eats/internal/service"
)

// Config holds server configuration, loaded from the environment by main.
type Config struct {
	Port            int
	DBPath          string
	JWTSecret       string
	JWTTTL          time.Duration
	AdminInviteCode string
	CORSOrigins     []string
}

// Server owns the router and the resources that must be released on
// shutdown, most importantly the database connection.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
// sqlite.DB → services → handlers → routes. Each layer only sees the
// interfaces it needs; handlers never touch the database and services
// never touch HTTP.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route tree.
//
// ROUTE STRUCTURE:
//
//	GET    /                                          → liveness probe
//	POST   /api/v1.0/auth/register                    → create account
//	POST   /api/v1.0/auth/login                       → issue token
//	GET    /api/v1.0/auth/me                          → current user      [auth]
//	GET    /api/v1.0/restaurants                      → list
//	GET    /api/v1.0/restaurants/search?name=         → name search
//	GET    /api/v1.0/restaurants/search/cuisine?cuisine= → cuisine search
//	GET    /api/v1.0/restaurants/rating/{min}         → minimum-rating filter
//	GET    /api/v1.0/restaurants/{id}                 → fetch one
//	POST   /api/v1.0/restaurants                      → create            [auth]
//	PUT    /api/v1.0/restaurants/{id}                 → update            [auth]
//	DELETE /api/v1.0/restaurants/{id}                 → delete            [auth]
//	GET    /api/v1.0/reviews/restaurant/{restaurantID} → list for restaurant
//	GET    /api/v1.0/reviews/{id}                     → fetch one
//	POST   /api/v1.0/reviews/{restaurantID}           → create            [auth]
//	PUT    /api/v1.0/reviews/{id}                     → update            [auth]
//	DELETE /api/v1.0/reviews/{id}                     → delete            [auth]
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	if len(s.config.CORSOrigins) > 0 {
		s.router.Use(middleware.CORS(s.config.CORSOrigins))
	}

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.JWTTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.config.AdminInviteCode, s.logger)
	restaurantService := service.NewRestaurantService(s.db, s.logger)
	reviewService := service.NewReviewService(s.db, s.db, s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	restaurantHandler := handler.NewRestaurantHandler(restaurantService, s.logger)
	reviewHandler := handler.NewReviewHandler(reviewService, s.logger)

	requireAuth := auth.RequireAuth(tokens)

	// Liveness probe for load balancers and local smoke tests.
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"belfast-eats"}`))
	})

	s.router.Route("/api/v1.0", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.With(requireAuth).Get("/me", authHandler.HandleMe)
		})

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", restaurantHandler.HandleList)
			r.Get("/search", restaurantHandler.HandleSearchName)
			r.Get("/search/cuisine", restaurantHandler.HandleSearchCuisine)
			// The regex keeps non-numeric values out before the handler
			// ever calls strconv.Atoi.
			r.Get("/rating/{min:[0-9]+}", restaurantHandler.HandleMinRating)
			r.Get("/{id}", restaurantHandler.HandleGet)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", restaurantHandler.HandleCreate)
				r.Put("/{id}", restaurantHandler.HandleUpdate)
				r.Delete("/{id}", restaurantHandler.HandleDelete)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/restaurant/{restaurantID}", reviewHandler.HandleListForRestaurant)
			r.Get("/{id}", reviewHandler.HandleGet)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/{restaurantID}", reviewHandler.HandleCreate)
				r.Put("/{id}", reviewHandler.HandleUpdate)
				r.Delete("/{id}", reviewHandler.HandleDelete)
			})
		})
	})

	return nil
}

// Router exposes the assembled handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the database without going through Start's shutdown path.
// Tests drive the router directly and still need the connection closed.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests for up
// to 30 seconds, and close the database so the WAL is flushed.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
