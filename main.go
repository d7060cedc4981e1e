package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"sleepcalc-api/internal/config"
	"sleepcalc-api/internal/container"
	"sleepcalc-api/internal/handler"
	"sleepcalc-api/internal/middleware"
	"sleepcalc-api/pkg/logger"
)

// Resources holds all resources that need cleanup
type Resources struct {
	container *container.Container
	server    *http.Server
	log       *logger.Logger
	mu        sync.Mutex
	closed    bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	r.log.Info("Starting graceful shutdown...")

	var firstErr error

	// Stop accepting new requests before tearing down backends.
	if r.server != nil {
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			firstErr = fmt.Errorf("HTTP server shutdown: %w", err)
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	if r.container != nil {
		r.container.Close()
		r.log.Info("Container resources released")
	}

	if firstErr != nil {
		return firstErr
	}
	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting sleepcalc-api server")

	ctx := context.Background()
	c, err := container.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	router := setupRouter(c)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	resources := &Resources{
		container: c,
		server:    server,
		log:       log,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container) *chi.Mux {
	cfg := c.GetConfig()
	log := c.GetLogger()
	services := c.Services

	r := chi.NewRouter()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins

	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	healthHandler := handler.NewHealthHandler(c.DB, c.RedisClient, log)
	authHandler := handler.NewAuthHandler(c.Sessions, c.GoogleOAuth, cfg, log)
	profileHandler := handler.NewProfileHandler(services.Profile, c.Sessions, log)
	teamHandler := handler.NewTeamHandler(services.Team, log)
	bankHandler := handler.NewBankHandler(services.Bank, log)
	referenceHandler := handler.NewReferenceHandler(services.Reference, log)
	recommendationHandler := handler.NewRecommendationHandler(services.Recommendation, log)

	r.Get("/health", healthHandler.Check)

	// OAuth callback lands outside /api: the provider redirects the browser
	// here directly.
	r.Get(config.AuthCallbackPath, authHandler.AuthCallback)

	// Browser entry point for email links and bookmarks aimed at the API
	// host. Anonymous visitors are bounced to the login page with a return
	// path; everyone else lands on the frontend dashboard.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuthRedirect(services.Token, cfg, log))
		r.Get(config.DashboardPath, authHandler.DashboardRedirect)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/signup", authHandler.Signup)
			r.Post("/logout", authHandler.Logout)
			r.Post("/reset-password", authHandler.ResetPassword)
			r.Post("/update-password", authHandler.UpdatePassword)
			r.Get("/google", authHandler.GoogleRedirect)
			r.Get("/session", authHandler.GetSession)
		})

		// Reference data is public; the SPA shows it before login too.
		r.Get("/pokedex", referenceHandler.Pokedex)
		r.Get("/recipes", referenceHandler.Recipes)
		r.Get("/ingredients", referenceHandler.Ingredients)
		r.Get("/skills", referenceHandler.Skills)
		r.Get("/islands", referenceHandler.Islands)
		r.Get("/natures", referenceHandler.Natures)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Token, log))

			r.Get("/profile", profileHandler.Get)
			r.Put("/profile", profileHandler.Update)
			r.Post("/profile/refresh", profileHandler.Refresh)

			r.Get("/team", teamHandler.Get)
			r.Put("/team/slots/{slot}", teamHandler.SetSlot)
			r.Delete("/team/slots/{slot}", teamHandler.ClearSlot)
			r.Post("/team/swap", teamHandler.Swap)

			r.Get("/bank", bankHandler.List)
			r.Post("/bank", bankHandler.Create)
			r.Put("/bank/{id}", bankHandler.Update)
			r.Delete("/bank/{id}", bankHandler.Delete)

			r.Post("/recommendation", recommendationHandler.Recommend)
		})
	})

	return r
}
