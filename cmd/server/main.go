package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caretrack/backend/internal/config"
	"github.com/caretrack/backend/internal/entitlement"
	"github.com/caretrack/backend/internal/handler"
	appMiddleware "github.com/caretrack/backend/internal/middleware"
	"github.com/caretrack/backend/internal/repository"
	"github.com/caretrack/backend/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if present (for local development)
	_ = godotenv.Load()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx := context.Background()

	// Initialize database
	db, err := repository.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database error")
	}
	defer db.Close()

	// Run migrations
	if err := repository.RunMigrations(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migration error")
	}
	log.Info().Msg("database connected & migrated")

	// Subscription cache is optional: no Redis address, no cache.
	var subCache *repository.SubscriptionCache
	var recordCache service.RecordCache
	if cfg.RedisAddr != "" {
		subCache, err = repository.NewSubscriptionCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Msg("redis error")
		}
		defer subCache.Close()
		recordCache = subCache
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis connected")
	}

	// Repositories
	subRepo := repository.NewSubscriptionRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	mealRepo := repository.NewMealRepository(db)

	// Services
	verifier := service.NewTokenVerifier(cfg.JWTSecret)
	subSvc := service.NewSubscriptionService(subRepo, recordCache, nil)
	profileSvc := service.NewProfileService(profileRepo)
	orderSvc := service.NewOrderService(orderRepo)
	bookingSvc := service.NewBookingService(bookingRepo)
	mealSvc := service.NewMealService(mealRepo)

	// Handlers
	healthHandler := handler.NewHealthHandler(db, subCache)
	premiumHandler := handler.NewPremiumHandler(subSvc, cfg.RenewalPeriodDays)
	profileHandler := handler.NewProfileHandler(profileSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	mealHandler := handler.NewMealHandler(mealSvc)
	adminHandler := handler.NewAdminHandler(db, orderSvc, bookingSvc, subSvc)

	// Build router
	r := chi.NewRouter()

	// Global middleware
	r.Use(appMiddleware.Recovery)
	r.Use(appMiddleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Global rate limiter (20 req/sec per IP, burst of 40)
	globalRL := appMiddleware.NewRateLimiter(20, 40)
	r.Use(globalRL.Middleware())

	// Health check (no auth)
	r.Get("/health", healthHandler.Check)

	// Protected API routes
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.Auth(verifier))

		// Profile
		r.Get("/api/profile", profileHandler.Get)
		r.Put("/api/profile", profileHandler.Upsert)

		// Drug orders
		r.Get("/api/orders", orderHandler.List)
		r.Post("/api/orders", orderHandler.Create)
		r.Delete("/api/orders/{id}", orderHandler.Cancel)

		// Hospital bookings
		r.Get("/api/bookings", bookingHandler.List)
		r.Post("/api/bookings", bookingHandler.Create)
		r.Delete("/api/bookings/{id}", bookingHandler.Cancel)

		// Premium subscription
		r.Get("/api/premium/status", premiumHandler.Status)
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.StrictRateLimiter())
			r.Post("/api/premium/renew", premiumHandler.Renew)
		})

		// Meal tracking (premium-gated)
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.RequirePremium(subSvc, entitlement.FeatureMealPlanner))
			r.Get("/api/meals/completions", mealHandler.List)
			r.Post("/api/meals/complete", mealHandler.Complete)
			r.Post("/api/meals/uncomplete", mealHandler.Uncomplete)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.AdminOnly)
			r.Get("/api/admin/stats", adminHandler.GetStats)
			r.Get("/api/admin/orders", adminHandler.ListOrders)
			r.Patch("/api/admin/orders/{id}/status", adminHandler.UpdateOrderStatus)
			r.Get("/api/admin/bookings", adminHandler.ListBookings)
			r.Patch("/api/admin/bookings/{id}/status", adminHandler.UpdateBookingStatus)
			r.Get("/api/admin/premium", adminHandler.ListPremium)
			r.Post("/api/admin/premium/grant", adminHandler.GrantPremium)
			r.Post("/api/admin/premium/{userId}/toggle", adminHandler.TogglePremium)
		})
	})

	// Start server
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info().Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Info().Str("addr", addr).Msg("caretrack backend listening")
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}
