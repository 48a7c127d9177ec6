package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/glowdesk/salon-bookings/internal/handlers"
	"github.com/glowdesk/salon-bookings/internal/payments"
	"github.com/glowdesk/salon-bookings/internal/repository"
	"github.com/glowdesk/salon-bookings/internal/seed"
	"github.com/glowdesk/salon-bookings/internal/service"
	"github.com/glowdesk/salon-bookings/pkg/config"
	"github.com/glowdesk/salon-bookings/pkg/database"
	"github.com/glowdesk/salon-bookings/pkg/events"
	"github.com/glowdesk/salon-bookings/pkg/logger"
	mw "github.com/glowdesk/salon-bookings/pkg/middleware"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, cfg.Database.URL); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	if err := seed.Run(ctx, pool, cfg.Seed); err != nil {
		logger.Error("Failed to seed database", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	salonRepo := repository.NewSalonRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	idempotencyRepo := repository.NewIdempotencyRepository(pool)
	rateLimitRepo := repository.NewRateLimitRepository(redisClient)

	// Services
	paymentSvc := payments.NewStripeService(cfg.Stripe)
	authService := service.NewAuthService(userRepo, cfg)
	salonService := service.NewSalonService(salonRepo)
	bookingService := service.NewBookingService(bookingRepo, salonRepo, idempotencyRepo, paymentSvc, eventBus, cfg)

	h := handlers.New(authService, bookingService, salonService, rateLimitRepo, cfg)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("api"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.With(h.RateLimit(10, time.Minute)).Post("/login", h.Login)
		r.Post("/refresh", h.RefreshToken)
		r.With(h.RequireJWT("")).Get("/me", h.Me)
	})

	r.Route("/salons", func(r chi.Router) {
		r.Get("/", h.ListSalons)
		r.Get("/{id}", h.GetSalon)
		r.Get("/{id}/services", h.ListSalonServices)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Use(h.RequireJWT("customer"))
		r.With(h.RateLimit(20, time.Minute)).Post("/", h.CreateBooking)
		r.Get("/", h.ListMyBookings)
		r.Get("/{id}", h.GetMyBooking)
		r.Post("/{id}/cancel", h.CancelMyBooking)
	})

	r.Route("/owner/bookings", func(r chi.Router) {
		r.Use(h.RequireJWT("owner"))
		r.Get("/", h.ListSalonBookings)
		r.Post("/{id}/confirm", h.ConfirmBooking)
		r.Post("/{id}/complete", h.CompleteBooking)
		r.Post("/{id}/cancel", h.CancelBooking)
	})

	r.Post("/webhooks/stripe", h.StripeWebhook)

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.RequireJWT("admin"))
		r.Get("/bookings", h.ListAllBookings)
		r.Get("/users", h.ListUsers)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down api service...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Api service shutdown error", "error", err)
		}
	}()

	logger.Info("Starting api service", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Api service error", "error", err)
		os.Exit(1)
	}
}
