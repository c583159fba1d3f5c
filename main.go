package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"court-booking/config"
	"court-booking/controllers"
	"court-booking/events"
	"court-booking/routes"
	"court-booking/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] config: %v", err)
	}
	if err := services.ValidateFacilityConfig(cfg.Facility()); err != nil {
		log.Fatalf("[main] facility defaults: %v", err)
	}
	ctx := context.Background()

	// Booking store
	var store services.BookingStore
	switch cfg.StoreDriver {
	case "mysql":
		db, err := config.ConnectDatabase()
		if err != nil {
			log.Fatalf("[main] database connect failed: %v", err)
		}
		gs := services.NewGormBookingStore(db)
		if err := gs.Migrate(); err != nil {
			log.Fatalf("[main] migrate: %v", err)
		}
		store = gs
		log.Println("[main] using MySQL booking store")
	case "memory":
		store = services.NewMemoryBookingStore()
		log.Println("[main] using in-memory booking store")
	default:
		log.Fatalf("[main] unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.SeedDemo {
		if err := config.SeedBookings(ctx, store); err != nil {
			log.Printf("[main] seed: %v", err)
		}
	}

	// Facility settings
	var settingsRepo services.SettingsRepo
	switch cfg.SettingsDriver {
	case "redis":
		rr := services.NewRedisSettingsRepo(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.Facility())
		if err := rr.Ping(ctx); err != nil {
			log.Fatalf("[main] redis ping: %v", err)
		}
		defer rr.Close()
		settingsRepo = rr
	default:
		settingsRepo = services.NewMemorySettingsRepo(cfg.Facility())
	}
	settingsSvc := services.NewSettingsService(settingsRepo)

	// Events
	var pub events.Publisher = events.NopPublisher{}
	if cfg.RabbitURL != "" {
		p, err := events.NewAMQPPublisher(cfg.RabbitURL, cfg.BookingExchange)
		if err != nil {
			log.Fatalf("[main] rabbitmq: %v", err)
		}
		pub = p
		log.Printf("[main] publishing booking events to %s", cfg.BookingExchange)
	}
	defer pub.Close()

	bookingSvc := services.NewBookingService(store, settingsSvc, services.NewRecurrenceExpander(), pub, services.BookingOptions{
		PlaceholderEmails: cfg.PlaceholderEmails,
		DefaultWeeks:      cfg.DefaultRecurringWeeks,
	})
	flow := services.NewMultiCourtFlow(bookingSvc, cfg.SubmitDelay, cfg.SessionTTL)
	statsSvc := services.NewStatsService(store, settingsSvc)

	router := routes.SetupRouter(routes.Controllers{
		Booking:  controllers.NewBookingController(bookingSvc, services.NewAvailabilityResolver(store)),
		Batch:    controllers.NewBatchController(bookingSvc, flow),
		Settings: controllers.NewSettingsController(settingsSvc),
		Stats:    controllers.NewStatsController(statsSvc),
	}, cfg.CorsOrigins, cfg.JWTSecret)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("[main] server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("[main] shutdown signal received, shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("[main] server forced to shutdown: %v", err)
	}
	log.Println("[main] server stopped gracefully")
}
