package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/appointment-booking/internal/booking"
	"github.com/iliyamo/appointment-booking/internal/config"
	"github.com/iliyamo/appointment-booking/internal/database"
	"github.com/iliyamo/appointment-booking/internal/handler"
	"github.com/iliyamo/appointment-booking/internal/middleware"
	"github.com/iliyamo/appointment-booking/internal/queue"
	"github.com/iliyamo/appointment-booking/internal/repository"
	"github.com/iliyamo/appointment-booking/internal/router"
	queue_publisher "github.com/iliyamo/appointment-booking/internal/service"
)

func main() {
	// Load .env when present; real deployments set env vars directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	appointments := repository.NewAppointmentRepo(db)
	notifications := repository.NewNotificationRepo(db)
	files := repository.NewFileRepo(db)

	// Booking rules over the repositories; the queue publisher is the
	// injected mail dispatcher.
	engine := booking.NewEngine(users, appointments, notifications, queue_publisher.Dispatcher{}, cfg.Locale)

	e := echo.New()

	// Redis is optional: without it the limiter and the provider cache
	// simply pass requests through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	providerCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	h := router.Handlers{
		Auth:          handler.NewAuthHandler(cfg, users, tokens),
		Users:         handler.NewUserHandler(cfg, users, files),
		Providers:     handler.NewProviderHandler(users, appointments, cfg.AppURL),
		Appointments:  handler.NewAppointmentHandler(engine, appointments, cfg.AppURL),
		Notifications: handler.NewNotificationHandler(users, notifications),
		Files:         handler.NewFileHandler(cfg, files),
	}
	router.Register(e, h, cfg.JWTSecret, providerCache)

	// Serve uploaded avatars.
	e.Static("/files", cfg.UploadDir)

	// Mail worker: consumes cancellation events and delivers mails.
	go func() {
		if err := queue.StartCancellationMailConsumer(); err != nil {
			log.Printf("mail consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
