package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/bookable/reservation-api/internal/apperror"
	"github.com/bookable/reservation-api/internal/config"
	"github.com/bookable/reservation-api/internal/database"
	"github.com/bookable/reservation-api/internal/handler"
	"github.com/bookable/reservation-api/internal/middleware"
	"github.com/bookable/reservation-api/internal/queue"
	"github.com/bookable/reservation-api/internal/repository"
	"github.com/bookable/reservation-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache and the rate limiter.  A nil client
	// disables both; the API itself never depends on Redis.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	reservations := repository.NewReservationRepo(db)
	rules := repository.NewAvailabilityRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	availH := handler.NewAvailabilityHandler(cfg, rules, reservations)
	resH := handler.NewReservationHandler(reservations)
	userH := handler.NewUserHandler(users, reservations)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperror.HTTPErrorHandler
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterAvailability(e, availH, cache)
	router.RegisterReservations(e, resH, cfg.JWTSecret)
	router.RegisterUsers(e, userH, cfg.JWTSecret)

	// Background consumer that appends reservation lifecycle events to
	// logs/reservations.log.  It reconnects on its own; a broker outage
	// never takes the API down.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
