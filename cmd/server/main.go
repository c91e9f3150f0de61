package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-seat-reservation/internal/config"
	"github.com/iliyamo/library-seat-reservation/internal/database"
	"github.com/iliyamo/library-seat-reservation/internal/handler"
	"github.com/iliyamo/library-seat-reservation/internal/middleware"
	"github.com/iliyamo/library-seat-reservation/internal/notify"
	"github.com/iliyamo/library-seat-reservation/internal/occupancy"
	"github.com/iliyamo/library-seat-reservation/internal/queue"
	"github.com/iliyamo/library-seat-reservation/internal/repository"
	"github.com/iliyamo/library-seat-reservation/internal/reservation"
	"github.com/iliyamo/library-seat-reservation/internal/router"
	queue_publisher "github.com/iliyamo/library-seat-reservation/internal/service"
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

	seats := repository.NewSeatRepo(db)
	samples := repository.NewOccupancyRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	ctx := context.Background()
	if err := seats.Seed(ctx, cfg.SeatCount); err != nil {
		log.Fatalf("seat seed: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	pub := queue_publisher.NewPublisher()
	defer pub.Close()

	engine := reservation.NewEngine(seats, reservation.SystemClock(), pub)

	if sc := config.LoadSweeperConfig(); sc.Enabled {
		sweeper := reservation.NewSweeper(engine, seats, reservation.SystemClock(), sc.Interval)
		go sweeper.Run(ctx)
	}
	if sc := config.LoadSamplerConfig(); sc.Enabled {
		sampler := occupancy.NewSampler(seats, samples, sc.Interval)
		go sampler.Run(ctx)
	}

	// Broker consumer: drop any cached seat or analytics responses,
	// then fan out to in-process subscribers (the SSE event stream).
	bridge := notify.NewBridge()
	cacheCfg := config.LoadCacheConfig()
	consumer := &queue.SeatChangedConsumer{
		URL: queue_publisher.BrokerURL(),
		Deliver: func(ev queue.SeatChangedEvent) {
			// Evict first so subscribers re-reading on the signal
			// never see the pre-change cached response.
			if err := middleware.InvalidatePrefix(ctx, rdb, cacheCfg.Prefix); err != nil {
				log.Printf("cache invalidate: %v", err)
			}
			bridge.Publish(ev)
		},
	}
	go func() {
		if err := consumer.Start(); err != nil {
			log.Printf("seat.changed consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Deps{
		Cfg:       cfg,
		Auth:      handler.NewAuthHandler(users, tokens, cfg),
		Seats:     handler.NewSeatHandler(engine, seats),
		Stats:     handler.NewStatsHandler(seats, config.LoadFacilityConfig()),
		Analytics: handler.NewAnalyticsHandler(samples),
		Events:    handler.NewEventsHandler(bridge),
		Redis:     rdb,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
