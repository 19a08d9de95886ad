package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sitfly/seatswap/config"
	"github.com/sitfly/seatswap/internal/bootstrap"
	"github.com/sitfly/seatswap/internal/cache"
	"github.com/sitfly/seatswap/internal/kafka"
	"github.com/sitfly/seatswap/internal/match"
	"github.com/sitfly/seatswap/internal/repository"
	"github.com/sitfly/seatswap/internal/search"
	"github.com/sitfly/seatswap/internal/service/flights"
	"github.com/sitfly/seatswap/internal/service/swap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment as-is")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	matcher := match.NewClient(cfg.Matching.BaseURL, time.Duration(cfg.Matching.TimeoutSeconds)*time.Second)
	resolver := search.NewResolver(cfg.Swap.HomeAirport)

	swapRepo := repository.NewSwapRepository(pool)
	seatRepo := repository.NewSeatRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)

	flightService := flights.NewFlightService(
		flightRepo,
		redisCache,
		matcher,
		resolver,
		time.Duration(cfg.Swap.SearchCacheTTL)*time.Second,
		cfg.Swap.SuggestionLimit,
	)
	swapService := swap.NewSwapService(
		swapRepo,
		seatRepo,
		redisCache,
		producer,
		cfg.Kafka.SwapEventsTopic,
		time.Duration(cfg.Swap.ExpiryHours)*time.Hour,
		time.Duration(cfg.Swap.LockTTLSeconds)*time.Second,
		swap.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		swap.WithScorer(matcher),
	)

	if err := bootstrap.Run(ctx, cfg, flightService, swapService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
