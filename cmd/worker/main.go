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
	"github.com/sitfly/seatswap/internal/cache"
	"github.com/sitfly/seatswap/internal/email"
	"github.com/sitfly/seatswap/internal/kafka"
	"github.com/sitfly/seatswap/internal/repository"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	redisCache := cache.NewRedisCache(cfg.Redis)

	swapRepo := repository.NewSwapRepository(pool)
	seatRepo := repository.NewSeatRepository(pool)
	swapService := swap.NewSwapService(
		swapRepo,
		seatRepo,
		redisCache,
		producer,
		cfg.Kafka.SwapEventsTopic,
		time.Duration(cfg.Swap.ExpiryHours)*time.Hour,
		time.Duration(cfg.Swap.LockTTLSeconds)*time.Second,
		swap.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.ConsumeEvents(ctx, emailSender.Send); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	expireTicker := time.NewTicker(time.Duration(cfg.Worker.ExpirationSweepMinutes) * time.Minute)
	defer expireTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-expireTicker.C:
			expired, err := swapService.ExpireOverdue(ctx)
			if err != nil {
				log.Printf("expire swaps error: %v", err)
				continue
			}
			if len(expired) > 0 {
				log.Printf("expired %d swaps", len(expired))
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
