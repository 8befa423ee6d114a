// Package main is the entry point for the stationdesk outbox worker.
// It relays outbox events to RabbitMQ.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stationdesk/internal/config"
	"stationdesk/internal/infrastructure/messaging/amqp"
	"stationdesk/internal/infrastructure/storage/postgres"
	"stationdesk/pkg/logger"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development(),
		Service:     "stationdesk-worker",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.ValidateWorker(); err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting stationdesk outbox worker")

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL,
		postgres.WithMaxConns(4),
		postgres.WithApplicationName("stationdesk-worker"))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	publisher := amqp.NewPublisher(amqp.Config{
		URL:      cfg.AMQPURL,
		Exchange: cfg.AMQPExchange,
	}, amqp.DialAMQP, log)
	defer publisher.Close()

	relayCfg := postgres.DefaultRelayConfig()
	relayCfg.BatchSize = cfg.RelayBatchSize
	relayCfg.MaxRetries = cfg.RelayMaxRetries
	relay := postgres.NewOutboxRelay(postgres.NewTxManager(pool), publisher, relayCfg, log)

	worker := NewWorker(relay, WorkerConfig{
		PollInterval: cfg.RelayInterval,
		Retention:    cfg.OutboxRetention,
	}, log)

	if err := worker.Run(ctx); err != nil {
		log.Errorw("worker stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("worker stopped")
}
