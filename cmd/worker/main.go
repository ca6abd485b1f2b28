package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/unclebandit/relief-campaign/internal/config"
	"github.com/unclebandit/relief-campaign/internal/logger"
	"github.com/unclebandit/relief-campaign/internal/queue"
	"github.com/unclebandit/relief-campaign/internal/service"
	"github.com/unclebandit/relief-campaign/internal/transport"
)

// The worker drains SMS jobs published by the server in amqp mode.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	q, err := queue.DialAMQP(cfg.SMS.AMQPURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer q.Close()

	worker := service.NewSMSWorker(&transport.SimulatedSMS{Log: log.WithComponent("sms_gateway")}, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("queue", cfg.SMS.Queue).Msg("worker running, waiting for messages...")
	if err := q.Consume(ctx, cfg.SMS.Queue, worker.Handle); err != nil {
		log.Error().Err(err).Msg("consumer stopped")
		return
	}
	log.Info().Msg("worker stopped")
}
