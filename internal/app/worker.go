package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-vacation/internal/config"
	"go-vacation/internal/messaging/kafka"
	"go-vacation/internal/messaging/kafka/producer"
	"go-vacation/internal/shared/connection"

	"go.uber.org/zap"
)

const outboxPollInterval = 3 * time.Second

// RunWorker relays pending outbox rows to kafka until SIGINT or SIGTERM.
func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("app.worker")

	brokers := connection.BrokerList(cfg.KafkaBroker)
	if len(brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	in, err := connect(cfg, false)
	if err != nil {
		return err
	}
	defer closeQuietly(in)

	kafkaWriter, err := connection.ConnectKafkaWithRetry(brokers, cfg.Database.MaxRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(in.sqlDB)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, logger, outboxPollInterval)

	logger.Info("worker shutting down")
	return nil
}
