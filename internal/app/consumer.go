package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-vacation/internal/config"
	"go-vacation/internal/events"
	"go-vacation/internal/messaging/kafka/consumer"
	"go-vacation/internal/roster"
	"go-vacation/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const rosterConsumerGroup = "go-vacation-roster-cache"

// RunConsumer keeps cached department rosters warm from roster change events.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	brokers := connection.BrokerList(cfg.KafkaBroker)
	if len(brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	in, err := connect(cfg, true)
	if err != nil {
		return err
	}
	defer closeQuietly(in)

	if in.rdb == nil {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	rosterService := roster.NewServiceWithOutbox(
		in.sqlDB,
		roster.NewRepository(in.gormDB),
		nil,
		in.rdb,
		cfg.RosterCacheTTL,
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        brokers,
		Topic:          events.RosterChangedTopic,
		GroupID:        rosterConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.ConsumeRosterChanged(ctx, reader, rosterService, logger)

	logger.Info("consumer shutting down")
	return nil
}
