package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-vacation/internal/events"
	rostererrors "go-vacation/internal/roster/errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers use.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type RosterWarmer interface {
	WarmDepartmentRoster(ctx context.Context, companyID string, deptID int64) error
}

// ConsumeRosterChanged rebuilds the cached department roster for every
// roster change until ctx is cancelled.
func ConsumeRosterChanged(
	ctx context.Context,
	reader MessageReader,
	warmer RosterWarmer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.roster_changed")
	log.Info("roster consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("roster consumer stopped")
				return
			}
			log.Error("fetch roster message failed", zap.Error(err))
			continue
		}

		var event events.RosterChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode roster event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := warmer.WarmDepartmentRoster(ctx, event.CompanyID, event.DepartmentID); err != nil {
			if errors.Is(err, rostererrors.ErrDepartmentNotFound) {
				log.Warn("department gone, skipping roster warm",
					zap.String("company_id", event.CompanyID),
					zap.Int64("department_id", event.DepartmentID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("warm department roster failed",
				zap.String("company_id", event.CompanyID),
				zap.Int64("department_id", event.DepartmentID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit roster message failed", zap.Error(err))
			continue
		}

		log.Info("department roster warmed",
			zap.String("event_type", event.EventType),
			zap.String("request_id", event.RequestID),
			zap.String("company_id", event.CompanyID),
			zap.Int64("department_id", event.DepartmentID),
		)
	}
}
