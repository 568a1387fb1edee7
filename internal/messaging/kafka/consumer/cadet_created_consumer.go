package consumer

import (
	"context"
	"encoding/json"

	"platoon-pulse/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MedicalRecordInitializer interface {
	InitializeForCadet(ctx context.Context, cadetID string) (created bool, err error)
}

// CadetCreatedHandler opens an empty medical record for every new cadet.
func CadetCreatedHandler(medical MedicalRecordInitializer, logger *zap.Logger) HandlerFunc {
	log := logger.Named("kafka.consumer.cadet_created")
	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.CadetCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return undecodable(err)
		}
		if event.CadetID == "" {
			return undecodable(errMissingField("cadet_id"))
		}

		created, err := medical.InitializeForCadet(ctx, event.CadetID)
		if err != nil {
			return err
		}
		if !created {
			log.Warn("medical record already exists for cadet, skipping",
				zap.String("cadet_id", event.CadetID),
				zap.String("request_id", event.RequestID),
			)
			return nil
		}

		log.Info("medical record created from cadet_created event",
			zap.String("cadet_id", event.CadetID),
			zap.String("request_id", event.RequestID),
		)
		return nil
	}
}
