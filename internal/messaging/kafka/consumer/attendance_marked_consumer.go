package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"platoon-pulse/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type DashboardInvalidator interface {
	InvalidateForCadet(ctx context.Context, cadetID string) error
}

func errMissingField(field string) error {
	return fmt.Errorf("%s is missing", field)
}

// AttendanceMarkedHandler drops the cached dashboards an attendance change affects.
func AttendanceMarkedHandler(dashboards DashboardInvalidator, logger *zap.Logger) HandlerFunc {
	log := logger.Named("kafka.consumer.attendance_marked")
	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.AttendanceMarkedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return undecodable(err)
		}
		if event.CadetID == "" {
			return undecodable(errMissingField("cadet_id"))
		}

		if err := dashboards.InvalidateForCadet(ctx, event.CadetID); err != nil {
			return err
		}

		log.Debug("dashboards invalidated",
			zap.String("cadet_id", event.CadetID),
			zap.String("session_id", event.SessionID),
			zap.String("mark", event.Mark),
		)
		return nil
	}
}
