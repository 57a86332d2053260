package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/RiftRunner_Go/internal/event"
	"github.com/osse101/RiftRunner_Go/internal/logger"
	"github.com/osse101/RiftRunner_Go/internal/metrics"
)

// auditedEvents are written to the debug log as they are published
var auditedEvents = []event.Type{
	event.RunStarted,
	event.RunCompleted,
	event.RunRejected,
	event.LevelUp,
	event.QuestCompleted,
	event.ChallengeCompleted,
}

// RegisterEventHandlers subscribes the metrics collector and the audit
// logger to the bus.
func RegisterEventHandlers(bus event.Bus) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(bus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	for _, t := range auditedEvents {
		bus.Subscribe(t, auditEvent)
	}
	slog.Info(LogMsgEventAuditRegistered, "types", len(auditedEvents))

	return nil
}

func auditEvent(ctx context.Context, evt event.Event) error {
	logger.FromContext(ctx).Debug(LogMsgEventAudit,
		"event_type", evt.Type,
		"version", evt.Version,
		"payload", evt.Payload)
	return nil
}
