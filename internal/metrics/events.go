package metrics

import (
	"context"

	"github.com/osse101/RiftRunner_Go/internal/event"
	"github.com/osse101/RiftRunner_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all run lifecycle events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.RunStarted,
		event.RunCompleted,
		event.RunRejected,
		event.LevelUp,
		event.QuestCompleted,
		event.ChallengeCompleted,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	if err := record(evt); err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		log.Debug(LogMsgEventPayloadUnreadable, "type", evt.Type, "error", err)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

func record(evt event.Event) error {
	switch evt.Type {
	case event.RunStarted:
		p, err := event.DecodePayload[event.RunStartedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		RunsStarted.WithLabelValues(string(p.Mode)).Inc()

	case event.RunCompleted:
		p, err := event.DecodePayload[event.RunCompletedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		RunsCompleted.WithLabelValues(string(p.Mode)).Inc()
		RunScore.WithLabelValues(string(p.Mode)).Observe(float64(p.Score))
		XPAwarded.Add(float64(p.XPGained))
		CurrencyAwarded.Add(float64(p.CurrencyGained))

	case event.RunRejected:
		p, err := event.DecodePayload[event.RunRejectedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		RunsRejected.WithLabelValues(p.Reason).Inc()

	case event.LevelUp:
		p, err := event.DecodePayload[event.LevelUpPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		LevelUps.Add(float64(max(0, p.NewLevel-p.OldLevel)))

	case event.QuestCompleted:
		p, err := event.DecodePayload[event.QuestCompletedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		QuestsCompleted.WithLabelValues(p.QuestID).Inc()

	case event.ChallengeCompleted:
		p, err := event.DecodePayload[event.ChallengeCompletedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		ChallengesCompleted.WithLabelValues(string(p.Mode)).Inc()
	}
	return nil
}
