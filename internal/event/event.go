package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/RiftRunner_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata carries request-scoped context that is not part of the payload
type Metadata map[string]string

// Event represents a generic event in the system
type Event struct {
	Version  string   `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type     `json:"type"`
	Payload  any      `json:"payload"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// Run lifecycle event types
const (
	RunStarted         Type = domain.EventTypeRunStarted
	RunCompleted       Type = domain.EventTypeRunCompleted
	RunRejected        Type = domain.EventTypeRunRejected
	LevelUp            Type = domain.EventTypeLevelUp
	QuestCompleted     Type = domain.EventTypeQuestCompleted
	ChallengeCompleted Type = domain.EventTypeChallengeCompleted
)

// RunStartedPayloadV1 is the typed payload for run.started events
type RunStartedPayloadV1 struct {
	Scope     string      `json:"scope"`
	Username  string      `json:"username"`
	Mode      domain.Mode `json:"mode"`
	Seed      uint32      `json:"seed"`
	Timestamp int64       `json:"timestamp"`
}

// RunCompletedPayloadV1 is the typed payload for run.completed events
type RunCompletedPayloadV1 struct {
	Scope          string      `json:"scope"`
	Username       string      `json:"username"`
	Mode           domain.Mode `json:"mode"`
	Score          int64       `json:"score"`
	XPGained       int         `json:"xp_gained"`
	CurrencyGained int         `json:"currency_gained"`
	LevelUps       int         `json:"level_ups"`
	DurationMs     int64       `json:"duration_ms"`
	Timestamp      int64       `json:"timestamp"`
}

// RunRejectedPayloadV1 is the typed payload for run.rejected events
type RunRejectedPayloadV1 struct {
	Scope     string `json:"scope"`
	Username  string `json:"username"`
	Reason    string `json:"reason"`
	Timestamp int64  `json:"timestamp"`
}

// LevelUpPayloadV1 is the typed payload for player.level_up events
type LevelUpPayloadV1 struct {
	Scope     string `json:"scope"`
	Username  string `json:"username"`
	OldLevel  int    `json:"old_level"`
	NewLevel  int    `json:"new_level"`
	Timestamp int64  `json:"timestamp"`
}

// QuestCompletedPayloadV1 is the typed payload for quest.completed events
type QuestCompletedPayloadV1 struct {
	Scope     string `json:"scope"`
	Username  string `json:"username"`
	QuestID   string `json:"quest_id"`
	Timestamp int64  `json:"timestamp"`
}

// ChallengeCompletedPayloadV1 is the typed payload for challenge.completed events
type ChallengeCompletedPayloadV1 struct {
	Scope       string      `json:"scope"`
	Username    string      `json:"username"`
	Mode        domain.Mode `json:"mode"`
	CycleKey    string      `json:"cycle_key"`
	RewardBonus int         `json:"reward_bonus"`
	Timestamp   int64       `json:"timestamp"`
}

func newEvent(t Type, payload any) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: payload,
	}
}

// NewRunStartedEvent creates a run.started event
func NewRunStartedEvent(session *domain.RunSession) Event {
	return newEvent(RunStarted, RunStartedPayloadV1{
		Scope:     session.Scope,
		Username:  session.Username,
		Mode:      session.Mode,
		Seed:      session.Seed,
		Timestamp: session.StartedAt.Unix(),
	})
}

// NewRunCompletedEvent creates a run.completed event
func NewRunCompletedEvent(session *domain.RunSession, result *domain.RunResult) Event {
	return newEvent(RunCompleted, RunCompletedPayloadV1{
		Scope:          session.Scope,
		Username:       session.Username,
		Mode:           result.Mode,
		Score:          result.Score,
		XPGained:       result.Reward.XPGained,
		CurrencyGained: result.Reward.CurrencyGained,
		LevelUps:       result.Reward.LevelUps,
		DurationMs:     result.CompletedAt.Sub(session.StartedAt).Milliseconds(),
		Timestamp:      result.CompletedAt.Unix(),
	})
}

// NewRunRejectedEvent creates a run.rejected event
func NewRunRejectedEvent(scope, username, reason string, at time.Time) Event {
	return newEvent(RunRejected, RunRejectedPayloadV1{
		Scope:     scope,
		Username:  username,
		Reason:    reason,
		Timestamp: at.Unix(),
	})
}

// NewLevelUpEvent creates a player.level_up event
func NewLevelUpEvent(scope, username string, oldLevel, newLevel int, at time.Time) Event {
	return newEvent(LevelUp, LevelUpPayloadV1{
		Scope:     scope,
		Username:  username,
		OldLevel:  oldLevel,
		NewLevel:  newLevel,
		Timestamp: at.Unix(),
	})
}

// NewQuestCompletedEvent creates a quest.completed event
func NewQuestCompletedEvent(scope, username, questID string, at time.Time) Event {
	return newEvent(QuestCompleted, QuestCompletedPayloadV1{
		Scope:     scope,
		Username:  username,
		QuestID:   questID,
		Timestamp: at.Unix(),
	})
}

// NewChallengeCompletedEvent creates a challenge.completed event
func NewChallengeCompletedEvent(scope, username string, ch domain.ChallengeSnapshot, at time.Time) Event {
	return newEvent(ChallengeCompleted, ChallengeCompletedPayloadV1{
		Scope:       scope,
		Username:    username,
		Mode:        ch.Mode,
		CycleKey:    ch.Key,
		RewardBonus: ch.RewardBonus,
		Timestamp:   at.Unix(),
	})
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber synchronously and reports their combined failures.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
