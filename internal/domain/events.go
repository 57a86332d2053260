package domain

// Event type constants used for event bus subscriptions and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "run.completed")
const (
	// EventTypeRunStarted is published when a run ticket is issued
	EventTypeRunStarted = "run.started"

	// EventTypeRunCompleted is published after a run's rewards are persisted
	EventTypeRunCompleted = "run.completed"

	// EventTypeRunRejected is published when a completion is refused (expired or replayed ticket)
	EventTypeRunRejected = "run.rejected"

	// EventTypeLevelUp is published when a completed run raises the player's level
	EventTypeLevelUp = "player.level_up"

	// EventTypeQuestCompleted is published once per quest claim within a cycle
	EventTypeQuestCompleted = "quest.completed"

	// EventTypeChallengeCompleted is published once per challenge claim within a cycle
	EventTypeChallengeCompleted = "challenge.completed"
)
