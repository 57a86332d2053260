package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Run metric names
const (
	MetricNameRunsStarted         = "runs_started_total"
	MetricNameRunsCompleted       = "runs_completed_total"
	MetricNameRunsRejected        = "runs_rejected_total"
	MetricNameRunScore            = "run_adjusted_score"
	MetricNameXPAwarded           = "xp_awarded_total"
	MetricNameCurrencyAwarded     = "currency_awarded_total"
	MetricNameLevelUps            = "level_ups_total"
	MetricNameQuestsCompleted     = "quests_completed_total"
	MetricNameChallengesCompleted = "challenges_completed_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Run metric help text
const (
	HelpTextRunsStarted         = "Total number of run tickets issued"
	HelpTextRunsCompleted       = "Total number of runs converted into rewards"
	HelpTextRunsRejected        = "Total number of refused run completions"
	HelpTextRunScore            = "Adjusted score of completed runs"
	HelpTextXPAwarded           = "Total XP awarded by completed runs"
	HelpTextCurrencyAwarded     = "Total currency awarded by completed runs"
	HelpTextLevelUps            = "Total number of levels gained"
	HelpTextQuestsCompleted     = "Total number of quest claims"
	HelpTextChallengesCompleted = "Total number of challenge claims"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelMode   = "mode"
	LabelReason = "reason"
	LabelQuest  = "quest"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// RunScoreBuckets spans a short warm-up run up to a record-setting one.
var RunScoreBuckets = []float64{100, 500, 1_000, 2_500, 5_000, 10_000, 25_000, 50_000, 100_000, 500_000}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadUnreadable = "Event payload could not be decoded"
	LogMsgMetricsRecorded        = "Metrics recorded for event"
)
