package turn

import "github.com/yalla-trip/concierge/observability"

// Event types emitted during turn processing.
const (
	EventTurnStart        observability.EventType = "turn.start"
	EventClassified       observability.EventType = "turn.classified"
	EventClassifyDegraded observability.EventType = "turn.classify.degraded"
	EventMergeRejected    observability.EventType = "turn.merge.rejected"
	EventToolSkipped      observability.EventType = "turn.tool.skipped"
	EventToolFailed       observability.EventType = "turn.tool.failed"
	EventTurnComplete     observability.EventType = "turn.complete"
)
