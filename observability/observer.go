// Package observability carries structured events out of the turn pipeline.
// Non-fatal conditions (a degraded classification, a rejected merge, a
// skipped tool) surface as events rather than errors, so the orchestrator's
// control flow never branches on how they are reported.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level is event severity. Values mirror log/slog levels so emission needs
// no translation.
type Level slog.Level

const (
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// EventType identifies the kind of event. Each package defines its own
// constants (e.g. "turn.tool.skipped").
type EventType string

// Event is a single observability record emitted by the pipeline.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events for logging, tracing, or metrics.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}
