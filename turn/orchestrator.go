// Package turn implements the turn-processing pipeline of the travel
// concierge: classification, partial-state merge, conditional tool
// dispatch, response synthesis, and persistence, in that fixed order,
// for exactly one turn per call.
package turn

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yalla-trip/concierge/core/protocol"
	"github.com/yalla-trip/concierge/observability"
	"github.com/yalla-trip/concierge/prompts"
	"github.com/yalla-trip/concierge/provider"
	"github.com/yalla-trip/concierge/session"
	"github.com/yalla-trip/concierge/tools"
)

// DefaultContextWindow is the number of trailing history records included
// in the response-synthesis prompt.
const DefaultContextWindow = 5

// Fixed in-band notices substituted for tool output when weather was
// requested but cannot be fetched.
const (
	noticeNoDestination = "System: Destination unknown, cannot fetch weather."
	noticeNoCoordinates = "System: Could not find coordinates for %s. Cannot fetch weather."
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver overrides the default NoOpObserver.
func WithObserver(o observability.Observer) Option {
	return func(t *Orchestrator) { t.observer = o }
}

// WithContextWindow overrides the trailing history record count used in
// the response prompt.
func WithContextWindow(n int) Option {
	return func(t *Orchestrator) { t.window = n }
}

// Orchestrator drives one conversational turn at a time. Dependencies are
// injected at construction; the orchestrator itself holds no per-session
// state.
//
// Concurrent turns for different sessions are independent. Concurrent
// turns for the same session race on load/save with last-writer-wins
// semantics; callers needing isolation must serialize per session.
type Orchestrator struct {
	provider provider.Provider
	store    session.Store
	lookup   tools.Lookup
	observer observability.Observer
	window   int
}

// New creates an Orchestrator with the given collaborators.
func New(p provider.Provider, store session.Store, lookup tools.Lookup, opts ...Option) *Orchestrator {
	t := &Orchestrator{
		provider: p,
		store:    store,
		lookup:   lookup,
		observer: observability.NoOpObserver{},
		window:   DefaultContextWindow,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ProcessTurn runs one turn for the session: load state, classify the
// message, merge extracted updates, dispatch the weather tool when asked,
// synthesize a reply, and persist. Returns the reply text, or an error
// when the provider or store fails fatally, in which case no history is
// persisted for this turn.
func (t *Orchestrator) ProcessTurn(ctx context.Context, sessionID, userText string) (string, error) {
	t.emit(ctx, EventTurnStart, observability.LevelInfo, map[string]any{
		"session_id": sessionID,
	})

	state, err := t.store.Load(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load session %s: %w", sessionID, err)
	}
	state.History = append(state.History, protocol.NewMessage(protocol.RoleUser, userText))

	decision, err := t.classify(ctx, sessionID, state, userText)
	if err != nil {
		return "", err
	}

	t.merge(ctx, sessionID, state, decision.Updates)

	toolOutput := t.dispatchTool(ctx, sessionID, state, decision.ToolCall)

	reply, err := t.respond(ctx, state, toolOutput)
	if err != nil {
		return "", err
	}

	state.History = append(state.History, protocol.NewMessage(protocol.RoleAssistant, reply))
	if err := t.store.Save(ctx, sessionID, state); err != nil {
		return "", fmt.Errorf("save session %s: %w", sessionID, err)
	}

	t.emit(ctx, EventTurnComplete, observability.LevelInfo, map[string]any{
		"session_id":   sessionID,
		"reply_length": len(reply),
	})
	return reply, nil
}

func (t *Orchestrator) classify(ctx context.Context, sessionID string, state *session.State, userText string) (Decision, error) {
	messages := []protocol.Message{
		protocol.NewMessage(protocol.RoleSystem,
			prompts.Router(marshalJSON(state.UserProfile), marshalJSON(state.TripSpec))),
		protocol.NewMessage(protocol.RoleUser, "User's latest message: "+userText),
	}

	raw, err := t.provider.ChatJSON(ctx, messages, routerSchema())
	if err != nil {
		return Decision{}, fmt.Errorf("classify turn: %w", err)
	}
	if raw == nil {
		// Classification failure is non-fatal: proceed with no intent,
		// no updates, no tool call.
		t.emit(ctx, EventClassifyDegraded, observability.LevelWarn, map[string]any{
			"session_id": sessionID,
		})
		return Decision{}, nil
	}

	decision := parseDecision(raw)
	t.emit(ctx, EventClassified, observability.LevelInfo, map[string]any{
		"session_id": sessionID,
		"intent":     string(decision.Intent),
		"tool_call":  string(decision.ToolCall),
	})
	return decision, nil
}

// merge applies the extracted fragments onto the state entities. A
// fragment that fails validation leaves its entity exactly as it was; the
// other entity's merge is unaffected.
func (t *Orchestrator) merge(ctx context.Context, sessionID string, state *session.State, updates ExtractedUpdates) {
	if len(updates.TripSpec) > 0 {
		merged, err := session.MergeTripSpec(state.TripSpec, updates.TripSpec)
		if err != nil {
			t.emit(ctx, EventMergeRejected, observability.LevelWarn, map[string]any{
				"session_id": sessionID,
				"entity":     "trip_spec",
				"error":      err.Error(),
			})
		} else {
			state.TripSpec = merged
		}
	}

	if len(updates.UserProfile) > 0 {
		merged, err := session.MergeUserProfile(state.UserProfile, updates.UserProfile)
		if err != nil {
			t.emit(ctx, EventMergeRejected, observability.LevelWarn, map[string]any{
				"session_id": sessionID,
				"entity":     "user_profile",
				"error":      err.Error(),
			})
		} else {
			state.UserProfile = merged
		}
	}
}

// dispatchTool invokes the lookup at most once per turn. Any tool choice
// other than weather yields empty output with no call made.
func (t *Orchestrator) dispatchTool(ctx context.Context, sessionID string, state *session.State, choice ToolChoice) string {
	if choice != ToolWeather {
		return ""
	}

	if state.TripSpec.Destination == nil {
		t.emit(ctx, EventToolSkipped, observability.LevelWarn, map[string]any{
			"session_id": sessionID,
			"tool":       "weather",
			"reason":     "no_destination",
		})
		return noticeNoDestination
	}

	dest := *state.TripSpec.Destination
	place, err := t.lookup.ResolvePlace(ctx, dest)
	if err != nil || place == nil {
		t.emit(ctx, EventToolFailed, observability.LevelWarn, map[string]any{
			"session_id":  sessionID,
			"tool":        "weather",
			"destination": dest,
			"reason":      "geocode_failed",
		})
		return fmt.Sprintf(noticeNoCoordinates, dest)
	}

	return t.lookup.Forecast(ctx, place.Latitude, place.Longitude)
}

func (t *Orchestrator) respond(ctx context.Context, state *session.State, toolOutput string) (string, error) {
	messages := make([]protocol.Message, 0, t.window+1)
	messages = append(messages, protocol.NewMessage(protocol.RoleSystem,
		prompts.Response(marshalJSON(state.UserProfile), marshalJSON(state.TripSpec), toolOutput)))
	messages = append(messages, state.Window(t.window)...)

	reply, err := t.provider.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("synthesize reply: %w", err)
	}

	reply = unwrapQuotes(reply)
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

// unwrapQuotes strips one pair of wrapping quote characters when the reply
// both starts and ends with one. A shallow unwrap only, no unescaping.
func unwrapQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func (t *Orchestrator) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	t.observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "turn.ProcessTurn",
		Data:      data,
	})
}

func marshalJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
