package turn

import (
	"encoding/json"

	"github.com/yalla-trip/concierge/session"
)

// Intent is the closed-set classification of the user's latest message.
type Intent string

const (
	IntentPlanTrip    Intent = "plan_trip"
	IntentPacking     Intent = "packing"
	IntentAttractions Intent = "attractions"
	IntentChat        Intent = "chat"

	// IntentNone means the router produced no usable intent signal.
	IntentNone Intent = ""
)

// ToolChoice is the router's tool dispatch decision.
type ToolChoice string

const (
	ToolWeather ToolChoice = "weather"
	ToolNone    ToolChoice = "none"
)

// ExtractedUpdates carries the optional partial entity fragments the
// router pulled out of the user's message.
type ExtractedUpdates struct {
	TripSpec    session.FieldUpdate `json:"trip_spec"`
	UserProfile session.FieldUpdate `json:"user_profile"`
}

// Decision is the ephemeral per-turn output of classification. It is never
// persisted. The zero value is the "no signal" sentinel produced when the
// provider could not return valid structured output.
type Decision struct {
	Intent    Intent           `json:"intent"`
	ToolCall  ToolChoice       `json:"tool_call"`
	Reasoning string           `json:"reasoning"`
	Updates   ExtractedUpdates `json:"extracted_updates"`
}

// Empty reports whether the decision is the classification-failure sentinel.
func (d Decision) Empty() bool {
	return d.Intent == IntentNone && d.ToolCall != ToolWeather &&
		len(d.Updates.TripSpec) == 0 && len(d.Updates.UserProfile) == 0
}

// parseDecision decodes router output leniently: absent fields,
// unrecognized enum values, and mis-shaped fragments all degrade to "no
// signal" instead of failing the turn.
func parseDecision(raw json.RawMessage) Decision {
	var d Decision
	if len(raw) == 0 {
		return d
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Decision{}
	}

	var intent string
	if json.Unmarshal(fields["intent"], &intent) == nil {
		switch Intent(intent) {
		case IntentPlanTrip, IntentPacking, IntentAttractions, IntentChat:
			d.Intent = Intent(intent)
		}
	}

	var tool string
	if json.Unmarshal(fields["tool_call"], &tool) == nil && ToolChoice(tool) == ToolWeather {
		d.ToolCall = ToolWeather
	} else {
		d.ToolCall = ToolNone
	}

	_ = json.Unmarshal(fields["reasoning"], &d.Reasoning)

	// Sub-objects decode independently; a fragment that is not a field
	// mapping is simply dropped.
	var updates map[string]json.RawMessage
	if json.Unmarshal(fields["extracted_updates"], &updates) == nil {
		_ = json.Unmarshal(updates["trip_spec"], &d.Updates.TripSpec)
		_ = json.Unmarshal(updates["user_profile"], &d.Updates.UserProfile)
	}

	return d
}

// routerSchema is the closed result schema sent with the classification
// request.
func routerSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"intent": map[string]any{
				"type": "string",
				"enum": []string{"plan_trip", "packing", "attractions", "chat"},
			},
			"extracted_updates": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"trip_spec":    map[string]any{"type": "object"},
					"user_profile": map[string]any{"type": "object"},
				},
			},
			"tool_call": map[string]any{
				"type": "string",
				"enum": []string{"weather", "none"},
			},
			"reasoning": map[string]any{"type": "string"},
		},
		"required": []string{"intent", "tool_call", "reasoning"},
	}
}
