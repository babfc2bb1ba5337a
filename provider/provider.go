// Package provider implements the capability boundary to the language
// model backend: free-form chat completions and schema-guided JSON
// completions over any OpenAI-compatible API (OpenAI cloud or a local
// Ollama endpoint).
package provider

import (
	"context"
	"encoding/json"

	"github.com/yalla-trip/concierge/core/protocol"
)

// Provider executes chat completions against a language model backend.
type Provider interface {
	// Chat runs a free-form completion over the ordered messages and
	// returns the reply text. Transport and API failures are returned as
	// errors and abort the caller's turn.
	Chat(ctx context.Context, messages []protocol.Message) (string, error)

	// ChatJSON runs a completion constrained to emit a JSON object
	// loosely following schema. Malformed output and API errors collapse
	// into the empty sentinel (nil, nil); callers never learn which of
	// the two happened. Only unexpected failures (e.g. a cancelled
	// context) surface as errors.
	ChatJSON(ctx context.Context, messages []protocol.Message, schema map[string]any) (json.RawMessage, error)
}
