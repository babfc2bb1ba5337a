package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/yalla-trip/concierge/core/protocol"
)

const jsonInstruction = "\n\nIMPORTANT: You must respond with valid JSON only. No markdown, no explanation."

// OpenAIProvider talks to an OpenAI-compatible chat completions endpoint
// via the official SDK. Classification runs at temperature 0; free-form
// replies use the configured temperature.
type OpenAIProvider struct {
	client      openai.Client
	backend     string
	model       string
	temperature float64
}

// NewOpenAI creates a provider from configuration.
func NewOpenAI(cfg *Config) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(
			option.WithAPIKey(cfg.apiKey()),
			option.WithBaseURL(cfg.baseURL()),
		),
		backend:     cfg.Backend,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

func (p *OpenAIProvider) Chat(ctx context.Context, messages []protocol.Message) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Messages:    toUnion(messages),
		Temperature: openai.Float(p.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) ChatJSON(ctx context.Context, messages []protocol.Message, schema map[string]any) (json.RawMessage, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Messages:    toUnion(withJSONInstruction(messages, schema)),
		Temperature: openai.Float(0),
	}

	// Native JSON mode is only reliable on the OpenAI backend; local
	// models get the schema spelled out in the system instruction instead.
	if p.backend == BackendOpenAI && schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apierr *openai.Error
		if errors.As(err, &apierr) {
			return nil, nil
		}
		return nil, fmt.Errorf("json completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, nil
	}

	content := stripFences(resp.Choices[0].Message.Content)
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &obj); err != nil {
		return nil, nil
	}
	return json.RawMessage(content), nil
}

// withJSONInstruction appends the JSON-only instruction (and the schema,
// when given) to the leading system message, inserting one when absent.
func withJSONInstruction(messages []protocol.Message, schema map[string]any) []protocol.Message {
	instruction := jsonInstruction
	if schema != nil {
		if data, err := json.MarshalIndent(schema, "", "  "); err == nil {
			instruction += " Follow this schema:\n" + string(data)
		}
	}

	out := make([]protocol.Message, len(messages))
	copy(out, messages)

	if len(out) > 0 && out[0].Role == protocol.RoleSystem {
		out[0].Content += instruction
		return out
	}
	return append([]protocol.Message{protocol.NewMessage(protocol.RoleSystem, instruction)}, out...)
}

// stripFences removes a wrapping markdown code block, which smaller local
// models add despite the JSON-only instruction.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	if i := strings.IndexByte(content, '\n'); i >= 0 {
		content = content[i+1:]
	} else {
		content = content[3:]
	}
	if i := strings.LastIndex(content, "```"); i >= 0 {
		content = content[:i]
	}
	return strings.TrimSpace(content)
}

func toUnion(messages []protocol.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case protocol.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case protocol.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
