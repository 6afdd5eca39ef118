package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one prompt to a model and returns its answer.
type Provider interface {
	// Generate runs req. When req.Schema is set the provider asks the
	// model for JSON in that shape and validates the answer before
	// returning it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name is the backend name, e.g. "anthropic".
	Name() string

	// ModelID is the model the provider is configured to call.
	ModelID() string
}

// Request is a single prompt.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the author of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a JSON Schema the answer must satisfy. Name doubles as the
// tool or schema name on backends that need one and as the cache key for
// the compiled schema, so it must be unique per Definition.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the model's answer.
type Response struct {
	// Content is the validated JSON object when a Schema was given, the
	// raw text otherwise.
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is "end" or "max_tokens".
	StopReason string
}

// Usage counts tokens for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// UserPrompt is shorthand for a request with one user message.
func UserPrompt(system, user string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: user}},
	}
}

// resolveModel maps a short alias to a full model ID. Unknown names pass
// through unchanged.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
