package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func anthropicServer(t *testing.T, status int, body map[string]any) *AnthropicProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	p, err := NewAnthropicProvider(ProviderConfig{APIKey: "test-key", Model: "claude-haiku", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewAnthropicProvider: %v", err)
	}
	return p
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-haiku-4-5",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func TestAnthropicProvider_StructuredAnswer(t *testing.T) {
	p := anthropicServer(t, http.StatusOK, anthropicMessage(`{"summary":"s","fixes":["add a hint"]}`, "end_turn"))
	if p.ModelID() != "claude-haiku-4-5" {
		t.Fatalf("alias not resolved: %s", p.ModelID())
	}

	req := UserPrompt("You review lessons.", "Explain this playthrough.")
	req.Schema = fixSchema()
	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 50 || resp.Usage.TotalTokens != 80 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if resp.StopReason != "end" {
		t.Errorf("StopReason = %q", resp.StopReason)
	}
}

func TestAnthropicProvider_SchemaMismatch(t *testing.T) {
	p := anthropicServer(t, http.StatusOK, anthropicMessage(`{"summary":"s"}`, "end_turn"))
	req := UserPrompt("", "q")
	req.Schema = fixSchema()
	_, err := p.Generate(context.Background(), req)
	if kind, _ := KindOf(err); kind != KindInvalidResponse {
		t.Fatalf("expected invalid response, got %v", err)
	}
}

func TestAnthropicProvider_Truncated(t *testing.T) {
	p := anthropicServer(t, http.StatusOK, anthropicMessage(`{"summary":"s`, "max_tokens"))
	req := UserPrompt("", "q")
	req.Schema = fixSchema()
	_, err := p.Generate(context.Background(), req)
	if kind, _ := KindOf(err); kind != KindTruncated {
		t.Fatalf("expected truncated, got %v", err)
	}
}

func TestAnthropicProvider_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusUnauthorized, KindRejected},
		{http.StatusInternalServerError, KindUnavailable},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			p := anthropicServer(t, tt.status, map[string]any{
				"type":  "error",
				"error": map[string]any{"type": "some_error", "message": "nope"},
			})
			_, err := p.Generate(context.Background(), UserPrompt("", "q"))
			if kind, ok := KindOf(err); !ok || kind != tt.want {
				t.Fatalf("kind = %v (%v), want %v; err = %v", kind, ok, tt.want, err)
			}
		})
	}
}

func TestNewAnthropicProvider_RequiresKey(t *testing.T) {
	if _, err := NewAnthropicProvider(ProviderConfig{}); err == nil {
		t.Fatal("expected error without API key")
	}
}
