package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_ReplaysScriptInOrder(t *testing.T) {
	m := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"n":1}`), Usage: Usage{InputTokens: 3, OutputTokens: 2, TotalTokens: 5}},
		MockResponse{Content: json.RawMessage(`{"n":2}`)},
	)

	first, err := m.Generate(context.Background(), UserPrompt("", "one"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(first.Content) != `{"n":1}` || first.Usage.TotalTokens != 5 {
		t.Fatalf("first = %s %+v", first.Content, first.Usage)
	}
	second, err := m.Generate(context.Background(), UserPrompt("", "two"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(second.Content) != `{"n":2}` {
		t.Fatalf("second = %s", second.Content)
	}

	reqs := m.Requests()
	if len(reqs) != 2 || reqs[1].Messages[0].Content != "two" {
		t.Fatalf("requests not recorded: %+v", reqs)
	}
}

func TestMockProvider_Exhausted(t *testing.T) {
	m := NewMockProvider()
	_, err := m.Generate(context.Background(), Request{})
	if kind, ok := KindOf(err); !ok || kind != KindUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if m.Calls() != 1 {
		t.Fatalf("Calls() = %d", m.Calls())
	}
}

func TestMockProvider_ScriptedError(t *testing.T) {
	boom := errors.New("boom")
	m := NewMockProvider(MockResponse{Err: boom})
	if _, err := m.Generate(context.Background(), Request{}); !errors.Is(err, boom) {
		t.Fatalf("expected scripted error, got %v", err)
	}
}

func TestMockProvider_ChecksSchema(t *testing.T) {
	m := NewMockProvider(MockResponse{Content: json.RawMessage(`{"summary":"x"}`)})
	req := UserPrompt("", "q")
	req.Schema = fixSchema()
	_, err := m.Generate(context.Background(), req)
	if kind, _ := KindOf(err); kind != KindInvalidResponse {
		t.Fatalf("expected invalid response, got %v", err)
	}
}

func TestMockProvider_Push(t *testing.T) {
	m := NewMockProvider()
	m.Push(MockResponse{Content: json.RawMessage(`"late"`)})
	resp, err := m.Generate(context.Background(), Request{})
	if err != nil || string(resp.Content) != `"late"` {
		t.Fatalf("got %v, %v", resp, err)
	}
}
