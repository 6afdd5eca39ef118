package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/abhisek/playlens/internal/store"
)

func openEventRepo(t *testing.T) store.EventRepo {
	t.Helper()
	s, err := store.Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.EventRepo()
}

func TestRecording_WritesEvents(t *testing.T) {
	events := openEventRepo(t)
	m := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"summary":"s","fixes":["f"]}`), Usage: Usage{InputTokens: 12, OutputTokens: 4}},
		MockResponse{Err: &Error{Kind: KindRejected, Err: errors.New("bad key")}},
	)
	p := WithRecording(m, events, zap.NewNop())
	ctx := WithPurpose(context.Background(), PurposeExplain)

	req := UserPrompt("be brief", "why do learners quit?")
	req.Schema = fixSchema()
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, UserPrompt("", "again")); err == nil {
		t.Fatal("expected error")
	}

	got, err := events.QueryLLMEvents(context.Background(), store.QueryOpts{Purpose: PurposeExplain})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	// newest first
	failed, succeeded := got[0], got[1]
	if failed.Success || !strings.Contains(failed.ErrorMessage, "bad key") {
		t.Errorf("failed event = %+v", failed)
	}
	if !succeeded.Success || succeeded.InputTokens != 12 || succeeded.OutputTokens != 4 {
		t.Errorf("succeeded event = %+v", succeeded)
	}
	if succeeded.Provider != ProviderMock || succeeded.Model != "mock" {
		t.Errorf("provider/model = %s/%s", succeeded.Provider, succeeded.Model)
	}
	for _, want := range []string{"[system]\nbe brief", "[user]\nwhy do learners quit?", "[schema: test-fix]"} {
		if !strings.Contains(succeeded.RequestBody, want) {
			t.Errorf("request body missing %q:\n%s", want, succeeded.RequestBody)
		}
	}
}

func TestRecording_NilRepo(t *testing.T) {
	p := WithRecording(NewMockProvider(okResp()), nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPurposeFrom(t *testing.T) {
	if got := PurposeFrom(context.Background()); got != PurposeUnknown {
		t.Errorf("PurposeFrom(empty) = %q", got)
	}
	if got := PurposeFrom(WithPurpose(context.Background(), "x")); got != "x" {
		t.Errorf("PurposeFrom = %q", got)
	}
}
