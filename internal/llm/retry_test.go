package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func testRetry(p Provider) (*RetryProvider, *[]time.Duration) {
	r := WithRetry(p, RetryConfig{
		MaxAttempts: 3,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     150 * time.Millisecond,
		Multiplier:  2,
	}, nil)
	var waits []time.Duration
	r.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return r, &waits
}

func unavailable() MockResponse {
	return MockResponse{Err: &Error{Kind: KindUnavailable, Err: errors.New("down")}}
}

func okResp() MockResponse {
	return MockResponse{Content: json.RawMessage(`{"ok":true}`)}
}

func TestRetry_FirstAttempt(t *testing.T) {
	defer goleak.VerifyNone(t)
	m := NewMockProvider(okResp())
	r, waits := testRetry(m)

	if _, err := r.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Calls() != 1 || len(*waits) != 0 {
		t.Fatalf("calls = %d, waits = %v", m.Calls(), *waits)
	}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	defer goleak.VerifyNone(t)
	m := NewMockProvider(unavailable(), unavailable(), okResp())
	r, waits := testRetry(m)

	resp, err := r.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Fatalf("content = %s", resp.Content)
	}
	if len(*waits) != 2 {
		t.Fatalf("waits = %v", *waits)
	}
	// second wait is capped at MaxWait before jitter
	if w := (*waits)[1]; w < 120*time.Millisecond || w > 180*time.Millisecond {
		t.Errorf("second wait %v outside jittered cap", w)
	}
}

func TestRetry_GivesUp(t *testing.T) {
	defer goleak.VerifyNone(t)
	m := NewMockProvider(unavailable(), unavailable(), unavailable(), okResp())
	r, _ := testRetry(m)

	_, err := r.Generate(context.Background(), Request{})
	if kind, _ := KindOf(err); kind != KindUnavailable {
		t.Fatalf("expected last error, got %v", err)
	}
	if m.Calls() != 3 {
		t.Fatalf("calls = %d, want 3", m.Calls())
	}
}

func TestRetry_NonRetryableKinds(t *testing.T) {
	defer goleak.VerifyNone(t)
	for _, kind := range []ErrorKind{KindRejected, KindTruncated} {
		t.Run(kind.String(), func(t *testing.T) {
			m := NewMockProvider(MockResponse{Err: &Error{Kind: kind}}, okResp())
			r, _ := testRetry(m)
			if _, err := r.Generate(context.Background(), Request{}); err == nil {
				t.Fatal("expected error")
			}
			if m.Calls() != 1 {
				t.Fatalf("calls = %d, want 1", m.Calls())
			}
		})
	}
}

func TestRetry_InvalidResponseReaskedOnce(t *testing.T) {
	defer goleak.VerifyNone(t)
	bad := MockResponse{Err: &Error{Kind: KindInvalidResponse}}
	m := NewMockProvider(bad, bad, okResp())
	r, _ := testRetry(m)

	_, err := r.Generate(context.Background(), Request{})
	if kind, _ := KindOf(err); kind != KindInvalidResponse {
		t.Fatalf("expected invalid response, got %v", err)
	}
	if m.Calls() != 2 {
		t.Fatalf("calls = %d, want 2", m.Calls())
	}
}

func TestRetry_HonorsRetryAfter(t *testing.T) {
	defer goleak.VerifyNone(t)
	m := NewMockProvider(
		MockResponse{Err: &Error{Kind: KindRateLimited, RetryAfter: 7 * time.Second}},
		okResp(),
	)
	r, waits := testRetry(m)

	if _, err := r.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*waits) != 1 || (*waits)[0] != 7*time.Second {
		t.Fatalf("waits = %v", *waits)
	}
}

func TestRetry_ContextCanceledDuringWait(t *testing.T) {
	defer goleak.VerifyNone(t)
	m := NewMockProvider(unavailable(), okResp())
	r := WithRetry(m, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if m.Calls() != 1 {
		t.Fatalf("calls = %d", m.Calls())
	}
}

func TestRetry_ForwardsIdentity(t *testing.T) {
	r := WithRetry(NewMockProvider(), RetryConfig{}, nil)
	if r.Name() != ProviderMock || r.ModelID() != "mock" {
		t.Fatalf("identity = %s/%s", r.Name(), r.ModelID())
	}
	if r.cfg.MaxAttempts != 1 {
		t.Fatalf("MaxAttempts = %d, want 1", r.cfg.MaxAttempts)
	}
}
