package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/playlens/internal/store"
)

// RecordingProvider writes every request, successful or not, to the LLM
// request log and to the structured logger.
type RecordingProvider struct {
	inner  Provider
	events store.EventRepo
	logger *zap.Logger
	now    func() time.Time
}

// WithRecording wraps p. A nil events repo only logs.
func WithRecording(p Provider, events store.EventRepo, logger *zap.Logger) *RecordingProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordingProvider{inner: p, events: events, logger: logger, now: time.Now}
}

func (r *RecordingProvider) Name() string    { return r.inner.Name() }
func (r *RecordingProvider) ModelID() string { return r.inner.ModelID() }

func (r *RecordingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	started := r.now()
	resp, err := r.inner.Generate(ctx, req)
	elapsed := r.now().Sub(started)

	ev := store.LLMRequestEventData{
		Provider:    r.inner.Name(),
		Model:       r.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   elapsed.Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	fields := []zap.Field{
		zap.String("provider", ev.Provider),
		zap.String("model", ev.Model),
		zap.String("purpose", ev.Purpose),
		zap.Duration("latency", elapsed),
		zap.Int("input_tokens", ev.InputTokens),
		zap.Int("output_tokens", ev.OutputTokens),
	}
	if err != nil {
		r.logger.Warn("llm request failed", append(fields, zap.Error(err))...)
	} else {
		r.logger.Debug("llm request", fields...)
	}

	if r.events != nil {
		// A broken request log must not fail the request itself.
		if lerr := r.events.AppendLLMRequest(ctx, ev); lerr != nil {
			r.logger.Warn("recording llm request", zap.Error(lerr))
		}
	}
	return resp, err
}

// transcript renders req the way it is shown in `playlens llm view`.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
