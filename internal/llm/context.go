package llm

import "context"

type purposeKey struct{}

// Purposes recorded with each request.
const (
	PurposeExplain = "explain"
	PurposeUnknown = "unknown"
)

// WithPurpose labels the requests made with ctx, so the request log can be
// broken down by feature.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return PurposeUnknown
}
