package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/playlens/internal/store"
)

// New builds the configured provider and wraps it as
// breaker -> retry -> recording -> backend, so each attempt is recorded
// and the breaker sees only the final outcome of a retried call.
func New(ctx context.Context, cfg Config, events store.EventRepo, logger *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	pc, _ := cfg.Selected()

	var base Provider
	var err error
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(pc)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(pc)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(pc)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, pc)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	logger = logger.With(zap.String("component", "llm"))
	p := Provider(WithRecording(base, events, logger))
	p = WithRetry(p, cfg.Retry, logger)
	p = WithBreaker(p, cfg.Breaker, logger)
	logger.Debug("llm provider ready",
		zap.String("provider", p.Name()),
		zap.String("model", p.ModelID()),
	)
	return p, nil
}
