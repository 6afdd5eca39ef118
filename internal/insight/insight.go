// Package insight asks a language model to explain a stored playthrough
// to the lesson author and suggest edits.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/playlens/internal/actionrender"
	"github.com/abhisek/playlens/internal/exploration"
	"github.com/abhisek/playlens/internal/llm"
	"github.com/abhisek/playlens/internal/playthrough"
)

// Suggestion is the model's reading of one playthrough.
type Suggestion struct {
	Summary     string   `json:"summary"`
	LikelyCause string   `json:"likely_cause"`
	Fixes       []string `json:"fixes"`
}

var suggestionSchema = &llm.Schema{
	Name:        "playthrough-suggestion",
	Description: "Diagnosis of a learner playthrough with concrete lesson edits.",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"summary":      map[string]any{"type": "string", "description": "What the learner did, in two sentences or fewer."},
			"likely_cause": map[string]any{"type": "string", "description": "The most likely reason the learner struggled."},
			"fixes": map[string]any{
				"type":        "array",
				"description": "Up to five concrete edits to cards, feedback or answer groups, most useful first.",
				"items":       map[string]any{"type": "string"},
			},
		},
		"required": []string{"summary", "likely_cause", "fixes"},
	},
}

const systemPrompt = `You help authors of interactive lessons ("explorations") understand why learners struggle.
An exploration is a graph of cards. Each card shows content and an interaction; answers route the learner to another card or keep them on the same card with feedback.
You are given one recorded playthrough that was flagged with an issue, the cards involved, and the learner's actions.
Be specific: name cards, quote feedback, and propose edits the author can make. Do not invent cards that are not listed.`

// ErrNoActions is returned for playthroughs with nothing to explain.
var ErrNoActions = errors.New("playthrough has no actions")

// Service produces suggestions.
type Service struct {
	provider     llm.Provider
	logger       *zap.Logger
	timeout      time.Duration
	minBlockSize int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.logger = l } }

// WithTimeout bounds each Suggest call.
func WithTimeout(d time.Duration) Option { return func(s *Service) { s.timeout = d } }

// WithMinBlockSize sets the display block size used in the prompt.
func WithMinBlockSize(n int) Option { return func(s *Service) { s.minBlockSize = n } }

// NewService creates a Service backed by provider.
func NewService(provider llm.Provider, opts ...Option) *Service {
	s := &Service{
		provider:     provider,
		logger:       zap.NewNop(),
		minBlockSize: actionrender.MinBlockSize,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Suggest explains p. exp may be nil when the exploration was never
// imported; the prompt then carries only the actions.
func (s *Service) Suggest(ctx context.Context, p *playthrough.Playthrough, exp *exploration.Exploration) (*Suggestion, error) {
	if len(p.Actions) == 0 {
		return nil, ErrNoActions
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeExplain)

	req := llm.UserPrompt(systemPrompt, BuildPrompt(p, exp, s.minBlockSize))
	req.Schema = suggestionSchema
	req.MaxTokens = 1024

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("suggest for playthrough %s: %w", p.ID, err)
	}
	var out Suggestion
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("decode suggestion: %w", err)
	}
	s.logger.Info("suggestion generated",
		zap.String("playthrough_id", p.ID),
		zap.String("issue_type", string(p.IssueType)),
		zap.Int("fixes", len(out.Fixes)),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
	)
	return &out, nil
}

// BuildPrompt renders the user message sent for p.
func BuildPrompt(p *playthrough.Playthrough, exp *exploration.Exploration, minBlockSize int) string {
	var b strings.Builder

	if exp != nil {
		fmt.Fprintf(&b, "Exploration: %q (id %s, version %d)\n", exp.Title, exp.ID, exp.Version)
	} else {
		fmt.Fprintf(&b, "Exploration id %s, version %d\n", p.ExpID, p.ExpVersion)
	}
	fmt.Fprintf(&b, "Issue: %s. %s\n\n", p.IssueType, p.Describe())

	if exp != nil {
		b.WriteString("Cards involved:\n")
		for _, name := range involvedStates(p, exp) {
			writeState(&b, name, exp.States[name])
		}
		b.WriteString("\n")
	}

	var lookup actionrender.StateLookup
	if exp != nil {
		lookup = exp
	}
	blocks := actionrender.Partitioner{MinBlockSize: minBlockSize}.DisplayBlocks(p.Actions)
	lines := actionrender.NewRenderer(lookup).RenderDisplayBlocksText(blocks)
	b.WriteString("Learner actions:\n")
	for i, block := range lines {
		if i > 0 {
			b.WriteString("  ...\n")
		}
		for _, l := range block {
			b.WriteString("  " + l + "\n")
		}
	}
	return b.String()
}

// involvedStates lists the cards the learner visited that exist in exp,
// sorted by name.
func involvedStates(p *playthrough.Playthrough, exp *exploration.Exploration) []string {
	seen := map[string]bool{}
	for _, a := range p.Actions {
		seen[a.StateName()] = true
		if s, ok := a.AsSubmit(); ok {
			seen[s.DestStateName] = true
		}
	}
	var names []string
	for n := range seen {
		if _, ok := exp.States[n]; ok {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

func writeState(b *strings.Builder, name string, st exploration.State) {
	fmt.Fprintf(b, "- %s [%s]\n", name, st.Interaction.ID)
	if c := strings.TrimSpace(st.Content); c != "" {
		fmt.Fprintf(b, "    content: %s\n", c)
	}
	for _, g := range st.Interaction.AnswerGroups {
		rules := make([]string, 0, len(g.RuleSpecs))
		for _, r := range g.RuleSpecs {
			in, _ := json.Marshal(r.Inputs)
			rules = append(rules, fmt.Sprintf("%s %s", r.RuleType, in))
		}
		fmt.Fprintf(b, "    if %s -> %s", strings.Join(rules, " or "), g.Outcome.Dest)
		if g.Outcome.Feedback != "" {
			fmt.Fprintf(b, " (feedback: %q)", g.Outcome.Feedback)
		}
		b.WriteString("\n")
	}
	if d := st.Interaction.DefaultOutcome; d != nil {
		fmt.Fprintf(b, "    otherwise -> %s", d.Dest)
		if d.Feedback != "" {
			fmt.Fprintf(b, " (feedback: %q)", d.Feedback)
		}
		b.WriteString("\n")
	}
}
