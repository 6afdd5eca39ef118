package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/abhisek/playlens/internal/actionrender"
	"github.com/abhisek/playlens/internal/playthrough"
	"github.com/abhisek/playlens/internal/setinput"
	"github.com/abhisek/playlens/internal/store"
)

// RuleTool handles evaluate_set_rule.
type RuleTool struct{}

// NewRuleTool creates a RuleTool.
func NewRuleTool() *RuleTool { return &RuleTool{} }

// Definition returns the tool schema.
func (t *RuleTool) Definition() mcp.Tool {
	return mcp.NewTool("evaluate_set_rule",
		mcp.WithDescription("Check whether a learner's multi-select answer satisfies a set rule. "+
			"Duplicates and order are ignored."),
		mcp.WithString("rule",
			mcp.Required(),
			mcp.Description("Rule name"),
			mcp.Enum(setinput.RuleTypes()...),
		),
		mcp.WithArray("answer",
			mcp.Required(),
			mcp.Description("Elements the learner selected"),
			mcp.WithStringItems(),
		),
		mcp.WithArray("x",
			mcp.Required(),
			mcp.Description("The rule's input set"),
			mcp.WithStringItems(),
		),
	)
}

// Handle evaluates the rule.
func (t *RuleTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rule, err := req.RequireString("rule")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	answer, err := req.RequireStringSlice("answer")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	x, err := req.RequireStringSlice("x")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ok, err := setinput.Evaluate(rule, answer, setinput.RuleInput{X: x})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%t", ok)), nil
}

// RenderTool handles render_playthrough.
type RenderTool struct {
	deps Deps
}

// NewRenderTool creates a RenderTool.
func NewRenderTool(deps Deps) *RenderTool { return &RenderTool{deps: deps} }

// Definition returns the tool schema.
func (t *RenderTool) Definition() mcp.Tool {
	return mcp.NewTool("render_playthrough",
		mcp.WithDescription("Render a stored playthrough as display blocks of numbered learner actions."),
		mcp.WithString("playthrough_id",
			mcp.Required(),
			mcp.Description("ID of the playthrough"),
		),
		mcp.WithString("format",
			mcp.Description("text (default) or html"),
			mcp.Enum("text", "html"),
		),
	)
}

// Handle renders the playthrough.
func (t *RenderTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("playthrough_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := t.deps.Playthroughs.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("playthrough %q not found", id)), nil
	}
	if err != nil {
		return nil, err
	}

	var lookup actionrender.StateLookup
	if t.deps.Explorations != nil {
		exp, err := t.deps.Explorations.ForPlaythrough(ctx, p.ExpID, p.ExpVersion)
		if err != nil {
			t.deps.Logger.Warn("loading exploration for render", zap.String("exp_id", p.ExpID), zap.Error(err))
		} else if exp != nil {
			lookup = exp
		}
	}

	blocks := actionrender.Partitioner{MinBlockSize: t.deps.MinBlockSize}.DisplayBlocks(p.Actions)
	r := actionrender.NewRenderer(lookup)

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Playthrough %s\n\n", p.ID)
	fmt.Fprintf(&sb, "- **Exploration**: %s v%d\n", p.ExpID, p.ExpVersion)
	fmt.Fprintf(&sb, "- **Issue**: %s. %s\n\n", p.IssueType, p.Describe())

	if req.GetString("format", "text") == "html" {
		misFinal := p.IssueType == playthrough.IssueMultipleIncorrectSubmissions
		for i, block := range r.RenderDisplayBlocks(blocks, misFinal) {
			fmt.Fprintf(&sb, "### Block %d\n\n", i+1)
			for _, h := range block {
				sb.WriteString(string(h) + "\n")
			}
			sb.WriteString("\n")
		}
	} else {
		for i, block := range r.RenderDisplayBlocksText(blocks) {
			fmt.Fprintf(&sb, "### Block %d\n\n", i+1)
			for _, line := range block {
				sb.WriteString(line + "\n")
			}
			sb.WriteString("\n")
		}
	}
	return mcp.NewToolResultText(strings.TrimRight(sb.String(), "\n")), nil
}

// ListTool handles list_playthroughs.
type ListTool struct {
	deps Deps
}

// NewListTool creates a ListTool.
func NewListTool(deps Deps) *ListTool { return &ListTool{deps: deps} }

// Definition returns the tool schema.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("list_playthroughs",
		mcp.WithDescription("List stored playthroughs, newest first."),
		mcp.WithString("exp_id",
			mcp.Description("Only playthroughs of this exploration"),
		),
		mcp.WithString("issue_type",
			mcp.Description("Only playthroughs with this issue"),
			mcp.Enum(
				string(playthrough.IssueEarlyQuit),
				string(playthrough.IssueMultipleIncorrectSubmissions),
				string(playthrough.IssueCyclicStateTransitions),
			),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default 20)"),
			mcp.Min(1),
			mcp.Max(200),
		),
	)
}

// Handle lists playthroughs.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := store.QueryOpts{
		ExpID:     req.GetString("exp_id", ""),
		IssueType: req.GetString("issue_type", ""),
		Limit:     req.GetInt("limit", 20),
	}
	ps, err := t.deps.Playthroughs.List(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list playthroughs: %v", err)), nil
	}
	if len(ps) == 0 {
		return mcp.NewToolResultText("No playthroughs found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Playthroughs (%d)\n\n", len(ps))
	for _, p := range ps {
		fmt.Fprintf(&sb, "- `%s` %s v%d, %s: %s (%d actions, %s)\n",
			p.ID, p.ExpID, p.ExpVersion, p.IssueType, p.Describe(),
			len(p.Actions), p.CreatedAt.Format("2006-01-02 15:04"))
	}
	return mcp.NewToolResultText(strings.TrimRight(sb.String(), "\n")), nil
}
