package detail

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/playlens/internal/actionrender"
	"github.com/abhisek/playlens/internal/exploration"
	"github.com/abhisek/playlens/internal/insight"
	"github.com/abhisek/playlens/internal/playthrough"
	"github.com/abhisek/playlens/internal/router"
	"github.com/abhisek/playlens/internal/screen"
	"github.com/abhisek/playlens/internal/screens"
	"github.com/abhisek/playlens/internal/ui/layout"
	"github.com/abhisek/playlens/internal/ui/theme"
)

type explorationLoadedMsg struct {
	Exploration *exploration.Exploration
	Err         error
}

type suggestionMsg struct {
	Suggestion *insight.Suggestion
	Err        error
}

// DetailScreen shows one playthrough as numbered display blocks.
type DetailScreen struct {
	deps     screens.Deps
	p        *playthrough.Playthrough
	exp      *exploration.Exploration
	ready    bool
	offset   int
	thinking bool

	suggestion *insight.Suggestion
	suggestErr string
}

var _ screen.Screen = (*DetailScreen)(nil)
var _ screen.KeyHintProvider = (*DetailScreen)(nil)

// New creates a DetailScreen for p.
func New(deps screens.Deps, p *playthrough.Playthrough) *DetailScreen {
	return &DetailScreen{deps: deps, p: p}
}

func (s *DetailScreen) Init() tea.Cmd {
	if s.deps.Explorations == nil {
		s.ready = true
		return nil
	}
	src, p := s.deps.Explorations, s.p
	return func() tea.Msg {
		exp, err := src.ForPlaythrough(context.Background(), p.ExpID, p.ExpVersion)
		return explorationLoadedMsg{Exploration: exp, Err: err}
	}
}

func (s *DetailScreen) Title() string {
	return "Playthrough"
}

func (s *DetailScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
	}
	if s.deps.Explainer != nil {
		hints = append(hints, layout.KeyHint{Key: "e", Description: "Explain"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case explorationLoadedMsg:
		if msg.Err != nil {
			s.deps.Log().Warn("loading exploration", zap.String("exp_id", s.p.ExpID), zap.Error(msg.Err))
		}
		s.exp = msg.Exploration
		s.ready = true
		return s, nil

	case suggestionMsg:
		s.thinking = false
		if msg.Err != nil {
			s.suggestErr = msg.Err.Error()
			return s, nil
		}
		s.suggestion = msg.Suggestion
		s.suggestErr = ""
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			s.offset++
		case "e":
			if s.deps.Explainer == nil || s.thinking || !s.ready {
				return s, nil
			}
			s.thinking = true
			explainer, p, exp := s.deps.Explainer, s.p, s.exp
			return s, func() tea.Msg {
				sg, err := explainer.Suggest(context.Background(), p, exp)
				return suggestionMsg{Suggestion: sg, Err: err}
			}
		}
	}
	return s, nil
}

func (s *DetailScreen) View(width, height int) string {
	if !s.ready {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.TextDim).Render("\n\nLoading exploration...")
	}
	visible, off := layout.Window(s.Lines(), s.offset, height)
	s.offset = off
	return strings.Join(visible, "\n")
}

// Lines renders the full screen content before scrolling.
func (s *DetailScreen) Lines() []string {
	p := s.p
	issue := lipgloss.NewStyle().Foreground(theme.IssueColor(string(p.IssueType))).Bold(true).
		Render(string(p.IssueType))

	lines := []string{
		theme.Title.Render(fmt.Sprintf("%s v%d", p.ExpID, p.ExpVersion)) +
			theme.Hint.Render("  "+p.ID),
		issue + "  " + theme.Body.Render(p.Describe()),
		"",
	}

	var lookup actionrender.StateLookup
	if s.exp != nil {
		lookup = s.exp
	}
	blocks := actionrender.Partitioner{MinBlockSize: s.deps.MinBlockSize}.DisplayBlocks(p.Actions)
	for i, block := range actionrender.NewRenderer(lookup).RenderDisplayBlocksText(blocks) {
		lines = append(lines, theme.Selected.Render(fmt.Sprintf("Block %d", i+1)))
		for _, l := range block {
			lines = append(lines, "  "+theme.Body.Render(l))
		}
		lines = append(lines, "")
	}

	switch {
	case s.thinking:
		lines = append(lines, theme.Hint.Render("Asking the model for suggestions..."))
	case s.suggestErr != "":
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Error).Render("Explain failed: "+s.suggestErr))
	case s.suggestion != nil:
		sg := s.suggestion
		lines = append(lines,
			theme.Title.Render("Suggestion"),
			theme.Body.Render(sg.Summary),
			theme.Hint.Render("Likely cause: ")+theme.Body.Render(sg.LikelyCause),
		)
		for _, f := range sg.Fixes {
			lines = append(lines, theme.Body.Render("  - "+f))
		}
	}
	return lines
}
