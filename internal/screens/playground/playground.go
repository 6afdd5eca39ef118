package playground

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/playlens/internal/router"
	"github.com/abhisek/playlens/internal/screen"
	"github.com/abhisek/playlens/internal/setinput"
	"github.com/abhisek/playlens/internal/ui/components"
	"github.com/abhisek/playlens/internal/ui/layout"
	"github.com/abhisek/playlens/internal/ui/theme"
)

// PlaygroundScreen evaluates every SetInput rule against a learner answer
// and a rule input as they are typed.
type PlaygroundScreen struct {
	inputs [2]components.SetInput
	focus  int
}

var _ screen.Screen = (*PlaygroundScreen)(nil)
var _ screen.KeyHintProvider = (*PlaygroundScreen)(nil)

// New creates a PlaygroundScreen.
func New() *PlaygroundScreen {
	return &PlaygroundScreen{
		inputs: [2]components.SetInput{
			components.NewSetInput("Learner answer", "1/2, 2/4"),
			components.NewSetInput("Rule input x", "1/2, 2/4, 3/6"),
		},
	}
}

func (s *PlaygroundScreen) Init() tea.Cmd {
	return s.inputs[0].Focus()
}

func (s *PlaygroundScreen) Title() string {
	return "Rule Playground"
}

func (s *PlaygroundScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch field"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PlaygroundScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab", "shift+tab", "up", "down":
			s.inputs[s.focus].Blur()
			s.focus = 1 - s.focus
			return s, s.inputs[s.focus].Focus()
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

// Results evaluates every rule against the current field values.
func (s *PlaygroundScreen) Results() map[string]bool {
	answer := s.inputs[0].Elements()
	input := setinput.RuleInput{X: s.inputs[1].Elements()}

	out := make(map[string]bool)
	for _, name := range setinput.RuleTypes() {
		ok, err := setinput.Evaluate(name, answer, input)
		if err == nil {
			out[name] = ok
		}
	}
	return out
}

func (s *PlaygroundScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Hint.Render("Enter comma separated elements. Order and duplicates are ignored."))
	b.WriteString("\n\n")
	for _, in := range s.inputs {
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	results := s.Results()
	for _, name := range setinput.RuleTypes() {
		val := theme.False.Render("false")
		if results[name] {
			val = theme.True.Render("true")
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", theme.Body.Render(fmt.Sprintf("%-18s", name)), val))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Card.Render(strings.TrimRight(b.String(), "\n")))
}
