package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/playlens/internal/ui/theme"
)

// SetInput wraps bubbles/textinput for entering a set of strings as a
// comma separated list.
type SetInput struct {
	Label string
	Model textinput.Model
}

// NewSetInput creates an unfocused set input.
func NewSetInput(label, placeholder string) SetInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	return SetInput{Label: label, Model: ti}
}

// Focus focuses the input.
func (s *SetInput) Focus() tea.Cmd {
	return s.Model.Focus()
}

// Blur removes focus.
func (s *SetInput) Blur() {
	s.Model.Blur()
}

// Update handles messages.
func (s SetInput) Update(msg tea.Msg) (SetInput, tea.Cmd) {
	var cmd tea.Cmd
	s.Model, cmd = s.Model.Update(msg)
	return s, cmd
}

// View renders the label and input.
func (s SetInput) View() string {
	label := theme.Unselected.Render(s.Label)
	if s.Model.Focused() {
		label = theme.Selected.Render(s.Label)
	}
	return label + "\n  " + s.Model.View()
}

// Elements returns the entered elements, trimmed, with empty entries
// dropped.
func (s SetInput) Elements() []string {
	return SplitElements(s.Model.Value())
}

// SplitElements splits a comma separated list into trimmed, non-empty
// elements.
func SplitElements(v string) []string {
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
