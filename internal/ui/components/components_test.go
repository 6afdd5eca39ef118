package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func TestMenu_SkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "a", Disabled: true},
		{Label: "b"},
		{Label: "c", Disabled: true},
		{Label: "d"},
	})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 3, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 1, m.Selected)
}

func TestMenu_EnterRunsAction(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{{Label: "go", Action: func() tea.Cmd {
		ran = true
		return nil
	}}})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.True(t, ran)
}

func TestSplitElements(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"a", []string{"a"}},
		{" 1/2 , 2/4,,", []string{"1/2", "2/4"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitElements(tt.in), tt.in)
	}
}

func TestCountBar_Scales(t *testing.T) {
	half := CountBar{Label: "EarlyQuit", Count: 1, Max: 2, Width: 60}.View()
	full := CountBar{Label: "EarlyQuit", Count: 2, Max: 2, Width: 60}.View()
	assert.Contains(t, half, "EarlyQuit")
	assert.Contains(t, full, "2")
}
