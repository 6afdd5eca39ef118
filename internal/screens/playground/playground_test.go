package playground

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/playlens/internal/router"
)

func typeText(s *PlaygroundScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestPlayground_EvaluatesAllRules(t *testing.T) {
	s := New()
	s.Init()

	typeText(s, "a, b")
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	typeText(s, "a,b,c")

	assert.Equal(t, []string{"a", "b"}, s.inputs[0].Elements())
	assert.Equal(t, []string{"a", "b", "c"}, s.inputs[1].Elements())

	got := s.Results()
	assert.Equal(t, map[string]bool{
		"Equals":           false,
		"IsSubsetOf":       true,
		"IsSupersetOf":     false,
		"HasElementsIn":    true,
		"HasElementsNotIn": false,
		"OmitsElementsIn":  true,
		"IsDisjointFrom":   false,
	}, got)

	view := s.View(100, 30)
	assert.Contains(t, view, "IsSubsetOf")
}

func TestPlayground_EmptySets(t *testing.T) {
	s := New()
	got := s.Results()
	assert.True(t, got["Equals"])
	assert.True(t, got["IsDisjointFrom"])
	assert.False(t, got["IsSubsetOf"])
}

func TestPlayground_EscPops(t *testing.T) {
	s := New()
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}
