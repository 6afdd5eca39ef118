package playthroughs

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/playlens/internal/playthrough"
	"github.com/abhisek/playlens/internal/router"
	"github.com/abhisek/playlens/internal/screens"
	"github.com/abhisek/playlens/internal/store"
)

type fakeSource struct {
	items []*playthrough.Playthrough
	opts  []store.QueryOpts
}

func (f *fakeSource) Get(_ context.Context, id string) (*playthrough.Playthrough, error) {
	for _, p := range f.items {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeSource) List(_ context.Context, opts store.QueryOpts) ([]*playthrough.Playthrough, error) {
	f.opts = append(f.opts, opts)
	var out []*playthrough.Playthrough
	for _, p := range f.items {
		if opts.IssueType == "" || string(p.IssueType) == opts.IssueType {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeSource) CountByIssue(context.Context, string) (map[playthrough.IssueType]int, error) {
	return nil, nil
}

func newScreen(t *testing.T) (*ListScreen, *fakeSource) {
	t.Helper()
	src := &fakeSource{items: []*playthrough.Playthrough{
		{ID: "p1", ExpID: "exp", ExpVersion: 1, IssueType: playthrough.IssueEarlyQuit},
		{ID: "p2", ExpID: "exp", ExpVersion: 1, IssueType: playthrough.IssueCyclicStateTransitions},
	}}
	s := New(screens.Deps{Playthroughs: src}, "")
	cmd := s.Init()
	require.NotNil(t, cmd)
	s.Update(cmd())
	return s, src
}

func TestList_NavigateAndOpen(t *testing.T) {
	s, _ := newScreen(t)
	assert.Equal(t, "p1", s.Selected().ID)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, "p2", s.Selected().ID)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, "p2", s.Selected().ID)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Playthrough", push.Screen.Title())
}

func TestList_FilterCycles(t *testing.T) {
	s, src := newScreen(t)

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'f', Text: "f"})
	require.NotNil(t, cmd)
	s.Update(cmd())

	assert.Equal(t, string(playthrough.IssueEarlyQuit), src.opts[len(src.opts)-1].IssueType)
	require.NotNil(t, s.Selected())
	assert.Equal(t, "p1", s.Selected().ID)
	assert.Contains(t, s.View(120, 20), "exp")
}

func TestList_Empty(t *testing.T) {
	s := New(screens.Deps{Playthroughs: &fakeSource{}}, "exp")
	s.Update(s.Init()())
	assert.Nil(t, s.Selected())
	assert.Contains(t, s.View(100, 20), "No playthroughs")
	assert.Equal(t, "Playthroughs: exp", s.Title())
}
