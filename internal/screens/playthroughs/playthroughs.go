package playthroughs

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/playlens/internal/playthrough"
	"github.com/abhisek/playlens/internal/router"
	"github.com/abhisek/playlens/internal/screen"
	"github.com/abhisek/playlens/internal/screens"
	"github.com/abhisek/playlens/internal/screens/detail"
	"github.com/abhisek/playlens/internal/store"
	"github.com/abhisek/playlens/internal/ui/layout"
	"github.com/abhisek/playlens/internal/ui/theme"
)

const pageLimit = 200

// filters cycles through "all" then each issue type.
var filters = []playthrough.IssueType{
	"",
	playthrough.IssueEarlyQuit,
	playthrough.IssueMultipleIncorrectSubmissions,
	playthrough.IssueCyclicStateTransitions,
}

type loadedMsg struct {
	Playthroughs []*playthrough.Playthrough
	Err          error
}

// ListScreen lists stored playthroughs, newest first.
type ListScreen struct {
	deps     screens.Deps
	expID    string
	filter   int
	items    []*playthrough.Playthrough
	selected int
	offset   int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*ListScreen)(nil)
var _ screen.KeyHintProvider = (*ListScreen)(nil)

// New creates a ListScreen. A non-empty expID limits the list to one
// exploration.
func New(deps screens.Deps, expID string) *ListScreen {
	return &ListScreen{deps: deps, expID: expID}
}

func (s *ListScreen) Init() tea.Cmd {
	return s.load()
}

func (s *ListScreen) load() tea.Cmd {
	src := s.deps.Playthroughs
	opts := store.QueryOpts{
		ExpID:     s.expID,
		IssueType: string(filters[s.filter]),
		Limit:     pageLimit,
	}
	return func() tea.Msg {
		ps, err := src.List(context.Background(), opts)
		return loadedMsg{Playthroughs: ps, Err: err}
	}
}

func (s *ListScreen) Title() string {
	if s.expID != "" {
		return "Playthroughs: " + s.expID
	}
	return "Playthroughs"
}

func (s *ListScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "f", Description: "Filter: " + s.filterName()},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ListScreen) filterName() string {
	if f := filters[s.filter]; f != "" {
		return string(f)
	}
	return "all"
}

func (s *ListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		s.errMsg = ""
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.items = msg.Playthroughs
		s.selected, s.offset = 0, 0
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.items)-1 {
				s.selected++
			}
		case "f":
			s.filter = (s.filter + 1) % len(filters)
			s.loaded = false
			return s, s.load()
		case "enter":
			if s.selected < len(s.items) {
				p := s.items[s.selected]
				return s, func() tea.Msg {
					return router.PushScreenMsg{Screen: detail.New(s.deps, p)}
				}
			}
		}
	}
	return s, nil
}

// Selected returns the highlighted playthrough, or nil.
func (s *ListScreen) Selected() *playthrough.Playthrough {
	if s.selected < len(s.items) {
		return s.items[s.selected]
	}
	return nil
}

func (s *ListScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\nLoading playthroughs...")
	}
	if len(s.items) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).
			Render(fmt.Sprintf("\n\nNo playthroughs (filter: %s).", s.filterName()))
	}

	lines := make([]string, 0, len(s.items))
	for i, p := range s.items {
		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "> "
			style = theme.Selected
		}
		issue := lipgloss.NewStyle().Foreground(theme.IssueColor(string(p.IssueType))).
			Render(fmt.Sprintf("%-28s", p.IssueType))
		lines = append(lines, style.Render(fmt.Sprintf("%s%s  %-20s v%-3d ",
			prefix, p.CreatedAt.Local().Format("Jan 02 15:04"), truncate(p.ExpID, 20), p.ExpVersion))+
			issue+theme.Hint.Render(fmt.Sprintf(" %d actions", len(p.Actions))))
	}

	rows := height - 1
	// keep the selection on screen
	if s.selected < s.offset {
		s.offset = s.selected
	}
	if rows > 0 && s.selected >= s.offset+rows {
		s.offset = s.selected - rows + 1
	}
	visible, off := layout.Window(lines, s.offset, rows)
	s.offset = off

	return "\n" + strings.Join(visible, "\n")
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
