package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/playlens/internal/playthrough"
	"github.com/abhisek/playlens/internal/router"
	"github.com/abhisek/playlens/internal/screen"
	"github.com/abhisek/playlens/internal/screens"
	"github.com/abhisek/playlens/internal/screens/playground"
	"github.com/abhisek/playlens/internal/screens/playthroughs"
	"github.com/abhisek/playlens/internal/ui/components"
	"github.com/abhisek/playlens/internal/ui/theme"
)

var issueOrder = []playthrough.IssueType{
	playthrough.IssueEarlyQuit,
	playthrough.IssueMultipleIncorrectSubmissions,
	playthrough.IssueCyclicStateTransitions,
}

type countsLoadedMsg struct {
	Counts map[playthrough.IssueType]int
	Err    error
}

// HomeScreen shows issue counts and the main menu.
type HomeScreen struct {
	deps   screens.Deps
	menu   components.Menu
	counts map[playthrough.IssueType]int
	errMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps screens.Deps) *HomeScreen {
	items := []components.MenuItem{
		{Label: "PLAYTHROUGHS", Hint: "browse recorded sessions", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: playthroughs.New(deps, "")}
			}
		}},
		{Label: "RULE PLAYGROUND", Hint: "try SetInput rules", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: playground.New()}
			}
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	if deps.Playthroughs == nil {
		items[0].Disabled = true
	}

	return &HomeScreen{
		deps: deps,
		menu: components.NewMenu(items),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	if h.deps.Playthroughs == nil {
		return nil
	}
	src := h.deps.Playthroughs
	return func() tea.Msg {
		counts, err := src.CountByIssue(context.Background(), "")
		return countsLoadedMsg{Counts: counts, Err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(countsLoadedMsg); ok {
		if msg.Err != nil {
			h.deps.Log().Warn("loading issue counts", zap.Error(msg.Err))
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		h.counts = msg.Counts
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := width - 6
	if cw > 70 {
		cw = 70
	}

	sections := []string{
		theme.Title.Render("Learner playthroughs by issue"),
		h.renderCounts(cw),
		h.menu.View(),
	}
	content := theme.Card.Width(cw + 4).Render(strings.Join(sections, "\n\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) renderCounts(cw int) string {
	if h.errMsg != "" {
		return lipgloss.NewStyle().Foreground(theme.Error).Render("Error: " + h.errMsg)
	}
	if h.counts == nil {
		return theme.Hint.Render("Loading...")
	}

	total, most := 0, 0
	for _, c := range h.counts {
		total += c
		if c > most {
			most = c
		}
	}
	if total == 0 {
		return theme.Hint.Render("No playthroughs recorded yet.")
	}

	lines := make([]string, 0, len(issueOrder)+1)
	for _, it := range issueOrder {
		lines = append(lines, components.CountBar{
			Label: string(it),
			Count: h.counts[it],
			Max:   most,
			Width: cw,
			Color: theme.IssueColor(string(it)),
		}.View())
	}
	lines = append(lines, theme.Hint.Render(fmt.Sprintf("%d total", total)))
	return strings.Join(lines, "\n")
}
