package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/playlens/internal/actionrender"
	"github.com/abhisek/playlens/internal/router"
	"github.com/abhisek/playlens/internal/screen"
	"github.com/abhisek/playlens/internal/screens"
	"github.com/abhisek/playlens/internal/screens/home"
	"github.com/abhisek/playlens/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Deps    screens.Deps
	Version string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	version string
	width   int
	height  int
}

// NewAppModel creates an AppModel showing the home screen.
func NewAppModel(opts Options) AppModel {
	if opts.Deps.MinBlockSize <= 0 {
		opts.Deps.MinBlockSize = actionrender.MinBlockSize
	}
	return AppModel{
		router:  router.New(home.New(opts.Deps)),
		version: opts.Version,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m, m.router.Update(msg)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.version, m.width)
	footer := layout.RenderFooter(m.keyHints(active), m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) keyHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	_, err := tea.NewProgram(NewAppModel(opts)).Run()
	return err
}
