package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/playlens/internal/ui/layout"
)

// Screen is one page of the TUI, stacked by the router.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	// View renders the screen content, excluding header and footer.
	View(width, height int) string
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
