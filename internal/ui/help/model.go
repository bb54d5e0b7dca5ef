package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/contenthub/internal/keys"
	"github.com/nhle/contenthub/internal/theme"
)

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

func New(k *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	h.Width = width - 4
	return Model{
		keys:   k,
		help:   h,
		width:  width,
		height: height,
	}
}

func (m Model) View() string {
	title := theme.TitleStyle.Render("Keyboard Shortcuts")
	body := m.help.View(m.keys)
	commands := theme.HintStyle.Render(
		"Commands: today | next | prev | new | templates | refresh | goto YYYY-MM | quit",
	)

	content := lipgloss.JoinVertical(lipgloss.Left, title, body, "", commands)

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Height(max(m.height-4, 0)).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}

// Update is a no-op; the root model closes the overlay.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}
