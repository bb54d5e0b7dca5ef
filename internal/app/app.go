// Package app is the root Bubble Tea model of the terminal calendar.
package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/contenthub/internal/keys"
	"github.com/nhle/contenthub/internal/model"
	"github.com/nhle/contenthub/internal/store"
	"github.com/nhle/contenthub/internal/ui"
	"github.com/nhle/contenthub/internal/ui/brief"
	"github.com/nhle/contenthub/internal/ui/command"
	helpview "github.com/nhle/contenthub/internal/ui/help"
	"github.com/nhle/contenthub/internal/ui/ideaform"
	"github.com/nhle/contenthub/internal/ui/monthgrid"
	"github.com/nhle/contenthub/internal/ui/templates"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewCalendar ViewState = iota
	ViewIdeaForm
	ViewConfirmDelete
	ViewBrief
	ViewTemplates
	ViewHelp
	ViewCommand
)

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the persistence layer.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        store.Store
	keys         *keys.KeyMap
	today        func() model.Date
	grid         monthgrid.Model
	ideaForm     ideaform.Model
	briefView    brief.Model
	templateView templates.Model
	helpView     helpview.Model
	commandView  command.Model
	confirmForm  *huh.Form
	confirmed    *bool
	pending      model.Idea
	statusMsg    string
	ready        bool
}

// New creates the root model over s.
func New(s store.Store) Model {
	k := keys.DefaultKeyMap()
	today := model.Today()

	return Model{
		currentView:  ViewCalendar,
		store:        s,
		keys:         k,
		today:        model.Today,
		grid:         monthgrid.New(s, k, today, 80, 24),
		ideaForm:     ideaform.New(80, 24),
		briefView:    brief.New(s, k, 80, 24),
		templateView: templates.New(s, k, 80, 24),
		helpView:     helpview.New(k, 80, 24),
		commandView:  command.New(80, 24),
		confirmed:    new(bool),
	}
}

// Init loads the current month.
func (m Model) Init() tea.Cmd {
	return m.grid.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.grid.SetSize(w, h)
		m.ideaForm.SetSize(w, h)
		m.briefView.SetSize(w, h)
		m.templateView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case monthgrid.IdeasLoadedMsg:
		var cmd tea.Cmd
		m.grid, cmd = m.grid.Update(msg)
		return m, cmd

	case ideaform.SubmittedMsg:
		m.currentView = ViewCalendar
		return m, m.saveIdea(msg)

	case ideaform.CancelMsg:
		m.currentView = ViewCalendar
		return m, nil

	case ideaSavedMsg:
		if msg.err != nil {
			m.statusMsg = "Error: " + msg.err.Error()
			return m, nil
		}
		m.statusMsg = msg.status
		var cmd tea.Cmd
		m.grid, cmd = m.grid.MoveTo(msg.idea.TargetDate)
		if cmd == nil {
			m.grid, cmd = m.grid.Reload()
		}
		m.grid.SelectAfterLoad(msg.idea.ID)
		return m, cmd

	case ideaDeletedMsg:
		if msg.err != nil {
			m.statusMsg = "Error: " + msg.err.Error()
			return m, nil
		}
		m.statusMsg = "Idea deleted"
		var cmd tea.Cmd
		m.grid, cmd = m.grid.Reload()
		return m, cmd

	case brief.CloseMsg:
		m.currentView = ViewCalendar
		return m, nil

	case brief.PickTemplateMsg:
		m.currentView = ViewTemplates
		return m, m.templateView.Open(true)

	case templates.PickedMsg:
		m.currentView = ViewBrief
		return m, m.briefView.InsertTemplate(msg.Template)

	case templates.CloseMsg:
		if m.templateView.Picking() {
			m.currentView = ViewBrief
			return m, nil
		}
		m.currentView = ViewCalendar
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that are not owned by the active view.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true
	case "esc":
		if m.currentView == ViewHelp || m.currentView == ViewCommand {
			m.currentView = m.previousView
			return m, nil, true
		}
	}
	if m.inputFocused() {
		return m, nil, false
	}

	switch msg.String() {
	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case ":":
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus(), true
	}

	if m.currentView != ViewCalendar {
		return m, nil, false
	}

	m.statusMsg = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit, true

	case "n":
		m.currentView = ViewIdeaForm
		return m, m.ideaForm.StartCreate(m.grid.Cursor()), true

	case "e", "enter":
		if idea, ok := m.grid.SelectedIdea(); ok {
			m.currentView = ViewIdeaForm
			return m, m.ideaForm.StartEdit(idea), true
		}
		return m, nil, true

	case "x":
		if idea, ok := m.grid.SelectedIdea(); ok {
			return m, m.toggleIdea(idea.ID), true
		}
		return m, nil, true

	case "d":
		if idea, ok := m.grid.SelectedIdea(); ok {
			m.pending = idea
			*m.confirmed = false
			m.confirmForm = m.buildDeleteConfirm(idea)
			m.currentView = ViewConfirmDelete
			return m, m.confirmForm.Init(), true
		}
		return m, nil, true

	case "b":
		if idea, ok := m.grid.SelectedIdea(); ok {
			m.currentView = ViewBrief
			return m, m.briefView.Open(idea), true
		}
		return m, nil, true

	case "t":
		m.currentView = ViewTemplates
		return m, m.templateView.Open(false), true

	case "r":
		var cmd tea.Cmd
		m.grid.SetToday(m.today())
		m.grid, cmd = m.grid.Reload()
		return m, cmd, true
	}
	return m, nil, false
}

// inputFocused reports whether the active view owns every key press.
func (m Model) inputFocused() bool {
	switch m.currentView {
	case ViewIdeaForm, ViewConfirmDelete, ViewCommand:
		return true
	case ViewBrief:
		return m.briefView.Editing()
	case ViewTemplates:
		return m.templateView.Editing()
	}
	return false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewCalendar:
		m.grid, cmd = m.grid.Update(msg)
	case ViewIdeaForm:
		m.ideaForm, cmd = m.ideaForm.Update(msg)
	case ViewConfirmDelete:
		return m.updateConfirm(msg)
	case ViewBrief:
		m.briefView, cmd = m.briefView.Update(msg)
	case ViewTemplates:
		m.templateView, cmd = m.templateView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirmForm == nil {
		m.currentView = ViewCalendar
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}

	switch m.confirmForm.State {
	case huh.StateCompleted:
		m.confirmForm = nil
		m.currentView = ViewCalendar
		if *m.confirmed {
			return m, m.deleteIdea(m.pending.ID)
		}
		return m, nil
	case huh.StateAborted:
		m.confirmForm = nil
		m.currentView = ViewCalendar
		return m, nil
	}
	return m, cmd
}

func (m Model) buildDeleteConfirm(idea model.Idea) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", idea.Title)).
				Description("Its brief and every saved version are deleted too.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(m.confirmed),
		),
	).WithWidth(min(max(m.layout.ContentWidth()-4, 40), 100))
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	w := m.grid.Window()
	header := m.layout.RenderHeader("ContentHub", w.CurrentLabel)
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewCalendar:
		return m.grid.View()
	case ViewIdeaForm:
		return m.ideaForm.View()
	case ViewConfirmDelete:
		if m.confirmForm == nil {
			return ""
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(m.confirmForm.View())
	case ViewBrief:
		return m.briefView.View()
	case ViewTemplates:
		return m.templateView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return lipgloss.JoinVertical(lipgloss.Left, m.commandView.View(), m.grid.View())
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMsg != "" && m.currentView == ViewCalendar {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewIdeaForm, ViewConfirmDelete:
		return "enter submit | esc cancel"
	case ViewBrief:
		if m.briefView.Editing() {
			return "enter next | esc cancel"
		}
		return "e edit | s snapshot | R restore | t insert template | j/k versions | esc back"
	case ViewTemplates:
		if m.templateView.Editing() {
			return "enter next | esc cancel"
		}
		if m.templateView.Picking() {
			return "enter insert | f favorite | 1-5 rate | n new | esc back"
		}
		return "f favorite | 1-5 rate | n new | e edit | esc back"
	default:
		return "q quit | ? help | hjkl move | [ ] month | . today | n new | b brief | t templates"
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(input string) tea.Cmd {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil
	}

	var cmd tea.Cmd
	switch fields[0] {
	case "today":
		m.currentView = ViewCalendar
		m.grid, cmd = m.grid.MoveTo(m.today())
	case "next":
		m.currentView = ViewCalendar
		m.grid, cmd = m.grid.ShiftMonth(1)
	case "prev", "previous":
		m.currentView = ViewCalendar
		m.grid, cmd = m.grid.ShiftMonth(-1)
	case "goto":
		if len(fields) < 2 {
			m.statusMsg = "usage: goto YYYY-MM"
			return nil
		}
		year, month, err := parseMonth(fields[1])
		if err != nil {
			m.statusMsg = err.Error()
			return nil
		}
		m.currentView = ViewCalendar
		m.grid, cmd = m.grid.GoTo(year, month)
	case "new":
		m.currentView = ViewIdeaForm
		cmd = m.ideaForm.StartCreate(m.grid.Cursor())
	case "templates":
		m.currentView = ViewTemplates
		cmd = m.templateView.Open(false)
	case "refresh":
		m.currentView = ViewCalendar
		m.grid, cmd = m.grid.Reload()
	case "quit", "q":
		return tea.Quit
	default:
		m.statusMsg = fmt.Sprintf("unknown command %q", input)
	}
	return cmd
}
