package ideaform

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/contenthub/internal/model"
	"github.com/nhle/contenthub/internal/theme"
)

// SubmittedMsg is dispatched when the form completes. ID is empty for a
// new idea.
type SubmittedMsg struct {
	ID          string
	Title       string
	TargetDate  model.Date
	Description *string
}

// Patch converts an edit submission into a partial update. The
// description is always sent so that clearing the field clears it.
func (s SubmittedMsg) Patch() model.IdeaPatch {
	return model.IdeaPatch{
		Title:       model.Set(s.Title),
		TargetDate:  model.Set(s.TargetDate),
		Description: model.Set(s.Description),
	}
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds field values on the heap so that huh's Value()
// pointers stay valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	targetDate  string
	description string
}

// Model is the idea create/edit form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	editID string
	width  int
	height int
}

func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate opens an empty form for an idea on day.
func (m *Model) StartCreate(day model.Date) tea.Cmd {
	m.editID = ""
	m.fb.title = ""
	m.fb.targetDate = day.String()
	m.fb.description = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit opens the form prefilled with idea.
func (m *Model) StartEdit(idea model.Idea) tea.Cmd {
	m.editID = idea.ID
	m.fb.title = idea.Title
	m.fb.targetDate = idea.TargetDate.String()
	m.fb.description = ""
	if idea.Description != nil {
		m.fb.description = *idea.Description
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Editing reports whether the form edits an existing idea.
func (m Model) Editing() bool {
	return m.editID != ""
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.submit()
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	title := "New Idea"
	if m.Editing() {
		title = "Edit Idea"
	}

	content := theme.TitleStyle.Render(title) + "\n" + m.form.View()
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What are you publishing?").
				CharLimit(model.IdeaTitleMaxLen).
				Value(&m.fb.title).
				Validate(validateTitle),
			huh.NewInput().
				Title("Target date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.targetDate).
				Validate(validateDate),
			huh.NewText().
				Title("Description").
				Placeholder("Optional notes...").
				CharLimit(model.IdeaDescriptionMaxLen).
				Value(&m.fb.description),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) submit() tea.Cmd {
	date, err := model.ParseDate(m.fb.targetDate)
	if err != nil {
		// Unreachable: the date field validates before completion.
		return func() tea.Msg { return CancelMsg{} }
	}

	out := SubmittedMsg{
		ID:         m.editID,
		Title:      strings.TrimSpace(m.fb.title),
		TargetDate: date,
	}
	if d := strings.TrimSpace(m.fb.description); d != "" {
		out.Description = &d
	}
	return func() tea.Msg { return out }
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}

func validateTitle(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(s) > model.IdeaTitleMaxLen {
		return fmt.Errorf("title must be at most %d characters", model.IdeaTitleMaxLen)
	}
	return nil
}

func validateDate(s string) error {
	if _, err := model.ParseDate(s); err != nil {
		return errors.New("invalid date, use YYYY-MM-DD")
	}
	return nil
}
