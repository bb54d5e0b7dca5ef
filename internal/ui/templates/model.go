package templates

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/contenthub/internal/keys"
	"github.com/nhle/contenthub/internal/model"
	"github.com/nhle/contenthub/internal/store"
	"github.com/nhle/contenthub/internal/theme"
)

// Store is the slice of the store the template browser needs.
type Store interface {
	ListTemplates(ctx context.Context) ([]model.Template, error)
	CreateTemplate(ctx context.Context, nt store.NewTemplate) (*model.Template, error)
	UpdateTemplate(ctx context.Context, id string, patch model.TemplatePatch) (*model.Template, error)
	SetTemplateFavorite(ctx context.Context, id string, favorite bool) (*model.Template, error)
	RateTemplate(ctx context.Context, id string, rating int) (*model.Template, error)
}

// CloseMsg signals the parent to close the template browser.
type CloseMsg struct{}

// PickedMsg is sent when a template is chosen in picker mode.
type PickedMsg struct {
	Template model.Template
}

type mode int

const (
	modeList mode = iota
	modeForm
)

type formBindings struct {
	name     string
	body     string
	category string
}

type loadedMsg struct {
	templates []model.Template
	selectID  string
	err       error
}

type changedMsg struct {
	id     string
	status string
	err    error
}

// Model is the template browser.
type Model struct {
	store       Store
	keys        *keys.KeyMap
	mode        mode
	picking     bool
	templates   []model.Template
	selectedIdx int
	editingID   string
	form        *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

func New(s Store, k *keys.KeyMap, width, height int) Model {
	return Model{
		store:  s,
		keys:   k,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Open shows the browser. In picker mode enter chooses a template.
func (m *Model) Open(picking bool) tea.Cmd {
	m.picking = picking
	m.mode = modeList
	m.statusMsg = ""
	return m.load()
}

// Editing reports whether the create/edit form has keyboard focus.
func (m Model) Editing() bool {
	return m.mode == modeForm
}

// Picking reports whether the browser was opened to choose a template.
func (m Model) Picking() bool {
	return m.picking
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.templates = msg.templates
		for i, t := range m.templates {
			if t.ID == msg.selectID {
				m.selectedIdx = i
			}
		}
		if m.selectedIdx >= len(m.templates) {
			m.selectedIdx = max(len(m.templates)-1, 0)
		}
		return m, nil

	case changedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, m.load()
		}
		m.statusMsg = msg.status
		return m, m.loadAndSelect(msg.id)

	case tea.KeyMsg:
		if m.mode == modeList {
			return m.handleListKey(msg)
		}
	}

	return m.updateForm(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.templates) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.templates)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.templates) > 0 {
			m.selectedIdx = (m.selectedIdx - 1 + len(m.templates)) % len(m.templates)
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		t, ok := m.Selected()
		if !ok || !m.picking {
			return m, nil
		}
		return m, func() tea.Msg { return PickedMsg{Template: t} }

	case key.Matches(msg, m.keys.New):
		m.editingID = ""
		m.fb.name, m.fb.body, m.fb.category = "", "", ""
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Edit):
		t, ok := m.Selected()
		if !ok {
			return m, nil
		}
		m.editingID = t.ID
		m.fb.name, m.fb.body, m.fb.category = t.Name, t.Body, ""
		if t.Category != nil {
			m.fb.category = *t.Category
		}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Favorite):
		t, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, m.setFavorite(t.ID, !t.Favorite)

	case key.Matches(msg, m.keys.Rate):
		t, ok := m.Selected()
		if !ok {
			return m, nil
		}
		rating := int(msg.Runes[0] - '0')
		return m, m.rate(t.ID, rating)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
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
		m.mode = modeList
		return m, m.save()
	case huh.StateAborted:
		m.form = nil
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// Selected returns the focused template.
func (m Model) Selected() (model.Template, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.templates) {
		return model.Template{}, false
	}
	return m.templates[m.selectedIdx], true
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				CharLimit(model.TemplateNameMaxLen).
				Value(&m.fb.name).
				Validate(func(s string) error {
					if n := len([]rune(strings.TrimSpace(s))); n < model.TemplateNameMinLen {
						return fmt.Errorf("name needs at least %d characters", model.TemplateNameMinLen)
					}
					return nil
				}),
			huh.NewText().
				Title("Body").
				CharLimit(model.TemplateBodyMaxLen).
				Value(&m.fb.body).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("body is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Category").
				Placeholder("Optional, e.g. Hooks").
				CharLimit(model.TemplateCategoryMaxLen).
				Value(&m.fb.category),
		),
	).WithWidth(min(max(m.width-4, 40), 100)).WithHeight(max(m.height-4, 10))
}

func (m Model) load() tea.Cmd {
	return m.loadAndSelect("")
}

// loadAndSelect reloads the list and keeps focus on id, which may have
// moved after a favorite or rating change reordered it.
func (m Model) loadAndSelect(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		templates, err := s.ListTemplates(context.Background())
		return loadedMsg{templates: templates, selectID: id, err: err}
	}
}

func (m Model) save() tea.Cmd {
	s := m.store
	id := m.editingID
	name, body := m.fb.name, m.fb.body
	var category *string
	if c := strings.TrimSpace(m.fb.category); c != "" {
		category = &c
	}
	return func() tea.Msg {
		ctx := context.Background()
		if id == "" {
			t, err := s.CreateTemplate(ctx, store.NewTemplate{Name: name, Body: body, Category: category})
			if err != nil {
				return changedMsg{err: err}
			}
			return changedMsg{id: t.ID, status: "Template created"}
		}
		_, err := s.UpdateTemplate(ctx, id, model.TemplatePatch{
			Name:     model.Set(name),
			Body:     model.Set(body),
			Category: model.Set(category),
		})
		return changedMsg{id: id, status: "Template saved", err: err}
	}
}

func (m Model) setFavorite(id string, favorite bool) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_, err := s.SetTemplateFavorite(context.Background(), id, favorite)
		status := "Removed from favorites"
		if favorite {
			status = "Added to favorites"
		}
		return changedMsg{id: id, status: status, err: err}
	}
}

func (m Model) rate(id string, rating int) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		t, err := s.RateTemplate(context.Background(), id, rating)
		if err != nil {
			return changedMsg{id: id, err: err}
		}
		return changedMsg{id: id, status: fmt.Sprintf("Rated %d, average %s", rating, formatRating(t.Rating()))}
	}
}

func (m Model) View() string {
	if m.mode == modeForm && m.form != nil {
		title := "New Template"
		if m.editingID != "" {
			title = "Edit Template"
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(theme.TitleStyle.Render(title) + "\n" + m.form.View())
	}

	var b strings.Builder
	title := "Templates"
	if m.picking {
		title = "Insert Template"
	}
	b.WriteString(theme.TitleStyle.Render(title))
	b.WriteString("\n\n")

	if len(m.templates) == 0 {
		b.WriteString(theme.EmptyStyle.Render("No templates yet. Press 'n' to create one."))
	}
	for i, t := range m.templates {
		star := "  "
		if t.Favorite {
			star = theme.FavoriteStyle.Render("★ ")
		}
		rating := theme.RatingStyle(t.Score()).Render(formatRating(t.Rating()))
		line := fmt.Sprintf("%s%s  %s (%d)", star, t.Name, rating, t.RatingCount)
		if t.Category != nil {
			line += theme.HintStyle.Render("  " + *t.Category)
		}
		if i == m.selectedIdx {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(theme.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if t, ok := m.Selected(); ok {
		b.WriteString("\n")
		b.WriteString(theme.PanelStyle.Width(max(m.width-8, 20)).Render(t.Body))
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.StatusMsgStyle.Render(m.statusMsg))
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func formatRating(r *float64) string {
	if r == nil {
		return "unrated"
	}
	return fmt.Sprintf("%.2f", *r)
}
