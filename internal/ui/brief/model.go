// Package brief shows an idea's brief next to its version history and
// drives snapshots, restores and quick edits.
package brief

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/nhle/contenthub/internal/keys"
	"github.com/nhle/contenthub/internal/model"
	"github.com/nhle/contenthub/internal/store"
	"github.com/nhle/contenthub/internal/theme"
)

// Store is the slice of the store the brief view needs.
type Store interface {
	GetOrCreateBrief(ctx context.Context, ideaID string) (*model.Brief, error)
	UpdateBrief(ctx context.Context, ideaID string, content model.BriefContent, opts store.BriefWriteOptions) (*model.Brief, error)
	ListBriefVersions(ctx context.Context, ideaID string, limit int) ([]model.BriefVersion, error)
	RestoreBriefVersion(ctx context.Context, versionID string) (*model.BriefVersion, model.BriefContent, error)
}

// CloseMsg signals the parent to leave the brief view.
type CloseMsg struct{}

// PickTemplateMsg asks the parent to open the template picker for this
// brief.
type PickTemplateMsg struct{}

type loadedMsg struct {
	ideaID   string
	brief    *model.Brief
	versions []model.BriefVersion
	err      error
}

type savedMsg struct {
	status string
	err    error
}

type mode int

const (
	modeView mode = iota
	modeEdit
	modeConfirmRestore
)

// Block kinds offered by the edit form.
const (
	kindNone      = ""
	kindText      = string(model.BlockTypeText)
	kindHeading   = string(model.BlockTypeHeading)
	kindQuote     = string(model.BlockTypeQuote)
	kindChecklist = string(model.BlockTypeChecklist)
)

type formBindings struct {
	hashtags       string
	thumbnailNotes string
	blockKind      string
	blockText      string
	shotCue        string
	ctaText        string
	confirm        bool
}

// Model is the brief view.
type Model struct {
	store       Store
	keys        *keys.KeyMap
	mode        mode
	idea        model.Idea
	brief       *model.Brief
	versions    []model.BriefVersion
	selectedIdx int
	form        *huh.Form
	fb          *formBindings
	statusMsg   string
	loading     bool
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

// Open shows the brief of idea, creating it on first access.
func (m *Model) Open(idea model.Idea) tea.Cmd {
	m.idea = idea
	m.brief = nil
	m.versions = nil
	m.selectedIdx = 0
	m.statusMsg = ""
	m.mode = modeView
	m.loading = true
	return m.load()
}

// IdeaID returns the idea whose brief is shown.
func (m Model) IdeaID() string {
	return m.idea.ID
}

// Editing reports whether a form has keyboard focus.
func (m Model) Editing() bool {
	return m.mode != modeView
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.ideaID != m.idea.ID {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.brief = msg.brief
		m.versions = msg.versions
		if m.selectedIdx >= len(m.versions) {
			m.selectedIdx = max(len(m.versions)-1, 0)
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = msg.status
		}
		m.mode = modeView
		return m, m.load()

	case tea.KeyMsg:
		if m.mode == modeView {
			return m.handleKey(msg)
		}
	}

	return m.updateForm(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.versions) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.versions)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.versions) > 0 {
			m.selectedIdx = (m.selectedIdx - 1 + len(m.versions)) % len(m.versions)
		}
		return m, nil

	case key.Matches(msg, m.keys.Snapshot):
		if m.brief == nil {
			return m, nil
		}
		return m, m.save(m.brief.Content, store.BriefWriteOptions{Autosave: true}, "Snapshot saved")

	case key.Matches(msg, m.keys.Restore):
		if len(m.versions) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.form = m.buildConfirmForm(m.versions[m.selectedIdx])
		m.mode = modeConfirmRestore
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Edit):
		if m.brief == nil {
			return m, nil
		}
		m.resetEditBindings()
		m.form = m.buildEditForm()
		m.mode = modeEdit
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Templates):
		if m.brief == nil {
			return m, nil
		}
		return m, func() tea.Msg { return PickTemplateMsg{} }

	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()
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
		current := m.mode
		m.form = nil
		m.mode = modeView
		if current == modeConfirmRestore {
			if !m.fb.confirm {
				return m, nil
			}
			return m, m.restore(m.versions[m.selectedIdx].ID)
		}
		return m, m.save(m.applyEdit(), store.BriefWriteOptions{}, "Brief saved")
	case huh.StateAborted:
		m.form = nil
		m.mode = modeView
		return m, nil
	}
	return m, cmd
}

// InsertTemplate appends the template body to the brief as a text block
// and saves explicitly.
func (m Model) InsertTemplate(t model.Template) tea.Cmd {
	if m.brief == nil {
		return nil
	}
	content := m.brief.Content
	content.Blocks = append(append(model.Blocks{}, content.Blocks...),
		model.TextBlock{ID: uuid.NewString(), Text: t.Body})
	return m.save(content, store.BriefWriteOptions{}, fmt.Sprintf("Inserted %q", t.Name))
}

func (m *Model) resetEditBindings() {
	c := m.brief.Content
	m.fb.hashtags = strings.Join(c.Hashtags, " ")
	m.fb.thumbnailNotes = ""
	if c.ThumbnailNotes != nil {
		m.fb.thumbnailNotes = *c.ThumbnailNotes
	}
	m.fb.blockKind = kindNone
	m.fb.blockText = ""
	m.fb.shotCue = ""
	m.fb.ctaText = ""
}

// applyEdit merges the edit form into a copy of the current content.
func (m Model) applyEdit() model.BriefContent {
	c := m.brief.Content
	c.Hashtags = strings.FieldsFunc(m.fb.hashtags, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	c.ThumbnailNotes = nil
	if notes := strings.TrimSpace(m.fb.thumbnailNotes); notes != "" {
		c.ThumbnailNotes = &notes
	}

	if text := strings.TrimSpace(m.fb.blockText); text != "" && m.fb.blockKind != kindNone {
		c.Blocks = append(append(model.Blocks{}, c.Blocks...), newBlock(m.fb.blockKind, text))
	}
	if cue := strings.TrimSpace(m.fb.shotCue); cue != "" {
		c.ShotList = append(append([]model.ShotListItem{}, c.ShotList...),
			model.ShotListItem{ID: uuid.NewString(), Cue: cue})
	}
	if cta := strings.TrimSpace(m.fb.ctaText); cta != "" {
		c.CTAs = append(append([]model.CTAItem{}, c.CTAs...),
			model.CTAItem{ID: uuid.NewString(), Text: cta})
	}
	return c
}

func newBlock(kind, text string) model.Block {
	id := uuid.NewString()
	switch kind {
	case kindHeading:
		return model.HeadingBlock{ID: id, Text: text}
	case kindQuote:
		return model.QuoteBlock{ID: id, Text: text}
	case kindChecklist:
		return model.ChecklistBlock{ID: id, Text: text}
	default:
		return model.TextBlock{ID: id, Text: text}
	}
}

func (m Model) buildEditForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Hashtags").
				Description("Space or comma separated; a leading # is optional.").
				Value(&m.fb.hashtags),
			huh.NewText().
				Title("Thumbnail notes").
				Value(&m.fb.thumbnailNotes),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Add block").
				Options(
					huh.NewOption("None", kindNone),
					huh.NewOption("Text", kindText),
					huh.NewOption("Heading", kindHeading),
					huh.NewOption("Quote", kindQuote),
					huh.NewOption("Checklist item", kindChecklist),
				).
				Value(&m.fb.blockKind),
			huh.NewText().
				Title("Block text").
				Value(&m.fb.blockText),
			huh.NewInput().
				Title("Add shot").
				Placeholder("Shot cue (optional)").
				Value(&m.fb.shotCue),
			huh.NewInput().
				Title("Add call to action").
				Placeholder("CTA text (optional)").
				Value(&m.fb.ctaText),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm(v model.BriefVersion) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Restore version #%d?", v.Number)).
				Description("The current brief is replaced and the restore is kept as a new version.").
				Affirmative("Restore").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) load() tea.Cmd {
	s, ideaID := m.store, m.idea.ID
	return func() tea.Msg {
		ctx := context.Background()
		b, err := s.GetOrCreateBrief(ctx, ideaID)
		if err != nil {
			return loadedMsg{ideaID: ideaID, err: err}
		}
		versions, err := s.ListBriefVersions(ctx, ideaID, store.DefaultVersionLimit)
		return loadedMsg{ideaID: ideaID, brief: b, versions: versions, err: err}
	}
}

func (m Model) save(content model.BriefContent, opts store.BriefWriteOptions, status string) tea.Cmd {
	s, ideaID := m.store, m.idea.ID
	return func() tea.Msg {
		_, err := s.UpdateBrief(context.Background(), ideaID, content, opts)
		return savedMsg{status: status, err: err}
	}
}

// restore applies an earlier version of this idea's brief and records the
// restore as a new version.
func (m Model) restore(versionID string) tea.Cmd {
	s, ideaID := m.store, m.idea.ID
	return func() tea.Msg {
		ctx := context.Background()
		v, content, err := s.RestoreBriefVersion(ctx, versionID)
		if err != nil {
			return savedMsg{err: err}
		}
		if v.IdeaID != ideaID {
			return savedMsg{err: model.NotFound("brief version", versionID)}
		}
		_, err = s.UpdateBrief(ctx, ideaID, content, store.BriefWriteOptions{
			Autosave: true,
			Label:    model.LabelRestore,
		})
		return savedMsg{status: fmt.Sprintf("Restored version #%d", v.Number), err: err}
	}
}

func (m Model) View() string {
	if m.mode != modeView && m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}

	header := theme.TitleStyle.Render(fmt.Sprintf("Brief: %s (%s)",
		m.idea.Title, m.idea.TargetDate.Format("Mon 2 Jan 2006")))

	if m.loading && m.brief == nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(header + "\n" + theme.EmptyStyle.Render("Loading..."))
	}

	leftWidth := max(m.width*3/5-4, 20)
	rightWidth := max(m.width-leftWidth-10, 20)

	left := theme.PanelStyle.Width(leftWidth).Render(m.renderContent())
	right := theme.PanelStyle.Width(rightWidth).Render(m.renderVersions())

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.StatusMsgStyle.Render(m.statusMsg))
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}

func (m Model) renderContent() string {
	if m.brief == nil {
		return ""
	}
	c := m.brief.Content
	if c.IsEmpty() {
		return theme.EmptyStyle.Render("Empty brief. Press 'e' to edit or 't' to insert a template.")
	}

	var b strings.Builder
	section := func(title string) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(theme.HintStyle.Bold(true).Render(title))
		b.WriteString("\n")
	}

	if len(c.Blocks) > 0 {
		section("Script")
		for _, blk := range c.Blocks {
			b.WriteString(renderBlock(blk))
			b.WriteString("\n")
		}
	}
	if len(c.ShotList) > 0 {
		section("Shot list")
		for i, shot := range c.ShotList {
			line := fmt.Sprintf("%d. %s", i+1, shot.Cue)
			if shot.ShotType != nil {
				line += " (" + *shot.ShotType + ")"
			}
			b.WriteString(line + "\n")
		}
	}
	if len(c.CTAs) > 0 {
		section("Calls to action")
		for _, cta := range c.CTAs {
			line := "→ " + cta.Text
			if cta.Platform != nil {
				line += " [" + *cta.Platform + "]"
			}
			b.WriteString(line + "\n")
		}
	}
	if len(c.Hashtags) > 0 {
		section("Hashtags")
		tags := make([]string, len(c.Hashtags))
		for i, t := range c.Hashtags {
			tags[i] = "#" + t
		}
		b.WriteString(strings.Join(tags, " ") + "\n")
	}
	if c.ThumbnailNotes != nil {
		section("Thumbnail")
		b.WriteString(*c.ThumbnailNotes + "\n")
	}
	if len(c.Attachments) > 0 {
		section("Attachments")
		for _, a := range c.Attachments {
			b.WriteString(a.Filename + "  " + theme.HintStyle.Render(a.URL) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderBlock(blk model.Block) string {
	switch b := blk.(type) {
	case model.HeadingBlock:
		return lipgloss.NewStyle().Bold(true).Render(b.Text)
	case model.QuoteBlock:
		return lipgloss.NewStyle().Italic(true).Render("│ " + b.Text)
	case model.ChecklistBlock:
		box := "[ ]"
		if b.Checked {
			box = "[x]"
		}
		return box + " " + b.Text
	default:
		return blk.BlockText()
	}
}

func (m Model) renderVersions() string {
	var b strings.Builder
	b.WriteString(theme.HintStyle.Bold(true).Render("Versions"))
	b.WriteString("\n")

	if len(m.versions) == 0 {
		b.WriteString(theme.EmptyStyle.Render("No versions yet. Press 's' to snapshot."))
		return b.String()
	}

	for i, v := range m.versions {
		label := ""
		if v.Label != nil {
			label = theme.VersionLabelStyle(*v.Label).Render(*v.Label)
		}
		line := fmt.Sprintf("#%d %s %s", v.Number, v.CreatedAt.Local().Format("Jan 2 15:04"), label)
		if i == m.selectedIdx {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(theme.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}
