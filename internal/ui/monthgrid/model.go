// Package monthgrid renders the six-week calendar and tracks the focused
// day and idea.
package monthgrid

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/contenthub/internal/calendar"
	"github.com/nhle/contenthub/internal/keys"
	"github.com/nhle/contenthub/internal/model"
	"github.com/nhle/contenthub/internal/theme"
)

// IdeaLister is the slice of the store the grid reads from.
type IdeaLister interface {
	ListIdeasInRange(ctx context.Context, start, end model.Date) ([]model.Idea, error)
}

// IdeasLoadedMsg carries the ideas of one window.
type IdeasLoadedMsg struct {
	Window calendar.Window
	Ideas  []model.Idea
	Err    error
}

var weekdayNames = [calendar.DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Model is the month grid view.
type Model struct {
	store   IdeaLister
	keys    *keys.KeyMap
	window  calendar.Window
	byDay   map[model.Date][]model.Idea
	cursor  model.Date
	ideaIdx int
	pending string
	today   model.Date
	loading bool
	err     error
	width   int
	height  int
}

// New creates a grid focused on today.
func New(s IdeaLister, k *keys.KeyMap, today model.Date, width, height int) Model {
	return Model{
		store:  s,
		keys:   k,
		window: calendar.ForDate(today),
		byDay:  map[model.Date][]model.Idea{},
		cursor: today,
		today:  today,
		width:  width,
		height: height,
	}
}

// Init loads the current window.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Load fetches the ideas of the current window.
func (m Model) Load() tea.Cmd {
	s, w := m.store, m.window
	return func() tea.Msg {
		ideas, err := s.ListIdeasInRange(context.Background(), w.RangeStart, w.RangeEnd)
		return IdeasLoadedMsg{Window: w, Ideas: ideas, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case IdeasLoadedMsg:
		// Drop results of a window the user already left.
		if !msg.Window.RangeStart.Equal(m.window.RangeStart) {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.byDay = calendar.GroupByDay(msg.Ideas)
		}
		if m.pending != "" {
			m.SelectIdea(m.pending)
			m.pending = ""
		}
		m.clampIdea()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		return m.MoveTo(m.cursor.AddDays(-1))
	case key.Matches(msg, m.keys.Right):
		return m.MoveTo(m.cursor.AddDays(1))
	case key.Matches(msg, m.keys.Up):
		return m.MoveTo(m.cursor.AddDays(-calendar.DaysPerWeek))
	case key.Matches(msg, m.keys.Down):
		return m.MoveTo(m.cursor.AddDays(calendar.DaysPerWeek))
	case key.Matches(msg, m.keys.PrevMonth):
		return m.ShiftMonth(-1)
	case key.Matches(msg, m.keys.NextMonth):
		return m.ShiftMonth(1)
	case key.Matches(msg, m.keys.Today):
		return m.MoveTo(m.today)
	case key.Matches(msg, m.keys.Cycle):
		if n := len(m.byDay[m.cursor]); n > 0 {
			m.ideaIdx = (m.ideaIdx + 1) % n
		}
		return m, nil
	}
	return m, nil
}

// MoveTo focuses d, switching to its month when d lies outside the
// current one. Days outside the supported years are ignored.
func (m Model) MoveTo(d model.Date) (Model, tea.Cmd) {
	if !d.InSupportedRange() {
		return m, nil
	}
	m.cursor = d
	m.ideaIdx = 0
	if m.window.InMonth(d) {
		return m, nil
	}
	m.window = calendar.ForDate(d)
	m.loading = true
	return m, m.Load()
}

// ShiftMonth moves delta months, keeping the day of month where the
// target month is long enough.
func (m Model) ShiftMonth(delta int) (Model, tea.Cmd) {
	first := model.NewDate(m.cursor.Year(), m.cursor.Month()+time.Month(delta), 1)
	day := min(m.cursor.Day(), daysIn(first.Year(), first.Month()))
	return m.MoveTo(model.NewDate(first.Year(), first.Month(), day))
}

// GoTo focuses the first day of the given month.
func (m Model) GoTo(year int, month time.Month) (Model, tea.Cmd) {
	return m.MoveTo(model.NewDate(year, month, 1))
}

// Reload refetches the current window, e.g. after a write.
func (m Model) Reload() (Model, tea.Cmd) {
	m.loading = true
	return m, m.Load()
}

// SetToday updates the date highlighted as today.
func (m *Model) SetToday(d model.Date) {
	m.today = d
}

// Cursor returns the focused day.
func (m Model) Cursor() model.Date {
	return m.cursor
}

// Window returns the displayed window.
func (m Model) Window() calendar.Window {
	return m.window
}

// IdeasOn returns the loaded ideas of d.
func (m Model) IdeasOn(d model.Date) []model.Idea {
	return m.byDay[d]
}

// SelectedIdea returns the focused idea of the focused day.
func (m Model) SelectedIdea() (model.Idea, bool) {
	ideas := m.byDay[m.cursor]
	if m.ideaIdx < 0 || m.ideaIdx >= len(ideas) {
		return model.Idea{}, false
	}
	return ideas[m.ideaIdx], true
}

// SelectIdea focuses the idea with the given ID if it is on the focused day.
func (m *Model) SelectIdea(id string) {
	for i, idea := range m.byDay[m.cursor] {
		if idea.ID == id {
			m.ideaIdx = i
			return
		}
	}
}

// SelectAfterLoad focuses the idea with the given ID once the next load
// completes.
func (m *Model) SelectAfterLoad(id string) {
	m.pending = id
}

func (m *Model) clampIdea() {
	n := len(m.byDay[m.cursor])
	if m.ideaIdx >= n {
		m.ideaIdx = max(n-1, 0)
	}
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) View() string {
	var b strings.Builder

	title := theme.TitleStyle.MarginBottom(0).Render(m.window.CurrentLabel)
	nav := theme.HintStyle.Render(fmt.Sprintf("[ %s   %s ]", m.window.PreviousLabel, m.window.NextLabel))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", nav))
	if m.loading {
		b.WriteString(theme.HintStyle.Render("  loading..."))
	}
	b.WriteString("\n")

	cellWidth := m.cellWidth()
	headers := make([]string, 0, calendar.DaysPerWeek)
	for _, name := range weekdayNames {
		headers = append(headers, theme.WeekdayStyle.Width(cellWidth+4).Render(name))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, headers...))
	b.WriteString("\n")

	lines := m.ideaLines()
	rows := make([]string, 0, calendar.WeeksShown)
	for _, week := range m.window.Weeks {
		cells := make([]string, 0, calendar.DaysPerWeek)
		for _, day := range week {
			cells = append(cells, m.renderCell(day, cellWidth, lines))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	b.WriteString("\n")
	b.WriteString(m.renderFocus())

	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}

func (m Model) renderCell(day model.Date, width, lines int) string {
	numStyle := theme.DayNumberStyle
	switch {
	case day.Equal(m.today):
		numStyle = theme.TodayNumberStyle
	case !m.window.InMonth(day):
		numStyle = theme.OtherMonthStyle
	}

	content := []string{numStyle.Render(fmt.Sprintf("%2d", day.Day()))}
	ideas := m.byDay[day]
	focusedDay := day.Equal(m.cursor)
	for i, idea := range ideas {
		if i == lines-1 && len(ideas) > lines {
			content = append(content, theme.HintStyle.Render(fmt.Sprintf("+%d more", len(ideas)-i)))
			break
		}
		if i >= lines {
			break
		}
		mark := "·"
		if idea.Completed {
			mark = "✓"
		}
		text := truncate(mark+" "+idea.Title, width)
		content = append(content, theme.IdeaStyle(idea.Completed, focusedDay && i == m.ideaIdx).Render(text))
	}

	style := theme.DayCellStyle
	if focusedDay {
		style = theme.SelectedDayCellStyle
	}
	return style.Width(width + 2).Height(lines + 1).Render(strings.Join(content, "\n"))
}

func (m Model) renderFocus() string {
	if m.err != nil {
		return theme.StatusMsgStyle.Render("Error: " + m.err.Error())
	}
	idea, ok := m.SelectedIdea()
	if !ok {
		return theme.EmptyStyle.Render(m.cursor.Format("Mon 2 Jan 2006") + ": no ideas. Press 'n' to add one.")
	}

	status := "open"
	if idea.Completed {
		status = "done"
	}
	line := fmt.Sprintf("%s  %s  [%s]", idea.TargetDate.Format("Mon 2 Jan"), idea.Title, status)
	if n := len(m.byDay[m.cursor]); n > 1 {
		line += fmt.Sprintf("  (%d/%d)", m.ideaIdx+1, n)
	}
	out := theme.IdeaStyle(idea.Completed, true).Render(line)
	if idea.Description != nil {
		out += "\n" + theme.HintStyle.Render(truncate(*idea.Description, m.width-4))
	}
	return out
}

// cellWidth is the inner text width of one day cell.
func (m Model) cellWidth() int {
	// Each cell adds two border columns and two padding columns.
	w := (m.width-2)/calendar.DaysPerWeek - 4
	return max(w, 4)
}

// ideaLines is the number of idea rows each cell has room for.
func (m Model) ideaLines() int {
	// Title, weekday header and the focus footer take four rows; each week
	// row spends two on borders and one on the day number.
	per := (m.height-4)/calendar.WeeksShown - 3
	return max(per, 1)
}

func daysIn(year int, month time.Month) int {
	return model.NewDate(year, month+1, 1).AddDays(-1).Day()
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
