package monthgrid

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/contenthub/internal/keys"
	"github.com/nhle/contenthub/internal/model"
)

type fakeLister struct {
	ideas []model.Idea
	calls int
}

func (f *fakeLister) ListIdeasInRange(_ context.Context, start, end model.Date) ([]model.Idea, error) {
	f.calls++
	var out []model.Idea
	for _, idea := range f.ideas {
		if !idea.TargetDate.Before(start) && !idea.TargetDate.After(end) {
			out = append(out, idea)
		}
	}
	return out, nil
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// load executes cmd and feeds its message back into m.
func load(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	m, _ = m.Update(cmd())
	return m
}

func newGrid(t *testing.T, today model.Date, ideas ...model.Idea) (Model, *fakeLister) {
	t.Helper()
	f := &fakeLister{ideas: ideas}
	m := New(f, keys.DefaultKeyMap(), today, 140, 40)
	return load(t, m, m.Init()), f
}

func TestArrowMovementWithinMonth(t *testing.T) {
	m, f := newGrid(t, model.NewDate(2024, time.May, 15))

	m, cmd := m.Update(runeKey("l"))
	if cmd != nil {
		t.Fatal("moving within the month should not reload")
	}
	if got := m.Cursor().String(); got != "2024-05-16" {
		t.Fatalf("cursor = %s", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := m.Cursor().String(); got != "2024-05-23" {
		t.Fatalf("cursor = %s", got)
	}
	if f.calls != 1 {
		t.Fatalf("store calls = %d", f.calls)
	}
}

func TestLeavingMonthSwitchesWindow(t *testing.T) {
	m, f := newGrid(t, model.NewDate(2024, time.May, 31))

	m, cmd := m.Update(runeKey("l"))
	if got := m.Window().CurrentLabel; got != "June 2024" {
		t.Fatalf("window = %s", got)
	}
	m = load(t, m, cmd)
	if f.calls != 2 {
		t.Fatalf("store calls = %d", f.calls)
	}
	if got := m.Window().RangeStart.String(); got != "2024-05-27" {
		t.Fatalf("range start = %s", got)
	}
}

func TestShiftMonthClampsDay(t *testing.T) {
	m, _ := newGrid(t, model.NewDate(2024, time.January, 31))

	m, _ = m.ShiftMonth(1)
	if got := m.Cursor().String(); got != "2024-02-29" {
		t.Fatalf("cursor = %s, want leap day", got)
	}
	m, _ = m.ShiftMonth(-2)
	if got := m.Cursor().String(); got != "2023-12-29" {
		t.Fatalf("cursor = %s", got)
	}
}

func TestStaleLoadIsDropped(t *testing.T) {
	may := model.NewDate(2024, time.May, 10)
	june := model.NewDate(2024, time.June, 20)
	m, _ := newGrid(t, may, model.Idea{ID: "j", Title: "June idea", TargetDate: june})

	mayLoad := m.Load()
	m, cmd := m.ShiftMonth(1)
	m = load(t, m, cmd)
	if len(m.IdeasOn(june)) != 1 {
		t.Fatalf("june ideas = %d", len(m.IdeasOn(june)))
	}

	m, _ = m.Update(mayLoad())
	if len(m.IdeasOn(june)) != 1 {
		t.Fatal("stale May result replaced the June window")
	}
}

func TestCycleAndSelectIdeas(t *testing.T) {
	day := model.NewDate(2024, time.May, 10)
	m, _ := newGrid(t, day,
		model.Idea{ID: "a", Title: "First", TargetDate: day},
		model.Idea{ID: "b", Title: "Second", TargetDate: day},
	)

	idea, ok := m.SelectedIdea()
	if !ok || idea.ID != "a" {
		t.Fatalf("selected = %+v", idea)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if idea, _ := m.SelectedIdea(); idea.ID != "b" {
		t.Fatalf("after tab = %s", idea.ID)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if idea, _ := m.SelectedIdea(); idea.ID != "a" {
		t.Fatalf("tab should wrap, got %s", idea.ID)
	}

	m.SelectAfterLoad("b")
	m, cmd := m.Reload()
	m = load(t, m, cmd)
	if idea, _ := m.SelectedIdea(); idea.ID != "b" {
		t.Fatalf("pending selection = %s", idea.ID)
	}
}

func TestTodayKeyReturnsToToday(t *testing.T) {
	today := model.NewDate(2024, time.May, 15)
	m, _ := newGrid(t, today)

	m, _ = m.GoTo(2025, time.March)
	m, _ = m.Update(runeKey("."))
	if !m.Cursor().Equal(today) || m.Window().CurrentMonth != time.May {
		t.Fatalf("cursor = %s, window = %s", m.Cursor(), m.Window().CurrentLabel)
	}
}

func TestViewRendersMonthAndIdeas(t *testing.T) {
	day := model.NewDate(2024, time.May, 10)
	m, _ := newGrid(t, day, model.Idea{ID: "a", Title: "Launch teaser", TargetDate: day})

	out := m.View()
	for _, want := range []string{"May 2024", "Apr", "Jun", "Mon", "Sun", "Launch"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"too long", 5, "too …"},
		{"ünïcode", 3, "ün…"},
		{"x", 0, ""},
	}
	for _, tc := range tests {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}

func TestShiftMonthStopsAtLastSupportedYear(t *testing.T) {
	m, _ := newGrid(t, model.NewDate(model.MaxYear, time.December, 10))

	m, cmd := m.Update(runeKey("]"))
	if cmd != nil {
		t.Fatal("moving past the last supported month should not load")
	}
	if got := m.Cursor(); !got.Equal(model.NewDate(model.MaxYear, time.December, 10)) {
		t.Fatalf("cursor = %v, want unchanged", got)
	}
}
