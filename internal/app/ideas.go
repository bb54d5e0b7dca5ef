package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/contenthub/internal/model"
	"github.com/nhle/contenthub/internal/ui/ideaform"
)

// ideaSavedMsg is sent after an idea is created, updated or toggled.
type ideaSavedMsg struct {
	idea   model.Idea
	status string
	err    error
}

// ideaDeletedMsg is sent after an idea is deleted.
type ideaDeletedMsg struct{ err error }

// saveIdea persists a form submission.
func (m Model) saveIdea(sub ideaform.SubmittedMsg) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		if sub.ID == "" {
			idea, err := s.CreateIdea(ctx, sub.Title, sub.TargetDate, sub.Description)
			if err != nil {
				return ideaSavedMsg{err: err}
			}
			return ideaSavedMsg{idea: *idea, status: "Idea created"}
		}
		idea, err := s.UpdateIdea(ctx, sub.ID, sub.Patch())
		if err != nil {
			return ideaSavedMsg{err: err}
		}
		return ideaSavedMsg{idea: *idea, status: "Idea saved"}
	}
}

func (m Model) toggleIdea(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		idea, err := s.ToggleIdeaCompletion(context.Background(), id)
		if err != nil {
			return ideaSavedMsg{err: err}
		}
		status := "Marked open"
		if idea.Completed {
			status = "Marked done"
		}
		return ideaSavedMsg{idea: *idea, status: status}
	}
}

func (m Model) deleteIdea(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return ideaDeletedMsg{err: s.DeleteIdea(context.Background(), id)}
	}
}

// parseMonth parses YYYY-MM.
func parseMonth(s string) (int, time.Month, error) {
	year, month, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid month %q, use YYYY-MM", s)
	}
	y, err := strconv.Atoi(year)
	if err != nil || y < model.MinYear || y > model.MaxYear {
		return 0, 0, fmt.Errorf("invalid year %q", year)
	}
	mo, err := strconv.Atoi(month)
	if err != nil || mo < 1 || mo > 12 {
		return 0, 0, fmt.Errorf("invalid month %q", month)
	}
	return y, time.Month(mo), nil
}
