// Package calendar computes the fixed 6-week month grid shown by every
// calendar view. The grid and the idea range query always come from the
// same Window so that they cover exactly the same 42 days.
package calendar

import (
	"time"

	"github.com/nhle/contenthub/internal/model"
)

// Grid dimensions. The grid never shrinks to 4 or 5 weeks so the layout
// does not reflow between months.
const (
	DaysPerWeek = 7
	WeeksShown  = 6
	DaysShown   = DaysPerWeek * WeeksShown
)

// Anchor identifies a month.
type Anchor struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Window is the Monday-first 6x7 grid for one month plus navigation data.
type Window struct {
	Weeks         [WeeksShown][DaysPerWeek]model.Date `json:"weeks"`
	RangeStart    model.Date                          `json:"range_start"`
	RangeEnd      model.Date                          `json:"range_end"`
	CurrentMonth  time.Month                          `json:"current_month"`
	CurrentYear   int                                 `json:"current_year"`
	Previous      Anchor                              `json:"previous"`
	Next          Anchor                              `json:"next"`
	CurrentLabel  string                              `json:"current_label"`
	PreviousLabel string                              `json:"previous_label"`
	NextLabel     string                              `json:"next_label"`
}

// MonthWindow returns the grid for the given month. It starts on the Monday
// on or before the first of the month and spans 42 consecutive days.
func MonthWindow(year int, month time.Month) (Window, error) {
	if year < model.MinYear || year > model.MaxYear {
		return Window{}, model.Invalid("year", "must be between %d and %d, got %d", model.MinYear, model.MaxYear, year)
	}
	if month < time.January || month > time.December {
		return Window{}, model.Invalid("month", "must be between 1 and 12, got %d", int(month))
	}

	firstDay := model.NewDate(year, month, 1)
	start := firstDay.AddDays(-firstDay.Weekday())

	var w Window
	for i := 0; i < DaysShown; i++ {
		w.Weeks[i/DaysPerWeek][i%DaysPerWeek] = start.AddDays(i)
	}
	w.RangeStart = start
	w.RangeEnd = start.AddDays(DaysShown - 1)
	w.CurrentYear = year
	w.CurrentMonth = month

	prev := firstDay.AddDays(-1)
	next := w.RangeEnd.AddDays(1)
	w.Previous = Anchor{Year: prev.Year(), Month: prev.Month()}
	w.Next = Anchor{Year: next.Year(), Month: next.Month()}

	w.CurrentLabel = firstDay.Format("January 2006")
	w.PreviousLabel = model.NewDate(w.Previous.Year, w.Previous.Month, 1).Format("Jan")
	w.NextLabel = model.NewDate(w.Next.Year, w.Next.Month, 1).Format("Jan")
	return w, nil
}

// ForDate returns the window of the month containing d.
func ForDate(d model.Date) Window {
	// Callers keep d within model.MinYear..MaxYear.
	w, _ := MonthWindow(d.Year(), d.Month())
	return w
}

// Days returns the 42 dates of the window in order.
func (w Window) Days() []model.Date {
	days := make([]model.Date, 0, DaysShown)
	for _, week := range w.Weeks {
		days = append(days, week[:]...)
	}
	return days
}

// Contains reports whether d falls inside the grid.
func (w Window) Contains(d model.Date) bool {
	return !d.Before(w.RangeStart) && !d.After(w.RangeEnd)
}

// InMonth reports whether d belongs to the window's own month rather than
// the leading or trailing days of its neighbours.
func (w Window) InMonth(d model.Date) bool {
	return d.Year() == w.CurrentYear && d.Month() == w.CurrentMonth
}

// GroupByDay indexes ideas by their target date, keeping input order
// within each day.
func GroupByDay(ideas []model.Idea) map[model.Date][]model.Idea {
	byDay := make(map[model.Date][]model.Idea)
	for _, idea := range ideas {
		byDay[idea.TargetDate] = append(byDay[idea.TargetDate], idea)
	}
	return byDay
}
