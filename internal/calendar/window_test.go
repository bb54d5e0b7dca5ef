package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/nhle/contenthub/internal/model"
)

func TestMonthWindowShape(t *testing.T) {
	for year := 2019; year <= 2030; year++ {
		for month := time.January; month <= time.December; month++ {
			w, err := MonthWindow(year, month)
			if err != nil {
				t.Fatalf("MonthWindow(%d, %d): %v", year, month, err)
			}

			days := w.Days()
			if len(days) != DaysShown {
				t.Fatalf("%d-%02d: %d days", year, month, len(days))
			}
			if days[0].Weekday() != 0 {
				t.Errorf("%d-%02d: grid starts on weekday %d", year, month, days[0].Weekday())
			}
			if days[len(days)-1].Weekday() != 6 {
				t.Errorf("%d-%02d: grid ends on weekday %d", year, month, days[len(days)-1].Weekday())
			}
			if !w.RangeStart.Equal(days[0]) || !w.RangeEnd.Equal(days[len(days)-1]) {
				t.Errorf("%d-%02d: range %s..%s does not match grid", year, month, w.RangeStart, w.RangeEnd)
			}
			for i := 1; i < len(days); i++ {
				if !days[i].Equal(days[i-1].AddDays(1)) {
					t.Fatalf("%d-%02d: day %d not consecutive", year, month, i)
				}
			}
			if !w.Contains(model.NewDate(year, month, 1)) {
				t.Errorf("%d-%02d: grid misses the first of the month", year, month)
			}
		}
	}
}

func TestMonthWindowMay2024(t *testing.T) {
	w, err := MonthWindow(2024, time.May)
	if err != nil {
		t.Fatalf("MonthWindow: %v", err)
	}
	if len(w.Weeks) != 6 {
		t.Fatalf("weeks = %d", len(w.Weeks))
	}
	if w.Weeks[0][0].Weekday() != 0 {
		t.Errorf("week[0][0] = %s is not a Monday", w.Weeks[0][0])
	}
	if w.Weeks[5][6].Weekday() != 6 {
		t.Errorf("week[5][6] = %s is not a Sunday", w.Weeks[5][6])
	}
	// 2024-05-01 is a Wednesday.
	if got := w.RangeStart.String(); got != "2024-04-29" {
		t.Errorf("range start = %s", got)
	}
	if got := w.RangeEnd.String(); got != "2024-06-09" {
		t.Errorf("range end = %s", got)
	}
	if w.Previous != (Anchor{2024, time.April}) || w.Next != (Anchor{2024, time.June}) {
		t.Errorf("anchors = %+v / %+v", w.Previous, w.Next)
	}
	if w.CurrentLabel != "May 2024" || w.PreviousLabel != "Apr" || w.NextLabel != "Jun" {
		t.Errorf("labels = %q %q %q", w.CurrentLabel, w.PreviousLabel, w.NextLabel)
	}
}

func TestMonthWindowMonthStartingOnMonday(t *testing.T) {
	// 2024-01-01 is a Monday: the grid starts on the first itself.
	w, err := MonthWindow(2024, time.January)
	if err != nil {
		t.Fatalf("MonthWindow: %v", err)
	}
	if got := w.RangeStart.String(); got != "2024-01-01" {
		t.Fatalf("range start = %s", got)
	}
	if w.Previous != (Anchor{2023, time.December}) {
		t.Fatalf("previous = %+v", w.Previous)
	}
	// 42 days from Jan 1 end on Feb 11, so next is February.
	if w.Next != (Anchor{2024, time.February}) {
		t.Fatalf("next = %+v", w.Next)
	}
}

func TestMonthWindowFebruaryFitsFourWeeksStillSix(t *testing.T) {
	// February 2021 starts on a Monday and has exactly 28 days.
	w, err := MonthWindow(2021, time.February)
	if err != nil {
		t.Fatalf("MonthWindow: %v", err)
	}
	if got := w.RangeEnd.String(); got != "2021-03-14" {
		t.Fatalf("range end = %s", got)
	}
	// The day after the grid is in March, so next skips nothing.
	if w.Next != (Anchor{2021, time.March}) {
		t.Fatalf("next = %+v", w.Next)
	}
}

func TestMonthWindowDecemberNextIsJanuary(t *testing.T) {
	w, err := MonthWindow(2024, time.December)
	if err != nil {
		t.Fatalf("MonthWindow: %v", err)
	}
	if w.Next != (Anchor{2025, time.January}) {
		t.Fatalf("next = %+v", w.Next)
	}
	if w.NextLabel != "Jan" {
		t.Fatalf("next label = %q", w.NextLabel)
	}
}

func TestMonthWindowRejectsInvalidMonth(t *testing.T) {
	for _, m := range []time.Month{0, 13} {
		if _, err := MonthWindow(2024, m); !errors.Is(err, model.ErrValidation) {
			t.Errorf("month %d: err = %v", m, err)
		}
	}
}

func TestWindowInMonth(t *testing.T) {
	w := ForDate(model.NewDate(2024, time.May, 15))
	if w.InMonth(w.RangeStart) {
		t.Error("April 29 should not be in May")
	}
	if !w.InMonth(model.NewDate(2024, time.May, 31)) {
		t.Error("May 31 should be in May")
	}
}

func TestGroupByDay(t *testing.T) {
	d1 := model.NewDate(2024, 5, 1)
	d2 := model.NewDate(2024, 5, 2)
	ideas := []model.Idea{
		{ID: "a", TargetDate: d1},
		{ID: "b", TargetDate: d2},
		{ID: "c", TargetDate: d1},
	}
	byDay := GroupByDay(ideas)
	if len(byDay[d1]) != 2 || byDay[d1][0].ID != "a" || byDay[d1][1].ID != "c" {
		t.Fatalf("day 1 = %+v", byDay[d1])
	}
	if len(byDay[d2]) != 1 {
		t.Fatalf("day 2 = %+v", byDay[d2])
	}
	parsed, err := model.ParseDate("2024-05-01")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(byDay[parsed]) != 2 {
		t.Fatal("parsed date does not match map key")
	}
}

func TestMonthWindowYearBounds(t *testing.T) {
	for _, year := range []int{0, -5, model.MaxYear + 1} {
		if _, err := MonthWindow(year, time.June); !errors.Is(err, model.ErrValidation) {
			t.Errorf("year %d: err = %v, want ErrValidation", year, err)
		}
	}

	w, err := MonthWindow(model.MaxYear, time.December)
	if err != nil {
		t.Fatalf("MonthWindow(MaxYear, December): %v", err)
	}
	if end := w.RangeEnd.String(); len(end) != len(model.DateLayout) || end[:4] != "9999" {
		t.Fatalf("range end = %q, want a four-digit year", end)
	}
}
