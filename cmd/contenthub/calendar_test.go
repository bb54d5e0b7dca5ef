package main

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/nhle/contenthub/internal/calendar"
	"github.com/nhle/contenthub/internal/model"
)

func TestPrintWindow(t *testing.T) {
	window, err := calendar.MonthWindow(2024, time.May)
	if err != nil {
		t.Fatalf("MonthWindow: %v", err)
	}
	day := model.NewDate(2024, time.May, 20)
	byDay := map[model.Date][]model.Idea{
		day: {{ID: "a", Title: "Teaser", TargetDate: day, Completed: true}},
	}

	var buf bytes.Buffer
	printWindow(&buf, window, byDay, model.NewDate(2024, time.May, 15))
	out := buf.String()

	lines := strings.Split(out, "\n")
	if !strings.Contains(lines[0], "May 2024") || !strings.Contains(lines[0], "Apr") || !strings.Contains(lines[0], "Jun") {
		t.Fatalf("header = %q", lines[0])
	}
	// Header, weekday row and six weeks precede the idea list.
	if lines[2] != " ..  ..   1   2   3   4   5" {
		t.Fatalf("first week = %q", lines[2])
	}
	if lines[6] != " 27  28  29  30  31  ..  .." {
		t.Fatalf("fifth week = %q", lines[6])
	}
	// Every cell is four columns wide, so each row lines up under the
	// weekday header.
	for i := 2; i < 8; i++ {
		if got, want := utf8.RuneCountInString(lines[i]), utf8.RuneCountInString(lines[1]); got != want {
			t.Errorf("week %d is %d columns wide, header is %d: %q", i-1, got, want, lines[i])
		}
	}
	if !strings.Contains(out, "*15") || !strings.Contains(out, "•20") {
		t.Fatalf("missing today or idea marker:\n%s", out)
	}
	if !strings.Contains(out, "Mon 20 May  [x] Teaser") {
		t.Fatalf("missing idea line:\n%s", out)
	}
}

func TestPrintWindowEmpty(t *testing.T) {
	window, _ := calendar.MonthWindow(2024, time.February)

	var buf bytes.Buffer
	printWindow(&buf, window, nil, model.NewDate(2030, time.January, 1))
	if !strings.Contains(buf.String(), "No ideas scheduled.") {
		t.Fatalf("output:\n%s", buf.String())
	}
}

func TestEnsureParentDirSkipsMemory(t *testing.T) {
	if err := ensureParentDir(":memory:"); err != nil {
		t.Fatalf("ensureParentDir: %v", err)
	}
	dir := t.TempDir()
	if err := ensureParentDir(dir + "/nested/db.sqlite"); err != nil {
		t.Fatalf("ensureParentDir: %v", err)
	}
}
