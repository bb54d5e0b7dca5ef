package ideaform

import (
	"strings"
	"testing"
	"time"

	"github.com/nhle/contenthub/internal/model"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"Launch teaser", false},
		{"   ", true},
		{"", true},
		{strings.Repeat("a", model.IdeaTitleMaxLen), false},
		{strings.Repeat("é", model.IdeaTitleMaxLen+1), true},
	}
	for _, tt := range tests {
		if err := validateTitle(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("validateTitle(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestValidateDate(t *testing.T) {
	if err := validateDate("2024-02-29"); err != nil {
		t.Fatalf("valid date rejected: %v", err)
	}
	for _, in := range []string{"", "2024-02-30", "20/05/2024"} {
		if err := validateDate(in); err == nil {
			t.Errorf("validateDate(%q) accepted", in)
		}
	}
}

func TestStartCreatePrefillsDay(t *testing.T) {
	m := New(100, 30)
	m.StartCreate(model.NewDate(2024, time.May, 20))

	if m.Editing() {
		t.Fatal("create form should not report editing")
	}
	if m.fb.targetDate != "2024-05-20" {
		t.Fatalf("target date = %q", m.fb.targetDate)
	}
	if m.View() == "" {
		t.Fatal("open form renders nothing")
	}
}

func TestSubmitTrimsAndDropsEmptyDescription(t *testing.T) {
	m := New(100, 30)
	desc := "old notes"
	m.StartEdit(model.Idea{ID: "idea-1", Title: "Teaser", TargetDate: model.NewDate(2024, time.May, 20), Description: &desc})

	if !m.Editing() || m.fb.description != "old notes" {
		t.Fatalf("edit form not prefilled: %+v", m.fb)
	}

	m.fb.title = "  Final teaser  "
	m.fb.targetDate = "2024-06-01"
	m.fb.description = "   "

	msg, ok := m.submit()().(SubmittedMsg)
	if !ok {
		t.Fatal("submit should produce SubmittedMsg")
	}
	if msg.ID != "idea-1" || msg.Title != "Final teaser" {
		t.Fatalf("msg = %+v", msg)
	}
	if !msg.TargetDate.Equal(model.NewDate(2024, time.June, 1)) {
		t.Fatalf("target date = %v", msg.TargetDate)
	}
	if msg.Description != nil {
		t.Fatalf("blank description should be nil, got %q", *msg.Description)
	}

	patch := msg.Patch()
	d, set := patch.Description.Get()
	if !set || d != nil {
		t.Fatalf("patch should clear the description, got set=%v value=%v", set, d)
	}
	if title, _ := patch.Title.Get(); title != "Final teaser" {
		t.Fatalf("patch title = %q", title)
	}
}
