package model

import (
	"encoding/json"
	"testing"
)

func TestIdeaPatchDistinguishesAbsentFromNull(t *testing.T) {
	var absent IdeaPatch
	if err := json.Unmarshal([]byte(`{"title": "New"}`), &absent); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if title, ok := absent.Title.Get(); !ok || title != "New" {
		t.Fatalf("title = %q, %v", title, ok)
	}
	if absent.Description.IsSet() {
		t.Fatal("absent description should be unset")
	}
	if absent.TargetDate.IsSet() {
		t.Fatal("absent target date should be unset")
	}

	var cleared IdeaPatch
	if err := json.Unmarshal([]byte(`{"description": null}`), &cleared); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	desc, ok := cleared.Description.Get()
	if !ok || desc != nil {
		t.Fatalf("explicit null description = %v, %v; want nil, true", desc, ok)
	}

	var valued IdeaPatch
	if err := json.Unmarshal([]byte(`{"description": "notes", "target_date": "2024-05-17"}`), &valued); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	desc, ok = valued.Description.Get()
	if !ok || desc == nil || *desc != "notes" {
		t.Fatalf("description = %v, %v", desc, ok)
	}
	date, ok := valued.TargetDate.Get()
	if !ok || !date.Equal(NewDate(2024, 5, 17)) {
		t.Fatalf("target date = %v, %v", date, ok)
	}
}

func TestFieldMarshal(t *testing.T) {
	data, err := json.Marshal(struct {
		A Field[int] `json:"a"`
		B Field[int] `json:"b"`
	}{A: Set(3)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"a":3,"b":null}` {
		t.Fatalf("got %s", data)
	}
}
