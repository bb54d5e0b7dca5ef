package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, time.February, 29)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-02-29"` {
		t.Fatalf("marshal = %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Fatalf("got %v, want %v", back, d)
	}

	if err := json.Unmarshal([]byte(`"29/02/2024"`), &back); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan("2024-05-01"); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if d.String() != "2024-05-01" {
		t.Fatalf("got %s", d)
	}
	if err := d.Scan(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("scan time: %v", err)
	}
	if d.String() != "2023-12-31" {
		t.Fatalf("got %s", d)
	}
	if err := d.Scan([]byte("2022-01-09T00:00:00Z")); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	if d.String() != "2022-01-09" {
		t.Fatalf("got %s", d)
	}
}

func TestDateWeekdayIsMondayBased(t *testing.T) {
	// 2024-05-06 is a Monday, 2024-05-12 a Sunday.
	if got := NewDate(2024, 5, 6).Weekday(); got != 0 {
		t.Fatalf("monday weekday = %d", got)
	}
	if got := NewDate(2024, 5, 12).Weekday(); got != 6 {
		t.Fatalf("sunday weekday = %d", got)
	}
}
