package ui

import (
	"testing"
	"time"

	"github.com/five82/sqmon/internal/snapshot"
	"github.com/five82/sqmon/internal/table"
)

func TestFormatTimestamp(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Time{}, ""},
		{now.Add(-10 * time.Second), "11:59:50 (now)"},
		{now.Add(-5 * time.Minute), "11:55:00 (5m ago)"},
		{now.Add(-3 * time.Hour), "09:00:00 (3h ago)"},
		{now.Add(-48 * time.Hour), "12:00:00"},
	}
	for _, tt := range tests {
		if got := formatTimestamp(tt.at, now); got != tt.want {
			t.Fatalf("formatTimestamp(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.s, tt.max); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
		}
	}
}

func TestStateCounts(t *testing.T) {
	m := Model{view: table.View{
		Columns: []string{"job_id", snapshot.StateColumn},
		Rows: []table.Row{
			{table.Int(1), table.String("RUNNING")},
			{table.Int(2), table.String("PENDING")},
			{table.Int(3), table.String("RUNNING")},
		},
	}}

	got := m.stateCounts()
	if len(got) != 2 {
		t.Fatalf("stateCounts = %+v", got)
	}
	if got[0] != (stateCount{"RUNNING", 2}) || got[1] != (stateCount{"PENDING", 1}) {
		t.Fatalf("stateCounts = %+v", got)
	}

	m.view.Columns = []string{"job_id", "user"}
	if got := m.stateCounts(); got != nil {
		t.Fatalf("stateCounts without state column = %+v", got)
	}
}

func TestParseCell(t *testing.T) {
	c, err := parseCell(table.KindInt, " 42 ")
	if err != nil || c.Int64() != 42 {
		t.Fatalf("parseCell int = %v, %v", c, err)
	}
	if _, err := parseCell(table.KindInt, "x"); err == nil {
		t.Fatal("parseCell accepted non-integer")
	}

	c, err = parseCell(table.KindTime, table.UnsetLabel)
	if err != nil || !c.IsUnset() {
		t.Fatalf("parseCell N/A = %v, %v", c, err)
	}
	c, err = parseCell(table.KindTime, "2024-03-01T08:30:00")
	if err != nil || c.IsUnset() {
		t.Fatalf("parseCell time = %v, %v", c, err)
	}
	if got := c.String(); got != "2024-03-01T08:30:00" {
		t.Fatalf("time cell = %q", got)
	}
	if _, err := parseCell(table.KindTime, "yesterday"); err == nil {
		t.Fatal("parseCell accepted bad time")
	}

	c, err = parseCell(table.KindString, "abc")
	if err != nil || c.String() != "abc" {
		t.Fatalf("parseCell string = %v, %v", c, err)
	}
}
