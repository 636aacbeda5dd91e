package beads

import (
	"testing"
)

func TestRecordTextCoercion(t *testing.T) {
	rec := Record{
		"id":       "  bd-1  ",
		"title":    nil,
		"priority": float64(3),
		"notes":    42,
	}

	if got := rec.ID(); got != "bd-1" {
		t.Errorf("ID() = %q, want trimmed id", got)
	}
	if got := rec.Title(); got != "" {
		t.Errorf("Title() = %q, want empty for null", got)
	}
	if got := rec.text("priority"); got != "3" {
		t.Errorf("text(priority) = %q, want \"3\"", got)
	}
	if got := rec.Notes(); got != "42" {
		t.Errorf("Notes() = %q, want coerced \"42\"", got)
	}
	if got := rec.text("absent"); got != "" {
		t.Errorf("text(absent) = %q, want empty", got)
	}
}

func TestRecordStatusHelpers(t *testing.T) {
	tests := []struct {
		status     any
		wantClosed bool
		wantOpen   bool
	}{
		{"closed", true, false},
		{"Closed", true, false},
		{" CLOSED ", true, false},
		{"open", false, true},
		{"in_progress", false, false},
		{nil, false, false},
	}

	for _, tt := range tests {
		rec := Record{"status": tt.status}
		if got := rec.IsClosed(); got != tt.wantClosed {
			t.Errorf("IsClosed() with status %v = %v, want %v", tt.status, got, tt.wantClosed)
		}
		if got := rec.IsOpen(); got != tt.wantOpen {
			t.Errorf("IsOpen() with status %v = %v, want %v", tt.status, got, tt.wantOpen)
		}
	}
}
