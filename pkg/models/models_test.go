package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPriority_Rank(t *testing.T) {
	tests := []struct {
		priority Priority
		rank     int
	}{
		{PriorityCritical, 4},
		{PriorityHigh, 3},
		{PriorityMedium, 2},
		{PriorityLow, 1},
		{Priority("urgent-ish"), 0},
		{Priority(""), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			if got := tt.priority.Rank(); got != tt.rank {
				t.Errorf("Rank() = %d, want %d", got, tt.rank)
			}
		})
	}
}

func TestPriority_TotalOrder(t *testing.T) {
	for i := 1; i < len(Priorities); i++ {
		if Priorities[i-1].Rank() <= Priorities[i].Rank() {
			t.Errorf("%s should rank above %s", Priorities[i-1], Priorities[i])
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-15")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.March || d.Day() != 15 {
		t.Errorf("ParseDate() = %v, want 2026-03-15", d)
	}

	if _, err := ParseDate("not-a-date"); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(2026, time.January, 2)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != `"2026-01-02"` {
		t.Errorf("Marshal() = %s, want \"2026-01-02\"", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("roundtrip = %v, want %v", back, d)
	}

	var zero Date
	if err := json.Unmarshal([]byte(`null`), &zero); err != nil {
		t.Fatalf("Unmarshal(null) error = %v", err)
	}
	if !zero.IsZero() {
		t.Errorf("Unmarshal(null) = %v, want zero date", zero)
	}
}

func TestDate_DaysFrom(t *testing.T) {
	now := time.Date(2026, time.June, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		date Date
		want int
	}{
		{"ten days out", NewDate(2026, time.June, 25), 10},
		{"yesterday", NewDate(2026, time.June, 14), -1},
		{"today regardless of clock time", NewDate(2026, time.June, 15), 0},
		{"thirty days out", NewDate(2026, time.July, 15), 30},
		{"past month", NewDate(2026, time.May, 15), -31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.date.DaysFrom(now); got != tt.want {
				t.Errorf("DaysFrom() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUnknownEnumValuesTolerated(t *testing.T) {
	raw := `{"title":"x","regulation_type":"gdpr","priority":"p0","status":"unknown_state"}`

	var req ComplianceRequirement
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if req.RegulationType != "gdpr" {
		t.Errorf("RegulationType = %s, want gdpr retained", req.RegulationType)
	}
	if req.Priority.Rank() != 0 {
		t.Errorf("unknown priority Rank() = %d, want 0", req.Priority.Rank())
	}
}
