package datetime

import (
	"testing"
	"time"
)

func TestMustParseTime(t *testing.T) {
	result := MustParseTime(DateTimeLayout, "2030-12")
	if result.Format(DateTimeLayout) != "2030-12" {
		t.Errorf("MustParseTime() = %s, expected 2030-12", result.Format(DateTimeLayout))
	}
}

func TestMustParseTimePanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected MustParseTime to panic with invalid date")
		}
	}()

	MustParseTime(DateTimeLayout, "invalid-date")
}

func TestParseMonth(t *testing.T) {
	if _, err := ParseMonth(" 2024-03 "); err != nil {
		t.Errorf("ParseMonth() unexpected error: %v", err)
	}
	if _, err := ParseMonth("03/2024"); err == nil {
		t.Error("ParseMonth() expected error for wrong layout")
	}
}

func TestOffsetDate(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		months   int
		expected string
		wantErr  bool
	}{
		{name: "Add multiple years", date: "2025-01", months: 24, expected: "2027-01"},
		{name: "Cross year boundary backward", date: "2025-06", months: -8, expected: "2024-10"},
		{name: "Zero months", date: "2025-06", months: 0, expected: "2025-06"},
		{name: "Invalid date", date: "bogus", months: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := OffsetDate(tt.date, DateTimeLayout, tt.months)
			if tt.wantErr {
				if err == nil {
					t.Errorf("OffsetDate() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("OffsetDate() error = %v", err)
			}
			if result != tt.expected {
				t.Errorf("OffsetDate() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected int
	}{
		{
			name:     "Same month",
			start:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
			expected: 0,
		},
		{
			name:     "Across years",
			start:    time.Date(2020, 11, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			expected: 39,
		},
		{
			name:     "Partial month not counted",
			start:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			expected: 1,
		},
		{
			name:     "End before start",
			start:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthsBetween(tt.start, tt.end); got != tt.expected {
				t.Errorf("MonthsBetween() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestMonthsElapsed(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	months, err := MonthsElapsed("2024-10", now)
	if err != nil {
		t.Fatalf("MonthsElapsed() error = %v", err)
	}
	if months != 24 {
		t.Errorf("MonthsElapsed() = %d, expected 24", months)
	}
	if _, err := MonthsElapsed("", now); err == nil {
		t.Error("MonthsElapsed() expected error for empty start date")
	}
}
