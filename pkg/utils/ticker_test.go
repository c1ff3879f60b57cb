package utils

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"aapl", "AAPL"},
		{" msft ", "MSFT"},
		{"BRK.b", "BRK.B"},
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizeTicker(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeTicker(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidateTicker(t *testing.T) {
	valid := []string{"A", "AAPL", "googl", "BRK.B", " tsla "}
	for _, v := range valid {
		if err := ValidateTicker(v); err != nil {
			t.Errorf("ValidateTicker(%q) = %v, want nil", v, err)
		}
	}

	invalid := []string{"", "TOOLONG", "AAPL1", "12", "A A", "BRK.", "BRK.BBB"}
	for _, v := range invalid {
		err := ValidateTicker(v)
		if err == nil {
			t.Errorf("ValidateTicker(%q) = nil, want error", v)
			continue
		}
		if !errors.Is(err, ErrInvalidTicker) {
			t.Errorf("ValidateTicker(%q) error = %v, want ErrInvalidTicker", v, err)
		}
	}
}

func TestHourBucket(t *testing.T) {
	ts := time.Date(2025, 3, 14, 15, 42, 7, 123, time.UTC)
	got := HourBucket(ts)
	want := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("HourBucket(%v) = %v, want %v", ts, got, want)
	}

	// Same hour buckets to the same instant.
	later := ts.Add(10 * time.Minute)
	if !HourBucket(later).Equal(got) {
		t.Error("expected identical bucket within the same hour")
	}
}

func TestDayKey(t *testing.T) {
	ts := time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC)
	if got := DayKey(ts); got != "2025-03-14" {
		t.Errorf("DayKey = %q, want 2025-03-14", got)
	}

	// Non-UTC times convert to UTC before keying.
	est := time.FixedZone("EST", -5*3600)
	late := time.Date(2025, 3, 14, 22, 0, 0, 0, est)
	if got := DayKey(late); got != "2025-03-15" {
		t.Errorf("DayKey(EST 22:00) = %q, want 2025-03-15", got)
	}
}

func TestMidnight(t *testing.T) {
	ts := time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC)
	got := Midnight(ts)
	if got.Hour() != 0 || got.Minute() != 0 || got.Day() != 1 {
		t.Errorf("Midnight(%v) = %v", ts, got)
	}
}
