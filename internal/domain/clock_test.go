package domain

import "testing"

func TestClockTimeWrapsPastMidnight(t *testing.T) {
	start, err := ParseClockTime("22:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	arr := start.AddHours(3.5)
	if arr.String() != "02:00+1d" {
		t.Fatalf("arrival = %s, want 02:00+1d", arr)
	}
	if arr.Day() != 1 {
		t.Fatalf("day = %d, want 1", arr.Day())
	}
	if h, m := arr.Clock(); h != 2 || m != 0 {
		t.Fatalf("clock = %02d:%02d, want 02:00", h, m)
	}

	if got := start.AddHours(49).String(); got != "23:30+2d" {
		t.Fatalf("two-day arrival = %s, want 23:30+2d", got)
	}
}

func TestClockTimeRounding(t *testing.T) {
	// 95 km at 80 km/h is 1h11m15s.
	got := NewClockTime(8, 0).AddHours(95.0 / 80.0)
	if got.String() != "09:11" {
		t.Fatalf("arrival = %s, want 09:11", got)
	}
}

func TestMaxClockAndUnset(t *testing.T) {
	var unset ClockTime
	if unset.IsSet() || unset.String() != "" {
		t.Fatalf("zero ClockTime must be unset")
	}

	a := NewClockTime(9, 0)
	b := NewClockTime(23, 0).AddHours(2)

	if got := MaxClock(unset, a); got != a {
		t.Fatalf("MaxClock(unset, a) = %v", got)
	}
	if got := MaxClock(a, b); got != b {
		t.Fatalf("MaxClock(a, b) = %v, want %v", got, b)
	}
	if got := MaxClock(b, unset); got != b {
		t.Fatalf("MaxClock(b, unset) = %v", got)
	}
}

func TestParseClockTimeRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "25:00", "8am", "08-00"} {
		if _, err := ParseClockTime(s); err == nil {
			t.Fatalf("ParseClockTime(%q) expected error", s)
		}
	}
}
