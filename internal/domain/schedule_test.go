package domain

import (
	"testing"
	"time"
)

var testLoc = FixedZone(7 * time.Hour)

// helper: build a local time in the test zone
func at(t *testing.T, y int, m time.Month, d, hh, mm int) time.Time {
	t.Helper()
	return time.Date(y, m, d, hh, mm, 0, 0, testLoc)
}

func TestInWindow_WrapMidnight(t *testing.T) {
	cases := []struct {
		hh, mm int
		want   bool
	}{
		{23, 30, true},
		{2, 0, true},
		{12, 0, false},
		{22, 0, true},
		{6, 0, true},
		{6, 1, false},
	}
	for _, c := range cases {
		now := at(t, 2025, time.March, 1, c.hh, c.mm)
		if got := InWindow(now, "22:00", "06:00"); got != c.want {
			t.Fatalf("%02d:%02d: want %v, got %v", c.hh, c.mm, c.want, got)
		}
	}
}

func TestInWindow_Normal(t *testing.T) {
	cases := []struct {
		hh, mm int
		want   bool
	}{
		{7, 59, false},
		{8, 0, true},
		{15, 0, true},
		{22, 0, true},
		{22, 1, false},
	}
	for _, c := range cases {
		now := at(t, 2025, time.March, 1, c.hh, c.mm)
		if got := InWindow(now, "08:00", "22:00"); got != c.want {
			t.Fatalf("%02d:%02d: want %v, got %v", c.hh, c.mm, c.want, got)
		}
	}
}

func TestInWindow_EqualBoundsCoverWholeDay(t *testing.T) {
	for _, hh := range []int{0, 9, 18, 23} {
		if !InWindow(at(t, 2025, time.March, 1, hh, 0), "09:00", "09:00") {
			t.Fatalf("%02d:00 should be inside a wrapped equal window", hh)
		}
	}
}

func TestInWindow_InvalidBounds(t *testing.T) {
	now := at(t, 2025, time.March, 1, 12, 0)
	for _, w := range [][2]string{{"", "22:00"}, {"08:00", "25:00"}, {"8h", "22:00"}, {"08:00", "22:60"}} {
		if InWindow(now, w[0], w[1]) {
			t.Fatalf("window %v must be invalid", w)
		}
	}
}

func TestMinuteKey(t *testing.T) {
	got := MinuteKey(at(t, 2025, time.March, 1, 7, 0).Add(42 * time.Second))
	if got != "2025-03-01 07:00" {
		t.Fatalf("want 2025-03-01 07:00, got %s", got)
	}
}

func TestFixedZoneName(t *testing.T) {
	if got := FixedZone(7 * time.Hour).String(); got != "UTC+07:00" {
		t.Fatalf("want UTC+07:00, got %s", got)
	}
	if got := FixedZone(-(3*time.Hour + 30*time.Minute)).String(); got != "UTC-03:30" {
		t.Fatalf("want UTC-03:30, got %s", got)
	}
}
