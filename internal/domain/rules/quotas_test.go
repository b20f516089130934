package rules

import (
	"testing"
	"time"
)

func TestDayKeyUsesTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	utc := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	got := DayKey(utc, loc)
	want := "2026-03-15"
	if got != want {
		t.Fatalf("unexpected day key: got %s want %s", got, want)
	}
}

func TestDayKeyDefaultsToUTC(t *testing.T) {
	utc := time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC)
	got := DayKey(utc, nil)
	want := "2026-03-14"
	if got != want {
		t.Fatalf("unexpected day key: got %s want %s", got, want)
	}
}

func TestNextResetAtIsNextUTCMidnight(t *testing.T) {
	now := time.Date(2026, 3, 14, 8, 15, 0, 0, time.UTC)
	got := NextResetAt(now, nil)
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected reset_at: got %s want %s", got.Format(time.RFC3339), want.Format(time.RFC3339))
	}
}

func TestNextResetAtFollowsLocalMidnight(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	now := time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC) // 22:30 IST
	got := NextResetAt(now, loc)
	want := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected reset_at: got %s want %s", got.Format(time.RFC3339), want.Format(time.RFC3339))
	}
}

func TestLikesRemaining(t *testing.T) {
	if got := LikesRemaining(3, 100); got != 97 {
		t.Fatalf("unexpected remaining: got %d want %d", got, 97)
	}
	if got := LikesRemaining(101, 100); got != 0 {
		t.Fatalf("unexpected remaining: got %d want %d", got, 0)
	}
}
