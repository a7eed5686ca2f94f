package time

import (
	"testing"
	"time"
)

func TestClockToday(t *testing.T) {
	c := Fixed(time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC))
	if got := c.Today(); got != "2024-01-15" {
		t.Fatalf("Today = %q", got)
	}
	if System().IsZero() {
		t.Fatalf("system clock returned zero time")
	}
}

func TestValidDay(t *testing.T) {
	for s, want := range map[string]bool{
		"2024-01-15": true,
		"2024-02-30": false,
		"2024-01":    false,
		"":           false,
	} {
		if got := ValidDay(s); got != want {
			t.Fatalf("ValidDay(%q) = %v, want %v", s, got, want)
		}
	}
}
