package appointment

import (
	"testing"
	"time"
)

func TestEndTime(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	if got := EndTime(start, 45); !got.Equal(start.Add(45 * time.Minute)) {
		t.Errorf("EndTime = %v", got)
	}
	if got := EndTime(start, 0); !got.Equal(start) {
		t.Errorf("EndTime with zero duration = %v", got)
	}
}

func TestOverlaps(t *testing.T) {
	at := func(min int) time.Time {
		return time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC).Add(time.Duration(min) * time.Minute)
	}

	cases := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"identical", at(0), at(30), at(0), at(30), true},
		{"partial overlap", at(0), at(30), at(15), at(45), true},
		{"contained", at(0), at(60), at(15), at(30), true},
		{"touching end to start", at(0), at(30), at(30), at(60), false},
		{"touching start to end", at(30), at(60), at(0), at(30), false},
		{"disjoint", at(0), at(30), at(60), at(90), false},
		{"one minute overlap", at(0), at(30), at(29), at(59), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.s1, tc.e1, tc.s2, tc.e2); got != tc.want {
				t.Errorf("Overlaps(%v) = %v, want %v", tc.name, got, tc.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tc.s2, tc.e2, tc.s1, tc.e1); got != tc.want {
				t.Errorf("Overlaps reversed(%v) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}
