package pkg

import (
	"testing"
	"time"
)

func TestSameDateUTC(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{"same instant", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), true},
		{"start and end of day", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC), true},
		{"across midnight", time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC), time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), false},
		{"offset zone same utc date", time.Date(2024, 5, 2, 1, 0, 0, 0, time.FixedZone("X", 3*3600)), time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameDateUTC(tt.a, tt.b); got != tt.want {
				t.Errorf("SameDateUTC() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextMidnightUTC(t *testing.T) {
	got := NextMidnightUTC(time.Date(2024, 12, 31, 18, 30, 0, 0, time.UTC))
	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NextMidnightUTC() = %v, want %v", got, want)
	}
}
