package timex

import (
	"testing"
	"time"
)

func TestFormatDurationCompact(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{80 * time.Microsecond, "80µs"},
		{250 * time.Millisecond, "250ms"},
		{time.Second, "1s"},
		{90 * time.Second, "1m 30s"},
		{time.Hour + 5*time.Second, "1h 0m 5s"},
		{26 * time.Hour, "1d 2h 0m 0s"},
		{-2 * time.Second, "-2s"},
		{1500 * time.Millisecond, "1s"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatDurationCompact(tt.d); got != tt.want {
				t.Errorf("FormatDurationCompact(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}
