package sources

import (
	"testing"
	"time"
)

func TestParseLooseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-03-15T10:30:00Z", time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"20260315", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2026/03/15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{" 2026-03-15 ", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"March 15, 2026", time.Time{}},
		{"", time.Time{}},
	}
	for _, tt := range tests {
		got := parseLooseDate(tt.in)
		if !got.Equal(tt.want) {
			t.Errorf("parseLooseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
