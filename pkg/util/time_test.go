package util

import (
	"testing"
	"time"
)

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"30000/1001", 30000.0 / 1001.0},
		{"25", 0},
		{"1/0", 0},
		{"a/b", 0},
	}
	for _, tt := range tests {
		if got := ParseFrameRate(tt.in); got != tt.want {
			t.Errorf("ParseFrameRate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFramesToDuration(t *testing.T) {
	if got := FramesToDuration(60, 30); got != 2*time.Second {
		t.Errorf("expected 2s, got %v", got)
	}
	if got := FramesToDuration(10, 0); got != 0 {
		t.Errorf("expected 0 for zero fps, got %v", got)
	}
}

func TestDurationToFrames(t *testing.T) {
	if got := DurationToFrames(1500*time.Millisecond, 30); got != 45 {
		t.Errorf("expected 45 frames, got %d", got)
	}
	if got := DurationToFrames(-time.Second, 30); got != 0 {
		t.Errorf("expected 0 for negative duration, got %d", got)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(time.Hour + 2*time.Minute + 3500*time.Millisecond); got != "01:02:03.500" {
		t.Errorf("unexpected timestamp %q", got)
	}
}

func TestOutputPath(t *testing.T) {
	if got := OutputPath("edited"); got != "edited.mp4" {
		t.Errorf("expected edited.mp4, got %q", got)
	}
	if got := OutputPath("final.MP4"); got != "final.MP4" {
		t.Errorf("expected name kept, got %q", got)
	}
}
