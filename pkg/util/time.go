package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatDuration converts time.Duration to ffmpeg timestamp format
func FormatDuration(d time.Duration) string {
	seconds := d.Seconds()
	hours := int(seconds / 3600)
	minutes := int((seconds - float64(hours*3600)) / 60)
	secs := seconds - float64(hours*3600) - float64(minutes*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, secs)
}

// Seconds converts a float number of seconds to a time.Duration
func Seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// FramesToDuration returns the playback time of n frames at fps.
func FramesToDuration(n int, fps float64) time.Duration {
	if fps <= 0 || n <= 0 {
		return 0
	}
	return time.Duration(math.Round(float64(n) / fps * float64(time.Second)))
}

// DurationToFrames returns how many whole frames at fps fit in d, rounded to
// the nearest frame.
func DurationToFrames(d time.Duration, fps float64) int {
	if fps <= 0 || d <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * fps))
}

// ParseFrameRate parses frame rate from ffprobe format (e.g., "30/1")
func ParseFrameRate(s string) float64 {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}
