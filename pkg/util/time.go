package util

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatSeconds renders a second count in the fixed-precision form ffmpeg
// accepts for -ss and -t.
func FormatSeconds(s float64) string {
	return fmt.Sprintf("%.3f", s)
}

// Stamp renders seconds-within-period as the compact "12m34s" form used in
// output filenames.
func Stamp(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%dm%02ds", total/60, total%60)
}

// ParseFrameRate parses frame rate from ffprobe format (e.g., "25/1")
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
