package game

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// insideCanvas reports whether a cursor position lies on a w x h canvas.
func insideCanvas(x, y, w, h int) bool {
	return x >= 0 && y >= 0 && x < w && y < h
}

// levelBar renders a [0,1] level as a fixed-width text meter.
func levelBar(level float64, width int) string {
	filled := int(math.Max(0, math.Min(1, level))*float64(width) + 0.5)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
