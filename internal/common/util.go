package common

import (
	"fmt"
	"strings"
)

// FormatSize renders a byte count in human-readable form (B, KB, MB, GB, TB),
// matching the 1024-based units used in chat replies.
func FormatSize(sizeBytes int64) string {
	size := float64(sizeBytes)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.2f TB", size)
}

// ProgressBar renders a fixed-width text progress bar for chat status edits,
// e.g. "[████████░░░░░░░░░░░░]".
func ProgressBar(percent float64, length int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(float64(length) * percent / 100)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", length-filled) + "]"
}
