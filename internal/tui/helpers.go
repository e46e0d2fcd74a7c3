package tui

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/avellar/dermterm/pkg/domain"
)

// formatDate renders a server timestamp string as a short calendar date,
// falling back to the raw text when the format is unknown.
func formatDate(s string) string {
	if t, ok := domain.ParseServerTime(s); ok {
		return t.Format("Jan 2, 2006")
	}
	return s
}

// formatDateTime renders a server timestamp with time of day.
func formatDateTime(s string) string {
	if t, ok := domain.ParseServerTime(s); ok {
		return t.Format("Jan 2, 2006 15:04")
	}
	return s
}

// percent renders a 0..1 confidence as a rounded percentage.
func percent(confidence float64) string {
	return fmt.Sprintf("%d%%", int(confidence*100+0.5))
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// sinceShort renders a compact relative duration for history rows.
func sinceShort(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
