package styles

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/refview/internal/textseg"
)

// TruncateString truncates a string to fit within maxWidth, adding ellipsis if needed.
// Cuts fall on grapheme cluster boundaries, never inside a multi-byte sequence.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}

	if lipgloss.Width(s) <= maxWidth {
		return s
	}

	// Need to truncate - leave room for ellipsis
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}

	return textseg.TruncateToWidth(s, maxWidth-3) + "..."
}

// FormatRelativeTime renders a commit timestamp the way git log does:
// "3 hours ago", "2 days ago", falling back to a date for old commits.
func FormatRelativeTime(t time.Time, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 30*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	case d < 365*24*time.Hour:
		return plural(int(d.Hours()/24/30), "month")
	default:
		return t.Format("2006-01-02")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// FormatDiffStat renders "+N/-N" file statistics.
func FormatDiffStat(added, removed int) string {
	return DiffAddedStyle.Render(fmt.Sprintf("+%d", added)) + "/" +
		DiffRemovedStyle.Render(fmt.Sprintf("-%d", removed))
}
