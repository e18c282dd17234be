package diff

import (
	"strings"

	"github.com/zjrosen/refview/internal/ui/styles"
)

const (
	scrollThumbChar = "█"
	scrollTrackChar = "░"
)

// thumbBounds returns the start row and height of the scroll thumb for
// a viewport of the given height over total content lines.
func thumbBounds(total, viewport, offset int) (start, height int) {
	if total <= 0 || viewport <= 0 {
		return 0, 0
	}
	if total <= viewport {
		return 0, viewport
	}

	height = max(1, viewport*viewport/total)

	maxOffset := total - viewport
	track := viewport - height
	if maxOffset <= 0 || track <= 0 {
		return 0, height
	}

	start = track * offset / maxOffset
	start = max(0, min(start, viewport-height))
	return start, height
}

// renderScrollbar renders a one-column scrollbar. When the content fits
// the viewport the column is blank so layout widths stay stable.
func renderScrollbar(total, viewport, offset int) string {
	if viewport <= 0 || total <= 0 {
		return ""
	}

	lines := make([]string, viewport)
	if total <= viewport {
		for i := range lines {
			lines[i] = " "
		}
		return strings.Join(lines, "\n")
	}

	start, height := thumbBounds(total, viewport, offset)
	for row := range viewport {
		if row >= start && row < start+height {
			lines[row] = styles.SecondaryStyle.Render(scrollThumbChar)
		} else {
			lines[row] = styles.MutedStyle.Render(scrollTrackChar)
		}
	}
	return strings.Join(lines, "\n")
}
