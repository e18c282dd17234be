// Package views holds one screen implementation per navigation kind.
// Views are stateless between calls: everything they need arrives as
// AppState plus their own Context frame, and everything they change
// goes back out as an updated frame and an Effect for the controller.
package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/refview/internal/keys"
	"github.com/zjrosen/refview/internal/nav"
	"github.com/zjrosen/refview/internal/state"
	"github.com/zjrosen/refview/internal/ui/styles"
)

// listPageSize is how many rows PageUp/PageDown jump in list views.
const listPageSize = 10

// View is one screen. HandleKey returns the (possibly updated) frame
// plus an effect for the controller; Render draws into the given box.
type View interface {
	Title(st *state.AppState, ctx nav.Context) string
	HandleKey(msg tea.KeyMsg, st *state.AppState, ctx nav.Context) (nav.Context, nav.Effect)
	Render(width, height int, st *state.AppState, ctx nav.Context) string
}

// handleListNav applies the shared cursor movement keys to a list of
// the given length. Returns the updated frame and whether the key was
// consumed. Cursor is always clamped to [0, length-1].
func handleListNav(msg tea.KeyMsg, km keys.KeyMap, ctx nav.Context, length int) (nav.Context, bool) {
	if length == 0 {
		ctx.Cursor = 0
		// navigation keys are still "handled" so they don't fall through
		switch {
		case key.Matches(msg, km.Up), key.Matches(msg, km.Down),
			key.Matches(msg, km.Top), key.Matches(msg, km.Bot),
			key.Matches(msg, km.PageUp), key.Matches(msg, km.PageDown):
			return ctx, true
		}
		return ctx, false
	}

	switch {
	case key.Matches(msg, km.Up):
		ctx.Cursor--
	case key.Matches(msg, km.Down):
		ctx.Cursor++
	case key.Matches(msg, km.PageUp):
		ctx.Cursor -= listPageSize
	case key.Matches(msg, km.PageDown):
		ctx.Cursor += listPageSize
	case key.Matches(msg, km.Top):
		ctx.Cursor = 0
	case key.Matches(msg, km.Bot):
		ctx.Cursor = length - 1
	default:
		return ctx, false
	}

	ctx.Cursor = max(0, min(ctx.Cursor, length-1))
	return ctx, true
}

// clampCursor bounds a frame's cursor to the current list length. The
// frame outlives refetches, so the list can shrink underneath a stored
// cursor; every view clamps before indexing.
func clampCursor(ctx nav.Context, length int) nav.Context {
	if length == 0 {
		ctx.Cursor = 0
		return ctx
	}
	ctx.Cursor = max(0, min(ctx.Cursor, length-1))
	return ctx
}

// listWindow returns the scroll window [top, top+height) that keeps
// cursor visible, preferring the previous top when it still fits.
func listWindow(cursor, prevTop, length, height int) int {
	if height < 1 || length <= height {
		return 0
	}
	top := prevTop
	if cursor < top {
		top = cursor
	}
	if cursor >= top+height {
		top = cursor - height + 1
	}
	return max(0, min(top, length-height))
}

// renderRows draws rows[top:top+height] padded to the full height.
func renderRows(rows []string, top, width, height int) string {
	var out []string
	end := min(top+height, len(rows))
	for i := top; i < end; i++ {
		out = append(out, rows[i])
	}
	for len(out) < height {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

// renderPlaceholder centers a muted message in the box.
func renderPlaceholder(msg string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.MutedStyle.Render(msg))
}

// cursorPrefix returns the two-column selection marker.
func cursorPrefix(selected bool) string {
	if selected {
		return styles.SelectionIndicatorStyle.Render("> ")
	}
	return "  "
}

// fitRow truncates a rendered row to the pane width.
func fitRow(row string, width int) string {
	if lipgloss.Width(row) > width {
		return styles.TruncateString(row, width)
	}
	return row
}
