package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/refview/internal/keys"
	"github.com/zjrosen/refview/internal/nav"
	"github.com/zjrosen/refview/internal/state"
	"github.com/zjrosen/refview/internal/ui/styles"
)

// RemoteList shows configured remotes with their fetch URLs.
type RemoteList struct {
	keys keys.KeyMap
}

// NewRemoteList creates the remote list view.
func NewRemoteList(km keys.KeyMap) *RemoteList {
	return &RemoteList{keys: km}
}

func (v *RemoteList) Title(_ *state.AppState, _ nav.Context) string {
	return "Remotes"
}

func (v *RemoteList) HandleKey(msg tea.KeyMsg, st *state.AppState, ctx nav.Context) (nav.Context, nav.Effect) {
	if next, ok := handleListNav(msg, v.keys, ctx, len(st.Remotes)); ok {
		return next, nav.None()
	}

	switch {
	case key.Matches(msg, v.keys.Pull):
		return ctx, nav.Action(nav.ActionPull, "")
	case key.Matches(msg, v.keys.Refresh):
		return ctx, nav.Action(nav.ActionRefresh, "")
	}

	return ctx, nav.None()
}

func (v *RemoteList) Render(width, height int, st *state.AppState, ctx nav.Context) string {
	inner := max(width-2, 1)
	innerHeight := max(height-2, 1)

	if len(st.Remotes) == 0 {
		body := renderPlaceholder("No remotes configured", inner, innerHeight)
		return styles.RenderWithTitleBorder(body, v.Title(st, ctx), width, height, true)
	}

	rows := make([]string, len(st.Remotes))
	for i, r := range st.Remotes {
		row := cursorPrefix(i == ctx.Cursor) +
			styles.RefRemoteStyle.Render(r.Name) +
			styles.MutedStyle.Render("  "+r.URL)
		rows[i] = fitRow(row, inner)
	}

	top := listWindow(ctx.Cursor, ctx.Scroll, len(rows), innerHeight)
	body := renderRows(rows, top, inner, innerHeight)
	return styles.RenderWithTitleBorder(body, v.Title(st, ctx), width, height, true)
}
