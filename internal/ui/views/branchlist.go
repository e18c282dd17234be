package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/refview/internal/keys"
	"github.com/zjrosen/refview/internal/nav"
	"github.com/zjrosen/refview/internal/state"
	"github.com/zjrosen/refview/internal/ui/styles"
)

// BranchList shows local and remote branches. Enter drills into the
// branch's commit log, c checks the branch out, p pulls.
type BranchList struct {
	keys keys.KeyMap
}

// NewBranchList creates the branch list view.
func NewBranchList(km keys.KeyMap) *BranchList {
	return &BranchList{keys: km}
}

func (v *BranchList) Title(_ *state.AppState, _ nav.Context) string {
	return "Branches"
}

func (v *BranchList) HandleKey(msg tea.KeyMsg, st *state.AppState, ctx nav.Context) (nav.Context, nav.Effect) {
	branches := st.Branches
	ctx = clampCursor(ctx, len(branches))
	if next, ok := handleListNav(msg, v.keys, ctx, len(branches)); ok {
		return next, nav.None()
	}

	if len(branches) == 0 {
		return ctx, nav.None()
	}
	selected := branches[ctx.Cursor]

	switch {
	case key.Matches(msg, v.keys.Enter):
		return ctx, nav.Push(nav.Context{Kind: nav.KindCommitList, Ref: selected.Name})
	case key.Matches(msg, v.keys.Checkout):
		return ctx, nav.Action(nav.ActionCheckout, selected.Name)
	case key.Matches(msg, v.keys.Pull):
		return ctx, nav.Action(nav.ActionPull, "")
	case key.Matches(msg, v.keys.Refresh):
		return ctx, nav.Action(nav.ActionRefresh, "")
	}

	return ctx, nav.None()
}

func (v *BranchList) Render(width, height int, st *state.AppState, ctx nav.Context) string {
	inner := max(width-2, 1)
	innerHeight := max(height-2, 1)

	if len(st.Branches) == 0 {
		body := renderPlaceholder("No branches", inner, innerHeight)
		return styles.RenderWithTitleBorder(body, v.Title(st, ctx), width, height, true)
	}

	rows := make([]string, len(st.Branches))
	for i, b := range st.Branches {
		style := styles.RefLocalStyle
		marker := ""
		switch {
		case b.IsCurrent:
			style = styles.RefCurrentStyle
			marker = " *"
		case b.IsRemote:
			style = styles.RefRemoteStyle
		}
		rows[i] = fitRow(cursorPrefix(i == ctx.Cursor)+style.Render(b.Name)+styles.MutedStyle.Render(marker), inner)
	}

	top := listWindow(ctx.Cursor, ctx.Scroll, len(rows), innerHeight)
	body := renderRows(rows, top, inner, innerHeight)
	return styles.RenderWithTitleBorder(body, v.Title(st, ctx), width, height, true)
}
