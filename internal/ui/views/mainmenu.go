package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/refview/internal/keys"
	"github.com/zjrosen/refview/internal/nav"
	"github.com/zjrosen/refview/internal/state"
	"github.com/zjrosen/refview/internal/ui/styles"
)

// menuEntry pairs a menu label with the view it opens.
type menuEntry struct {
	label string
	kind  nav.ViewKind
}

var menuEntries = []menuEntry{
	{"Branches", nav.KindBranchList},
	{"Tags", nav.KindTagList},
	{"Remotes", nav.KindRemoteList},
	{"Commits", nav.KindCommitList},
	{"Query History", nav.KindQueryHistory},
}

// MainMenu is the root screen listing the browsable sections.
type MainMenu struct {
	keys keys.KeyMap
}

// NewMainMenu creates the root menu view.
func NewMainMenu(km keys.KeyMap) *MainMenu {
	return &MainMenu{keys: km}
}

func (v *MainMenu) Title(st *state.AppState, _ nav.Context) string {
	if st.RepoRoot != "" {
		return "refview - " + st.RepoRoot
	}
	return "refview"
}

func (v *MainMenu) HandleKey(msg tea.KeyMsg, st *state.AppState, ctx nav.Context) (nav.Context, nav.Effect) {
	ctx = clampCursor(ctx, len(menuEntries))
	if next, ok := handleListNav(msg, v.keys, ctx, len(menuEntries)); ok {
		return next, nav.None()
	}

	if key.Matches(msg, v.keys.Enter) {
		entry := menuEntries[ctx.Cursor]
		next := nav.Context{Kind: entry.kind}
		if entry.kind == nav.KindCommitList {
			// Commits from the menu means the checked-out branch.
			next.Ref = st.CurrentBranch
			if next.Ref == "" {
				next.Ref = "HEAD"
			}
		}
		return ctx, nav.Push(next)
	}

	return ctx, nav.None()
}

func (v *MainMenu) Render(width, height int, st *state.AppState, ctx nav.Context) string {
	inner := max(width-2, 1)
	rows := make([]string, len(menuEntries))
	for i, entry := range menuEntries {
		label := entry.label
		if entry.kind == nav.KindCommitList && st.CurrentBranch != "" {
			label += " (" + st.CurrentBranch + ")"
		}
		style := styles.SecondaryStyle
		if i == ctx.Cursor {
			style = styles.SelectedRowStyle
		}
		rows[i] = fitRow(cursorPrefix(i == ctx.Cursor)+style.Render(label), inner)
	}

	body := renderRows(rows, 0, inner, max(height-2, 1))
	return styles.RenderWithTitleBorder(body, v.Title(st, ctx), width, height, true)
}
