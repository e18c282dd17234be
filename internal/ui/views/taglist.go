package views

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/refview/internal/keys"
	"github.com/zjrosen/refview/internal/nav"
	"github.com/zjrosen/refview/internal/state"
	"github.com/zjrosen/refview/internal/ui/styles"
)

// TagList shows tags newest first with their creation date and, for
// annotated tags, the annotation subject. Enter opens the tag's log.
type TagList struct {
	keys keys.KeyMap
	now  func() time.Time
}

// NewTagList creates the tag list view.
func NewTagList(km keys.KeyMap) *TagList {
	return &TagList{keys: km, now: time.Now}
}

func (v *TagList) Title(_ *state.AppState, _ nav.Context) string {
	return "Tags"
}

func (v *TagList) HandleKey(msg tea.KeyMsg, st *state.AppState, ctx nav.Context) (nav.Context, nav.Effect) {
	tags := st.Tags
	ctx = clampCursor(ctx, len(tags))
	if next, ok := handleListNav(msg, v.keys, ctx, len(tags)); ok {
		return next, nav.None()
	}

	if len(tags) == 0 {
		return ctx, nav.None()
	}
	selected := tags[ctx.Cursor]

	switch {
	case key.Matches(msg, v.keys.Enter):
		return ctx, nav.Push(nav.Context{Kind: nav.KindCommitList, Ref: selected.Name})
	case key.Matches(msg, v.keys.Checkout):
		return ctx, nav.Action(nav.ActionCheckout, selected.Name)
	case key.Matches(msg, v.keys.Refresh):
		return ctx, nav.Action(nav.ActionRefresh, "")
	}

	return ctx, nav.None()
}

func (v *TagList) Render(width, height int, st *state.AppState, ctx nav.Context) string {
	inner := max(width-2, 1)
	innerHeight := max(height-2, 1)

	if len(st.Tags) == 0 {
		body := renderPlaceholder("No tags", inner, innerHeight)
		return styles.RenderWithTitleBorder(body, v.Title(st, ctx), width, height, true)
	}

	now := v.now()
	rows := make([]string, len(st.Tags))
	for i, tag := range st.Tags {
		row := cursorPrefix(i == ctx.Cursor) + styles.RefTagStyle.Render(tag.Name)
		if !tag.Date.IsZero() {
			row += styles.MutedStyle.Render("  " + styles.FormatRelativeTime(tag.Date, now))
		}
		if tag.Annotation != "" {
			row += styles.SecondaryStyle.Render("  " + tag.Annotation)
		}
		rows[i] = fitRow(row, inner)
	}

	top := listWindow(ctx.Cursor, ctx.Scroll, len(rows), innerHeight)
	body := renderRows(rows, top, inner, innerHeight)
	return styles.RenderWithTitleBorder(body, v.Title(st, ctx), width, height, true)
}
