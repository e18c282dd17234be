package views

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/refview/internal/git"
	"github.com/zjrosen/refview/internal/keys"
	"github.com/zjrosen/refview/internal/nav"
	"github.com/zjrosen/refview/internal/state"
	"github.com/zjrosen/refview/internal/ui/markdown"
	"github.com/zjrosen/refview/internal/ui/styles"
)

// detailPanelHeight is the row budget for the commit detail panel.
const detailPanelHeight = 12

// CommitList shows the log of the ref in the frame. Enter opens the
// selected commit's diff, Tab toggles a detail panel with the rendered
// commit body, s saves the current ref as a query.
type CommitList struct {
	keys keys.KeyMap
	now  func() time.Time

	md      *markdown.Renderer
	mdWidth int
}

// NewCommitList creates the commit list view.
func NewCommitList(km keys.KeyMap) *CommitList {
	return &CommitList{keys: km, now: time.Now}
}

func (v *CommitList) Title(_ *state.AppState, ctx nav.Context) string {
	if ctx.Ref != "" {
		return "Commits - " + ctx.Ref
	}
	return "Commits"
}

func (v *CommitList) HandleKey(msg tea.KeyMsg, st *state.AppState, ctx nav.Context) (nav.Context, nav.Effect) {
	commits := st.Commits[ctx.Ref]
	ctx = clampCursor(ctx, len(commits))
	if next, ok := handleListNav(msg, v.keys, ctx, len(commits)); ok {
		return next, nav.None()
	}

	if key.Matches(msg, v.keys.SaveQry) {
		return ctx, nav.Action(nav.ActionSaveQuery, ctx.Ref)
	}
	if key.Matches(msg, v.keys.Refresh) {
		return ctx, nav.Action(nav.ActionRefresh, "")
	}

	if len(commits) == 0 {
		return ctx, nav.None()
	}
	selected := commits[ctx.Cursor]

	switch {
	case key.Matches(msg, v.keys.Enter):
		return ctx, nav.Push(nav.Context{Kind: nav.KindDiffView, Ref: ctx.Ref, CommitHash: selected.Hash})
	case key.Matches(msg, v.keys.Detail):
		ctx.ShowDetail = !ctx.ShowDetail
		return ctx, nav.None()
	case key.Matches(msg, v.keys.Checkout):
		return ctx, nav.Action(nav.ActionCheckout, selected.Hash)
	}

	return ctx, nav.None()
}

func (v *CommitList) Render(width, height int, st *state.AppState, ctx nav.Context) string {
	inner := max(width-2, 1)
	innerHeight := max(height-2, 1)

	commits := st.Commits[ctx.Ref]
	ctx = clampCursor(ctx, len(commits))
	if len(commits) == 0 {
		body := renderPlaceholder("No commits", inner, innerHeight)
		return styles.RenderWithTitleBorder(body, v.Title(st, ctx), width, height, true)
	}

	listHeight := innerHeight
	if ctx.ShowDetail {
		listHeight = max(innerHeight-detailPanelHeight, 1)
	}

	now := v.now()
	rows := make([]string, len(commits))
	for i, c := range commits {
		subject := c.Subject
		row := cursorPrefix(i == ctx.Cursor) +
			styles.SecondaryStyle.Render(c.ShortHash) + " " +
			styles.MutedStyle.Render(styles.FormatRelativeTime(c.Date, now)) + " "
		if i == ctx.Cursor {
			row += styles.SelectedRowStyle.Render(subject)
		} else {
			row += subject
		}
		if len(c.Parents) > 1 {
			row += styles.MutedStyle.Render(" (merge)")
		}
		rows[i] = fitRow(row, inner)
	}

	top := listWindow(ctx.Cursor, ctx.Scroll, len(rows), listHeight)
	body := renderRows(rows, top, inner, listHeight)

	if ctx.ShowDetail {
		body += "\n" + v.renderDetail(commits[ctx.Cursor], st, inner)
	}

	return styles.RenderWithTitleBorder(body, v.Title(st, ctx), width, height, true)
}

// renderDetail renders the selected commit's metadata and body. Bodies
// load asynchronously, so a commit whose body has not arrived yet shows
// a loading hint.
func (v *CommitList) renderDetail(c git.Commit, st *state.AppState, width int) string {
	var b strings.Builder
	b.WriteString(styles.MutedStyle.Render(strings.Repeat("─", max(width, 1))))
	b.WriteString("\n")
	b.WriteString(styles.TitleStyle.Render(c.Subject))
	b.WriteString("\n")
	b.WriteString(styles.SecondaryStyle.Render(c.Hash))
	b.WriteString("\n")
	b.WriteString(styles.MutedStyle.Render(c.Author + " <" + c.Email + "> " + c.Date.Format("2006-01-02 15:04")))
	b.WriteString("\n")

	body, ok := st.Bodies[c.Hash]
	switch {
	case !ok:
		b.WriteString(styles.MutedStyle.Render("Loading commit message..."))
	case strings.TrimSpace(body) == "":
		b.WriteString(styles.MutedStyle.Render("(no body)"))
	default:
		rendered, err := v.renderBody(body, width)
		if err != nil {
			// fall back to the raw body rather than hiding it
			rendered = body
		}
		b.WriteString(strings.TrimRight(rendered, "\n"))
	}

	// Clip the panel to its budget so a long body cannot push the list
	// off screen.
	lines := strings.Split(b.String(), "\n")
	if len(lines) > detailPanelHeight {
		lines = lines[:detailPanelHeight]
	}
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = styles.TruncateString(line, width)
		}
	}
	return strings.Join(lines, "\n")
}

// renderBody lazily builds the glamour renderer, rebuilding when the
// pane width changes.
func (v *CommitList) renderBody(body string, width int) (string, error) {
	if v.md == nil || v.mdWidth != width {
		md, err := markdown.New(width, "dark")
		if err != nil {
			return "", err
		}
		v.md = md
		v.mdWidth = width
	}
	return v.md.Render(body)
}
