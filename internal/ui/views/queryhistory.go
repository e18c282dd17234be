package views

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/refview/internal/keys"
	"github.com/zjrosen/refview/internal/log"
	"github.com/zjrosen/refview/internal/nav"
	"github.com/zjrosen/refview/internal/state"
	"github.com/zjrosen/refview/internal/store"
	"github.com/zjrosen/refview/internal/ui/styles"
)

// QueryHistory lists saved queries with their run counts. Enter opens
// the query's ref as a commit list and records a run; it never re-runs
// anything with side effects.
type QueryHistory struct {
	keys keys.KeyMap
	repo *store.Repository
	now  func() time.Time

	queries []store.Query
	loaded  bool
	loadErr error
}

// NewQueryHistory creates the history view. repo may be nil when the
// history store is disabled; the view then renders a hint.
func NewQueryHistory(km keys.KeyMap, repo *store.Repository) *QueryHistory {
	return &QueryHistory{keys: km, repo: repo, now: time.Now}
}

func (v *QueryHistory) Title(_ *state.AppState, _ nav.Context) string {
	return "Query History"
}

// Reload forces the next render to re-read the store. The controller
// calls this after a query is saved.
func (v *QueryHistory) Reload() {
	v.loaded = false
}

func (v *QueryHistory) load() {
	if v.loaded || v.repo == nil {
		return
	}
	v.queries, v.loadErr = v.repo.List()
	v.loaded = true
	if v.loadErr != nil {
		log.ErrorErr(log.CatStore, "query history load failed", v.loadErr)
	}
}

func (v *QueryHistory) HandleKey(msg tea.KeyMsg, st *state.AppState, ctx nav.Context) (nav.Context, nav.Effect) {
	v.load()

	ctx = clampCursor(ctx, len(v.queries))
	if next, ok := handleListNav(msg, v.keys, ctx, len(v.queries)); ok {
		return next, nav.None()
	}

	if key.Matches(msg, v.keys.Refresh) {
		v.Reload()
		return ctx, nav.None()
	}

	if len(v.queries) == 0 {
		return ctx, nav.None()
	}
	selected := v.queries[ctx.Cursor]

	switch {
	case key.Matches(msg, v.keys.Enter):
		if err := v.repo.RecordRun(selected.ID, len(st.Commits[selected.Ref])); err != nil {
			log.ErrorErr(log.CatStore, "record query run failed", err)
		}
		v.Reload()
		return ctx, nav.Push(nav.Context{Kind: nav.KindCommitList, Ref: selected.Ref})

	case key.Matches(msg, v.keys.Delete):
		if err := v.repo.Delete(selected.ID); err != nil {
			log.ErrorErr(log.CatStore, "delete query failed", err)
			return ctx, nav.None()
		}
		v.Reload()
		v.load()
		return clampCursor(ctx, len(v.queries)), nav.None()
	}

	return ctx, nav.None()
}

func (v *QueryHistory) Render(width, height int, st *state.AppState, ctx nav.Context) string {
	v.load()

	inner := max(width-2, 1)
	innerHeight := max(height-2, 1)

	switch {
	case v.repo == nil:
		body := renderPlaceholder("Query history is disabled", inner, innerHeight)
		return styles.RenderWithTitleBorder(body, v.Title(st, ctx), width, height, true)
	case v.loadErr != nil:
		body := renderPlaceholder("Could not load history: "+v.loadErr.Error(), inner, innerHeight)
		return styles.RenderWithTitleBorder(body, v.Title(st, ctx), width, height, true)
	case len(v.queries) == 0:
		body := renderPlaceholder("No saved queries - press s in a commit list to save one", inner, innerHeight)
		return styles.RenderWithTitleBorder(body, v.Title(st, ctx), width, height, true)
	}

	now := v.now()
	rows := make([]string, len(v.queries))
	for i, q := range v.queries {
		runs := styles.MutedStyle.Render(fmt.Sprintf("  %d runs", q.RunCount))
		last := ""
		if !q.LastRunAt.IsZero() {
			last = styles.MutedStyle.Render(", last " + styles.FormatRelativeTime(q.LastRunAt, now))
		}
		row := cursorPrefix(i == ctx.Cursor) +
			styles.TitleStyle.Render(q.Name) +
			styles.SecondaryStyle.Render("  "+q.Ref) +
			runs + last
		rows[i] = fitRow(row, inner)
	}

	top := listWindow(ctx.Cursor, ctx.Scroll, len(rows), innerHeight)
	body := renderRows(rows, top, inner, innerHeight)
	return styles.RenderWithTitleBorder(body, v.Title(st, ctx), width, height, true)
}
