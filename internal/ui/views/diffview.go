package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/refview/internal/config"
	"github.com/zjrosen/refview/internal/keys"
	"github.com/zjrosen/refview/internal/loader"
	"github.com/zjrosen/refview/internal/log"
	"github.com/zjrosen/refview/internal/nav"
	"github.com/zjrosen/refview/internal/state"
	"github.com/zjrosen/refview/internal/ui/diff"
	"github.com/zjrosen/refview/internal/ui/styles"
)

// DiffView shows a commit's patch through the diff model. The patch
// text arrives asynchronously in AppState keyed by hash; the view
// re-parses whenever the frame's hash changes or the text lands.
type DiffView struct {
	keys  keys.KeyMap
	model diff.Model

	// hash and parsed track what the model currently holds so the
	// expensive parse only runs when the input changes.
	hash   string
	parsed bool
}

// NewDiffView creates the diff view with layout defaults from cfg.
func NewDiffView(km keys.KeyMap, cfg config.DiffConfig) *DiffView {
	return &DiffView{
		keys:  km,
		model: diff.New(cfg, km),
	}
}

func (v *DiffView) Title(_ *state.AppState, ctx nav.Context) string {
	if len(ctx.CommitHash) >= 7 {
		return "Diff - " + ctx.CommitHash[:7]
	}
	return "Diff"
}

// Layout exposes the active layout so the controller can persist it.
func (v *DiffView) Layout() diff.LayoutMode {
	return v.model.Layout()
}

// sync loads the patch for the frame's hash into the model when needed.
func (v *DiffView) sync(st *state.AppState, ctx nav.Context) {
	if ctx.CommitHash != v.hash {
		v.hash = ctx.CommitHash
		v.parsed = false
		v.model.SetFiles(nil)
	}
	if v.parsed {
		return
	}

	raw, ok := st.Diffs[ctx.CommitHash]
	if !ok {
		return
	}
	files, err := diff.Parse(raw)
	if err != nil {
		log.ErrorErr(log.CatUI, "diff parse failed", err, "hash", ctx.CommitHash)
		files = nil
	}
	v.model.SetFiles(files)
	v.parsed = true
}

func (v *DiffView) HandleKey(msg tea.KeyMsg, st *state.AppState, ctx nav.Context) (nav.Context, nav.Effect) {
	v.sync(st, ctx)

	if v.model.HandleKey(msg) {
		return ctx, nav.None()
	}
	return ctx, nav.None()
}

func (v *DiffView) Render(width, height int, st *state.AppState, ctx nav.Context) string {
	v.sync(st, ctx)
	v.model.SetSize(width, height)

	slot := loader.SlotKey{Type: loader.SlotDiff, Ref: ctx.CommitHash}
	if !v.parsed {
		switch st.Loader.Status(slot) {
		case loader.StatusFailed:
			msg := "Failed to load diff"
			if err := st.Loader.Err(slot); err != nil {
				msg += ": " + err.Error()
			}
			body := renderPlaceholder(msg, max(width-2, 1), max(height-2, 1))
			return styles.RenderWithTitleBorder(body, v.Title(st, ctx), width, height, true)
		default:
			body := renderPlaceholder("Loading diff...", max(width-2, 1), max(height-2, 1))
			return styles.RenderWithTitleBorder(body, v.Title(st, ctx), width, height, true)
		}
	}

	return v.model.View()
}
