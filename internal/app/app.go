// Package app contains the root application model.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/refview/internal/cache"
	"github.com/zjrosen/refview/internal/config"
	"github.com/zjrosen/refview/internal/git"
	"github.com/zjrosen/refview/internal/keys"
	"github.com/zjrosen/refview/internal/loader"
	"github.com/zjrosen/refview/internal/log"
	"github.com/zjrosen/refview/internal/nav"
	"github.com/zjrosen/refview/internal/state"
	"github.com/zjrosen/refview/internal/store"
	"github.com/zjrosen/refview/internal/ui/styles"
	"github.com/zjrosen/refview/internal/ui/views"
	"github.com/zjrosen/refview/internal/watcher"
)

// cacheTTL is how long repository snapshots stay warm between watcher
// invalidations.
const cacheTTL = 5 * time.Minute

// crumbZonePrefix namespaces breadcrumb click zones.
const crumbZonePrefix = "crumb:"

// logBufferCap bounds how many log entries the overlay keeps.
const logBufferCap = 200

// repoChangedMsg arrives when the watcher reports the repository
// changed on disk.
type repoChangedMsg struct{}

// actionDoneMsg reports a completed side-effecting git operation.
type actionDoneMsg struct {
	verb string
	err  error
}

// Deps carries everything the root model needs. QueryRepo and Watcher
// may be nil (history disabled, auto-refresh off).
type Deps struct {
	Exec       git.Executor
	Config     config.Config
	ConfigPath string
	QueryRepo  *store.Repository
	Watcher    *watcher.Watcher
	Coord      *loader.Coordinator
}

// Model is the root bubbletea model: it owns the navigation stack, the
// load coordinator, and the shared state views render from.
type Model struct {
	deps Deps
	keys keys.KeyMap

	st    *state.AppState
	stack *nav.Stack
	views map[nav.ViewKind]views.View

	// diffView and history are also in the views table; these typed
	// references exist for layout persistence and reload hooks.
	diffView *views.DiffView
	history  *views.QueryHistory

	caches   []cache.Flusher
	branches *cache.ReadThrough[string, []git.BranchInfo, struct{}]
	tags     *cache.ReadThrough[string, []git.TagInfo, struct{}]
	remotes  *cache.ReadThrough[string, []git.RemoteInfo, struct{}]
	commits  *cache.ReadThrough[string, []git.Commit, string]
	diffs    *cache.ReadThrough[string, string, string]
	ttl      time.Duration

	watchCh <-chan struct{}

	// logTail streams entries from the logger into the overlay buffer.
	// Nil when logging was never initialized.
	logTail  *log.LogListener
	logLines []string

	spinner    spinner.Model
	showHelp   bool
	showLogs   bool
	lastLayout string

	width  int
	height int
}

// New builds the root model. The executor is queried synchronously for
// repo identity; everything else loads through the coordinator.
func New(deps Deps) Model {
	zone.NewGlobal()

	km := keys.DefaultKeyMap()
	st := state.New(deps.Coord)

	if root, err := deps.Exec.RepoRoot(context.Background()); err == nil {
		st.RepoRoot = root
	}
	if branch, err := deps.Exec.CurrentBranch(context.Background()); err == nil {
		st.CurrentBranch = branch
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	diffView := views.NewDiffView(km, deps.Config.Diff)
	history := views.NewQueryHistory(km, deps.QueryRepo)

	viewTable := map[nav.ViewKind]views.View{
		nav.KindMainMenu:     views.NewMainMenu(km),
		nav.KindBranchList:   views.NewBranchList(km),
		nav.KindTagList:      views.NewTagList(km),
		nav.KindRemoteList:   views.NewRemoteList(km),
		nav.KindCommitList:   views.NewCommitList(km),
		nav.KindDiffView:     diffView,
		nav.KindQueryHistory: history,
	}

	skip := deps.Config.Cache.Disabled
	ttl := cacheTTL
	if deps.Config.Cache.TTLSeconds > 0 {
		ttl = time.Duration(deps.Config.Cache.TTLSeconds) * time.Second
	}

	branchCache := cache.NewInMemoryManager[string, []git.BranchInfo]("branches", ttl, cache.DefaultCleanupInterval)
	tagCache := cache.NewInMemoryManager[string, []git.TagInfo]("tags", ttl, cache.DefaultCleanupInterval)
	remoteCache := cache.NewInMemoryManager[string, []git.RemoteInfo]("remotes", ttl, cache.DefaultCleanupInterval)
	commitCache := cache.NewInMemoryManager[string, []git.Commit]("commits", ttl, cache.DefaultCleanupInterval)
	diffCache := cache.NewInMemoryManager[string, string]("diffs", ttl, cache.DefaultCleanupInterval)

	limit := deps.Config.CommitLimit
	exec := deps.Exec

	m := Model{
		deps:       deps,
		keys:       km,
		st:         st,
		stack:      nav.NewStack(nav.Context{Kind: nav.KindMainMenu}),
		views:      viewTable,
		diffView:   diffView,
		history:    history,
		spinner:    sp,
		lastLayout: deps.Config.Diff.Layout,
		caches:     []cache.Flusher{branchCache, tagCache, remoteCache, commitCache, diffCache},
		ttl:        ttl,
		branches: cache.NewReadThrough(branchCache, func(ctx context.Context, _ struct{}) ([]git.BranchInfo, error) {
			return exec.ListBranches(ctx)
		}, skip),
		tags: cache.NewReadThrough(tagCache, func(ctx context.Context, _ struct{}) ([]git.TagInfo, error) {
			return exec.ListTags(ctx)
		}, skip),
		remotes: cache.NewReadThrough(remoteCache, func(ctx context.Context, _ struct{}) ([]git.RemoteInfo, error) {
			return exec.ListRemotes(ctx)
		}, skip),
		commits: cache.NewReadThrough(commitCache, func(ctx context.Context, ref string) ([]git.Commit, error) {
			return exec.CommitLog(ctx, ref, limit)
		}, skip),
		diffs: cache.NewReadThrough(diffCache, func(ctx context.Context, hash string) (string, error) {
			return exec.CommitDiff(ctx, hash)
		}, skip),
	}

	m.logTail = log.NewListener(context.Background())

	if deps.Watcher != nil {
		if ch, err := deps.Watcher.Start(); err == nil {
			m.watchCh = ch
		} else {
			// auto-refresh is best-effort; browsing works without it
			log.Warn(log.CatWatcher, "watcher start failed", "error", err)
		}
	}

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.watchCh != nil {
		cmds = append(cmds, m.waitForRepoChange())
	}
	if m.logTail != nil {
		cmds = append(cmds, m.logTail.Next())
	}
	return tea.Batch(cmds...)
}

// waitForRepoChange blocks on the watcher's debounced channel.
func (m Model) waitForRepoChange() tea.Cmd {
	ch := m.watchCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return repoChangedMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.st.Width = msg.Width
		m.st.Height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loader.ResultMsg:
		if m.st.Loader.Apply(msg) {
			m.st.ApplyResult(msg)
		}
		return m, m.st.Loader.Resume(msg.Slot)

	case actionDoneMsg:
		return m.handleActionDone(msg)

	case repoChangedMsg:
		return m.handleRepoChanged()

	case log.LogEvent:
		m.logLines = append(m.logLines, strings.TrimRight(msg.Payload, "\n"))
		if len(m.logLines) > logBufferCap {
			m.logLines = m.logLines[len(m.logLines)-logBufferCap:]
		}
		if m.logTail == nil {
			return m, nil
		}
		return m, m.logTail.Next()

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.persistDiffLayout()
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		m.showLogs = false
		return m, nil
	}
	if key.Matches(msg, m.keys.Logs) {
		m.showLogs = !m.showLogs
		m.showHelp = false
		return m, nil
	}
	if m.showHelp || m.showLogs {
		// any other key dismisses the overlay
		m.showHelp = false
		m.showLogs = false
		return m, nil
	}
	if key.Matches(msg, m.keys.Back) {
		return m.popFrame()
	}

	top := m.stack.Top()
	view := m.views[top.Kind]
	updated, eff := view.HandleKey(msg, m.st, top)
	m.stack.SetTop(updated)

	return m.applyEffect(eff)
}

// popFrame goes back one frame. Back at the root is an exit request.
func (m Model) popFrame() (tea.Model, tea.Cmd) {
	if m.stack.Depth() == 1 {
		m.persistDiffLayout()
		return m, tea.Quit
	}
	prev, _ := m.stack.Pop()
	log.Debug(log.CatNav, "pop", "to", prev.Kind.String())
	m.persistDiffLayout()
	return m, nil
}

// applyEffect executes what the active view asked for.
func (m Model) applyEffect(eff nav.Effect) (tea.Model, tea.Cmd) {
	switch eff.Kind {
	case nav.EffectPush:
		m.stack.Push(eff.Next)
		log.Debug(log.CatNav, "push", "to", eff.Next.Kind.String(), "ref", eff.Next.Ref)
		return m, m.fetchFor(eff.Next)

	case nav.EffectPop:
		return m.popFrame()

	case nav.EffectReplace:
		m.stack.Replace(eff.Next)
		return m, m.fetchFor(eff.Next)

	case nav.EffectAction:
		return m.runAction(eff)
	}

	// Detail panels need the commit body, which loads on demand.
	if cmd := m.maybeFetchBody(); cmd != nil {
		return m, cmd
	}
	return m, nil
}

func (m Model) runAction(eff nav.Effect) (tea.Model, tea.Cmd) {
	switch eff.Action {
	case nav.ActionCheckout:
		ref := eff.Arg
		return m, func() tea.Msg {
			return actionDoneMsg{verb: "checkout " + ref, err: m.deps.Exec.Checkout(context.Background(), ref)}
		}

	case nav.ActionPull:
		return m, func() tea.Msg {
			return actionDoneMsg{verb: "pull", err: m.deps.Exec.Pull(context.Background())}
		}

	case nav.ActionRefresh:
		return m.refreshActive()

	case nav.ActionToggleHelp:
		m.showHelp = !m.showHelp
		return m, nil

	case nav.ActionSaveQuery:
		return m.saveQuery(eff.Arg)
	}
	return m, nil
}

// saveQuery stores the current ref as a named query.
func (m Model) saveQuery(ref string) (tea.Model, tea.Cmd) {
	if m.deps.QueryRepo == nil {
		m.st.StatusMsg = "Query history is disabled"
		return m, nil
	}
	q := &store.Query{Name: ref, Ref: ref, CreatedAt: time.Now()}
	if err := m.deps.QueryRepo.Save(q); err != nil {
		log.ErrorErr(log.CatStore, "save query failed", err)
		m.st.StatusMsg = "Save failed: " + err.Error()
		return m, nil
	}
	m.history.Reload()
	m.st.StatusMsg = "Saved query " + ref
	return m, nil
}

// refreshActive invalidates and refetches the active frame's data.
func (m Model) refreshActive() (tea.Model, tea.Cmd) {
	top := m.stack.Top()
	for _, slot := range slotsFor(top) {
		m.st.Loader.Invalidate(slot)
	}
	m.flushCaches()
	return m, m.fetchFor(top)
}

func (m Model) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.ErrorErr(log.CatGit, "action failed", msg.err, "verb", msg.verb)
		m.st.StatusMsg = msg.verb + " failed: " + msg.err.Error()
		return m, nil
	}

	m.st.StatusMsg = msg.verb + " done"
	if branch, err := m.deps.Exec.CurrentBranch(context.Background()); err == nil {
		m.st.CurrentBranch = branch
	}

	// The repository moved under us: drop everything and reload what
	// the stack is showing.
	m.st.Loader.InvalidateAll()
	m.st.ClearRepoData()
	m.flushCaches()
	return m, m.fetchStack()
}

func (m Model) handleRepoChanged() (tea.Model, tea.Cmd) {
	log.Info(log.CatWatcher, "repository changed, reloading")
	m.st.Loader.InvalidateAll()
	m.st.ClearRepoData()
	m.flushCaches()
	if branch, err := m.deps.Exec.CurrentBranch(context.Background()); err == nil {
		m.st.CurrentBranch = branch
	}
	return m, tea.Batch(m.fetchStack(), m.waitForRepoChange())
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	for i := range m.stack.Frames() {
		if z := zone.Get(fmt.Sprintf("%s%d", crumbZonePrefix, i)); z != nil && z.InBounds(msg) {
			for m.stack.Depth() > i+1 {
				m.stack.Pop()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m Model) flushCaches() {
	ctx := context.Background()
	for _, c := range m.caches {
		if err := c.Flush(ctx); err != nil {
			log.Warn(log.CatCache, "cache flush failed", "error", err)
		}
	}
}

// slotsFor names the loader slots a frame depends on.
func slotsFor(ctx nav.Context) []loader.SlotKey {
	switch ctx.Kind {
	case nav.KindBranchList:
		return []loader.SlotKey{{Type: loader.SlotBranches}}
	case nav.KindTagList:
		return []loader.SlotKey{{Type: loader.SlotTags}}
	case nav.KindRemoteList:
		return []loader.SlotKey{{Type: loader.SlotRemotes}}
	case nav.KindCommitList:
		return []loader.SlotKey{{Type: loader.SlotCommits, Ref: ctx.Ref}}
	case nav.KindDiffView:
		return []loader.SlotKey{{Type: loader.SlotDiff, Ref: ctx.CommitHash}}
	default:
		return nil
	}
}

// fetchFor requests the data a frame needs. Cached snapshots resolve
// immediately inside the fetch; the coordinator still handles staleness.
func (m Model) fetchFor(frame nav.Context) tea.Cmd {
	var cmds []tea.Cmd
	for _, slot := range slotsFor(frame) {
		cmds = append(cmds, m.requestSlot(slot))
	}
	return tea.Batch(cmds...)
}

// fetchStack refetches every frame currently on the stack.
func (m Model) fetchStack() tea.Cmd {
	var cmds []tea.Cmd
	for _, frame := range m.stack.Frames() {
		if cmd := m.fetchFor(frame); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) requestSlot(slot loader.SlotKey) tea.Cmd {
	switch slot.Type {
	case loader.SlotBranches:
		return m.st.Loader.Request(slot, func(ctx context.Context) (any, error) {
			return m.branches.Get(ctx, "all", struct{}{}, m.ttl)
		})

	case loader.SlotTags:
		return m.st.Loader.Request(slot, func(ctx context.Context) (any, error) {
			return m.tags.Get(ctx, "all", struct{}{}, m.ttl)
		})

	case loader.SlotRemotes:
		return m.st.Loader.Request(slot, func(ctx context.Context) (any, error) {
			return m.remotes.Get(ctx, "all", struct{}{}, m.ttl)
		})

	case loader.SlotCommits:
		ref := slot.Ref
		return m.st.Loader.Request(slot, func(ctx context.Context) (any, error) {
			return m.commits.Get(ctx, ref, ref, m.ttl)
		})

	case loader.SlotDiff:
		hash := slot.Ref
		return m.st.Loader.Request(slot, func(ctx context.Context) (any, error) {
			return m.diffs.Get(ctx, hash, hash, m.ttl)
		})

	case loader.SlotCommitBody:
		hash := slot.Ref
		return m.st.Loader.Request(slot, func(ctx context.Context) (any, error) {
			return m.deps.Exec.CommitBody(ctx, hash)
		})
	}
	return nil
}

// maybeFetchBody requests the selected commit's body when the detail
// panel is open and the body has not loaded yet.
func (m Model) maybeFetchBody() tea.Cmd {
	top := m.stack.Top()
	if top.Kind != nav.KindCommitList || !top.ShowDetail {
		return nil
	}
	commits := m.st.Commits[top.Ref]
	if len(commits) == 0 || top.Cursor >= len(commits) {
		return nil
	}
	hash := commits[top.Cursor].Hash
	if _, ok := m.st.Bodies[hash]; ok {
		return nil
	}
	return m.requestSlot(loader.SlotKey{Type: loader.SlotCommitBody, Ref: hash})
}

// persistDiffLayout writes the diff layout back to the config file when
// the user changed it during the session.
func (m *Model) persistDiffLayout() {
	current := m.diffView.Layout().ConfigName()
	if current == m.lastLayout || m.deps.ConfigPath == "" {
		return
	}
	diffCfg := m.deps.Config.Diff
	diffCfg.Layout = current
	if err := config.SaveDiff(m.deps.ConfigPath, diffCfg); err != nil {
		log.Warn(log.CatConfig, "persist diff layout failed", "error", err)
		return
	}
	m.lastLayout = current
	m.deps.Config.Diff.Layout = current
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width < 1 || m.height < 1 {
		return ""
	}

	crumb := m.renderBreadcrumb()
	status := m.renderStatusBar()

	bodyHeight := max(m.height-2, 1)
	var body string
	if m.showHelp {
		body = m.renderHelp(bodyHeight)
	} else if m.showLogs {
		body = m.renderLogs(bodyHeight)
	} else {
		top := m.stack.Top()
		body = m.views[top.Kind].Render(m.width, bodyHeight, m.st, top)
	}

	return zone.Scan(crumb + "\n" + body + "\n" + status)
}

// renderBreadcrumb draws the stack path, each segment click-targeted.
func (m Model) renderBreadcrumb() string {
	frames := m.stack.Frames()
	parts := make([]string, len(frames))
	for i, frame := range frames {
		label := frame.Label()
		style := styles.CrumbInactiveStyle
		if i == len(frames)-1 {
			style = styles.CrumbActiveStyle
		}
		parts[i] = zone.Mark(fmt.Sprintf("%s%d", crumbZonePrefix, i), style.Render(label))
	}
	line := strings.Join(parts, styles.MutedStyle.Render(" > "))
	if lipgloss.Width(line) > m.width {
		line = ansi.Truncate(line, m.width, "…")
	}
	return line
}

func (m Model) renderStatusBar() string {
	var left string
	if m.st.Loader.Loading() {
		left = m.spinner.View() + " loading"
	} else if m.st.StatusMsg != "" {
		left = m.st.StatusMsg
	} else {
		left = m.itemCount()
	}

	right := styles.HelpStyle.Render("? help · esc back · q quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return styles.StatusBarStyle.Render(ansi.Truncate(left, m.width, "…"))
	}
	return styles.StatusBarStyle.Render(left) + strings.Repeat(" ", gap) + right
}

// itemCount summarizes the active list when nothing else claims the
// status line.
func (m Model) itemCount() string {
	top := m.stack.Top()
	var n int
	var noun string
	switch top.Kind {
	case nav.KindBranchList:
		n, noun = len(m.st.Branches), "branches"
	case nav.KindTagList:
		n, noun = len(m.st.Tags), "tags"
	case nav.KindRemoteList:
		n, noun = len(m.st.Remotes), "remotes"
	case nav.KindCommitList:
		n, noun = len(m.st.Commits[top.Ref]), "commits"
	default:
		return ""
	}
	return fmt.Sprintf("%d %s", n, noun)
}

// renderLogs draws the tail of the in-memory log buffer.
func (m Model) renderLogs(height int) string {
	inner := max(m.width-2, 1)
	innerHeight := max(height-2, 1)

	if m.logTail == nil && len(m.logLines) == 0 {
		msg := styles.MutedStyle.Render("Logging is off. Start with --debug or REFVIEW_DEBUG=1.")
		return styles.RenderWithTitleBorder(msg, "Log", m.width, height, true)
	}

	lines := m.logLines
	if len(lines) > innerHeight {
		lines = lines[len(lines)-innerHeight:]
	}
	rows := make([]string, len(lines))
	for i, line := range lines {
		if lipgloss.Width(line) > inner {
			line = styles.TruncateString(line, inner)
		}
		rows[i] = line
	}
	body := strings.Join(rows, "\n")
	if body == "" {
		body = styles.MutedStyle.Render("No log entries yet.")
	}
	return styles.RenderWithTitleBorder(body, "Log", m.width, height, true)
}

// renderHelp draws the full key binding reference.
func (m Model) renderHelp(height int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Key bindings"))
	b.WriteString("\n\n")
	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString("  ")
			b.WriteString(styles.SecondaryStyle.Render(fmt.Sprintf("%-12s", h.Key)))
			b.WriteString(styles.MutedStyle.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return styles.RenderWithTitleBorder(b.String(), "Help", m.width, height, true)
}
