package diff

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/refview/internal/config"
	"github.com/zjrosen/refview/internal/keys"
	"github.com/zjrosen/refview/internal/ui/styles"
)

// treePaneWidth is the column budget for the file list pane.
const treePaneWidth = 36

// Model drives the diff view: layout switching, file selection, and
// content scrolling with per-file scroll memory.
type Model struct {
	keys keys.KeyMap

	layout       LayoutMode
	showFileList bool
	wordDiffOn   bool
	tabWidth     int

	files      []File
	tree       *Tree
	fileIdx    int
	treeScroll int

	scroll int

	wordCache map[int]*fileWordDiff

	width  int
	height int
}

// New builds a Model from the diff section of the config.
func New(cfg config.DiffConfig, km keys.KeyMap) Model {
	return Model{
		keys:         km,
		layout:       ParseLayout(cfg.Layout),
		showFileList: cfg.ShowFileList,
		wordDiffOn:   cfg.WordDiff,
		tabWidth:     cfg.TabWidth,
		wordCache:    make(map[int]*fileWordDiff),
	}
}

// SetFiles replaces the files being displayed and resets selection.
func (m *Model) SetFiles(files []File) {
	m.files = files
	m.tree = NewTree(files)
	m.fileIdx = 0
	m.treeScroll = 0
	m.scroll = 0
	m.wordCache = make(map[int]*fileWordDiff)
}

// SetSize updates the terminal dimensions available to the view.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampScroll()
}

// Layout returns the active layout mode.
func (m Model) Layout() LayoutMode { return m.layout }

// ShowFileList reports whether the file list pane is visible.
func (m Model) ShowFileList() bool { return m.showFileList }

// WordDiffEnabled reports whether intraline highlighting is on.
func (m Model) WordDiffEnabled() bool { return m.wordDiffOn }

// Files returns the parsed diff files.
func (m Model) Files() []File { return m.files }

// CurrentFile returns the selected file, or nil when the diff is empty.
func (m *Model) CurrentFile() *File {
	if len(m.files) == 0 {
		return nil
	}
	return &m.files[m.fileIdx]
}

// HandleKey processes a key press. Returns true when the key was
// consumed, false when the caller should interpret it.
func (m *Model) HandleKey(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.CycleLayout):
		m.layout = m.layout.Next()
	case key.Matches(msg, m.keys.Unified):
		m.layout = LayoutUnified
	case key.Matches(msg, m.keys.SideBySide):
		m.layout = LayoutSideBySide
	case key.Matches(msg, m.keys.Split):
		m.layout = LayoutSplit
	case key.Matches(msg, m.keys.FileList):
		m.showFileList = !m.showFileList
	case key.Matches(msg, m.keys.ToggleWords):
		m.wordDiffOn = !m.wordDiffOn
	case key.Matches(msg, m.keys.NextFile):
		m.selectFile(m.fileIdx + 1)
	case key.Matches(msg, m.keys.PrevFile):
		m.selectFile(m.fileIdx - 1)
	case key.Matches(msg, m.keys.Up):
		m.scrollBy(-1)
	case key.Matches(msg, m.keys.Down):
		m.scrollBy(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scrollBy(-m.contentHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.scrollBy(m.contentHeight())
	case key.Matches(msg, m.keys.Top):
		m.scroll = 0
	case key.Matches(msg, m.keys.Bot):
		m.scroll = m.maxScroll()
	default:
		return false
	}
	return true
}

// selectFile moves the selection. Scroll always restarts at the top of
// the newly selected file.
func (m *Model) selectFile(idx int) {
	if len(m.files) == 0 {
		return
	}
	idx = max(0, min(idx, len(m.files)-1))
	if idx == m.fileIdx {
		return
	}

	m.fileIdx = idx
	m.scroll = 0
	m.scrollTreeToSelection()
}

func (m *Model) scrollBy(delta int) {
	m.scroll += delta
	m.clampScroll()
}

func (m *Model) clampScroll() {
	m.scroll = max(0, min(m.scroll, m.maxScroll()))
}

func (m *Model) maxScroll() int {
	total := len(m.contentLines())
	return max(0, total-m.contentHeight())
}

// scrollTreeToSelection keeps the selected file's tree row visible.
func (m *Model) scrollTreeToSelection() {
	if m.tree == nil {
		return
	}
	target := -1
	for i, node := range m.tree.VisibleNodes() {
		if !node.IsDir && node.File == &m.files[m.fileIdx] {
			target = i
			break
		}
	}
	if target < 0 {
		return
	}
	h := m.contentHeight()
	if target < m.treeScroll {
		m.treeScroll = target
	} else if target >= m.treeScroll+h {
		m.treeScroll = target - h + 1
	}
}

// contentHeight is the line budget inside the content pane: total
// height minus the header row and the pane border.
func (m Model) contentHeight() int {
	return max(m.height-3, 1)
}

// contentWidth is the column budget for diff lines: pane width minus
// border and the scrollbar column, minus the tree pane when shown.
func (m Model) contentWidth() int {
	w := m.width
	if m.treeVisible() {
		w -= treePaneWidth
	}
	return max(w-3, 1)
}

// treeVisible reports whether the file list pane renders. The split
// layout always shows it; otherwise the toggle decides. Narrow
// terminals drop the pane to keep the content readable.
func (m Model) treeVisible() bool {
	if m.width < narrowTermWidth {
		return false
	}
	return m.layout == LayoutSplit || m.showFileList
}

// contentLines renders the selected file for the active layout.
func (m *Model) contentLines() []string {
	file := m.CurrentFile()
	if file == nil {
		return nil
	}

	var wd *fileWordDiff
	if m.wordDiffOn {
		wd = m.wordDiffFor(m.fileIdx)
	}

	if m.layout == LayoutSideBySide {
		return renderSideBySide(*file, wd, m.contentWidth(), m.tabWidth)
	}
	return renderUnified(*file, wd, m.contentWidth(), m.tabWidth)
}

// wordDiffFor lazily computes and caches intraline diffs per file.
func (m *Model) wordDiffFor(idx int) *fileWordDiff {
	if wd, ok := m.wordCache[idx]; ok {
		return wd
	}
	wd := computeFileWordDiff(m.files[idx])
	m.wordCache[idx] = &wd
	return &wd
}

// View renders the complete diff view at the configured size.
func (m *Model) View() string {
	if m.width < 1 || m.height < 1 {
		return ""
	}
	if len(m.files) == 0 {
		empty := styles.MutedStyle.Render("No changes to display")
		return styles.RenderWithTitleBorder(empty, "Diff", m.width, m.height, true)
	}

	header := m.headerLine()
	content := m.contentPane()

	if m.treeVisible() {
		tree := renderTree(m.tree, m.treeNodeIndex(), m.treeScroll, treePaneWidth-2, m.contentHeight())
		treePane := styles.RenderWithTitleBorder(tree, "Files", treePaneWidth, m.height-1, m.layout == LayoutSplit)
		content = lipgloss.JoinHorizontal(lipgloss.Top, treePane, content)
	}

	return header + "\n" + content
}

// headerLine summarizes the selected file: position, path, stats, and
// the active layout.
func (m *Model) headerLine() string {
	file := m.CurrentFile()

	pos := fmt.Sprintf("[%d/%d]", m.fileIdx+1, len(m.files))
	name := styles.DiffFilenameStyle.Render(file.Path())
	if file.IsRenamed {
		name = styles.DiffFilenameStyle.Render(file.OldPath + " → " + file.NewPath)
	}

	stats := styles.FormatDiffStat(file.Additions, file.Deletions)
	mode := styles.MutedStyle.Render(m.layout.String())

	line := strings.Join([]string{styles.MutedStyle.Render(pos), name, stats, mode}, " ")
	if lipgloss.Width(line) > m.width {
		line = styles.TruncateString(line, m.width)
	}
	return line
}

// contentPane renders the scrolled diff content with its scrollbar
// inside a titled border.
func (m *Model) contentPane() string {
	lines := m.contentLines()
	h := m.contentHeight()

	end := min(m.scroll+h, len(lines))
	var visible []string
	if m.scroll < len(lines) {
		visible = lines[m.scroll:end]
	}

	body := strings.Join(visible, "\n")
	bar := renderScrollbar(len(lines), h, m.scroll)
	if bar != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, bar)
	}

	w := m.width
	if m.treeVisible() {
		w -= treePaneWidth
	}
	return styles.RenderWithTitleBorder(body, m.CurrentFile().Path(), w, m.height-1, m.layout != LayoutSplit)
}

// treeNodeIndex maps the selected file to its row in the visible tree.
func (m *Model) treeNodeIndex() int {
	if m.tree == nil {
		return 0
	}
	for i, node := range m.tree.VisibleNodes() {
		if !node.IsDir && node.File == &m.files[m.fileIdx] {
			return i
		}
	}
	return 0
}
