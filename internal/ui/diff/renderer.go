package diff

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/refview/internal/ui/styles"
)

const (
	// gutterWidth covers "NNNN | " in the unified layout.
	gutterWidth = 7

	// Side-by-side geometry. Below narrowTermWidth the renderer falls
	// back to the unified layout.
	sideGutterWidth  = 5
	sideMinColWidth  = 40
	sideSeparator    = "│"
	narrowTermWidth  = 100
	treeIndentSpaces = 2
)

// expandTabs replaces tabs with spaces so column math stays honest.
// A width of 0 strips tabs entirely.
func expandTabs(s string, tabWidth int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// renderUnified renders a file's hunks in the single-column layout.
// The caller handles scrolling, so all lines are produced.
func renderUnified(file File, wd *fileWordDiff, width, tabWidth int) []string {
	if width < 1 {
		return nil
	}
	if file.IsBinary {
		return []string{styles.MutedStyle.Render("Binary file, cannot display diff")}
	}
	if len(file.Hunks) == 0 {
		return []string{styles.MutedStyle.Render("No content changes")}
	}

	contentWidth := max(width-gutterWidth, 1)
	var lines []string

	for hunkIdx, hunk := range file.Hunks {
		for lineIdx, line := range hunk.Lines {
			switch line.Type {
			case LineHunkHeader:
				header := hunk.Header
				if lipgloss.Width(header) > width {
					header = ansi.Truncate(header, width, "...")
				}
				lines = append(lines, styles.DiffHunkStyle.Render(header))

			case LineAddition:
				lines = append(lines, renderUnifiedLine(
					line, "+", formatGutter(0, line.NewLineNum),
					styles.DiffAddedStyle, styles.DiffWordAddStyle,
					segmentsIf(wd, hunkIdx, lineIdx, LineAddition),
					contentWidth, tabWidth,
				))

			case LineDeletion:
				lines = append(lines, renderUnifiedLine(
					line, "-", formatGutter(line.OldLineNum, 0),
					styles.DiffRemovedStyle, styles.DiffWordDelStyle,
					segmentsIf(wd, hunkIdx, lineIdx, LineDeletion),
					contentWidth, tabWidth,
				))

			case LineContext:
				content := " " + expandTabs(line.Content, tabWidth)
				if lipgloss.Width(content) > contentWidth {
					content = ansi.Truncate(content, contentWidth, "")
				}
				gutter := formatGutter(line.OldLineNum, line.NewLineNum)
				lines = append(lines, styles.MutedStyle.Render(gutter)+styles.DiffContextStyle.Render(content))
			}
		}
	}

	return lines
}

func renderUnifiedLine(line Line, prefix, gutter string, lineStyle, wordStyle lipgloss.Style, segs []segment, contentWidth, tabWidth int) string {
	var content string
	if len(segs) > 0 {
		content = renderSegments(segs, lineStyle, wordStyle, tabWidth)
	} else {
		content = lineStyle.Render(expandTabs(line.Content, tabWidth))
	}

	full := lineStyle.Render(prefix) + content
	if lipgloss.Width(full) > contentWidth {
		full = ansi.Truncate(full, contentWidth, "")
	}
	return styles.MutedStyle.Render(gutter) + full
}

// formatGutter shows the new line number when present, otherwise the
// old one. Hunk headers pass 0,0 and get a blank gutter.
func formatGutter(oldNum, newNum int) string {
	switch {
	case newNum > 0:
		return fmt.Sprintf("%4d | ", newNum)
	case oldNum > 0:
		return fmt.Sprintf("%4d | ", oldNum)
	default:
		return "     | "
	}
}

func segmentsIf(wd *fileWordDiff, hunkIdx, lineIdx int, t LineType) []segment {
	if wd == nil {
		return nil
	}
	return wd.segmentsFor(hunkIdx, lineIdx, t)
}

// renderSegments styles each segment, changed runs getting the
// background-highlight style.
func renderSegments(segs []segment, sameStyle, changedStyle lipgloss.Style, tabWidth int) string {
	var b strings.Builder
	for _, seg := range segs {
		text := expandTabs(seg.Text, tabWidth)
		if seg.Kind == segmentSame {
			b.WriteString(sameStyle.Render(text))
		} else {
			b.WriteString(changedStyle.Render(text))
		}
	}
	return b.String()
}

// renderSideBySide renders a file in the two-column layout, old on the
// left and new on the right. Falls back to unified when the width
// cannot fit two readable columns.
func renderSideBySide(file File, wd *fileWordDiff, width, tabWidth int) []string {
	if width < 1 {
		return nil
	}
	if file.IsBinary {
		return []string{styles.MutedStyle.Render("Binary file, cannot display diff")}
	}
	if len(file.Hunks) == 0 {
		return []string{styles.MutedStyle.Render("No content changes")}
	}

	minWidth := 2*(sideGutterWidth+sideMinColWidth) + 1
	if width < minWidth || width < narrowTermWidth {
		return renderUnified(file, wd, width, tabWidth)
	}

	sideWidth := (width - 1) / 2
	colWidth := max(sideWidth-sideGutterWidth, 1)

	var lines []string
	for hunkIdx, hunk := range file.Hunks {
		for _, row := range alignHunk(hunk) {
			var left, right string

			switch {
			case row.isHunkHeader():
				header := hunk.Header
				if lipgloss.Width(header) > sideWidth {
					header = ansi.Truncate(header, sideWidth, "...")
				}
				left = styles.DiffHunkStyle.Render(padRight(header, sideWidth))
				right = strings.Repeat(" ", sideWidth)

			case row.isContext():
				left = renderSideCell(row.Old, colWidth, styles.DiffContextStyle, styles.DiffContextStyle, nil, tabWidth)
				right = renderSideCell(row.New, colWidth, styles.DiffContextStyle, styles.DiffContextStyle, nil, tabWidth)

			case row.isModification():
				left = renderSideCell(row.Old, colWidth, styles.DiffRemovedStyle, styles.DiffWordDelStyle,
					segmentsForRow(wd, hunk, hunkIdx, row.Old, LineDeletion), tabWidth)
				right = renderSideCell(row.New, colWidth, styles.DiffAddedStyle, styles.DiffWordAddStyle,
					segmentsForRow(wd, hunk, hunkIdx, row.New, LineAddition), tabWidth)

			case row.isDeletion():
				left = renderSideCell(row.Old, colWidth, styles.DiffRemovedStyle, styles.DiffWordDelStyle,
					segmentsForRow(wd, hunk, hunkIdx, row.Old, LineDeletion), tabWidth)
				right = strings.Repeat(" ", sideWidth)

			case row.isAddition():
				left = strings.Repeat(" ", sideWidth)
				right = renderSideCell(row.New, colWidth, styles.DiffAddedStyle, styles.DiffWordAddStyle,
					segmentsForRow(wd, hunk, hunkIdx, row.New, LineAddition), tabWidth)
			}

			lines = append(lines, left+styles.MutedStyle.Render(sideSeparator)+right)
		}
	}

	return lines
}

// renderSideCell renders one column cell of exactly
// sideGutterWidth+colWidth display columns.
func renderSideCell(line *Line, colWidth int, lineStyle, wordStyle lipgloss.Style, segs []segment, tabWidth int) string {
	if line == nil {
		return strings.Repeat(" ", sideGutterWidth+colWidth)
	}

	num := line.NewLineNum
	if line.Type == LineDeletion {
		num = line.OldLineNum
	}
	gutter := "     "
	if num > 0 {
		gutter = fmt.Sprintf("%4d ", num)
	}

	var content string
	if len(segs) > 0 {
		content = renderSegments(segs, lineStyle, wordStyle, tabWidth)
	} else {
		content = lineStyle.Render(expandTabs(line.Content, tabWidth))
	}

	w := lipgloss.Width(content)
	if w > colWidth {
		content = ansi.Truncate(content, colWidth, "")
		w = lipgloss.Width(content)
	}
	if w < colWidth {
		content += strings.Repeat(" ", colWidth-w)
	}

	return styles.MutedStyle.Render(gutter) + content
}

// segmentsForRow resolves the hunk line index for a row's pointer and
// looks up its intraline segments.
func segmentsForRow(wd *fileWordDiff, hunk Hunk, hunkIdx int, target *Line, t LineType) []segment {
	if wd == nil || target == nil {
		return nil
	}
	for i := range hunk.Lines {
		if &hunk.Lines[i] == target {
			return wd.segmentsFor(hunkIdx, i, t)
		}
	}
	return nil
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// renderTreeNode renders one row of the file tree pane.
func renderTreeNode(node *TreeNode, selected bool, width int) string {
	if width < 1 {
		return ""
	}

	indent := strings.Repeat(" ", node.Depth*treeIndentSpaces)

	var prefix string
	if node.IsDir {
		prefix = "▶"
		if node.Expanded {
			prefix = "▼"
		}
	} else {
		prefix = node.StatusIndicator()
	}

	var stats string
	if !node.IsDir && node.File != nil {
		if node.File.IsBinary {
			stats = styles.MutedStyle.Render("binary")
		} else {
			stats = styles.FormatDiffStat(node.File.Additions, node.File.Deletions)
		}
	}
	statsWidth := lipgloss.Width(stats)

	// marker(2) + indent + prefix + space + name [+ space + stats]
	nameMax := width - 2 - lipgloss.Width(indent) - lipgloss.Width(prefix) - 1
	if statsWidth > 0 {
		nameMax -= statsWidth + 1
	}
	nameMax = max(nameMax, 1)

	name := node.Name
	if lipgloss.Width(name) > nameMax {
		name = ansi.Truncate(name, nameMax, "")
	}
	padding := max(nameMax-lipgloss.Width(name), 0)

	nameStyle := styles.TitleStyle
	if !selected {
		nameStyle = lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
		if node.IsDir {
			nameStyle = nameStyle.Bold(true)
		}
	}

	marker := "  "
	if selected {
		marker = styles.SelectionIndicatorStyle.Render("> ")
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString(indent)
	b.WriteString(styles.MutedStyle.Render(prefix))
	b.WriteString(" ")
	b.WriteString(nameStyle.Render(name))
	b.WriteString(strings.Repeat(" ", padding))
	if stats != "" {
		b.WriteString(" ")
		b.WriteString(stats)
	}
	return b.String()
}

// renderTree renders the visible window of the file tree pane.
func renderTree(tree *Tree, selectedIdx, scrollTop, width, height int) string {
	if width < 1 || height < 1 {
		return ""
	}

	nodes := tree.VisibleNodes()
	if len(nodes) == 0 {
		return styles.MutedStyle.Render("No files changed")
	}

	var lines []string
	end := min(scrollTop+height, len(nodes))
	for i := scrollTop; i < end; i++ {
		lines = append(lines, renderTreeNode(nodes[i], i == selectedIdx, width))
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
