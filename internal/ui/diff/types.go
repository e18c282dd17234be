// Package diff parses unified diff output and renders it for the terminal
// in unified, side-by-side, and split layouts.
package diff

// LayoutMode selects how diff content is presented.
type LayoutMode int

const (
	// LayoutUnified shows changes in a single column with +/- markers.
	LayoutUnified LayoutMode = iota
	// LayoutSideBySide shows old and new versions in parallel columns.
	LayoutSideBySide
	// LayoutSplit pairs a file-list pane with a content pane.
	LayoutSplit
)

// String returns a human-readable name for the layout mode.
func (m LayoutMode) String() string {
	switch m {
	case LayoutUnified:
		return "UNIFIED"
	case LayoutSideBySide:
		return "SIDE-BY-SIDE"
	case LayoutSplit:
		return "SPLIT"
	default:
		return "UNKNOWN"
	}
}

// Next returns the layout after m in the fixed cycle
// Unified → SideBySide → Split → Unified.
func (m LayoutMode) Next() LayoutMode {
	switch m {
	case LayoutUnified:
		return LayoutSideBySide
	case LayoutSideBySide:
		return LayoutSplit
	default:
		return LayoutUnified
	}
}

// ParseLayout maps a config layout name to a LayoutMode.
// Unknown names fall back to LayoutUnified.
func ParseLayout(name string) LayoutMode {
	switch name {
	case "side-by-side":
		return LayoutSideBySide
	case "split":
		return LayoutSplit
	default:
		return LayoutUnified
	}
}

// ConfigName returns the config file spelling of the layout.
func (m LayoutMode) ConfigName() string {
	switch m {
	case LayoutSideBySide:
		return "side-by-side"
	case LayoutSplit:
		return "split"
	default:
		return "unified"
	}
}

// LineType classifies a single diff line.
type LineType int

const (
	LineContext    LineType = iota // ' ' prefix, unchanged line
	LineAddition                   // '+' prefix
	LineDeletion                   // '-' prefix
	LineHunkHeader                 // '@@ ... @@' marker
)

// Line is one line inside a hunk.
type Line struct {
	Type       LineType
	OldLineNum int // line number in old file, 0 for additions
	NewLineNum int // line number in new file, 0 for deletions
	Content    string
}

// Hunk is a contiguous run of changes.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Header   string // the @@ line text
	Lines    []Line
}

// File holds the changes to a single file.
type File struct {
	OldPath    string // /dev/null for new files
	NewPath    string // /dev/null for deleted files
	Additions  int
	Deletions  int
	IsBinary   bool
	IsRenamed  bool
	IsNew      bool
	IsDeleted  bool
	Similarity int // rename similarity percentage
	Hunks      []Hunk
}

// Path returns the display path for the file. Deleted files use the
// old path since the new path is /dev/null.
func (f File) Path() string {
	if f.IsDeleted {
		return f.OldPath
	}
	return f.NewPath
}

// sideRow is one row of the side-by-side view. Old is nil for pure
// additions, New is nil for pure deletions; both are set for context
// rows and delete+add modification pairs.
type sideRow struct {
	Old *Line
	New *Line
}

func (r sideRow) isContext() bool {
	return r.Old != nil && r.New != nil &&
		r.Old.Type == LineContext && r.New.Type == LineContext
}

func (r sideRow) isDeletion() bool {
	return r.Old != nil && r.New == nil && r.Old.Type == LineDeletion
}

func (r sideRow) isAddition() bool {
	return r.Old == nil && r.New != nil && r.New.Type == LineAddition
}

func (r sideRow) isModification() bool {
	return r.Old != nil && r.New != nil &&
		r.Old.Type == LineDeletion && r.New.Type == LineAddition
}

func (r sideRow) isHunkHeader() bool {
	return r.Old != nil && r.Old.Type == LineHunkHeader
}

// alignHunk converts a hunk's lines into rows for side-by-side display.
// Context lines appear on both sides, unpaired deletions on the left,
// unpaired additions on the right. A run of deletions directly followed
// by a run of additions is zipped 1:1 into modification rows.
func alignHunk(hunk Hunk) []sideRow {
	if len(hunk.Lines) == 0 {
		return nil
	}

	var rows []sideRow
	lines := hunk.Lines
	i := 0

	for i < len(lines) {
		switch lines[i].Type {
		case LineHunkHeader:
			rows = append(rows, sideRow{Old: &lines[i]})
			i++

		case LineContext:
			rows = append(rows, sideRow{Old: &lines[i], New: &lines[i]})
			i++

		case LineDeletion:
			dels := runLength(lines, i, LineDeletion)
			adds := runLength(lines, i+dels, LineAddition)
			rows = append(rows, zipRuns(lines, i, dels, i+dels, adds)...)
			i += dels + adds

		case LineAddition:
			// Addition with no preceding deletion run, blank left side.
			rows = append(rows, sideRow{New: &lines[i]})
			i++
		}
	}

	return rows
}

// runLength counts consecutive lines of the given type starting at i.
func runLength(lines []Line, i int, t LineType) int {
	n := 0
	for i+n < len(lines) && lines[i+n].Type == t {
		n++
	}
	return n
}

// zipRuns pairs a deletion run with an addition run. Matched indices
// become modification rows, the surplus on either side stays unpaired.
func zipRuns(lines []Line, delStart, dels, addStart, adds int) []sideRow {
	var rows []sideRow

	paired := min(dels, adds)
	for j := range paired {
		rows = append(rows, sideRow{
			Old: &lines[delStart+j],
			New: &lines[addStart+j],
		})
	}
	for j := paired; j < dels; j++ {
		rows = append(rows, sideRow{Old: &lines[delStart+j]})
	}
	for j := paired; j < adds; j++ {
		rows = append(rows, sideRow{New: &lines[addStart+j]})
	}

	return rows
}
