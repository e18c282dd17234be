package diff

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	fileHeaderRe  = regexp.MustCompile(`^diff --git a/(.+) b/(.+)$`)
	hunkHeaderRe  = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@(.*)$`)
	oldPathRe     = regexp.MustCompile(`^--- a/(.+)$`)
	newPathRe     = regexp.MustCompile(`^\+\+\+ b/(.+)$`)
	similarityRe  = regexp.MustCompile(`^similarity index (\d+)%$`)
	renameFromRe  = regexp.MustCompile(`^rename from (.+)$`)
	renameToRe    = regexp.MustCompile(`^rename to (.+)$`)
	binaryRe      = regexp.MustCompile(`^Binary files .+ and .+ differ$`)
	newFileModeRe = regexp.MustCompile(`^new file mode \d+$`)
	deletedModeRe = regexp.MustCompile(`^deleted file mode \d+$`)
	modeOrIndexRe = regexp.MustCompile(`^(?:old mode \d+|new mode \d+|index [a-f0-9]+\.\.[a-f0-9]+.*)$`)
)

// Parse converts raw `git show --patch` / `git diff` output into files,
// hunks, and lines. It handles binary files, renames with similarity
// index, new files (--- /dev/null), deleted files (+++ /dev/null), and
// mode-only changes. Empty input yields a nil slice.
func Parse(output string) ([]File, error) {
	if output == "" {
		return nil, nil
	}

	p := &parser{}
	for line := range strings.SplitSeq(strings.TrimSuffix(output, "\n"), "\n") {
		if err := p.feed(line); err != nil {
			return nil, err
		}
	}
	return p.finish(), nil
}

// parser accumulates files as header and content lines stream in.
type parser struct {
	files   []File
	file    *File
	hunk    *Hunk
	oldLine int
	newLine int
}

func (p *parser) feed(line string) error {
	if m := fileHeaderRe.FindStringSubmatch(line); m != nil {
		p.flushFile()
		p.file = &File{OldPath: m[1], NewPath: m[2]}
		return nil
	}

	if p.file == nil {
		return nil
	}

	if p.feedMetadata(line) {
		return nil
	}

	if m := hunkHeaderRe.FindStringSubmatch(line); m != nil {
		return p.startHunk(line, m)
	}

	if p.hunk == nil {
		return nil
	}
	p.feedContent(line)
	return nil
}

// feedMetadata consumes the per-file header lines between the diff
// header and the first hunk. Returns true if the line was recognized.
func (p *parser) feedMetadata(line string) bool {
	switch {
	case line == "--- /dev/null":
		p.file.IsNew = true
		p.file.OldPath = "/dev/null"
	case line == "+++ /dev/null":
		p.file.IsDeleted = true
		p.file.NewPath = "/dev/null"
	case newFileModeRe.MatchString(line):
		p.file.IsNew = true
	case deletedModeRe.MatchString(line):
		p.file.IsDeleted = true
	case binaryRe.MatchString(line):
		p.file.IsBinary = true
	case modeOrIndexRe.MatchString(line):
		// mode and index lines carry nothing we display
	default:
		if m := oldPathRe.FindStringSubmatch(line); m != nil {
			p.file.OldPath = m[1]
			return true
		}
		if m := newPathRe.FindStringSubmatch(line); m != nil {
			p.file.NewPath = m[1]
			return true
		}
		if m := similarityRe.FindStringSubmatch(line); m != nil {
			if pct, err := strconv.Atoi(m[1]); err == nil {
				p.file.Similarity = pct
				p.file.IsRenamed = true
			}
			return true
		}
		if m := renameFromRe.FindStringSubmatch(line); m != nil {
			p.file.OldPath = m[1]
			p.file.IsRenamed = true
			return true
		}
		if m := renameToRe.FindStringSubmatch(line); m != nil {
			p.file.NewPath = m[1]
			p.file.IsRenamed = true
			return true
		}
		return false
	}
	return true
}

func (p *parser) startHunk(line string, m []string) error {
	p.flushHunk()

	oldStart, err := strconv.Atoi(m[1])
	if err != nil {
		return fmt.Errorf("invalid hunk header %q: %w", line, err)
	}
	newStart, err := strconv.Atoi(m[3])
	if err != nil {
		return fmt.Errorf("invalid hunk header %q: %w", line, err)
	}

	// Counts default to 1 when omitted ("@@ -1 +1 @@").
	oldCount, newCount := 1, 1
	if m[2] != "" {
		if oldCount, err = strconv.Atoi(m[2]); err != nil {
			return fmt.Errorf("invalid hunk header %q: %w", line, err)
		}
	}
	if m[4] != "" {
		if newCount, err = strconv.Atoi(m[4]); err != nil {
			return fmt.Errorf("invalid hunk header %q: %w", line, err)
		}
	}

	p.hunk = &Hunk{
		OldStart: oldStart,
		OldCount: oldCount,
		NewStart: newStart,
		NewCount: newCount,
		Header:   line,
		Lines: []Line{{
			Type:    LineHunkHeader,
			Content: strings.TrimSpace(m[5]),
		}},
	}
	p.oldLine = oldStart
	p.newLine = newStart
	return nil
}

func (p *parser) feedContent(line string) {
	if line == "" {
		// git emits context lines with a leading space, but a fully
		// empty line still counts as context on both sides
		p.hunk.Lines = append(p.hunk.Lines, Line{
			Type:       LineContext,
			OldLineNum: p.oldLine,
			NewLineNum: p.newLine,
		})
		p.oldLine++
		p.newLine++
		return
	}

	content := line[1:]
	switch line[0] {
	case ' ':
		p.hunk.Lines = append(p.hunk.Lines, Line{
			Type:       LineContext,
			OldLineNum: p.oldLine,
			NewLineNum: p.newLine,
			Content:    content,
		})
		p.oldLine++
		p.newLine++
	case '-':
		p.hunk.Lines = append(p.hunk.Lines, Line{
			Type:       LineDeletion,
			OldLineNum: p.oldLine,
			Content:    content,
		})
		p.file.Deletions++
		p.oldLine++
	case '+':
		p.hunk.Lines = append(p.hunk.Lines, Line{
			Type:       LineAddition,
			NewLineNum: p.newLine,
			Content:    content,
		})
		p.file.Additions++
		p.newLine++
	default:
		// "\ No newline at end of file" and anything unrecognized
	}
}

func (p *parser) flushHunk() {
	if p.hunk != nil {
		p.file.Hunks = append(p.file.Hunks, *p.hunk)
		p.hunk = nil
	}
}

func (p *parser) flushFile() {
	if p.file != nil {
		p.flushHunk()
		p.files = append(p.files, *p.file)
		p.file = nil
	}
}

func (p *parser) finish() []File {
	p.flushFile()
	return p.files
}
