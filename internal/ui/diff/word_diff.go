package diff

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Word diff performance bounds. Intraline highlighting is cosmetic, so
// it is skipped rather than allowed to stall rendering.
const (
	// wordDiffMaxLineLen skips word diff for lines longer than this.
	wordDiffMaxLineLen = 500
	// wordDiffMaxPairs caps the number of pairs diffed per hunk.
	wordDiffMaxPairs = 100
	// wordDiffTimeout bounds word diff computation per file.
	wordDiffTimeout = 50 * time.Millisecond
)

// segmentKind marks a token run as unchanged, added, or deleted.
type segmentKind int

const (
	segmentSame segmentKind = iota
	segmentAdded
	segmentDeleted
)

// segment is a run of text sharing one diff status.
type segment struct {
	Kind segmentKind
	Text string
}

// pairDiff holds the intraline result for one delete+add pair.
type pairDiff struct {
	OldSegments []segment
	NewSegments []segment
}

// tokenize splits a line into words, with whitespace and punctuation as
// single-rune tokens, so that diffs land on word boundaries.
func tokenize(line string) []string {
	var tokens []string
	var word strings.Builder

	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}

	for _, r := range line {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			flush()
			tokens = append(tokens, string(r))
		} else {
			word.WriteRune(r)
		}
	}
	flush()

	return tokens
}

// computePairDiff diffs two lines at token granularity.
func computePairDiff(oldLine, newLine string) pairDiff {
	if oldLine == "" && newLine == "" {
		return pairDiff{}
	}
	if oldLine == "" {
		return pairDiff{NewSegments: []segment{{Kind: segmentAdded, Text: newLine}}}
	}
	if newLine == "" {
		return pairDiff{OldSegments: []segment{{Kind: segmentDeleted, Text: oldLine}}}
	}

	// Join tokens with NUL so the character diff can only cut on token
	// boundaries, then strip the separators from the output.
	oldText := strings.Join(tokenize(oldLine), "\x00")
	newText := strings.Join(tokenize(newLine), "\x00")

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(oldText, newText, false))

	var result pairDiff
	for _, d := range diffs {
		text := strings.ReplaceAll(d.Text, "\x00", "")
		if text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			result.OldSegments = append(result.OldSegments, segment{Kind: segmentSame, Text: text})
			result.NewSegments = append(result.NewSegments, segment{Kind: segmentSame, Text: text})
		case diffmatchpatch.DiffDelete:
			result.OldSegments = append(result.OldSegments, segment{Kind: segmentDeleted, Text: text})
		case diffmatchpatch.DiffInsert:
			result.NewSegments = append(result.NewSegments, segment{Kind: segmentAdded, Text: text})
		}
	}
	return result
}

// changedPair is an adjacent deletion+addition inside a hunk, indexed
// by position in Hunk.Lines.
type changedPair struct {
	delIdx int
	addIdx int
}

// findChangedPairs locates adjacent delete+add pairs, the candidates
// for intraline highlighting.
func findChangedPairs(hunk Hunk) []changedPair {
	var pairs []changedPair
	for i := 0; i < len(hunk.Lines)-1; i++ {
		if hunk.Lines[i].Type == LineDeletion && hunk.Lines[i+1].Type == LineAddition {
			pairs = append(pairs, changedPair{delIdx: i, addIdx: i + 1})
			i++
		}
	}
	return pairs
}

// hunkWordDiff maps line indices within a hunk to intraline results.
type hunkWordDiff struct {
	results map[int]pairDiff
}

func computeHunkWordDiff(ctx context.Context, hunk Hunk) hunkWordDiff {
	out := hunkWordDiff{results: make(map[int]pairDiff)}

	pairs := findChangedPairs(hunk)
	if len(pairs) > wordDiffMaxPairs {
		pairs = pairs[:wordDiffMaxPairs]
	}

	for _, pair := range pairs {
		select {
		case <-ctx.Done():
			return out
		default:
		}

		del := hunk.Lines[pair.delIdx]
		add := hunk.Lines[pair.addIdx]
		if len(del.Content) > wordDiffMaxLineLen || len(add.Content) > wordDiffMaxLineLen {
			continue
		}

		pd := computePairDiff(del.Content, add.Content)
		out.results[pair.delIdx] = pd
		out.results[pair.addIdx] = pd
	}

	return out
}

// fileWordDiff maps hunk indices to their intraline results.
type fileWordDiff struct {
	hunks    map[int]hunkWordDiff
	timedOut bool
}

// computeFileWordDiff computes intraline diffs for a whole file under
// the per-file timeout. A timeout leaves later hunks without
// highlighting; line-level coloring still applies.
func computeFileWordDiff(file File) fileWordDiff {
	out := fileWordDiff{hunks: make(map[int]hunkWordDiff)}
	if len(file.Hunks) == 0 {
		return out
	}

	ctx, cancel := context.WithTimeout(context.Background(), wordDiffTimeout)
	defer cancel()

	for i, hunk := range file.Hunks {
		select {
		case <-ctx.Done():
			out.timedOut = true
			return out
		default:
		}

		hd := computeHunkWordDiff(ctx, hunk)
		if len(hd.results) > 0 {
			out.hunks[i] = hd
		}
	}

	return out
}

// segmentsFor returns the intraline segments for a line, or nil when
// none were computed.
func (f fileWordDiff) segmentsFor(hunkIdx, lineIdx int, t LineType) []segment {
	hd, ok := f.hunks[hunkIdx]
	if !ok {
		return nil
	}
	pd, ok := hd.results[lineIdx]
	if !ok {
		return nil
	}
	switch t {
	case LineDeletion:
		return pd.OldSegments
	case LineAddition:
		return pd.NewSegments
	default:
		return nil
	}
}
