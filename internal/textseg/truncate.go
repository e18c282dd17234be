// Package textseg provides Unicode-safe text truncation helpers.
//
// This module distinguishes between three units of text measurement:
//
//  1. Bytes: The underlying storage unit in Go strings (len() returns bytes).
//     A single grapheme can be 1-25+ bytes.
//
//  2. Graphemes: The logical unit of text that users perceive as a "character".
//     A grapheme cluster may consist of multiple code points (e.g., "e" +
//     combining accent = 1 grapheme).
//
//  3. Display Columns: The width in terminal cells that a grapheme occupies.
//     ASCII = 1 column, emoji = 2 columns, CJK = 2 columns.
//
// SafeTruncate cuts on byte budgets without ever splitting a multi-byte UTF-8
// sequence. TruncateToWidth cuts on display columns without splitting a
// grapheme cluster.
package textseg

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// SafeTruncate returns a prefix of s whose byte length is at most n,
// cut on a valid UTF-8 boundary. When n falls inside a multi-byte
// sequence, the cut point scans backward to the start of that sequence,
// so the result may be shorter than n bytes but is always valid UTF-8.
func SafeTruncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if n >= len(s) {
		return s
	}

	// Scan backward from the byte budget until a rune start is found.
	// UTF-8 continuation bytes have the form 10xxxxxx; at most 3 of
	// them precede a rune start, so this loop runs at most 3 times.
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// TruncateToWidth returns a prefix of s that occupies at most width display
// columns, cut on a grapheme cluster boundary. Wide characters (CJK, emoji)
// count as two columns.
func TruncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}

	total := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		cluster, tail, _, newState := uniseg.StepString(rest, state)
		w := runewidth.StringWidth(cluster)
		if total+w > width {
			return s[:len(s)-len(rest)]
		}
		total += w
		rest = tail
		state = newState
	}
	return s
}

// DisplayWidth returns the number of terminal columns s occupies,
// measured grapheme by grapheme.
func DisplayWidth(s string) int {
	total := 0
	state := -1
	for len(s) > 0 {
		cluster, rest, _, newState := uniseg.StepString(s, state)
		total += runewidth.StringWidth(cluster)
		s = rest
		state = newState
	}
	return total
}

// GraphemeCount returns the number of grapheme clusters in s.
func GraphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}
