// Package markdown provides styled markdown rendering for commit bodies.
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
)

// noMarginStyle is a JSON style that removes document margins.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer turns commit message bodies into styled terminal output.
// Bodies that look like markdown get the full glamour treatment, plain
// prose is word-wrapped as is.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a renderer with the given width and style. style should
// be "dark" or "light", defaulting to "dark". A fixed style is used
// instead of WithAutoStyle() because auto detection queries the
// terminal and the OSC responses leak into bubbletea's input stream.
func New(width int, style string) (*Renderer, error) {
	if style == "" {
		style = "dark"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms a commit body to styled terminal output. Bodies
// without markdown structure bypass glamour so plain git prose keeps
// its line breaks.
func (r *Renderer) Render(body string) (string, error) {
	if !looksLikeMarkdown(body) {
		return wordwrap.String(body, r.width), nil
	}
	return r.renderer.Render(body)
}

// looksLikeMarkdown checks for common markdown constructs. Commit
// bodies are usually plain text; rendering those through glamour
// reflows paragraphs in ways that mangle things like tabular output
// pasted into messages.
func looksLikeMarkdown(s string) bool {
	for line := range strings.SplitSeq(s, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"),
			strings.HasPrefix(trimmed, "- "),
			strings.HasPrefix(trimmed, "* "),
			strings.HasPrefix(trimmed, "```"),
			strings.HasPrefix(trimmed, "> "):
			return true
		}
		if strings.Contains(trimmed, "](") || strings.Contains(trimmed, "`") {
			return true
		}
	}
	return false
}
