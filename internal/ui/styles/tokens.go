// Package styles contains Lip Gloss style definitions.
package styles

// ColorToken represents a named, themeable color.
type ColorToken string

// Color tokens organized by category.
// These are the keys users can override in their config.
const (
	// Text hierarchy
	TokenTextPrimary   ColorToken = "text.primary"
	TokenTextSecondary ColorToken = "text.secondary"
	TokenTextMuted     ColorToken = "text.muted"

	// Borders
	TokenBorderDefault ColorToken = "border.default"
	TokenBorderFocus   ColorToken = "border.focus"

	// Status indicators
	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"

	// Selection
	TokenSelectionIndicator ColorToken = "selection.indicator"

	// Diff rendering
	TokenDiffAdded    ColorToken = "diff.added"
	TokenDiffRemoved  ColorToken = "diff.removed"
	TokenDiffContext  ColorToken = "diff.context"
	TokenDiffHunk     ColorToken = "diff.hunk"
	TokenDiffFilename ColorToken = "diff.filename"
	TokenDiffWordAdd  ColorToken = "diff.word.added"
	TokenDiffWordDel  ColorToken = "diff.word.removed"

	// Refs
	TokenRefCurrent ColorToken = "ref.current"
	TokenRefLocal   ColorToken = "ref.local"
	TokenRefRemote  ColorToken = "ref.remote"
	TokenRefTag     ColorToken = "ref.tag"

	// Breadcrumb
	TokenCrumbActive   ColorToken = "crumb.active"
	TokenCrumbInactive ColorToken = "crumb.inactive"

	// Misc
	TokenSpinner ColorToken = "spinner"
)

// AllTokens returns all valid color tokens for validation.
func AllTokens() []ColorToken {
	return []ColorToken{
		TokenTextPrimary,
		TokenTextSecondary,
		TokenTextMuted,

		TokenBorderDefault,
		TokenBorderFocus,

		TokenStatusSuccess,
		TokenStatusWarning,
		TokenStatusError,

		TokenSelectionIndicator,

		TokenDiffAdded,
		TokenDiffRemoved,
		TokenDiffContext,
		TokenDiffHunk,
		TokenDiffFilename,
		TokenDiffWordAdd,
		TokenDiffWordDel,

		TokenRefCurrent,
		TokenRefLocal,
		TokenRefRemote,
		TokenRefTag,

		TokenCrumbActive,
		TokenCrumbInactive,

		TokenSpinner,
	}
}
