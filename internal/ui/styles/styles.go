package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#CCCCCC"} // Main/primary text
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"} // Hashes, secondary info
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, help text, footers

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Unfocused borders
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#54A0FF"} // Focused pane borders

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"} // Success states
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"} // Warnings
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"} // Errors

	// Selection indicator color (used for ">" prefix in lists)
	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}

	// Diff colors
	DiffAddedColor    = lipgloss.AdaptiveColor{Light: "#22863A", Dark: "#73F59F"}
	DiffRemovedColor  = lipgloss.AdaptiveColor{Light: "#B31D28", Dark: "#FF8787"}
	DiffContextColor  = lipgloss.AdaptiveColor{Light: "#444444", Dark: "#AAAAAA"}
	DiffHunkColor     = lipgloss.AdaptiveColor{Light: "#6F42C1", Dark: "#CBA6F7"}
	DiffFilenameColor = lipgloss.AdaptiveColor{Light: "#005CC5", Dark: "#89B4FA"}
	DiffWordAddBg     = lipgloss.AdaptiveColor{Light: "#ACF2BD", Dark: "#1C4428"}
	DiffWordDelBg     = lipgloss.AdaptiveColor{Light: "#FDB8C0", Dark: "#542426"}

	// Ref colors
	RefCurrentColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	RefLocalColor   = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#CCCCCC"}
	RefRemoteColor  = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"}
	RefTagColor     = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"}

	// Breadcrumb colors
	CrumbActiveColor   = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}
	CrumbInactiveColor = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"}

	// Spinner
	SpinnerColor = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"}
)

// Style objects built from the colors above. Rebuilt by ApplyTheme when
// the user overrides colors.
var (
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	SecondaryStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	MutedStyle     = lipgloss.NewStyle().Foreground(TextMutedColor)

	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)
	SelectedRowStyle        = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)

	StatusSuccessStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	StatusWarningStyle = lipgloss.NewStyle().Foreground(StatusWarningColor)
	StatusErrorStyle   = lipgloss.NewStyle().Foreground(StatusErrorColor)

	DiffAddedStyle    = lipgloss.NewStyle().Foreground(DiffAddedColor)
	DiffRemovedStyle  = lipgloss.NewStyle().Foreground(DiffRemovedColor)
	DiffContextStyle  = lipgloss.NewStyle().Foreground(DiffContextColor)
	DiffHunkStyle     = lipgloss.NewStyle().Bold(true).Foreground(DiffHunkColor)
	DiffFilenameStyle = lipgloss.NewStyle().Bold(true).Foreground(DiffFilenameColor)
	DiffWordAddStyle  = lipgloss.NewStyle().Foreground(DiffAddedColor).Background(DiffWordAddBg)
	DiffWordDelStyle  = lipgloss.NewStyle().Foreground(DiffRemovedColor).Background(DiffWordDelBg)

	RefCurrentStyle = lipgloss.NewStyle().Bold(true).Foreground(RefCurrentColor)
	RefLocalStyle   = lipgloss.NewStyle().Foreground(RefLocalColor)
	RefRemoteStyle  = lipgloss.NewStyle().Foreground(RefRemoteColor)
	RefTagStyle     = lipgloss.NewStyle().Foreground(RefTagColor)

	CrumbActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(CrumbActiveColor)
	CrumbInactiveStyle = lipgloss.NewStyle().Foreground(CrumbInactiveColor)

	SpinnerStyle = lipgloss.NewStyle().Foreground(SpinnerColor)

	HelpStyle      = lipgloss.NewStyle().Foreground(TextMutedColor)
	StatusBarStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
)

// rebuildStyles refreshes Style objects after color variables change.
func rebuildStyles() {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	SecondaryStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)

	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)
	SelectedRowStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)

	StatusSuccessStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	StatusWarningStyle = lipgloss.NewStyle().Foreground(StatusWarningColor)
	StatusErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)

	DiffAddedStyle = lipgloss.NewStyle().Foreground(DiffAddedColor)
	DiffRemovedStyle = lipgloss.NewStyle().Foreground(DiffRemovedColor)
	DiffContextStyle = lipgloss.NewStyle().Foreground(DiffContextColor)
	DiffHunkStyle = lipgloss.NewStyle().Bold(true).Foreground(DiffHunkColor)
	DiffFilenameStyle = lipgloss.NewStyle().Bold(true).Foreground(DiffFilenameColor)
	DiffWordAddStyle = lipgloss.NewStyle().Foreground(DiffAddedColor).Background(DiffWordAddBg)
	DiffWordDelStyle = lipgloss.NewStyle().Foreground(DiffRemovedColor).Background(DiffWordDelBg)

	RefCurrentStyle = lipgloss.NewStyle().Bold(true).Foreground(RefCurrentColor)
	RefLocalStyle = lipgloss.NewStyle().Foreground(RefLocalColor)
	RefRemoteStyle = lipgloss.NewStyle().Foreground(RefRemoteColor)
	RefTagStyle = lipgloss.NewStyle().Foreground(RefTagColor)

	CrumbActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(CrumbActiveColor)
	CrumbInactiveStyle = lipgloss.NewStyle().Foreground(CrumbInactiveColor)

	SpinnerStyle = lipgloss.NewStyle().Foreground(SpinnerColor)

	HelpStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	StatusBarStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
}
