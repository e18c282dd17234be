package styles

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ThemeConfig mirrors config.ThemeConfig to avoid circular imports.
type ThemeConfig struct {
	Mode   string
	Colors map[string]string
}

// ApplyTheme applies a theme configuration: forces light/dark mode when
// requested, applies individual color overrides, then rebuilds all Style
// objects.
func ApplyTheme(cfg ThemeConfig) error {
	switch cfg.Mode {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "":
		// Terminal detection
	default:
		return fmt.Errorf("unknown theme mode: %s", cfg.Mode)
	}

	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !isValidHexColor(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		applyColor(token, value)
	}

	rebuildStyles()

	return nil
}

// applyColor assigns one override to its color variable. Overrides use
// the same hex for both light and dark modes.
func applyColor(token ColorToken, hex string) {
	c := lipgloss.AdaptiveColor{Light: hex, Dark: hex}

	switch token {
	case TokenTextPrimary:
		TextPrimaryColor = c
	case TokenTextSecondary:
		TextSecondaryColor = c
	case TokenTextMuted:
		TextMutedColor = c
	case TokenBorderDefault:
		BorderDefaultColor = c
	case TokenBorderFocus:
		BorderFocusColor = c
	case TokenStatusSuccess:
		StatusSuccessColor = c
	case TokenStatusWarning:
		StatusWarningColor = c
	case TokenStatusError:
		StatusErrorColor = c
	case TokenSelectionIndicator:
		SelectionIndicatorColor = c
	case TokenDiffAdded:
		DiffAddedColor = c
	case TokenDiffRemoved:
		DiffRemovedColor = c
	case TokenDiffContext:
		DiffContextColor = c
	case TokenDiffHunk:
		DiffHunkColor = c
	case TokenDiffFilename:
		DiffFilenameColor = c
	case TokenDiffWordAdd:
		DiffWordAddBg = c
	case TokenDiffWordDel:
		DiffWordDelBg = c
	case TokenRefCurrent:
		RefCurrentColor = c
	case TokenRefLocal:
		RefLocalColor = c
	case TokenRefRemote:
		RefRemoteColor = c
	case TokenRefTag:
		RefTagColor = c
	case TokenCrumbActive:
		CrumbActiveColor = c
	case TokenCrumbInactive:
		CrumbInactiveColor = c
	case TokenSpinner:
		SpinnerColor = c
	}
}

func isValidToken(token ColorToken) bool {
	return slices.Contains(AllTokens(), token)
}

// isValidHexColor checks for #RGB or #RRGGBB format.
func isValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	for _, r := range hex {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
