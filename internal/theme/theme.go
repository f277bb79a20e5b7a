// Package theme holds the light/dark display mode.
package theme

import "strings"

// Theme is the current display mode. The zero value is light.
type Theme struct {
	Dark bool
}

const (
	// DarkClass is the root element class applied in dark mode.
	DarkClass = "dark-mode"

	// LightIcon is shown on the toggle while in light mode.
	LightIcon = "🌙"
	// DarkIcon is shown on the toggle while in dark mode.
	DarkIcon = "☀️"
)

// Parse reads "dark" or "light". Anything else is light.
func Parse(s string) Theme {
	return Theme{Dark: strings.EqualFold(strings.TrimSpace(s), "dark")}
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	return Theme{Dark: !t.Dark}
}

// Name returns "dark" or "light".
func (t Theme) Name() string {
	if t.Dark {
		return "dark"
	}
	return "light"
}

// Class returns the root class list for the theme.
func (t Theme) Class() string {
	if t.Dark {
		return DarkClass
	}
	return ""
}

// Icon returns the toggle control's label.
func (t Theme) Icon() string {
	if t.Dark {
		return DarkIcon
	}
	return LightIcon
}
