package views

// ThemeCookieName is the cookie that carries the theme for a browser session.
const ThemeCookieName = "theme"

const (
	themeDark  = "dark"
	themeLight = "light"
)

// Theme is the dashboard color scheme. It is resolved per request and passed
// down into every view model; nothing reads it from package state.
type Theme struct {
	Dark bool
}

// ParseTheme resolves a cookie value. Anything other than "dark" or "light"
// falls back to the configured default.
func ParseTheme(value string, fallback Theme) Theme {
	switch value {
	case themeDark:
		return Theme{Dark: true}
	case themeLight:
		return Theme{Dark: false}
	default:
		return fallback
	}
}

// Toggled returns the opposite theme.
func (t Theme) Toggled() Theme {
	return Theme{Dark: !t.Dark}
}

// String returns the cookie value.
func (t Theme) String() string {
	if t.Dark {
		return themeDark
	}
	return themeLight
}

// ToggleLabel is the caption of the button that switches away from t.
func (t Theme) ToggleLabel() string {
	if t.Dark {
		return "☀️ Light Mode"
	}
	return "🌙 Dark Mode"
}
