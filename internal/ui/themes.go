package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps semantic roles to ANSI escape sequences for plain CLI output.
type Theme struct {
	// Name identifies the theme for SetTheme.
	Name string
	// Accent highlights results and headings.
	Accent string
	// Muted is used for labels and secondary text.
	Muted string
	// Success marks verified results.
	Success string
	// Warning marks load imbalance and slow workers.
	Warning string
	// Error marks failures and mismatches.
	Error string
	// Bold is the bold attribute.
	Bold string
	// Reset clears all attributes.
	Reset string
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:    "dark",
		Accent:  "\033[38;5;208m", // orange
		Muted:   "\033[38;5;245m", // grey
		Success: "\033[38;5;82m",  // green
		Warning: "\033[38;5;220m", // yellow
		Error:   "\033[38;5;196m", // red
		Bold:    "\033[1m",
		Reset:   "\033[0m",
	}

	// LightTheme suits light terminal backgrounds.
	LightTheme = Theme{
		Name:    "light",
		Accent:  "\033[38;5;130m", // dark orange
		Muted:   "\033[38;5;240m", // dark grey
		Success: "\033[38;5;28m",  // dark green
		Warning: "\033[38;5;136m", // ochre
		Error:   "\033[38;5;124m", // dark red
		Bold:    "\033[1m",
		Reset:   "\033[0m",
	}

	// NoColorTheme emits no escape sequences at all.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// TUITheme holds lipgloss colors for the dashboard.
type TUITheme struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	// Worker bar fill and empty track.
	BarFill  lipgloss.TerminalColor
	BarTrack lipgloss.TerminalColor
}

var (
	// DarkTUITheme is the default dashboard palette.
	DarkTUITheme = TUITheme{
		Text:     lipgloss.Color("#E0E0E0"),
		Border:   lipgloss.Color("#FF6600"),
		Accent:   lipgloss.Color("#FF8C00"),
		Success:  lipgloss.Color("#9ECE6A"),
		Warning:  lipgloss.Color("#FFB347"),
		Error:    lipgloss.Color("#FF4444"),
		Dim:      lipgloss.Color("#666666"),
		BarFill:  lipgloss.Color("#FF8C00"),
		BarTrack: lipgloss.Color("#333333"),
	}

	// NoColorTUITheme renders with the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Text:     lipgloss.NoColor{},
		Border:   lipgloss.NoColor{},
		Accent:   lipgloss.NoColor{},
		Success:  lipgloss.NoColor{},
		Warning:  lipgloss.NoColor{},
		Error:    lipgloss.NoColor{},
		Dim:      lipgloss.NoColor{},
		BarFill:  lipgloss.NoColor{},
		BarTrack: lipgloss.NoColor{},
	}
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// GetCurrentTUITheme returns the dashboard palette matching the active theme.
func GetCurrentTUITheme() TUITheme {
	if GetCurrentTheme().Name == NoColorTheme.Name {
		return NoColorTUITheme
	}
	return DarkTUITheme
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme activates a theme by name ("dark", "light", "none"). Unknown
// names select the dark theme.
func SetTheme(name string) {
	switch name {
	case LightTheme.Name:
		SetCurrentTheme(LightTheme)
	case NoColorTheme.Name:
		SetCurrentTheme(NoColorTheme)
	default:
		SetCurrentTheme(DarkTheme)
	}
}

// InitTheme selects NoColorTheme when noColor is set or NO_COLOR is present
// in the environment (https://no-color.org/), and DarkTheme otherwise.
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}

// Paint wraps s in the given escape sequence and a reset. Empty sequences
// return s unchanged.
func Paint(code, s string) string {
	if code == "" {
		return s
	}
	return code + s + GetCurrentTheme().Reset
}

// Colors adapts the active theme to apperrors.ColorProvider.
type Colors struct{}

// Red returns the error color.
func (Colors) Red() string { return GetCurrentTheme().Error }

// Yellow returns the warning color.
func (Colors) Yellow() string { return GetCurrentTheme().Warning }

// Green returns the success color.
func (Colors) Green() string { return GetCurrentTheme().Success }

// Reset returns the reset sequence.
func (Colors) Reset() string { return GetCurrentTheme().Reset }
