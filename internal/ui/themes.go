package ui

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ThemeEnv selects a color scheme by name when --no-color and NO_COLOR are
// both absent.
const ThemeEnv = "RIEMANN_THEME"

// Theme holds the ANSI sequences the text output uses for each color role.
// An empty field prints nothing, which is how NoColorTheme disables color.
type Theme struct {
	Name string
	// Primary marks frame indices and table keys.
	Primary string
	// Secondary marks values such as the reference and output paths.
	Secondary string
	// Success marks a shrinking error and completed runs.
	Success string
	// Warning marks a growing error and timeouts.
	Warning string
	// Error marks failures.
	Error string
	// Info marks the integrand, the domain and the observed order.
	Info      string
	Bold      string
	Underline string
	Reset     string
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",  // Bright blue
		Secondary: "\033[38;5;44m",  // Teal
		Success:   "\033[38;5;82m",  // Bright green
		Warning:   "\033[38;5;220m", // Yellow
		Error:     "\033[38;5;196m", // Red
		Info:      "\033[38;5;177m", // Orchid
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// LightTheme uses darker tones that stay readable on white.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;25m",  // Navy
		Secondary: "\033[38;5;30m",  // Dark teal
		Success:   "\033[38;5;28m",  // Dark green
		Warning:   "\033[38;5;130m", // Brown
		Error:     "\033[38;5;124m", // Dark red
		Info:      "\033[38;5;90m",  // Plum
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// NoColorTheme keeps bold and underline off too, so output is plain
	// text.
	NoColorTheme = Theme{Name: "none"}

	themes = map[string]Theme{
		DarkTheme.Name:    DarkTheme,
		LightTheme.Name:   LightTheme,
		NoColorTheme.Name: NoColorTheme,
	}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// TUITheme holds the lipgloss colors of the dashboard.
type TUITheme struct {
	Bg      lipgloss.TerminalColor
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
	// Heat colors the sampled-surface heatmap.
	Heat lipgloss.TerminalColor
}

var (
	// DarkTUITheme is the dashboard palette for dark terminals.
	DarkTUITheme = TUITheme{
		Bg:      lipgloss.Color("#000000"),
		Text:    lipgloss.Color("#E0E0E0"),
		Border:  lipgloss.Color("#3A7BD5"),
		Accent:  lipgloss.Color("#00D2FF"),
		Success: lipgloss.Color("#9ECE6A"),
		Warning: lipgloss.Color("#FFB347"),
		Error:   lipgloss.Color("#FF4444"),
		Dim:     lipgloss.Color("#666666"),
		Info:    lipgloss.Color("#C792EA"),
		Heat:    lipgloss.Color("#FF8C00"),
	}

	// LightTUITheme is the dashboard palette for light terminals.
	LightTUITheme = TUITheme{
		Bg:      lipgloss.Color("#FFFFFF"),
		Text:    lipgloss.Color("#202020"),
		Border:  lipgloss.Color("#1F4E9C"),
		Accent:  lipgloss.Color("#005F87"),
		Success: lipgloss.Color("#2E7D32"),
		Warning: lipgloss.Color("#B35C00"),
		Error:   lipgloss.Color("#B00020"),
		Dim:     lipgloss.Color("#8A8A8A"),
		Info:    lipgloss.Color("#6A1B9A"),
		Heat:    lipgloss.Color("#C43E00"),
	}

	// NoColorTUITheme renders with the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Bg:      lipgloss.NoColor{},
		Text:    lipgloss.NoColor{},
		Border:  lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
		Info:    lipgloss.NoColor{},
		Heat:    lipgloss.NoColor{},
	}
)

// ThemeNames returns the accepted theme names in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GetCurrentTUITheme returns the dashboard palette paired with the active
// text theme.
func GetCurrentTUITheme() TUITheme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()

	switch currentTheme.Name {
	case NoColorTheme.Name:
		return NoColorTUITheme
	case LightTheme.Name:
		return LightTUITheme
	default:
		return DarkTUITheme
	}
}

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme installs t, mainly so tests can restore the previous
// theme.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme activates the theme registered under name. An unknown name
// leaves the active theme unchanged and returns an error.
func SetTheme(name string) error {
	t, ok := themes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ThemeNames(), ", "))
	}
	SetCurrentTheme(t)
	return nil
}

// InitTheme picks the theme of a run. noColor and a set NO_COLOR variable
// (https://no-color.org/) disable colors; otherwise RIEMANN_THEME may name
// a theme, and an unknown or empty value falls back to DarkTheme.
func InitTheme(noColor bool) {
	if _, exists := os.LookupEnv("NO_COLOR"); noColor || exists {
		SetCurrentTheme(NoColorTheme)
		return
	}
	if err := SetTheme(os.Getenv(ThemeEnv)); err != nil {
		SetCurrentTheme(DarkTheme)
	}
}
