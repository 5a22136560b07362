package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/riemann2d/internal/ui"
)

// Style variables for the dashboard, rebuilt from the ui theme by
// initTUIStyles.
var (
	panelStyle         lipgloss.Style
	panelTitleStyle    lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	versionStyle       lipgloss.Style
	elapsedStyle       lipgloss.Style
	problemStyle       lipgloss.Style
	frameIndexStyle    lipgloss.Style
	frameRectStyle     lipgloss.Style
	frameSelectedStyle lipgloss.Style
	progressStyle      lipgloss.Style
	errorDownStyle     lipgloss.Style
	errorUpStyle       lipgloss.Style
	failureStyle       lipgloss.Style
	metricLabelStyle   lipgloss.Style
	metricValueStyle   lipgloss.Style
	heatmapStyle       lipgloss.Style
	chartLineStyle     lipgloss.Style
	chartAxisStyle     lipgloss.Style
	footerKeyStyle     lipgloss.Style
	footerDescStyle    lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusPausedStyle  lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
	memSparklineStyle  lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme. Run calls it
// again after InitTheme has applied --no-color.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Background(t.Bg).
		Foreground(t.Text)

	panelTitleStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Background(t.Bg).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	versionStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	elapsedStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	problemStyle = lipgloss.NewStyle().
		Foreground(t.Info)

	frameIndexStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	frameRectStyle = lipgloss.NewStyle().
		Foreground(t.Info)

	frameSelectedStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	progressStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	errorDownStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	errorUpStyle = lipgloss.NewStyle().
		Foreground(t.Warning)

	failureStyle = lipgloss.NewStyle().
		Foreground(t.Error)

	metricLabelStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	metricValueStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	heatmapStyle = lipgloss.NewStyle().
		Foreground(t.Heat)

	chartLineStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	chartAxisStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	footerKeyStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	footerDescStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	statusRunningStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	statusPausedStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Bold(true)

	statusDoneStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	statusErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	memSparklineStyle = lipgloss.NewStyle().
		Foreground(t.Warning)
}
