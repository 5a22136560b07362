package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders the key help and the run status.
type FooterModel struct {
	keys   KeyMap
	paused bool
	done   bool
	failed bool
	width  int
}

// NewFooterModel creates a new footer.
func NewFooterModel(keys KeyMap) FooterModel {
	return FooterModel{keys: keys}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) { f.width = w }

// SetPaused toggles the paused indicator.
func (f *FooterModel) SetPaused(paused bool) { f.paused = paused }

// SetDone marks the run as finished.
func (f *FooterModel) SetDone(done bool) { f.done = done }

// SetError marks the run as failed.
func (f *FooterModel) SetError(failed bool) { f.failed = failed }

// Status returns the plain status label.
func (f FooterModel) Status() string {
	switch {
	case f.failed:
		return "FAILED"
	case f.paused:
		return "PAUSED"
	case f.done:
		return "DONE"
	default:
		return "PLAYING"
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	var help []string
	for _, b := range f.keys.ShortHelp() {
		h := b.Help()
		help = append(help, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	left := " " + strings.Join(help, "  ")

	var status string
	switch f.Status() {
	case "FAILED":
		status = statusErrorStyle.Render("FAILED")
	case "PAUSED":
		status = statusPausedStyle.Render("PAUSED")
	case "DONE":
		status = statusDoneStyle.Render("DONE")
	default:
		status = statusRunningStyle.Render("PLAYING")
	}

	gap := f.width - lipgloss.Width(left) - lipgloss.Width(status) - 1
	return left + spaces(gap) + status + " "
}
