// Package ui holds the color themes shared by the text output and the
// dashboard. Text output reads ANSI sequences through the Color* functions;
// the dashboard builds its lipgloss styles from GetCurrentTUITheme.
package ui
