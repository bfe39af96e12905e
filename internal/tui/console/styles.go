// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     console
// Description: Styles for the command console TUI
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package console

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette of the console
type Theme struct {
	Primary lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Border  lipgloss.Color
}

var (
	// DarkTheme matches a dark terminal background
	DarkTheme = Theme{
		Primary: lipgloss.Color("#8B5CF6"), // Violet
		Success: lipgloss.Color("#10B981"), // Emerald
		Error:   lipgloss.Color("#EF4444"), // Red
		Muted:   lipgloss.Color("#94A3B8"), // Slate 400
		Text:    lipgloss.Color("#F8FAFC"), // Slate 50
		Border:  lipgloss.Color("#374151"), // Dark Gray
	}

	// LightTheme matches a light terminal background
	LightTheme = Theme{
		Primary: lipgloss.Color("#2563EB"), // Blue 600
		Success: lipgloss.Color("#15803D"), // Green 700
		Error:   lipgloss.Color("#B91C1C"), // Red 700
		Muted:   lipgloss.Color("#4B5563"), // Gray 600
		Text:    lipgloss.Color("#111827"), // Gray 900
		Border:  lipgloss.Color("#D1D5DB"), // Gray 300
	}
)

// ThemeByName returns the named theme, dark by default
func ThemeByName(name string) Theme {
	if name == "light" {
		return LightTheme
	}
	return DarkTheme
}

// styles holds the rendered styles of one theme
type styles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	editor   lipgloss.Style
	panel    lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	status   lipgloss.Style
	help     lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
		subtitle: lipgloss.NewStyle().
			Foreground(t.Muted).
			Italic(true),
		editor: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary),
		panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),
		ok:     lipgloss.NewStyle().Foreground(t.Success),
		err:    lipgloss.NewStyle().Foreground(t.Error),
		status: lipgloss.NewStyle().Foreground(t.Text),
		help:   lipgloss.NewStyle().Foreground(t.Muted),
	}
}
