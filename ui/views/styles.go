// Package views renders API data as terminal text: tables, stat cards and markdown.
package views

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	Primary     = lipgloss.Color("#1565C0")
	Accent      = lipgloss.Color("#8BC34A")
	Muted       = lipgloss.Color("#78909C")
	Border      = lipgloss.Color("#B0BEC5")
	Destructive = lipgloss.Color("#E53935")
	Warning     = lipgloss.Color("#FFC107")
)

// Styles holds the styled components shared by every view.
type Styles struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Muted     lipgloss.Style
	Bold      lipgloss.Style
	Header    lipgloss.Style
	Cell      lipgloss.Style
	Card      lipgloss.Style
	Label     lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
}

func DefaultStyles() Styles {
	tabBorder := lipgloss.RoundedBorder()
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true),
		Subtitle: lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true),
		Muted: lipgloss.NewStyle().Foreground(Muted),
		Bold:  lipgloss.NewStyle().Bold(true),
		Header: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Padding(0, 1),
		Cell: lipgloss.NewStyle().Padding(0, 1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1),
		Label: lipgloss.NewStyle().
			Foreground(Muted).
			Width(24),
		Success: lipgloss.NewStyle().Foreground(Accent).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(Destructive).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(Warning),
		Tab: lipgloss.NewStyle().
			Border(tabBorder, true, true, false, true).
			BorderForeground(Border).
			Foreground(Muted).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Border(tabBorder, true, true, false, true).
			BorderForeground(Primary).
			Foreground(Primary).
			Bold(true).
			Padding(0, 1),
		User: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true),
		Assistant: lipgloss.NewStyle().
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(Accent),
	}
}

var styles = DefaultStyles()
