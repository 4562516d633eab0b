package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tabs are the sections of the dashboard, in display order.
var Tabs = []string{"Alumnos", "Cursos", "Competencias", "Inteligencias", "CI", "Profesores", "Tutor", "Clustering"}

// TabBar renders Tabs with the active one highlighted.
func TabBar(active int) string {
	rendered := make([]string, 0, len(Tabs))
	for i, t := range Tabs {
		if i == active {
			rendered = append(rendered, styles.ActiveTab.Render(t))
		} else {
			rendered = append(rendered, styles.Tab.Render(t))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, rendered...)
}

// Help is the key legend shown under the dashboard.
func Help(keys ...string) string {
	return styles.Muted.Render(strings.Join(keys, " • "))
}
