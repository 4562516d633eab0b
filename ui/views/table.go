package views

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const emptyText = "Sin registros"

// Table renders rows under headers; an empty table renders as a muted notice.
func Table(title string, headers []string, rows [][]string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(styles.Title.Render(title))
		sb.WriteString("\n")
	}
	if len(rows) == 0 {
		sb.WriteString(styles.Muted.Render(emptyText))
		sb.WriteString("\n")
		return sb.String()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Border)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.Header
			}
			return styles.Cell
		}).
		Headers(headers...).
		Rows(rows...)
	sb.WriteString(t.String())
	sb.WriteString("\n")
	return sb.String()
}

// card renders label/value pairs inside a bordered box.
func card(title string, pairs ...[2]string) string {
	lines := make([]string, 0, len(pairs)+1)
	if title != "" {
		lines = append(lines, styles.Title.Render(title))
	}
	for _, p := range pairs {
		lines = append(lines, styles.Label.Render(p[0])+p[1])
	}
	return styles.Card.Render(strings.Join(lines, "\n")) + "\n"
}

func itoa(i int) string { return strconv.Itoa(i) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }

func intPtr(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}

func floatPtr(p *float64) string {
	if p == nil {
		return "-"
	}
	return ftoa(*p)
}

func strPtr(p *string) string {
	if p == nil || *p == "" {
		return "-"
	}
	return *p
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate cuts s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func bullets(items []string) string {
	if len(items) == 0 {
		return styles.Muted.Render("-")
	}
	var sb strings.Builder
	for _, it := range items {
		fmt.Fprintf(&sb, "• %s\n", it)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
