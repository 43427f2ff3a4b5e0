package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/pokedex/internal/model"
	"github.com/Makepad-fr/pokedex/internal/sprite"
)

// Capitalize upper-cases the first letter of each dash-separated word.
func Capitalize(name string) string {
	parts := strings.Split(name, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "-")
}

// TypeBadges renders one colored badge per type, in record order.
func TypeBadges(types []string) string {
	badges := make([]string, 0, len(types))
	for _, typ := range types {
		badges = append(badges, lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(TypeColor(typ)).
			Padding(0, 1).
			Render(typ))
	}
	return strings.Join(badges, " ")
}

// RenderRecord paints the primary display. The same record always yields
// the same output. An empty art string draws the placeholder; an empty
// type list skips badges and accent color.
func RenderRecord(rec model.Record, art string, width int) string {
	t := Current()
	if art == "" {
		art = sprite.Placeholder(max(12, width/2))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		t.Title.Render(Capitalize(rec.Name)),
		"  ",
		t.Muted.Render(rec.Number()),
	)
	lines := []string{art, "", header}
	if len(rec.Types) > 0 {
		lines = append(lines, TypeBadges(rec.Types))
	}

	border := t.BorderColor
	if primary := rec.PrimaryType(); primary != "" {
		border = TypeColor(primary)
	}
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(border).
		Padding(0, 2).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}
