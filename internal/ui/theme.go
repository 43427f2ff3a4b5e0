package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme bundles palette + symbols + separators.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Border                                        lipgloss.Border
	BorderColor, SelectedColor                    lipgloss.TerminalColor
	Arrow, SymOK, SymFail                         string
	ProgressFull, ProgressEmpty                   string
}

var current Theme

func init() { SetTheme("classic") }

// SetTheme switches the palette: classic (default), neon or mono.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("201")),
			Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
			Success: lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("197")).Bold(true),
			Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
			Border:  lipgloss.RoundedBorder(),

			BorderColor:   lipgloss.Color("93"),
			SelectedColor: lipgloss.Color("51"),
			Arrow:         "⇒", SymOK: "✔", SymFail: "✖",
			ProgressFull: "█", ProgressEmpty: "░",
		}
	case "mono":
		lipgloss.SetColorProfile(termenv.Ascii)
		plain := lipgloss.NewStyle()
		current = Theme{
			Title: plain.Bold(true), Muted: plain, Accent: plain,
			Success: plain, Error: plain, Pending: plain,
			Border:      lipgloss.NormalBorder(),
			BorderColor: lipgloss.NoColor{}, SelectedColor: lipgloss.NoColor{},
			Arrow: "->", SymOK: "ok", SymFail: "x",
			ProgressFull: "#", ProgressEmpty: "-",
		}
	default: // classic
		current = Theme{
			Title:   lipgloss.NewStyle().Bold(true),
			Muted:   lipgloss.NewStyle().Faint(true),
			Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			Border:  lipgloss.RoundedBorder(),

			BorderColor:   lipgloss.Color("8"),
			SelectedColor: lipgloss.Color("12"),
			Arrow:         "→", SymOK: "✔", SymFail: "✖",
			ProgressFull: "█", ProgressEmpty: "░",
		}
	}
}

// Expose what renderers need
func Current() Theme { return current }

// typeColors follows the in-game type palette.
var typeColors = map[string]string{
	"grass":    "#22c55e",
	"fire":     "#ef4444",
	"water":    "#3b82f6",
	"bug":      "#84cc16",
	"normal":   "#9ca3af",
	"poison":   "#9333ea",
	"electric": "#facc15",
	"ground":   "#ca8a04",
	"fairy":    "#f472b6",
	"fighting": "#c2410c",
	"psychic":  "#db2777",
	"rock":     "#a16207",
	"ghost":    "#4338ca",
	"ice":      "#67e8f9",
	"dragon":   "#6366f1",
	"dark":     "#1f2937",
	"steel":    "#6b7280",
	"flying":   "#38bdf8",
}

const unknownTypeColor = "#6b7280"

// TypeColor is the accent for a type name; unknown types get gray.
func TypeColor(typ string) lipgloss.Color {
	if c, ok := typeColors[strings.ToLower(typ)]; ok {
		return lipgloss.Color(c)
	}
	return lipgloss.Color(unknownTypeColor)
}
