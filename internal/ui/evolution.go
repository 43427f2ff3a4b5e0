package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/pokedex/internal/sprite"
)

const (
	NoEvolutionsText = "No further evolutions"
	UnavailableText  = "Evolution data unavailable"
)

// Node is one painted stage of the evolution row.
type Node struct {
	Index int
	Name  string
	ID    int
	Art   string
}

type rowMode int

const (
	rowHidden rowMode = iota
	rowLoading
	rowNone
	rowUnavailable
)

// EvolutionRow accumulates nodes in chain order as their data arrives.
// Failed nodes are skipped without stopping later ones.
type EvolutionRow struct {
	mode     rowMode
	names    []string
	nodes    []Node
	resolved int
	selected int
}

// Clear hides the row (a new cycle is loading).
func (r *EvolutionRow) Clear() { *r = EvolutionRow{} }

// Reset prepares the row for names. A chain of one or none shows the
// "no further evolutions" placeholder right away.
func (r *EvolutionRow) Reset(names []string) {
	*r = EvolutionRow{mode: rowLoading, names: append([]string(nil), names...)}
	if len(names) <= 1 {
		r.mode = rowNone
	}
}

// SetNone shows the "no further evolutions" placeholder.
func (r *EvolutionRow) SetNone() { *r = EvolutionRow{mode: rowNone} }

// SetUnavailable shows that evolution data could not be loaded.
func (r *EvolutionRow) SetUnavailable() { *r = EvolutionRow{mode: rowUnavailable} }

// Names are the species the row was reset with.
func (r *EvolutionRow) Names() []string { return r.names }

// Next is the index of the next name to fetch; ok is false when done.
func (r *EvolutionRow) Next() (int, string, bool) {
	if r.mode != rowLoading || r.resolved >= len(r.names) {
		return 0, "", false
	}
	return r.resolved, r.names[r.resolved], true
}

// Append adds a resolved node. Out-of-sequence indexes are ignored.
func (r *EvolutionRow) Append(n Node) bool {
	if r.mode != rowLoading || n.Index != r.resolved {
		return false
	}
	r.nodes = append(r.nodes, n)
	r.resolved++
	return true
}

// Skip marks index as failed.
func (r *EvolutionRow) Skip(index int) bool {
	if r.mode != rowLoading || index != r.resolved {
		return false
	}
	r.resolved++
	return true
}

// Pending reports whether names are still waiting for data.
func (r *EvolutionRow) Pending() bool { return r.mode == rowLoading && r.resolved < len(r.names) }

// Nodes returns the painted nodes.
func (r *EvolutionRow) Nodes() []Node { return r.nodes }

// Select moves the selection by delta, wrapping around.
func (r *EvolutionRow) Select(delta int) {
	if len(r.nodes) == 0 {
		return
	}
	r.selected = ((r.selected+delta)%len(r.nodes) + len(r.nodes)) % len(r.nodes)
}

// Selected returns the highlighted node.
func (r *EvolutionRow) Selected() (Node, bool) {
	if len(r.nodes) == 0 || r.selected >= len(r.nodes) {
		return Node{}, false
	}
	return r.nodes[r.selected], true
}

// View paints the row: nodes joined by arrows, or a placeholder line.
func (r *EvolutionRow) View(stageWidth int) string {
	t := Current()
	switch r.mode {
	case rowHidden:
		return ""
	case rowNone:
		return t.Muted.Render(NoEvolutionsText)
	case rowUnavailable:
		return t.Muted.Render(UnavailableText)
	}

	if len(r.nodes) == 0 && !r.Pending() {
		return t.Muted.Render(UnavailableText)
	}

	parts := make([]string, 0, len(r.nodes)*2)
	for i, n := range r.nodes {
		if i > 0 {
			parts = append(parts, t.Muted.Render(" "+t.Arrow+" "))
		}
		parts = append(parts, r.node(n, i == r.selected, stageWidth))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, parts...)
	if r.Pending() {
		progress := t.Pending.Render(ProgressBar(r.resolved, len(r.names), 12))
		if row == "" {
			return progress
		}
		return lipgloss.JoinVertical(lipgloss.Left, row, progress)
	}
	return row
}

func (r *EvolutionRow) node(n Node, selected bool, width int) string {
	t := Current()
	art := n.Art
	if art == "" {
		art = sprite.Placeholder(max(6, width/2))
	}
	label := Capitalize(n.Name)
	color := t.BorderColor
	if selected {
		color = t.SelectedColor
		label = t.Accent.Render(label)
	}
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(color).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Center, strings.TrimRight(art, "\n"), label))
}
