package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/pokedex/internal/model"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	SetTheme("classic")
	m.Run()
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Bulbasaur", Capitalize("bulbasaur"))
	assert.Equal(t, "Mr-Mime", Capitalize("mr-mime"))
	assert.Equal(t, "", Capitalize(""))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░ 1/2", ProgressBar(1, 2, 10))
	assert.Equal(t, "░░░░░ 0/0", ProgressBar(0, 0, 1))
}

func TestTypeColor(t *testing.T) {
	assert.Equal(t, lipgloss.Color("#22c55e"), TypeColor("Grass"))
	assert.Equal(t, lipgloss.Color(unknownTypeColor), TypeColor("shadow"))
}

func TestRenderRecord(t *testing.T) {
	rec := model.Record{ID: 1, Name: "bulbasaur", Types: []string{"grass", "poison"}}

	out := RenderRecord(rec, "ART", 40)
	assert.Contains(t, out, "Bulbasaur")
	assert.Contains(t, out, "#001")
	assert.Contains(t, out, "ART")
	assert.Less(t, strings.Index(out, "grass"), strings.Index(out, "poison"), "types keep record order")
	assert.Equal(t, out, RenderRecord(rec, "ART", 40), "rendering is idempotent")
}

func TestRenderRecord_Degrades(t *testing.T) {
	rec := model.Record{ID: 150, Name: "mewtwo", ArtworkURL: model.PlaceholderSprite}

	out := RenderRecord(rec, "", 40)
	assert.Contains(t, out, "?", "placeholder art")
	assert.Contains(t, out, "Mewtwo")
}

func TestEvolutionRow_SingleNodeShowsPlaceholder(t *testing.T) {
	var row EvolutionRow
	row.Reset([]string{"ditto"})

	assert.False(t, row.Pending())
	_, _, ok := row.Next()
	assert.False(t, ok, "nothing to fetch")
	assert.Equal(t, NoEvolutionsText, row.View(20))
}

func TestEvolutionRow_NoneAndUnavailable(t *testing.T) {
	var row EvolutionRow
	assert.Empty(t, row.View(20), "hidden while loading")

	row.SetNone()
	assert.Equal(t, NoEvolutionsText, row.View(20))
	row.SetUnavailable()
	assert.Equal(t, UnavailableText, row.View(20))
}

func TestEvolutionRow_AppendsInOrderAndSkipsFailures(t *testing.T) {
	var row EvolutionRow
	row.Reset([]string{"bulbasaur", "ivysaur", "venusaur"})

	idx, name, ok := row.Next()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "bulbasaur", name)

	assert.False(t, row.Append(Node{Index: 2, Name: "venusaur"}), "out of sequence")
	require.True(t, row.Append(Node{Index: 0, Name: "bulbasaur", Art: "B"}))
	assert.Contains(t, row.View(20), "1/3")

	require.True(t, row.Skip(1))
	require.True(t, row.Append(Node{Index: 2, Name: "venusaur", Art: "V"}))
	assert.False(t, row.Pending())

	view := row.View(20)
	assert.Contains(t, view, "Bulbasaur")
	assert.Contains(t, view, "Venusaur")
	assert.NotContains(t, view, "Ivysaur")
	assert.Equal(t, 1, strings.Count(view, Current().Arrow), "one separator between two nodes")
	assert.Less(t, strings.Index(view, "Bulbasaur"), strings.Index(view, "Venusaur"))
}

func TestEvolutionRow_AllFailed(t *testing.T) {
	var row EvolutionRow
	row.Reset([]string{"a", "b"})
	row.Skip(0)
	row.Skip(1)
	assert.Equal(t, UnavailableText, row.View(20))
}

func TestEvolutionRow_Selection(t *testing.T) {
	var row EvolutionRow
	_, ok := row.Selected()
	assert.False(t, ok)

	row.Reset([]string{"eevee", "vaporeon"})
	row.Append(Node{Index: 0, Name: "eevee"})
	row.Append(Node{Index: 1, Name: "vaporeon"})

	n, ok := row.Selected()
	require.True(t, ok)
	assert.Equal(t, "eevee", n.Name)

	row.Select(1)
	n, _ = row.Selected()
	assert.Equal(t, "vaporeon", n.Name)
	row.Select(1)
	n, _ = row.Selected()
	assert.Equal(t, "eevee", n.Name, "wraps forward")
	row.Select(-1)
	n, _ = row.Selected()
	assert.Equal(t, "vaporeon", n.Name, "wraps backward")
}

func TestPanelString(t *testing.T) {
	out := PanelString([]string{"one", "two"})
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "two")
	assert.Contains(t, out, "╭")
}

func TestOKAndFail(t *testing.T) {
	var buf bytes.Buffer
	OK(&buf, "saved")
	Fail(&buf, "broken")
	assert.Equal(t, "✔ saved\n✖ broken\n", buf.String())
}

func TestSetTheme_Mono(t *testing.T) {
	t.Cleanup(func() { SetTheme("classic") })
	SetTheme("mono")
	assert.Equal(t, "->", Current().Arrow)
	assert.Equal(t, "###--- 3/6", ProgressBar(3, 6, 6))
}
