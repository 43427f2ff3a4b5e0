package tui

import (
	"net/http"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/pokedex/internal/config"
	"github.com/Makepad-fr/pokedex/internal/lookup"
	"github.com/Makepad-fr/pokedex/internal/nav"
	"github.com/Makepad-fr/pokedex/internal/pokeapi"
	"github.com/Makepad-fr/pokedex/internal/pokeapi/pokeapitest"
	"github.com/Makepad-fr/pokedex/internal/ui"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func newModel(t *testing.T, start string) (Model, *pokeapitest.Server) {
	t.Helper()
	srv := pokeapitest.NewServer(t)
	cfg := config.DefaultConfig().API
	cfg.BaseURL = srv.BaseURL()
	cfg.Breaker.Enabled = false
	gw := pokeapi.New(cfg, pokeapi.WithHTTPClient(srv.Client()))
	orch := lookup.New(gw, nav.New(pokeapitest.MaxID))
	return New(orch, Options{Start: start, SpriteWidth: 16, StageWidth: 12}), srv
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	next, cmd := m.Update(k)
	return next.(Model), cmd
}

func feed(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// drain feeds command results back into Update until nothing is left.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		require.Less(t, i, 20, "command chain does not terminate")
		next, c := m.Update(cmd())
		m, cmd = next.(Model), c
	}
	return m
}

func search(t *testing.T, m Model, q string) (Model, tea.Cmd) {
	t.Helper()
	m, _ = press(m, runes("/"))
	require.True(t, m.searching)
	m, _ = press(m, runes(q))
	return press(m, tea.KeyMsg{Type: tea.KeyEnter})
}

func nodeNames(m Model) []string {
	var out []string
	for _, n := range m.row.Nodes() {
		out = append(out, n.Name)
	}
	return out
}

func TestInit_LoadsStartTarget(t *testing.T) {
	m, _ := newModel(t, "1")
	batch, ok := m.Init()().(tea.BatchMsg)
	require.True(t, ok)
	assert.Equal(t, lookup.Loading, m.orch.State())

	var loaded tea.Msg
	for _, c := range batch {
		if msg, ok := c().(recordLoadedMsg); ok {
			loaded = msg
		}
	}
	require.NotNil(t, loaded)
	next, cmd := m.Update(loaded)
	m = drain(t, next.(Model), cmd)
	assert.Equal(t, "bulbasaur", m.orch.Current().Name)
}

func TestInit_EmptyStartIsIdle(t *testing.T) {
	m, _ := newModel(t, "")
	require.NotNil(t, m.Init())
	assert.Equal(t, lookup.Idle, m.orch.State())
	assert.Contains(t, m.View(), "Press / to search")
}

func TestSearch_RendersRecordAndEvolutionRow(t *testing.T) {
	m, _ := newModel(t, "")
	m, cmd := search(t, m, "Bulbasaur")
	require.NotNil(t, cmd)
	assert.False(t, m.searching)
	assert.Contains(t, m.View(), "Loading")

	m = drain(t, m, cmd)
	assert.Equal(t, lookup.Displayed, m.orch.State())
	assert.Equal(t, 1, m.orch.Navigator().Cursor())
	assert.Equal(t, []string{"bulbasaur", "ivysaur", "venusaur"}, nodeNames(m))

	view := m.View()
	for _, want := range []string{"Bulbasaur", "#001", "Ivysaur", "Venusaur", "Evolutions"} {
		assert.Contains(t, view, want)
	}
}

func TestStageFetches_OneAtATime(t *testing.T) {
	m, srv := newModel(t, "")
	m, cmd := search(t, m, "bulbasaur")

	m, cmd = feed(m, cmd())
	require.NotNil(t, cmd)
	assert.Zero(t, srv.Hits("/api/v2/pokemon/ivysaur"))

	m, cmd = feed(m, cmd()) // bulbasaur node
	require.NotNil(t, cmd)
	assert.Zero(t, srv.Hits("/api/v2/pokemon/ivysaur"))
	assert.Len(t, m.row.Nodes(), 1)
	assert.Contains(t, m.View(), "1/3")

	m, cmd = feed(m, cmd()) // ivysaur node
	require.NotNil(t, cmd)
	assert.Equal(t, 1, srv.Hits("/api/v2/pokemon/ivysaur"))
	assert.Zero(t, srv.Hits("/api/v2/pokemon/venusaur"))

	m, cmd = feed(m, cmd())
	assert.Nil(t, cmd)
	assert.False(t, m.row.Pending())
}

func TestStageFailure_SkipsOnlyThatNode(t *testing.T) {
	m, srv := newModel(t, "")
	srv.Fail("/api/v2/pokemon/ivysaur", http.StatusInternalServerError)

	m, cmd := search(t, m, "1")
	m = drain(t, m, cmd)
	assert.Equal(t, []string{"bulbasaur", "venusaur"}, nodeNames(m))
	assert.Equal(t, lookup.Displayed, m.orch.State())
}

func TestSpeciesFailure_KeepsRecord(t *testing.T) {
	m, srv := newModel(t, "")
	srv.Fail("/api/v2/pokemon-species/1", http.StatusInternalServerError)

	m, cmd := search(t, m, "1")
	m = drain(t, m, cmd)
	view := m.View()
	assert.Contains(t, view, "Bulbasaur")
	assert.Contains(t, view, ui.UnavailableText)
}

func TestNoEvolutions(t *testing.T) {
	for _, q := range []string{"mew", "ditto"} {
		t.Run(q, func(t *testing.T) {
			m, srv := newModel(t, "")
			m, cmd := search(t, m, q)
			m = drain(t, m, cmd)
			assert.Contains(t, m.View(), ui.NoEvolutionsText)
			assert.Equal(t, 1, srv.Hits("/api/v2/pokemon/"+q), "no stage fetch for a single-node chain")
		})
	}
}

func TestPrevNext_BoundsAreNoOps(t *testing.T) {
	m, _ := newModel(t, "")
	_, cmd := press(m, runes("l"))
	assert.Nil(t, cmd, "nothing displayed yet")

	m, cmd = search(t, m, "1")
	m = drain(t, m, cmd)
	_, cmd = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Nil(t, cmd)

	m, cmd = search(t, m, "151")
	m = drain(t, m, cmd)
	_, cmd = press(m, runes("l"))
	assert.Nil(t, cmd)
	m, cmd = press(m, runes("h"))
	require.NotNil(t, cmd)
	assert.Equal(t, lookup.Loading, m.orch.State())
}

func TestRapidNext_LatestWins(t *testing.T) {
	m, _ := newModel(t, "")
	m, cmd := search(t, m, "1")
	m = drain(t, m, cmd)

	m, first := press(m, tea.KeyMsg{Type: tea.KeyRight})
	m, second := press(m, tea.KeyMsg{Type: tea.KeyRight})
	require.NotNil(t, first)
	require.NotNil(t, second)

	latest, stale := second(), first()
	m, cmd = feed(m, latest)
	m, extra := feed(m, stale)
	assert.Nil(t, extra)
	m = drain(t, m, cmd)

	assert.Equal(t, "venusaur", m.orch.Current().Name)
	assert.Equal(t, 3, m.orch.Navigator().Cursor())
}

func TestNotFound_ControlsStayUsable(t *testing.T) {
	m, _ := newModel(t, "")
	m, cmd := search(t, m, "1")
	m = drain(t, m, cmd)

	m, cmd = search(t, m, "missingno")
	m = drain(t, m, cmd)
	assert.Equal(t, lookup.Failed, m.orch.State())
	assert.Contains(t, m.View(), lookup.NotFoundMessage)
	assert.Empty(t, m.row.Nodes())

	m, cmd = press(m, runes("l"))
	require.NotNil(t, cmd)
	m = drain(t, m, cmd)
	assert.Equal(t, "ivysaur", m.orch.Current().Name)
}

func TestSearch_InvalidInput(t *testing.T) {
	m, _ := newModel(t, "")
	m, cmd := search(t, m, "   ")
	assert.Nil(t, cmd)
	assert.Equal(t, lookup.Idle, m.orch.State())

	m, cmd = search(t, m, "9999")
	assert.Nil(t, cmd)
	assert.Equal(t, lookup.Failed, m.orch.State())
	assert.Contains(t, m.View(), lookup.NotFoundMessage)
}

func TestSearch_EscCancels(t *testing.T) {
	m, _ := newModel(t, "")
	m, _ = press(m, runes("/"))
	m, _ = press(m, runes("q"))
	assert.True(t, m.searching, "q is typed, not a quit")
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, m.searching)
	assert.Empty(t, m.search.Value())
}

func TestOpenSelectedEvolution(t *testing.T) {
	m, _ := newModel(t, "")
	m, cmd := search(t, m, "eevee")
	m = drain(t, m, cmd)
	require.Equal(t, []string{"eevee", "vaporeon"}, nodeNames(m))

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	sel, ok := m.row.Selected()
	require.True(t, ok)
	assert.Equal(t, "vaporeon", sel.Name)

	m, cmd = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m = drain(t, m, cmd)
	assert.Equal(t, 134, m.orch.Navigator().Cursor())
}

func TestReload(t *testing.T) {
	m, srv := newModel(t, "")
	m, cmd := search(t, m, "2")
	m = drain(t, m, cmd)
	hits := srv.Hits("/api/v2/pokemon/2")

	m, cmd = press(m, runes("r"))
	m = drain(t, m, cmd)
	assert.Equal(t, hits+1, srv.Hits("/api/v2/pokemon/2"))
	assert.Equal(t, "ivysaur", m.orch.Current().Name)
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, "")
	_, cmd := press(m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWindowSize(t *testing.T) {
	m, _ := newModel(t, "")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}
