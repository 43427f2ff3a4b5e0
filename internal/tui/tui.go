// Package tui is the interactive Pokédex screen.
package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Makepad-fr/pokedex/internal/lookup"
	"github.com/Makepad-fr/pokedex/internal/nav"
	"github.com/Makepad-fr/pokedex/internal/ui"
)

// Options tunes the screen.
type Options struct {
	// Start is looked up as soon as the program starts. Empty shows an
	// idle screen.
	Start       string
	SpriteWidth int
	StageWidth  int
	Logger      *zap.Logger
}

type recordLoadedMsg struct{ res lookup.Result }

type stageLoadedMsg struct{ res lookup.StageResult }

// Model is the Bubble Tea model. Every orchestrator state change happens in
// Update; fetches run inside commands.
type Model struct {
	orch *lookup.Orchestrator
	log  *zap.Logger
	opt  Options

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	search  textinput.Model

	searching bool
	art       string
	req       lookup.Request
	row       ui.EvolutionRow

	width, height int
}

// New builds the model around orch.
func New(orch *lookup.Orchestrator, opt Options) Model {
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "name or number"
	ti.CharLimit = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.Current().Pending

	return Model{
		orch:    orch,
		log:     opt.Logger.Named("tui"),
		opt:     opt,
		keys:    defaultKeys(),
		help:    help.New(),
		spinner: sp,
		search:  ti,
		width:   80,
		height:  24,
	}
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(orch *lookup.Orchestrator, opt Options) error {
	p := tea.NewProgram(New(orch, opt), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	if strings.TrimSpace(m.opt.Start) == "" {
		return m.spinner.Tick
	}
	_, cmd := m.submit(m.opt.Start)
	return tea.Batch(m.spinner.Tick, cmd)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case recordLoadedMsg:
		return m.onRecord(msg.res)

	case stageLoadedMsg:
		return m.onStage(msg.res)

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		query := m.search.Value()
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		return m.submit(query)
	case key.Matches(msg, m.keys.Blur):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		return m, nil
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.orch.Navigator()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Prev):
		if t, ok := n.Prev(); ok {
			return m.navigate(t)
		}
	case key.Matches(msg, m.keys.Next):
		if t, ok := n.Next(); ok {
			return m.navigate(t)
		}
	case key.Matches(msg, m.keys.Reload):
		if t, ok := n.Current(); ok {
			return m.navigate(t)
		}
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.NextStage):
		m.row.Select(1)
	case key.Matches(msg, m.keys.PrevStage):
		m.row.Select(-1)
	case key.Matches(msg, m.keys.Submit):
		if node, ok := m.row.Selected(); ok {
			return m.navigate(nav.Target{Name: node.Name})
		}
	}
	return m, nil
}

// submit handles search input. Empty input is ignored; anything else
// either starts a cycle or fails one.
func (m Model) submit(query string) (Model, tea.Cmd) {
	t, err := m.orch.Navigator().Parse(query)
	if errors.Is(err, nav.ErrEmptyQuery) {
		return m, nil
	}
	if err != nil {
		m.orch.Reject(err)
		m.row.Clear()
		m.art = ""
		return m, nil
	}
	return m.navigate(t)
}

func (m Model) navigate(t nav.Target) (Model, tea.Cmd) {
	req := m.orch.Begin(t)
	m.req = req
	m.row.Clear()
	m.art = ""
	orch := m.orch
	return m, func() tea.Msg { return recordLoadedMsg{orch.Load(req)} }
}

func (m Model) onRecord(res lookup.Result) (Model, tea.Cmd) {
	if !m.orch.Resolve(res) {
		return m, nil
	}
	if m.orch.State() != lookup.Displayed {
		m.row.Clear()
		m.art = ""
		return m, nil
	}
	m.req = res.Request
	m.art = res.Art
	switch res.Evolution {
	case lookup.EvolutionNone:
		m.row.SetNone()
	case lookup.EvolutionUnavailable:
		m.row.SetUnavailable()
	case lookup.EvolutionChain:
		m.row.Reset(res.Chain.Names())
	}
	return m, m.nextStage()
}

func (m Model) onStage(res lookup.StageResult) (Model, tea.Cmd) {
	if !m.orch.IsCurrent(res.Request.Token) {
		return m, nil
	}
	if res.Err != nil {
		m.log.Warn("evolution stage skipped", zap.String("name", res.Name), zap.Error(res.Err))
		m.row.Skip(res.Index)
	} else {
		m.row.Append(ui.Node{Index: res.Index, Name: res.Stage.Name, ID: res.Stage.ID, Art: res.Stage.Art})
	}
	return m, m.nextStage()
}

// nextStage issues the fetch for the next unresolved node. The row only
// advances when a message arrives, so fetches never overlap.
func (m Model) nextStage() tea.Cmd {
	index, name, ok := m.row.Next()
	if !ok {
		return nil
	}
	orch, req := m.orch, m.req
	return func() tea.Msg { return stageLoadedMsg{orch.FetchStage(req, index, name)} }
}

func (m Model) View() string {
	t := ui.Current()
	n := m.orch.Navigator()

	header := t.Title.Render("Pokédex")
	if m.searching {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, "  ", m.search.View())
	}
	sections := []string{header, ""}

	switch m.orch.State() {
	case lookup.Loading:
		sections = append(sections, m.spinner.View()+" "+t.Muted.Render("Loading…"))
	case lookup.Failed:
		sections = append(sections, t.Error.Render(lookup.NotFoundMessage))
	case lookup.Displayed:
		rec := m.orch.Current()
		sections = append(sections, ui.RenderRecord(*rec, m.art, m.opt.SpriteWidth))
		if row := m.row.View(m.opt.StageWidth); row != "" {
			sections = append(sections, "", t.Accent.Render("Evolutions"), row)
		}
	default:
		sections = append(sections, t.Muted.Render("Press / to search"))
	}

	sections = append(sections, "", m.controls(n), m.help.View(m.keys))
	return panelString(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// controls shows prev/next, dimmed when the move is unavailable.
func (m Model) controls(n *nav.Navigator) string {
	t := ui.Current()
	prev, next := t.Muted.Render("◀ prev"), t.Muted.Render("next ▶")
	if n.CanPrev() {
		prev = t.Accent.Render("◀ prev")
	}
	if n.CanNext() {
		next = t.Accent.Render("next ▶")
	}
	return prev + "   " + next
}

func panelString(inner string) string {
	t := ui.Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(inner)
}
