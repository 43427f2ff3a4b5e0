package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/pokedex/internal/lookup"
	"github.com/Makepad-fr/pokedex/internal/model"
	"github.com/Makepad-fr/pokedex/internal/nav"
	"github.com/Makepad-fr/pokedex/internal/ui"
)

func newShowCmd(a *app) *cobra.Command {
	var opt showOptions
	cmd := &cobra.Command{
		Use:   "show <id|name>",
		Short: "Print one record and its evolution chain",
		Example: `  pokedex show 25
  pokedex show bulbasaur --markdown`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, _ := a.services()
			opt.spriteWidth = a.cfg.Display.SpriteWidth
			opt.stageWidth = a.cfg.Display.StageWidth
			return show(cmd.OutOrStdout(), orch, args[0], opt, a.log)
		},
	}
	cmd.Flags().BoolVar(&opt.markdown, "markdown", false, "render as markdown")
	return cmd
}

type showOptions struct {
	spriteWidth, stageWidth int
	markdown                bool
}

// show runs one display cycle to completion, then the evolution nodes in
// chain order.
func show(w io.Writer, orch *lookup.Orchestrator, query string, opt showOptions, log *zap.Logger) error {
	t, err := orch.Navigator().Parse(query)
	if errors.Is(err, nav.ErrEmptyQuery) {
		return usage("show: empty query")
	}
	if err != nil {
		orch.Reject(err)
		return errors.New(lookup.NotFoundMessage)
	}

	req := orch.Begin(t)
	res := orch.Load(req)
	orch.Resolve(res)
	rec := orch.Current()
	if rec == nil {
		return errors.New(lookup.NotFoundMessage)
	}

	var row ui.EvolutionRow
	switch res.Evolution {
	case lookup.EvolutionNone:
		row.SetNone()
	case lookup.EvolutionUnavailable:
		row.SetUnavailable()
	case lookup.EvolutionChain:
		row.Reset(res.Chain.Names())
	}
	for {
		index, name, ok := row.Next()
		if !ok {
			break
		}
		st := orch.FetchStage(req, index, name)
		if st.Err != nil {
			log.Warn("evolution stage skipped", zap.String("name", name), zap.Error(st.Err))
			row.Skip(index)
			continue
		}
		row.Append(ui.Node{Index: index, Name: st.Stage.Name, ID: st.Stage.ID, Art: st.Stage.Art})
	}

	if opt.markdown {
		evo := res.Evolution
		if evo == lookup.EvolutionChain && len(res.Chain) > 1 && len(row.Nodes()) == 0 {
			evo = lookup.EvolutionUnavailable
		}
		out, err := renderMarkdown(recordMarkdown(*rec, evo, row.Nodes()))
		if err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		_, err = io.WriteString(w, out)
		return err
	}
	ui.Fprintln(w, ui.RenderRecord(*rec, res.Art, opt.spriteWidth))
	ui.Fprintln(w, row.View(opt.stageWidth))
	return nil
}

func recordMarkdown(rec model.Record, evo lookup.Evolution, nodes []ui.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s\n\n", ui.Capitalize(rec.Name), rec.Number())
	if len(rec.Types) > 0 {
		caps := make([]string, len(rec.Types))
		for i, typ := range rec.Types {
			caps[i] = ui.Capitalize(typ)
		}
		fmt.Fprintf(&b, "**Types:** %s\n\n", strings.Join(caps, ", "))
	}
	if rec.HasArtwork() {
		fmt.Fprintf(&b, "Artwork: %s\n\n", rec.ArtworkURL)
	}

	b.WriteString("## Evolutions\n\n")
	switch {
	case evo == lookup.EvolutionUnavailable:
		b.WriteString(ui.UnavailableText + "\n")
	case evo == lookup.EvolutionNone || len(nodes) <= 1:
		b.WriteString(ui.NoEvolutionsText + "\n")
	default:
		for i, n := range nodes {
			fmt.Fprintf(&b, "%d. %s (#%03d)\n", i+1, ui.Capitalize(n.Name), n.ID)
		}
	}
	return b.String()
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
