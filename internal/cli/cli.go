// Package cli wires configuration, logging and the lookup pipeline behind
// the pokedex command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/pokedex/internal/config"
	"github.com/Makepad-fr/pokedex/internal/logging"
	"github.com/Makepad-fr/pokedex/internal/lookup"
	"github.com/Makepad-fr/pokedex/internal/nav"
	"github.com/Makepad-fr/pokedex/internal/pokeapi"
	"github.com/Makepad-fr/pokedex/internal/sprite"
	"github.com/Makepad-fr/pokedex/internal/store/assetcache"
	"github.com/Makepad-fr/pokedex/internal/tui"
	"github.com/Makepad-fr/pokedex/internal/ui"
)

// usageError marks bad invocations; they exit with 2.
type usageError struct{ error }

func usage(format string, a ...any) error { return usageError{fmt.Errorf(format, a...)} }

// usageArgs tags positional-argument failures as usage errors.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// app carries what the root flags and PersistentPreRunE produce.
type app struct {
	configPath string
	verbose    bool

	cfg *config.Config
	log *zap.Logger
}

// Run executes the command line and returns an exit code (0 ok, 1 error,
// 2 usage).
func Run(args []string) int { return run(args, os.Stdout, os.Stderr) }

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		ui.Fail(stderr, err.Error())
		var ue usageError
		if errors.As(err, &ue) {
			return 2
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "pokedex",
		Short: "Browse Pokémon records and evolution chains in the terminal",
		Long: `pokedex looks up Pokémon by number or name against the PokeAPI and
shows the record with its evolution chain.

Without a subcommand it starts the interactive browser.`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, _ := a.services()
			return tui.Run(orch, tui.Options{
				Start:       a.cfg.Lookup.Start,
				SpriteWidth: a.cfg.Display.SpriteWidth,
				StageWidth:  a.cfg.Display.StageWidth,
				Logger:      a.log,
			})
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default ~/.pokedex/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newShowCmd(a), newCacheCmd(a))
	return root
}

func (a *app) setup() error {
	path := a.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Logging, a.verbose)
	if err != nil {
		return err
	}
	ui.SetTheme(cfg.Display.Theme)
	a.cfg, a.log = cfg, log
	a.log.Debug("config loaded", zap.String("path", path), zap.String("api", cfg.API.BaseURL))
	return nil
}

// services builds the lookup pipeline. Sprites are read through the asset
// cache at two widths: the record and the evolution nodes.
func (a *app) services() (*lookup.Orchestrator, *assetcache.Cache) {
	gw := pokeapi.New(a.cfg.API, pokeapi.WithLogger(a.log))
	cache := assetcache.New(a.cfg.Cache, assetcache.WithLogger(a.log))
	opts := []lookup.Option{
		lookup.WithLogger(a.log),
		lookup.WithStrictSecondary(a.cfg.Lookup.StrictSecondary),
	}
	if a.cfg.Display.Sprites {
		opts = append(opts,
			lookup.WithArt(sprite.New(cache, a.cfg.Display.SpriteWidth)),
			lookup.WithStageArt(sprite.New(cache, a.cfg.Display.StageWidth)),
		)
	}
	return lookup.New(gw, nav.New(a.cfg.API.MaxID), opts...), cache
}
