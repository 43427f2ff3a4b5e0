package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/pokedex/internal/ui"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the offline sprite cache",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return usage("cache: expected install, clear or status")
		},
	}

	install := &cobra.Command{
		Use:   "install [url...]",
		Short: "Download assets into the cache (all or nothing)",
		Long: `install downloads every listed URL, or cache.manifest from the config
when none are given. If any download fails nothing is stored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest := args
			if len(manifest) == 0 {
				manifest = a.cfg.Cache.Manifest
			}
			if len(manifest) == 0 {
				return usage("cache install: no urls given and cache.manifest is empty")
			}
			_, cache := a.services()
			if err := cache.Install(cmd.Context(), manifest); err != nil {
				return fmt.Errorf("cache install: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("installed %d assets into %s", len(manifest), cache.Name()))
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached asset",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cache := a.services()
			if err := cache.Clear(); err != nil {
				return fmt.Errorf("cache clear: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), "cleared "+cache.Name())
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show cache location and size",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cache := a.services()
			n, err := cache.Len()
			if err != nil {
				return fmt.Errorf("cache status: %w", err)
			}
			t := ui.Current()
			ui.Panel(cmd.OutOrStdout(), []string{
				t.Title.Render("Asset cache") + "  " + t.Muted.Render(cache.Name()),
				"",
				fmt.Sprintf("%s %s", t.Accent.Render("dir    "), cache.Dir()),
				fmt.Sprintf("%s %d", t.Accent.Render("entries"), n),
				fmt.Sprintf("%s %t", t.Accent.Render("write  "), a.cfg.Cache.WriteThrough),
			})
			return nil
		},
	}

	cmd.AddCommand(install, clearCmd, status)
	return cmd
}
