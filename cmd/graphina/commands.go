package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/graphina/config"
	"github.com/lixenwraith/graphina/panel"
	"github.com/lixenwraith/graphina/setup"
)

func newSetupCmd(g *globalOptions) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Install the default panel registry for this platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst := &setup.Installer{
				Name:        name,
				Path:        registryPath(g),
				Interactive: isTerminal(os.Stdin),
				In:          cmd.InOrStdin(),
				Out:         cmd.OutOrStdout(),
				Err:         cmd.ErrOrStderr(),
			}
			return inst.Install()
		},
	}
	cmd.Flags().StringVar(&name, "default-panels", "default", fmt.Sprintf("bundled panel set %v", setup.Names()))
	return cmd
}

func newPanelsCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "panels",
		Short: "List the panels defined in the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := config.LoadRegistry(registryPath(g))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range reg.Entries {
				p, err := panel.New(e.Options)
				if err != nil {
					return fmt.Errorf("panel %q: %w", e.Name, err)
				}
				fmt.Fprintf(out, "%-20s %s (every %gs, %s)\n", e.Name, p.Title(), p.IntervalSeconds(), panel.SourceKind(p.Source()))
			}
			return nil
		},
	}
}

func registryPath(g *globalOptions) string {
	if g.panelsPath != "" {
		return config.ExpandHome(g.panelsPath)
	}
	return config.PanelsPath()
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
