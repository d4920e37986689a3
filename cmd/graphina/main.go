package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/graphina/core"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "graphina: %v\n", err)
		os.Exit(1)
	}
}

// globalOptions are shared by every subcommand
type globalOptions struct {
	panelsPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	var g globalOptions
	var d dashboardOptions

	cmd := &cobra.Command{
		Use:   "graphina [PANEL...]",
		Short: "Live terminal graphs of sampled values",
		Long: `graphina samples numeric values from commands, serial devices or a random
source and draws them as scrolling graphs. Named panels come from the
registry file; flags override the attributes of every selected panel, and
with no names the flags alone define a single panel.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, g, d, args)
		},
	}

	cmd.PersistentFlags().StringVar(&g.panelsPath, "config", "", "panel registry file (default $XDG_CONFIG_HOME/graphina/panels.yml)")
	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "write debug logs to the state directory")

	d.panel.register(cmd)
	cmd.Flags().BoolVarP(&d.choose, "choose", "s", false, "pick a registry panel interactively")
	cmd.Flags().BoolVar(&d.watch, "watch", false, "reload the registry when it changes")
	cmd.Flags().StringVar(&d.colorMode, "color-mode", "", "color mode: auto, 256, truecolor")

	cmd.AddCommand(newSetupCmd(&g), newPanelsCmd(&g))
	return cmd
}
