package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/graphina/chooser"
	"github.com/lixenwraith/graphina/compositor"
	"github.com/lixenwraith/graphina/config"
	"github.com/lixenwraith/graphina/core"
	"github.com/lixenwraith/graphina/history"
	"github.com/lixenwraith/graphina/logging"
	"github.com/lixenwraith/graphina/panel"
	"github.com/lixenwraith/graphina/render"
	"github.com/lixenwraith/graphina/sampler"
	"github.com/lixenwraith/graphina/status"
	"github.com/lixenwraith/graphina/terminal"
)

// dashboardOptions are the root command's own flags
type dashboardOptions struct {
	panel     panelFlags
	choose    bool
	watch     bool
	colorMode string
}

// selection is what the user asked to display
type selection struct {
	names     []string
	overrides panel.Options
}

// resolvePanels builds the panels for sel; with no names the overrides alone
// define one panel
func resolvePanels(reg *config.Registry, sel selection) ([]*panel.Panel, error) {
	if len(sel.names) == 0 {
		p, err := panel.New(sel.overrides)
		if err != nil {
			return nil, err
		}
		return []*panel.Panel{p}, nil
	}
	return reg.Build(sel.names, sel.overrides)
}

func runDashboard(cmd *cobra.Command, g globalOptions, d dashboardOptions, args []string) error {
	settings, err := config.LoadSettings("")
	if err != nil {
		return err
	}
	tables, err := settings.Tables()
	if err != nil {
		return err
	}

	logPath := config.ExpandHome(settings.LogFile)
	if logPath == "" && g.debug {
		logPath = config.DefaultLogPath()
	}
	logger, logFile, err := logging.Setup(g.debug, logPath)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	reg, err := config.LoadRegistry(registryPath(&g))
	if err != nil {
		return err
	}

	sel := selection{names: args, overrides: d.panel.options(cmd)}
	if d.choose {
		name, err := chooser.Choose(reg.Names())
		if err != nil {
			if errors.Is(err, chooser.ErrCancelled) {
				return nil
			}
			return err
		}
		sel.names = append(sel.names, name)
	}

	panels, err := resolvePanels(reg, sel)
	if err != nil {
		return err
	}

	if !isTerminal(os.Stdout) {
		return fmt.Errorf("stdout: %w", terminal.ErrNotTerminal)
	}

	mode := settings.Mode()
	if d.colorMode != "" {
		mode = terminal.ParseColorMode(d.colorMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	term := terminal.New(mode)
	if err := term.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	core.SetCrashTerminal(term)
	defer term.Fini()

	logger.Info("dashboard starting", "panels", len(panels), "color_mode", mode.String(), "double_glyphs", tables.Double.Name())

	stats := status.NewRegistry()
	dash := newDashboard(term, panels, tables, settings, logger, stats)
	defer func() {
		dash.sampler.Stop()
		logger.Info("dashboard stopped", "metrics", stats)
	}()

	if d.watch {
		if len(sel.names) == 0 {
			logger.Warn("--watch ignored: no registry panels selected")
		} else {
			w, err := config.Watch(reg.Path, 0, logger, func() { dash.reload(reg.Path, sel) })
			if err != nil {
				return err
			}
			defer w.Close()
		}
	}

	return dash.run(ctx, term)
}

// dashboard ties the sampler to the compositor for one panel set
type dashboard struct {
	logger     *slog.Logger
	tables     render.Tables
	buffers    []*history.Buffer
	sampler    *sampler.Sampler
	compositor *compositor.Compositor
}

func newDashboard(term terminal.Terminal, panels []*panel.Panel, tables render.Tables, settings config.Settings, logger *slog.Logger, stats *status.Registry) *dashboard {
	width := 0
	if w, _, err := term.Size(); err == nil {
		width = w
	}

	slots := make([]compositor.Slot, len(panels))
	targets := make([]sampler.Target, len(panels))
	buffers := make([]*history.Buffer, len(panels))
	for i, p := range panels {
		buffers[i] = history.New(width * tables.For(p.Resolution()).PointsPerCell())
		slots[i] = compositor.Slot{Panel: p, Buffer: buffers[i]}
		targets[i] = sampler.Target{Panel: p, Buffer: buffers[i]}
	}

	comp := compositor.New(term, slots, compositor.Config{
		FrameInterval:   settings.FrameInterval(),
		RepaintInterval: settings.RepaintEvery(),
		Tables:          tables,
		Logger:          logger,
		Stats:           stats,
	})
	samp := sampler.New(targets,
		sampler.WithLogger(logger),
		sampler.WithNotify(comp.Notify),
		sampler.WithStats(stats),
	)

	return &dashboard{
		logger:     logger,
		tables:     tables,
		buffers:    buffers,
		sampler:    samp,
		compositor: comp,
	}
}

// run samples and renders until a quit key, a signal or a render failure
func (d *dashboard) run(ctx context.Context, term terminal.Terminal) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.sampler.Start(ctx)

	errCh := make(chan error, 1)
	core.Go(func() { errCh <- d.compositor.Run(ctx) })

	for {
		select {
		case <-ctx.Done():
			<-errCh
			return nil
		case err := <-errCh:
			return err
		case ev := <-term.Events():
			switch {
			case ev.IsQuit():
				if ev.Type == terminal.EventError {
					d.logger.Error("input failed", "error", ev.Err)
				}
				cancel()
			case ev.Key == terminal.KeyCtrlL:
				d.compositor.ForceRepaint()
			}
		}
	}
}

// reload rebuilds the selected panels from the registry and restarts their
// pipelines; on any error the running set is kept
func (d *dashboard) reload(path string, sel selection) {
	reg, err := config.LoadRegistry(path)
	if err != nil {
		d.logger.Warn("registry reload failed", "error", err)
		return
	}
	panels, err := resolvePanels(reg, sel)
	if err != nil {
		d.logger.Warn("registry reload failed", "error", err)
		return
	}

	slots := make([]compositor.Slot, len(panels))
	for i, p := range panels {
		if err := d.sampler.Restart(i, p); err != nil {
			d.logger.Warn("pipeline restart failed", "panel", p.Title(), "error", err)
			return
		}
		slots[i] = compositor.Slot{Panel: p, Buffer: d.buffers[i]}
	}
	d.compositor.Replace(slots)
	d.logger.Info("registry reloaded", "panels", len(panels))
}
