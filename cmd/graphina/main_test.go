package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/graphina/config"
	"github.com/lixenwraith/graphina/panel"
)

func TestFlagsOnlyChangedApply(t *testing.T) {
	var f panelFlags
	cmd := &cobra.Command{Use: "graphina"}
	f.register(cmd)
	if err := cmd.ParseFlags([]string{"-t", "Load", "-n", "0.5", "-c", "red", "-F", "as_percent"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	o := f.options(cmd)

	if o.Title == nil || *o.Title != "Load" {
		t.Errorf("Expected title Load, got %v", o.Title)
	}
	if o.Interval == nil || *o.Interval != 0.5 {
		t.Errorf("Expected interval 0.5, got %v", o.Interval)
	}
	if o.Color == nil || *o.Color != "red" || o.FormatValue == nil {
		t.Errorf("Expected color and format set, got %+v", o)
	}
	if o.Command != nil || o.Serial != nil || o.Resolution != nil || o.BackgroundColor != nil {
		t.Errorf("Expected untouched flags to stay nil, got %+v", o)
	}
}

func TestCommandAndSerialExclusive(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"-e", "echo 1", "--serial", "/dev/ttyACM0"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Error("Expected mutually exclusive flag error")
	}
}

func TestResolvePanels(t *testing.T) {
	entries, err := config.ParseRegistry([]byte("cpu:\n  title: CPU\n  interval: 2\nmem:\n  title: Mem\n"))
	if err != nil {
		t.Fatal(err)
	}
	reg := &config.Registry{Path: "test.yml", Entries: entries}

	panels, err := resolvePanels(reg, selection{overrides: panel.Options{Title: panel.Ptr("Solo")}})
	if err != nil || len(panels) != 1 || panels[0].Title() != "Solo" {
		t.Fatalf("Expected one flag-defined panel, got %v, %v", panels, err)
	}

	panels, err = resolvePanels(reg, selection{
		names:     []string{"mem", "cpu"},
		overrides: panel.Options{Interval: panel.Ptr(1.0)},
	})
	if err != nil {
		t.Fatalf("resolvePanels failed: %v", err)
	}
	if panels[0].Title() != "Mem" || panels[1].Title() != "CPU" {
		t.Errorf("Expected argument order, got %q, %q", panels[0].Title(), panels[1].Title())
	}
	for _, p := range panels {
		if p.IntervalSeconds() != 1 {
			t.Errorf("Expected interval override on %q, got %v", p.Title(), p.IntervalSeconds())
		}
	}

	if _, err := resolvePanels(reg, selection{names: []string{"gpu"}}); !errors.Is(err, config.ErrUnknownPanel) {
		t.Errorf("Expected ErrUnknownPanel, got %v", err)
	}
	if _, err := resolvePanels(reg, selection{overrides: panel.Options{FormatValue: panel.Ptr("as_nothing")}}); !errors.Is(err, panel.ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}

func TestPanelsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panels.yml")
	os.WriteFile(path, []byte("cpu:\n  title: CPU\n  command: \"echo 1\"\nrand:\n"), 0o644)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"panels", "--config", path})
	cmd.SetOut(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("panels failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "cpu") || !strings.Contains(lines[0], "command") || !strings.Contains(lines[1], "random") {
		t.Errorf("Unexpected listing %q", out.String())
	}
}

func TestSetupCommandInstalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graphina", "panels.yml")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"setup", "--config", path, "--default-panels", "x86_64-linux"})
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(""))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected registry installed: %v", err)
	}
}
