package main

import (
	"github.com/spf13/cobra"

	"github.com/lixenwraith/graphina/panel"
)

// panelFlags mirror the registry attributes; only flags the user set apply
type panelFlags struct {
	title          string
	interval       float64
	command        string
	serial         string
	color          string
	colorSecondary string
	foreground     string
	background     string
	resolution     string
	format         string
}

func (f *panelFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.title, "title", "t", "", "panel title")
	fs.Float64VarP(&f.interval, "interval", "n", 0, "refresh interval in seconds (minimum 0.01)")
	fs.StringVarP(&f.command, "command", "e", "", "shell command printing the value")
	fs.StringVar(&f.serial, "serial", "", "serial device printing values, PORT[@BAUD] or auto")
	fs.StringVarP(&f.color, "color", "c", "", "graph color")
	fs.StringVarP(&f.colorSecondary, "color-secondary", "C", "", "graph color for the upper half of the range")
	fs.StringVarP(&f.foreground, "foreground-color", "f", "", "label color")
	fs.StringVarP(&f.background, "background-color", "b", "", "background color")
	fs.StringVarP(&f.resolution, "resolution", "r", "", "glyph resolution: single or double")
	fs.StringVarP(&f.format, "format-value", "F", "", "value format preset")
	cmd.MarkFlagsMutuallyExclusive("command", "serial")
}

// options converts the flags the user set into an override layer
func (f *panelFlags) options(cmd *cobra.Command) panel.Options {
	fs := cmd.Flags()
	str := func(name, v string) *string {
		if !fs.Changed(name) {
			return nil
		}
		return panel.Ptr(v)
	}

	o := panel.Options{
		Title:           str("title", f.title),
		Command:         str("command", f.command),
		Serial:          str("serial", f.serial),
		Color:           str("color", f.color),
		ColorSecondary:  str("color-secondary", f.colorSecondary),
		ForegroundColor: str("foreground-color", f.foreground),
		BackgroundColor: str("background-color", f.background),
		Resolution:      str("resolution", f.resolution),
		FormatValue:     str("format-value", f.format),
	}
	if fs.Changed("interval") {
		o.Interval = panel.Ptr(f.interval)
	}
	return o
}
