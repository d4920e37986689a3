// Package compositor owns the screen: it lays panels out, rasterizes them
// into a Frame and writes only the cells that changed since the last frame.
package compositor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/graphina/history"
	"github.com/lixenwraith/graphina/panel"
	"github.com/lixenwraith/graphina/render"
	"github.com/lixenwraith/graphina/status"
	"github.com/lixenwraith/graphina/terminal"
)

// Defaults for Config zero values
const (
	DefaultFrameRate       = 30
	DefaultRepaintInterval = 5 * time.Second
)

// Slot is one displayed panel and the buffer behind it
type Slot struct {
	Panel  *panel.Panel
	Buffer *history.Buffer
}

// Config tunes the render loop
type Config struct {
	// FrameInterval is the minimum time between two paints
	FrameInterval time.Duration
	// RepaintInterval forces a full repaint, healing any terminal corruption
	RepaintInterval time.Duration
	Tables          render.Tables
	Logger          *slog.Logger
	Stats           *status.Registry
}

// Compositor runs the single render loop
type Compositor struct {
	term terminal.Terminal
	cfg  Config

	mu     sync.Mutex
	slots  []Slot
	rects  []Rect
	width  int
	height int
	prev   *Frame

	dirty chan struct{}
	force chan struct{}

	statFrames   *atomic.Int64
	statCells    *atomic.Int64
	statRepaints *atomic.Int64
	statResizes  *atomic.Int64
	statFrameMax *status.Gauge
}

// New creates a compositor over term; nothing is drawn until Run
func New(term terminal.Terminal, slots []Slot, cfg Config) *Compositor {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = time.Second / DefaultFrameRate
	}
	if cfg.RepaintInterval <= 0 {
		cfg.RepaintInterval = DefaultRepaintInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Stats == nil {
		cfg.Stats = status.NewRegistry()
	}

	return &Compositor{
		term:         term,
		cfg:          cfg,
		slots:        slots,
		dirty:        make(chan struct{}, 1),
		force:        make(chan struct{}, 1),
		statFrames:   cfg.Stats.Counters.Get(status.Frames),
		statCells:    cfg.Stats.Counters.Get(status.CellsWritten),
		statRepaints: cfg.Stats.Counters.Get(status.ForcedRepaints),
		statResizes:  cfg.Stats.Counters.Get(status.Resizes),
		statFrameMax: cfg.Stats.Gauges.Get(status.FrameMillisMax),
	}
}

// Notify marks the screen dirty; safe from any goroutine, never blocks
// The panel index is accepted for the sampler callback signature
func (c *Compositor) Notify(int) {
	select {
	case c.dirty <- struct{}{}:
	default:
	}
}

// ForceRepaint schedules a full repaint on the next loop iteration
func (c *Compositor) ForceRepaint() {
	select {
	case c.force <- struct{}{}:
	default:
	}
}

// Replace swaps the displayed panel set and schedules a full repaint
// Buffers of the new slots are resized to the current layout
func (c *Compositor) Replace(slots []Slot) {
	c.mu.Lock()
	c.slots = slots
	c.relayoutLocked(c.width, c.height)
	c.prev = nil
	c.mu.Unlock()
	c.Notify(-1)
}

// Relayout recomputes panel rects for a w×h screen and resizes every buffer
func (c *Compositor) Relayout(w, h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.relayoutLocked(w, h)
}

func (c *Compositor) relayoutLocked(w, h int) {
	c.width, c.height = w, h
	c.rects = Layout(len(c.slots), w, h)
	for i, s := range c.slots {
		table := c.cfg.Tables.For(s.Panel.Resolution())
		s.Buffer.Resize(c.rects[i].W * table.PointsPerCell())
	}
}

// Rects returns the current layout
func (c *Compositor) Rects() []Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Rect, len(c.rects))
	copy(out, c.rects)
	return out
}

// drawLocked rasterizes every panel into a fresh frame; caller holds c.mu
func (c *Compositor) drawLocked() *Frame {
	f := NewFrame(c.width, c.height)
	root := f.Region()
	for i, s := range c.slots {
		r := c.rects[i]
		region := root.Sub(r.X, r.Y, r.W, r.H)
		render.Rasterize(region, s.Panel, s.Buffer.Snapshot(), c.cfg.Tables.For(s.Panel.Resolution()))
	}
	return f
}

// Paint draws a frame and writes its difference from the previous one
// With full set the previous frame is ignored and every cell is rewritten
func (c *Compositor) Paint(full bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	next := c.drawLocked()
	prev := c.prev
	if full {
		prev = nil
	}
	updates := Diff(prev, next)
	if len(updates) > 0 {
		if err := c.term.Write(updates); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
	}
	c.prev = next

	c.statFrames.Add(1)
	c.statCells.Add(int64(len(updates)))
	c.statFrameMax.StoreMax(float64(time.Since(start).Microseconds()) / 1000)
	return nil
}

// Run drives the render loop until ctx is cancelled or output fails
func (c *Compositor) Run(ctx context.Context) error {
	w, h, err := c.term.Size()
	if err != nil {
		return fmt.Errorf("terminal size: %w", err)
	}
	c.Relayout(w, h)
	if err := c.Paint(true); err != nil {
		return err
	}
	last := time.Now()

	repaint := time.NewTicker(c.cfg.RepaintInterval)
	defer repaint.Stop()

	// throttle is armed when a dirty signal arrives inside the frame interval
	var throttle *time.Timer
	var throttleC <-chan time.Time
	defer func() {
		if throttle != nil {
			throttle.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-c.dirty:
			if throttleC != nil {
				continue
			}
			if wait := c.cfg.FrameInterval - time.Since(last); wait > 0 {
				throttle = time.NewTimer(wait)
				throttleC = throttle.C
				continue
			}
			if err := c.Paint(false); err != nil {
				return err
			}
			last = time.Now()

		case <-throttleC:
			throttleC = nil
			if err := c.Paint(false); err != nil {
				return err
			}
			last = time.Now()

		case <-repaint.C:
			c.statRepaints.Add(1)
			if err := c.Paint(true); err != nil {
				return err
			}
			last = time.Now()

		case <-c.force:
			c.statRepaints.Add(1)
			if err := c.Paint(true); err != nil {
				return err
			}
			last = time.Now()

		case ev := <-c.term.ResizeChan():
			c.statResizes.Add(1)
			c.cfg.Logger.Debug("resize", "width", ev.Width, "height", ev.Height)
			c.Relayout(ev.Width, ev.Height)
			if err := c.term.Clear(c.background()); err != nil {
				return fmt.Errorf("clear after resize: %w", err)
			}
			if err := c.Paint(true); err != nil {
				return err
			}
			last = time.Now()
		}
	}
}

// background is the clear color, taken from the first panel
func (c *Compositor) background() terminal.RGB {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.slots) == 0 {
		return terminal.RGBBlack
	}
	return c.slots[0].Panel.Background()
}
