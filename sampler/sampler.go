// Package sampler drives one acquisition pipeline per panel.
//
// Each pipeline ticks at its panel's interval and launches every acquisition
// on its own goroutine, so a slow source never delays the next tick, another
// panel, or the render loop. Acquisitions are numbered; a result is appended
// only when no later acquisition has already landed.
package sampler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/graphina/core"
	"github.com/lixenwraith/graphina/history"
	"github.com/lixenwraith/graphina/panel"
	"github.com/lixenwraith/graphina/status"
)

// Target pairs a panel with the buffer its samples land in
type Target struct {
	Panel  *panel.Panel
	Buffer *history.Buffer
}

// Option configures a Sampler
type Option func(*Sampler)

// WithClock overrides the timestamp source
func WithClock(c Clock) Option {
	return func(s *Sampler) { s.clock = c }
}

// WithLogger sets the logger for acquisition failures
func WithLogger(l *slog.Logger) Option {
	return func(s *Sampler) { s.logger = l }
}

// WithNotify registers a callback run after every append with the panel index
func WithNotify(fn func(index int)) Option {
	return func(s *Sampler) { s.notify = fn }
}

// WithStats wires acquisition counters into a metrics registry
func WithStats(r *status.Registry) Option {
	return func(s *Sampler) { s.stats = r }
}

// Sampler owns the pipelines for a fixed panel set
type Sampler struct {
	clock  Clock
	logger *slog.Logger
	notify func(int)
	stats  *status.Registry

	statAcquisitions *atomic.Int64
	statDropped      *atomic.Int64
	statRestarts     *atomic.Int64

	mu        sync.Mutex
	pipelines []*pipeline
	runCtx    context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	running   bool
}

// New creates a sampler over targets; nothing runs until Start
func New(targets []Target, opts ...Option) *Sampler {
	s := &Sampler{
		clock:  SystemClock{},
		logger: slog.Default(),
		notify: func(int) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.stats == nil {
		s.stats = status.NewRegistry()
	}
	s.statAcquisitions = s.stats.Counters.Get(status.Acquisitions)
	s.statDropped = s.stats.Counters.Get(status.DroppedLate)
	s.statRestarts = s.stats.Counters.Get(status.Restarts)

	s.pipelines = make([]*pipeline, len(targets))
	for i, t := range targets {
		s.pipelines[i] = s.newPipeline(i, t)
	}
	return s
}

// Len returns the number of pipelines
func (s *Sampler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pipelines)
}

// Start launches every pipeline; each takes an immediate first sample
// Calling Start on a running sampler is a no-op
func (s *Sampler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.runCtx, s.cancel = context.WithCancel(ctx)
	s.running = true
	for _, p := range s.pipelines {
		s.startLocked(p)
	}
}

// Stop cancels every pipeline and in-flight acquisition, then releases sources
// Only the ticker goroutines are awaited; acquisitions exit on their own
func (s *Sampler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	ps := make([]*pipeline, len(s.pipelines))
	copy(ps, s.pipelines)
	s.mu.Unlock()
	s.wg.Wait()

	for _, p := range ps {
		s.release(p)
	}
}

// Tick performs one synchronous acquisition for every panel, in order
func (s *Sampler) Tick(ctx context.Context) {
	s.mu.Lock()
	ps := make([]*pipeline, len(s.pipelines))
	copy(ps, s.pipelines)
	s.mu.Unlock()

	for _, p := range ps {
		s.acquire(ctx, p)
	}
}

// Restart replaces the panel at index and restarts its pipeline
// The history buffer is kept; the replaced panel's source is released
func (s *Sampler) Restart(index int, p *panel.Panel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.pipelines) {
		return fmt.Errorf("restart: panel index %d out of range [0,%d)", index, len(s.pipelines))
	}

	old := s.pipelines[index]
	if old.cancel != nil {
		old.cancel()
	}
	if old.panel != p {
		s.release(old)
	}
	next := s.newPipeline(index, Target{Panel: p, Buffer: old.buffer})
	s.pipelines[index] = next
	s.statRestarts.Add(1)
	if s.running {
		s.startLocked(next)
	}
	return nil
}

// Stats returns the registry the sampler reports into
func (s *Sampler) Stats() *status.Registry { return s.stats }

func (s *Sampler) newPipeline(index int, t Target) *pipeline {
	return &pipeline{
		index:    index,
		panel:    t.Panel,
		buffer:   t.Buffer,
		provider: t.Panel.ValueProvider(s.logger),
	}
}

// release closes the pipeline's source so a replacement can claim it
// Exclusive devices such as serial ports cannot be reopened while held
func (s *Sampler) release(p *pipeline) {
	if err := p.panel.Close(); err != nil {
		s.logger.Debug("source release failed", "panel", p.panel.Title(), "error", err)
	}
}

// startLocked runs the ticker goroutine for p; caller holds s.mu
func (s *Sampler) startLocked(p *pipeline) {
	ctx, cancel := context.WithCancel(s.runCtx)
	p.cancel = cancel
	s.wg.Add(1)
	core.Go(func() {
		defer s.wg.Done()
		s.run(ctx, p)
	})
}

func (s *Sampler) run(ctx context.Context, p *pipeline) {
	s.launch(ctx, p)

	ticker := time.NewTicker(p.panel.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.launch(ctx, p)
		}
	}
}

// launch starts one acquisition without waiting for it
func (s *Sampler) launch(ctx context.Context, p *pipeline) {
	core.Go(func() { s.acquire(ctx, p) })
}

// acquire samples once and appends unless a newer result already landed
func (s *Sampler) acquire(ctx context.Context, p *pipeline) {
	seq := p.seq.Add(1)
	v := p.provider(ctx)
	if ctx.Err() != nil {
		return
	}

	p.mu.Lock()
	if seq <= p.lastSeq {
		p.mu.Unlock()
		s.statDropped.Add(1)
		s.logger.Debug("late sample dropped", "panel", p.panel.Title(), "seq", seq, "last", p.lastSeq)
		return
	}
	p.lastSeq = seq
	p.buffer.Push(history.Sample{Time: s.clock.Now(), Value: v})
	p.mu.Unlock()

	s.statAcquisitions.Add(1)
	s.notify(p.index)
}

// pipeline is the per-panel acquisition state
type pipeline struct {
	index    int
	panel    *panel.Panel
	buffer   *history.Buffer
	provider panel.Provider
	cancel   context.CancelFunc

	seq     atomic.Uint64
	mu      sync.Mutex
	lastSeq uint64
}
