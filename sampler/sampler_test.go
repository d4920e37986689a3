package sampler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lixenwraith/graphina/history"
	"github.com/lixenwraith/graphina/panel"
	"github.com/lixenwraith/graphina/status"
)

// counterPanel returns a panel whose source yields 1, 2, 3, ...
func counterPanel(t *testing.T, interval float64) *panel.Panel {
	t.Helper()
	var n atomic.Int64
	p, err := panel.New(panel.Options{
		Interval: panel.Ptr(interval),
		Source: panel.Custom{Fn: func(context.Context) (float64, error) {
			return float64(n.Add(1)), nil
		}},
	})
	if err != nil {
		t.Fatalf("panel.New failed: %v", err)
	}
	return p
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Condition not met before timeout")
}

func TestFiftyTicksAtWidthTwenty(t *testing.T) {
	buf := history.New(20)
	s := New([]Target{{Panel: counterPanel(t, 1), Buffer: buf}})

	for i := 0; i < 50; i++ {
		s.Tick(context.Background())
	}

	if buf.Len() != 20 {
		t.Fatalf("Expected 20 samples, got %d", buf.Len())
	}
	vals := buf.Values()
	for i, v := range vals {
		if want := float64(31 + i); v != want {
			t.Errorf("Sample %d: expected %v, got %v", i, want, v)
		}
	}
}

func TestTimestampsFromClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)
	buf := history.New(4)
	s := New([]Target{{Panel: counterPanel(t, 1), Buffer: buf}}, WithClock(clock))

	s.Tick(context.Background())
	clock.Advance(time.Second)
	s.Tick(context.Background())

	snap := buf.Snapshot()
	if !snap[0].Time.Equal(start) || !snap[1].Time.Equal(start.Add(time.Second)) {
		t.Errorf("Unexpected timestamps: %v, %v", snap[0].Time, snap[1].Time)
	}
}

func TestFailingCommandKeepsTicking(t *testing.T) {
	p, err := panel.New(panel.Options{Interval: panel.Ptr(0.01), Command: panel.Ptr("exit 1")})
	if err != nil {
		t.Fatalf("panel.New failed: %v", err)
	}
	buf := history.New(10)
	s := New([]Target{{Panel: p, Buffer: buf}})
	s.Start(context.Background())
	defer s.Stop()

	waitFor(t, 3*time.Second, func() bool { return buf.Len() >= 3 })
	for _, v := range buf.Values() {
		if v != 0 {
			t.Errorf("Expected 0.0 for failed command, got %v", v)
		}
	}
}

func TestLateResultDropped(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int64
	p, _ := panel.New(panel.Options{Source: panel.Custom{Fn: func(context.Context) (float64, error) {
		if calls.Add(1) == 1 {
			<-release
			return 1, nil
		}
		return 2, nil
	}}})

	reg := status.NewRegistry()
	buf := history.New(10)
	s := New([]Target{{Panel: p, Buffer: buf}}, WithStats(reg))
	pl := s.pipelines[0]

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.acquire(context.Background(), pl)
	}()
	waitFor(t, time.Second, func() bool { return calls.Load() == 1 })

	s.acquire(context.Background(), pl)
	close(release)
	wg.Wait()

	vals := buf.Values()
	if len(vals) != 1 || vals[0] != 2 {
		t.Errorf("Expected only the newer result [2], got %v", vals)
	}
	if got := reg.Counters.Get(status.DroppedLate).Load(); got != 1 {
		t.Errorf("Expected 1 dropped sample, got %d", got)
	}
}

func TestStopCancelsInFlight(t *testing.T) {
	started := make(chan struct{}, 1)
	p, _ := panel.New(panel.Options{Source: panel.Custom{Fn: func(ctx context.Context) (float64, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		return 5, ctx.Err()
	}}})
	buf := history.New(10)
	var notified atomic.Int64
	s := New([]Target{{Panel: p, Buffer: buf}}, WithNotify(func(int) { notified.Add(1) }))
	s.Start(context.Background())

	<-started
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}

	time.Sleep(20 * time.Millisecond)
	if buf.Len() != 0 || notified.Load() != 0 {
		t.Errorf("Expected nothing appended after stop, got %d samples, %d notifies", buf.Len(), notified.Load())
	}
}

func TestNotifyCarriesIndex(t *testing.T) {
	var got []int
	var mu sync.Mutex
	s := New([]Target{
		{Panel: counterPanel(t, 1), Buffer: history.New(2)},
		{Panel: counterPanel(t, 1), Buffer: history.New(2)},
	}, WithNotify(func(i int) {
		mu.Lock()
		got = append(got, i)
		mu.Unlock()
	}))

	s.Tick(context.Background())
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("Expected notifies [0 1], got %v", got)
	}
}

func TestRestartKeepsBuffer(t *testing.T) {
	buf := history.New(5)
	s := New([]Target{{Panel: counterPanel(t, 1), Buffer: buf}})
	s.Tick(context.Background())

	constant, _ := panel.New(panel.Options{Source: panel.Custom{Fn: func(context.Context) (float64, error) {
		return 42, nil
	}}})
	if err := s.Restart(0, constant); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	s.Tick(context.Background())

	vals := buf.Values()
	if len(vals) != 2 || vals[0] != 1 || vals[1] != 42 {
		t.Errorf("Expected [1 42], got %v", vals)
	}
	if err := s.Restart(3, constant); err == nil {
		t.Error("Expected out-of-range error")
	}
}

func TestStartedPipelineSamplesImmediately(t *testing.T) {
	buf := history.New(5)
	s := New([]Target{{Panel: counterPanel(t, 60), Buffer: buf}})
	s.Start(context.Background())
	defer s.Stop()

	waitFor(t, time.Second, func() bool { return buf.Len() == 1 })
}

func TestSlowSourceDoesNotDelayOtherPanels(t *testing.T) {
	unblock := make(chan struct{})
	defer close(unblock)

	var slowCalls atomic.Int64
	slow, err := panel.New(panel.Options{
		Interval: panel.Ptr(0.01),
		Source: panel.Custom{Fn: func(ctx context.Context) (float64, error) {
			slowCalls.Add(1)
			select {
			case <-unblock:
				return 1, nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		}},
	})
	if err != nil {
		t.Fatalf("panel.New failed: %v", err)
	}

	slowBuf := history.New(16)
	fastBuf := history.New(16)
	s := New([]Target{
		{Panel: slow, Buffer: slowBuf},
		{Panel: counterPanel(t, 0.01), Buffer: fastBuf},
	})
	s.Start(context.Background())
	defer s.Stop()

	// The fast panel fills while the slow one stays blocked, and the slow
	// panel keeps launching new acquisitions on its own ticks
	waitFor(t, 2*time.Second, func() bool {
		return fastBuf.Len() >= 10 && slowCalls.Load() >= 3
	})
	if slowBuf.Len() != 0 {
		t.Errorf("Expected blocked panel to have no samples, got %d", slowBuf.Len())
	}
}

// releasePanel returns a panel whose source counts Release calls
func releasePanel(t *testing.T, released *atomic.Int64) *panel.Panel {
	t.Helper()
	p, err := panel.New(panel.Options{
		Interval: panel.Ptr(1.0),
		Source: panel.Custom{
			Fn:      func(context.Context) (float64, error) { return 1, nil },
			Release: func() error { released.Add(1); return nil },
		},
	})
	if err != nil {
		t.Fatalf("panel.New failed: %v", err)
	}
	return p
}

func TestRestartReleasesReplacedSource(t *testing.T) {
	var first, second atomic.Int64
	p1 := releasePanel(t, &first)
	p2 := releasePanel(t, &second)

	s := New([]Target{{Panel: p1, Buffer: history.New(4)}})
	s.Start(context.Background())

	if err := s.Restart(0, p2); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if first.Load() != 1 {
		t.Errorf("Expected replaced source released once, got %d", first.Load())
	}

	if err := s.Restart(0, p2); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if second.Load() != 0 {
		t.Errorf("Expected same-panel restart to keep its source, got %d releases", second.Load())
	}

	s.Stop()
	if second.Load() != 1 {
		t.Errorf("Expected Stop to release the active source, got %d", second.Load())
	}
	if first.Load() != 1 {
		t.Errorf("Expected retired source released only once, got %d", first.Load())
	}
}
