package terminal

import (
	"sync"
	"time"
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey EventType = iota
	EventError
	EventClosed
)

// Key represents a parsed input key
type Key uint16

const (
	KeyNone Key = iota
	KeyRune     // Printable character (check Event.Rune)
	KeyEscape
	KeyEnter
	KeyCtrlC
	KeyCtrlD
	KeyCtrlL
)

// Event represents a terminal input event
type Event struct {
	Type EventType
	Key  Key
	Rune rune
	Err  error
}

// IsQuit reports whether the event asks the dashboard to exit
func (e Event) IsQuit() bool {
	if e.Type != EventKey {
		return e.Type == EventClosed || e.Type == EventError
	}
	switch e.Key {
	case KeyEscape, KeyCtrlC, KeyCtrlD:
		return true
	case KeyRune:
		return e.Rune == 'q' || e.Rune == 'Q'
	}
	return false
}

// inputReader turns raw stdin bytes into key events
type inputReader struct {
	backend Backend
	eventCh chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool
}

func newInputReader(backend Backend) *inputReader {
	return &inputReader{
		backend: backend,
		eventCh: make(chan Event, 16),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

func (r *inputReader) start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	go r.readLoop()
}

func (r *inputReader) stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	// Don't block forever if read is stuck
	select {
	case <-r.doneCh:
	case <-time.After(100 * time.Millisecond):
	}
}

func (r *inputReader) events() <-chan Event {
	return r.eventCh
}

func (r *inputReader) readLoop() {
	defer close(r.doneCh)

	for {
		data, err := r.backend.Read(r.stopCh)
		if err != nil {
			r.sendEvent(Event{Type: EventError, Err: err})
			return
		}
		if data == nil {
			// Stopped or EOF on stdin
			r.sendEvent(Event{Type: EventClosed})
			return
		}
		for _, ev := range parseKeys(data) {
			r.sendEvent(ev)
		}
	}
}

func (r *inputReader) sendEvent(ev Event) {
	select {
	case r.eventCh <- ev:
	default:
		// Full, drop
	}
}

// parseKeys decodes one read chunk
// Escape sequences (arrows, function keys) are swallowed whole, a lone ESC is a key
func parseKeys(data []byte) []Event {
	var out []Event
	for i := 0; i < len(data); i++ {
		b := data[i]
		switch {
		case b == 0x1b:
			if i == len(data)-1 {
				out = append(out, Event{Type: EventKey, Key: KeyEscape})
			}
			return out
		case b == 0x03:
			out = append(out, Event{Type: EventKey, Key: KeyCtrlC})
		case b == 0x04:
			out = append(out, Event{Type: EventKey, Key: KeyCtrlD})
		case b == 0x0c:
			out = append(out, Event{Type: EventKey, Key: KeyCtrlL})
		case b == '\r' || b == '\n':
			out = append(out, Event{Type: EventKey, Key: KeyEnter})
		case b >= 0x20 && b < 0x7f:
			out = append(out, Event{Type: EventKey, Key: KeyRune, Rune: rune(b)})
		}
	}
	return out
}
