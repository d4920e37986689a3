package terminal

import (
	"errors"
	"io"
	"os"
	"sync"
)

var (
	// ErrNotTerminal is returned when stdin or stdout is not attached to a tty
	ErrNotTerminal = errors.New("not a terminal")
	// ErrClosed is returned by writes after Fini
	ErrClosed = errors.New("terminal closed")
)

// Attr represents text attributes (bitmask)
type Attr uint8

const (
	AttrNone Attr = 0
	AttrBold Attr = 1 << 0
)

// Cell represents a single terminal cell, the zero value is a blank cell
type Cell struct {
	Rune  rune
	Fg    RGB
	Bg    RGB
	Attrs Attr
}

// Terminal provides low-level terminal access
type Terminal interface {
	// Init enters raw mode, alternate screen buffer, hides cursor
	Init() error

	// Fini restores terminal state. Safe to call multiple times
	Fini()

	// Size returns current terminal dimensions
	Size() (width, height int, err error)

	// ResizeChan returns channel that receives resize events
	ResizeChan() <-chan ResizeEvent

	// Events returns the key event channel
	Events() <-chan Event

	// ColorMode returns the active color capability
	ColorMode() ColorMode

	// Write emits the given cell updates, restoring the cursor afterward
	Write(updates []CellUpdate) error

	// Clear fills screen with specified background color
	Clear(bg RGB) error
}

// ResizeEvent represents a terminal resize
type ResizeEvent struct {
	Width  int
	Height int
}

// termImpl implements Terminal using the Backend interface
type termImpl struct {
	backend Backend

	output   *outputWriter
	input    *inputReader
	resizeCh chan ResizeEvent

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

// New creates a Terminal on the process tty
func New(colorMode ColorMode) Terminal {
	return NewWithBackend(newBackend(), colorMode)
}

// NewWithBackend creates a Terminal over an arbitrary backend
func NewWithBackend(b Backend, colorMode ColorMode) Terminal {
	t := &termImpl{
		backend:  b,
		resizeCh: make(chan ResizeEvent, 1),
	}
	t.output = newOutputWriter(b, colorMode)
	t.input = newInputReader(b)
	return t
}

// Init enters raw mode and sets up terminal
func (t *termImpl) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return err
	}
	if _, _, err := t.backend.Size(); err != nil {
		t.backend.Fini()
		return err
	}

	t.backend.SetResizeHandler(func(w, h int) {
		// Non-blocking send, latest size wins
		select {
		case t.resizeCh <- ResizeEvent{Width: w, Height: h}:
		default:
			select {
			case <-t.resizeCh:
			default:
			}
			select {
			case t.resizeCh <- ResizeEvent{Width: w, Height: h}:
			default:
			}
		}
	})

	t.backend.Write(csiAltScreenEnter)
	t.backend.Write(csiCursorHide)
	t.backend.Write(csiAutoWrapOff)

	if err := t.output.clear(RGBBlack); err != nil {
		t.backend.Fini()
		return err
	}

	t.input.start()

	t.initialized = true
	return nil
}

// Fini restores terminal state
func (t *termImpl) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	t.input.stop()

	t.backend.Write(csiSGR0)
	t.backend.Write(csiCursorShow)
	t.backend.Write(csiAltScreenExit)
	// Re-enable auto-wrap after leaving alt screen so the main buffer has wrap enabled
	t.backend.Write(csiAutoWrapOn)

	t.backend.Fini()

	t.finalized = true
}

// Size returns current terminal dimensions
func (t *termImpl) Size() (int, int, error) {
	return t.backend.Size()
}

// ResizeChan returns the resize event channel
func (t *termImpl) ResizeChan() <-chan ResizeEvent {
	return t.resizeCh
}

// Events returns the key event channel
func (t *termImpl) Events() <-chan Event {
	return t.input.events()
}

// ColorMode returns the active color capability
func (t *termImpl) ColorMode() ColorMode {
	return t.output.colorMode
}

// Write emits cell updates under the terminal lock
func (t *termImpl) Write(updates []CellUpdate) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finalized {
		return ErrClosed
	}
	return t.output.write(updates)
}

// Clear fills screen with background color
func (t *termImpl) Clear(bg RGB) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finalized {
		return ErrClosed
	}
	return t.output.clear(bg)
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Fini() cannot be called normally
func EmergencyReset(w io.Writer) {
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
