package terminal

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

// memBackend is an in-memory Backend capturing output
type memBackend struct {
	mu      sync.Mutex
	out     bytes.Buffer
	w, h    int
	sizeErr error
	input   chan []byte
	resize  func(w, h int)
}

func newMemBackend(w, h int) *memBackend {
	return &memBackend{w: w, h: h, input: make(chan []byte, 4)}
}

func (b *memBackend) Init() error { return nil }
func (b *memBackend) Fini()       {}

func (b *memBackend) Size() (int, int, error) {
	if b.sizeErr != nil {
		return 0, 0, b.sizeErr
	}
	return b.w, b.h, nil
}

func (b *memBackend) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.out.Write(p)
}

func (b *memBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	select {
	case <-stopCh:
		return nil, nil
	case data := <-b.input:
		return data, nil
	}
}

func (b *memBackend) SetResizeHandler(handler func(w, h int)) { b.resize = handler }

func (b *memBackend) take() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.out.String()
	b.out.Reset()
	return s
}

func TestWriteCoalescesContiguousRun(t *testing.T) {
	be := newMemBackend(10, 3)
	term := NewWithBackend(be, ColorModeTrueColor)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer term.Fini()
	be.take()

	fg := RGB{255, 0, 0}
	updates := []CellUpdate{
		{X: 2, Y: 1, Cell: Cell{Rune: 'a', Fg: fg}},
		{X: 3, Y: 1, Cell: Cell{Rune: 'b', Fg: fg}},
		{X: 4, Y: 1, Cell: Cell{Rune: '▇', Fg: fg}},
	}
	if err := term.Write(updates); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := be.take()

	if n := strings.Count(out, "H"); n != 1 {
		t.Errorf("Expected exactly one cursor position, got %d in %q", n, out)
	}
	if !strings.Contains(out, "\x1b[2;3H") {
		t.Errorf("Expected cursor move to row 2 col 3, got %q", out)
	}
	if !strings.Contains(out, "ab▇") {
		t.Errorf("Expected contiguous glyphs, got %q", out)
	}
	if strings.Count(out, "38;2;255;0;0") != 1 {
		t.Errorf("Expected foreground emitted once, got %q", out)
	}
	if !strings.HasPrefix(out, "\x1b7") || !strings.HasSuffix(out, "\x1b8") {
		t.Errorf("Expected cursor save/restore around batch, got %q", out)
	}
}

func TestWriteWideRuneAdvancesTwoColumns(t *testing.T) {
	cases := []struct {
		name    string
		updates []CellUpdate
	}{
		{"with filler", []CellUpdate{
			{X: 0, Y: 0, Cell: Cell{Rune: '数'}},
			{X: 1, Y: 0, Cell: Cell{Rune: ' '}},
			{X: 2, Y: 0, Cell: Cell{Rune: 'X'}},
		}},
		{"without filler", []CellUpdate{
			{X: 0, Y: 0, Cell: Cell{Rune: '数'}},
			{X: 2, Y: 0, Cell: Cell{Rune: 'X'}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			be := newMemBackend(10, 2)
			term := NewWithBackend(be, ColorModeTrueColor)
			if err := term.Init(); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			defer term.Fini()
			be.take()

			if err := term.Write(tc.updates); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			out := be.take()
			if !strings.Contains(out, "数X") {
				t.Errorf("Expected X right after the wide rune, got %q", out)
			}
			if n := strings.Count(out, "H"); n != 1 {
				t.Errorf("Expected exactly one cursor position, got %d in %q", n, out)
			}
		})
	}
}

func TestWriteGapUsesCursorForward(t *testing.T) {
	be := newMemBackend(10, 3)
	term := NewWithBackend(be, ColorMode256)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer term.Fini()
	be.take()

	updates := []CellUpdate{
		{X: 0, Y: 0, Cell: Cell{Rune: 'x'}},
		{X: 5, Y: 0, Cell: Cell{Rune: 'y'}},
		{X: 0, Y: 2, Cell: Cell{Rune: 'z'}},
	}
	if err := term.Write(updates); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := be.take()

	if !strings.Contains(out, "\x1b[4C") {
		t.Errorf("Expected forward move of 4, got %q", out)
	}
	if !strings.Contains(out, "\x1b[3;1H") {
		t.Errorf("Expected absolute move for new row, got %q", out)
	}
	if !strings.Contains(out, "38;5;16") {
		t.Errorf("Expected 256-color black foreground, got %q", out)
	}
}

func TestWriteEmptyBatchWritesNothing(t *testing.T) {
	be := newMemBackend(4, 4)
	term := NewWithBackend(be, ColorModeTrueColor)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer term.Fini()
	be.take()

	if err := term.Write(nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if out := be.take(); out != "" {
		t.Errorf("Expected no output, got %q", out)
	}
}

func TestWriteAfterFini(t *testing.T) {
	be := newMemBackend(4, 4)
	term := NewWithBackend(be, ColorModeTrueColor)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	term.Fini()
	term.Fini()

	err := term.Write([]CellUpdate{{X: 0, Y: 0, Cell: Cell{Rune: 'a'}}})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}

func TestInitFailsWithoutSize(t *testing.T) {
	be := newMemBackend(0, 0)
	be.sizeErr = errors.New("no tty")
	term := NewWithBackend(be, ColorModeTrueColor)
	if err := term.Init(); err == nil {
		t.Fatal("Expected Init to fail when size is unknown")
	}
}

func TestResizeHandlerKeepsLatest(t *testing.T) {
	be := newMemBackend(10, 10)
	term := NewWithBackend(be, ColorModeTrueColor)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer term.Fini()

	be.resize(20, 5)
	be.resize(30, 6)

	ev := <-term.ResizeChan()
	if ev.Width != 30 || ev.Height != 6 {
		t.Errorf("Expected latest resize 30x6, got %dx%d", ev.Width, ev.Height)
	}
}

func TestInputQuitKeys(t *testing.T) {
	be := newMemBackend(10, 10)
	term := NewWithBackend(be, ColorModeTrueColor)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer term.Fini()

	be.input <- []byte("q")
	ev := <-term.Events()
	if !ev.IsQuit() {
		t.Errorf("Expected 'q' to quit, got %+v", ev)
	}
}

func TestParseKeys(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []Key
	}{
		{"ctrl-c", []byte{0x03}, []Key{KeyCtrlC}},
		{"lone escape", []byte{0x1b}, []Key{KeyEscape}},
		{"arrow swallowed", []byte("\x1b[A"), nil},
		{"runes", []byte("ab"), []Key{KeyRune, KeyRune}},
		{"enter", []byte("\r"), []Key{KeyEnter}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseKeys(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d events, got %d", len(tt.want), len(got))
			}
			for i, ev := range got {
				if ev.Key != tt.want[i] {
					t.Errorf("Event %d: expected key %d, got %d", i, tt.want[i], ev.Key)
				}
			}
		})
	}
}

func TestRGBTo256(t *testing.T) {
	tests := []struct {
		c    RGB
		want uint8
	}{
		{RGB{0, 0, 0}, 16},
		{RGB{255, 255, 255}, 231},
		{RGB{255, 0, 0}, 196},
		{RGB{0, 0, 255}, 21},
		{RGB{128, 128, 128}, 244},
	}
	for _, tt := range tests {
		if got := RGBTo256(tt.c); got != tt.want {
			t.Errorf("RGBTo256(%v): expected %d, got %d", tt.c, tt.want, got)
		}
	}
}

func TestParseColorMode(t *testing.T) {
	if ParseColorMode("256") != ColorMode256 {
		t.Error("Expected 256 mode")
	}
	if ParseColorMode("24bit") != ColorModeTrueColor {
		t.Error("Expected truecolor mode")
	}
}
