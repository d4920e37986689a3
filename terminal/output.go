package terminal

import (
	"bufio"
	"io"

	"github.com/mattn/go-runewidth"
)

// CellUpdate is one changed cell produced by the compositor diff
type CellUpdate struct {
	X, Y int
	Cell Cell
}

// outputWriter serializes cell updates into ANSI sequences
type outputWriter struct {
	colorMode ColorMode
	writer    *bufio.Writer

	cursorX     int
	cursorY     int
	cursorValid bool

	// Style state for coalescing
	lastFg    RGB
	lastBg    RGB
	lastAttr  Attr
	lastValid bool
}

func newOutputWriter(w io.Writer, colorMode ColorMode) *outputWriter {
	return &outputWriter{
		writer:    bufio.NewWriterSize(w, 65536),
		colorMode: colorMode,
	}
}

// write emits updates in order, positioning the cursor only at run breaks
// Cursor position is saved before and restored after the batch
func (o *outputWriter) write(updates []CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	w := o.writer
	w.Write(escCursorSave)
	o.cursorValid = false

	// A wide rune covers the next cell too; a blank filler there is not written
	fillerX, fillerY := -1, -1

	for _, u := range updates {
		if u.X == fillerX && u.Y == fillerY && (u.Cell.Rune == ' ' || u.Cell.Rune == 0) {
			continue
		}
		if !o.cursorValid || u.X != o.cursorX || u.Y != o.cursorY {
			if o.cursorValid && u.Y == o.cursorY && u.X > o.cursorX {
				writeCursorForward(w, u.X-o.cursorX)
			} else {
				writeCursorPos(w, u.X, u.Y)
			}
			o.cursorX = u.X
			o.cursorY = u.Y
			o.cursorValid = true
		}

		c := u.Cell
		o.writeStyleCoalesced(w, c.Fg, c.Bg, c.Attrs)

		r := c.Rune
		width := 1
		switch {
		case r == 0:
			r = ' '
		case r >= 0x80:
			width = runewidth.RuneWidth(r)
			if width == 0 {
				// Zero-width runes would not advance the cursor
				r, width = ' ', 1
			}
		}
		if r < 0x80 {
			w.WriteByte(byte(r))
		} else {
			w.WriteRune(r)
		}
		o.cursorX += width
		if width == 2 {
			fillerX, fillerY = u.X+1, u.Y
		}
	}

	w.Write(csiSGR0)
	w.Write(escCursorRestore)
	o.lastValid = false
	o.cursorValid = false

	return w.Flush()
}

// writeStyleCoalesced emits a single combined SGR sequence when style changes
func (o *outputWriter) writeStyleCoalesced(w *bufio.Writer, fg, bg RGB, attr Attr) {
	fgChanged := !o.lastValid || fg != o.lastFg
	bgChanged := !o.lastValid || bg != o.lastBg
	attrChanged := !o.lastValid || attr != o.lastAttr

	if !fgChanged && !bgChanged && !attrChanged {
		return
	}

	if attrChanged {
		// Attribute removal requires a reset, so restate everything
		w.Write(csi)
		w.WriteByte('0')
		if attr&AttrBold != 0 {
			w.Write([]byte(";1"))
		}
		w.WriteByte(';')
		o.writeColorParams(w, 38, fg)
		w.WriteByte(';')
		o.writeColorParams(w, 48, bg)
		w.WriteByte('m')
	} else if fgChanged && bgChanged {
		w.Write(csi)
		o.writeColorParams(w, 38, fg)
		w.WriteByte(';')
		o.writeColorParams(w, 48, bg)
		w.WriteByte('m')
	} else if fgChanged {
		o.writeFgFull(w, fg)
	} else {
		o.writeBgFull(w, bg)
	}

	o.lastFg = fg
	o.lastBg = bg
	o.lastAttr = attr
	o.lastValid = true
}

// writeColorParams writes "38;2;R;G;B" / "38;5;N" style parameters (no CSI, no 'm')
func (o *outputWriter) writeColorParams(w *bufio.Writer, base int, c RGB) {
	writeInt(w, base)
	if o.colorMode == ColorModeTrueColor {
		w.Write([]byte(";2;"))
		writeInt(w, int(c.R))
		w.WriteByte(';')
		writeInt(w, int(c.G))
		w.WriteByte(';')
		writeInt(w, int(c.B))
		return
	}
	w.Write([]byte(";5;"))
	writeInt(w, int(RGBTo256(c)))
}

func (o *outputWriter) writeFgFull(w *bufio.Writer, fg RGB) {
	if o.colorMode == ColorModeTrueColor {
		w.Write(csiFgRGB)
		writeInt(w, int(fg.R))
		w.WriteByte(';')
		writeInt(w, int(fg.G))
		w.WriteByte(';')
		writeInt(w, int(fg.B))
	} else {
		w.Write(csiFg256)
		writeInt(w, int(RGBTo256(fg)))
	}
	w.WriteByte('m')
}

func (o *outputWriter) writeBgFull(w *bufio.Writer, bg RGB) {
	if o.colorMode == ColorModeTrueColor {
		w.Write(csiBgRGB)
		writeInt(w, int(bg.R))
		w.WriteByte(';')
		writeInt(w, int(bg.G))
		w.WriteByte(';')
		writeInt(w, int(bg.B))
	} else {
		w.Write(csiBg256)
		writeInt(w, int(RGBTo256(bg)))
	}
	w.WriteByte('m')
}

// clear writes a clear screen with specified background
func (o *outputWriter) clear(bg RGB) error {
	w := o.writer
	w.Write(csiSGR0)
	o.writeBgFull(w, bg)
	w.Write(csiClear)
	w.Write(csiSGR0)

	o.lastValid = false
	o.cursorValid = false
	return w.Flush()
}
