package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Terminal control sequences.
const (
	seqClear      = "\033[H\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
	seqAltOn      = "\033[?1049h"
	seqAltOff     = "\033[?1049l"
	// Any-motion mouse tracking reported in SGR form: ESC [ < b ; col ; row M
	seqMouseOn  = "\033[?1003h\033[?1006h"
	seqMouseOff = "\033[?1006l\033[?1003l"
)

// EnterGameScreen switches to the alternate screen, hides the cursor and
// turns on mouse tracking, in a single write so it arrives in one packet
// over SSH.
func EnterGameScreen(w io.Writer) error {
	_, err := io.WriteString(w, seqAltOn+seqHideCursor+seqMouseOn+seqClear)
	return err
}

// LeaveGameScreen undoes EnterGameScreen and leaves the user's shell as it
// was before the game started.
func LeaveGameScreen(w io.Writer) error {
	_, err := io.WriteString(w, seqMouseOff+seqClear+seqShowCursor+seqAltOff)
	return err
}

// ChunkWriter collects one frame of terminal output (canvas cells and text
// overlays) and writes it in chunks no larger than maxChunkSize, which keeps
// SSH channel writes small. Text positions are canvas-relative and shifted
// by the centering offset.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer
	numBuf [20]byte // Scratch for allocation-free integer formatting
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w. offsetCol and
// offsetRow shift every WriteAt position.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		bufw:   bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the centering offset after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// Clear queues a full terminal clear. Used on screen transitions and
// resizes.
func (cw *ChunkWriter) Clear() {
	cw.buf.WriteString(seqClear)
}

// WriteAt queues s at canvas-relative 1-based col and row.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.buf.WriteByte('H')
	cw.buf.WriteString(s)
}

// Write implements io.Writer so Canvas.Render can queue into the frame.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// Pending returns the number of queued bytes.
func (cw *ChunkWriter) Pending() int {
	return cw.buf.Len()
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush writes the queued frame in chunks and resets the queue.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data[:min(len(data), maxChunkSize)]
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// TermSizeFunc returns the terminal dimensions in cells.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of the local terminal on stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}
