package draw

import (
	"strings"
	"testing"
)

// countingWriter records the size of every write it receives.
type countingWriter struct {
	strings.Builder
	writes []int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, len(p))
	return w.Builder.Write(p)
}

func TestChunkWriterFlushResets(t *testing.T) {
	var out strings.Builder
	cw := NewChunkWriter(&out, 0, 0)
	cw.Clear()
	cw.WriteAt(1, 1, "x")
	if cw.Pending() == 0 {
		t.Fatalf("Pending = 0 before Flush")
	}
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if cw.Pending() != 0 {
		t.Fatalf("Pending = %d after Flush, want 0", cw.Pending())
	}
	if got, want := out.String(), seqClear+"\033[1;1Hx"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestChunkWriterLargeFrame(t *testing.T) {
	w := &countingWriter{}
	cw := NewChunkWriter(w, 0, 0)
	frame := strings.Repeat("▀", 20000)
	cw.WriteAt(1, 1, frame)
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if !strings.HasSuffix(w.String(), frame) {
		t.Fatalf("frame was not written intact")
	}
	for _, n := range w.writes {
		if n > 8192 {
			t.Fatalf("write of %d bytes exceeds buffer size", n)
		}
	}
}

func TestGameScreenSequences(t *testing.T) {
	var out strings.Builder
	if err := EnterGameScreen(&out); err != nil {
		t.Fatalf("EnterGameScreen: %v", err)
	}
	if err := LeaveGameScreen(&out); err != nil {
		t.Fatalf("LeaveGameScreen: %v", err)
	}
	got := out.String()
	for _, seq := range []string{seqAltOn, seqAltOff, seqMouseOn, seqMouseOff, seqHideCursor, seqShowCursor} {
		if !strings.Contains(got, seq) {
			t.Fatalf("output %q missing %q", got, seq)
		}
	}
	if strings.Index(got, seqMouseOn) > strings.Index(got, seqMouseOff) {
		t.Fatalf("mouse tracking disabled before it was enabled: %q", got)
	}
}
