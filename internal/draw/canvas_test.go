package draw

import (
	"strings"
	"testing"
)

func TestCanvasScaledSet(t *testing.T) {
	c := NewScaledCanvas(48, 36, 480, 720)
	c.SetFloat(240, 360)
	if !c.Pixel(24, 36) {
		t.Fatalf("pixel (24,36) not set after SetFloat(240,360)")
	}
	c.Clear()
	if c.Pixel(24, 36) {
		t.Fatalf("pixel still set after Clear")
	}
}

func TestCanvasRenderOnlyChangedCells(t *testing.T) {
	c := NewCanvas(4, 2)
	var first strings.Builder
	c.Render(&first)
	if got := strings.Count(first.String(), "H"); got != 8 {
		t.Fatalf("first render wrote %d cells, want 8", got)
	}

	var idle strings.Builder
	c.Render(&idle)
	if idle.Len() != 0 {
		t.Fatalf("unchanged render wrote %q, want nothing", idle.String())
	}

	c.setPixel(1, 0)
	var changed strings.Builder
	c.Render(&changed)
	if got, want := changed.String(), "\033[1;2H▀"; got != want {
		t.Fatalf("render = %q, want %q", got, want)
	}

	c.Clear()
	var cleared strings.Builder
	c.Render(&cleared)
	if got, want := cleared.String(), "\033[1;2H "; got != want {
		t.Fatalf("render after clear = %q, want %q", got, want)
	}
}

func TestCanvasForceRedrawAndTextDirty(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Render(&strings.Builder{})

	c.MarkTextDirty(2, 2, 2)
	var out strings.Builder
	c.Render(&out)
	if got := strings.Count(out.String(), "H"); got != 2 {
		t.Fatalf("dirty render wrote %d cells, want 2", got)
	}

	c.ForceRedraw()
	out.Reset()
	c.Render(&out)
	if got := strings.Count(out.String(), "H"); got != 8 {
		t.Fatalf("forced render wrote %d cells, want 8", got)
	}
}

func TestCanvasOffsetRender(t *testing.T) {
	c := NewCanvas(1, 1)
	c.SetOffset(5, 3)
	c.setPixel(0, 1)
	var out strings.Builder
	c.Render(&out)
	if got, want := out.String(), "\033[4;6H▄"; got != want {
		t.Fatalf("render = %q, want %q", got, want)
	}
}

func TestTerminalToLogical(t *testing.T) {
	c := NewScaledCanvas(48, 36, 480, 720)
	c.SetOffset(10, 2)
	x, y := c.TerminalToLogical(11, 3)
	if x != 5 || y != 10 {
		t.Fatalf("TerminalToLogical(11,3) = (%v,%v), want (5,10)", x, y)
	}
	x, y = c.TerminalToLogical(35, 21)
	if x != 245 || y != 370 {
		t.Fatalf("TerminalToLogical(35,21) = (%v,%v), want (245,370)", x, y)
	}
}

func TestDrawPolygonFilled(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawPolygon([]Point{{X: 1, Y: 1}, {X: 8, Y: 1}, {X: 8, Y: 8}, {X: 1, Y: 8}}, true)
	if !c.Pixel(4, 4) {
		t.Fatalf("interior pixel not filled")
	}
	if c.Pixel(0, 0) {
		t.Fatalf("exterior pixel set")
	}
}

func TestChunkWriterOffset(t *testing.T) {
	var out strings.Builder
	cw := NewChunkWriter(&out, 2, 1)
	cw.WriteAt(1, 1, "ok")
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got, want := out.String(), "\033[2;3Hok"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}
