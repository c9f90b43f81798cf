package object

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/coincatch/internal/draw"
	"github.com/tomz197/coincatch/internal/input"
)

const (
	testWidth  = 480.0
	testHeight = 720.0
)

func testScreen() Screen {
	return Screen{Width: testWidth, Height: testHeight}
}

func TestNewCoinSpawnsInsidePlayWidth(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		c := NewCoin(testWidth, 20, 3, rng)
		if c.X < 20 || c.X > testWidth-20 {
			t.Fatalf("coin x = %v outside [20, %v]", c.X, testWidth-20)
		}
		if c.Y != -20 {
			t.Fatalf("coin y = %v, want -20", c.Y)
		}
		if !c.Active || c.Speed != 3 {
			t.Fatalf("coin = %+v, want active with speed 3", c)
		}
	}
}

func TestCoinAdvanceUntilInactive(t *testing.T) {
	c := &Coin{X: 100, Y: -20, Radius: 20, Speed: 7, Active: true}
	prev := c.Y
	ticks := 0
	for c.Active {
		c.Advance(testHeight)
		ticks++
		if got := c.Y - prev; got != 7 {
			t.Fatalf("tick %d: y advanced by %v, want 7", ticks, got)
		}
		prev = c.Y
		if ticks > 1000 {
			t.Fatalf("coin never left the play area")
		}
	}
	if c.Y <= testHeight+c.Radius {
		t.Fatalf("coin went inactive at y=%v, before passing %v", c.Y, testHeight+c.Radius)
	}
	if c.Y-c.Speed > testHeight+c.Radius {
		t.Fatalf("coin went inactive a tick late at y=%v", c.Y)
	}

	frozen := c.Y
	c.Advance(testHeight)
	if c.Y != frozen {
		t.Fatalf("inactive coin moved from %v to %v", frozen, c.Y)
	}
}

func casualBasket() *Basket {
	return NewBasket(testScreen(), BasketOptions{
		Width: 80, Height: 60, Margin: 40, Smoothing: 0.15, KeyStep: 10,
	})
}

func leveledBasket() *Basket {
	return NewBasket(testScreen(), BasketOptions{
		Width: 80, Height: 60, Margin: 40, Smoothing: 0.2, KeyStep: 10,
		Vertical: true, BandTop: 0.6,
	})
}

func TestBasketStartsCentered(t *testing.T) {
	b := casualBasket()
	if b.X != testWidth/2-40 {
		t.Fatalf("x = %v, want %v", b.X, testWidth/2-40)
	}
	if b.Y != testHeight-60-40 {
		t.Fatalf("y = %v, want %v", b.Y, testHeight-100)
	}
	if b.TargetX != b.X || b.TargetY != b.Y {
		t.Fatalf("target %v,%v not on position %v,%v", b.TargetX, b.TargetY, b.X, b.Y)
	}
}

func TestBasketPointerCentersAndClamps(t *testing.T) {
	b := casualBasket()
	in := Input{}
	in.Pointer.Active = true
	in.Pointer.X = 300
	in.Pointer.Y = 10

	b.ComputeTarget(in, testScreen())
	if b.TargetX != 260 {
		t.Fatalf("targetX = %v, want 260", b.TargetX)
	}
	if b.TargetY != b.Y {
		t.Fatalf("casual basket moved vertically: targetY=%v y=%v", b.TargetY, b.Y)
	}

	in.Pointer.X = -500
	b.ComputeTarget(in, testScreen())
	if b.TargetX != 0 {
		t.Fatalf("targetX = %v, want clamped to 0", b.TargetX)
	}
	in.Pointer.X = 5000
	b.ComputeTarget(in, testScreen())
	if b.TargetX != testWidth-80 {
		t.Fatalf("targetX = %v, want clamped to %v", b.TargetX, testWidth-80)
	}
}

func TestBasketKeysOverridePointer(t *testing.T) {
	b := casualBasket()
	start := b.TargetX
	in := Input{Left: true}
	in.Pointer.Active = true
	in.Pointer.X = 400

	b.ComputeTarget(in, testScreen())
	if b.TargetX != start-10 {
		t.Fatalf("targetX = %v, want %v", b.TargetX, start-10)
	}

	// Up/Down are ignored without vertical movement, so the pointer wins.
	b.ComputeTarget(Input{Up: true, Pointer: in.Pointer}, testScreen())
	if b.TargetX != 360 {
		t.Fatalf("targetX = %v, want 360 from pointer", b.TargetX)
	}
}

func TestBasketVerticalBand(t *testing.T) {
	b := leveledBasket()
	for i := 0; i < 200; i++ {
		b.ComputeTarget(Input{Up: true}, testScreen())
	}
	if want := testHeight * 0.6; b.TargetY != want {
		t.Fatalf("targetY = %v, want band top %v", b.TargetY, want)
	}
	for i := 0; i < 200; i++ {
		b.ComputeTarget(Input{Down: true}, testScreen())
	}
	if want := testHeight - 60 - 40; b.TargetY != want {
		t.Fatalf("targetY = %v, want band bottom %v", b.TargetY, want)
	}

	in := Input{}
	in.Pointer = input.Pointer{X: 240, Y: 500, Active: true}
	b.ComputeTarget(in, testScreen())
	if b.TargetX != 200 || b.TargetY != 470 {
		t.Fatalf("target = %v,%v, want 200,470", b.TargetX, b.TargetY)
	}
}

func TestBasketNoInputKeepsTarget(t *testing.T) {
	b := casualBasket()
	b.TargetX = 123
	b.ComputeTarget(Input{}, testScreen())
	if b.TargetX != 123 {
		t.Fatalf("targetX = %v, want 123", b.TargetX)
	}
}

func TestBasketFollowIsSmooth(t *testing.T) {
	b := leveledBasket()
	b.TargetX = 0
	b.TargetY = testHeight * 0.6
	for i := 0; i < 30; i++ {
		prevX, prevY := b.X, b.Y
		b.Follow()
		if !(b.X < prevX && b.X > b.TargetX) {
			t.Fatalf("tick %d: x=%v not strictly between %v and %v", i, b.X, b.TargetX, prevX)
		}
		if !(b.Y < prevY && b.Y > b.TargetY) {
			t.Fatalf("tick %d: y=%v not strictly between %v and %v", i, b.Y, b.TargetY, prevY)
		}
		wantX := prevX + (b.TargetX-prevX)*0.2
		if b.X != wantX {
			t.Fatalf("tick %d: x=%v, want %v", i, b.X, wantX)
		}
	}
}

func TestBasketBounds(t *testing.T) {
	b := casualBasket()
	r := b.Bounds()
	if r.Left != b.X || r.Right != b.X+80 || r.Top != b.Y || r.Bottom != b.Y+60 {
		t.Fatalf("bounds = %+v for basket at %v,%v", r, b.X, b.Y)
	}
}

type collectSpawner struct {
	objs []Object
}

func (c *collectSpawner) Spawn(obj Object) {
	c.objs = append(c.objs, obj)
}

func TestSparklesExpire(t *testing.T) {
	sp := &collectSpawner{}
	SpawnSparkles(100, 100, 6, 50, 0.4, sp)
	if len(sp.objs) != 6 {
		t.Fatalf("spawned %d sparkles, want 6", len(sp.objs))
	}
	ctx := UpdateContext{Delta: 100 * time.Millisecond}
	for _, obj := range sp.objs {
		s := obj.(*Sparkle)
		if s.VY >= 0 {
			t.Fatalf("sparkle velocity %v should point up", s.VY)
		}
		removed := false
		for i := 0; i < 10 && !removed; i++ {
			removed, _ = s.Update(ctx)
		}
		if !removed {
			t.Fatalf("sparkle never expired, ttl=%v", s.TTL)
		}
		ReleaseObject(s)
	}
}

func TestSparkleLeavesPlayArea(t *testing.T) {
	s := newSparkle(5, 100, -200, 0, 1)
	ctx := UpdateContext{Delta: 50 * time.Millisecond, Screen: testScreen()}
	if removed, _ := s.Update(ctx); !removed {
		t.Fatalf("sparkle at x=%v should be removed", s.X)
	}
}

func TestTextUsesPositionedWriter(t *testing.T) {
	var buf bytes.Buffer
	cw := draw.NewChunkWriter(&buf, 3, 2)
	if err := (Text{Col: 1, Row: 1, Value: "hi"}).Draw(DrawContext{Writer: cw}); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got, want := buf.String(), "\033[3;4Hhi"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestTextColorAndCentering(t *testing.T) {
	var buf bytes.Buffer
	txt := Centered(10, 0, "$ 1,000")
	txt.Color = draw.ColorYellow
	if txt.Col != 7 || txt.Width() != 7 {
		t.Fatalf("col, width = %d, %d, want 7, 7", txt.Col, txt.Width())
	}
	if err := txt.Draw(DrawContext{Writer: &buf}); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if got, want := buf.String(), "\033[1;7H"+draw.ColorYellow+"$ 1,000"+draw.ColorReset; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestBlink(t *testing.T) {
	tests := []struct {
		t, half float64
		want    bool
	}{
		{0, 125, true},
		{130, 125, false},
		{260, 125, true},
		{5, 0, true},
	}
	for _, tt := range tests {
		if got := Blink(tt.t, tt.half); got != tt.want {
			t.Fatalf("Blink(%v, %v) = %v, want %v", tt.t, tt.half, got, tt.want)
		}
	}
}
