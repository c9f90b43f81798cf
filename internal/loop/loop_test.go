package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomz197/coincatch/internal/object"
)

type countingFrame struct {
	updates, draws int
	stopAfter      int
	stamps         []float64
	err            error
}

func (f *countingFrame) Update(now float64) error {
	f.updates++
	f.stamps = append(f.stamps, now)
	return f.err
}

func (f *countingFrame) Draw() error {
	f.draws++
	return nil
}

func (f *countingFrame) Running() bool {
	return f.stopAfter == 0 || f.updates < f.stopAfter
}

func TestRunStopsWhenFrameStops(t *testing.T) {
	clock := &ManualClock{}
	f := &countingFrame{stopAfter: 3}
	if err := run(context.Background(), clock, f, time.Millisecond); err != nil {
		t.Fatalf("run: %v", err)
	}
	if f.updates != 3 || f.draws != 3 {
		t.Fatalf("updates %d draws %d, want 3 each", f.updates, f.draws)
	}
}

func TestRunReturnsUpdateError(t *testing.T) {
	want := errors.New("boom")
	f := &countingFrame{err: want}
	if err := run(context.Background(), &ManualClock{}, f, time.Millisecond); !errors.Is(err, want) {
		t.Fatalf("run error = %v, want %v", err, want)
	}
	if f.draws != 0 {
		t.Fatalf("drew %d frames after a failed update", f.draws)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	f := &countingFrame{}
	if err := run(ctx, NewWallClock(), f, time.Millisecond); err != nil {
		t.Fatalf("run: %v", err)
	}
	if f.updates == 0 {
		t.Fatalf("no frames before cancel")
	}
	for i := 1; i < len(f.stamps); i++ {
		if f.stamps[i] < f.stamps[i-1] {
			t.Fatalf("wall clock went backwards: %v then %v", f.stamps[i-1], f.stamps[i])
		}
	}
}

func TestManualClock(t *testing.T) {
	var c ManualClock
	c.Advance(16)
	c.Set(10)
	if got := c.Now(); got != 16 {
		t.Fatalf("Now = %v, want 16", got)
	}
	c.Set(40)
	c.Advance(-5)
	if got := c.Now(); got != 40 {
		t.Fatalf("Now = %v, want 40", got)
	}
}

func TestEffectsExpireAndRelease(t *testing.T) {
	var fx Effects
	object.SpawnSparkles(100, 100, 6, 100, 0.2, &fx)
	if fx.Len() != 6 {
		t.Fatalf("Len = %d, want 6", fx.Len())
	}

	ctx := object.UpdateContext{Delta: 50 * time.Millisecond, Screen: object.Screen{Width: 480, Height: 720}}
	if err := fx.Update(ctx); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(fx.Objects) != 6 {
		t.Fatalf("live effects = %d, want 6", len(fx.Objects))
	}
	for i := 0; i < 4; i++ {
		fx.Update(ctx)
	}
	if fx.Len() != 0 {
		t.Fatalf("effects after lifetime = %d, want 0", fx.Len())
	}

	object.SpawnSparkles(0, 0, 3, 100, 1, &fx)
	fx.Reset()
	if fx.Len() != 0 {
		t.Fatalf("Len after Reset = %d, want 0", fx.Len())
	}
}
