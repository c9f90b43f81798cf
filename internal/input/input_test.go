package input

import (
	"testing"
	"time"
)

func TestArrowKeysAreHeldWithinWindow(t *testing.T) {
	s := newStream()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	s.parse([]byte("\x1b[D\x1b[A"), now)
	in := s.snapshot(now.Add(10*time.Millisecond), nil)
	if !in.Left || !in.Up {
		t.Fatalf("expected left and up held, got %+v", in)
	}
	if in.Right || in.Down {
		t.Fatalf("unexpected keys held: %+v", in)
	}

	later := s.snapshot(now.Add(keyHoldDuration+time.Millisecond), nil)
	if later.Left || later.Up {
		t.Fatalf("keys still held after hold window: %+v", later)
	}
}

func TestLetterBindings(t *testing.T) {
	tests := []struct {
		key   byte
		check func(Input) bool
	}{
		{'a', func(in Input) bool { return in.Left }},
		{'l', func(in Input) bool { return in.Right }},
		{'w', func(in Input) bool { return in.Up }},
		{'k', func(in Input) bool { return in.Down }},
		{'r', func(in Input) bool { return in.Restart }},
		{'e', func(in Input) bool { return in.End }},
		{'q', func(in Input) bool { return in.Quit }},
		{' ', func(in Input) bool { return in.Space }},
		{'\r', func(in Input) bool { return in.Enter }},
	}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, tc := range tests {
		s := newStream()
		s.parse([]byte{tc.key}, now)
		if in := s.snapshot(now, nil); !tc.check(in) {
			t.Fatalf("key %q not mapped, got %+v", tc.key, in)
		}
	}
}

func TestSGRMouseReportIsSticky(t *testing.T) {
	s := newStream()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	s.parse([]byte("\x1b[<35;42;17M"), now)
	in := s.snapshot(now.Add(time.Second), nil)
	if !in.Mouse.Active || in.Mouse.Col != 42 || in.Mouse.Row != 17 {
		t.Fatalf("mouse = %+v, want col 42 row 17 active", in.Mouse)
	}
	if in.Directional() || in.Quit || in.End {
		t.Fatalf("mouse report leaked into keys: %+v", in)
	}
}

func TestSplitMouseReportCarriesOver(t *testing.T) {
	s := newStream()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	s.parse([]byte("\x1b[<35;10"), now)
	if s.mouse.Active {
		t.Fatalf("incomplete report should not update mouse")
	}
	if len(s.pending) == 0 {
		t.Fatalf("expected incomplete report to be kept pending")
	}

	buf := append(append([]byte(nil), s.pending...), []byte(";5m")...)
	s.pending = s.pending[:0]
	s.parse(buf, now)
	if s.mouse.Col != 10 || s.mouse.Row != 5 {
		t.Fatalf("mouse = %+v, want col 10 row 5", s.mouse)
	}
}

func TestResetKeyInputKeepsMouse(t *testing.T) {
	s := newStream()
	now := time.Now()
	s.parse([]byte(" \x1b[<35;3;4M"), now)

	ResetKeyInput(s)
	in := s.snapshot(now, nil)
	if in.Space {
		t.Fatalf("space still held after reset")
	}
	if !in.Mouse.Active {
		t.Fatalf("mouse lost after reset")
	}
}

func TestDirectional(t *testing.T) {
	if (Input{}).Directional() {
		t.Fatalf("empty input reported directional")
	}
	if !(Input{Down: true}).Directional() {
		t.Fatalf("down not reported directional")
	}
}
