// Package input turns a raw terminal byte stream into a per-frame input
// reading: held direction keys, command keys and a sticky mouse position.
package input

import (
	"bufio"
	"strconv"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report repeats, so this bridges the gap between them.
const keyHoldDuration = 50 * time.Millisecond

// Mouse is the last pointer position reported by the terminal, in 1-based
// terminal cells.
type Mouse struct {
	Col, Row int
	Active   bool // At least one mouse report has been seen
}

// Pointer is a pointer position in logical play-area coordinates.
type Pointer struct {
	X, Y   float64
	Active bool
}

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Up      bool
	Down    bool
	Space   bool
	Enter   bool
	Restart bool
	End     bool
	Mouse   Mouse   // Raw terminal pointer (set by Stream)
	Pointer Pointer // Logical pointer (set by the host before sampling)
	Pressed []byte
}

// Directional reports whether any direction key is held.
func (in Input) Directional() bool {
	return in.Left || in.Right || in.Up || in.Down
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit    time.Time
	left    time.Time
	right   time.Time
	up      time.Time
	down    time.Time
	space   time.Time
	enter   time.Time
	restart time.Time
	end     time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch      chan byte
	state   keyState
	mouse   Mouse
	pending []byte // Incomplete escape sequence carried to the next frame
}

func newStream() *Stream {
	return &Stream{ch: make(chan byte, 256)}
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and SGR mouse reports.
// Uses key state persistence to allow detecting simultaneous key combinations.
func ReadInput(s *Stream) Input {
	now := time.Now()
	buf := append([]byte(nil), s.pending...)
	s.pending = s.pending[:0]

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	s.parse(buf, now)
	return s.snapshot(now, buf)
}

// ResetKeyInput forgets all held keys so a key that started a round does not
// also act inside it. The mouse position is kept.
func ResetKeyInput(s *Stream) {
	if s == nil {
		return
	}
	s.state = keyState{}
}

// snapshot builds an Input from key state - keys are "pressed" if seen within
// the hold duration.
func (s *Stream) snapshot(now time.Time, pressed []byte) Input {
	held := func(t time.Time) bool {
		return !t.IsZero() && now.Sub(t) < keyHoldDuration
	}
	return Input{
		Quit:    held(s.state.quit),
		Left:    held(s.state.left),
		Right:   held(s.state.right),
		Up:      held(s.state.up),
		Down:    held(s.state.down),
		Space:   held(s.state.space),
		Enter:   held(s.state.enter),
		Restart: held(s.state.restart),
		End:     held(s.state.end),
		Mouse:   s.mouse,
		Pressed: pressed,
	}
}

// parse updates key state timestamps and the mouse position from buf.
func (s *Stream) parse(buf []byte, now time.Time) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+1 < len(buf) && buf[i+1] == '[' {
			if i+2 >= len(buf) {
				s.pending = append(s.pending, buf[i:]...)
				return
			}
			switch buf[i+2] {
			case 'A':
				s.state.up = now
				i += 2
				continue
			case 'B':
				s.state.down = now
				i += 2
				continue
			case 'C':
				s.state.right = now
				i += 2
				continue
			case 'D':
				s.state.left = now
				i += 2
				continue
			case '<':
				n, complete := s.parseMouse(buf[i+3:])
				if !complete {
					s.pending = append(s.pending, buf[i:]...)
					return
				}
				i += 2 + n
				continue
			}
		}

		applyByteToState(&s.state, b, now)
	}
}

// parseMouse parses the body of an SGR mouse report ("b;col;rowM" or "...m").
// Returns the number of bytes consumed and whether the report was complete.
func (s *Stream) parseMouse(body []byte) (int, bool) {
	var fields [3]int
	field := 0
	start := 0
	for j, c := range body {
		switch {
		case c >= '0' && c <= '9':
			continue
		case c == ';' && field < 2:
			fields[field], _ = strconv.Atoi(string(body[start:j]))
			field++
			start = j + 1
		case (c == 'M' || c == 'm') && field == 2:
			fields[2], _ = strconv.Atoi(string(body[start:j]))
			s.mouse = Mouse{Col: fields[1], Row: fields[2], Active: true}
			return j + 1, true
		default:
			// Malformed report: drop what was scanned so far.
			return j, true
		}
	}
	return len(body), false
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		state.quit = now
	case 'a', 'A', 'j', 'J', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'i', 'I':
		state.up = now
	case 's', 'S', 'k', 'K':
		state.down = now
	case 'r', 'R':
		state.restart = now
	case 'e', 'E':
		state.end = now
	case ' ':
		state.space = now
	case '\n', '\r':
		state.enter = now
	}
}
