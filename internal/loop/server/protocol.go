package server

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tomz197/coincatch/internal/input"
	"github.com/tomz197/coincatch/internal/loop"
)

// Message types on the browser websocket.
const (
	TypeState    = "state"    // server → browser, every frame
	TypeShutdown = "shutdown" // server → browser, before closing
	TypeInput    = "input"    // browser → server, held keys and pointer
	TypeRestart  = "restart"  // browser → server
	TypeEnd      = "end"      // browser → server
)

// CoinState is a coin as the browser draws it.
type CoinState struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"r"`
}

// BasketState is the basket rectangle.
type BasketState struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

// EventState is a session event the browser animates.
type EventState struct {
	Type  string  `json:"type"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	Level int     `json:"level,omitempty"`
}

// Snapshot is the full frame state sent to the browser.
type Snapshot struct {
	Type        string       `json:"type"`
	Mode        string       `json:"mode"`
	Phase       string       `json:"phase"`
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	Coins       []CoinState  `json:"coins"`
	Basket      BasketState  `json:"basket"`
	Score       int          `json:"score"`
	Best        int          `json:"best"`
	Lifetime    int          `json:"lifetime"`
	Level       int          `json:"level"`
	Misses      int          `json:"misses"`
	MaxMisses   int          `json:"maxMisses"`
	AutostartMs float64      `json:"autostartMs,omitempty"`
	BannerMs    float64      `json:"bannerMs,omitempty"`
	Events      []EventState `json:"events,omitempty"`
	Players     int          `json:"players"`
}

// NewSnapshot captures the session's post-tick state. coins is reused to
// avoid per-frame allocation and may be nil.
func NewSnapshot(sess *loop.Session, events []loop.Event, players int, coins []CoinState) Snapshot {
	settings := sess.Settings()
	score := sess.Score()
	b := sess.Basket()

	coins = coins[:0]
	for _, c := range sess.Coins() {
		coins = append(coins, CoinState{X: c.X, Y: c.Y, Radius: c.Radius})
	}

	snap := Snapshot{
		Type:        TypeState,
		Mode:        settings.Name,
		Phase:       sess.Phase().String(),
		Width:       settings.PlayWidth,
		Height:      settings.PlayHeight,
		Coins:       coins,
		Basket:      BasketState{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height},
		Score:       score.Round,
		Best:        score.Best,
		Lifetime:    score.Lifetime,
		Level:       sess.Level(),
		Misses:      sess.Misses(),
		MaxMisses:   settings.MaxMisses,
		AutostartMs: sess.AutostartRemaining(),
		BannerMs:    sess.BannerRemaining(),
		Players:     players,
	}
	for _, e := range events {
		snap.Events = append(snap.Events, EventState{Type: e.Type.String(), X: e.X, Y: e.Y, Level: e.Level})
	}
	return snap
}

// EncodeSnapshot serializes a snapshot for the wire.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// PointerState is the browser pointer in play-area coordinates.
type PointerState struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Active bool    `json:"active"`
}

// ClientMessage is a message from the browser.
type ClientMessage struct {
	Type    string        `json:"type"`
	Left    bool          `json:"left,omitempty"`
	Right   bool          `json:"right,omitempty"`
	Up      bool          `json:"up,omitempty"`
	Down    bool          `json:"down,omitempty"`
	Pointer *PointerState `json:"pointer,omitempty"`
}

// DecodeClientMessage parses a browser message and rejects unknown types.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("decode client message: %w", err)
	}
	switch msg.Type {
	case TypeInput, TypeRestart, TypeEnd:
		return msg, nil
	default:
		return ClientMessage{}, fmt.Errorf("unknown client message type %q", msg.Type)
	}
}

// inputLatch hands the latest browser input from the reader goroutine to
// the tick goroutine. The pointer is sticky: it keeps its last position
// until the browser reports a new one. Commands are consumed once.
type inputLatch struct {
	mu      sync.Mutex
	in      input.Input
	restart bool
	end     bool
}

// apply records a decoded message.
func (l *inputLatch) apply(msg ClientMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch msg.Type {
	case TypeInput:
		l.in.Left = msg.Left
		l.in.Right = msg.Right
		l.in.Up = msg.Up
		l.in.Down = msg.Down
		if msg.Pointer != nil {
			l.in.Pointer = input.Pointer{X: msg.Pointer.X, Y: msg.Pointer.Y, Active: msg.Pointer.Active}
		}
	case TypeRestart:
		l.restart = true
	case TypeEnd:
		l.end = true
	}
}

// CurrentInput implements loop.Sampler.
func (l *inputLatch) CurrentInput() input.Input {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.in
}

// takeCommands returns and clears the pending commands.
func (l *inputLatch) takeCommands() (restart, end bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	restart, end = l.restart, l.end
	l.restart, l.end = false, false
	return restart, end
}

var _ loop.Sampler = (*inputLatch)(nil)
