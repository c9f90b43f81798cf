package client

import (
	"time"

	"github.com/tomz197/coincatch/internal/draw"
	"github.com/tomz197/coincatch/internal/input"
	"github.com/tomz197/coincatch/internal/loop"
)

// ClientState holds per-connection state that is not part of the session:
// input, screen bookkeeping, inactivity and shutdown timers.
type ClientState struct {
	Input         input.Input
	Pointer       input.Pointer     // Last mouse position in play-area coordinates
	lastMouse     input.Mouse       // Last mouse report, to tell moves from repeats
	termSizeFunc  draw.TermSizeFunc // Function to get terminal size
	Running       bool              // Client loop running
	delta         time.Duration     // Frame delta time (effects only)
	lastFrame     time.Time
	shuttingDown  bool
	shutdownTimer float64 // Countdown before auto-disconnect on shutdown
	isInactive    bool    // Whether the client is in inactive warning state

	// Previous frame's screen, to detect transitions that need a full clear
	prevPhase   loop.Phase
	wasInactive bool
	wasShutdown bool
	drawnOnce   bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Running: true,
	}
}
