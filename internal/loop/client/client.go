// Package client runs one terminal player: it reads keys and mouse reports,
// ticks the player's session and renders it on a half-block canvas.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tomz197/coincatch/internal/draw"
	"github.com/tomz197/coincatch/internal/input"
	"github.com/tomz197/coincatch/internal/loop"
	"github.com/tomz197/coincatch/internal/loop/config"
	"github.com/tomz197/coincatch/internal/loop/server"
	"github.com/tomz197/coincatch/internal/object"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	session      *loop.Session
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	effects      loop.Effects
	clock        loop.Clock
	lastInput    time.Time
	idleTimeout  bool
	termSizeFunc draw.TermSizeFunc
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Settings     config.Settings
	Clock        loop.Clock // Defaults to a wall clock
	IdleTimeout  bool       // Disconnect after a long stretch without input
}

// NewClient registers with the server and opens the player's session.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) (*Client, error) {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	clock := opts.Clock
	if clock == nil {
		clock = loop.NewWallClock()
	}

	handle := gs.RegisterClient(opts.Username)
	session, err := gs.OpenSession(handle, opts.Settings, clock.Now())
	if err != nil {
		gs.UnregisterClient(handle.ID)
		return nil, err
	}

	state := NewClientState()
	state.termSizeFunc = termSizeFunc
	state.lastFrame = time.Now()

	// Create canvas with clamped dimensions for max render resolution
	screen := session.Screen()
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, screen.Width, screen.Height)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	return &Client{
		server:       gs,
		handle:       handle,
		session:      session,
		state:        state,
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		writer:       w,
		inputStream:  input.StartStream(r),
		clock:        clock,
		lastInput:    time.Now(),
		idleTimeout:  opts.IdleTimeout,
		termSizeFunc: termSizeFunc,
	}, nil
}

// Run starts the client loop. Blocks until the player quits, the
// connection ends or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	if err := draw.EnterGameScreen(c.writer); err != nil {
		c.server.UnregisterClient(c.handle.ID)
		return fmt.Errorf("client %s: %w", c.handle.Username, err)
	}
	defer func() {
		c.effects.Reset()
		c.server.UnregisterClient(c.handle.ID)
		_ = draw.LeaveGameScreen(c.writer)
	}()

	if err := loop.Run(ctx, c.clock, c); err != nil {
		return fmt.Errorf("client %s: %w", c.handle.Username, err)
	}
	return nil
}

// Session returns the player's session.
func (c *Client) Session() *loop.Session {
	return c.session
}

// Running implements loop.Frame.
func (c *Client) Running() bool {
	return c.state.Running
}

// Update implements loop.Frame: input, server events, resize, commands,
// one session tick, then effects.
func (c *Client) Update(now float64) error {
	frameStart := time.Now()
	c.state.delta = frameStart.Sub(c.state.lastFrame)
	c.state.lastFrame = frameStart

	c.processInput()
	c.processServerEvents()
	c.updateScreen()

	if c.state.shuttingDown {
		c.updateShutdownState()
		return nil
	}

	c.processCommands(now)
	for _, e := range c.session.Tick(now, c) {
		if e.Type == loop.EventCatch {
			object.SpawnSparkles(e.X, e.Y, config.SparkleCount, config.SparkleSpeed, config.SparkleLifetime, &c.effects)
		}
	}

	return c.effects.Update(object.UpdateContext{
		Now:     now,
		Delta:   c.state.delta,
		Input:   c.state.Input,
		Screen:  c.session.Screen(),
		Spawner: &c.effects,
	})
}

// CurrentInput implements loop.Sampler with the frame's keys and the
// mouse position mapped into the play area.
func (c *Client) CurrentInput() input.Input {
	in := c.state.Input
	in.Pointer = c.state.Pointer
	return in
}

// processInput reads the input stream and tracks inactivity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	// A held direction key takes over from the pointer until the mouse moves.
	if m := c.state.Input.Mouse; m.Active && m != c.state.lastMouse {
		c.state.lastMouse = m
		x, y := c.canvas.TerminalToLogical(m.Col, m.Row)
		c.state.Pointer = input.Pointer{X: x, Y: y, Active: true}
	}
	if c.state.Input.Directional() {
		c.state.Pointer.Active = false
	}

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if c.idleTimeout {
		idle := time.Since(c.lastInput).Seconds()
		if idle > config.InactivityDisconnectUser {
			c.state.Running = false
		} else if idle > config.InactivityWarnUser {
			c.state.isInactive = true
		}
	}

	if c.state.Input.Quit {
		c.state.Running = false
	}
}

// processCommands applies restart and end-of-round keys.
func (c *Client) processCommands(now float64) {
	in := c.state.Input
	switch phase := c.session.Phase(); {
	case phase == loop.PhaseGameOver:
		if in.Space || in.Enter || in.Restart {
			input.ResetKeyInput(c.inputStream)
			c.state.Input = input.Input{Mouse: in.Mouse}
			c.session.Restart(now)
		}
	case phase.Playing():
		if in.End {
			c.session.EndRound()
		}
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			if event.Type == server.EventServerShutdown && !c.state.shuttingDown {
				c.state.shuttingDown = true
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.Clear()
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize fits the play area's aspect ratio into the terminal, capped
// at the max render resolution, and computes the centering offset.
// A terminal cell holds two square-ish pixels stacked vertically.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderHeight = min(termHeight, config.MaxTermHeight)
	renderWidth = min(termWidth, config.MaxTermWidth, renderHeight*2*config.PlayWidth/config.PlayHeight)
	if fit := renderWidth * config.PlayHeight / (2 * config.PlayWidth); fit < renderHeight {
		renderHeight = fit
	}
	renderWidth = max(renderWidth, 0)
	renderHeight = max(renderHeight, 0)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
