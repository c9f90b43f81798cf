package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomz197/coincatch/internal/loop"
	"github.com/tomz197/coincatch/internal/loop/config"
)

// Websocket timing. Pings keep idle proxies from dropping the connection.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 4096
)

// HandlePlay upgrades the request to a websocket and runs one session for
// it at the target frame rate. The query parameter name selects the score
// file, mode selects the game mode.
func (s *Server) HandlePlay(w http.ResponseWriter, r *http.Request) {
	settings := s.settings
	if mode := r.URL.Query().Get("mode"); mode != "" {
		m, err := config.ByName(mode)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		settings = m
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	handle := s.RegisterClient(r.URL.Query().Get("name"))
	defer s.UnregisterClient(handle.ID)

	clock := loop.NewWallClock()
	sess, err := s.OpenSession(handle, settings, clock.Now())
	if err != nil {
		s.logger.Error("failed to start session", "player", handle.Username, "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "session unavailable")
		if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
			s.logger.Debug("close failed", "player", handle.Username, "err", err)
		}
		return
	}

	p := &webPlayer{
		server:   s,
		handle:   handle,
		conn:     conn,
		session:  sess,
		running:  true,
		closed:   make(chan struct{}),
		lastPing: time.Now(),
	}
	go p.readLoop()

	if err := loop.Run(r.Context(), clock, p); err != nil {
		s.logger.Debug("connection ended", "player", handle.Username, "err", err)
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		s.logger.Debug("close failed", "player", handle.Username, "err", err)
	}
}

// webPlayer drives one browser session. Update and Draw run on the loop
// goroutine; readLoop only touches the latch and the closed channel.
type webPlayer struct {
	server   *Server
	handle   *ClientHandle
	conn     *websocket.Conn
	session  *loop.Session
	latch    inputLatch
	running  bool
	closed   chan struct{} // Closed when the reader stops
	events   []loop.Event  // Events of the current frame
	coins    []CoinState   // Reused snapshot buffer
	lastPing time.Time
	shutdown bool
}

// readLoop decodes browser messages until the connection fails.
func (p *webPlayer) readLoop() {
	defer close(p.closed)

	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := p.conn.ReadMessage()
		if err != nil {
			return
		}
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		msg, err := DecodeClientMessage(payload)
		if err != nil {
			p.server.logger.Debug("discarding malformed message", "player", p.handle.Username, "err", err)
			continue
		}
		p.latch.apply(msg)
	}
}

// Update implements loop.Frame.
func (p *webPlayer) Update(now float64) error {
	select {
	case <-p.closed:
		p.running = false
		return nil
	default:
	}

	select {
	case event, ok := <-p.handle.EventsCh:
		if !ok || event.Type == EventServerShutdown {
			p.shutdown = true
		}
	default:
	}

	// A restart that arrives with the end of the round waits for the next
	// press, so the game over screen is shown.
	restart, end := p.latch.takeCommands()
	ended := end && p.session.EndRound()
	if restart && !ended {
		p.session.Restart(now)
	}
	p.events = p.session.Tick(now, &p.latch)
	return nil
}

// Draw implements loop.Frame by pushing the frame snapshot.
func (p *webPlayer) Draw() error {
	if p.shutdown {
		p.running = false
		return p.write(websocket.TextMessage, []byte(`{"type":"`+TypeShutdown+`"}`))
	}
	if !p.running {
		return nil
	}

	snap := NewSnapshot(p.session, p.events, p.server.Players(), p.coins)
	p.coins = snap.Coins
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := p.write(websocket.TextMessage, data); err != nil {
		return err
	}

	if time.Since(p.lastPing) >= pingPeriod {
		p.lastPing = time.Now()
		if err := p.write(websocket.PingMessage, nil); err != nil {
			return err
		}
	}
	return nil
}

// Running implements loop.Frame.
func (p *webPlayer) Running() bool {
	return p.running
}

func (p *webPlayer) write(messageType int, data []byte) error {
	p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := p.conn.WriteMessage(messageType, data); err != nil {
		p.running = false
		return fmt.Errorf("write to %s: %w", p.handle.Username, err)
	}
	return nil
}
