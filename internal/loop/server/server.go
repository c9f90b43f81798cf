// Package server tracks connected players, builds their sessions and hosts
// the browser version of the game over websockets.
package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/coincatch/internal/logging"
	"github.com/tomz197/coincatch/internal/loop"
	"github.com/tomz197/coincatch/internal/loop/config"
	"github.com/tomz197/coincatch/internal/store"
)

// GameServer is the interface clients use to communicate with the game server.
// Decouples the terminal Client from the concrete Server implementation.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	OpenSession(handle *ClientHandle, settings config.Settings, start float64) (*loop.Session, error)
	Players() int
}

// Server keeps the registry of connected players. Every player runs an
// independent session; the server only hands out sessions, counts players
// and announces shutdown.
type Server struct {
	settings     config.Settings
	stores       *store.Manager
	logger       *log.Logger
	clients      map[int]*ClientHandle
	nextClientID int
	mu           sync.RWMutex
	upgrader     websocket.Upgrader
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// Options configures a Server.
type Options struct {
	Settings config.Settings // Default game mode
	Stores   *store.Manager  // Per-player score files; nil keeps scores in memory
	Logger   *log.Logger
}

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string           // Sanitized player name, also the score file name
	EventsCh chan ClientEvent // Events sent to client (shutdown)
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
)

// NewServer creates a new game server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		settings:     opts.Settings,
		stores:       opts.Stores,
		logger:       logger,
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Settings returns the default game mode.
func (s *Server) Settings() config.Settings {
	return s.settings
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle := &ClientHandle{
		ID:       s.nextClientID,
		Username: store.SanitizeName(username),
		EventsCh: make(chan ClientEvent, 4),
	}
	s.nextClientID++
	s.clients[handle.ID] = handle
	s.logger.Info("player joined", "player", handle.Username, "id", handle.ID, "players", len(s.clients))
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(s.clients, clientID)
	s.logger.Info("player left", "player", handle.Username, "id", clientID, "players", len(s.clients))
}

// Players returns the number of connected players.
func (s *Server) Players() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// OpenSession builds a session for a registered client, backed by the
// client's score file.
func (s *Server) OpenSession(handle *ClientHandle, settings config.Settings, start float64) (*loop.Session, error) {
	var st store.Store = store.NewMemory()
	if s.stores != nil {
		f, err := s.stores.Open(handle.Username)
		if err != nil {
			return nil, fmt.Errorf("open scores for %s: %w", handle.Username, err)
		}
		st = f
	}
	sess, err := loop.NewSession(loop.Options{
		Settings: settings,
		Store:    st,
		Logger:   s.logger.With("player", handle.Username),
		Start:    start,
	})
	if err != nil {
		return nil, fmt.Errorf("new session for %s: %w", handle.Username, err)
	}
	return sess, nil
}

// Shutdown notifies all connected clients and waits for them to disconnect,
// up to the given timeout.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if s.Players() == 0 {
			return
		}
		select {
		case <-deadline:
			s.logger.Warn("shutdown timed out", "players", s.Players())
			return
		case <-ticker.C:
		}
	}
}
