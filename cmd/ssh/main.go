package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/coincatch/internal/config"
	"github.com/tomz197/coincatch/internal/draw"
	applog "github.com/tomz197/coincatch/internal/logging"
	"github.com/tomz197/coincatch/internal/loop/client"
	gameconfig "github.com/tomz197/coincatch/internal/loop/config"
	"github.com/tomz197/coincatch/internal/loop/server"
	"github.com/tomz197/coincatch/internal/store"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultDataDir     = "/app/data"
)

// Global game server - shared by all SSH clients
var (
	gameServer *server.Server
	logger     *log.Logger
	serverOnce sync.Once
)

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	logger = applog.New("ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	dataDir := config.GetEnv("COINCATCH_DATA", defaultDataDir)

	settings, err := gameconfig.ByName(config.GetEnv("COINCATCH_MODE", "casual"))
	if err != nil {
		logger.Fatal("invalid game mode", "err", err)
	}
	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "data", dataDir, "mode", settings.Name)

	// Initialize the shared game server
	serverOnce.Do(func() {
		gameServer = server.NewServer(server.Options{
			Settings: settings,
			Stores:   store.NewManager(dataDir),
			Logger:   logger.WithPrefix("game"),
		})
		logger.Info("Game server started")
	})

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Notify players and wait for them to disconnect
	logger.Info("Notifying connected players about shutdown...", "players", gameServer.Players())
	gameServer.Shutdown(15 * time.Second)
	logger.Info("Game server stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware handles SSH sessions and runs the game client. The first
// command argument, if any, picks the game mode: ssh -t host leveled
func gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		settings := gameServer.Settings()
		if args := sess.Command(); len(args) > 0 {
			picked, err := gameconfig.ByName(strings.Join(args, " "))
			if err != nil {
				fmt.Fprintf(sess, "Error: %v\n", err)
				_ = sess.Exit(1)
				return
			}
			settings = picked
		}

		logger.Info("New game session",
			"user", sess.User(), "terminal", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height, "mode", settings.Name)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		reader := bufio.NewReader(sess)
		clientOpts := client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Username:     sess.User(),
			Settings:     settings,
			IdleTimeout:  true,
		}

		c, err := client.NewClient(gameServer, reader, sess, clientOpts)
		if err != nil {
			logger.Error("Failed to start game", "user", sess.User(), "err", err)
			fmt.Fprintln(sess, "Error: could not start the game, please try again later.")
			return
		}
		if err := c.Run(sess.Context()); err != nil {
			logger.Error("Game error", "user", sess.User(), "err", err)
		}

		logger.Info("Session ended", "user", sess.User())
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
