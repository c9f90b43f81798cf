package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tomz197/coincatch/internal/config"
	"github.com/tomz197/coincatch/internal/logging"
	gameconfig "github.com/tomz197/coincatch/internal/loop/config"
	"github.com/tomz197/coincatch/internal/loop/server"
	"github.com/tomz197/coincatch/internal/store"
)

const (
	defaultHost    = "0.0.0.0"
	defaultPort    = "8080"
	defaultDataDir = "/app/data"
)

//go:embed index.html
var htmlPage string

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New("web")

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	dataDir := config.GetEnv("COINCATCH_DATA", defaultDataDir)

	settings, err := gameconfig.ByName(config.GetEnv("COINCATCH_MODE", "casual"))
	if err != nil {
		logger.Fatal("invalid game mode", "err", err)
	}

	gameServer := server.NewServer(server.Options{
		Settings: settings,
		Stores:   store.NewManager(dataDir),
		Logger:   logger.WithPrefix("game"),
	})

	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("/play", gameServer.HandlePlay)

	addr := net.JoinHostPort(host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting web server", "url", "http://"+addr, "mode", settings.Name)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Let browsers show the shutdown notice before the sockets close.
	gameServer.Shutdown(15 * time.Second)
	logger.Info("Game server stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}
