package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/coincatch/internal/config"
	"github.com/tomz197/coincatch/internal/logging"
	"github.com/tomz197/coincatch/internal/loop/client"
	gameconfig "github.com/tomz197/coincatch/internal/loop/config"
	"github.com/tomz197/coincatch/internal/loop/server"
	"github.com/tomz197/coincatch/internal/store"
)

const localPlayer = "local"

func main() {
	os.Exit(run())
}

func run() int {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		return 1
	}

	// The terminal is the game screen, so logs only go to a file when asked.
	logger := logging.Discard()
	if path := config.GetEnv("COINCATCH_LOG", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logger = logging.NewWithWriter(f, "game")
	}

	settings, err := gameconfig.ByName(config.GetEnv("COINCATCH_MODE", "casual"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		return 1
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	return play(logger, settings)
}

func play(logger *log.Logger, settings gameconfig.Settings) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameServer := server.NewServer(server.Options{
		Settings: settings,
		Stores:   store.NewManager(dataDir()),
		Logger:   logger,
	})

	c, err := client.NewClient(gameServer, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username: localPlayer,
		Settings: settings,
	})
	if err != nil {
		logger.Error("failed to start game", "err", err)
		fmt.Fprintf(os.Stderr, "game error: %v\r\n", err)
		return 1
	}
	logger.Info("game started", "mode", settings.Name)
	if err := c.Run(ctx); err != nil {
		logger.Error("game stopped", "err", err)
		fmt.Fprintf(os.Stderr, "game error: %v\r\n", err)
		return 1
	}
	return 0
}

// dataDir is where score files live: COINCATCH_DATA, else ~/.coincatch,
// else the working directory.
func dataDir() string {
	if dir := config.GetEnv("COINCATCH_DATA", ""); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".coincatch"
	}
	return filepath.Join(home, ".coincatch")
}
