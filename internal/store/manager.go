package store

import (
	"path/filepath"
	"strings"
	"sync"
)

// Manager hands out one File store per player under a base directory.
// Stores are cached so concurrent sessions of the same player share one
// writer.
type Manager struct {
	basePath string

	mu     sync.Mutex
	opened map[string]*File
}

// NewManager creates a manager rooted at basePath.
func NewManager(basePath string) *Manager {
	return &Manager{
		basePath: basePath,
		opened:   make(map[string]*File),
	}
}

// FilePath returns the store path for a player.
func (m *Manager) FilePath(player string) string {
	return filepath.Join(m.basePath, SanitizeName(player)+".env")
}

// Open returns the store for a player, loading it on first use.
func (m *Manager) Open(player string) (*File, error) {
	path := m.FilePath(player)

	m.mu.Lock()
	defer m.mu.Unlock()

	if f, ok := m.opened[path]; ok {
		return f, nil
	}
	f, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	m.opened[path] = f
	return f, nil
}

// maxNameLength bounds player names used as file names.
const maxNameLength = 32

// SanitizeName reduces a player name to [a-zA-Z0-9_-], capped in length.
// Empty results become "guest".
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
		if b.Len() >= maxNameLength {
			break
		}
	}
	if b.Len() == 0 {
		return "guest"
	}
	return b.String()
}
