package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// File is a Store backed by a KEY=value file. Every Set rewrites the file
// before returning, so a later Open sees the value.
type File struct {
	path   string
	mu     sync.Mutex
	values map[string]string
}

// OpenFile loads the store at path. A missing file yields an empty store; a
// file that cannot be parsed is treated the same way so a corrupt save never
// blocks play.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, values: make(map[string]string)}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return f, nil
		}
		return nil, fmt.Errorf("stat store %s: %w", path, err)
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return f, nil
	}
	f.values = values
	return f, nil
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Get returns the integer stored under key, or 0.
func (f *File) Get(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return parseValue(f.values[key])
}

// Set stores value under key and writes the whole file.
func (f *File) Set(key string, value int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[key] = strconv.Itoa(value)
	return f.writeLocked()
}

// Add increases the value under key by delta and writes the file.
func (f *File) Add(key string, delta int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := parseValue(f.values[key]) + delta
	f.values[key] = strconv.Itoa(n)
	return n, f.writeLocked()
}

// Max raises the value under key to value if it is lower. The file is only
// written when the value changes.
func (f *File) Max(key string, value int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	current := parseValue(f.values[key])
	if value <= current {
		return current, nil
	}
	f.values[key] = strconv.Itoa(value)
	return value, f.writeLocked()
}

// writeLocked writes all values to disk. f.mu must be held.
func (f *File) writeLocked() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if err := godotenv.Write(f.values, f.path); err != nil {
		return fmt.Errorf("write store %s: %w", f.path, err)
	}
	return nil
}
