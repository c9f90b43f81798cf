// Package store persists the two scalar counters that survive between rounds
// and restarts: the best round score and the lifetime coin total.
package store

import (
	"strconv"
	"sync"
)

// Keys used by the game.
const (
	KeyBestScore        = "catch_game_best_score"
	KeyLifetimeCurrency = "catch_game_total_dollar"
)

// Store is a durable integer key-value store.
// Get never fails: absent or unparsable values read as 0. Add and Max are
// read-modify-write updates done under the store's lock, so sessions that
// share a store never write back a stale value. Both return the new value,
// also when persisting it failed.
type Store interface {
	Get(key string) int
	Set(key string, value int) error
	Add(key string, delta int) (int, error)
	Max(key string, value int) (int, error)
}

// parseValue converts a stored string to an int, defaulting to 0.
func parseValue(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// Memory is an in-process Store. Values are kept as strings so it behaves
// like the file-backed store for malformed input.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the integer stored under key, or 0.
func (m *Memory) Get(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return parseValue(m.values[key])
}

// Set stores value under key.
func (m *Memory) Set(key string, value int) error {
	m.SetRaw(key, strconv.Itoa(value))
	return nil
}

// Add increases the value under key by delta.
func (m *Memory) Add(key string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := parseValue(m.values[key]) + delta
	m.values[key] = strconv.Itoa(n)
	return n, nil
}

// Max raises the value under key to value if it is lower.
func (m *Memory) Max(key string, value int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := max(parseValue(m.values[key]), value)
	m.values[key] = strconv.Itoa(n)
	return n, nil
}

// SetRaw stores an arbitrary string under key.
func (m *Memory) SetRaw(key, raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = raw
}

// Ensure implementations satisfy Store.
var (
	_ Store = (*Memory)(nil)
	_ Store = (*File)(nil)
)
