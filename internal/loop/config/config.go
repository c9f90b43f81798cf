// Package config centralizes all tunable game parameters.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Play area - the logical coordinate space of a session.
// Actual rendering scales to fit the terminal or browser canvas.
const (
	PlayWidth  = 480
	PlayHeight = 720
)

// Client rendering
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)

// Terminal render limits. Larger terminals get a centered, bordered area.
const (
	MaxTermWidth  = 60
	MaxTermHeight = 45
)

// Session timing, in milliseconds.
const (
	AutostartDelay      = 800
	LevelBannerDuration = 1500
)

// Inactivity for remote hosts
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Shutdown
const (
	ShutdownDisplaySeconds = 5.0 // Seconds to show shutdown message before auto-disconnect
)

// Catch effect
const (
	SparkleCount    = 10
	SparkleSpeed    = 180.0 // Logical units per second
	SparkleLifetime = 0.5   // Seconds
)

// SpawnPolicy selects how spawning and fall speed evolve over a round.
type SpawnPolicy int

const (
	// SpawnRamp tightens the interval and speeds up coins on every spawn.
	SpawnRamp SpawnPolicy = iota
	// SpawnLeveled derives the interval from the level and speeds up
	// coins only on level-up.
	SpawnLeveled
)

func (p SpawnPolicy) String() string {
	switch p {
	case SpawnRamp:
		return "ramp"
	case SpawnLeveled:
		return "leveled"
	default:
		return fmt.Sprintf("SpawnPolicy(%d)", int(p))
	}
}

// MissPolicy selects what a coin leaving the bottom costs.
type MissPolicy int

const (
	MissIgnore  MissPolicy = iota // Misses only remove the coin
	MissLimited                   // MaxMisses misses in one level end the round
)

func (p MissPolicy) String() string {
	switch p {
	case MissIgnore:
		return "ignore"
	case MissLimited:
		return "limited"
	default:
		return fmt.Sprintf("MissPolicy(%d)", int(p))
	}
}

// Settings holds every tunable of a session. Times are milliseconds,
// distances logical units, speeds logical units per tick.
type Settings struct {
	Name string

	PlayWidth  float64
	PlayHeight float64

	CoinRadius float64

	BasketWidth     float64
	BasketHeight    float64
	BasketMargin    float64 // Gap between basket rest line and bottom edge
	BasketSmoothing float64 // Fraction of the remaining distance covered per tick
	BasketKeyStep   float64 // Target nudge per tick while a key is held
	VerticalMove    bool    // Basket may move inside the lower band
	BandTop         float64 // Top of the vertical band as a fraction of PlayHeight

	InitialFallSpeed float64
	FallSpeedStep    float64 // Ramp: per spawn
	MaxFallSpeed     float64

	InitialSpawnInterval float64
	SpawnIntervalStep    float64 // Ramp: per spawn. Leveled: per level
	MinSpawnInterval     float64

	LevelDuration      float64
	LevelFallSpeedStep float64

	MaxMisses int

	Spawn SpawnPolicy
	Miss  MissPolicy
}

// Casual returns the endless ramping variant: horizontal movement only and
// no way to lose.
func Casual() Settings {
	return Settings{
		Name:                 "casual",
		PlayWidth:            PlayWidth,
		PlayHeight:           PlayHeight,
		CoinRadius:           20,
		BasketWidth:          80,
		BasketHeight:         60,
		BasketMargin:         40,
		BasketSmoothing:      0.15,
		BasketKeyStep:        10,
		InitialFallSpeed:     3,
		FallSpeedStep:        0.1,
		MaxFallSpeed:         12,
		InitialSpawnInterval: 1500,
		SpawnIntervalStep:    20,
		MinSpawnInterval:     400,
		Spawn:                SpawnRamp,
		Miss:                 MissIgnore,
	}
}

// Leveled returns the level-based variant: two-axis movement inside the
// lower band and a miss limit per level.
func Leveled() Settings {
	s := Casual()
	s.Name = "leveled"
	s.BasketSmoothing = 0.2
	s.VerticalMove = true
	s.BandTop = 0.6
	s.FallSpeedStep = 0
	s.SpawnIntervalStep = 80
	s.LevelDuration = 10000
	s.LevelFallSpeedStep = 1.2
	s.MaxMisses = 3
	s.Spawn = SpawnLeveled
	s.Miss = MissLimited
	return s
}

// ByName returns the preset with the given name (case-insensitive).
func ByName(name string) (Settings, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "casual", "ramp":
		return Casual(), nil
	case "leveled", "levels", "level":
		return Leveled(), nil
	default:
		return Settings{}, fmt.Errorf("unknown game mode %q (want casual or leveled)", name)
	}
}

// Validate reports every nonsensical tunable, joined into one error.
func (s Settings) Validate() error {
	var errs []error
	if s.PlayWidth <= 0 || s.PlayHeight <= 0 {
		errs = append(errs, fmt.Errorf("play area %vx%v must be positive", s.PlayWidth, s.PlayHeight))
	}
	if s.CoinRadius <= 0 || 2*s.CoinRadius > s.PlayWidth {
		errs = append(errs, fmt.Errorf("coin radius %v does not fit play width %v", s.CoinRadius, s.PlayWidth))
	}
	if s.BasketWidth <= 0 || s.BasketHeight <= 0 || s.BasketWidth > s.PlayWidth {
		errs = append(errs, fmt.Errorf("basket %vx%v does not fit play area", s.BasketWidth, s.BasketHeight))
	}
	if s.BasketSmoothing <= 0 || s.BasketSmoothing >= 1 {
		errs = append(errs, fmt.Errorf("basket smoothing %v must be in (0,1)", s.BasketSmoothing))
	}
	if s.BasketKeyStep < 0 {
		errs = append(errs, fmt.Errorf("basket key step %v must not be negative", s.BasketKeyStep))
	}
	if s.VerticalMove && (s.BandTop < 0 || s.BandTop >= 1) {
		errs = append(errs, fmt.Errorf("band top %v must be in [0,1)", s.BandTop))
	}
	if s.InitialFallSpeed <= 0 || s.MaxFallSpeed < s.InitialFallSpeed {
		errs = append(errs, fmt.Errorf("fall speed %v must be positive and at most %v", s.InitialFallSpeed, s.MaxFallSpeed))
	}
	if s.MinSpawnInterval <= 0 || s.InitialSpawnInterval < s.MinSpawnInterval {
		errs = append(errs, fmt.Errorf("spawn interval %v must be at least %v > 0", s.InitialSpawnInterval, s.MinSpawnInterval))
	}
	if s.Spawn == SpawnLeveled && s.LevelDuration <= 0 {
		errs = append(errs, fmt.Errorf("level duration %v must be positive", s.LevelDuration))
	}
	if s.Miss == MissLimited && s.MaxMisses <= 0 {
		errs = append(errs, fmt.Errorf("max misses %d must be positive", s.MaxMisses))
	}
	return errors.Join(errs...)
}
