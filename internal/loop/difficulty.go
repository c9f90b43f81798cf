package loop

import (
	"math"

	"github.com/tomz197/coincatch/internal/loop/config"
)

// Difficulty tracks spawn cadence, fall speed and level progress for one round.
type Difficulty struct {
	FallSpeed     float64 // Speed given to the next spawned coin
	SpawnInterval float64 // Milliseconds between spawns
	LastSpawn     float64 // Timestamp of the last spawn
	Level         int     // Starts at 1
	LevelStart    float64 // Timestamp the current level began
	Misses        int     // Misses in the current level

	settings config.Settings
}

// NewDifficulty returns the initial difficulty of a round starting at now.
// LastSpawn is zero so the first tick spawns a coin.
func NewDifficulty(s config.Settings, now float64) Difficulty {
	d := Difficulty{
		FallSpeed:     s.InitialFallSpeed,
		SpawnInterval: s.InitialSpawnInterval,
		Level:         1,
		LevelStart:    now,
		settings:      s,
	}
	d.SpawnInterval = d.Interval()
	return d
}

// Interval returns the spawn interval in effect. The leveled policy derives
// it from the level alone.
func (d *Difficulty) Interval() float64 {
	if d.settings.Spawn == config.SpawnLeveled {
		return math.Max(d.settings.MinSpawnInterval,
			d.settings.InitialSpawnInterval-float64(d.Level)*d.settings.SpawnIntervalStep)
	}
	return d.SpawnInterval
}

// ShouldSpawn reports whether more than one interval has passed since the
// last spawn.
func (d *Difficulty) ShouldSpawn(now float64) bool {
	return now-d.LastSpawn > d.Interval()
}

// OnSpawn records a spawn at now. The ramp policy also speeds up coins and
// shortens the interval, saturating at their limits.
func (d *Difficulty) OnSpawn(now float64) {
	d.LastSpawn = now
	if d.settings.Spawn != config.SpawnRamp {
		return
	}
	d.FallSpeed = math.Min(d.settings.MaxFallSpeed, d.FallSpeed+d.settings.FallSpeedStep)
	d.SpawnInterval = math.Max(d.settings.MinSpawnInterval, d.SpawnInterval-d.settings.SpawnIntervalStep)
}

// Advance applies the time-based part of the leveled policy and reports
// whether a level-up happened. At most one level is gained per call, even
// when several level durations have passed.
func (d *Difficulty) Advance(now float64) bool {
	if d.settings.Spawn != config.SpawnLeveled {
		return false
	}
	leveledUp := false
	if now-d.LevelStart > d.settings.LevelDuration {
		d.Level++
		d.Misses = 0
		d.FallSpeed = math.Min(d.settings.MaxFallSpeed, d.FallSpeed+d.settings.LevelFallSpeedStep)
		d.LevelStart = now
		leveledUp = true
	}
	d.SpawnInterval = d.Interval()
	return leveledUp
}

// RecordMiss counts a missed coin and reports whether the miss limit is
// reached. Under MissIgnore misses are not counted.
func (d *Difficulty) RecordMiss() bool {
	if d.settings.Miss != config.MissLimited {
		return false
	}
	d.Misses++
	return d.Misses >= d.settings.MaxMisses
}
