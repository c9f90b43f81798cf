package object

import (
	"math"
	"math/rand"
	"sync"
)

// sparklePool recycles sparkles; every catch throws a fresh burst.
var sparklePool = sync.Pool{
	New: func() any {
		return &Sparkle{}
	},
}

// sparkleGravity pulls glints back down, in logical units per second squared.
const sparkleGravity = 600.0

// Sparkle is a glint thrown off by a caught coin. Sparkles are purely
// visual: renderers spawn them from catch events and the session never
// sees them.
type Sparkle struct {
	X, Y   float64 // Logical position
	VX, VY float64 // Logical units per second
	TTL    float64 // Seconds left
	total  float64
}

func newSparkle(x, y, vx, vy, ttl float64) *Sparkle {
	s := sparklePool.Get().(*Sparkle)
	*s = Sparkle{X: x, Y: y, VX: vx, VY: vy, TTL: ttl, total: ttl}
	return s
}

// Release implements Releasable.
func (s *Sparkle) Release() {
	*s = Sparkle{}
	sparklePool.Put(s)
}

// SpawnSparkles throws count glints upward out of (x, y). speed and ttl are
// upper bounds; each glint gets between half and all of them.
func SpawnSparkles(x, y float64, count int, speed, ttl float64, spawner Spawner) {
	if spawner == nil {
		return
	}
	for i := 0; i < count; i++ {
		// (pi, 2pi) points up in screen space.
		angle := math.Pi + rand.Float64()*math.Pi
		v := speed * (0.5 + rand.Float64()*0.5)
		life := ttl * (0.5 + rand.Float64()*0.5)
		spawner.Spawn(newSparkle(x, y, math.Cos(angle)*v, math.Sin(angle)*v, life))
	}
}

// Update arcs the glint under gravity. It is removed when its time runs out
// or it leaves the play area.
func (s *Sparkle) Update(ctx UpdateContext) (bool, error) {
	dt := ctx.Delta.Seconds()

	s.TTL -= dt
	if s.TTL <= 0 {
		return true, nil
	}

	s.VY += sparkleGravity * dt
	s.X += s.VX * dt
	s.Y += s.VY * dt

	if ctx.Screen.Width > 0 && (s.X < 0 || s.X >= ctx.Screen.Width || s.Y >= ctx.Screen.Height) {
		return true, nil
	}
	return false, nil
}

// Draw plots the glint. In its last third it twinkles instead of fading.
func (s *Sparkle) Draw(ctx DrawContext) error {
	if ctx.Canvas == nil {
		return nil
	}
	if s.TTL < s.total/3 && int(s.TTL*20)%2 == 1 {
		return nil
	}
	ctx.Canvas.SetFloat(s.X, s.Y)
	return nil
}
