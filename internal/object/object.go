// Package object defines the entities that live in the play area: falling
// coins, the player's basket and short-lived visual effects.
package object

import (
	"io"
	"time"

	"github.com/tomz197/coincatch/internal/draw"
	"github.com/tomz197/coincatch/internal/input"
)

// Spawner allows objects to spawn new objects during update.
type Spawner interface {
	Spawn(obj Object)
}

// Input is an alias for the input package's Input type.
type Input = input.Input

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Now     float64       // Frame timestamp in milliseconds
	Delta   time.Duration // Wall time since the previous frame (effects only)
	Input   Input
	Screen  Screen
	Spawner Spawner
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas // High-resolution canvas (2x vertical), logical coordinates
	Writer io.Writer    // Direct terminal output (for text)
}

// Screen is the logical play area. The origin is the top-left corner.
type Screen struct {
	Width  float64
	Height float64
}

// Object is a drawable and updatable game entity.
type Object interface {
	// Update updates the object state. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw draws the object. Use ctx.Canvas for shapes, ctx.Writer for text.
	Draw(ctx DrawContext) error
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// Blink reports whether something toggling every halfPeriod is in its
// visible half at time t. Both are milliseconds; a non-positive halfPeriod
// never hides.
func Blink(t, halfPeriod float64) bool {
	if halfPeriod <= 0 {
		return true
	}
	return int(t/halfPeriod)%2 == 0
}
