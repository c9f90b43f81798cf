package object

import (
	"math"
	"math/rand"

	"github.com/tomz197/coincatch/internal/draw"
	"github.com/tomz197/coincatch/internal/physics"
)

// coinVertices is the number of polygon vertices used to draw a coin.
const coinVertices = 16

// Coin is a falling collectible with constant downward speed.
type Coin struct {
	X, Y   float64 // Center
	Radius float64
	Speed  float64 // Units per tick
	Active bool    // False once caught or past the bottom edge
}

// NewCoin creates a coin just above the top edge at a random x in
// [radius, playWidth-radius]. A nil rng uses the global source.
func NewCoin(playWidth, radius, speed float64, rng *rand.Rand) *Coin {
	u := 0.0
	if rng != nil {
		u = rng.Float64()
	} else {
		u = rand.Float64()
	}
	span := playWidth - 2*radius
	if span < 0 {
		span = 0
	}
	return &Coin{
		X:      u*span + radius,
		Y:      -radius,
		Radius: radius,
		Speed:  speed,
		Active: true,
	}
}

// Advance moves the coin down one tick. A coin whose top edge has passed
// viewHeight becomes inactive. Inactive coins do not move.
func (c *Coin) Advance(viewHeight float64) {
	if !c.Active {
		return
	}
	c.Y += c.Speed
	if c.Y-c.Radius > viewHeight {
		c.Active = false
	}
}

// Bounds returns the coin's bounding square.
func (c *Coin) Bounds() physics.Rect {
	return physics.CircleBounds(c.X, c.Y, c.Radius)
}

// Draw renders the coin as a filled disc.
func (c *Coin) Draw(ctx DrawContext) error {
	if ctx.Canvas == nil {
		return nil
	}
	points := ctx.Canvas.BorrowPoints(coinVertices)
	for i := range points {
		angle := float64(i) * 2 * math.Pi / coinVertices
		points[i] = draw.Point{
			X: c.X + math.Cos(angle)*c.Radius,
			Y: c.Y + math.Sin(angle)*c.Radius,
		}
	}
	ctx.Canvas.DrawPolygon(points, true)
	return nil
}
