package object

import (
	"math"

	"github.com/tomz197/coincatch/internal/draw"
	"github.com/tomz197/coincatch/internal/physics"
)

// BasketOptions configures a basket.
type BasketOptions struct {
	Width, Height float64
	Margin        float64 // Gap kept between the basket and the bottom edge
	Smoothing     float64 // Fraction of the remaining distance covered per tick, in (0,1)
	KeyStep       float64 // Target nudge per tick while a direction key is held
	Vertical      bool    // Two-axis movement inside the lower band
	BandTop       float64 // Top of the vertical band as a fraction of play height
}

// Basket is the player-controlled catcher. X, Y is the top-left corner.
// The position follows the target with exponential smoothing.
type Basket struct {
	X, Y             float64
	TargetX, TargetY float64
	BasketOptions
}

// NewBasket creates a basket centered horizontally, resting Margin above the
// bottom edge, with the target on the current position.
func NewBasket(screen Screen, opts BasketOptions) *Basket {
	x := screen.Width/2 - opts.Width/2
	y := screen.Height - opts.Height - opts.Margin
	return &Basket{
		X:             x,
		Y:             y,
		TargetX:       x,
		TargetY:       y,
		BasketOptions: opts,
	}
}

// Region returns the legal range for the basket's top-left corner.
// Without vertical movement the range is a horizontal line at the rest height.
func (b *Basket) Region(screen Screen) physics.Rect {
	rest := screen.Height - b.Height - b.Margin
	r := physics.Rect{
		Left:   0,
		Right:  screen.Width - b.Width,
		Top:    rest,
		Bottom: rest,
	}
	if b.Vertical {
		r.Top = screen.Height * b.BandTop
	}
	return r
}

// ComputeTarget updates the target from one tick of input.
// Held direction keys nudge the target by KeyStep along each held axis;
// otherwise an active pointer places the target so the basket centers on it.
// With neither, the target is left alone.
func (b *Basket) ComputeTarget(in Input, screen Screen) {
	keys := in.Left || in.Right
	if b.Vertical {
		keys = keys || in.Up || in.Down
	}

	switch {
	case keys:
		if in.Left {
			b.TargetX -= b.KeyStep
		}
		if in.Right {
			b.TargetX += b.KeyStep
		}
		if b.Vertical {
			if in.Up {
				b.TargetY -= b.KeyStep
			}
			if in.Down {
				b.TargetY += b.KeyStep
			}
		}
	case in.Pointer.Active:
		b.TargetX = in.Pointer.X - b.Width/2
		if b.Vertical {
			b.TargetY = in.Pointer.Y - b.Height/2
		}
	}

	b.ClampTarget(screen)
}

// ClampTarget saturates the target into the legal region.
func (b *Basket) ClampTarget(screen Screen) {
	r := b.Region(screen)
	b.TargetX = physics.Clamp(b.TargetX, r.Left, r.Right)
	b.TargetY = physics.Clamp(b.TargetY, r.Top, r.Bottom)
}

// Follow pulls the position toward the target by Smoothing of the remaining
// distance, starting from the current position.
func (b *Basket) Follow() {
	b.X = physics.Approach(b.X, b.TargetX, b.Smoothing)
	b.Y = physics.Approach(b.Y, b.TargetY, b.Smoothing)
}

// Bounds returns the basket rectangle.
func (b *Basket) Bounds() physics.Rect {
	return physics.RectAt(b.X, b.Y, b.Width, b.Height)
}

// Draw renders the basket body with a handle arc above it.
func (b *Basket) Draw(ctx DrawContext) error {
	if ctx.Canvas == nil {
		return nil
	}
	body := []draw.Point{
		{X: b.X, Y: b.Y},
		{X: b.X + b.Width, Y: b.Y},
		{X: b.X + b.Width, Y: b.Y + b.Height},
		{X: b.X, Y: b.Y + b.Height},
	}
	ctx.Canvas.DrawPolygon(body, false)

	// Weave: one horizontal line through the middle of the body.
	midY := b.Y + b.Height/2
	ctx.Canvas.DrawLine(draw.Point{X: b.X, Y: midY}, draw.Point{X: b.X + b.Width, Y: midY})

	const handleSegments = 8
	cx := b.X + b.Width/2
	r := b.Width / 3
	prev := draw.Point{X: cx - r, Y: b.Y}
	for i := 1; i <= handleSegments; i++ {
		angle := math.Pi + float64(i)*math.Pi/handleSegments
		next := draw.Point{X: cx + math.Cos(angle)*r, Y: b.Y + math.Sin(angle)*r}
		ctx.Canvas.DrawLine(prev, next)
		prev = next
	}
	return nil
}
