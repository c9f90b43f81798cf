// Package loop holds the coin catcher simulation: difficulty, collision and
// the session state machine, plus the frame driver hosts run it with.
package loop

import (
	"context"
	"time"

	"github.com/tomz197/coincatch/internal/loop/config"
)

// Frame is one player's Update → Draw cycle.
type Frame interface {
	// Update advances the frame to timestamp now (milliseconds).
	Update(now float64) error
	// Draw renders the post-update state.
	Draw() error
	// Running reports whether the loop should keep going.
	Running() bool
}

// Run drives frame at the target frame rate until it stops running or ctx
// is cancelled. Cancellation is a normal stop and returns nil.
func Run(ctx context.Context, clock Clock, frame Frame) error {
	return run(ctx, clock, frame, config.TargetFrameTime)
}

func run(ctx context.Context, clock Clock, frame Frame, frameTime time.Duration) error {
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for frame.Running() && ctx.Err() == nil {
		frameStart := time.Now()

		// ===== UPDATE PHASE =====
		if err := frame.Update(clock.Now()); err != nil {
			return err
		}

		// ===== DRAW PHASE =====
		if err := frame.Draw(); err != nil {
			return err
		}

		// ===== FRAME TIMING =====
		wait := frameTime - time.Since(frameStart)
		if wait < 0 {
			wait = 0
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
	}
	return nil
}
