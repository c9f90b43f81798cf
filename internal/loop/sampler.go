package loop

import "github.com/tomz197/coincatch/internal/input"

// Sampler reports the input state at the moment it is polled.
// The session polls it once per running tick.
type Sampler interface {
	CurrentInput() input.Input
}

// InputFunc adapts a function to Sampler.
type InputFunc func() input.Input

// CurrentInput calls f.
func (f InputFunc) CurrentInput() input.Input {
	return f()
}
