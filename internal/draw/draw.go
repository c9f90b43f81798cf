// Package draw renders to ANSI terminals: a half-block pixel canvas scaled
// from logical coordinates, and a chunked writer for text overlays.
package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ANSI color escapes used by the HUD.
const (
	ColorReset      = "\033[0m"
	ColorYellow     = "\033[33m"
	ColorBrightCyan = "\033[96m"
	ColorRed        = "\033[31m"
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
