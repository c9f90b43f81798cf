package loop

import "fmt"

// EventType identifies something that happened during a tick.
type EventType int

const (
	EventStart    EventType = iota // Autostart fired
	EventCatch                     // A coin landed in the basket
	EventMiss                      // A coin left the bottom edge
	EventLevelUp                   // A new level began
	EventGameOver                  // The round ended
	EventRestart                   // A new round began after game over
)

func (t EventType) String() string {
	switch t {
	case EventStart:
		return "start"
	case EventCatch:
		return "catch"
	case EventMiss:
		return "miss"
	case EventLevelUp:
		return "level-up"
	case EventGameOver:
		return "game-over"
	case EventRestart:
		return "restart"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event lets renderers animate what happened without reading session internals.
type Event struct {
	Type   EventType
	X, Y   float64 // Coin center for catch and miss
	Level  int
	Misses int
}
