package loop

import (
	"github.com/tomz197/coincatch/internal/object"
	"github.com/tomz197/coincatch/internal/store"
)

// updateCoins moves every coin once and resolves it against the basket in
// list order. A coin is either caught, missed or kept. The slice is
// compacted in place. Once the round ends the remaining coins are left as
// they are.
func (s *Session) updateCoins() {
	basket := s.basket.Bounds()

	kept := s.coins[:0]
	for i, c := range s.coins {
		if s.phase == PhaseGameOver {
			kept = append(kept, s.coins[i:]...)
			break
		}

		c.Advance(s.screen.Height)
		switch {
		case c.Active && c.Bounds().Overlaps(basket):
			c.Active = false
			s.onCatch(c)
		case !c.Active:
			s.onMiss(c)
		default:
			kept = append(kept, c)
		}
	}
	clear(s.coins[len(kept):])
	s.coins = kept
}

// onCatch scores a caught coin and persists the counters that changed.
// The stored counters may also be advanced by other sessions of the same
// player, so the session adopts whatever the store reports back.
func (s *Session) onCatch(c *object.Coin) {
	s.score.Round++
	lifetime, err := s.store.Add(store.KeyLifetimeCurrency, 1)
	s.logSaveError(store.KeyLifetimeCurrency, err)
	s.score.Lifetime = max(lifetime, s.score.Lifetime+1)

	if s.score.Round > s.score.Best {
		best, err := s.store.Max(store.KeyBestScore, s.score.Round)
		s.logSaveError(store.KeyBestScore, err)
		s.score.Best = max(best, s.score.Round)
	}
	s.emit(Event{Type: EventCatch, X: c.X, Y: c.Y, Level: s.difficulty.Level})
}

// onMiss counts a coin that left the bottom edge.
func (s *Session) onMiss(c *object.Coin) {
	limit := s.difficulty.RecordMiss()
	s.emit(Event{Type: EventMiss, X: c.X, Y: c.Y, Level: s.difficulty.Level, Misses: s.difficulty.Misses})
	if limit {
		s.emit(s.gameOver("miss limit"))
	}
}

// logSaveError reports a failed write. Play continues either way.
func (s *Session) logSaveError(key string, err error) {
	if err != nil {
		s.logger.Warn("failed to save score", "key", key, "err", err)
	}
}
