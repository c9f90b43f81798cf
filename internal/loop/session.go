package loop

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/coincatch/internal/input"
	"github.com/tomz197/coincatch/internal/logging"
	"github.com/tomz197/coincatch/internal/loop/config"
	"github.com/tomz197/coincatch/internal/object"
	"github.com/tomz197/coincatch/internal/store"
)

// Phase is the session state.
type Phase int

const (
	PhaseIdle            Phase = iota // Waiting for autostart
	PhaseRunning                      // Simulating
	PhaseLevelTransition              // Simulating with the level banner shown
	PhaseGameOver                     // Frozen until restart
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseLevelTransition:
		return "level-transition"
	case PhaseGameOver:
		return "game-over"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Playing reports whether the simulation advances in this phase.
func (p Phase) Playing() bool {
	return p == PhaseRunning || p == PhaseLevelTransition
}

// Score holds the round score and the two persisted counters.
type Score struct {
	Round    int
	Best     int
	Lifetime int
}

// Options configures a new session.
type Options struct {
	Settings config.Settings
	Store    store.Store // Defaults to an in-memory store
	Rand     *rand.Rand  // Coin placement; defaults to a time-seeded source
	Logger   *log.Logger // Defaults to a discarding logger
	Start    float64     // Creation timestamp, starts the autostart delay
}

// Session is one player's game. It is not safe for concurrent use: a single
// goroutine calls Tick, Restart and EndRound.
type Session struct {
	settings config.Settings
	screen   object.Screen
	store    store.Store
	rng      *rand.Rand
	logger   *log.Logger

	phase       Phase
	createdAt   float64
	bannerStart float64
	now         float64

	difficulty Difficulty
	coins      []*object.Coin
	basket     *object.Basket
	score      Score

	events  []Event
	pending []Event // Raised outside Tick, delivered by the next Tick
}

// NewSession validates the settings and reads the persisted counters.
func NewSession(opts Options) (*Session, error) {
	if err := opts.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	st := opts.Store
	if st == nil {
		st = store.NewMemory()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := opts.Settings
	screen := object.Screen{Width: s.PlayWidth, Height: s.PlayHeight}
	sess := &Session{
		settings:  s,
		screen:    screen,
		store:     st,
		rng:       rng,
		logger:    logger,
		phase:     PhaseIdle,
		createdAt: opts.Start,
		now:       opts.Start,
		basket: object.NewBasket(screen, object.BasketOptions{
			Width:     s.BasketWidth,
			Height:    s.BasketHeight,
			Margin:    s.BasketMargin,
			Smoothing: s.BasketSmoothing,
			KeyStep:   s.BasketKeyStep,
			Vertical:  s.VerticalMove,
			BandTop:   s.BandTop,
		}),
		score: Score{
			Best:     st.Get(store.KeyBestScore),
			Lifetime: st.Get(store.KeyLifetimeCurrency),
		},
	}
	sess.difficulty = NewDifficulty(s, opts.Start)
	return sess, nil
}

// Tick advances the session to now and returns what happened. The returned
// slice is only valid until the next call to Tick.
//
// Order within a tick: autostart or banner expiry, spawn check, difficulty
// update, input sample, basket update, then each coin is moved and resolved.
func (s *Session) Tick(now float64, sampler Sampler) []Event {
	s.events = append(s.events[:0], s.pending...)
	clear(s.pending)
	s.pending = s.pending[:0]
	if now > s.now {
		s.now = now
	}
	now = s.now

	switch s.phase {
	case PhaseIdle:
		if now-s.createdAt < config.AutostartDelay {
			return s.events
		}
		s.begin(now)
		s.emit(Event{Type: EventStart, Level: s.difficulty.Level})
	case PhaseLevelTransition:
		if now-s.bannerStart >= config.LevelBannerDuration {
			s.setPhase(PhaseRunning)
		}
	case PhaseGameOver:
		return s.events
	}

	if s.difficulty.ShouldSpawn(now) {
		s.coins = append(s.coins, object.NewCoin(s.screen.Width, s.settings.CoinRadius, s.difficulty.FallSpeed, s.rng))
		s.difficulty.OnSpawn(now)
	}

	if s.difficulty.Advance(now) {
		s.bannerStart = now
		s.setPhase(PhaseLevelTransition)
		s.logger.Debug("level up", "level", s.difficulty.Level, "fallSpeed", s.difficulty.FallSpeed)
		s.emit(Event{Type: EventLevelUp, Level: s.difficulty.Level})
	}

	var in input.Input
	if sampler != nil {
		in = sampler.CurrentInput()
	}
	s.basket.ComputeTarget(in, s.screen)
	s.basket.Follow()

	s.updateCoins()
	return s.events
}

// Restart begins a new round after game over. Round score, level, misses,
// speed, spawn timer and coins reset; Best and Lifetime are kept.
// Returns false outside the game over phase.
func (s *Session) Restart(now float64) bool {
	if s.phase != PhaseGameOver {
		return false
	}
	if now > s.now {
		s.now = now
	}
	s.begin(s.now)
	s.pending = append(s.pending, Event{Type: EventRestart, Level: s.difficulty.Level})
	return true
}

// EndRound ends a round in progress on the player's request.
// Returns false when no round is in progress.
func (s *Session) EndRound() bool {
	if !s.phase.Playing() {
		return false
	}
	s.pending = append(s.pending, s.gameOver("ended by player"))
	return true
}

// begin resets the round state and starts simulating.
func (s *Session) begin(now float64) {
	s.score.Round = 0
	s.difficulty = NewDifficulty(s.settings, now)
	clear(s.coins)
	s.coins = s.coins[:0]
	s.setPhase(PhaseRunning)
}

// gameOver freezes the round and returns the event announcing it.
func (s *Session) gameOver(reason string) Event {
	s.setPhase(PhaseGameOver)
	s.logger.Debug("round over", "reason", reason, "score", s.score.Round, "level", s.difficulty.Level)
	return Event{Type: EventGameOver, Level: s.difficulty.Level, Misses: s.difficulty.Misses}
}

func (s *Session) setPhase(p Phase) {
	if s.phase == p {
		return
	}
	s.logger.Debug("phase", "from", s.phase, "to", p)
	s.phase = p
}

func (s *Session) emit(e Event) {
	s.events = append(s.events, e)
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Score returns the round score and persisted counters.
func (s *Session) Score() Score { return s.score }

// Level returns the current level, starting at 1.
func (s *Session) Level() int { return s.difficulty.Level }

// Misses returns the misses counted in the current level.
func (s *Session) Misses() int { return s.difficulty.Misses }

// Difficulty returns a copy of the difficulty state.
func (s *Session) Difficulty() Difficulty { return s.difficulty }

// Settings returns the session's tunables.
func (s *Session) Settings() config.Settings { return s.settings }

// Screen returns the logical play area.
func (s *Session) Screen() object.Screen { return s.screen }

// Coins returns the live coins. Callers must not modify them.
func (s *Session) Coins() []*object.Coin { return s.coins }

// Basket returns the basket. Callers must not modify it.
func (s *Session) Basket() *object.Basket { return s.basket }

// Now returns the timestamp of the latest tick.
func (s *Session) Now() float64 { return s.now }

// AutostartRemaining returns the milliseconds left before autostart.
func (s *Session) AutostartRemaining() float64 {
	if s.phase != PhaseIdle {
		return 0
	}
	return max(0, config.AutostartDelay-(s.now-s.createdAt))
}

// BannerRemaining returns the milliseconds the level banner stays visible.
func (s *Session) BannerRemaining() float64 {
	if s.phase != PhaseLevelTransition {
		return 0
	}
	return max(0, config.LevelBannerDuration-(s.now-s.bannerStart))
}
