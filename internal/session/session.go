// Package session runs one game: it owns the snake body and the food item,
// reacts to their signals, keeps score and elapsed time, and walks the
// Ready -> Playing <-> Paused -> GameOver state machine. Adapters feed it
// intents and receive updates through a Renderer.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sarwarhridoy4/snake-go/internal/clock"
	"github.com/sarwarhridoy4/snake-go/internal/config"
	"github.com/sarwarhridoy4/snake-go/internal/food"
	"github.com/sarwarhridoy4/snake-go/internal/grid"
	"github.com/sarwarhridoy4/snake-go/internal/snake"
)

var (
	ErrNilScheduler = errors.New("session needs a scheduler")
	ErrGridTooSmall = errors.New("grid must have room for the snake and its food")
	ErrNotReady     = errors.New("game is not waiting to start")
	ErrNotOver      = errors.New("game is not over")
)

type Status uint8

const (
	StatusReady Status = iota
	StatusPlaying
	StatusPaused
	StatusGameOver
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusGameOver:
		return "game over"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

type Config struct {
	Settings  config.Config
	Grid      grid.Grid
	Scheduler *clock.Scheduler
	Renderer  Renderer   // optional
	Logger    Logger     // optional
	Rand      *rand.Rand // optional, seeded from Settings.Seed or the clock
}

type Session struct {
	settings config.Config
	grid     grid.Grid
	sched    *clock.Scheduler
	renderer Renderer
	logger   Logger
	rng      *rand.Rand

	status  Status
	runID   uuid.UUID
	score   int
	elapsed time.Duration
	summary Summary

	body *snake.Body
	food *food.Item

	elapsedTicker *clock.Timer
	pendingPause  *clock.Timer
}

func New(c *Config) (*Session, error) {
	if c.Scheduler == nil {
		return nil, ErrNilScheduler
	}
	if err := c.Settings.Validate(); err != nil {
		return nil, err
	}
	if c.Grid.Cells() < 2 {
		return nil, fmt.Errorf("%w: %dx%d", ErrGridTooSmall, c.Grid.Columns(), c.Grid.Rows())
	}

	s := &Session{
		settings: c.Settings,
		grid:     c.Grid,
		sched:    c.Scheduler,
		renderer: c.Renderer,
		logger:   c.Logger,
		rng:      c.Rand,
		status:   StatusReady,
	}
	if s.renderer == nil {
		s.renderer = nopRenderer{}
	}
	if s.logger == nil {
		s.logger = nopLogger{}
	}
	if s.rng == nil {
		seed := c.Settings.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		s.rng = rand.New(rand.NewSource(seed))
	}
	return s, nil
}

func (s *Session) Status() Status         { return s.status }
func (s *Session) Score() int             { return s.score }
func (s *Session) Elapsed() time.Duration { return s.elapsed }
func (s *Session) RunID() uuid.UUID       { return s.runID }

// Summary returns the snapshot taken at the last game over
func (s *Session) Summary() Summary { return s.summary }

// Snake returns the body positions from head to tail, nil before the first start
func (s *Session) Snake() []grid.Point {
	if s.body == nil {
		return nil
	}
	return s.body.Positions()
}

// Food returns the current food cell and value
func (s *Session) Food() (grid.Point, int, bool) {
	if s.food == nil {
		return grid.Point{}, 0, false
	}
	return s.food.Position(), s.food.Value(), true
}

// Pace returns the current time between two movements
func (s *Session) Pace() time.Duration {
	if s.body == nil {
		return s.settings.InitialPace
	}
	return s.body.Pace()
}

// Start begins the first game
func (s *Session) Start() error {
	if s.status != StatusReady {
		return fmt.Errorf("%w: %s", ErrNotReady, s.status)
	}
	return s.begin()
}

// Retry reinitializes a finished game and starts over
func (s *Session) Retry() error {
	if s.status != StatusGameOver {
		return fmt.Errorf("%w: %s", ErrNotOver, s.status)
	}
	s.teardown()
	return s.begin()
}

// SubmitStart starts or retries depending on the current state; other states ignore it
func (s *Session) SubmitStart() {
	var err error
	switch s.status {
	case StatusReady:
		err = s.Start()
	case StatusGameOver:
		err = s.Retry()
	default:
		return
	}
	if err != nil {
		s.logger.Error(fmt.Sprintf("starting game: %s", err))
	}
}

// SubmitDirection steers the snake; ignored unless playing
func (s *Session) SubmitDirection(d grid.Direction) {
	if s.status != StatusPlaying {
		return
	}
	s.react(s.body.ChangeDirection(d, s.food.Position()))
}

// SubmitTogglePause pauses a running game once in-flight growth has finished,
// or resumes a paused one immediately. Toggling again while a pause is still
// pending calls it off.
func (s *Session) SubmitTogglePause() {
	switch s.status {
	case StatusPlaying:
		if s.pendingPause.Active() {
			s.pendingPause.Cancel()
			s.pendingPause = nil
			return
		}
		delay := time.Duration(s.body.PendingGrowthCount()) * s.settings.GrowthWindow
		if delay == 0 {
			s.pause()
			return
		}
		s.pendingPause = s.sched.After(delay, func() {
			s.pendingPause = nil
			if s.status == StatusPlaying {
				s.pause()
			}
		})
	case StatusPaused:
		s.resume()
	}
}

// PausePending reports whether a pause request is waiting for growth to finish
func (s *Session) PausePending() bool {
	return s.pendingPause.Active()
}

func (s *Session) begin() error {
	dir, ok := s.settings.Direction()
	if !ok {
		dir = grid.Directions[s.rng.Intn(len(grid.Directions))]
	}

	body, err := snake.New(s.grid, s.sched, grid.Point{}, dir, s.settings.InitialPace, snake.Config{
		ReverseGear:  s.settings.AllowReverseGear,
		GrowthWindow: s.settings.GrowthWindow,
		GrowthOffset: s.settings.GrowthAppendOffset,
		OnGrow:       func(int) { s.renderSnake() },
		OnPaceChange: s.paceChanged,
	})
	if err != nil {
		return fmt.Errorf("creating snake: %w", err)
	}

	s.body = body
	s.score = 0
	s.elapsed = 0
	s.summary = Summary{}
	s.runID = uuid.New()
	s.renderer.Started(s.runID)

	if err := s.spawnFood(); err != nil {
		s.body = nil
		return fmt.Errorf("placing food: %w", err)
	}

	s.status = StatusPlaying
	s.renderSnake()
	s.renderer.ScoreChanged(s.score)
	s.renderer.ElapsedTimeChanged(FormatElapsed(s.elapsed))

	s.body.Animate(s.step)
	s.elapsedTicker = s.sched.Every(time.Second, s.tickElapsed)

	s.logger.Info(fmt.Sprintf("started game %s heading %s at pace %v", s.runID, dir, s.body.Pace()))
	return nil
}

// teardown cancels every timer of the previous game before its entities go away
func (s *Session) teardown() {
	if s.body != nil {
		s.body.Stop()
	}
	if s.food != nil {
		s.food.Discard()
	}
	s.elapsedTicker.Cancel()
	s.pendingPause.Cancel()
	s.body, s.food = nil, nil
	s.elapsedTicker, s.pendingPause = nil, nil
}

func (s *Session) spawnFood() error {
	it, err := food.Spawn(s.sched, s.grid, s.rng, s.body.Occupied(), food.Config{
		ValueMax:      s.settings.FoodValueMax,
		ValueFloor:    s.settings.FoodValueFloor,
		DecayInterval: s.settings.FoodDecayInterval,
	}, s.renderer.FoodUpdated)
	if err != nil {
		return err
	}
	s.food = it
	s.renderer.FoodUpdated(it.Position(), it.Value())
	return nil
}

// step is the locomotion task
func (s *Session) step() {
	if s.status != StatusPlaying {
		return
	}
	s.react(s.body.Advance(s.food.Position()))
}

// react handles the outcome of one advance before control returns to the scheduler
func (s *Session) react(sig snake.Signal) {
	if sig.Has(snake.SelfCollision) {
		s.renderSnake()
		s.end()
		return
	}
	if sig.Has(snake.FoodConsumed) {
		s.eat()
		if s.status != StatusPlaying {
			return
		}
	}
	s.renderSnake()
}

func (s *Session) eat() {
	eaten := s.body.Eat()
	s.score += s.food.Consume()
	s.renderer.ScoreChanged(s.score)

	if err := s.spawnFood(); err != nil {
		s.logger.Error(fmt.Sprintf("game %s: placing food: %s", s.runID, err))
		s.renderSnake()
		s.end()
		return
	}

	s.body.Grow()
	if eaten%s.settings.EatenPerSpeedUp == 0 && s.body.Pace() > s.settings.PaceFloor {
		s.body.RequestSpeedUp(s.settings.PaceStep, s.settings.PaceFloor)
	}
}

func (s *Session) paceChanged(pace time.Duration) {
	s.logger.Info(fmt.Sprintf("game %s: pace now %v", s.runID, pace))
}

func (s *Session) tickElapsed() {
	s.elapsed += time.Second
	s.renderer.ElapsedTimeChanged(FormatElapsed(s.elapsed))
}

func (s *Session) pause() {
	s.body.Freeze()
	s.elapsedTicker.Cancel()
	s.elapsedTicker = nil
	s.status = StatusPaused
	s.renderer.Paused()
	s.logger.Info(fmt.Sprintf("game %s paused at %s", s.runID, FormatElapsed(s.elapsed)))
}

func (s *Session) resume() {
	s.status = StatusPlaying
	s.body.Animate(s.step)
	s.elapsedTicker = s.sched.Every(time.Second, s.tickElapsed)
	s.renderer.Resumed()
	s.logger.Info(fmt.Sprintf("game %s resumed", s.runID))
}

// end freezes the game for good; only Retry leaves this state
func (s *Session) end() {
	s.status = StatusGameOver
	s.body.Stop()
	s.food.Discard()
	s.elapsedTicker.Cancel()
	s.pendingPause.Cancel()
	s.elapsedTicker, s.pendingPause = nil, nil

	s.summary = Summary{
		RunID:   s.runID,
		Score:   s.score,
		Eaten:   s.body.Eaten(),
		Length:  s.body.Len(),
		Elapsed: FormatElapsed(s.elapsed),
	}
	s.renderer.GameOver(s.summary)
	s.logger.Info(fmt.Sprintf("game %s over: score %d, eaten %d, length %d, time %s",
		s.runID, s.summary.Score, s.summary.Eaten, s.summary.Length, s.summary.Elapsed))
}

func (s *Session) renderSnake() {
	positions := s.body.Positions()
	segments := make([]Segment, len(positions))
	for i, p := range positions {
		segments[i] = Segment{Pos: p, Head: i == 0}
	}
	s.renderer.SnakeUpdated(segments)
}

// String is a one-line status used by adapters' debug output
func (s *Session) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s score=%d time=%s", s.status, s.score, FormatElapsed(s.elapsed))
	if s.body != nil {
		fmt.Fprintf(&b, " length=%d pace=%v", s.body.Len(), s.body.Pace())
	}
	return b.String()
}
