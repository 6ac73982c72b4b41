// Package snake implements the snake body: an ordered chain of segments that
// moves follow-the-leader on a toroidal grid, grows in timed bursts, can
// reverse head and tail, and speeds up once pending growth has settled.
package snake

import (
	"errors"
	"slices"
	"time"

	"github.com/sarwarhridoy4/snake-go/internal/clock"
	"github.com/sarwarhridoy4/snake-go/internal/grid"
)

var (
	ErrEmptyBody      = errors.New("snake body needs at least one segment")
	ErrDetachedBody   = errors.New("snake segments must be grid neighbours")
	ErrInvalidHeading = errors.New("invalid direction")
)

// Signal reports what happened during one advance
type Signal uint8

const (
	SelfCollision Signal = 1 << iota
	FoodConsumed
)

func (s Signal) Has(flag Signal) bool { return s&flag != 0 }

type Config struct {
	ReverseGear  bool
	GrowthWindow time.Duration // lifetime of one growth burst
	GrowthOffset time.Duration // added to the pace to get the append interval

	// Optional observers
	OnGrow       func(length int)
	OnPaceChange func(pace time.Duration)
}

type segment struct {
	pos   grid.Point
	prev  grid.Point
	moved bool // prev holds a real position
	pred  int  // index of the predecessor, -1 for the head
}

// growthBurst is the pair of timers created by one Grow call
type growthBurst struct {
	appender *clock.Timer
	expiry   *clock.Timer
}

type Body struct {
	grid  grid.Grid
	sched *clock.Scheduler
	cfg   Config

	segments  []segment
	direction grid.Direction
	pace      time.Duration
	eaten     int

	movement *clock.Timer
	onTick   func()
	bursts   []*growthBurst
	speedUps []*clock.Timer
}

// New creates a one-segment body at start
func New(g grid.Grid, s *clock.Scheduler, start grid.Point, dir grid.Direction, pace time.Duration, cfg Config) (*Body, error) {
	return FromPositions(g, s, []grid.Point{start}, dir, pace, cfg)
}

// FromPositions builds a body from head to tail. Consecutive positions must be
// grid neighbours (wrap-around included).
func FromPositions(g grid.Grid, s *clock.Scheduler, positions []grid.Point, dir grid.Direction, pace time.Duration, cfg Config) (*Body, error) {
	if len(positions) == 0 {
		return nil, ErrEmptyBody
	}
	if !dir.Valid() {
		return nil, ErrInvalidHeading
	}

	segments := make([]segment, len(positions))
	for i, p := range positions {
		if i > 0 && !adjacent(g, positions[i-1], p) {
			return nil, ErrDetachedBody
		}
		segments[i] = segment{pos: p, pred: i - 1}
	}

	return &Body{
		grid:      g,
		sched:     s,
		cfg:       cfg,
		segments:  segments,
		direction: dir,
		pace:      pace,
	}, nil
}

func adjacent(g grid.Grid, a, b grid.Point) bool {
	for _, d := range grid.Directions {
		if g.Wrap(b, d) == a {
			return true
		}
	}
	return false
}

func (b *Body) Len() int { return len(b.segments) }
func (b *Body) Head() grid.Point { return b.segments[0].pos }
func (b *Body) Direction() grid.Direction { return b.direction }
func (b *Body) Pace() time.Duration { return b.pace }
func (b *Body) Eaten() int { return b.eaten }

// Positions returns segment positions from head to tail
func (b *Body) Positions() []grid.Point {
	out := make([]grid.Point, len(b.segments))
	for i, s := range b.segments {
		out[i] = s.pos
	}
	return out
}

// Occupied returns the set of cells covered by the body
func (b *Body) Occupied() map[grid.Point]bool {
	out := make(map[grid.Point]bool, len(b.segments))
	for _, s := range b.segments {
		out[s.pos] = true
	}
	return out
}

// Eat records a meal and returns the running total
func (b *Body) Eat() int {
	b.eaten++
	return b.eaten
}

// Advance moves the head one cell and pulls every other segment into the cell
// its predecessor just left. food is the cell that raises FoodConsumed.
func (b *Body) Advance(food grid.Point) Signal {
	next := b.grid.Wrap(b.segments[0].pos, b.direction)

	for i := range b.segments {
		b.segments[i].prev = b.segments[i].pos
		b.segments[i].moved = true
	}
	b.segments[0].pos = next
	for i := 1; i < len(b.segments); i++ {
		b.segments[i].pos = b.segments[b.segments[i].pred].prev
	}

	var sig Signal
	for i := 1; i < len(b.segments); i++ {
		if b.segments[i].pos == next {
			sig |= SelfCollision
			break
		}
	}
	if next == food {
		sig |= FoodConsumed
	}
	return sig
}

// ChangeDirection applies a steering request. Perpendicular turns (or any turn
// of a lone head) take effect at once, and a longer body steps immediately.
// The opposite direction reverses the body when reverse gear is enabled;
// everything else is ignored. The returned signal comes from the immediate
// step, if one happened.
func (b *Body) ChangeDirection(requested grid.Direction, food grid.Point) Signal {
	current := b.direction
	if !requested.Valid() || requested == current {
		return 0
	}

	if len(b.segments) == 1 || requested != current.Opposite() {
		b.direction = requested
		if len(b.segments) > 1 {
			return b.Advance(food)
		}
		return 0
	}

	if b.cfg.ReverseGear {
		b.Reverse()
	}
	return 0
}

// Reverse swaps head and tail. Predecessor links are rebuilt for the new order
// and the heading is deduced from the new head and the segment behind it.
func (b *Body) Reverse() {
	if len(b.segments) < 2 {
		return
	}
	slices.Reverse(b.segments)
	for i := range b.segments {
		b.segments[i].pred = i - 1
	}
	b.direction = b.deduceDirection()
}

// deduceDirection finds the step that leads from the second segment to the
// head. Stacked segments (a freshly appended one that has not moved yet) give
// no answer, in which case the body simply turns around.
func (b *Body) deduceDirection() grid.Direction {
	head, second := b.segments[0].pos, b.segments[1].pos
	for _, d := range grid.Directions {
		if b.grid.Wrap(second, d) == head {
			return d
		}
	}
	return b.direction.Opposite()
}

// Animate starts locomotion: tick runs every pace until Freeze.
// It does nothing while the body is already moving.
func (b *Body) Animate(tick func()) {
	if b.movement.Active() {
		return
	}
	b.onTick = tick
	b.movement = b.sched.Every(b.pace, tick)
}

// Freeze stops locomotion; growth and pending speed-ups keep running
func (b *Body) Freeze() {
	b.movement.Cancel()
	b.movement = nil
}

func (b *Body) Moving() bool {
	return b.movement.Active()
}

// Grow starts a growth burst: a tail segment is appended every
// pace+GrowthOffset until GrowthWindow elapses. Bursts are independent and
// may overlap.
func (b *Body) Grow() {
	burst := &growthBurst{}
	burst.appender = b.sched.Every(b.pace+b.cfg.GrowthOffset, b.appendSegment)
	burst.expiry = b.sched.After(b.cfg.GrowthWindow, func() {
		burst.appender.Cancel()
		b.dropBurst(burst)
	})
	b.bursts = append(b.bursts, burst)
}

func (b *Body) dropBurst(burst *growthBurst) {
	b.bursts = slices.DeleteFunc(b.bursts, func(x *growthBurst) bool { return x == burst })
}

// appendSegment adds a tail segment in the cell the current tail last left,
// or on top of the tail if it has not moved yet
func (b *Body) appendSegment() {
	last := len(b.segments) - 1
	tail := b.segments[last]
	pos := tail.pos
	if tail.moved {
		pos = tail.prev
	}
	b.segments = append(b.segments, segment{pos: pos, pred: last})

	if b.cfg.OnGrow != nil {
		b.cfg.OnGrow(len(b.segments))
	}
}

// PendingGrowthCount returns the number of bursts still appending
func (b *Body) PendingGrowthCount() int {
	return len(b.bursts)
}

// CancelAllGrowth stops every growth burst
func (b *Body) CancelAllGrowth() {
	for _, burst := range b.bursts {
		burst.appender.Cancel()
		burst.expiry.Cancel()
	}
	b.bursts = nil
}

// RequestSpeedUp lowers the pace by step, never below floor, once every burst
// pending right now has had time to finish. Returns false when the pace is
// already at the floor.
func (b *Body) RequestSpeedUp(step, floor time.Duration) bool {
	if b.pace <= floor {
		return false
	}

	delay := time.Duration(len(b.bursts)) * b.cfg.GrowthWindow
	var t *clock.Timer
	t = b.sched.After(delay, func() {
		b.speedUps = slices.DeleteFunc(b.speedUps, func(x *clock.Timer) bool { return x == t })
		b.applySpeedUp(step, floor)
	})
	b.speedUps = append(b.speedUps, t)
	return true
}

func (b *Body) applySpeedUp(step, floor time.Duration) {
	pace := max(b.pace-step, floor)
	if pace == b.pace {
		return
	}

	moving := b.Moving()
	b.Freeze()
	b.pace = pace
	if moving {
		b.Animate(b.onTick)
	}

	if b.cfg.OnPaceChange != nil {
		b.cfg.OnPaceChange(pace)
	}
}

// PendingSpeedUps returns the number of deferred pace reductions
func (b *Body) PendingSpeedUps() int {
	return len(b.speedUps)
}

// Stop cancels locomotion, growth and deferred speed-ups. The body is inert
// afterwards.
func (b *Body) Stop() {
	b.Freeze()
	b.CancelAllGrowth()
	for _, t := range b.speedUps {
		t.Cancel()
	}
	b.speedUps = nil
}
