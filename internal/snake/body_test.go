package snake

import (
	"slices"
	"testing"
	"time"

	"github.com/sarwarhridoy4/snake-go/internal/clock"
	"github.com/sarwarhridoy4/snake-go/internal/grid"
)

// nowhere is a food cell no test body ever reaches
var nowhere = grid.Point{Col: -1, Row: -1}

func testConfig() Config {
	return Config{
		ReverseGear:  true,
		GrowthWindow: 500 * time.Millisecond,
		GrowthOffset: 100 * time.Millisecond,
	}
}

func newTestBody(t *testing.T, cfg Config, dir grid.Direction, positions ...grid.Point) (*Body, *clock.Scheduler) {
	t.Helper()
	g, err := grid.New(10, 10, 10)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	s := clock.NewScheduler()
	b, err := FromPositions(g, s, positions, dir, 80*time.Millisecond, cfg)
	if err != nil {
		t.Fatalf("FromPositions: %v", err)
	}
	return b, s
}

func pt(col, row int) grid.Point { return grid.Point{Col: col, Row: row} }

func TestFromPositionsValidation(t *testing.T) {
	g, _ := grid.New(10, 10, 10)
	s := clock.NewScheduler()

	if _, err := FromPositions(g, s, nil, grid.Right, time.Second, testConfig()); err != ErrEmptyBody {
		t.Errorf("Expected ErrEmptyBody, got %v", err)
	}
	if _, err := FromPositions(g, s, []grid.Point{pt(0, 0), pt(2, 0)}, grid.Right, time.Second, testConfig()); err != ErrDetachedBody {
		t.Errorf("Expected ErrDetachedBody, got %v", err)
	}
	if _, err := FromPositions(g, s, []grid.Point{pt(0, 0), pt(9, 0)}, grid.Right, time.Second, testConfig()); err != nil {
		t.Errorf("Expected wrapped neighbours to be accepted, got %v", err)
	}
	if _, err := FromPositions(g, s, []grid.Point{pt(0, 0)}, 0, time.Second, testConfig()); err != ErrInvalidHeading {
		t.Errorf("Expected ErrInvalidHeading, got %v", err)
	}
}

func TestAdvanceFollowTheLeader(t *testing.T) {
	b, _ := newTestBody(t, testConfig(), grid.Right, pt(5, 5), pt(4, 5), pt(3, 5), pt(3, 4))

	steps := []grid.Direction{grid.Right, grid.Down, grid.Down, grid.Left, grid.Left}
	for n, dir := range steps {
		b.direction = dir
		before := b.Positions()

		if sig := b.Advance(nowhere); sig != 0 {
			t.Fatalf("Step %d: unexpected signal %v", n, sig)
		}
		after := b.Positions()

		if len(after) != len(before) {
			t.Fatalf("Step %d: length changed from %d to %d", n, len(before), len(after))
		}
		if want := b.grid.Wrap(before[0], dir); after[0] != want {
			t.Errorf("Step %d: expected head at %v, got %v", n, want, after[0])
		}
		for i := 1; i < len(after); i++ {
			if after[i] != before[i-1] {
				t.Errorf("Step %d: segment %d expected at %v, got %v", n, i, before[i-1], after[i])
			}
		}
	}
}

func TestAdvanceWrapsAroundEdges(t *testing.T) {
	b, _ := newTestBody(t, testConfig(), grid.Left, pt(0, 0), pt(1, 0))

	b.Advance(nowhere)
	if got := b.Positions(); !slices.Equal(got, []grid.Point{pt(9, 0), pt(0, 0)}) {
		t.Errorf("Expected wrap to the right edge, got %v", got)
	}
}

func TestAdvanceSignalsFood(t *testing.T) {
	b, _ := newTestBody(t, testConfig(), grid.Down, pt(4, 4))

	if sig := b.Advance(pt(4, 5)); !sig.Has(FoodConsumed) {
		t.Errorf("Expected FoodConsumed, got %v", sig)
	}
	if sig := b.Advance(pt(4, 5)); sig.Has(FoodConsumed) {
		t.Errorf("Expected no FoodConsumed after leaving the food cell, got %v", sig)
	}
}

func TestAdvanceSignalsSelfCollision(t *testing.T) {
	b, _ := newTestBody(t, testConfig(), grid.Right, pt(2, 2), pt(2, 3), pt(3, 3), pt(3, 2), pt(3, 1))

	sig := b.Advance(nowhere)
	if !sig.Has(SelfCollision) {
		t.Errorf("Expected SelfCollision, got %v", sig)
	}
}

func TestAdvanceChasingTailIsSafe(t *testing.T) {
	// a closed 2x2 loop: the head steps into the cell the tail is leaving
	b, _ := newTestBody(t, testConfig(), grid.Up, pt(2, 2), pt(2, 3), pt(3, 3), pt(3, 2))
	b.direction = grid.Right

	for i := 0; i < 8; i++ {
		b.direction = []grid.Direction{grid.Right, grid.Down, grid.Left, grid.Up}[i%4]
		if sig := b.Advance(nowhere); sig.Has(SelfCollision) {
			t.Fatalf("Step %d: unexpected collision at %v", i, b.Positions())
		}
	}
}

func TestReverse(t *testing.T) {
	b, _ := newTestBody(t, testConfig(), grid.Right, pt(5, 5), pt(4, 5), pt(3, 5), pt(3, 4))
	before := b.Positions()

	b.Reverse()
	after := b.Positions()
	for i := range before {
		if after[len(after)-1-i] != before[i] {
			t.Errorf("Expected old segment %d at index %d, got %v", i, len(after)-1-i, after)
		}
	}
	if b.Direction() != grid.Up {
		t.Errorf("Expected heading up after reverse, got %s", b.Direction())
	}
	for i, s := range b.segments {
		if s.pred != i-1 {
			t.Errorf("Segment %d: expected predecessor %d, got %d", i, i-1, s.pred)
		}
	}

	b.Advance(nowhere)
	if got := b.Positions(); !slices.Equal(got, []grid.Point{pt(3, 3), pt(3, 4), pt(3, 5), pt(4, 5)}) {
		t.Errorf("Expected former tail to lead, got %v", got)
	}
}

func TestReverseAcrossWrappedEdge(t *testing.T) {
	b, _ := newTestBody(t, testConfig(), grid.Right, pt(0, 2), pt(9, 2))

	b.Reverse()
	if b.Direction() != grid.Left {
		t.Errorf("Expected heading left, got %s", b.Direction())
	}
	b.Advance(nowhere)
	if got := b.Positions(); !slices.Equal(got, []grid.Point{pt(8, 2), pt(9, 2)}) {
		t.Errorf("Expected body to move left across the seam, got %v", got)
	}
}

func TestChangeDirectionGating(t *testing.T) {
	tests := []struct {
		name      string
		reverse   bool
		start     grid.Direction
		requested grid.Direction
		wantDir   grid.Direction
		wantPos   []grid.Point
	}{
		{"same direction", true, grid.Right, grid.Right, grid.Right,
			[]grid.Point{pt(5, 5), pt(4, 5), pt(3, 5)}},
		{"opposite without reverse gear", false, grid.Right, grid.Left, grid.Right,
			[]grid.Point{pt(5, 5), pt(4, 5), pt(3, 5)}},
		{"opposite with reverse gear", true, grid.Right, grid.Left, grid.Left,
			[]grid.Point{pt(3, 5), pt(4, 5), pt(5, 5)}},
		{"perpendicular steps immediately", false, grid.Right, grid.Up, grid.Up,
			[]grid.Point{pt(5, 4), pt(5, 5), pt(4, 5)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.ReverseGear = tc.reverse
			b, _ := newTestBody(t, cfg, tc.start, pt(5, 5), pt(4, 5), pt(3, 5))

			b.ChangeDirection(tc.requested, nowhere)
			if b.Direction() != tc.wantDir {
				t.Errorf("Expected direction %s, got %s", tc.wantDir, b.Direction())
			}
			if got := b.Positions(); !slices.Equal(got, tc.wantPos) {
				t.Errorf("Expected positions %v, got %v", tc.wantPos, got)
			}
		})
	}
}

func TestChangeDirectionLoneHead(t *testing.T) {
	b, _ := newTestBody(t, testConfig(), grid.Right, pt(5, 5))

	b.ChangeDirection(grid.Left, nowhere)
	if b.Direction() != grid.Left {
		t.Errorf("Expected a lone head to turn around freely, got %s", b.Direction())
	}
	if b.Head() != pt(5, 5) {
		t.Errorf("Expected a lone head not to step on turn, got %v", b.Head())
	}
}

func TestChangeDirectionReportsImmediateStep(t *testing.T) {
	b, _ := newTestBody(t, testConfig(), grid.Right, pt(5, 5), pt(4, 5))

	sig := b.ChangeDirection(grid.Down, pt(5, 6))
	if !sig.Has(FoodConsumed) {
		t.Errorf("Expected the immediate step to report food, got %v", sig)
	}
}

func TestGrowBurstAppendsOverWindow(t *testing.T) {
	b, s := newTestBody(t, testConfig(), grid.Right, pt(0, 0))
	lengths := []int{}
	b.cfg.OnGrow = func(n int) { lengths = append(lengths, n) }

	b.Animate(func() { b.Advance(nowhere) })
	b.Grow()
	if b.PendingGrowthCount() != 1 {
		t.Fatalf("Expected one pending burst, got %d", b.PendingGrowthCount())
	}

	// appends at 180ms and 360ms, the burst expires at 500ms
	s.Advance(499 * time.Millisecond)
	if b.PendingGrowthCount() != 1 {
		t.Errorf("Expected burst still pending before the window closes, got %d", b.PendingGrowthCount())
	}
	s.Advance(time.Millisecond)
	if b.PendingGrowthCount() != 0 {
		t.Errorf("Expected burst to expire, got %d", b.PendingGrowthCount())
	}
	if !slices.Equal(lengths, []int{2, 3}) {
		t.Errorf("Expected lengths [2 3], got %v", lengths)
	}

	s.Advance(2 * time.Second)
	if b.Len() != 3 {
		t.Errorf("Expected length to stay 3, got %d", b.Len())
	}

	positions := b.Positions()
	for i := 1; i < len(positions); i++ {
		if !adjacent(b.grid, positions[i-1], positions[i]) {
			t.Errorf("Segments %d and %d detached: %v", i-1, i, positions)
		}
	}
}

func TestOverlappingBurstsAreIndependent(t *testing.T) {
	b, s := newTestBody(t, testConfig(), grid.Right, pt(0, 0))
	b.Animate(func() { b.Advance(nowhere) })

	b.Grow()
	s.Advance(200 * time.Millisecond)
	b.Grow()
	if b.PendingGrowthCount() != 2 {
		t.Fatalf("Expected two pending bursts, got %d", b.PendingGrowthCount())
	}

	s.Advance(300 * time.Millisecond)
	if b.PendingGrowthCount() != 1 {
		t.Errorf("Expected first burst to expire on its own, got %d pending", b.PendingGrowthCount())
	}
	s.Advance(200 * time.Millisecond)
	if b.PendingGrowthCount() != 0 {
		t.Errorf("Expected both bursts to expire, got %d pending", b.PendingGrowthCount())
	}
	if b.Len() != 5 {
		t.Errorf("Expected two appends per burst (length 5), got %d", b.Len())
	}
}

func TestCancelAllGrowth(t *testing.T) {
	b, s := newTestBody(t, testConfig(), grid.Right, pt(0, 0))
	b.Grow()
	b.Grow()
	b.CancelAllGrowth()

	s.Advance(time.Second)
	if b.Len() != 1 {
		t.Errorf("Expected no appends after cancel, got length %d", b.Len())
	}
	if s.Pending() != 0 {
		t.Errorf("Expected no timers left, got %d", s.Pending())
	}
}

func TestSpeedUpWaitsForPendingGrowth(t *testing.T) {
	b, s := newTestBody(t, testConfig(), grid.Right, pt(0, 0))
	var paces []time.Duration
	b.cfg.OnPaceChange = func(p time.Duration) { paces = append(paces, p) }
	b.Animate(func() { b.Advance(nowhere) })

	b.Grow()
	if !b.RequestSpeedUp(5*time.Millisecond, 50*time.Millisecond) {
		t.Fatal("Expected speed-up to be accepted")
	}

	s.Advance(499 * time.Millisecond)
	if b.Pace() != 80*time.Millisecond {
		t.Errorf("Expected pace unchanged while growing, got %v", b.Pace())
	}
	s.Advance(time.Millisecond)
	if b.Pace() != 75*time.Millisecond {
		t.Errorf("Expected pace 75ms once growth settled, got %v", b.Pace())
	}
	if !b.Moving() {
		t.Error("Expected locomotion to restart at the new pace")
	}
	if b.movement.Due() != 575*time.Millisecond {
		t.Errorf("Expected next step at 575ms, got %v", b.movement.Due())
	}
	if !slices.Equal(paces, []time.Duration{75 * time.Millisecond}) {
		t.Errorf("Expected one pace notification, got %v", paces)
	}
}

func TestSpeedUpFloor(t *testing.T) {
	b, s := newTestBody(t, testConfig(), grid.Right, pt(0, 0))
	b.pace = 52 * time.Millisecond

	b.RequestSpeedUp(5*time.Millisecond, 50*time.Millisecond)
	s.Advance(0)
	if b.Pace() != 50*time.Millisecond {
		t.Errorf("Expected pace clamped to floor 50ms, got %v", b.Pace())
	}

	if b.RequestSpeedUp(5*time.Millisecond, 50*time.Millisecond) {
		t.Error("Expected speed-up at the floor to be refused")
	}
	s.Advance(time.Second)
	if b.Pace() != 50*time.Millisecond {
		t.Errorf("Expected pace to stay at floor, got %v", b.Pace())
	}
}

func TestSpeedUpWhileFrozenKeepsBodyFrozen(t *testing.T) {
	b, s := newTestBody(t, testConfig(), grid.Right, pt(0, 0))
	b.Animate(func() { b.Advance(nowhere) })
	b.Grow()
	b.RequestSpeedUp(5*time.Millisecond, 50*time.Millisecond)
	b.Freeze()

	s.Advance(time.Second)
	if b.Moving() {
		t.Error("Expected deferred speed-up not to restart a frozen body")
	}
	if b.Pace() != 75*time.Millisecond {
		t.Errorf("Expected pace 75ms applied while frozen, got %v", b.Pace())
	}
}

func TestStopCancelsEverything(t *testing.T) {
	b, s := newTestBody(t, testConfig(), grid.Right, pt(0, 0))
	b.Animate(func() { b.Advance(nowhere) })
	b.Grow()
	b.RequestSpeedUp(5*time.Millisecond, 50*time.Millisecond)

	b.Stop()
	head := b.Head()
	s.Advance(5 * time.Second)

	if s.Pending() != 0 {
		t.Errorf("Expected no timers after Stop, got %d", s.Pending())
	}
	if b.Head() != head || b.Len() != 1 || b.Pace() != 80*time.Millisecond {
		t.Errorf("Expected inert body, got head %v len %d pace %v", b.Head(), b.Len(), b.Pace())
	}
	if b.PendingSpeedUps() != 0 {
		t.Errorf("Expected no pending speed-ups, got %d", b.PendingSpeedUps())
	}
}
