// Package input turns raw pointer gestures into steering directions.
package input

import "github.com/sarwarhridoy4/snake-go/internal/grid"

// SwipeThreshold is the minimum travel, in pixels or cells, along the
// dominant axis for a gesture to count as a swipe
const SwipeThreshold = 5

// Swipe maps a displacement to a direction along its dominant axis.
// Ties and movements not beyond threshold yield ok == false.
func Swipe(dx, dy, threshold int) (d grid.Direction, ok bool) {
	ax, ay := abs(dx), abs(dy)
	switch {
	case ax > ay && ax > threshold:
		if dx > 0 {
			return grid.Right, true
		}
		return grid.Left, true
	case ay > ax && ay > threshold:
		if dy > 0 {
			return grid.Down, true
		}
		return grid.Up, true
	}
	return 0, false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

type point struct{ x, y int }

// Tracker remembers where each pointer went down and reports a swipe when it
// is released. Ids are touch ids for screens, any constant for a mouse.
type Tracker struct {
	threshold int
	origins   map[int]point
}

func NewTracker(threshold int) *Tracker {
	return &Tracker{
		threshold: threshold,
		origins:   make(map[int]point),
	}
}

// Begin records the starting point of pointer id; a repeated Begin restarts it
func (t *Tracker) Begin(id, x, y int) {
	t.origins[id] = point{x, y}
}

// Active reports whether pointer id is down
func (t *Tracker) Active(id int) bool {
	_, ok := t.origins[id]
	return ok
}

// End releases pointer id at (x, y) and returns the swipe it made, if any
func (t *Tracker) End(id, x, y int) (grid.Direction, bool) {
	o, ok := t.origins[id]
	if !ok {
		return 0, false
	}
	delete(t.origins, id)
	return Swipe(x-o.x, y-o.y, t.threshold)
}
