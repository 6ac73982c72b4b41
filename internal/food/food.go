// Package food implements the food item: a grid cell worth a score value that
// decays over time down to a floor.
package food

import (
	"math/rand"
	"time"

	"github.com/sarwarhridoy4/snake-go/internal/clock"
	"github.com/sarwarhridoy4/snake-go/internal/grid"
)

type Config struct {
	ValueMax      int
	ValueFloor    int
	DecayInterval time.Duration
}

// Item is a positioned value. Its decay timer is the only writer of value.
type Item struct {
	pos      grid.Point
	value    int
	floor    int
	decay    *clock.Timer
	onChange func(grid.Point, int)
}

// Spawn places a new item on a free cell at full value and starts its decay.
// onChange, if set, is called after every decay tick.
func Spawn(s *clock.Scheduler, g grid.Grid, rng *rand.Rand, occupied map[grid.Point]bool, cfg Config, onChange func(grid.Point, int)) (*Item, error) {
	pos, err := g.RandomEmptyCell(rng, occupied)
	if err != nil {
		return nil, err
	}

	it := &Item{
		pos:      pos,
		value:    cfg.ValueMax,
		floor:    cfg.ValueFloor,
		onChange: onChange,
	}
	if it.value > it.floor && cfg.DecayInterval > 0 {
		it.decay = s.Every(cfg.DecayInterval, it.decayTick)
	}
	return it, nil
}

func (it *Item) Position() grid.Point { return it.pos }
func (it *Item) Value() int { return it.value }

// Decaying reports whether the value is still dropping
func (it *Item) Decaying() bool {
	return it.decay.Active()
}

func (it *Item) decayTick() {
	it.value--
	if it.value <= it.floor {
		it.value = it.floor
		it.decay.Cancel()
	}
	if it.onChange != nil {
		it.onChange(it.pos, it.value)
	}
}

// Consume stops the decay and returns the value earned by eating the item
func (it *Item) Consume() int {
	it.decay.Cancel()
	return it.value
}

// Discard stops the decay without scoring; the item must not be used afterwards
func (it *Item) Discard() {
	it.decay.Cancel()
	it.onChange = nil
}
