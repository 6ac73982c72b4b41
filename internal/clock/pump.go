package clock

import "time"

// MaxCatchUp bounds how much virtual time a single Step may release.
// Anything beyond it (stalled frame, suspended terminal) is dropped.
const MaxCatchUp = 250 * time.Millisecond

// Pump feeds real elapsed time into a Scheduler. Adapters call Step once per
// frame from the goroutine that owns the scheduler.
type Pump struct {
	sched *Scheduler
	tp    TimeProvider
	last  time.Time
}

// NewPump binds a scheduler to a time source, starting from the current reading
func NewPump(s *Scheduler, tp TimeProvider) *Pump {
	return &Pump{
		sched: s,
		tp:    tp,
		last:  tp.Now(),
	}
}

// Step advances the scheduler by the real time elapsed since the previous
// Step, clamped to MaxCatchUp, and returns the amount applied
func (p *Pump) Step() time.Duration {
	now := p.tp.Now()
	d := now.Sub(p.last)
	p.last = now

	if d < 0 {
		d = 0
	}
	if d > MaxCatchUp {
		d = MaxCatchUp
	}

	p.sched.Advance(d)
	return d
}
