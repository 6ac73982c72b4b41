// Package clock provides a cooperative task scheduler running on a virtual
// timeline. Every delayed or repeating piece of game logic (locomotion, food
// decay, growth bursts, the elapsed-time display) is a Timer registered here,
// and all of them fire from inside Advance on the caller's goroutine.
package clock

import (
	"container/heap"
	"time"
)

// Scheduler orders timers by deadline and runs them one at a time.
// It is not safe for concurrent use; drive it from a single goroutine.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue timerQueue
}

// NewScheduler creates a scheduler whose virtual time starts at zero
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the virtual time elapsed since the scheduler was created
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of timers waiting to fire
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// After runs fn once, delay from now. A non-positive delay fires on the next Advance.
func (s *Scheduler) After(delay time.Duration, fn func()) *Timer {
	if delay < 0 {
		delay = 0
	}
	t := &Timer{s: s, due: s.now + delay, fn: fn, index: -1}
	s.push(t)
	return t
}

// Every runs fn each period, starting one period from now, until cancelled
func (s *Scheduler) Every(period time.Duration, fn func()) *Timer {
	if period <= 0 {
		panic("clock: non-positive period for Every")
	}
	t := &Timer{s: s, due: s.now + period, period: period, fn: fn, index: -1}
	s.push(t)
	return t
}

// Advance moves virtual time forward by d, firing every timer that falls due
// in deadline order. Timers scheduled by callbacks are honoured within the same
// call when their deadline is inside the window.
func (s *Scheduler) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	target := s.now + d

	for len(s.queue) > 0 {
		t := s.queue[0]
		if t.due > target {
			break
		}
		heap.Pop(&s.queue)
		s.now = t.due

		if t.period > 0 {
			t.fn()
			if !t.stopped {
				t.due += t.period
				s.push(t)
			}
			continue
		}

		t.stopped = true
		t.fn()
	}

	s.now = target
}

func (s *Scheduler) push(t *Timer) {
	s.seq++
	t.seq = s.seq
	heap.Push(&s.queue, t)
}

// Timer is the cancellation handle of a scheduled task
type Timer struct {
	s       *Scheduler
	due     time.Duration
	period  time.Duration
	seq     uint64
	fn      func()
	index   int
	stopped bool
}

// Cancel stops the timer; it never fires afterwards. Safe on nil and on
// timers that already fired or were cancelled, including from inside the
// timer's own callback.
func (t *Timer) Cancel() {
	if t == nil || t.stopped {
		return
	}
	t.stopped = true
	if t.index >= 0 {
		heap.Remove(&t.s.queue, t.index)
	}
}

// Active reports whether the timer will still fire
func (t *Timer) Active() bool {
	return t != nil && !t.stopped
}

// Due returns the virtual time of the next firing
func (t *Timer) Due() time.Duration {
	return t.due
}

// timerQueue is a min-heap on (due, seq); seq keeps equal deadlines FIFO
type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
