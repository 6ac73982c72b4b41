package main

import (
	"github.com/google/uuid"

	"github.com/sarwarhridoy4/snake-go/internal/grid"
	"github.com/sarwarhridoy4/snake-go/internal/session"
)

// view keeps the latest state pushed by the session for Draw to read, and
// cues sounds on the transitions that have one
type view struct {
	sounds *sounds

	segments  []session.Segment
	food      grid.Point
	foodValue int
	score     int
	elapsed   string
	paused    bool
	over      bool
	summary   session.Summary
}

func newView(s *sounds) *view {
	return &view{sounds: s, elapsed: session.FormatElapsed(0)}
}

func (v *view) Started(uuid.UUID) {
	v.over, v.paused = false, false
	v.score = 0
	v.sounds.startMusic()
}

func (v *view) SnakeUpdated(segments []session.Segment) {
	v.segments = segments
}

func (v *view) FoodUpdated(pos grid.Point, value int) {
	v.food = pos
	v.foodValue = value
}

func (v *view) ScoreChanged(score int) {
	if score > v.score {
		v.sounds.eat()
	}
	v.score = score
}

func (v *view) ElapsedTimeChanged(elapsed string) {
	v.elapsed = elapsed
}

func (v *view) GameOver(summary session.Summary) {
	v.over = true
	v.summary = summary
	v.sounds.gameOver()
}

func (v *view) Paused() {
	v.paused = true
	v.sounds.pauseMusic()
}

func (v *view) Resumed() {
	v.paused = false
	v.sounds.resumeMusic()
}
