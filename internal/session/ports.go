package session

import (
	"github.com/google/uuid"

	"github.com/sarwarhridoy4/snake-go/internal/grid"
)

// Renderer receives every display-worthy change. Calls happen on the
// goroutine that drives the scheduler.
type Renderer interface {
	// Started opens every game, before any other update of that game
	Started(runID uuid.UUID)
	SnakeUpdated(segments []Segment)
	FoodUpdated(pos grid.Point, value int)
	ScoreChanged(score int)
	ElapsedTimeChanged(elapsed string)
	GameOver(summary Summary)
	Paused()
	Resumed()
}

// Logger is the subset of the process logger the session writes to
type Logger interface {
	Info(msg string)
	Error(msg string)
}

// Segment is one body cell as seen by a renderer
type Segment struct {
	Pos  grid.Point
	Head bool
}

// Summary is the final snapshot of a finished game
type Summary struct {
	RunID   uuid.UUID
	Score   int
	Eaten   int
	Length  int
	Elapsed string
}

type nopRenderer struct{}

func (nopRenderer) Started(uuid.UUID) {}
func (nopRenderer) SnakeUpdated([]Segment) {}
func (nopRenderer) FoodUpdated(grid.Point, int) {}
func (nopRenderer) ScoreChanged(int) {}
func (nopRenderer) ElapsedTimeChanged(string) {}
func (nopRenderer) GameOver(Summary) {}
func (nopRenderer) Paused() {}
func (nopRenderer) Resumed() {}

type nopLogger struct{}

func (nopLogger) Info(string) {}
func (nopLogger) Error(string) {}
