package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/sarwarhridoy4/snake-go/internal/grid"
	"github.com/sarwarhridoy4/snake-go/internal/session"
)

var (
	headStyle  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	bodyStyle  = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	foodStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	staleStyle = tcell.StyleDefault.Foreground(tcell.ColorMaroon)
	hudStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	alertStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// board is the session renderer for the terminal. It stores what the session
// pushed; draw paints it once per frame.
type board struct {
	grid grid.Grid
	tone func(freq float64, d time.Duration)

	segments  []session.Segment
	food      grid.Point
	foodValue int
	maxValue  int
	score     int
	elapsed   string
	paused    bool
	summary   *session.Summary
}

func newBoard(g grid.Grid, tone func(float64, time.Duration)) *board {
	return &board{grid: g, tone: tone, elapsed: session.FormatElapsed(0)}
}

func (b *board) Started(uuid.UUID) {
	b.summary, b.paused = nil, false
	b.score = 0
}

func (b *board) SnakeUpdated(segments []session.Segment) { b.segments = segments }

func (b *board) FoodUpdated(pos grid.Point, value int) {
	if pos != b.food || value > b.foodValue {
		b.maxValue = value
	}
	b.food, b.foodValue = pos, value
}

func (b *board) ScoreChanged(score int) {
	if score > b.score {
		b.tone(880, 50*time.Millisecond)
	}
	b.score = score
}

func (b *board) ElapsedTimeChanged(elapsed string) { b.elapsed = elapsed }

func (b *board) GameOver(summary session.Summary) {
	b.summary = &summary
	b.tone(220, 400*time.Millisecond)
}

func (b *board) Paused() { b.paused = true }
func (b *board) Resumed() { b.paused = false }

func (b *board) draw(screen tcell.Screen, sess *session.Session, frame int) {
	screen.Clear()

	if sess.Status() == session.StatusReady {
		b.center(screen, hudStyle,
			"Snake!",
			"Arrows/WASD/HJKL or drag: Move   P/Space: Pause   Q/Esc: Quit",
			"Press Enter or Space to start")
		screen.Show()
		return
	}

	status := fmt.Sprintf("Score: %d   Time: %s   Food: %d", b.score, b.elapsed, b.foodValue)
	putString(screen, 0, 0, hudStyle, status)
	switch {
	case sess.PausePending():
		putString(screen, 0, 1, alertStyle, "Pausing once growth finishes...")
	case b.paused && frame/30%2 == 0:
		putString(screen, 0, 1, alertStyle, "Paused - press P to resume")
	}

	style := foodStyle
	if b.foodValue*4 < b.maxValue {
		style = staleStyle
	}
	b.cell(screen, b.food, '●', style)
	for i := len(b.segments) - 1; i >= 0; i-- {
		s := b.segments[i]
		if s.Head {
			b.cell(screen, s.Pos, '█', headStyle)
		} else {
			b.cell(screen, s.Pos, '▓', bodyStyle)
		}
	}

	if b.summary != nil {
		b.center(screen, alertStyle,
			"Game Over!",
			fmt.Sprintf("Score %d   Eaten %d   Length %d   Time %s",
				b.summary.Score, b.summary.Eaten, b.summary.Length, b.summary.Elapsed),
			fmt.Sprintf("Run %s", b.summary.RunID),
			"Press Enter/R to retry, Q to quit")
	}
	screen.Show()
}

func (b *board) cell(screen tcell.Screen, p grid.Point, r rune, style tcell.Style) {
	x, y := p.Col*cellWidth, p.Row+hudRows
	for i := 0; i < cellWidth; i++ {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func (b *board) center(screen tcell.Screen, style tcell.Style, lines ...string) {
	width, height := screen.Size()
	top := (height - len(lines)) / 2
	for i, line := range lines {
		putString(screen, (width-len([]rune(line)))/2, top+i, style, line)
	}
}

func putString(screen tcell.Screen, x, y int, style tcell.Style, s string) {
	for i, r := range []rune(s) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
