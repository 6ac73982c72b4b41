// Command snake-term plays the game in a terminal. Every grid cell is two
// characters wide; the top rows hold the HUD.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/sarwarhridoy4/snake-go/internal/clock"
	"github.com/sarwarhridoy4/snake-go/internal/config"
	"github.com/sarwarhridoy4/snake-go/internal/grid"
	"github.com/sarwarhridoy4/snake-go/internal/input"
	"github.com/sarwarhridoy4/snake-go/internal/session"
)

const (
	hudRows        = 2
	cellWidth      = 2
	swipeThreshold = 1 // cells
	mouseID        = 0
	frameInterval  = 16 * time.Millisecond // ~60 FPS
)

var runeDirections = map[rune]grid.Direction{
	'w': grid.Up, 'k': grid.Up,
	's': grid.Down, 'j': grid.Down,
	'a': grid.Left, 'h': grid.Left,
	'd': grid.Right, 'l': grid.Right,
}

var keyDirections = map[tcell.Key]grid.Direction{
	tcell.KeyUp:    grid.Up,
	tcell.KeyDown:  grid.Down,
	tcell.KeyLeft:  grid.Left,
	tcell.KeyRight: grid.Right,
}

type Game struct {
	screen tcell.Screen
	sess   *session.Session
	pump   *clock.Pump
	board  *board
	swipes *input.Tracker

	mouseDown bool
	audioInit bool
	frame     int
}

func NewGame(settings config.Config, sessionLogger general_i.Logger) (*Game, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()

	width, height := screen.Size()
	g, err := grid.New(width/cellWidth, height-hudRows, 1)
	if err != nil {
		screen.Fini()
		return nil, fmt.Errorf("terminal too small: %w", err)
	}

	game := &Game{
		screen: screen,
		swipes: input.NewTracker(swipeThreshold),
	}
	if settings.EnableSound {
		if err := game.initAudio(); err != nil {
			// Non-fatal, game can run without sound
			sessionLogger.Error(fmt.Sprintf("Audio initialization failed: %v", err))
		}
	}
	game.board = newBoard(g, game.playTone)

	sched := clock.NewScheduler()
	game.sess, err = session.New(&session.Config{
		Settings:  settings,
		Grid:      g,
		Scheduler: sched,
		Renderer:  game.board,
		Logger:    sessionLogger,
	})
	if err != nil {
		game.cleanup()
		return nil, err
	}
	game.pump = clock.NewPump(sched, clock.NewMonotonicTimeProvider())
	return game, nil
}

func (g *Game) initAudio() error {
	sampleRate := beep.SampleRate(44100)
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		g.audioInit = true
	}
	return err
}

func (g *Game) playTone(freq float64, d time.Duration) {
	if !g.audioInit {
		return
	}

	sampleRate := beep.SampleRate(44100)
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(d), sine))
}

// handleInput returns false when the player quits
func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyEnter:
			g.sess.SubmitStart()
			return true
		case tcell.KeyRune:
			return g.handleRune(ev.Rune())
		}
		if d, ok := keyDirections[ev.Key()]; ok {
			g.sess.SubmitDirection(d)
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		col, row := x/cellWidth, y-hudRows
		pressed := ev.Buttons()&tcell.Button1 != 0
		switch {
		case pressed && !g.mouseDown:
			g.mouseDown = true
			g.swipes.Begin(mouseID, col, row)
		case !pressed && g.mouseDown:
			g.mouseDown = false
			if d, ok := g.swipes.End(mouseID, col, row); ok {
				g.sess.SubmitDirection(d)
			} else {
				g.sess.SubmitStart()
			}
		}

	case *tcell.EventResize:
		g.screen.Sync()
	}
	return true
}

func (g *Game) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'r':
		g.sess.SubmitStart()
	case ' ':
		if s := g.sess.Status(); s == session.StatusReady || s == session.StatusGameOver {
			g.sess.SubmitStart()
		} else {
			g.sess.SubmitTogglePause()
		}
	case 'p':
		g.sess.SubmitTogglePause()
	default:
		if d, ok := runeDirections[r]; ok {
			g.sess.SubmitDirection(d)
		}
	}
	return true
}

func (g *Game) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return
			}

		case <-ticker.C:
			g.pump.Step()
			g.frame++
			g.board.draw(g.screen, g.sess, g.frame)
		}
	}
}

func (g *Game) cleanup() {
	if g.audioInit {
		speaker.Close()
	}
	g.screen.Fini()
}

// openLog returns the destination for session logs; without a log file they
// are dropped so they do not garble the screen
func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	out, closeLog, err := openLog(settings.LogFile)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLog()

	appLogger, err := logger.New("APP", config.ColorGreen, out)
	if err != nil {
		log.Fatal(err)
	}
	sessionLogger, err := logger.New("SESSION", config.ColorCyan, out)
	if err != nil {
		log.Fatal(err)
	}

	game, err := NewGame(settings, sessionLogger)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating game: %v", err))
		closeLog()
		log.Fatal(err)
	}
	appLogger.Info("Terminal game started")

	game.run()
	game.cleanup()
	appLogger.Info(fmt.Sprintf("Exiting: %s", game.sess))
}
