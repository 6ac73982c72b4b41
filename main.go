package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"os"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/sarwarhridoy4/snake-go/internal/clock"
	"github.com/sarwarhridoy4/snake-go/internal/config"
	"github.com/sarwarhridoy4/snake-go/internal/grid"
	"github.com/sarwarhridoy4/snake-go/internal/input"
	"github.com/sarwarhridoy4/snake-go/internal/session"
)

const mouseID = -1

var (
	bgColor     = color.RGBA{24, 24, 28, 255}
	borderColor = color.RGBA{40, 40, 48, 255}
	headColor   = color.RGBA{80, 220, 120, 255}
	bodyColor   = color.RGBA{60, 180, 100, 255}
	foodColor   = color.RGBA{230, 70, 70, 255}
	staleColor  = color.RGBA{140, 90, 90, 255}
)

var directionKeys = []struct {
	keys []ebiten.Key
	dir  grid.Direction
}{
	{[]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}, grid.Up},
	{[]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, grid.Down},
	{[]ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, grid.Left},
	{[]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, grid.Right},
}

type Game struct {
	settings config.Config
	grid     grid.Grid
	sess     *session.Session
	pump     *clock.Pump
	view     *view
	swipes   *input.Tracker

	frame        int
	foodPulse    float64
	scaleFactor  float64 // For dynamic scaling
	isFullscreen bool    // Track maximized/full-screen state
}

func NewGame(settings config.Config, appLogger general_i.Logger) (*Game, error) {
	g, err := grid.FromArea(settings.ArenaWidth, settings.ArenaHeight, settings.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("building grid: %w", err)
	}

	var snd *sounds
	if settings.EnableSound {
		if snd, err = newSounds(); err != nil {
			appLogger.Error(fmt.Sprintf("Sound disabled: %v", err))
			snd = nil
		}
	}

	sessionLogger, err := logger.New("SESSION", config.ColorCyan, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("creating session logger: %w", err)
	}

	sched := clock.NewScheduler()
	v := newView(snd)
	sess, err := session.New(&session.Config{
		Settings:  settings,
		Grid:      g,
		Scheduler: sched,
		Renderer:  v,
		Logger:    sessionLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &Game{
		settings:    settings,
		grid:        g,
		sess:        sess,
		pump:        clock.NewPump(sched, clock.NewMonotonicTimeProvider()),
		view:        v,
		swipes:      input.NewTracker(input.SwipeThreshold),
		scaleFactor: 1.0,
	}, nil
}

// arenaSize is the pixel span covered by the grid's blocks and borders
func (g *Game) arenaSize() (int, int) {
	stride := g.grid.CellSize()
	return g.grid.Columns()*stride + 1, g.grid.Rows()*stride + 1
}

func (g *Game) Update() error {
	// Toggle full-screen/maximized with F key
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.isFullscreen = !g.isFullscreen
		if g.isFullscreen {
			ebiten.MaximizeWindow()
		} else {
			g.restoreWindow()
		}
	}

	// Exit full-screen/maximized with Esc key
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && g.isFullscreen {
		g.isFullscreen = false
		g.restoreWindow()
	}

	switch g.sess.Status() {
	case session.StatusReady, session.StatusGameOver:
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
			inpututil.IsKeyJustPressed(ebiten.KeyR) {
			g.sess.SubmitStart()
		}
	case session.StatusPlaying, session.StatusPaused:
		if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			g.sess.SubmitTogglePause()
		}
		for _, dk := range directionKeys {
			for _, k := range dk.keys {
				if inpututil.IsKeyJustPressed(k) {
					g.sess.SubmitDirection(dk.dir)
				}
			}
		}
	}

	g.updatePointers()

	if g.sess.Status() == session.StatusPlaying {
		g.foodPulse += 0.05
	}
	g.frame++
	g.pump.Step()
	return nil
}

// updatePointers turns touch and mouse drags into swipes. A tap on the title
// or the game over screen starts a game.
func (g *Game) updatePointers() {
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		g.swipes.Begin(int(id), x, y)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.swipes.Begin(mouseID, x, y)
	}

	for _, id := range inpututil.AppendJustReleasedTouchIDs(nil) {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		g.release(int(id), x, y)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.release(mouseID, x, y)
	}
}

func (g *Game) release(id, x, y int) {
	d, ok := g.swipes.End(id, x, y)
	if ok {
		g.sess.SubmitDirection(d)
		return
	}
	g.sess.SubmitStart()
}

func (g *Game) restoreWindow() {
	ebiten.RestoreWindow()
	ebiten.SetWindowSize(1280, 720)
}

// drawCell draws one bordered block; scale shrinks the block around its centre
func drawCell(p grid.Point, c color.Color, screen *ebiten.Image, scale float64, g *Game) {
	stride := float64(g.grid.CellSize())
	block := stride - 1
	x, y := float64(p.Col)*stride, float64(p.Row)*stride
	f := g.scaleFactor

	ebitenutil.DrawRect(screen, x*f, y*f, (block+2)*f, (block+2)*f, borderColor)
	size := block * scale
	offset := 1 + (block-size)/2
	ebitenutil.DrawRect(screen, (x+offset)*f, (y+offset)*f, size*f, size*f, c)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)

	w, h := g.arenaSize()
	screenWidth, screenHeight := float64(w), float64(h)

	if g.sess.Status() == session.StatusReady {
		g.drawCentered(screen, screenWidth, screenHeight, []string{
			"Snake!",
			"Eat food while it is fresh: it loses value every moment.",
			"Arrow Keys/WASD/Swipe: Move, P/Space: Pause, F: Maximize, Esc: Restore",
			"Press Enter or Space to start!",
			"Developed by Sarwar Hossain",
		})
		return
	}

	// Food fades toward its floor value and pulses while the game runs
	pulse := 0.9 + 0.1*math.Sin(g.foodPulse)
	c := foodColor
	if g.view.foodValue <= g.settings.FoodValueFloor {
		c = staleColor
	}
	drawCell(g.view.food, c, screen, pulse, g)

	for _, s := range g.view.segments {
		if s.Head {
			drawCell(s.Pos, headColor, screen, 1.0, g)
		} else {
			drawCell(s.Pos, bodyColor, screen, 0.9, g)
		}
	}

	// HUD in top-left with padding
	lines := []string{
		fmt.Sprintf("Score: %d | Time: %s | Food: %d", g.view.score, g.view.elapsed, g.view.foodValue),
	}
	switch {
	case g.sess.PausePending():
		lines = append(lines, "Pausing once the snake has finished growing...")
	case g.view.paused && g.frame/30%2 == 0:
		lines = append(lines, "Paused - Press P to Resume")
	}
	padding := 10.0 * g.scaleFactor
	lineHeight := 20.0 * g.scaleFactor
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, int(padding), int(padding+float64(i)*lineHeight))
	}

	if g.view.over {
		sum := g.view.summary
		g.drawCentered(screen, screenWidth, screenHeight, []string{
			"Game Over!",
			fmt.Sprintf("Score: %d   Eaten: %d   Length: %d", sum.Score, sum.Eaten, sum.Length),
			fmt.Sprintf("Time: %s", sum.Elapsed),
			fmt.Sprintf("Run %s", sum.RunID),
			"Press Enter/R or tap to Retry",
		})
	}
}

// drawCentered centres text lines both horizontally and vertically
func (g *Game) drawCentered(screen *ebiten.Image, screenWidth, screenHeight float64, lines []string) {
	lineHeight := 20.0
	totalHeight := float64(len(lines)) * lineHeight
	startY := (screenHeight - totalHeight) / 2
	for i, line := range lines {
		approxWidth := float64(len(line)) * 6
		x := (screenWidth - approxWidth) / 2
		y := startY + float64(i)*lineHeight
		ebitenutil.DebugPrintAt(screen, line, int(x*g.scaleFactor), int(y*g.scaleFactor))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	// Update isFullscreen based on window state
	g.isFullscreen = ebiten.IsWindowMaximized()
	w, h := g.arenaSize()
	scaleX := float64(outsideWidth) / float64(w)
	scaleY := float64(outsideHeight) / float64(h)
	g.scaleFactor = math.Min(scaleX, scaleY)
	return int(float64(w) * g.scaleFactor), int(float64(h) * g.scaleFactor)
}

func main() {
	appLogger, err := logger.New("APP", config.ColorGreen, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}

	settings, err := config.Load()
	if err != nil {
		appLogger.Error(fmt.Sprintf("Loading configuration: %v", err))
		os.Exit(1)
	}

	game, err := NewGame(settings, appLogger)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating game: %v", err))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Arena %dx%d cells", game.grid.Columns(), game.grid.Rows()))

	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("Snake - Go + Ebiten")
	ebiten.SetWindowResizable(true)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
