// Package grid models the toroidal playing field: lattice points, the four
// movement directions and occupancy-aware random placement.
package grid

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

var (
	ErrInvalidDimensions = errors.New("grid dimensions must be positive")
	ErrAreaTooSmall      = errors.New("area cannot hold a single block")
	ErrGridFull          = errors.New("no free cell left on the grid")
)

// maxSamples is how many random draws RandomEmptyCell makes before it
// enumerates the free cells instead
const maxSamples = 64

type Point struct{ Col, Row int }

type Direction uint8

const (
	Up Direction = iota + 1
	Down
	Left
	Right
)

// Directions lists every valid direction
var Directions = [...]Direction{Up, Down, Left, Right}

// Opposite returns the reverse direction (Up<->Down, Left<->Right)
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

// Delta returns the unit step of the direction; rows grow downward
func (d Direction) Delta() (dCol, dRow int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// ParseDirection accepts "u", "d", "l", "r" or the full names, case-insensitive
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "u", "up":
		return Up, true
	case "d", "down":
		return Down, true
	case "l", "left":
		return Left, true
	case "r", "right":
		return Right, true
	}
	return 0, false
}

// Grid is a columns x rows torus. CellSize is the lattice stride in pixels,
// used only by adapters that draw it.
type Grid struct {
	cols     int
	rows     int
	cellSize int
}

func New(cols, rows, cellSize int) (Grid, error) {
	if cols <= 0 || rows <= 0 || cellSize <= 0 {
		return Grid{}, fmt.Errorf("%w: %dx%d cell %d", ErrInvalidDimensions, cols, rows, cellSize)
	}
	return Grid{cols: cols, rows: rows, cellSize: cellSize}, nil
}

// FromArea derives a grid from a pixel area and a block side length.
// Blocks carry a one pixel border on each side and neighbouring borders
// overlap, so a block occupies blockSize+2 pixels and the stride between
// blocks is blockSize+1. The area is trimmed to the largest span that fits a
// whole number of strides.
func FromArea(width, height, blockSize int) (Grid, error) {
	if blockSize <= 0 {
		return Grid{}, fmt.Errorf("%w: block size %d", ErrInvalidDimensions, blockSize)
	}
	actual := blockSize + 2
	stride := blockSize + 1
	if width < actual || height < actual {
		return Grid{}, fmt.Errorf("%w: %dx%d for block %d", ErrAreaTooSmall, width, height, blockSize)
	}
	cols := (width-actual)/stride + 1
	rows := (height-actual)/stride + 1
	return New(cols, rows, stride)
}

func (g Grid) Columns() int { return g.cols }
func (g Grid) Rows() int { return g.rows }
func (g Grid) CellSize() int { return g.cellSize }
func (g Grid) Cells() int { return g.cols * g.rows }

func (g Grid) Contains(p Point) bool {
	return p.Col >= 0 && p.Col < g.cols && p.Row >= 0 && p.Row < g.rows
}

// Wrap steps one cell from p in direction d; leaving an edge re-enters on the
// opposite edge
func (g Grid) Wrap(p Point, d Direction) Point {
	dc, dr := d.Delta()
	return Point{
		Col: (p.Col + dc + g.cols) % g.cols,
		Row: (p.Row + dr + g.rows) % g.rows,
	}
}

// RandomEmptyCell draws uniformly among the cells not in occupied.
// It returns ErrGridFull when every cell is taken.
func (g Grid) RandomEmptyCell(rng *rand.Rand, occupied map[Point]bool) (Point, error) {
	taken := 0
	for p, ok := range occupied {
		if ok && g.Contains(p) {
			taken++
		}
	}
	free := g.Cells() - taken
	if free <= 0 {
		return Point{}, ErrGridFull
	}

	for i := 0; i < maxSamples; i++ {
		p := Point{Col: rng.Intn(g.cols), Row: rng.Intn(g.rows)}
		if !occupied[p] {
			return p, nil
		}
	}

	// Crowded grid: pick the n-th free cell in row-major order
	n := rng.Intn(free)
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			p := Point{Col: col, Row: row}
			if occupied[p] {
				continue
			}
			if n == 0 {
				return p, nil
			}
			n--
		}
	}
	return Point{}, ErrGridFull
}
