package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sarwarhridoy4/snake-go/internal/grid"
)

// ANSI colours for named loggers
const (
	ColorReset = "\033[0m"
	ColorRed   = "\033[31m"
	ColorGreen = "\033[32m"
	ColorBlue  = "\033[34m"
	ColorCyan  = "\033[36m"
)

// RandomDirection lets the session pick the initial heading
const RandomDirection = "random"

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every tunable of a game session and its adapters.
type Config struct {
	InitialPace     time.Duration // time between two movements at start
	PaceStep        time.Duration // pace reduction per speed-up
	PaceFloor       time.Duration // the pace never goes below this
	EatenPerSpeedUp int           // food eaten between speed-up attempts

	InitialDirection string // "u", "d", "l", "r" or "random"
	AllowReverseGear bool   // opposite input reverses the snake instead of being ignored

	GrowthWindow       time.Duration // how long one meal keeps appending segments
	GrowthAppendOffset time.Duration // added to the pace between two appends

	FoodValueMax      int
	FoodValueFloor    int
	FoodDecayInterval time.Duration

	ArenaWidth  int // pixels
	ArenaHeight int // pixels
	BlockSize   int // pixels, border excluded

	Seed        int64  // 0 seeds from the clock
	EnableSound bool
	LogFile     string // terminal front-end only, empty discards logs
}

// Default returns the stock game tuning
func Default() Config {
	return Config{
		InitialPace:     80 * time.Millisecond,
		PaceStep:        5 * time.Millisecond,
		PaceFloor:       50 * time.Millisecond,
		EatenPerSpeedUp: 3,

		InitialDirection: RandomDirection,
		AllowReverseGear: true,

		GrowthWindow:       500 * time.Millisecond,
		GrowthAppendOffset: 100 * time.Millisecond,

		FoodValueMax:      100,
		FoodValueFloor:    5,
		FoodDecayInterval: 60 * time.Millisecond,

		ArenaWidth:  600,
		ArenaHeight: 400,
		BlockSize:   10,

		EnableSound: true,
	}
}

// Load reads an optional .env file, applies SNAKE_* environment overrides on
// top of Default and validates the result
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	c := Default()
	if err := c.Apply(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Apply overrides fields from the given lookup (os.LookupEnv in production)
func (c *Config) Apply(lookup func(string) (string, bool)) error {
	e := envReader{lookup: lookup}

	e.millis("SNAKE_INITIAL_PACE_MS", &c.InitialPace)
	e.millis("SNAKE_PACE_STEP_MS", &c.PaceStep)
	e.millis("SNAKE_PACE_FLOOR_MS", &c.PaceFloor)
	e.integer("SNAKE_EATEN_PER_SPEEDUP", &c.EatenPerSpeedUp)
	e.str("SNAKE_INITIAL_DIRECTION", &c.InitialDirection)
	e.flag("SNAKE_REVERSE_GEAR", &c.AllowReverseGear)
	e.millis("SNAKE_GROWTH_WINDOW_MS", &c.GrowthWindow)
	e.millis("SNAKE_GROWTH_OFFSET_MS", &c.GrowthAppendOffset)
	e.integer("SNAKE_FOOD_VALUE_MAX", &c.FoodValueMax)
	e.integer("SNAKE_FOOD_VALUE_FLOOR", &c.FoodValueFloor)
	e.millis("SNAKE_FOOD_DECAY_MS", &c.FoodDecayInterval)
	e.integer("SNAKE_ARENA_WIDTH", &c.ArenaWidth)
	e.integer("SNAKE_ARENA_HEIGHT", &c.ArenaHeight)
	e.integer("SNAKE_BLOCK_SIZE", &c.BlockSize)
	e.integer64("SNAKE_SEED", &c.Seed)
	e.flag("SNAKE_SOUND", &c.EnableSound)
	e.str("SNAKE_LOG_FILE", &c.LogFile)

	return errors.Join(e.errs...)
}

// Validate checks the game tuning; arena sizing is checked by the adapter
// that builds the grid
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.PaceFloor > 0, "pace floor must be positive, got %v", c.PaceFloor)
	check(c.InitialPace >= c.PaceFloor, "initial pace %v is below the floor %v", c.InitialPace, c.PaceFloor)
	check(c.PaceStep >= 0, "pace step must not be negative, got %v", c.PaceStep)
	check(c.EatenPerSpeedUp > 0, "eaten per speed-up must be positive, got %d", c.EatenPerSpeedUp)
	check(c.GrowthWindow >= 0, "growth window must not be negative, got %v", c.GrowthWindow)
	check(c.GrowthAppendOffset >= 0, "growth offset must not be negative, got %v", c.GrowthAppendOffset)
	check(c.FoodValueFloor >= 0, "food floor must not be negative, got %d", c.FoodValueFloor)
	check(c.FoodValueMax >= 0, "food max must not be negative, got %d", c.FoodValueMax)
	check(c.FoodValueMax >= c.FoodValueFloor, "food max %d is below the floor %d", c.FoodValueMax, c.FoodValueFloor)
	check(c.FoodDecayInterval > 0, "food decay interval must be positive, got %v", c.FoodDecayInterval)

	if _, ok := c.Direction(); !ok && !strings.EqualFold(c.InitialDirection, RandomDirection) {
		check(false, "unknown initial direction %q", c.InitialDirection)
	}

	return errors.Join(errs...)
}

// Direction returns the configured initial heading; ok is false for "random"
func (c Config) Direction() (grid.Direction, bool) {
	return grid.ParseDirection(c.InitialDirection)
}

type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *envReader) raw(key string) (string, bool) {
	v, ok := e.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (e *envReader) fail(key, value string, err error) {
	e.errs = append(e.errs, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, value, err))
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.raw(key); ok {
		*dst = v
	}
}

func (e *envReader) integer(key string, dst *int) {
	v, ok := e.raw(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = n
}

func (e *envReader) integer64(key string, dst *int64) {
	v, ok := e.raw(key)
	if !ok {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = n
}

func (e *envReader) millis(key string, dst *time.Duration) {
	v, ok := e.raw(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = time.Duration(n) * time.Millisecond
}

func (e *envReader) flag(key string, dst *bool) {
	v, ok := e.raw(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = b
}
