package main

import (
	"bytes"
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const sampleRate = 44100

// sounds holds the players for the game cues. A nil *sounds is silent.
type sounds struct {
	ctx            *audio.Context
	eatPlayer      *audio.Player
	gameOverPlayer *audio.Player
	bgLoop         *audio.InfiniteLoop
	bgPlayer       *audio.Player
}

func newSounds() (*sounds, error) {
	s := &sounds{ctx: audio.NewContext(sampleRate)}
	s.eatPlayer = newBeepPlayer(s.ctx, 880, 0.1)
	s.gameOverPlayer = newBeepPlayer(s.ctx, 220, 0.4)

	var err error
	s.bgLoop, s.bgPlayer, err = newBackgroundLoop(s.ctx)
	if err != nil {
		return nil, fmt.Errorf("creating background loop: %w", err)
	}
	return s, nil
}

// newBeepPlayer renders a decaying sine tone as 16-bit stereo PCM
func newBeepPlayer(ctx *audio.Context, freq float64, durSec float64) *audio.Player {
	n := int(float64(sampleRate) * durSec)
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		v := int16(math.Sin(2*math.Pi*freq*t) * 4000 * math.Pow(math.E, -3*t))
		for ch := 0; ch < 2; ch++ {
			idx := i*4 + ch*2
			buf[idx] = byte(v)
			buf[idx+1] = byte(v >> 8)
		}
	}
	return ctx.NewPlayerFromBytes(buf)
}

// newBackgroundLoop arpeggiates a C major chord forever
func newBackgroundLoop(ctx *audio.Context) (*audio.InfiniteLoop, *audio.Player, error) {
	notes := []float64{261.63, 329.63, 392.00, 523.25}
	durSec := 0.25
	perNote := int(float64(sampleRate) * durSec)
	buf := make([]byte, perNote*len(notes)*4)
	idx := 0
	for _, freq := range notes {
		for i := 0; i < perNote; i++ {
			t := float64(i) / sampleRate
			v := int16(math.Sin(2*math.Pi*freq*t) * 2000 * math.Pow(math.E, -2*t))
			for ch := 0; ch < 2; ch++ {
				buf[idx] = byte(v)
				buf[idx+1] = byte(v >> 8)
				idx += 2
			}
		}
	}
	loop := audio.NewInfiniteLoop(bytes.NewReader(buf), int64(len(buf)))
	player, err := ctx.NewPlayer(loop)
	if err != nil {
		return nil, nil, err
	}
	return loop, player, nil
}

func replay(p *audio.Player) {
	if err := p.Rewind(); err != nil {
		return
	}
	p.Play()
}

func (s *sounds) eat() {
	if s == nil {
		return
	}
	replay(s.eatPlayer)
}

func (s *sounds) gameOver() {
	if s == nil {
		return
	}
	s.bgPlayer.Pause()
	replay(s.gameOverPlayer)
}

func (s *sounds) startMusic() {
	if s == nil {
		return
	}
	replay(s.bgPlayer)
}

func (s *sounds) pauseMusic() {
	if s == nil {
		return
	}
	s.bgPlayer.Pause()
}

func (s *sounds) resumeMusic() {
	if s == nil {
		return
	}
	s.bgPlayer.Play()
}
