package main

import (
	"github.com/hajimehoshi/ebiten/v2/audio"
)

const (
	sampleRate = 48000
	toneHz     = 440
	amplitude  = 6000
)

// squareWave is an endless 16-bit little-endian stereo square-wave
// stream for the audio player to pull from.
type squareWave struct {
	pos int64
}

func (s *squareWave) Read(buf []byte) (int, error) {
	const halfPeriod = sampleRate / toneHz / 2

	n := len(buf) / 4 * 4
	for i := 0; i < n; i += 4 {
		v := int16(amplitude)
		if (s.pos/halfPeriod)%2 == 1 {
			v = -amplitude
		}
		buf[i] = byte(v)
		buf[i+1] = byte(v >> 8)
		buf[i+2] = byte(v)
		buf[i+3] = byte(v >> 8)
		s.pos++
	}
	return n, nil
}

// beeper plays a steady tone while the machine's sound timer is
// running.
type beeper struct {
	player  *audio.Player
	beeping bool
}

func newBeeper() *beeper {
	ctx := audio.NewContext(sampleRate)
	player, err := ctx.NewPlayer(&squareWave{})
	if err != nil {
		// No audio device; stay silent.
		return &beeper{}
	}
	return &beeper{player: player}
}

func (b *beeper) setBeeping(on bool) {
	if b.player == nil || on == b.beeping {
		return
	}
	b.beeping = on
	if on {
		b.player.Play()
	} else {
		b.player.Pause()
	}
}
