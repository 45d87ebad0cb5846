package service

import (
	"context"
	"time"

	"github.com/BrandonDHaskell/Portunus/controller/internal/clock"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/device"
)

// DefaultIntensity is the channel level used for every indicator color. The
// pixel sits behind a diffuser at eye height; 70 of 255 reads as "full".
const DefaultIntensity uint8 = 70

type Color struct {
	R, G, B uint8
}

// Palette holds the indicator colors at one intensity.
type Palette struct {
	Off    Color
	Green  Color // door locked
	Blue   Color // door unlocked
	Red    Color // denied credential, storage/reader faults
	Purple Color // credential list and audit log activity
	White  Color // booting
}

func NewPalette(intensity uint8) Palette {
	return Palette{
		Green:  Color{G: intensity},
		Blue:   Color{B: intensity},
		Red:    Color{R: intensity},
		Purple: Color{R: intensity, B: intensity},
		White:  Color{R: intensity, G: intensity, B: intensity},
	}
}

// Fatal blink timing.
const (
	fatalOn    = 150 * time.Millisecond
	fatalOff   = 150 * time.Millisecond
	fatalPause = 1000 * time.Millisecond
)

// Indicator drives the single status pixel. Every method runs on the
// caller's goroutine and blocks for as long as the pattern lasts.
type Indicator struct {
	pixel   device.Pixel
	clock   clock.Clock
	palette Palette
}

func NewIndicator(p device.Pixel, c clock.Clock, intensity uint8) *Indicator {
	return &Indicator{pixel: p, clock: c, palette: NewPalette(intensity)}
}

func (i *Indicator) Palette() Palette { return i.palette }

// Set writes c to the pixel immediately.
func (i *Indicator) Set(c Color) {
	i.pixel.Set(c.R, c.G, c.B)
}

// Blink shows c for on, then dark for off, times times.
func (i *Indicator) Blink(c Color, times int, on, off time.Duration) {
	for n := 0; n < times; n++ {
		i.Set(c)
		i.clock.Sleep(on)
		i.Set(i.palette.Off)
		i.clock.Sleep(off)
	}
}

// ShowDoor shows the steady-state door color.
func (i *Indicator) ShowDoor(locked bool) {
	if locked {
		i.Set(i.palette.Green)
		return
	}
	i.Set(i.palette.Blue)
}

// Halt repeats the fatal pattern for step until ctx is cancelled. On the
// device nothing cancels it; the pattern runs until power is removed.
func (i *Indicator) Halt(ctx context.Context, step FatalStep) {
	c, n := i.palette.FatalPattern(step)
	for {
		i.Blink(c, n, fatalOn, fatalOff)
		i.clock.Sleep(fatalPause)
		if ctx.Err() != nil {
			return
		}
	}
}
