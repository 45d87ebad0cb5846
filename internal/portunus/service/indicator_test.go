package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/BrandonDHaskell/Portunus/controller/internal/clock"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/device/sim"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/service"
)

func TestIndicator_BlinkBlocksForWholePattern(t *testing.T) {
	c := clock.Fake(epoch)
	b := sim.NewBoard(c)
	ind := service.NewIndicator(b, c, service.DefaultIntensity)

	ind.Blink(ind.Palette().Purple, 3, 120*time.Millisecond, 80*time.Millisecond)

	if got := c.Now().Sub(epoch); got != 600*time.Millisecond {
		t.Errorf("expected 600ms blocked, got %s", got)
	}
	px := b.PixelHistory()
	if len(px) != 6 {
		t.Fatalf("expected 6 writes, got %d", len(px))
	}
	if px[1].R != 0 || px[1].G != 0 || px[1].B != 0 {
		t.Errorf("expected dark between pulses, got %v", px[1])
	}
}

func TestIndicator_HaltShowsPattern(t *testing.T) {
	c := clock.Fake(epoch)
	b := sim.NewBoard(c)
	ind := service.NewIndicator(b, c, service.DefaultIntensity)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ind.Halt(ctx, service.StepBootSession)

	red := 0
	for _, p := range b.PixelHistory() {
		if p.R == service.DefaultIntensity && p.G == 0 && p.B == 0 {
			red++
		}
	}
	if red != 3 {
		t.Errorf("expected one burst of 3 red pulses, got %d", red)
	}
	if got := c.Now().Sub(epoch); got != 3*300*time.Millisecond+time.Second {
		t.Errorf("expected one burst plus pause, got %s", got)
	}
}

func TestIndicator_CustomIntensity(t *testing.T) {
	c := clock.Fake(epoch)
	b := sim.NewBoard(c)
	ind := service.NewIndicator(b, c, 255)

	ind.ShowDoor(true)

	px := b.PixelHistory()
	if len(px) != 1 || px[0].G != 255 {
		t.Errorf("expected full green, got %v", px)
	}
}
