// Package sim is an in-memory lock board: a card reader with a queue of
// pending taps, a door switch, a solenoid and a pixel that record every
// command with the clock time it was issued.
package sim

import (
	"errors"
	"sync"
	"time"

	"github.com/BrandonDHaskell/Portunus/controller/internal/clock"
)

// DefaultFirmware is the identity a simulated reader reports.
const DefaultFirmware uint32 = 0x32010607

var ErrReaderOffline = errors.New("sim: reader offline")

// SolenoidLevel is a drive level the solenoid was last commanded to.
type SolenoidLevel string

const (
	LevelOff    SolenoidLevel = "off"
	LevelStrong SolenoidLevel = "strong"
	LevelWeak   SolenoidLevel = "weak"
)

type SolenoidCommand struct {
	At    time.Time
	Level SolenoidLevel
}

type PixelWrite struct {
	At      time.Time
	R, G, B uint8
}

// Board implements device.CardReader, device.DoorSensor, device.Solenoid
// and device.Pixel.
type Board struct {
	clock clock.Clock

	mu       sync.Mutex
	firmware uint32
	offline  bool
	taps     [][]byte
	locked   bool
	solenoid []SolenoidCommand
	pixel    []PixelWrite
}

// NewBoard returns a board with the door locked and an online reader.
func NewBoard(c clock.Clock) *Board {
	return &Board{clock: c, firmware: DefaultFirmware, locked: true}
}

// SetFirmware overrides the reader identity; zero simulates a reader that
// does not answer.
func (b *Board) SetFirmware(v uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.firmware = v
}

// SetOffline makes Identify fail with ErrReaderOffline.
func (b *Board) SetOffline(offline bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.offline = offline
}

// Tap queues a tag for the next TryRead.
func (b *Board) Tap(uid []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.taps = append(b.taps, append([]byte(nil), uid...))
}

// SetLocked moves the door.
func (b *Board) SetLocked(locked bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.locked = locked
}

func (b *Board) Identify() (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.offline {
		return 0, ErrReaderOffline
	}
	return b.firmware, nil
}

// TryRead returns the oldest queued tap. It never blocks.
func (b *Board) TryRead(_ time.Duration) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.taps) == 0 {
		return nil, false
	}
	uid := b.taps[0]
	b.taps = b.taps[1:]
	return uid, true
}

func (b *Board) IsLocked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locked
}

func (b *Board) StrongPulse() { b.drive(LevelStrong) }
func (b *Board) WeakHold()    { b.drive(LevelWeak) }
func (b *Board) Off()         { b.drive(LevelOff) }

func (b *Board) drive(l SolenoidLevel) {
	now := b.clock.Now()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.solenoid = append(b.solenoid, SolenoidCommand{At: now, Level: l})
}

func (b *Board) Set(r, g, bl uint8) {
	now := b.clock.Now()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pixel = append(b.pixel, PixelWrite{At: now, R: r, G: g, B: bl})
}

// SolenoidLevel returns the level of the last solenoid command, LevelOff if
// none was issued.
func (b *Board) SolenoidLevel() SolenoidLevel {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.solenoid) == 0 {
		return LevelOff
	}
	return b.solenoid[len(b.solenoid)-1].Level
}

// SolenoidHistory returns a copy of every solenoid command issued.
func (b *Board) SolenoidHistory() []SolenoidCommand {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]SolenoidCommand, len(b.solenoid))
	copy(out, b.solenoid)
	return out
}

// PixelHistory returns a copy of every pixel write.
func (b *Board) PixelHistory() []PixelWrite {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]PixelWrite, len(b.pixel))
	copy(out, b.pixel)
	return out
}

// ResetHistory clears recorded solenoid and pixel commands.
func (b *Board) ResetHistory() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.solenoid = nil
	b.pixel = nil
}
