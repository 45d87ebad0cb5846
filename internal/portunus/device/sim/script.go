package sim

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// RunScript drives the board from a line-oriented script until r is
// exhausted or ctx is cancelled. Commands:
//
//	tap <hex uid>   queue a tag
//	open            door reports unlocked
//	close           door reports locked
//	wait <ms>       pause the script (real time)
//
// Blank lines and lines starting with '#' are skipped.
func (b *Board) RunScript(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if err := b.apply(ctx, fields); err != nil {
			return fmt.Errorf("script line %d: %w", line, err)
		}
	}
	return sc.Err()
}

func (b *Board) apply(ctx context.Context, fields []string) error {
	switch strings.ToLower(fields[0]) {
	case "tap":
		if len(fields) != 2 {
			return fmt.Errorf("tap needs one uid")
		}
		uid, err := hex.DecodeString(fields[1])
		if err != nil || len(uid) == 0 {
			return fmt.Errorf("bad uid %q", fields[1])
		}
		b.Tap(uid)
	case "open":
		b.SetLocked(false)
	case "close":
		b.SetLocked(true)
	case "wait":
		if len(fields) != 2 {
			return fmt.Errorf("wait needs a duration in ms")
		}
		ms, err := strconv.Atoi(fields[1])
		if err != nil || ms < 0 {
			return fmt.Errorf("bad wait %q", fields[1])
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(ms) * time.Millisecond):
		}
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
	return nil
}
