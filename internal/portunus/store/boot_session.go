package store

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// ReadBootCounter returns the session id stored in the boot counter file.
// A missing, empty or unparseable file reads as 0.
func ReadBootCounter(v Volume, name string) uint32 {
	f, err := v.Open(name)
	if err != nil {
		return 0
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return 0
	}
	n, err := strconv.ParseUint(strings.TrimSpace(line), 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

// WriteBootCounter replaces the boot counter file with id.
func WriteBootCounter(v Volume, name string, id uint32) error {
	f, err := v.Create(name)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrBootPersist, name, err)
	}
	if _, err := f.Write([]byte(strconv.FormatUint(uint64(id), 10) + "\n")); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: write %s: %v", ErrBootPersist, name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrBootPersist, name, err)
	}
	return nil
}

// BeginSession increments the persisted boot counter and returns the new
// session id. It must run before any other file on the volume is written.
// On error the returned id is still the one this boot would have used.
func BeginSession(v Volume, name string) (uint32, error) {
	id := ReadBootCounter(v, name) + 1
	if err := WriteBootCounter(v, name, id); err != nil {
		return id, err
	}
	return id, nil
}
