package memory

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync"
)

// Op names a Volume operation for failure injection.
type Op string

const (
	OpOpen   Op = "open"
	OpCreate Op = "create"
	OpAppend Op = "append"
	OpWrite  Op = "write"
)

var ErrInjected = errors.New("memory: injected failure")

// Volume is an in-memory store.Volume for tests and dev environments.
type Volume struct {
	mu    sync.Mutex
	files map[string][]byte
	fail  map[string]error
}

func NewVolume() *Volume {
	return &Volume{
		files: make(map[string][]byte),
		fail:  make(map[string]error),
	}
}

// Fail makes every future op on name return ErrInjected. OpWrite fails
// writes on handles returned by Create and Append.
func (v *Volume) Fail(op Op, name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fail[failKey(op, name)] = ErrInjected
}

// WriteFile replaces a file's contents.  Test-only helper.
func (v *Volume) WriteFile(name, data string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.files[name] = []byte(data)
}

// ReadFile returns a file's contents.  Test-only helper.
func (v *Volume) ReadFile(name string) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	b, ok := v.files[name]
	return string(b), ok
}

func (v *Volume) Open(name string) (io.ReadCloser, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.fail[failKey(OpOpen, name)]; err != nil {
		return nil, err
	}
	b, ok := v.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(bytes.Clone(b))), nil
}

func (v *Volume) Create(name string) (io.WriteCloser, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.fail[failKey(OpCreate, name)]; err != nil {
		return nil, err
	}
	v.files[name] = nil
	return &writer{v: v, name: name}, nil
}

func (v *Volume) Append(name string) (io.WriteCloser, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.fail[failKey(OpAppend, name)]; err != nil {
		return nil, err
	}
	if _, ok := v.files[name]; !ok {
		v.files[name] = nil
	}
	return &writer{v: v, name: name}, nil
}

func (v *Volume) Size(name string) (int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	b, ok := v.files[name]
	if !ok {
		return 0, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	return int64(len(b)), nil
}

type writer struct {
	v    *Volume
	name string
}

func (w *writer) Write(p []byte) (int, error) {
	w.v.mu.Lock()
	defer w.v.mu.Unlock()
	if err := w.v.fail[failKey(OpWrite, w.name)]; err != nil {
		return 0, err
	}
	w.v.files[w.name] = append(w.v.files[w.name], p...)
	return len(p), nil
}

func (w *writer) Close() error { return nil }

func failKey(op Op, name string) string { return string(op) + ":" + name }
