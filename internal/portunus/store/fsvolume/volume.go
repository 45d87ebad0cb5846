// Package fsvolume is a store.Volume on a mounted directory, typically the
// SD card.
package fsvolume

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotDirectory = errors.New("volume root is not a directory")

type Volume struct {
	root string
}

// Mount checks that root is an existing, writable directory. It does not
// create it: a missing mount point means the medium is absent.
func Mount(root string) (*Volume, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("mount %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("mount %s: %w", root, ErrNotDirectory)
	}

	probe, err := os.CreateTemp(root, ".probe-*")
	if err != nil {
		return nil, fmt.Errorf("mount %s: not writable: %w", root, err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	return &Volume{root: root}, nil
}

func (v *Volume) Open(name string) (io.ReadCloser, error) {
	p, err := v.path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (v *Volume) Create(name string) (io.WriteCloser, error) {
	p, err := v.path(name)
	if err != nil {
		return nil, err
	}
	return os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
}

func (v *Volume) Append(name string) (io.WriteCloser, error) {
	p, err := v.path(name)
	if err != nil {
		return nil, err
	}
	return os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func (v *Volume) Size(name string) (int64, error) {
	p, err := v.path(name)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// path resolves a flat file name under the root. A leading slash is
// accepted ("/log.csv") since the device firmware names files that way.
func (v *Volume) path(name string) (string, error) {
	name = strings.TrimPrefix(name, "/")
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("bad file name %q", name)
	}
	return filepath.Join(v.root, name), nil
}
