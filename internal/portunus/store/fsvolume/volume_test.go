package fsvolume_test

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/store/fsvolume"
)

func TestMount_MissingRoot(t *testing.T) {
	_, err := fsvolume.Mount(filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestMount_RootIsFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := fsvolume.Mount(p)
	if !errors.Is(err, fsvolume.ErrNotDirectory) {
		t.Fatalf("expected ErrNotDirectory, got %v", err)
	}
}

func TestVolume_CreateAppendOpen(t *testing.T) {
	v, err := fsvolume.Mount(t.TempDir())
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}

	w, err := v.Create("/boot_id.txt")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, _ = w.Write([]byte("7\n"))
	_ = w.Close()

	a, err := v.Append("boot_id.txt")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	_, _ = a.Write([]byte("x\n"))
	_ = a.Close()

	r, err := v.Open("boot_id.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()
	b, _ := io.ReadAll(r)
	if string(b) != "7\nx\n" {
		t.Errorf("unexpected contents %q", b)
	}

	size, err := v.Size("boot_id.txt")
	if err != nil || size != 4 {
		t.Errorf("expected size 4, got %d err=%v", size, err)
	}
}

func TestVolume_MissingFileIsNotExist(t *testing.T) {
	v, err := fsvolume.Mount(t.TempDir())
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if _, err := v.Open("IDlist.csv"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open: expected ErrNotExist, got %v", err)
	}
	if _, err := v.Size("log.csv"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Size: expected ErrNotExist, got %v", err)
	}
}

func TestVolume_RejectsNestedNames(t *testing.T) {
	v, err := fsvolume.Mount(t.TempDir())
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if _, err := v.Create("../escape.txt"); err == nil {
		t.Error("expected error for path outside the volume")
	}
}
