package store

import "io"

// Volume is the device's storage medium. Names are flat file names
// relative to the volume root ("log.csv"). A missing file is reported with
// an error wrapping fs.ErrNotExist.
type Volume interface {
	// Open opens a file for reading.
	Open(name string) (io.ReadCloser, error)

	// Create opens a file for writing, truncating it if it exists.
	Create(name string) (io.WriteCloser, error)

	// Append opens a file for appending, creating it if needed.
	Append(name string) (io.WriteCloser, error)

	// Size returns the size of a file in bytes.
	Size(name string) (int64, error)
}
