// Package mapped exposes an input file as one read-only byte slice.
package mapped

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"golang.org/x/sys/unix"
)

// File is a read-only view of a whole input. The slice returned by Bytes,
// and every sub-slice of it, is invalid after Close.
type File struct {
	f      *os.File
	data   []byte
	mapped bool
}

// Open maps the file at path read-only. An empty file yields an empty,
// unmapped view.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := stat.Size()
	if size == 0 {
		return &File{f: f}, nil
	}
	if int64(int(size)) != size {
		f.Close()
		return nil, fmt.Errorf("mmap %s: file too large (%d bytes)", path, size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, &os.PathError{Op: "mmap", Path: path, Err: err}
	}
	return &File{f: f, data: data, mapped: true}, nil
}

func (m *File) Bytes() []byte {
	return m.data
}

func (m *File) Len() int {
	return len(m.data)
}

// Advise hints that the mapping will be read front to back.
func (m *File) Advise() error {
	if !m.mapped {
		return nil
	}
	return unix.Madvise(m.data, unix.MADV_SEQUENTIAL)
}

// Close releases the mapping and the descriptor. Both are attempted even
// if the first fails; the returned error combines the failures.
func (m *File) Close() error {
	var err error
	if m.mapped {
		err = multierr.Append(err, unix.Munmap(m.data))
		m.mapped = false
	}
	m.data = nil
	if m.f != nil {
		err = multierr.Append(err, m.f.Close())
		m.f = nil
	}
	return err
}
