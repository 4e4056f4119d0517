//go:build unix

package memory

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// Mapped is a read-only shared mapping of an image file. Writes made to the
// file by other processes become visible to later reads, so a mapped image
// of a file that is still being written behaves like live memory.
type Mapped struct {
	file *os.File
	data []byte
}

// OpenMapped maps the whole file at path read-only. Addresses are file
// offsets.
func OpenMapped(path string) (*Mapped, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if stat.Size() == 0 {
		f.Close()
		return nil, errors.New("cannot mmap empty file")
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(stat.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Mapped{file: f, data: data}, nil
}

func (m *Mapped) Size() uint64 {
	return uint64(len(m.data))
}

func (m *Mapped) ReadMemory(buf []byte, addr uint64) error {
	if m.data == nil {
		return fault(addr, len(buf), ErrClosed)
	}
	if !inRange(addr, len(buf), 0, m.Size()) {
		return fault(addr, len(buf), nil)
	}
	copy(buf, m.data[addr:addr+uint64(len(buf))])
	return nil
}

// Close unmaps and closes the file
func (m *Mapped) Close() error {
	var firstErr error

	if m.data != nil {
		if err := unix.Munmap(m.data); err != nil {
			firstErr = err
		}
		m.data = nil
	}

	if m.file != nil {
		if err := m.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.file = nil
	}

	return firstErr
}
