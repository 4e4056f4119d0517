//go:build !unix

package memory

import "errors"

type Mapped struct{}

func OpenMapped(path string) (*Mapped, error) {
	return nil, errors.New("mapping images is only supported on unix")
}

func (m *Mapped) Size() uint64 {
	return 0
}

func (m *Mapped) ReadMemory(buf []byte, addr uint64) error {
	return fault(addr, len(buf), ErrClosed)
}

func (m *Mapped) Close() error {
	return nil
}
