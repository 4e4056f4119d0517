package memory

import (
	"errors"
	"fmt"
)

// ErrFault is matched by every failed read of target memory: unmapped
// addresses, short reads, closed accessors.
var ErrFault = errors.New("memory fault")

// ErrClosed is returned by accessors used after Close.
var ErrClosed = errors.New("accessor closed")

// Interface is the remote-memory accessor. Every ReadMemory call performs
// exactly one physical read of len(buf) bytes at addr and fills buf
// completely or fails. Implementations never serve a read from a cache.
type Interface interface {
	ReadMemory(buf []byte, addr uint64) error
}

// Writer is implemented by images that can be populated locally.
type Writer interface {
	Interface
	WriteMemory(buf []byte, addr uint64) error
}

type FaultError struct {
	Addr uint64
	Size int
	Err  error
}

func (e *FaultError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("memory fault at 0x%x (%d bytes): %v", e.Addr, e.Size, e.Err)
	}
	return fmt.Sprintf("memory fault at 0x%x (%d bytes)", e.Addr, e.Size)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}

func (e *FaultError) Is(target error) bool {
	return target == ErrFault
}

func fault(addr uint64, size int, err error) error {
	return &FaultError{Addr: addr, Size: size, Err: err}
}

// inRange reports whether [addr, addr+n) lies inside [start, start+size)
// without overflowing.
func inRange(addr uint64, n int, start, size uint64) bool {
	if addr < start {
		return false
	}
	off := addr - start
	return off <= size && uint64(n) <= size-off
}
