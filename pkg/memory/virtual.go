package memory

import (
	"bytes"
	"fmt"
	"io"
)

// Virtual is an in-process image of a contiguous address range starting at
// base. It is the writable backing used to build trees for tests and demos.
func Virtual(base uint64) *VirtualMemory {
	return &VirtualMemory{base: base}
}

type VirtualMemory struct {
	base uint64
	data []byte
}

func (vm *VirtualMemory) Base() uint64 {
	return vm.base
}

func (vm *VirtualMemory) Size() uint64 {
	return uint64(len(vm.data))
}

// End returns the first address past the image.
func (vm *VirtualMemory) End() uint64 {
	return vm.base + vm.Size()
}

func (vm *VirtualMemory) Truncate(size uint64) error {
	if vm.base+size < vm.base {
		return fmt.Errorf("truncate size 0x%x overflows address space at base 0x%x", size, vm.base)
	}
	if size <= uint64(cap(vm.data)) {
		old := len(vm.data)
		vm.data = vm.data[:size]
		if int(size) > old {
			clear(vm.data[old:])
		}
		return nil
	}
	data := make([]byte, size, 2*size)
	copy(data, vm.data)
	vm.data = data
	return nil
}

func (vm *VirtualMemory) ReadMemory(buf []byte, addr uint64) error {
	if !inRange(addr, len(buf), vm.base, vm.Size()) {
		return fault(addr, len(buf), nil)
	}
	off := addr - vm.base
	copy(buf, vm.data[off:off+uint64(len(buf))])
	return nil
}

func (vm *VirtualMemory) WriteMemory(buf []byte, addr uint64) error {
	if !inRange(addr, len(buf), vm.base, vm.Size()) {
		return fault(addr, len(buf), nil)
	}
	off := addr - vm.base
	copy(vm.data[off:], buf)
	return nil
}

// Reader streams the raw image, e.g. for saving it to a file.
func (vm *VirtualMemory) Reader() io.Reader {
	return bytes.NewReader(vm.data)
}
