package array

import (
	"fmt"

	"rbwalk/pkg/memory"
)

type Integer interface {
	~int   | ~uint   |
	~uint8 | ~uint16 | ~uint32 | ~uint64 |
	~int8  | ~int16  | ~int32  | ~int64
}

// Image is writable memory that can be grown at its end.
type Image interface {
	memory.Writer
	Base() uint64
	Size() uint64
	Truncate(size uint64) error
}

type array[T Integer] struct {
	image    Image
	start    uint64
	elemSize uint64
	length   T
}

// Array is a slab of fixed-size records laid out back to back in an image
// from a start address, growing the image as records are pushed.
type Array[T Integer] interface {
	Get(index T) ([]byte, error)
	Set(index T, val []byte) error
	Push(val []byte) (T, error)
	Len() T
	Addr(index T) uint64
	Index(addr uint64) (T, bool)
	End() uint64
	Image() Image
}

func New[T Integer](image Image, start uint64, elemSize int) (Array[T], error) {
	if elemSize <= 0 {
		return nil, fmt.Errorf("invalid element size %d", elemSize)
	}
	if start < image.Base() {
		return nil, fmt.Errorf("array start 0x%x below image base 0x%x", start, image.Base())
	}
	return &array[T]{
		image:    image,
		start:    start,
		elemSize: uint64(elemSize),
	}, nil
}

func (a *array[T]) Get(index T) ([]byte, error) {
	if err := a.checkBounds(index); err != nil {
		return nil, err
	}
	buf := make([]byte, a.elemSize)
	if err := a.image.ReadMemory(buf, a.Addr(index)); err != nil {
		return nil, err
	}
	return buf, nil
}

func (a *array[T]) Set(index T, val []byte) error {
	if err := a.checkBounds(index); err != nil {
		return err
	}
	if uint64(len(val)) > a.elemSize {
		return fmt.Errorf("value of %d bytes does not fit a %d-byte element", len(val), a.elemSize)
	}
	return a.image.WriteMemory(val, a.Addr(index))
}

func (a *array[T]) Push(val []byte) (T, error) {
	if err := a.grow(a.length + 1); err != nil {
		return 0, err
	}
	index := a.length - 1
	return index, a.Set(index, val)
}

func (a *array[T]) Len() T {
	return a.length
}

func (a *array[T]) Addr(index T) uint64 {
	return a.start + uint64(index)*a.elemSize
}

// Index maps the address of a record's first byte back to its index.
func (a *array[T]) Index(addr uint64) (T, bool) {
	if addr < a.start || (addr-a.start)%a.elemSize != 0 {
		return 0, false
	}
	index := T((addr - a.start) / a.elemSize)
	return index, index < a.length
}

// End is the first address past the last record.
func (a *array[T]) End() uint64 {
	return a.Addr(a.length)
}

func (a *array[T]) Image() Image {
	return a.image
}

func (a *array[T]) grow(size T) error {
	if size <= a.length {
		return nil
	}

	need := a.Addr(size) - a.image.Base()
	if need > a.image.Size() {
		if err := a.image.Truncate(need); err != nil {
			return err
		}
	}
	a.length = size
	return nil
}

func (a *array[T]) checkBounds(index T) error {
	if index < 0 || index >= a.length {
		return fmt.Errorf("out of bounds: %d, len: %d", index, a.length)
	}
	return nil
}
