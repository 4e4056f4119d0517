package rbtree

import (
	"encoding/binary"
	"fmt"
)

// Layout describes where the red-black tree words live in target memory.
// The defaults mirror Linux:
//
//	struct rb_node {
//		unsigned long  __rb_parent_color;
//		struct rb_node *rb_right;
//		struct rb_node *rb_left;
//	};
//	struct rb_root        { struct rb_node *rb_node; };
//	struct rb_root_cached { struct rb_root rb_root; struct rb_node *rb_leftmost; };
type Layout struct {
	PointerSize int
	ByteOrder   binary.ByteOrder

	ParentColorOffset uint64
	RightOffset       uint64
	LeftOffset        uint64

	RootNodeOffset uint64
	LeftmostOffset uint64
}

var Layout64 = kernelLayout(8, binary.LittleEndian)

var Layout32 = kernelLayout(4, binary.LittleEndian)

func kernelLayout(ptrSize int, order binary.ByteOrder) Layout {
	ps := uint64(ptrSize)
	return Layout{
		PointerSize:       ptrSize,
		ByteOrder:         order,
		ParentColorOffset: 0,
		RightOffset:       ps,
		LeftOffset:        2 * ps,
		RootNodeOffset:    0,
		LeftmostOffset:    ps,
	}
}

// NodeSize is sizeof(struct rb_node).
func (l Layout) NodeSize() uint64 {
	return 3 * uint64(l.PointerSize)
}

func (l Layout) validate() error {
	if l.PointerSize != 4 && l.PointerSize != 8 {
		return fmt.Errorf("unsupported pointer size %d", l.PointerSize)
	}
	if l.ByteOrder == nil {
		return fmt.Errorf("layout has no byte order")
	}
	ps := uint64(l.PointerSize)
	for _, off := range []uint64{l.ParentColorOffset, l.RightOffset, l.LeftOffset} {
		if off%ps != 0 || off+ps > l.NodeSize() {
			return fmt.Errorf("node field offset %d does not fit a %d-byte node", off, l.NodeSize())
		}
	}
	return nil
}

func (l Layout) decode(buf []byte) uint64 {
	if l.PointerSize == 4 {
		return uint64(l.ByteOrder.Uint32(buf))
	}
	return l.ByteOrder.Uint64(buf)
}
