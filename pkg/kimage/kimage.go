// Package kimage builds memory images holding Linux-layout red-black trees
// of items:
//
//	struct item {
//		u64            key;
//		struct rb_node node;
//	};
//
// It stands in for the system under inspection: it links and rebalances
// nodes in the image the way the kernel would, so readers can be tested
// against real trees, including trees that change between reads.
package kimage

import (
	"fmt"
	"math"

	"rbwalk/pkg/array"
	"rbwalk/pkg/memory"
	"rbwalk/pkg/rbtree"
)

const (
	KeyMember  = "key"
	NodeMember = "node"
	keySize    = 8
)

type Options struct {
	// Layout of the tree words. The zero value means rbtree.Layout64.
	Layout rbtree.Layout

	// if set true, equal keys are inserted to the right of existing ones
	// instead of being rejected.
	AllowDuplicates bool
}

// Builder owns an image with one rb_root_cached at its base followed by a
// slab of items.
type Builder struct {
	mem    *memory.VirtualMemory
	layout rbtree.Layout
	opts   Options
	typ    *rbtree.Type
	items  array.Array[uint32]
	root   uint64
	count  int
}

func New(base uint64, opts Options) (*Builder, error) {
	layout := opts.Layout
	if layout.PointerSize == 0 {
		layout = rbtree.Layout64
	}
	if base == 0 || base%8 != 0 {
		return nil, fmt.Errorf("image base 0x%x must be non-zero and 8-byte aligned", base)
	}
	if layout.PointerSize == 4 && base > math.MaxUint32 {
		return nil, fmt.Errorf("image base 0x%x does not fit a 32-bit pointer", base)
	}

	mem := memory.Virtual(base)
	rootSize := align(2 * uint64(layout.PointerSize))
	if err := mem.Truncate(rootSize); err != nil {
		return nil, err
	}

	typ := ItemType(layout)
	items, err := array.New[uint32](mem, base+rootSize, int(typ.Size))
	if err != nil {
		return nil, err
	}

	return &Builder{
		mem:    mem,
		layout: layout,
		opts:   opts,
		typ:    typ,
		items:  items,
		root:   base,
	}, nil
}

// ItemType describes struct item for the given layout.
func ItemType(layout rbtree.Layout) *rbtree.Type {
	return &rbtree.Type{
		Name: "item",
		Size: align(keySize + layout.NodeSize()),
		Members: []rbtree.Member{
			{Name: KeyMember, Offset: 0, Size: keySize},
			{Name: NodeMember, Offset: keySize, Size: layout.NodeSize()},
		},
	}
}

// CompareKey is an rbtree.Compare for item keys.
func CompareKey(key uint64, e rbtree.Entry) (int, error) {
	k, err := e.ReadUint(KeyMember)
	if err != nil {
		return 0, err
	}
	switch {
	case key < k:
		return -1, nil
	case key > k:
		return 1, nil
	}
	return 0, nil
}

func align(n uint64) uint64 {
	return (n + 7) &^ 7
}

func (b *Builder) Memory() *memory.VirtualMemory {
	return b.mem
}

func (b *Builder) Layout() rbtree.Layout {
	return b.layout
}

func (b *Builder) Type() *rbtree.Type {
	return b.typ
}

// Root is the address of the rb_root_cached, which is also the address of
// its embedded rb_root.
func (b *Builder) Root() uint64 {
	return b.root
}

func (b *Builder) Count() int {
	return b.count
}

// Program returns a reader over the builder's image.
func (b *Builder) Program() *rbtree.Program {
	prog, err := rbtree.NewProgram(b.mem, b.layout)
	if err != nil {
		panic(err)
	}
	return prog
}

// NodeOf returns the address of the rb_node embedded in the item at addr.
func (b *Builder) NodeOf(item uint64) uint64 {
	return item + keySize
}

func (b *Builder) itemOf(node uint64) uint64 {
	return node - keySize
}
