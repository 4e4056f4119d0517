package components

import (
	"io"

	"go.uber.org/zap"

	"rbwalk/pkg/kimage"
	"rbwalk/pkg/rbtree"
)

type GenerateConfigs struct {
	ImagePath       string
	Base            uint64
	Count           int
	Seed            uint64
	PointerSize     int
	AllowDuplicates bool
	Logger          *zap.SugaredLogger
}

type DumpConfigs struct {
	// exactly one of ImagePath and Pid selects the target
	ImagePath string
	Pid       int
	// address the first byte of the image file is loaded at
	Base uint64
	// read the image with pread instead of mapping it
	NoMmap bool

	PointerSize int
	Roots       []uint64

	// entry layout; zero values describe kimage items
	TypeName   string
	KeyOffset  uint64
	KeySize    uint64
	NodeOffset uint64

	// if set, look the key up instead of dumping
	FindKey *uint64
	// "in" (default) or "post"
	Order string

	Out    io.Writer
	Logger *zap.SugaredLogger
}

func layoutFor(pointerSize int) rbtree.Layout {
	if pointerSize == 4 {
		return rbtree.Layout32
	}
	return rbtree.Layout64
}

func (cfg *DumpConfigs) entryType() *rbtree.Type {
	layout := layoutFor(cfg.PointerSize)
	if cfg.TypeName == "" {
		return kimage.ItemType(layout)
	}

	keySize := cfg.KeySize
	if keySize == 0 {
		keySize = 8
	}
	return &rbtree.Type{
		Name: cfg.TypeName,
		Size: max(cfg.KeyOffset+keySize, cfg.NodeOffset+layout.NodeSize()),
		Members: []rbtree.Member{
			{Name: kimage.KeyMember, Offset: cfg.KeyOffset, Size: keySize},
			{Name: kimage.NodeMember, Offset: cfg.NodeOffset, Size: layout.NodeSize()},
		},
	}
}
