package kimage

// Raw accessors for the words of nodes in the image. Node arguments are
// rb_node addresses; 0 is null and counts as black.

const (
	colorBlack = 1
	colorMask  = 3
)

func (b *Builder) word(addr uint64) uint64 {
	var buf [8]byte
	p := buf[:b.layout.PointerSize]
	if err := b.mem.ReadMemory(p, addr); err != nil {
		panic(err)
	}
	if b.layout.PointerSize == 4 {
		return uint64(b.layout.ByteOrder.Uint32(p))
	}
	return b.layout.ByteOrder.Uint64(p)
}

func (b *Builder) setWord(addr, val uint64) {
	var buf [8]byte
	p := buf[:b.layout.PointerSize]
	if b.layout.PointerSize == 4 {
		b.layout.ByteOrder.PutUint32(p, uint32(val))
	} else {
		b.layout.ByteOrder.PutUint64(p, val)
	}
	if err := b.mem.WriteMemory(p, addr); err != nil {
		panic(err)
	}
}

func (b *Builder) key(n uint64) uint64 {
	var buf [keySize]byte
	if err := b.mem.ReadMemory(buf[:], b.itemOf(n)); err != nil {
		panic(err)
	}
	return b.layout.ByteOrder.Uint64(buf[:])
}

func (b *Builder) top() uint64 {
	return b.word(b.root + b.layout.RootNodeOffset)
}

func (b *Builder) setTop(n uint64) {
	b.setWord(b.root+b.layout.RootNodeOffset, n)
}

func (b *Builder) parentColor(n uint64) uint64 {
	return b.word(n + b.layout.ParentColorOffset)
}

func (b *Builder) parent(n uint64) uint64 {
	return b.parentColor(n) &^ colorMask
}

func (b *Builder) setParent(n, p uint64) {
	b.setWord(n+b.layout.ParentColorOffset, p|b.parentColor(n)&colorMask)
}

func (b *Builder) isRed(n uint64) bool {
	return n != 0 && b.parentColor(n)&colorBlack == 0
}

func (b *Builder) setRed(n uint64) {
	b.setWord(n+b.layout.ParentColorOffset, b.parentColor(n)&^colorMask)
}

func (b *Builder) setBlack(n uint64) {
	b.setWord(n+b.layout.ParentColorOffset, b.parentColor(n)&^colorMask|colorBlack)
}

func (b *Builder) left(n uint64) uint64 {
	return b.word(n + b.layout.LeftOffset)
}

func (b *Builder) setLeft(n, c uint64) {
	b.setWord(n+b.layout.LeftOffset, c)
}

func (b *Builder) right(n uint64) uint64 {
	return b.word(n + b.layout.RightOffset)
}

func (b *Builder) setRight(n, c uint64) {
	b.setWord(n+b.layout.RightOffset, c)
}
