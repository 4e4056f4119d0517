package kimage

// Put allocates an item with key and links it into the tree. It returns the
// item's address, or inserted=false if the key exists and duplicates are not
// allowed.
func (b *Builder) Put(key uint64) (addr uint64, inserted bool) {
	parent := uint64(0)
	link := b.layout.RootNodeOffset + b.root
	leftmost := true

	for temp := b.word(link); temp != 0; temp = b.word(link) {
		parent = temp
		k := b.key(temp)
		switch {
		case key < k:
			link = temp + b.layout.LeftOffset
		case key > k || b.opts.AllowDuplicates:
			link = temp + b.layout.RightOffset
			leftmost = false
		default:
			return 0, false
		}
	}

	item := b.alloc(key)
	z := b.NodeOf(item)
	// rb_link_node: red, parent set, no children
	b.setWord(z+b.layout.ParentColorOffset, parent)
	b.setWord(link, z)
	if leftmost {
		b.setWord(b.root+b.layout.LeftmostOffset, z)
	}

	b.fixInsert(z)
	b.count++
	return item, true
}

// PutDetached allocates an item whose node is cleared (RB_CLEAR_NODE) and
// not linked into the tree.
func (b *Builder) PutDetached(key uint64) uint64 {
	item := b.alloc(key)
	z := b.NodeOf(item)
	b.setWord(z+b.layout.ParentColorOffset, z)
	return item
}

func (b *Builder) alloc(key uint64) uint64 {
	rec := make([]byte, b.typ.Size)
	b.layout.ByteOrder.PutUint64(rec, key)
	index, err := b.items.Push(rec)
	if err != nil {
		panic(err)
	}
	return b.items.Addr(index)
}

func (b *Builder) fixInsert(z uint64) {
	for b.isRed(b.parent(z)) {
		p := b.parent(z)
		g := b.parent(p) // a red parent is never the top, so g != 0
		if p == b.left(g) { // first 3 cases
			y := b.right(g) // z uncle

			// first subcase
			if b.isRed(y) {
				b.setBlack(p)
				b.setBlack(y)
				b.setRed(g)
				z = g
			} else { // second and third subcases
				if z == b.right(p) { // second subcase, turning to third
					z = p
					b.leftRotate(z)
				}

				// third case
				b.setBlack(b.parent(z))
				b.setRed(b.parent(b.parent(z)))
				b.rightRotate(b.parent(b.parent(z)))
			}
		} else { // other 3 cases
			y := b.left(g) // z uncle

			// first subcase
			if b.isRed(y) {
				b.setBlack(p)
				b.setBlack(y)
				b.setRed(g)
				z = g
			} else { // second and third subcases
				if z == b.left(p) { // second subcase, turning to third
					z = p
					b.rightRotate(z)
				}

				// third case
				b.setBlack(b.parent(z))
				b.setRed(b.parent(b.parent(z)))
				b.leftRotate(b.parent(b.parent(z)))
			}
		}
	}

	b.setBlack(b.top())
}

func (b *Builder) leftRotate(x uint64) {
	y := b.right(x)

	b.setRight(x, b.left(y))
	if b.left(y) != 0 {
		b.setParent(b.left(y), x)
	}

	b.setParent(y, b.parent(x))

	if b.parent(x) == 0 { // x is root
		b.setTop(y)
	} else {
		if b.left(b.parent(x)) == x { // x is left child
			b.setLeft(b.parent(x), y)
		} else { // x is right child
			b.setRight(b.parent(x), y)
		}
	}

	b.setLeft(y, x)
	b.setParent(x, y)
}

func (b *Builder) rightRotate(x uint64) {
	y := b.left(x)

	b.setLeft(x, b.right(y))
	if b.right(y) != 0 {
		b.setParent(b.right(y), x)
	}

	b.setParent(y, b.parent(x))

	if b.parent(x) == 0 { // x is root
		b.setTop(y)
	} else {
		if b.right(b.parent(x)) == x { // x is right child
			b.setRight(b.parent(x), y)
		} else { // x is left child
			b.setLeft(b.parent(x), y)
		}
	}

	b.setRight(y, x)
	b.setParent(x, y)
}
