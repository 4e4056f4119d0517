package kimage

import "fmt"

// Validate checks the red-black and ordering invariants of the tree in the
// image, along with every parent link and the cached leftmost node.
func (b *Builder) Validate() error {
	top := b.top()
	if top == 0 {
		if lm := b.word(b.root + b.layout.LeftmostOffset); lm != 0 {
			return fmt.Errorf("empty tree caches leftmost 0x%x", lm)
		}
		return nil
	}
	if b.parent(top) != 0 {
		return fmt.Errorf("top node 0x%x has parent 0x%x", top, b.parent(top))
	}
	if b.isRed(top) {
		return fmt.Errorf("top node 0x%x is red", top)
	}

	leftmost := top
	for b.left(leftmost) != 0 {
		leftmost = b.left(leftmost)
	}
	if lm := b.word(b.root + b.layout.LeftmostOffset); lm != leftmost {
		return fmt.Errorf("cached leftmost 0x%x, want 0x%x", lm, leftmost)
	}

	count := 0
	if _, err := b.validate(top, &count); err != nil {
		return err
	}
	if count != b.count {
		return fmt.Errorf("tree holds %d nodes, builder counted %d", count, b.count)
	}
	return nil
}

// validate returns the black height of the subtree at n.
func (b *Builder) validate(n uint64, count *int) (int, error) {
	if n == 0 {
		return 1, nil
	}
	*count++

	heights := [2]int{}
	for i, c := range [2]uint64{b.left(n), b.right(n)} {
		if c == 0 {
			heights[i] = 1
			continue
		}
		if b.parent(c) != n {
			return 0, fmt.Errorf("node 0x%x has parent 0x%x, want 0x%x", c, b.parent(c), n)
		}
		if b.isRed(n) && b.isRed(c) {
			return 0, fmt.Errorf("red node 0x%x has red child 0x%x", n, c)
		}
		if i == 0 && b.key(c) > b.key(n) {
			return 0, fmt.Errorf("left child key %d > %d", b.key(c), b.key(n))
		}
		if i == 1 && b.key(c) < b.key(n) {
			return 0, fmt.Errorf("right child key %d < %d", b.key(c), b.key(n))
		}

		h, err := b.validate(c, count)
		if err != nil {
			return 0, err
		}
		heights[i] = h
	}

	if heights[0] != heights[1] {
		return 0, fmt.Errorf("node 0x%x black heights differ: %d != %d", n, heights[0], heights[1])
	}
	if b.isRed(n) {
		return heights[0], nil
	}
	return heights[0] + 1, nil
}
