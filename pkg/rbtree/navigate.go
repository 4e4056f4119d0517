package rbtree

// Every helper here follows child links with one read per link and keeps
// no value across loop iterations other than the handle it is standing on.

// descend follows left (or right) links from node until the next link is
// null and returns the last node reached.
func descend(node Node, left bool) (Node, error) {
	for {
		next, err := node.child(left)
		if err != nil {
			return Node{}, err
		}
		if next.IsNull() {
			return node, nil
		}
		node = next
	}
}

// First returns the first node in sort order, or a null node if the tree is
// empty.
func First(root Root) (Node, error) {
	node, err := root.Top()
	if err != nil || node.IsNull() {
		return node, err
	}
	return descend(node, true)
}

// Last returns the last node in sort order, or a null node if the tree is
// empty.
func Last(root Root) (Node, error) {
	node, err := root.Top()
	if err != nil || node.IsNull() {
		return node, err
	}
	return descend(node, false)
}

// FirstCached returns the leftmost node tracked by an rb_root_cached without
// walking the tree.
func FirstCached(root CachedRoot) (Node, error) {
	return root.Leftmost()
}

// Next returns the node after node in sort order. It returns a null node if
// node is the last one, and also if node is empty (not linked into a tree).
//
// Reads, in order: node's parent/color word, node's rb_right, then either
// the left spine of the right subtree or, per level climbed, the parent's
// rb_right followed by the parent's parent/color word. The parent/color word
// of node is read once and its decoded parent reused for the climb.
func Next(node Node) (Node, error) {
	return step(node, true)
}

// Prev is the mirror image of Next.
func Prev(node Node) (Node, error) {
	return step(node, false)
}

func step(node Node, forward bool) (Node, error) {
	pc, err := node.ParentColor()
	if err != nil {
		return Node{}, err
	}
	if node.empty(pc) {
		return node.prog.NodeAt(0), nil
	}

	// Next: leftmost node of the right subtree. Prev: rightmost of the left.
	sub, err := node.child(!forward)
	if err != nil {
		return Node{}, err
	}
	if !sub.IsNull() {
		return descend(sub, forward)
	}

	// Otherwise climb while node is the right (left) child of its parent.
	parent := pc.Parent
	for !parent.IsNull() {
		sibling, err := parent.child(!forward)
		if err != nil {
			return Node{}, err
		}
		if !node.Equal(sibling) {
			break
		}
		node = parent
		pc, err = node.ParentColor()
		if err != nil {
			return Node{}, err
		}
		parent = pc.Parent
	}
	return parent, nil
}

func leftDeepest(node Node) (Node, error) {
	for {
		left, err := node.Left()
		if err != nil {
			return Node{}, err
		}
		if !left.IsNull() {
			node = left
			continue
		}
		right, err := node.Right()
		if err != nil {
			return Node{}, err
		}
		if right.IsNull() {
			return node, nil
		}
		node = right
	}
}

// FirstPostorder returns the first node of a post-order walk: the deepest
// node reached by preferring left links.
func FirstPostorder(root Root) (Node, error) {
	node, err := root.Top()
	if err != nil || node.IsNull() {
		return node, err
	}
	return leftDeepest(node)
}

// NextPostorder returns the node after node in post-order, or a null node
// after the top of the tree.
func NextPostorder(node Node) (Node, error) {
	parent, err := Parent(node)
	if err != nil || parent.IsNull() {
		return parent, err
	}

	left, err := parent.Left()
	if err != nil {
		return Node{}, err
	}
	if !node.Equal(left) {
		return parent, nil
	}

	right, err := parent.Right()
	if err != nil {
		return Node{}, err
	}
	if right.IsNull() {
		return parent, nil
	}
	return leftDeepest(right)
}
