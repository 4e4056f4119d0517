package rbtree

// Compare orders key against an entry: negative if key sorts before the
// entry, positive if after, zero on a match. It may read the entry.
type Compare[K any] func(key K, entry Entry) (int, error)

// Find searches a tree of typ entries linked through member for one that
// matches key. It returns the first match met on the way down from the top;
// when several entries compare equal, which one that is depends on the
// shape of the tree. A null entry means no match. The tree is assumed to be
// ordered consistently with cmp; if it is not, the result is meaningless
// but nothing outside the call is affected.
func Find[K any](typ *Type, root Root, member string, key K, cmp Compare[K]) (Entry, error) {
	m, err := typ.Member(member)
	if err != nil {
		return Entry{}, err
	}

	node, err := root.Top()
	for err == nil && !node.IsNull() {
		entry := containerOf(node, typ, m)

		var ret int
		ret, err = cmp(key, entry)
		switch {
		case err != nil:
		case ret < 0:
			node, err = node.Left()
		case ret > 0:
			node, err = node.Right()
		default:
			return entry, nil
		}
	}
	if err != nil {
		return Entry{}, err
	}
	return Entry{prog: root.prog, typ: typ}, nil
}
