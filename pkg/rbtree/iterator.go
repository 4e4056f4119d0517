package rbtree

import (
	"iter"

	"rbwalk/pkg/stack"
)

// Iterator walks a tree in sort order. It is pull driven: each call to Next
// reads only what is needed to produce the next node (the right child of
// the node last returned and the left spine below it), so nothing past the
// current position is read before the caller asks for it. The pending
// ancestors are kept on an explicit stack in place of recursion.
//
// An Iterator is single pass; start a new one from the root to walk again.
type Iterator struct {
	root    Root
	stack   *stack.Stack[Node]
	pending Node
	node    Node
	err     error
	started bool
	done    bool
}

func NewIterator(root Root) *Iterator {
	return &Iterator{
		root:  root,
		stack: stack.New[Node](16),
	}
}

// Next advances to the next node. It returns false at the end of the walk
// or on the first read error, which Err then reports.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}

	if !it.started {
		it.started = true
		it.pending, it.err = it.root.Top()
	} else {
		it.pending, it.err = it.node.Right()
	}

	for it.err == nil && !it.pending.IsNull() {
		it.stack.Push(it.pending)
		it.pending, it.err = it.pending.Left()
	}

	if it.err != nil {
		return it.finish()
	}

	node, ok := it.stack.Pop()
	if !ok {
		return it.finish()
	}
	it.node = node
	return true
}

func (it *Iterator) finish() bool {
	it.done = true
	it.node = Node{}
	it.pending = Node{}
	it.stack.Reset()
	return false
}

// Node returns the current node. It is null before the first Next and after
// the walk ended.
func (it *Iterator) Node() Node {
	return it.node
}

func (it *Iterator) Err() error {
	return it.err
}

// Inorder yields the nodes of the tree in sort order. A read failure is
// yielded once with a null node and ends the sequence.
func Inorder(root Root) iter.Seq2[Node, error] {
	return func(yield func(Node, error) bool) {
		it := NewIterator(root)
		for it.Next() {
			if !yield(it.Node(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield(Node{}, err)
		}
	}
}

// InorderEntries is Inorder with every node projected to the entry of type
// typ that embeds it as member.
func InorderEntries(typ *Type, root Root, member string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		m, err := typ.Member(member)
		if err != nil {
			yield(Entry{}, err)
			return
		}
		for node, err := range Inorder(root) {
			if err != nil {
				yield(Entry{}, err)
				return
			}
			if !yield(containerOf(node, typ, m), nil) {
				return
			}
		}
	}
}

// Postorder yields every node after both of its subtrees.
func Postorder(root Root) iter.Seq2[Node, error] {
	return func(yield func(Node, error) bool) {
		node, err := FirstPostorder(root)
		for err == nil && !node.IsNull() {
			if !yield(node, nil) {
				return
			}
			node, err = NextPostorder(node)
		}
		if err != nil {
			yield(Node{}, err)
		}
	}
}
