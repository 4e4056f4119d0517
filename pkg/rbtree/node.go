package rbtree

import "fmt"

type Color uint8

const (
	Red   Color = 0
	Black Color = 1
)

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "red"
}

const (
	colorMask  = 1
	parentMask = ^uint64(3)
)

// Node is a handle to a struct rb_node in target memory. It holds only the
// node's address; fields are read on demand. The zero Node is null.
type Node struct {
	prog *Program
	addr uint64
}

func (n Node) Addr() uint64 {
	return n.addr
}

func (n Node) IsNull() bool {
	return n.addr == 0
}

func (n Node) Program() *Program {
	return n.prog
}

func (n Node) String() string {
	if n.IsNull() {
		return "(struct rb_node *)NULL"
	}
	return fmt.Sprintf("(struct rb_node *)0x%x", n.addr)
}

// Equal compares handles by address, never by node contents.
func (n Node) Equal(other Node) bool {
	return n.addr == other.addr
}

// ParentColor is the decoded __rb_parent_color word.
type ParentColor struct {
	// Raw is the word as read, kept for the RB_EMPTY_NODE check.
	Raw    uint64
	Parent Node
	Color  Color
}

func (n Node) check() error {
	if n.prog == nil {
		return fmt.Errorf("%w: node 0x%x has no program", ErrInvalidHandle, n.addr)
	}
	if n.IsNull() {
		return fmt.Errorf("%w: null node", ErrInvalidHandle)
	}
	return nil
}

// ParentColor reads the packed parent/color word once and decodes it.
func (n Node) ParentColor() (ParentColor, error) {
	if err := n.check(); err != nil {
		return ParentColor{}, err
	}
	raw, err := n.prog.readWord(n.addr + n.prog.layout.ParentColorOffset)
	if err != nil {
		return ParentColor{}, err
	}
	return ParentColor{
		Raw:    raw,
		Parent: n.prog.NodeAt(raw & parentMask),
		Color:  Color(raw & colorMask),
	}, nil
}

// empty reports whether pc, read from n, marks n as unlinked.
func (n Node) empty(pc ParentColor) bool {
	return pc.Raw == n.addr
}

func (n Node) Color() (Color, error) {
	pc, err := n.ParentColor()
	if err != nil {
		return 0, err
	}
	return pc.Color, nil
}

// Left reads rb_left.
func (n Node) Left() (Node, error) {
	return n.child(true)
}

// Right reads rb_right.
func (n Node) Right() (Node, error) {
	return n.child(false)
}

func (n Node) child(left bool) (Node, error) {
	if err := n.check(); err != nil {
		return Node{}, err
	}
	off := n.prog.layout.RightOffset
	if left {
		off = n.prog.layout.LeftOffset
	}
	addr, err := n.prog.readWord(n.addr + off)
	if err != nil {
		return Node{}, err
	}
	return n.prog.NodeAt(addr), nil
}

// IsEmpty reports whether node is not inserted in any tree, i.e. its
// parent/color word holds its own address (RB_EMPTY_NODE).
func IsEmpty(node Node) (bool, error) {
	pc, err := node.ParentColor()
	if err != nil {
		return false, err
	}
	return node.empty(pc), nil
}

// Parent returns the parent of node, or a null node for the tree's top.
func Parent(node Node) (Node, error) {
	pc, err := node.ParentColor()
	if err != nil {
		return Node{}, err
	}
	return pc.Parent, nil
}

// Root is a handle to a struct rb_root.
type Root struct {
	prog *Program
	addr uint64
}

func (r Root) Addr() uint64 {
	return r.addr
}

func (r Root) Program() *Program {
	return r.prog
}

// Top reads rb_root.rb_node.
func (r Root) Top() (Node, error) {
	if r.prog == nil || r.addr == 0 {
		return Node{}, fmt.Errorf("%w: root 0x%x", ErrInvalidHandle, r.addr)
	}
	addr, err := r.prog.readWord(r.addr + r.prog.layout.RootNodeOffset)
	if err != nil {
		return Node{}, err
	}
	return r.prog.NodeAt(addr), nil
}

// CachedRoot is a handle to a struct rb_root_cached, a root that also
// tracks its leftmost node.
type CachedRoot struct {
	prog *Program
	addr uint64
}

func (r CachedRoot) Addr() uint64 {
	return r.addr
}

// Root returns the embedded rb_root.
func (r CachedRoot) Root() Root {
	return Root{prog: r.prog, addr: r.addr}
}

// Leftmost reads rb_root_cached.rb_leftmost.
func (r CachedRoot) Leftmost() (Node, error) {
	if r.prog == nil || r.addr == 0 {
		return Node{}, fmt.Errorf("%w: cached root 0x%x", ErrInvalidHandle, r.addr)
	}
	addr, err := r.prog.readWord(r.addr + r.prog.layout.LeftmostOffset)
	if err != nil {
		return Node{}, err
	}
	return r.prog.NodeAt(addr), nil
}
