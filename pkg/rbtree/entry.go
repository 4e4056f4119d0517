package rbtree

import (
	"fmt"
)

// Member is a field of an entry type.
type Member struct {
	Name   string
	Offset uint64
	Size   uint64
}

// Type is the layout of an entry, the caller's structure that embeds an
// rb_node. It is plain metadata; where it comes from (debug info, a
// hand-written table) is up to the caller.
type Type struct {
	Name    string
	Size    uint64
	Members []Member
}

func (t *Type) Member(name string) (Member, error) {
	if t == nil {
		return Member{}, fmt.Errorf("%w: nil type", ErrInvalidHandle)
	}
	for _, m := range t.Members {
		if m.Name == name {
			return m, nil
		}
	}
	return Member{}, fmt.Errorf("%w: struct %s has no member %q", ErrUnknownMember, t.Name, name)
}

// OffsetOf is offsetof(type, member).
func (t *Type) OffsetOf(name string) (uint64, error) {
	m, err := t.Member(name)
	if err != nil {
		return 0, err
	}
	return m.Offset, nil
}

// Entry is a typed view of an object in target memory. The zero Entry is
// null.
type Entry struct {
	prog *Program
	typ  *Type
	addr uint64
}

func (e Entry) Addr() uint64 {
	return e.addr
}

func (e Entry) Type() *Type {
	return e.typ
}

func (e Entry) IsNull() bool {
	return e.addr == 0
}

func (e Entry) String() string {
	name := "?"
	if e.typ != nil {
		name = e.typ.Name
	}
	if e.IsNull() {
		return fmt.Sprintf("(struct %s *)NULL", name)
	}
	return fmt.Sprintf("(struct %s *)0x%x", name, e.addr)
}

func (e Entry) check() error {
	if e.prog == nil || e.typ == nil {
		return fmt.Errorf("%w: entry 0x%x has no program or type", ErrInvalidHandle, e.addr)
	}
	if e.IsNull() {
		return fmt.Errorf("%w: null %s entry", ErrInvalidHandle, e.typ.Name)
	}
	return nil
}

// Node is &entry->member, the inverse of ContainerOf. No memory is read.
func (e Entry) Node(member string) (Node, error) {
	if err := e.check(); err != nil {
		return Node{}, err
	}
	m, err := e.typ.Member(member)
	if err != nil {
		return Node{}, err
	}
	return e.prog.NodeAt(e.addr + m.Offset), nil
}

// ReadUint reads an unsigned integer member of 1, 2, 4 or 8 bytes with a
// single read.
func (e Entry) ReadUint(member string) (uint64, error) {
	if err := e.check(); err != nil {
		return 0, err
	}
	m, err := e.typ.Member(member)
	if err != nil {
		return 0, err
	}

	var buf [8]byte
	switch m.Size {
	case 1, 2, 4, 8:
	default:
		return 0, fmt.Errorf("member %s.%s has unsupported size %d", e.typ.Name, m.Name, m.Size)
	}
	b := buf[:m.Size]
	if err := e.prog.mem.ReadMemory(b, e.addr+m.Offset); err != nil {
		return 0, err
	}

	order := e.prog.layout.ByteOrder
	switch m.Size {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(order.Uint16(b)), nil
	case 4:
		return uint64(order.Uint32(b)), nil
	default:
		return order.Uint64(b), nil
	}
}

// ContainerOf returns the entry of type typ whose member is node. It is
// address arithmetic only; a null node gives a null entry.
func ContainerOf(node Node, typ *Type, member string) (Entry, error) {
	m, err := typ.Member(member)
	if err != nil {
		return Entry{}, err
	}
	return containerOf(node, typ, m), nil
}

func containerOf(node Node, typ *Type, m Member) Entry {
	if node.IsNull() {
		return Entry{prog: node.prog, typ: typ}
	}
	return Entry{prog: node.prog, typ: typ, addr: node.addr - m.Offset}
}
