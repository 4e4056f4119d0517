package rbtree

import (
	"rbwalk/pkg/memory"
)

// Program binds a memory accessor to the layout of the trees stored in it.
type Program struct {
	mem    memory.Interface
	layout Layout
}

func NewProgram(mem memory.Interface, layout Layout) (*Program, error) {
	if err := layout.validate(); err != nil {
		return nil, err
	}
	return &Program{mem: mem, layout: layout}, nil
}

func (p *Program) Layout() Layout {
	return p.layout
}

func (p *Program) Memory() memory.Interface {
	return p.mem
}

// NodeAt, RootAt, CachedRootAt and EntryAt build handles without touching
// target memory.

func (p *Program) NodeAt(addr uint64) Node {
	return Node{prog: p, addr: addr}
}

func (p *Program) RootAt(addr uint64) Root {
	return Root{prog: p, addr: addr}
}

func (p *Program) CachedRootAt(addr uint64) CachedRoot {
	return CachedRoot{prog: p, addr: addr}
}

func (p *Program) EntryAt(typ *Type, addr uint64) Entry {
	return Entry{prog: p, typ: typ, addr: addr}
}

// readWord is the only place target words are fetched. Each call is exactly
// one ReadMemory into a fresh buffer; nothing is retained between calls, so
// every value the algorithms act on was read at the moment it was needed.
// Accessor errors are returned unmodified.
func (p *Program) readWord(addr uint64) (uint64, error) {
	var buf [8]byte
	b := buf[:p.layout.PointerSize]
	if err := p.mem.ReadMemory(b, addr); err != nil {
		return 0, err
	}
	return p.layout.decode(b), nil
}
