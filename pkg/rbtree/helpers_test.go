package rbtree_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"rbwalk/pkg/kimage"
	"rbwalk/pkg/memory"
	"rbwalk/pkg/rbtree"
)

const base = 0xffff888000100000

type fixture struct {
	b    *kimage.Builder
	prog *rbtree.Program
	mem  *countingMemory
	root rbtree.Root
	typ  *rbtree.Type
}

func build(t *testing.T, keys ...uint64) *fixture {
	t.Helper()
	return buildWith(t, kimage.Options{}, base, keys...)
}

func buildWith(t *testing.T, opts kimage.Options, at uint64, keys ...uint64) *fixture {
	t.Helper()
	b, err := kimage.New(at, opts)
	require.NoError(t, err)
	for _, k := range keys {
		b.Put(k)
	}
	require.NoError(t, b.Validate())

	mem := &countingMemory{Interface: b.Memory()}
	prog, err := rbtree.NewProgram(mem, b.Layout())
	require.NoError(t, err)

	return &fixture{
		b:    b,
		prog: prog,
		mem:  mem,
		root: prog.RootAt(b.Root()),
		typ:  b.Type(),
	}
}

func (f *fixture) key(t *testing.T, node rbtree.Node) uint64 {
	t.Helper()
	require.False(t, node.IsNull(), "expected a node")
	e, err := rbtree.ContainerOf(node, f.typ, kimage.NodeMember)
	require.NoError(t, err)
	k, err := e.ReadUint(kimage.KeyMember)
	require.NoError(t, err)
	return k
}

// node finds the node holding key by walking the image directly.
func (f *fixture) node(t *testing.T, key uint64) rbtree.Node {
	t.Helper()
	e, err := rbtree.Find(f.typ, f.root, kimage.NodeMember, key, kimage.CompareKey)
	require.NoError(t, err)
	require.False(t, e.IsNull(), "key %d not in tree", key)
	n, err := e.Node(kimage.NodeMember)
	require.NoError(t, err)
	return n
}

func (f *fixture) keys(t *testing.T) []uint64 {
	t.Helper()
	var keys []uint64
	for e, err := range rbtree.InorderEntries(f.typ, f.root, kimage.NodeMember) {
		require.NoError(t, err)
		k, err := e.ReadUint(kimage.KeyMember)
		require.NoError(t, err)
		keys = append(keys, k)
	}
	return keys
}

// countingMemory records every read issued to the image.
type countingMemory struct {
	memory.Interface

	mu    sync.Mutex
	reads []uint64
	// hook, if set, runs before each read.
	hook func(addr uint64)
}

func (c *countingMemory) ReadMemory(buf []byte, addr uint64) error {
	c.mu.Lock()
	c.reads = append(c.reads, addr)
	hook := c.hook
	c.mu.Unlock()
	if hook != nil {
		hook(addr)
	}
	return c.Interface.ReadMemory(buf, addr)
}

func (c *countingMemory) reset() []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	reads := c.reads
	c.reads = nil
	return reads
}

// faultyMemory fails reads of one address.
type faultyMemory struct {
	memory.Interface
	bad uint64
}

func (f *faultyMemory) ReadMemory(buf []byte, addr uint64) error {
	if addr == f.bad {
		return &memory.FaultError{Addr: addr, Size: len(buf)}
	}
	return f.Interface.ReadMemory(buf, addr)
}
