package kimage

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rbwalk/pkg/rbtree"
)

func newBuilder(t *testing.T, opts Options) *Builder {
	t.Helper()
	b, err := New(0xffff888000000000, opts)
	require.NoError(t, err)
	return b
}

func TestBalancedShape(t *testing.T) {
	b := newBuilder(t, Options{})
	for _, k := range []uint64{5, 3, 7, 1, 9} {
		_, inserted := b.Put(k)
		require.True(t, inserted)
	}
	require.NoError(t, b.Validate())

	top := b.top()
	assert.Equal(t, uint64(5), b.key(top))
	assert.Equal(t, uint64(3), b.key(b.left(top)))
	assert.Equal(t, uint64(7), b.key(b.right(top)))
	assert.Equal(t, uint64(1), b.key(b.left(b.left(top))))
	assert.Equal(t, uint64(9), b.key(b.right(b.right(top))))
	assert.False(t, b.isRed(top))
	assert.True(t, b.isRed(b.left(b.left(top))))
}

func TestRandomInsertsStayValid(t *testing.T) {
	for _, layout := range []rbtree.Layout{rbtree.Layout64, rbtree.Layout32} {
		b, err := New(0x10000000, Options{Layout: layout})
		require.NoError(t, err)

		rnd := rand.New(rand.NewPCG(1, uint64(layout.PointerSize)))
		seen := map[uint64]bool{}
		for range 500 {
			k := rnd.Uint64N(1000)
			_, inserted := b.Put(k)
			assert.Equal(t, !seen[k], inserted)
			seen[k] = true
		}
		require.NoError(t, b.Validate())
		assert.Equal(t, len(seen), b.Count())
	}
}

func TestDuplicates(t *testing.T) {
	b := newBuilder(t, Options{AllowDuplicates: true})
	for range 4 {
		_, inserted := b.Put(7)
		require.True(t, inserted)
	}
	_, inserted := b.Put(3)
	require.True(t, inserted)
	require.NoError(t, b.Validate())
	assert.Equal(t, 5, b.Count())
}

func TestPutDetached(t *testing.T) {
	b := newBuilder(t, Options{})
	b.Put(1)
	item := b.PutDetached(2)
	node := b.NodeOf(item)

	assert.Equal(t, node, b.parentColor(node))
	assert.Equal(t, 1, b.Count())
	require.NoError(t, b.Validate())
}

func TestItemType(t *testing.T) {
	typ := ItemType(rbtree.Layout64)
	assert.Equal(t, uint64(32), typ.Size)
	off, err := typ.OffsetOf(NodeMember)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), off)

	assert.Equal(t, uint64(24), ItemType(rbtree.Layout32).Size)
}

func TestNewRejectsBadBase(t *testing.T) {
	_, err := New(0, Options{})
	assert.Error(t, err)
	_, err = New(0x1004, Options{})
	assert.Error(t, err)
	_, err = New(0x100000000, Options{Layout: rbtree.Layout32})
	assert.Error(t, err)
}
