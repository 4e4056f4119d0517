package rbtree_test

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rbwalk/pkg/kimage"
	"rbwalk/pkg/rbtree"
)

func TestBalancedScenario(t *testing.T) {
	f := build(t, 5, 3, 7, 1, 9)

	first, err := rbtree.First(f.root)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), f.key(t, first))

	last, err := rbtree.Last(f.root)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), f.key(t, last))

	next, err := rbtree.Next(f.node(t, 5))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), f.key(t, next))

	prev, err := rbtree.Prev(first)
	require.NoError(t, err)
	assert.True(t, prev.IsNull())

	next, err = rbtree.Next(last)
	require.NoError(t, err)
	assert.True(t, next.IsNull())

	next, err = rbtree.Next(f.node(t, 3))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), f.key(t, next))

	prev, err = rbtree.Prev(f.node(t, 7))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), f.key(t, prev))
}

func TestEmptyTree(t *testing.T) {
	f := build(t)

	first, err := rbtree.First(f.root)
	require.NoError(t, err)
	assert.True(t, first.IsNull())

	last, err := rbtree.Last(f.root)
	require.NoError(t, err)
	assert.True(t, last.IsNull())

	cached, err := rbtree.FirstCached(f.prog.CachedRootAt(f.b.Root()))
	require.NoError(t, err)
	assert.True(t, cached.IsNull())

	post, err := rbtree.FirstPostorder(f.root)
	require.NoError(t, err)
	assert.True(t, post.IsNull())

	for range rbtree.Inorder(f.root) {
		t.Fatal("empty tree yielded a node")
	}
	assert.Empty(t, f.keys(t))
}

func randomKeys(seed uint64, n int) []uint64 {
	rnd := rand.New(rand.NewPCG(seed, 7))
	keys := make([]uint64, 0, n)
	seen := map[uint64]bool{}
	for len(keys) < n {
		k := rnd.Uint64N(1 << 20)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

func TestNextPrevVisitEveryNode(t *testing.T) {
	keys := randomKeys(1, 300)
	f := build(t, keys...)
	sorted := slices.Sorted(slices.Values(keys))

	first, err := rbtree.First(f.root)
	require.NoError(t, err)
	last, err := rbtree.Last(f.root)
	require.NoError(t, err)

	var forward []uint64
	node := first
	for !node.IsNull() {
		forward = append(forward, f.key(t, node))
		if node.Equal(last) {
			next, err := rbtree.Next(node)
			require.NoError(t, err)
			require.True(t, next.IsNull())
		}
		node, err = rbtree.Next(node)
		require.NoError(t, err)
	}
	if diff := cmp.Diff(sorted, forward); diff != "" {
		t.Fatalf("forward walk mismatch (-want +got):\n%s", diff)
	}

	var backward []uint64
	for node = last; !node.IsNull(); {
		backward = append(backward, f.key(t, node))
		node, err = rbtree.Prev(node)
		require.NoError(t, err)
	}
	slices.Reverse(backward)
	if diff := cmp.Diff(sorted, backward); diff != "" {
		t.Fatalf("backward walk mismatch (-want +got):\n%s", diff)
	}
}

func TestNextReadsEachWordOnce(t *testing.T) {
	f := build(t, 5, 3, 7, 1, 9)
	nine := f.node(t, 9)
	seven := f.node(t, 7)
	five := f.node(t, 5)
	l := rbtree.Layout64

	f.mem.reset()
	next, err := rbtree.Next(nine)
	require.NoError(t, err)
	assert.True(t, next.IsNull())

	want := []uint64{
		nine.Addr() + l.ParentColorOffset,
		nine.Addr() + l.RightOffset,
		seven.Addr() + l.RightOffset,
		seven.Addr() + l.ParentColorOffset,
		five.Addr() + l.RightOffset,
		five.Addr() + l.ParentColorOffset,
	}
	assert.Equal(t, want, f.mem.reset())

	// descent into the right subtree
	_, err = rbtree.Next(five)
	require.NoError(t, err)
	want = []uint64{
		five.Addr() + l.ParentColorOffset,
		five.Addr() + l.RightOffset,
		seven.Addr() + l.LeftOffset,
	}
	assert.Equal(t, want, f.mem.reset())
}

func TestNextOnDetachedNode(t *testing.T) {
	f := build(t, 1, 2, 3)
	detached := f.prog.NodeAt(f.b.NodeOf(f.b.PutDetached(4)))

	next, err := rbtree.Next(detached)
	require.NoError(t, err)
	assert.True(t, next.IsNull())

	prev, err := rbtree.Prev(detached)
	require.NoError(t, err)
	assert.True(t, prev.IsNull())
}

func TestFirstCached(t *testing.T) {
	f := build(t, randomKeys(2, 64)...)
	first, err := rbtree.First(f.root)
	require.NoError(t, err)

	cached, err := rbtree.FirstCached(f.prog.CachedRootAt(f.b.Root()))
	require.NoError(t, err)
	assert.True(t, cached.Equal(first))

	f.mem.reset()
	_, err = rbtree.FirstCached(f.prog.CachedRootAt(f.b.Root()))
	require.NoError(t, err)
	assert.Len(t, f.mem.reset(), 1)
}

func TestPostorder(t *testing.T) {
	f := build(t, 5, 3, 7, 1, 9)

	var got []uint64
	for node, err := range rbtree.Postorder(f.root) {
		require.NoError(t, err)
		got = append(got, f.key(t, node))
	}
	assert.Equal(t, []uint64{1, 3, 9, 7, 5}, got)
}

func TestPostorderVisitsChildrenFirst(t *testing.T) {
	f := build(t, randomKeys(3, 200)...)

	seen := map[uint64]bool{}
	for node, err := range rbtree.Postorder(f.root) {
		require.NoError(t, err)
		for _, child := range []func() (rbtree.Node, error){node.Left, node.Right} {
			c, err := child()
			require.NoError(t, err)
			if !c.IsNull() {
				assert.True(t, seen[c.Addr()], "child of %v visited after it", node)
			}
		}
		require.False(t, seen[node.Addr()])
		seen[node.Addr()] = true
	}
	assert.Len(t, seen, 200)
}

func TestNavigationUnderConcurrentInserts(t *testing.T) {
	f := buildWith(t, kimage.Options{}, base, randomKeys(4, 50)...)
	more := randomKeys(5, 200)

	// the target inserts a node before every few reads
	reads := 0
	f.mem.hook = func(uint64) {
		reads++
		if reads%3 == 0 && len(more) > 0 {
			f.b.Put(more[0])
			more = more[1:]
		}
	}

	node, err := rbtree.First(f.root)
	require.NoError(t, err)
	steps := 0
	for !node.IsNull() && steps < 10_000 {
		node, err = rbtree.Next(node)
		require.NoError(t, err)
		steps++
	}
	assert.Less(t, steps, 10_000)

	f.mem.hook = nil
	require.NoError(t, f.b.Validate())
}
