package components

import (
	"bufio"
	"bytes"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testBase = 0xffff888000200000

func generate(t *testing.T, count int) (string, uint64) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tree.img")
	root, err := Generate(&GenerateConfigs{
		ImagePath: path,
		Base:      testBase,
		Count:     count,
		Seed:      42,
		Logger:    zap.NewNop().Sugar(),
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(testBase), root)
	return path, root
}

func dump(t *testing.T, cfg DumpConfigs) []uint64 {
	t.Helper()
	out := &bytes.Buffer{}
	cfg.Out = out
	cfg.Logger = zap.NewNop().Sugar()
	require.NoError(t, Dump(&cfg))

	var keys []uint64
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		fields := strings.Split(sc.Text(), "\t")
		require.Len(t, fields, 3)
		k, err := strconv.ParseUint(fields[2], 10, 64)
		require.NoError(t, err)
		keys = append(keys, k)
	}
	return keys
}

func TestGenerateAndDump(t *testing.T) {
	path, root := generate(t, 1000)

	mapped := dump(t, DumpConfigs{ImagePath: path, Base: testBase, Roots: []uint64{root}})
	require.NotEmpty(t, mapped)
	assert.True(t, slices.IsSorted(mapped))
	assert.Len(t, slices.Compact(slices.Clone(mapped)), len(mapped))

	pread := dump(t, DumpConfigs{ImagePath: path, Base: testBase, Roots: []uint64{root}, NoMmap: true})
	assert.Equal(t, mapped, pread)

	post := dump(t, DumpConfigs{ImagePath: path, Base: testBase, Roots: []uint64{root}, Order: "post"})
	assert.ElementsMatch(t, mapped, post)
}

func TestDumpMergesRoots(t *testing.T) {
	path, root := generate(t, 100)

	single := dump(t, DumpConfigs{ImagePath: path, Base: testBase, Roots: []uint64{root}})
	double := dump(t, DumpConfigs{ImagePath: path, Base: testBase, Roots: []uint64{root, root}})

	assert.Len(t, double, 2*len(single))
	assert.True(t, slices.IsSorted(double))
}

func TestDumpFind(t *testing.T) {
	path, root := generate(t, 200)
	keys := dump(t, DumpConfigs{ImagePath: path, Base: testBase, Roots: []uint64{root}})

	key := keys[len(keys)/2]
	got := dump(t, DumpConfigs{ImagePath: path, Base: testBase, Roots: []uint64{root}, FindKey: &key})
	assert.Equal(t, []uint64{key}, got)

	missing := keys[len(keys)-1] + 1
	got = dump(t, DumpConfigs{ImagePath: path, Base: testBase, Roots: []uint64{root}, FindKey: &missing})
	assert.Empty(t, got)
}

func TestDumpErrors(t *testing.T) {
	path, root := generate(t, 10)
	nop := zap.NewNop().Sugar()

	err := Dump(&DumpConfigs{ImagePath: path, Base: testBase, Logger: nop})
	assert.Error(t, err)

	err = Dump(&DumpConfigs{Roots: []uint64{root}, Logger: nop})
	assert.Error(t, err)

	err = Dump(&DumpConfigs{ImagePath: path, Base: testBase, Roots: []uint64{root}, Order: "pre", Logger: nop})
	assert.Error(t, err)

	// a root outside the image faults
	err = Dump(&DumpConfigs{ImagePath: path, Base: testBase, Roots: []uint64{0x1000}, Out: &bytes.Buffer{}, Logger: nop})
	assert.Error(t, err)
}
