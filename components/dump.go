package components

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"rbwalk/pkg/kimage"
	"rbwalk/pkg/memory"
	"rbwalk/pkg/rbtree"
	"rbwalk/pkg/util"
)

type record struct {
	root  uint64
	entry rbtree.Entry
	key   uint64
}

func hex(v uint64) string {
	return fmt.Sprintf("0x%x", v)
}

// openTarget returns the accessor for cfg's target and a function that
// releases it.
func openTarget(cfg *DumpConfigs) (memory.Interface, func() error, error) {
	if cfg.Pid != 0 {
		if cfg.ImagePath != "" {
			return nil, nil, errors.New("both an image and a pid given")
		}
		p, err := memory.OpenProcess(cfg.Pid)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	}

	if cfg.ImagePath == "" {
		return nil, nil, errors.New("no image or pid given")
	}

	var (
		backing memory.Interface
		size    uint64
		closeFn func() error
	)
	if cfg.NoMmap {
		f, err := os.Open(cfg.ImagePath)
		if err != nil {
			return nil, nil, err
		}
		fm := memory.File(f)
		if size, err = fm.Size(); err != nil {
			fm.Close()
			return nil, nil, err
		}
		backing, closeFn = fm, fm.Close
	} else {
		m, err := memory.OpenMapped(cfg.ImagePath)
		if err != nil {
			return nil, nil, err
		}
		backing, size, closeFn = m, m.Size(), m.Close
	}

	segments := memory.NewSegments()
	if err := segments.Map(memory.Segment{Start: cfg.Base, Size: size, Backing: backing}); err != nil {
		closeFn()
		return nil, nil, err
	}
	return segments, closeFn, nil
}

// Dump walks or searches the trees at cfg.Roots and writes one line per
// entry to cfg.Out. Entries of several trees are merged by key.
func Dump(cfg *DumpConfigs) (err error) {
	if len(cfg.Roots) == 0 {
		return errors.New("no root address given")
	}

	mem, closeFn, err := openTarget(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeFn(); err == nil {
			err = cerr
		}
	}()

	prog, err := rbtree.NewProgram(mem, layoutFor(cfg.PointerSize))
	if err != nil {
		return err
	}
	typ := cfg.entryType()

	if cfg.FindKey != nil {
		return find(cfg, prog, typ, *cfg.FindKey)
	}

	switch cfg.Order {
	case "", "in":
		return dumpInorder(cfg, prog, typ)
	case "post":
		return dumpPostorder(cfg, prog, typ)
	default:
		return fmt.Errorf("unknown order %q", cfg.Order)
	}
}

func find(cfg *DumpConfigs, prog *rbtree.Program, typ *rbtree.Type, key uint64) error {
	found := 0
	for _, root := range cfg.Roots {
		e, err := rbtree.Find(typ, prog.RootAt(root), kimage.NodeMember, key, kimage.CompareKey)
		if err != nil {
			return fmt.Errorf("root %s: %w", hex(root), err)
		}
		if e.IsNull() {
			cfg.Logger.Debugw("key not found", "root", hex(root), "key", key)
			continue
		}
		found++
		if err := printRecord(cfg.Out, record{root: root, entry: e, key: key}); err != nil {
			return err
		}
	}
	cfg.Logger.Infow("lookup done", "key", key, "found", found, "roots", len(cfg.Roots))
	return nil
}

func dumpInorder(cfg *DumpConfigs, prog *rbtree.Program, typ *rbtree.Type) error {
	var walkErr error
	iterators := make([]iter.Seq[record], len(cfg.Roots))
	for i, root := range cfg.Roots {
		iterators[i] = func(yield func(record) bool) {
			for e, err := range rbtree.InorderEntries(typ, prog.RootAt(root), kimage.NodeMember) {
				if err == nil {
					var key uint64
					key, err = e.ReadUint(kimage.KeyMember)
					if err == nil {
						if !yield(record{root: root, entry: e, key: key}) {
							return
						}
						continue
					}
				}
				if walkErr == nil {
					walkErr = fmt.Errorf("root %s: %w", hex(root), err)
				}
				return
			}
		}
	}

	count := 0
	// reading entries from all trees by increasing key
	for rec := range util.MultiIterator(iterators, func(a, b record) int {
		return cmp.Compare(a.key, b.key)
	}) {
		if err := printRecord(cfg.Out, rec); err != nil {
			return err
		}
		count++
	}
	cfg.Logger.Infow("walk done", "entries", count, "roots", len(cfg.Roots))
	return walkErr
}

func dumpPostorder(cfg *DumpConfigs, prog *rbtree.Program, typ *rbtree.Type) error {
	count := 0
	for _, root := range cfg.Roots {
		for node, err := range rbtree.Postorder(prog.RootAt(root)) {
			if err != nil {
				return fmt.Errorf("root %s: %w", hex(root), err)
			}
			e, err := rbtree.ContainerOf(node, typ, kimage.NodeMember)
			if err != nil {
				return err
			}
			key, err := e.ReadUint(kimage.KeyMember)
			if err != nil {
				return fmt.Errorf("root %s: %w", hex(root), err)
			}
			if err := printRecord(cfg.Out, record{root: root, entry: e, key: key}); err != nil {
				return err
			}
			count++
		}
	}
	cfg.Logger.Infow("walk done", "entries", count, "roots", len(cfg.Roots), "order", "post")
	return nil
}

func printRecord(w io.Writer, rec record) error {
	_, err := fmt.Fprintf(w, "%s\t%v\t%d\n", hex(rec.root), rec.entry, rec.key)
	return err
}
