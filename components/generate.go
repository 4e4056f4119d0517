package components

import (
	"math/rand/v2"
	"os"
	"sync/atomic"
	"time"

	"rbwalk/pkg/kimage"
	"rbwalk/pkg/util"
)

// Generate writes an image holding an rb_root_cached and cfg.Count random
// items, and returns the address of the root.
func Generate(cfg *GenerateConfigs) (uint64, error) {
	b, err := kimage.New(cfg.Base, kimage.Options{
		Layout:          layoutFor(cfg.PointerSize),
		AllowDuplicates: cfg.AllowDuplicates,
	})
	if err != nil {
		return 0, err
	}

	// count of keys offered to the tree
	putCount := atomic.Int64{}

	// printing progress each second
	stop := util.SetInterval(func(start, now time.Time) {
		sec := now.Sub(start).Seconds()
		cfg.Logger.Infow("generating",
			"put", putCount.Load(),
			"sec", uint64(sec),
			"eps", uint64(float64(putCount.Load())/sec),
		)
	}, time.Second)

	rnd := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	// key space four times the item count keeps some duplicates around
	keySpace := uint64(4*cfg.Count + 1)
	for range cfg.Count {
		b.Put(rnd.Uint64N(keySpace))
		putCount.Add(1)
	}
	stop()

	if err := b.Validate(); err != nil {
		return 0, err
	}

	f, err := os.OpenFile(cfg.ImagePath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	// copying image in-memory data to file
	if _, err := f.ReadFrom(b.Memory().Reader()); err != nil {
		return 0, err
	}
	if err := f.Sync(); err != nil {
		return 0, err
	}

	cfg.Logger.Infow("image written",
		"path", cfg.ImagePath,
		"base", hex(b.Memory().Base()),
		"size", b.Memory().Size(),
		"root", hex(b.Root()),
		"items", b.Count(),
	)
	return b.Root(), nil
}
