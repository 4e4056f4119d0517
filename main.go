package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"rbwalk/components"
	"rbwalk/pkg/util"
)

const defaultBase = 0xffff888000000000

// addrList collects repeated address flags.
type addrList []uint64

func (l *addrList) String() string {
	parts := make([]string, len(*l))
	for i, a := range *l {
		parts[i] = fmt.Sprintf("0x%x", a)
	}
	return strings.Join(parts, ",")
}

func (l *addrList) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		a, err := strconv.ParseUint(strings.TrimSpace(part), 0, 64)
		if err != nil {
			return err
		}
		*l = append(*l, a)
	}
	return nil
}

type addrValue uint64

func (a *addrValue) String() string {
	return fmt.Sprintf("0x%x", uint64(*a))
}

func (a *addrValue) Set(s string) error {
	v, err := strconv.ParseUint(s, 0, 64)
	*a = addrValue(v)
	return err
}

func main() {
	var (
		roots   addrList
		base    = addrValue(defaultBase)
		find    string
		verbose bool
	)

	generate := flag.Int("generate", 0, "write an image with this many random items instead of reading one")
	image := flag.String("image", "", "memory image file")
	pid := flag.Int("pid", 0, "read the memory of this process instead of an image")
	noMmap := flag.Bool("no-mmap", false, "read the image with pread instead of mapping it")
	seed := flag.Uint64("seed", 1, "random seed for -generate")
	ptrSize := flag.Int("ptr-size", 8, "target pointer size in bytes (4 or 8)")
	order := flag.String("order", "in", "walk order: in or post")
	typeName := flag.String("type", "", "entry type name; empty means the generated item layout")
	keyOff := flag.Uint64("key-offset", 0, "offset of the u64 key in the entry")
	keySize := flag.Uint64("key-size", 8, "size of the key in bytes")
	nodeOff := flag.Uint64("node-offset", 8, "offset of the rb_node in the entry")
	flag.Var(&base, "base", "address the image file is loaded at")
	flag.Var(&roots, "root", "address of an rb_root (repeatable, comma separated)")
	flag.StringVar(&find, "find", "", "look up this key instead of dumping")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	logger := util.Must(cfg.Build()).Sugar()
	defer logger.Sync()

	if *generate > 0 {
		if *image == "" {
			logger.Fatal("-generate needs -image")
		}
		root, err := components.Generate(&components.GenerateConfigs{
			ImagePath:   *image,
			Base:        uint64(base),
			Count:       *generate,
			Seed:        *seed,
			PointerSize: *ptrSize,
			Logger:      logger,
		})
		if err != nil {
			logger.Fatalw("generate failed", "error", err)
		}
		fmt.Printf("0x%x\n", root)
		return
	}

	dumpCfg := &components.DumpConfigs{
		ImagePath:   *image,
		Pid:         *pid,
		Base:        uint64(base),
		NoMmap:      *noMmap,
		PointerSize: *ptrSize,
		Roots:       roots,
		TypeName:    *typeName,
		KeyOffset:   *keyOff,
		KeySize:     *keySize,
		NodeOffset:  *nodeOff,
		Order:       *order,
		Out:         os.Stdout,
		Logger:      logger,
	}
	if find != "" {
		key := util.Must(strconv.ParseUint(find, 0, 64))
		dumpCfg.FindKey = &key
	}

	if err := components.Dump(dumpCfg); err != nil {
		logger.Fatalw("dump failed", "error", err)
	}
}
