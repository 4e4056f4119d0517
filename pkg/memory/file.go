package memory

import (
	"errors"
	"io"
	"os"
)

// File reads an image straight from an open file, one pread per
// ReadMemory. Addresses are file offsets; map them elsewhere with
// Segments.
func File(f *os.File) *FileMemory {
	return &FileMemory{file: f}
}

type FileMemory struct {
	file *os.File
}

func (fm *FileMemory) ReadMemory(buf []byte, addr uint64) error {
	if fm.file == nil {
		return fault(addr, len(buf), ErrClosed)
	}
	if int64(addr) < 0 {
		return fault(addr, len(buf), nil)
	}
	n, err := fm.file.ReadAt(buf, int64(addr))
	if n == len(buf) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fault(addr, len(buf), err)
}

func (fm *FileMemory) Size() (uint64, error) {
	stat, err := fm.file.Stat()
	if err != nil {
		return 0, err
	}
	return uint64(stat.Size()), nil
}

func (fm *FileMemory) Close() error {
	if fm.file == nil {
		return nil
	}
	err := fm.file.Close()
	fm.file = nil
	return err
}
