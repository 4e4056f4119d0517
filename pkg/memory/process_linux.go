//go:build linux

package memory

import (
	"fmt"
	"io"

	"golang.org/x/sys/unix"
)

// Process reads the address space of a running process through
// /proc/<pid>/mem. The caller needs ptrace access to the target.
type Process struct {
	pid int
	fd  int
}

func OpenProcess(pid int) (*Process, error) {
	path := fmt.Sprintf("/proc/%d/mem", pid)
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Process{pid: pid, fd: fd}, nil
}

func (p *Process) Pid() int {
	return p.pid
}

func (p *Process) ReadMemory(buf []byte, addr uint64) error {
	if p.fd < 0 {
		return fault(addr, len(buf), ErrClosed)
	}
	// pread takes a signed offset; upper-half addresses are not readable
	// through this file.
	if int64(addr) < 0 {
		return fault(addr, len(buf), unix.EINVAL)
	}
	n, err := unix.Pread(p.fd, buf, int64(addr))
	if err != nil {
		return fault(addr, len(buf), err)
	}
	if n != len(buf) {
		return fault(addr, len(buf), io.ErrUnexpectedEOF)
	}
	return nil
}

func (p *Process) Close() error {
	if p.fd < 0 {
		return nil
	}
	err := unix.Close(p.fd)
	p.fd = -1
	return err
}
