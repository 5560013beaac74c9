//go:build linux

package remote

import (
	"errors"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/process"
	"golang.org/x/sys/unix"

	"github.com/rawbytedev/memkit/pkg/memory"
)

// Process is an attached target process.
type Process struct {
	pid  int
	name string
}

// Attach checks that pid names a live process and returns a handle to it.
// Nothing is stopped or traced; access rights are those of process_vm_readv,
// which normally means same user plus ptrace permission.
func Attach(pid int) (*Process, error) {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil, fmt.Errorf("remote: attach %d: %w", pid, err)
	}
	name, err := p.Name()
	if err != nil {
		return nil, fmt.Errorf("remote: attach %d: %w", pid, err)
	}
	return &Process{pid: pid, name: name}, nil
}

func (p *Process) Pid() int       { return p.pid }
func (p *Process) Name() string   { return p.name }
func (p *Process) String() string { return fmt.Sprintf("%s[%d]", p.name, p.pid) }

func (p *Process) Read(dst []byte, addr uintptr) (int, error) {
	if err := memory.CheckTransfer(dst, addr); err != nil {
		return 0, err
	}
	local := []unix.Iovec{{Base: &dst[0]}}
	local[0].SetLen(len(dst))
	remote := []unix.RemoteIovec{{Base: addr, Len: len(dst)}}

	n, err := unix.ProcessVMReadv(p.pid, local, remote, 0)
	return transferResult(n, len(dst), err)
}

func (p *Process) Write(addr uintptr, src []byte) (int, error) {
	if err := memory.CheckTransfer(src, addr); err != nil {
		return 0, err
	}
	local := []unix.Iovec{{Base: &src[0]}}
	local[0].SetLen(len(src))
	remote := []unix.RemoteIovec{{Base: addr, Len: len(src)}}

	n, err := unix.ProcessVMWritev(p.pid, local, remote, 0)
	return transferResult(n, len(src), err)
}

// Regions lists the target's current mappings.
func (p *Process) Regions() ([]Region, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", p.pid))
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	defer f.Close()
	return ParseMaps(f)
}

func transferResult(n, want int, err error) (int, error) {
	switch {
	case errors.Is(err, unix.EFAULT):
		return 0, memory.ErrInvalidAddress
	case err != nil:
		return 0, fmt.Errorf("remote: %w", err)
	case n < want:
		return n, memory.ErrNotEnoughBytes
	}
	return n, nil
}
