//go:build !linux

package remote

import (
	"errors"
	"fmt"
)

type Process struct {
	pid  int
	name string
}

// Attach is only implemented on Linux.
func Attach(pid int) (*Process, error) {
	return nil, fmt.Errorf("remote: attach %d: %w", pid, errors.ErrUnsupported)
}

func (p *Process) Pid() int       { return p.pid }
func (p *Process) Name() string   { return p.name }
func (p *Process) String() string { return fmt.Sprintf("%s[%d]", p.name, p.pid) }

func (p *Process) Read([]byte, uintptr) (int, error)  { return 0, errors.ErrUnsupported }
func (p *Process) Write(uintptr, []byte) (int, error) { return 0, errors.ErrUnsupported }
func (p *Process) Regions() ([]Region, error)         { return nil, errors.ErrUnsupported }
