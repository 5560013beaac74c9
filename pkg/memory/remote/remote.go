// Package remote reads and writes the memory of another process on the same
// host. A *Process is a memory.Primitive, so installing it on a memory.Reader
// points every typed access at the target.
package remote

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rawbytedev/memkit/pkg/memory"
)

// Region is one mapping of a process address space.
type Region struct {
	memory.Range
	Perms  string
	Offset uint64
	Path   string
}

func (r Region) Readable() bool   { return len(r.Perms) > 0 && r.Perms[0] == 'r' }
func (r Region) Writable() bool   { return len(r.Perms) > 1 && r.Perms[1] == 'w' }
func (r Region) Executable() bool { return len(r.Perms) > 2 && r.Perms[2] == 'x' }

// ParseMaps decodes the /proc/<pid>/maps format.
func ParseMaps(rd io.Reader) ([]Region, error) {
	var regions []Region
	sc := bufio.NewScanner(rd)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		reg, err := parseMapsLine(text)
		if err != nil {
			return nil, fmt.Errorf("remote: maps line %d: %w", line, err)
		}
		regions = append(regions, reg)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return regions, nil
}

func parseMapsLine(text string) (Region, error) {
	fields := strings.Fields(text)
	if len(fields) < 5 {
		return Region{}, fmt.Errorf("want at least 5 fields, got %d", len(fields))
	}
	lo, hi, ok := strings.Cut(fields[0], "-")
	if !ok {
		return Region{}, fmt.Errorf("bad range %q", fields[0])
	}
	start, err := strconv.ParseUint(lo, 16, 64)
	if err != nil {
		return Region{}, err
	}
	end, err := strconv.ParseUint(hi, 16, 64)
	if err != nil {
		return Region{}, err
	}
	off, err := strconv.ParseUint(fields[2], 16, 64)
	if err != nil {
		return Region{}, err
	}
	reg := Region{
		Range:  memory.Range{Start: memory.Address(start), End: memory.Address(end)},
		Perms:  fields[1],
		Offset: off,
	}
	if len(fields) > 5 {
		reg.Path = strings.Join(fields[5:], " ")
	}
	return reg, nil
}

// Find returns the region holding addr.
func Find(regions []Region, addr memory.Address) (Region, bool) {
	for _, r := range regions {
		if r.Contains(addr) {
			return r, true
		}
	}
	return Region{}, false
}
