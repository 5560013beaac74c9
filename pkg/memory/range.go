package memory

import "fmt"

// Range is the half-open interval [Start, End). Callers keep End >= Start;
// Size wraps otherwise.
type Range struct {
	Start Address
	End   Address
}

// Size returns End - Start as an unsigned byte count.
func (r Range) Size() uintptr {
	return uintptr(r.End - r.Start)
}

func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether addr lies in [Start, End).
func (r Range) Contains(addr Address) bool {
	return addr >= r.Start && addr < r.End
}

// Overlaps reports whether start < other.End and other.Start < End. An empty
// range strictly inside r counts as overlapping.
// Touching ranges do not overlap.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start, r.End)
}
