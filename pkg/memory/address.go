package memory

import (
	"cmp"
	"fmt"
	"strconv"
	"unsafe"
)

// PageSize is the granularity used by PageAlignDown and PageAlignUp.
const PageSize = 0x1000

// Null is the invalid address. Offsetting it never yields a non-null address.
const Null Address = 0

// Address names a location in memory. It never owns what it points at; reads
// and writes through it go via a Reader, so the same value can name memory in
// this process or in a remote target.
//
// An Address built from a Go pointer does not keep the pointee alive. Callers
// must hold the original object (runtime.KeepAlive) for as long as they use the
// address.
type Address uintptr

// FromPointer returns the address held by p.
func FromPointer(p unsafe.Pointer) Address {
	return Address(uintptr(p))
}

// Of returns the address of *p.
func Of[T any](p *T) Address {
	return Address(uintptr(unsafe.Pointer(p)))
}

// FromBytes returns the base address of b, or Null for a nil slice.
func FromBytes(b []byte) Address {
	return Address(uintptr(unsafe.Pointer(unsafe.SliceData(b))))
}

// Offset returns a shifted by delta bytes. A null address is returned unchanged.
func (a Address) Offset(delta int) Address {
	if a == Null {
		return a
	}
	return a + Address(delta)
}

// AlignDown rounds a down to a multiple of factor, which must be a power of two.
func (a Address) AlignDown(factor uintptr) Address {
	return a &^ Address(factor-1)
}

// AlignUp rounds a up to a multiple of factor, which must be a power of two.
// Addresses within factor-1 of the top of the address space wrap to zero.
func (a Address) AlignUp(factor uintptr) Address {
	return (a + Address(factor) - 1).AlignDown(factor)
}

func (a Address) PageAlignDown() Address { return a.AlignDown(PageSize) }
func (a Address) PageAlignUp() Address   { return a.AlignUp(PageSize) }

// IsAligned reports whether a is a multiple of alignment.
func (a Address) IsAligned(alignment uintptr) bool {
	return uintptr(a)%alignment == 0
}

// RelativeTo returns a - base, wrapping when a is below base.
func (a Address) RelativeTo(base Address) Address {
	return a - base
}

// DistanceTo returns the signed byte distance from a to other.
func (a Address) DistanceTo(other Address) int {
	return int(other - a)
}

// IsInRange reports whether a lies in [start, end).
func (a Address) IsInRange(start, end Address) bool {
	return a >= start && a < end
}

func (a Address) IsNull() bool     { return a == Null }
func (a Address) Uintptr() uintptr { return uintptr(a) }
func (a Address) Uint64() uint64   { return uint64(a) }

// Pointer reinterprets a as an unsafe.Pointer.
func (a Address) Pointer() unsafe.Pointer {
	return unsafe.Pointer(uintptr(a))
}

func (a Address) Add(b Address) Address { return a + b }
func (a Address) Sub(b Address) Address { return a - b }
func (a Address) And(b Address) Address { return a & b }
func (a Address) Or(b Address) Address  { return a | b }
func (a Address) Xor(b Address) Address { return a ^ b }
func (a Address) Shl(n uint) Address    { return a << n }
func (a Address) Shr(n uint) Address    { return a >> n }

// Compare orders addresses numerically, for use with slices.SortFunc.
func (a Address) Compare(b Address) int { return cmp.Compare(a, b) }

// String renders a as 0x-prefixed lowercase hex.
func (a Address) String() string {
	return "0x" + strconv.FormatUint(uint64(a), 16)
}

// Format makes numeric verbs act on the integer value, so %x prints the
// address and not the hex of its String form.
func (a Address) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v', 's':
		_, _ = f.Write([]byte(a.String()))
	default:
		fmt.Fprintf(f, fmt.FormatString(f, verb), uintptr(a))
	}
}
