package memory

import (
	"unsafe"

	"github.com/rawbytedev/memkit/internal/common"
)

// Integer is satisfied by every built-in integer type.
type Integer = common.Integer

// Displacement is the set of signed widths used for instruction-relative
// offsets.
type Displacement interface {
	~int8 | ~int16 | ~int32
}

// copyable rejects types that cannot be moved with a raw byte copy: anything
// carrying a Go pointer, string, slice, map, channel, func or interface.
func copyable[T any]() error {
	if !common.LayoutFor[T]().Copyable {
		return ErrInvalidParameters
	}
	return nil
}

// Read copies a T out of addr.
func Read[T any](r *Reader, addr Address) (T, error) {
	var v T
	if err := copyable[T](); err != nil {
		return v, err
	}
	if _, err := r.Read(common.BytesOf(&v), addr); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// ReadInto copies a T out of addr into *dst and returns dst.
func ReadInto[T any](r *Reader, addr Address, dst *T) (*T, error) {
	if err := copyable[T](); err != nil {
		return nil, err
	}
	if dst == nil {
		return nil, ErrInvalidAddress
	}
	if _, err := r.Read(common.BytesOf(dst), addr); err != nil {
		return nil, err
	}
	return dst, nil
}

// Write copies v to addr and returns addr.
func Write[T any](r *Reader, addr Address, v T) (Address, error) {
	if err := copyable[T](); err != nil {
		return Null, err
	}
	if _, err := r.Write(addr, common.BytesOf(&v)); err != nil {
		return Null, err
	}
	return addr, nil
}

// Deref reads the T stored at addr, following one level of indirection.
func Deref[T any](r *Reader, addr Address) (T, error) {
	return Read[T](r, addr)
}

// Deref reads the address stored at addr.
func (r *Reader) Deref(addr Address) (Address, error) {
	return Read[Address](r, addr)
}

// Get follows count levels of indirection starting at addr and reads the
// final value as a T. Get(r, a, 1) is Deref(r, a).
func Get[T any](r *Reader, addr Address, count int) (T, error) {
	var zero T
	if addr == Null || count <= 0 {
		return zero, ErrInvalidAddress
	}
	cur := addr
	for i := 1; i < count; i++ {
		next, err := r.Deref(cur)
		if err != nil {
			return zero, ErrNotEnoughBytes
		}
		cur = next
	}
	return Read[T](r, cur)
}

// ReadLE reads an integer stored little-endian at addr.
func ReadLE[T Integer](r *Reader, addr Address) (T, error) {
	v, err := Read[T](r, addr)
	if err != nil {
		return v, err
	}
	return common.ToLE(v), nil
}

// ReadBE reads an integer stored big-endian at addr.
func ReadBE[T Integer](r *Reader, addr Address) (T, error) {
	v, err := Read[T](r, addr)
	if err != nil {
		return v, err
	}
	return common.ToBE(v), nil
}

// Rel resolves an instruction-relative operand. The signed displacement sits
// dispOffset bytes into the instruction at addr and the instruction ends right
// after it, so the target is addr + dispOffset + sizeof(T) + disp.
func Rel[T Displacement](r *Reader, addr Address, dispOffset int) (Address, error) {
	disp, err := Read[T](r, addr.Offset(dispOffset))
	if err != nil {
		return Null, err
	}
	end := addr + Address(dispOffset) + Address(unsafe.Sizeof(disp))
	return end + Address(int(disp)), nil
}

func Rel8(r *Reader, addr Address, dispOffset int) (Address, error) {
	return Rel[int8](r, addr, dispOffset)
}

func Rel16(r *Reader, addr Address, dispOffset int) (Address, error) {
	return Rel[int16](r, addr, dispOffset)
}

func Rel32(r *Reader, addr Address, dispOffset int) (Address, error) {
	return Rel[int32](r, addr, dispOffset)
}

// SelfWriteInc writes v at *addr+offset and advances *addr past it. The
// address advances even when the write fails.
func SelfWriteInc[T any](r *Reader, addr *Address, v T, offset int) (Address, error) {
	res, err := Write(r, addr.Offset(offset), v)
	*addr = addr.Offset(offset + int(unsafe.Sizeof(v)))
	return res, err
}

// Ptr reinterprets addr+offset as a *T in this process without going through
// a Reader. Only meaningful when addr names local memory.
func Ptr[T any](addr Address, offset int) *T {
	return (*T)(addr.Offset(offset).Pointer())
}

// SelfIncPtr returns Ptr[T](*addr, offset) and advances *addr to just past it.
func SelfIncPtr[T any](addr *Address, offset int) *T {
	p := Ptr[T](*addr, offset)
	*addr = Of(p).Offset(int(unsafe.Sizeof(*p)))
	return p
}
