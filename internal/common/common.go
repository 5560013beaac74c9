package common

import (
	"math/bits"
	"reflect"
	"sync"
	"unsafe"
)

// Integer is satisfied by every built-in integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// LittleEndian reports whether the host stores integers least significant byte first.
var LittleEndian = func() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1
}()

// IsFixedKind reports whether k is a fixed-size primitive kind.
func IsFixedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}

// Layout is the memory shape of a type as seen by a raw byte copy.
type Layout struct {
	Size      int
	Alignment int
	// Copyable is false for anything holding a pointer the garbage collector tracks.
	Copyable bool
}

var layouts sync.Map // reflect.Type -> Layout

// LayoutOf returns the cached layout of t, computing it on first use. Lookups
// after the first take no lock.
func LayoutOf(t reflect.Type) Layout {
	if l, ok := layouts.Load(t); ok {
		return l.(Layout)
	}
	l, _ := layouts.LoadOrStore(t, Layout{
		Size:      int(t.Size()),
		Alignment: t.Align(),
		Copyable:  triviallyCopyable(t),
	})
	return l.(Layout)
}

// LayoutFor is LayoutOf for a type parameter.
func LayoutFor[T any]() Layout {
	return LayoutOf(reflect.TypeFor[T]())
}

func triviallyCopyable(t reflect.Type) bool {
	switch {
	case IsFixedKind(t.Kind()):
		return true
	case t.Kind() == reflect.Array:
		return triviallyCopyable(t.Elem())
	case t.Kind() == reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !triviallyCopyable(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ByteSwap reverses the byte order of v.
func ByteSwap[T Integer](v T) T {
	switch unsafe.Sizeof(v) {
	case 1:
		return v
	case 2:
		return T(bits.ReverseBytes16(uint16(v)))
	case 4:
		return T(bits.ReverseBytes32(uint32(v)))
	default:
		return T(bits.ReverseBytes64(uint64(v)))
	}
}

// ToLE converts a native-order value to little-endian order.
func ToLE[T Integer](v T) T {
	if LittleEndian {
		return v
	}
	return ByteSwap(v)
}

// ToBE converts a native-order value to big-endian order.
func ToBE[T Integer](v T) T {
	if !LittleEndian {
		return v
	}
	return ByteSwap(v)
}

// BytesOf aliases the memory of *p as a byte slice without copying.
func BytesOf[T any](p *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), unsafe.Sizeof(*p))
}

// WriteVarUintTo appends varint-encoded x to dst using a small stack scratch.
func WriteVarUintTo(dst []byte, x uint64) []byte {
	var scratch [10]byte
	i := 0
	for x >= 0x80 {
		scratch[i] = byte(x) | 0x80
		x >>= 7
		i++
	}
	scratch[i] = byte(x)
	i++
	return append(dst, scratch[:i]...)
}
