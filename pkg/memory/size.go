package memory

import "unsafe"

// Bits and Bytes are distinct integer types so a bit count can't be passed
// where a byte count is expected.
type (
	Bits  uint
	Bytes uint
)

// ByteBits is the width of a byte.
const ByteBits = 8

func ToBits(b Bytes) Bits  { return Bits(b * ByteBits) }
func ToBytes(b Bits) Bytes { return Bytes(b / ByteBits) }

func (b Bytes) Bits() Bits  { return ToBits(b) }
func (b Bits) Bytes() Bytes { return ToBytes(b) }
func (b Bytes) Int() int    { return int(b) }
func (b Bits) Int() int     { return int(b) }

// SizeOf returns the in-memory size of T.
func SizeOf[T any]() Bytes {
	var v T
	return Bytes(unsafe.Sizeof(v))
}

// Word is the machine word an Address is made of.
type Word = uintptr

var (
	WordBits     = ToBits(SizeOf[Word]())
	HalfWordBits = WordBits / 2
)
