package memory

import (
	"encoding/binary"
	"unsafe"

	"github.com/rawbytedev/memkit/internal/common"
)

// Cursor moves sequentially through memory, advancing Addr by every byte it
// transfers. It implements io.Reader, io.Writer and io.ByteReader, which makes
// binary stream parsing and construction over a Reader straightforward.
type Cursor struct {
	R    *Reader
	Addr Address

	scratch [10]byte
}

func NewCursor(r *Reader, addr Address) *Cursor {
	return &Cursor{R: r, Addr: addr}
}

func (c *Cursor) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := c.R.Read(p, c.Addr)
	if err != nil {
		return 0, err
	}
	c.Addr = c.Addr.Offset(n)
	return n, nil
}

func (c *Cursor) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := c.R.Write(c.Addr, p)
	if err != nil {
		return 0, err
	}
	c.Addr = c.Addr.Offset(n)
	return n, nil
}

func (c *Cursor) ReadByte() (byte, error) {
	if _, err := c.Read(c.scratch[:1]); err != nil {
		return 0, err
	}
	return c.scratch[0], nil
}

// ReadUvarint decodes a base-128 varint at the cursor.
func (c *Cursor) ReadUvarint() (uint64, error) {
	return binary.ReadUvarint(c)
}

// WriteUvarint encodes x as a base-128 varint at the cursor.
func (c *Cursor) WriteUvarint(x uint64) (int, error) {
	return c.Write(common.WriteVarUintTo(c.scratch[:0], x))
}

// Skip advances the cursor by n bytes without touching memory.
func (c *Cursor) Skip(n int) {
	c.Addr = c.Addr.Offset(n)
}

// Next reads a T at the cursor and advances past it.
func Next[T any](c *Cursor) (T, error) {
	v, err := Read[T](c.R, c.Addr)
	if err != nil {
		return v, err
	}
	c.Addr = c.Addr.Offset(int(unsafe.Sizeof(v)))
	return v, nil
}

// Put writes v at the cursor and advances past it.
func Put[T any](c *Cursor, v T) error {
	if _, err := Write(c.R, c.Addr, v); err != nil {
		return err
	}
	c.Addr = c.Addr.Offset(int(unsafe.Sizeof(v)))
	return nil
}
