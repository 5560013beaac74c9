package memory

import "unsafe"

// ReadPrimitive copies len(dst) bytes starting at addr into dst and returns
// the number of bytes transferred.
type ReadPrimitive func(dst []byte, addr uintptr) (int, error)

// WritePrimitive copies src to addr and returns the number of bytes
// transferred.
type WritePrimitive func(addr uintptr, src []byte) (int, error)

// Primitive is a strategy object supplying both halves of the byte access,
// e.g. a remote process or an emulated address space.
type Primitive interface {
	Read(dst []byte, addr uintptr) (int, error)
	Write(addr uintptr, src []byte) (int, error)
}

// InProcessRead is the default read primitive: a direct copy out of this
// process's memory.
func InProcessRead(dst []byte, addr uintptr) (int, error) {
	if err := CheckTransfer(dst, addr); err != nil {
		return 0, err
	}
	return copy(dst, unsafe.Slice((*byte)(unsafe.Pointer(addr)), len(dst))), nil
}

// InProcessWrite is the default write primitive: a direct copy into this
// process's memory.
func InProcessWrite(addr uintptr, src []byte) (int, error) {
	if err := CheckTransfer(src, addr); err != nil {
		return 0, err
	}
	return copy(unsafe.Slice((*byte)(unsafe.Pointer(addr)), len(src)), src), nil
}

// Reader is the indirection point between addresses and the bytes they name.
// Every typed operation in this package funnels through its two primitives,
// so swapping them redirects all traffic without touching call sites.
//
// A Reader does no locking. Replacing a primitive while another goroutine
// reads or writes through the same Reader is a data race; callers that share
// a Reader across goroutines must synchronise externally or use one Reader
// per goroutine.
type Reader struct {
	read  ReadPrimitive
	write WritePrimitive
}

// NewReader returns a Reader wired to the in-process primitives.
func NewReader() *Reader {
	return &Reader{read: InProcessRead, write: InProcessWrite}
}

var defaultReader = NewReader()

// Default returns the process-wide Reader.
func Default() *Reader {
	return defaultReader
}

// SetReadPrimitive installs fn for all subsequent reads. A nil fn restores
// the in-process default.
func (r *Reader) SetReadPrimitive(fn ReadPrimitive) {
	if fn == nil {
		fn = InProcessRead
	}
	r.read = fn
}

// SetWritePrimitive installs fn for all subsequent writes. A nil fn restores
// the in-process default.
func (r *Reader) SetWritePrimitive(fn WritePrimitive) {
	if fn == nil {
		fn = InProcessWrite
	}
	r.write = fn
}

// Use installs both halves of p. A nil p restores the in-process defaults.
func (r *Reader) Use(p Primitive) {
	if p == nil {
		r.Reset()
		return
	}
	r.read = p.Read
	r.write = p.Write
}

// Reset restores the in-process primitives.
func (r *Reader) Reset() {
	r.read = InProcessRead
	r.write = InProcessWrite
}

// Read fills dst from addr through the installed read primitive.
func (r *Reader) Read(dst []byte, addr Address) (int, error) {
	return r.read(dst, uintptr(addr))
}

// Write copies src to addr through the installed write primitive.
func (r *Reader) Write(addr Address, src []byte) (int, error) {
	return r.write(uintptr(addr), src)
}

// ReadBytes reads size bytes starting at addr into a new slice.
func (r *Reader) ReadBytes(addr Address, size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrInvalidParameters
	}
	buf := make([]byte, size)
	if _, err := r.Read(buf, addr); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteBytes copies src to addr and returns addr on success.
func (r *Reader) WriteBytes(addr Address, src []byte) (Address, error) {
	if _, err := r.Write(addr, src); err != nil {
		return Null, err
	}
	return addr, nil
}
