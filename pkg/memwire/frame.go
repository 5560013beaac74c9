// Package memwire carries memory.Reader traffic over a byte stream, so a
// Reader in one process can read and write memory served by another.
//
// Every message is one frame:
//
//	magic "MW" | type u8 | length u32 | flags u8 | body | crc32
//
// length counts the whole frame including magic and CRC. The CRC (IEEE) covers
// everything after the magic. Integers are little-endian.
package memwire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zstd"
)

type FrameType byte

const (
	TypeRead FrameType = iota + 1
	TypeWrite
	TypeResponse
)

func (t FrameType) String() string {
	switch t {
	case TypeRead:
		return "read"
	case TypeWrite:
		return "write"
	case TypeResponse:
		return "response"
	default:
		return fmt.Sprintf("FrameType(%d)", byte(t))
	}
}

const (
	// FlagCompressed marks a zstd-compressed body.
	FlagCompressed byte = 1 << 0

	// CompressThreshold is the smallest body worth compressing.
	CompressThreshold = 512

	// MaxFrameSize bounds what ReadFrame will allocate.
	MaxFrameSize = 64 << 20

	headerSize = 2 + 1 + 4 + 1
	crcSize    = 4
)

var magic = [2]byte{0x4D, 0x57}

var (
	ErrBadMagic     = errors.New("memwire: bad magic")
	ErrBadLength    = errors.New("memwire: length mismatch")
	ErrCRCMismatch  = errors.New("memwire: crc mismatch")
	ErrUnknownFrame = errors.New("memwire: unknown frame type")
)

// Frame is one decoded message. Body is always uncompressed.
type Frame struct {
	Type  FrameType
	Flags byte
	Body  []byte
}

// codec owns the zstd state shared by a client or server. EncodeAll and
// DecodeAll are safe for concurrent use.
type codec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newCodec() (*codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxFrameSize))
	if err != nil {
		return nil, err
	}
	return &codec{enc: enc, dec: dec}, nil
}

func (c *codec) Close() {
	c.enc.Close()
	c.dec.Close()
}

// encode serialises f, compressing the body when it is large enough.
func (c *codec) encode(f Frame) []byte {
	body, flags := f.Body, f.Flags&^FlagCompressed
	if len(body) >= CompressThreshold {
		if packed := c.enc.EncodeAll(body, nil); len(packed) < len(body) {
			body, flags = packed, flags|FlagCompressed
		}
	}

	out := make([]byte, headerSize, headerSize+len(body)+crcSize)
	out[0], out[1] = magic[0], magic[1]
	out[2] = byte(f.Type)
	binary.LittleEndian.PutUint32(out[3:], uint32(headerSize+len(body)+crcSize))
	out[7] = flags
	out = append(out, body...)

	return binary.LittleEndian.AppendUint32(out, crc32.ChecksumIEEE(out[2:]))
}

// decode parses one complete frame.
func (c *codec) decode(data []byte) (Frame, error) {
	if len(data) < headerSize+crcSize {
		return Frame{}, ErrBadLength
	}
	if data[0] != magic[0] || data[1] != magic[1] {
		return Frame{}, ErrBadMagic
	}
	if int(binary.LittleEndian.Uint32(data[3:])) != len(data) {
		return Frame{}, ErrBadLength
	}
	end := len(data) - crcSize
	if crc32.ChecksumIEEE(data[2:end]) != binary.LittleEndian.Uint32(data[end:]) {
		return Frame{}, ErrCRCMismatch
	}

	f := Frame{Type: FrameType(data[2]), Flags: data[7], Body: data[headerSize:end]}
	switch f.Type {
	case TypeRead, TypeWrite, TypeResponse:
	default:
		return Frame{}, ErrUnknownFrame
	}
	if f.Flags&FlagCompressed != 0 {
		body, err := c.dec.DecodeAll(f.Body, nil)
		if err != nil {
			return Frame{}, fmt.Errorf("memwire: decompress: %w", err)
		}
		f.Body = body
	}
	return f, nil
}

func (c *codec) writeFrame(w io.Writer, f Frame) error {
	_, err := w.Write(c.encode(f))
	return err
}

// readFrame reads exactly one frame from r. A clean end of stream before the
// first byte is reported as io.EOF.
func (c *codec) readFrame(r io.Reader) (Frame, error) {
	var hdr [7]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Frame{}, err
	}
	if hdr[0] != magic[0] || hdr[1] != magic[1] {
		return Frame{}, ErrBadMagic
	}
	length := binary.LittleEndian.Uint32(hdr[3:])
	if length < headerSize+crcSize || length > MaxFrameSize {
		return Frame{}, ErrBadLength
	}

	data := make([]byte, length)
	copy(data, hdr[:])
	if _, err := io.ReadFull(r, data[len(hdr):]); err != nil {
		return Frame{}, fmt.Errorf("memwire: short frame: %w", err)
	}
	return c.decode(data)
}
