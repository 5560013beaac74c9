package memwire

import (
	"encoding/binary"
	"errors"

	"github.com/rawbytedev/memkit/pkg/memory"
)

// MaxTransfer bounds the size of a single read or write request.
const MaxTransfer = 16 << 20

var errShortBody = errors.New("memwire: short body")

// readRequest body: addr u64 | size u32
type readRequest struct {
	Addr uint64
	Size uint32
}

func (m readRequest) marshal() []byte {
	b := binary.LittleEndian.AppendUint64(nil, m.Addr)
	return binary.LittleEndian.AppendUint32(b, m.Size)
}

func (m *readRequest) unmarshal(b []byte) error {
	if len(b) != 12 {
		return errShortBody
	}
	m.Addr = binary.LittleEndian.Uint64(b)
	m.Size = binary.LittleEndian.Uint32(b[8:])
	return nil
}

// writeRequest body: addr u64 | data
type writeRequest struct {
	Addr uint64
	Data []byte
}

func (m writeRequest) marshal() []byte {
	b := make([]byte, 8, 8+len(m.Data))
	binary.LittleEndian.PutUint64(b, m.Addr)
	return append(b, m.Data...)
}

func (m *writeRequest) unmarshal(b []byte) error {
	if len(b) < 8 {
		return errShortBody
	}
	m.Addr = binary.LittleEndian.Uint64(b)
	m.Data = b[8:]
	return nil
}

// response body: failed u8 | code u8 | count u32 | data
//
// code is only meaningful when failed is set, since ErrUnknown is zero.
type response struct {
	Failed bool
	Code   memory.ErrorCode
	Count  uint32
	Data   []byte
}

func (m response) err() error {
	if !m.Failed {
		return nil
	}
	return m.Code
}

func (m response) marshal() []byte {
	b := make([]byte, 6, 6+len(m.Data))
	if m.Failed {
		b[0] = 1
	}
	b[1] = byte(m.Code)
	binary.LittleEndian.PutUint32(b[2:], m.Count)
	return append(b, m.Data...)
}

func (m *response) unmarshal(b []byte) error {
	if len(b) < 6 {
		return errShortBody
	}
	m.Failed = b[0] != 0
	m.Code = memory.ErrorCode(b[1])
	m.Count = binary.LittleEndian.Uint32(b[2:])
	m.Data = b[6:]
	return nil
}

// failure builds the response for a primitive error. Anything that is not a
// memory.ErrorCode travels as ErrUnknown.
func failure(err error) response {
	var code memory.ErrorCode
	if !errors.As(err, &code) {
		code = memory.ErrUnknown
	}
	return response{Failed: true, Code: code}
}
