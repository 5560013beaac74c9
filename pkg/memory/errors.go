package memory

// ErrorCode is the closed set of failures an address operation can report.
// It implements error so results can be checked with errors.Is.
type ErrorCode uint8

const (
	ErrUnknown           ErrorCode = iota // reserved, no path produces it
	ErrInvalidParameters                  // zero-length transfer or unsupported type
	ErrInvalidAddress                     // null address or null buffer
	ErrNotEnoughBytes                     // a dereference chain broke before its end
)

func (e ErrorCode) Error() string {
	switch e {
	case ErrInvalidParameters:
		return "memory: invalid parameters"
	case ErrInvalidAddress:
		return "memory: invalid address"
	case ErrNotEnoughBytes:
		return "memory: not enough bytes"
	default:
		return "memory: unknown error"
	}
}

// CheckTransfer validates the arguments of a raw transfer the way the
// in-process primitives do. Primitive implementations should call it first.
func CheckTransfer(buf []byte, addr uintptr) error {
	if buf == nil || addr == 0 {
		return ErrInvalidAddress
	}
	if len(buf) == 0 {
		return ErrInvalidParameters
	}
	return nil
}
