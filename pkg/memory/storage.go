package memory

// DefaultUnitSize is the allocation granularity of a Storage.
const DefaultUnitSize = PageSize

// Storage is an emulated address space: capacity bytes starting at base,
// allocated one unit at a time on first write. Units never written read back
// as zeros. It implements Primitive, so installing it on a Reader sends all
// address traffic into the emulated space.
type Storage struct {
	base     Address
	unitSize uint64
	capacity uint64
	data     map[uint64][]byte
}

// NewStorage creates a storage of the given capacity mapped at base.
func NewStorage(base Address, capacity uint64) *Storage {
	return &Storage{
		base:     base,
		unitSize: DefaultUnitSize,
		capacity: capacity,
		data:     make(map[uint64][]byte),
	}
}

// Range returns the addresses backed by the storage.
func (s *Storage) Range() Range {
	return Range{Start: s.base, End: s.base + Address(s.capacity)}
}

// Units returns how many units have been allocated so far.
func (s *Storage) Units() int {
	return len(s.data)
}

// offset translates addr into a storage offset, checking that n bytes fit.
func (s *Storage) offset(addr uintptr, n int) (uint64, error) {
	a := Address(addr)
	if a < s.base {
		return 0, ErrInvalidAddress
	}
	off := uint64(a - s.base)
	if off >= s.capacity || uint64(n) > s.capacity-off {
		return 0, ErrInvalidAddress
	}
	return off, nil
}

func (s *Storage) parseOffset(off uint64) (base, inUnit uint64) {
	inUnit = off % s.unitSize
	base = off - inUnit
	return
}

func (s *Storage) Read(dst []byte, addr uintptr) (int, error) {
	if err := CheckTransfer(dst, addr); err != nil {
		return 0, err
	}
	off, err := s.offset(addr, len(dst))
	if err != nil {
		return 0, err
	}

	done := 0
	for done < len(dst) {
		base, inUnit := s.parseOffset(off + uint64(done))
		n := min(uint64(len(dst)-done), s.unitSize-inUnit)
		if unit, ok := s.data[base]; ok {
			copy(dst[done:done+int(n)], unit[inUnit:inUnit+n])
		} else {
			clear(dst[done : done+int(n)])
		}
		done += int(n)
	}
	return done, nil
}

func (s *Storage) Write(addr uintptr, src []byte) (int, error) {
	if err := CheckTransfer(src, addr); err != nil {
		return 0, err
	}
	off, err := s.offset(addr, len(src))
	if err != nil {
		return 0, err
	}

	done := 0
	for done < len(src) {
		base, inUnit := s.parseOffset(off + uint64(done))
		unit, ok := s.data[base]
		if !ok {
			unit = make([]byte, s.unitSize)
			s.data[base] = unit
		}
		n := min(uint64(len(src)-done), s.unitSize-inUnit)
		copy(unit[inUnit:inUnit+n], src[done:done+int(n)])
		done += int(n)
	}
	return done, nil
}
