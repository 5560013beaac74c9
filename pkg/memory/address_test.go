package memory_test

import (
	"fmt"
	"math"
	"testing"
	"testing/quick"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/memkit/pkg/memory"
)

func TestAddressOffsetNull(t *testing.T) {
	// We aren't modifying zeroes
	require.Equal(t, memory.Null, memory.Null.Offset(1))
	require.Equal(t, memory.Address(2), memory.Address(1).Offset(1))
	require.Equal(t, memory.Address(0xff), memory.Address(0x100).Offset(-1))

	condition := func(delta int) bool {
		return memory.Address(0).Offset(delta) == memory.Null
	}
	require.NoError(t, quick.Check(condition, nil))
}

func TestAddressAligns(t *testing.T) {
	require.Equal(t, memory.Address(0x1000), memory.Address(0x1234).AlignDown(0x1000))
	require.Equal(t, memory.Address(0x2000), memory.Address(0x2234).AlignDown(0x1000))
	require.Equal(t, memory.Address(0x2000), memory.Address(0x2000).AlignDown(0x1000))

	require.Equal(t, memory.Address(0x2000), memory.Address(0x1234).AlignUp(0x1000))
	require.Equal(t, memory.Address(0x3000), memory.Address(0x2234).AlignUp(0x1000))
	require.Equal(t, memory.Address(0x2000), memory.Address(0x2000).AlignUp(0x1000))
}

func TestAddressAlignProperties(t *testing.T) {
	condition := func(raw uint32, shift uint8) bool {
		a := memory.Address(raw)
		f := uintptr(1) << (shift % 20)
		down, up := a.AlignDown(f), a.AlignUp(f)
		return down <= a && up >= a && down.IsAligned(f) && up.IsAligned(f)
	}
	require.NoError(t, quick.Check(condition, nil))
}

func TestAddressPageAligns(t *testing.T) {
	require.Equal(t, memory.Address(0x1000), memory.Address(0x1234).PageAlignDown())
	require.Equal(t, memory.Address(0x2000), memory.Address(0x1234).PageAlignUp())
	require.Equal(t, memory.Address(0x2000), memory.Address(0x2000).PageAlignDown())
	require.Equal(t, memory.Address(0x2000), memory.Address(0x2000).PageAlignUp())
	require.Equal(t, memory.Address(0x2000), memory.Address(0x2001).PageAlignDown())
	require.Equal(t, memory.Address(0x3000), memory.Address(0x2001).PageAlignUp())
}

func TestAddressOperators(t *testing.T) {
	a1 := memory.Address(0x1000)
	a2 := memory.Address(0x2000)
	a3 := memory.Address(0x1000)

	assert.Equal(t, memory.Address(0x3000), a1.Add(a2))
	assert.Equal(t, memory.Address(0x1000), a2.Sub(a1))
	assert.True(t, a1 < a2)
	assert.True(t, a2 > a1)
	assert.True(t, a1 <= a3)
	assert.True(t, a1 >= a3)
	assert.True(t, a1 == a3)
	assert.True(t, a1 != a2)
	assert.Equal(t, -1, a1.Compare(a2))
	assert.Equal(t, 0, a1.Compare(a3))
	assert.False(t, a1.IsNull())
	assert.True(t, memory.Null.IsNull())
	assert.Equal(t, uintptr(0x1000), a1.Uintptr())
	assert.Equal(t, uint64(0x1000), a1.Uint64())

	a1 += a2
	assert.Equal(t, memory.Address(0x3000), a1)
	a1 -= a2
	assert.Equal(t, memory.Address(0x1000), a1)
}

func TestAddressBitwise(t *testing.T) {
	a1 := memory.Address(0xFF00)
	a2 := memory.Address(0x00FF)
	assert.Equal(t, memory.Address(0x0000), a1.And(a2))
	assert.Equal(t, memory.Address(0xFFFF), a1.Or(a2))
	assert.Equal(t, memory.Address(0xFFFF), a1.Xor(a2))

	a := memory.Address(0x1234)
	assert.Equal(t, memory.Address(0x12340), a.Shl(4))
	assert.Equal(t, memory.Address(0x123), a.Shr(4))
	assert.Equal(t, memory.Address(0x123400), a.Shl(8))
	assert.Equal(t, memory.Address(0x12), a.Shr(8))
	assert.Equal(t, a, a.Shl(0))
	assert.Equal(t, memory.Null, a.Shr(16))

	maxAddr := memory.Address(math.MaxUint)
	assert.Equal(t, maxAddr-1, maxAddr.Shl(1))

	if unsafe.Sizeof(uintptr(0)) == 8 {
		wide := uint64(0x1234567890ABCDEF)
		large := memory.Address(wide)
		assert.Equal(t, memory.Address(0x12345678), large.Shr(32))
	}
}

func TestAddressConstructors(t *testing.T) {
	require.Equal(t, memory.Null, memory.Address(0))
	require.Equal(t, memory.Null, memory.FromBytes(nil))

	dummy := new(int)
	require.Equal(t, uintptr(unsafe.Pointer(dummy)), memory.Of(dummy).Uintptr())
	require.Equal(t, memory.Of(dummy), memory.FromPointer(unsafe.Pointer(dummy)))

	data := []byte{1, 2, 3, 4}
	require.Equal(t, uintptr(unsafe.Pointer(&data[0])), memory.FromBytes(data).Uintptr())
}

func TestAddressEdgeCases(t *testing.T) {
	maxAddr := memory.Address(math.MaxUint)
	require.Equal(t, uintptr(math.MaxUint), maxAddr.Uintptr())
	require.Equal(t, memory.Null, maxAddr.Offset(1))
	require.Equal(t, memory.Null, maxAddr.AlignUp(2))
}

func TestAddressRanges(t *testing.T) {
	a := memory.Address(0x1000)
	require.True(t, a.IsInRange(0x500, 0x1500))
	require.False(t, a.IsInRange(0x1500, 0x2000))
	require.False(t, a.IsInRange(0x500, 0x1000))

	b := memory.Address(0x1500)
	require.Equal(t, 0x500, a.DistanceTo(b))
	require.Equal(t, -0x500, b.DistanceTo(a))

	base := memory.Address(0x1000)
	lower := memory.Address(0x500)
	require.Equal(t, memory.Address(0x500), b.RelativeTo(base))
	require.Equal(t, memory.Address(0x500).Sub(0x1000), lower.RelativeTo(base))
	require.Equal(t, memory.Null, base.RelativeTo(base))

	require.True(t, memory.Address(0x1000).IsAligned(16))
	require.False(t, memory.Address(0x1001).IsAligned(16))
}

func TestAddressFormatting(t *testing.T) {
	a := memory.Address(0x1234ABCD)
	require.Equal(t, "1234abcd", fmt.Sprintf("%x", a))
	require.Equal(t, "1234ABCD", fmt.Sprintf("%X", a))
	require.Equal(t, "0x1234abcd", fmt.Sprintf("%#x", a))
	require.Equal(t, "0x1234abcd", fmt.Sprintf("%v", a))
	require.Equal(t, "0x1234abcd", fmt.Sprint(a))
	require.Equal(t, "00001234", fmt.Sprintf("%08x", memory.Address(0x1234)))
	require.Equal(t, "0x1234", memory.Address(0x1234).String())
}

func TestAddressAsMapKey(t *testing.T) {
	seen := map[memory.Address]int{}
	seen[memory.Address(0x1234)]++
	seen[memory.Address(0x1234)]++
	seen[memory.Address(0x5678)]++
	require.Len(t, seen, 2)
	require.Equal(t, 2, seen[0x1234])
}
