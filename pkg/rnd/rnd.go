// Package rnd is a seeded random source whose output depends only on the seed
// and the call sequence, never on the platform or Go release.
//
// A Generator does no locking. Interleaved draws from several goroutines are not
// reproducible anyway, so callers that need concurrency should give each
// goroutine its own Generator.
package rnd

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/seehuhn/mt19937"
	log "github.com/sirupsen/logrus"

	"github.com/rawbytedev/memkit/internal/common"
)

// DefaultSeed is the seed a fresh engine starts from.
const DefaultSeed uint64 = 5489

type Options struct {
	// Logger receives the seed announcement. Nil means the logrus standard logger.
	Logger log.FieldLogger
}

// Generator is a 64-bit Mersenne Twister with a uniform integer distribution
// defined here rather than borrowed from math/rand.
type Generator struct {
	engine *mt19937.MT19937
	seed   uint64
	logger log.FieldLogger
}

// New returns a generator seeded with DefaultSeed. The default seed is not
// announced.
func New(opts Options) *Generator {
	g := &Generator{engine: mt19937.New(), logger: opts.Logger}
	if g.logger == nil {
		g.logger = log.StandardLogger()
	}
	g.engine.Seed(int64(DefaultSeed))
	g.seed = DefaultSeed
	return g
}

var defaultGenerator = New(Options{})

// Default returns the process-wide generator.
func Default() *Generator {
	return defaultGenerator
}

// Seed discards the engine state and restarts it from v.
func (g *Generator) Seed(v uint64) {
	g.logger.Infof("random: seed is %#x", v)
	g.engine.Seed(int64(v))
	g.seed = v
}

// Reseed seeds the engine from the operating system entropy source and returns
// the seed it picked.
func (g *Generator) Reseed() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("rnd: reading entropy: %w", err)
	}
	hi := binary.LittleEndian.Uint32(buf[:4])
	lo := binary.LittleEndian.Uint32(buf[4:])
	v := uint64(hi)<<32 | uint64(lo)
	g.Seed(v)
	return v, nil
}

// LastSeed returns the seed the engine was last started from.
func (g *Generator) LastSeed() uint64 {
	return g.seed
}

// Uint64 returns the next raw engine output.
func (g *Generator) Uint64() uint64 {
	return g.engine.Uint64()
}

// Number draws a T across its whole range.
func Number[T common.Integer](g *Generator) T {
	var v T
	lo, hi := limits(v)
	return NumberIn(g, lo, hi)
}

// NumberIn draws a T in [lo, hi]. Exactly one engine value is consumed per
// call. The reduction is a plain modulo, so small biases towards the low end of
// wide ranges are expected and stable across platforms.
//
// A full-range draw keeps the low bits of the engine output, except for
// 8-bit types, which take the top byte.
func NumberIn[T common.Integer](g *Generator, lo, hi T) T {
	width := 8 * unsafe.Sizeof(lo)
	mask := uint64(math.MaxUint64) >> (64 - width)
	ulo := uint64(lo) & mask
	uhi := uint64(hi) & mask
	span := (uhi - ulo) & mask

	raw := g.engine.Uint64()
	if span == mask {
		if width == 8 {
			return T(raw >> 56)
		}
		return T(raw)
	}
	return T(raw%(span+1) + ulo)
}

// limits returns the smallest and largest value of T.
func limits[T common.Integer](v T) (T, T) {
	width := 8 * unsafe.Sizeof(v)
	if T(0)-1 > 0 {
		return 0, T(uint64(math.MaxUint64) >> (64 - width))
	}
	hi := T(uint64(math.MaxInt64) >> (64 - width))
	return -hi - 1, hi
}

// Fill overwrites p with random bytes, one engine draw per byte.
func (g *Generator) Fill(p []byte) {
	for i := range p {
		p[i] = Number[uint8](g)
	}
}

// Read implements io.Reader. It never fails.
func (g *Generator) Read(p []byte) (int, error) {
	g.Fill(p)
	return len(p), nil
}

// Bytes returns n random bytes.
func (g *Generator) Bytes(n int) []byte {
	b := make([]byte, n)
	g.Fill(b)
	return b
}

// Chance reports true with roughly percent% probability. Values above 100 are
// always true. Chance(0) still succeeds one time in 101.
func (g *Generator) Chance(percent uint8) bool {
	return NumberIn[uint8](g, 0, 100) <= percent
}

// Item returns a random element of items. items must not be empty.
func Item[E any](g *Generator, items []E) E {
	if len(items) == 0 {
		panic("rnd: Item of empty slice")
	}
	return items[NumberIn(g, 0, uint64(len(items)-1))]
}

// Or picks one of its arguments.
func Or[E any](g *Generator, first E, rest ...E) E {
	return Item(g, append([]E{first}, rest...))
}
