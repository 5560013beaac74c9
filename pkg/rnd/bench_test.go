package rnd_test

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/rawbytedev/memkit/pkg/rnd"
)

func BenchmarkNumber(b *testing.B) {
	logger, _ := test.NewNullLogger()
	g := rnd.New(rnd.Options{Logger: logger})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = rnd.Number[uint32](g)
	}
}

func BenchmarkNumberIn(b *testing.B) {
	logger, _ := test.NewNullLogger()
	g := rnd.New(rnd.Options{Logger: logger})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = rnd.NumberIn(g, int16(-500), int16(500))
	}
}

func BenchmarkFill(b *testing.B) {
	logger, _ := test.NewNullLogger()
	g := rnd.New(rnd.Options{Logger: logger})
	buf := make([]byte, 4096)
	b.SetBytes(int64(len(buf)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		g.Fill(buf)
	}
}
