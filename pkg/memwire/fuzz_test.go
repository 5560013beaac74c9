package memwire

import (
	"bytes"
	"testing"
)

func FuzzDecode(f *testing.F) {
	c, err := newCodec()
	if err != nil {
		f.Fatal(err)
	}
	defer c.Close()

	f.Add(c.encode(Frame{Type: TypeRead, Body: readRequest{Addr: 0x1000, Size: 4}.marshal()}))
	f.Add(c.encode(Frame{Type: TypeResponse, Body: bytes.Repeat([]byte{7}, 1024)}))
	f.Add([]byte("MW"))
	f.Fuzz(func(t *testing.T, data []byte) {
		fr, err := c.decode(data)
		if err != nil {
			return
		}
		// Anything that decodes must re-encode to a frame that decodes the same.
		again, err := c.decode(c.encode(fr))
		if err != nil {
			t.Fatal(err)
		}
		if again.Type != fr.Type || !bytes.Equal(again.Body, fr.Body) {
			t.Fatalf("re-encoded frame differs")
		}
	})
}

func BenchmarkRoundTripFrame(b *testing.B) {
	c, err := newCodec()
	if err != nil {
		b.Fatal(err)
	}
	defer c.Close()
	body := response{Count: 64, Data: make([]byte, 64)}.marshal()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = c.decode(c.encode(Frame{Type: TypeResponse, Body: body}))
	}
}
