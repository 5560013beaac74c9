package cli

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"net"
	"runtime"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/memkit/pkg/memory"
	"github.com/rawbytedev/memkit/pkg/memwire"
	"github.com/rawbytedev/memkit/pkg/rnd"
)

func run(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestRand(t *testing.T) {
	out, err := run(t, context.Background(), "rand", "--seed", "0x1234", "-t", "u8")
	require.NoError(t, err)
	require.Equal(t, "81\n", out)

	out, err = run(t, context.Background(), "rand", "--seed", "7", "-t", "i8", "--min", "-3", "--max", "3", "-n", "50")
	require.NoError(t, err)
	lines := strings.Fields(out)
	require.Len(t, lines, 50)
	for _, l := range lines {
		require.Contains(t, []string{"-3", "-2", "-1", "0", "1", "2", "3"}, l)
	}

	_, err = run(t, context.Background(), "rand", "-t", "u128")
	require.Error(t, err)
	_, err = run(t, context.Background(), "rand", "--seed", "1", "--min", "9", "--max", "2")
	require.Error(t, err)
}

func TestBytes(t *testing.T) {
	logger, _ := test.NewNullLogger()
	g := rnd.New(rnd.Options{Logger: logger})
	g.Seed(0x1234)
	want := hex.EncodeToString(g.Bytes(5)) + "\n"

	out, err := run(t, context.Background(), "bytes", "--seed", "0x1234", "5")
	require.NoError(t, err)
	require.Equal(t, want, out)

	_, err = run(t, context.Background(), "bytes", "-1")
	require.Error(t, err)
}

func TestAlign(t *testing.T) {
	out, err := run(t, context.Background(), "align", "0x1234", "--factor", "0x1000")
	require.NoError(t, err)
	require.Contains(t, out, "align down  0x1000\n")
	require.Contains(t, out, "align up    0x2000\n")
	require.Contains(t, out, "aligned     false\n")

	_, err = run(t, context.Background(), "align", "0x1234", "--factor", "3")
	require.Error(t, err)
	_, err = run(t, context.Background(), "align", "nope")
	require.Error(t, err)
}

func startServer(t *testing.T) string {
	t.Helper()
	logger, _ := test.NewNullLogger()
	backing := memory.NewReader()
	backing.Use(memory.NewStorage(0x10000, 0x1000))
	srv, err := memwire.NewServer(backing, logger)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.Serve(ctx, ln)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		srv.Close()
	})
	return ln.Addr().String()
}

func TestPokePeek(t *testing.T) {
	addr := startServer(t)
	ctx := context.Background()

	out, err := run(t, ctx, "poke", "--remote", addr, "0x10010", "deadbeef")
	require.NoError(t, err)
	require.Equal(t, "wrote 4 bytes at 0x10010\n", out)

	out, err = run(t, ctx, "peek", "--remote", addr, "-s", "4", "0x10010")
	require.NoError(t, err)
	require.Equal(t, "0000000000010010  de ad be ef\n", out)

	// 0x10100 holds a pointer to 0x10010.
	ptr := make([]byte, 8)
	binary.NativeEndian.PutUint64(ptr, 0x10010)
	_, err = run(t, ctx, "poke", "--remote", addr, "0x10100", hex.EncodeToString(ptr))
	require.NoError(t, err)
	out, err = run(t, ctx, "peek", "--remote", addr, "-s", "2", "--deref", "1", "0x10100")
	require.NoError(t, err)
	require.Equal(t, "-> 0x10010\n0000000000010010  de ad\n", out)

	_, err = run(t, ctx, "peek", "--remote", addr, "0x10")
	require.ErrorIs(t, err, memory.ErrInvalidAddress)
}

func TestPeekWithoutTarget(t *testing.T) {
	_, err := run(t, context.Background(), "peek", "0x1000")
	require.ErrorIs(t, err, errNoTarget)
}

func TestMaps(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("maps needs /proc")
	}
	out, err := run(t, context.Background(), "maps")
	require.NoError(t, err)
	require.NotEmpty(t, out)
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := run(t, ctx, "serve", "--listen", "127.0.0.1:0")
	require.NoError(t, err)
}
