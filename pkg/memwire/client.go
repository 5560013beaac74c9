package memwire

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/rawbytedev/memkit/pkg/memory"
)

// Client is a memory.Primitive whose memory lives on the other end of a
// stream. Install it with (*memory.Reader).Use.
type Client struct {
	mu    sync.Mutex
	rw    io.ReadWriter
	codec *codec
}

func NewClient(rw io.ReadWriter) (*Client, error) {
	c, err := newCodec()
	if err != nil {
		return nil, err
	}
	return &Client{rw: rw, codec: c}, nil
}

// Dial connects to a memwire server.
func Dial(ctx context.Context, network, address string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, fmt.Errorf("memwire: dial %s: %w", address, err)
	}
	c, err := NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// Close releases the codec and closes the stream if it is an io.Closer.
func (c *Client) Close() error {
	c.codec.Close()
	if cl, ok := c.rw.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

func (c *Client) Read(dst []byte, addr uintptr) (int, error) {
	if err := memory.CheckTransfer(dst, addr); err != nil {
		return 0, err
	}
	if len(dst) > MaxTransfer {
		return 0, memory.ErrInvalidParameters
	}
	req := readRequest{Addr: uint64(addr), Size: uint32(len(dst))}
	resp, err := c.roundTrip(Frame{Type: TypeRead, Body: req.marshal()})
	if err != nil {
		return 0, err
	}
	if err := resp.err(); err != nil {
		return 0, err
	}
	n := copy(dst, resp.Data)
	if n < len(dst) {
		return n, memory.ErrNotEnoughBytes
	}
	return n, nil
}

func (c *Client) Write(addr uintptr, src []byte) (int, error) {
	if err := memory.CheckTransfer(src, addr); err != nil {
		return 0, err
	}
	if len(src) > MaxTransfer {
		return 0, memory.ErrInvalidParameters
	}
	req := writeRequest{Addr: uint64(addr), Data: src}
	resp, err := c.roundTrip(Frame{Type: TypeWrite, Body: req.marshal()})
	if err != nil {
		return 0, err
	}
	if err := resp.err(); err != nil {
		return 0, err
	}
	if int(resp.Count) < len(src) {
		return int(resp.Count), memory.ErrNotEnoughBytes
	}
	return int(resp.Count), nil
}

func (c *Client) roundTrip(req Frame) (response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.codec.writeFrame(c.rw, req); err != nil {
		return response{}, fmt.Errorf("memwire: send %s: %w", req.Type, err)
	}
	f, err := c.codec.readFrame(c.rw)
	if err != nil {
		return response{}, fmt.Errorf("memwire: receive: %w", err)
	}
	if f.Type != TypeResponse {
		return response{}, fmt.Errorf("memwire: got %s frame, want response", f.Type)
	}
	var resp response
	if err := resp.unmarshal(f.Body); err != nil {
		return response{}, err
	}
	return resp, nil
}
