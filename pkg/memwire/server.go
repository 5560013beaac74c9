package memwire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/rawbytedev/memkit/pkg/memory"
)

// Server answers memwire requests from a memory.Reader. Requests from all
// connections are applied one at a time, so the backing primitive never sees
// concurrent calls.
type Server struct {
	reader *memory.Reader
	logger log.FieldLogger
	codec  *codec
	mu     sync.Mutex
}

// NewServer serves r. A nil logger means the logrus standard logger.
func NewServer(r *memory.Reader, logger log.FieldLogger) (*Server, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	c, err := newCodec()
	if err != nil {
		return nil, err
	}
	return &Server{reader: r, logger: logger, codec: c}, nil
}

func (s *Server) Close() {
	s.codec.Close()
}

// ServeConn answers frames on rw until the peer closes the stream. A clean
// close returns nil; a malformed frame ends the session with an error.
func (s *Server) ServeConn(rw io.ReadWriter) error {
	for {
		f, err := s.codec.readFrame(rw)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		resp, err := s.handle(f)
		if err != nil {
			return err
		}
		if err := s.codec.writeFrame(rw, Frame{Type: TypeResponse, Body: resp.marshal()}); err != nil {
			return fmt.Errorf("memwire: send response: %w", err)
		}
	}
}

// Serve accepts connections on ln until ctx is cancelled. Cancelling also
// closes every open session, and Serve returns once their goroutines exit.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	var (
		connMu sync.Mutex
		conns  = make(map[net.Conn]struct{})
	)
	stop := context.AfterFunc(ctx, func() {
		ln.Close()
		connMu.Lock()
		defer connMu.Unlock()
		for c := range conns {
			c.Close()
		}
	})
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	s.logger.WithField("addr", ln.Addr().String()).Info("memwire: serving")
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		connMu.Lock()
		if ctx.Err() != nil {
			connMu.Unlock()
			conn.Close()
			return nil
		}
		conns[conn] = struct{}{}
		connMu.Unlock()

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				connMu.Lock()
				delete(conns, conn)
				connMu.Unlock()
				conn.Close()
			}()
			peer := s.logger.WithField("peer", conn.RemoteAddr().String())
			peer.Debug("memwire: connected")
			err := s.ServeConn(conn)
			switch {
			case ctx.Err() != nil:
				peer.Debug("memwire: closed on shutdown")
			case err != nil:
				peer.WithError(err).Warn("memwire: session ended")
			default:
				peer.Debug("memwire: disconnected")
			}
		}()
	}
}

func (s *Server) handle(f Frame) (response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch f.Type {
	case TypeRead:
		var req readRequest
		if err := req.unmarshal(f.Body); err != nil {
			return response{}, err
		}
		s.logger.WithFields(log.Fields{
			"addr": memory.Address(req.Addr),
			"size": req.Size,
		}).Debug("memwire: read")
		if req.Size > MaxTransfer {
			return failure(memory.ErrInvalidParameters), nil
		}
		buf := make([]byte, req.Size)
		n, err := s.reader.Read(buf, memory.Address(req.Addr))
		if err != nil {
			return failure(err), nil
		}
		return response{Count: uint32(n), Data: buf[:n]}, nil

	case TypeWrite:
		var req writeRequest
		if err := req.unmarshal(f.Body); err != nil {
			return response{}, err
		}
		s.logger.WithFields(log.Fields{
			"addr": memory.Address(req.Addr),
			"size": len(req.Data),
		}).Debug("memwire: write")
		n, err := s.reader.Write(memory.Address(req.Addr), req.Data)
		if err != nil {
			return failure(err), nil
		}
		return response{Count: uint32(n)}, nil

	default:
		return response{}, fmt.Errorf("memwire: unexpected %s frame", f.Type)
	}
}
