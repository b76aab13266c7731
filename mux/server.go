// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package mux

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/unitcircleinc/sbl/sblerr"
)

// LogPort is the TCP port the log channel listens on; each logical
// stream i listens on LogPort+1+i, leaving LogPort itself free for the
// CBOR-coded log channel.
const LogPort = 9000

// Server bridges a Mux's logical ports to per-port TCP listeners, the
// way uclog.py's LogServer does: one client at a time per port, bytes
// copied verbatim between the TCP connection and the mux frame stream.
type Server struct {
	mux  *Mux
	host string
	base int

	mu    sync.Mutex
	conns map[byte]net.Conn
}

// NewServer constructs a Server listening on host starting at base
// (LogPort by default) and bridging to mux.
func NewServer(mux *Mux, host string, base int) *Server {
	return &Server{mux: mux, host: host, base: base, conns: map[byte]net.Conn{}}
}

// Serve listens on one TCP port per logical stream (0..LogPortMax-1),
// bridging each accepted connection to the corresponding mux port until
// ctx is canceled. The log channel port (base itself) is not opened
// here.
func (s *Server) Serve(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make(chan error, LogPortMax+1)

	for i := byte(0); i < LogPortMax; i++ {
		port := i
		addr := fmt.Sprintf("%s:%d", s.host, s.base+1+int(port))
		ln, err := ListenTCP(addr)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.serveLogicalPort(ctx, ln, port)
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil && ctx.Err() == nil {
			return err
		}
	}
	return ctx.Err()
}

func (s *Server) serveLogicalPort(ctx context.Context, ln net.Listener, port byte) error {
	defer ln.Close()
	for {
		conn, err := AcceptOne(ctx, ln)
		if err != nil {
			return err
		}
		slog.Debug("accepted connection", "port", port, "remote", conn.RemoteAddr())

		s.mu.Lock()
		s.conns[port] = conn
		s.mu.Unlock()

		s.mux.HandlePort(port, func(payload []byte) {
			if _, err := conn.Write(payload); err != nil {
				slog.Debug("write to client failed", "port", port, "error", err)
			}
		})

		s.pump(conn, port)

		s.mu.Lock()
		delete(s.conns, port)
		s.mu.Unlock()
		s.mux.HandlePort(port, nil)
		conn.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (s *Server) pump(conn net.Conn, port byte) {
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if sendErr := s.mux.Send(port, buf[:n]); sendErr != nil {
				slog.Debug("send to wire failed", "port", port, "error", sendErr)
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				slog.Debug("read from client failed", "port", port, "error", err)
			}
			return
		}
	}
}

// Dial bridges a freshly accepted client connection for one logical
// port without going through Serve.
func Dial(ctx context.Context, mux *Mux, port byte, conn net.Conn) error {
	if port >= LogPortMax {
		return sblerr.New(sblerr.InvalidInput, "port out of range")
	}
	mux.HandlePort(port, func(payload []byte) {
		if _, err := conn.Write(payload); err != nil {
			slog.Debug("write to client failed", "port", port, "error", err)
		}
	})
	defer mux.HandlePort(port, nil)

	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if sendErr := mux.Send(port, buf[:n]); sendErr != nil {
				return sendErr
			}
		}
		if err != nil {
			if err == io.EOF || ctx.Err() != nil {
				return nil
			}
			return sblerr.Wrap(sblerr.TransportError, "reading from client", err)
		}
	}
}
