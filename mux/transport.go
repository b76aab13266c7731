// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package mux

import (
	"context"
	"net"

	"github.com/unitcircleinc/sbl/sblerr"
)

// Transport is anything the mux can read COBS frames from and write
// them to: an open serial device node, or a TCP connection. Closing it
// unblocks a blocked Run.
type Transport interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// DialTCP connects to a logical port's TCP endpoint, honoring ctx
// cancellation during the connection attempt.
func DialTCP(ctx context.Context, addr string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, sblerr.Wrap(sblerr.TransportError, "connecting to "+addr, err)
	}
	return conn, nil
}

// ListenTCP opens a listener for one logical port's TCP endpoint.
func ListenTCP(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, sblerr.Wrap(sblerr.TransportError, "listening on "+addr, err)
	}
	return ln, nil
}

// AcceptOne accepts a single connection from ln, honoring ctx
// cancellation. Each logical port supports exactly one client at a
// time, matching the original tool's one-listener-per-port design.
func AcceptOne(ctx context.Context, ln net.Listener) (net.Conn, error) {
	type result struct {
		conn net.Conn
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		conn, err := ln.Accept()
		ch <- result{conn, err}
	}()
	select {
	case <-ctx.Done():
		ln.Close()
		<-ch
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, sblerr.Wrap(sblerr.TransportError, "accepting connection", r.err)
		}
		return r.conn, nil
	}
}
