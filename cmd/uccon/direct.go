// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"io"

	"github.com/unitcircleinc/sbl/mux"
)

// directStream adapts a Mux's logical port, running directly over an
// opened serial device with no intervening uclog server, to an
// io.ReadWriteCloser so it can be driven the same way as a TCP stream
// connection.
type directStream struct {
	m      *mux.Mux
	port   byte
	cancel context.CancelFunc
	data   chan []byte
	pend   []byte
	closer io.Closer
}

func newDirectStream(ctx context.Context, wire io.ReadWriteCloser) *directStream {
	ctx, cancel := context.WithCancel(ctx)
	m := mux.New(wire)
	s := &directStream{m: m, port: consoleStream, cancel: cancel, data: make(chan []byte, 64), closer: wire}
	m.HandlePort(consoleStream, func(payload []byte) {
		buf := append([]byte(nil), payload...)
		select {
		case s.data <- buf:
		case <-ctx.Done():
		}
	})
	go m.Run(ctx)
	return s
}

func (s *directStream) Read(p []byte) (int, error) {
	for len(s.pend) == 0 {
		buf, ok := <-s.data
		if !ok {
			return 0, io.EOF
		}
		s.pend = buf
	}
	n := copy(p, s.pend)
	s.pend = s.pend[n:]
	return n, nil
}

func (s *directStream) Write(p []byte) (int, error) {
	if err := s.m.Send(s.port, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *directStream) Close() error {
	s.cancel()
	return s.closer.Close()
}
