// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package mux

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/unitcircleinc/sbl/sblerr"
)

// pulseIdle is how long the wire may sit quiet before Run sends a lone
// zero byte to keep the link's framing in sync, mirroring the
// original tool's 500ms send_pulse.
const pulseIdle = 500 * time.Millisecond

// PortHandler receives the payload of every frame addressed to a
// logical port.
type PortHandler func(payload []byte)

// Mux multiplexes LogPortMax logical byte streams, a reserved
// image-hash announcement port, and a trace channel over one
// COBS-framed wire Transport.
//
// Unlike the original tool's thread-per-stream design wired together
// with callback chains, Mux is driven by a single Run goroutine and
// dispatches to caller-registered handlers; callers that need their
// own goroutine per stream (e.g. bridging to a TCP connection) spawn
// it themselves and call Send to push data back onto the wire.
type Mux struct {
	wire Transport
	w    *FrameWriter

	mu       sync.Mutex
	ports    [LogPortMax]PortHandler
	onHash   func([]byte)
	onTrace  func(Frame)
	lastSend time.Time
	sendMu   sync.Mutex
}

// New constructs a Mux over wire. Call Run to begin processing.
func New(wire Transport) *Mux {
	return &Mux{
		wire:     wire,
		w:        NewFrameWriter(wire),
		lastSend: time.Now(),
	}
}

// HandlePort registers h to receive frames addressed to port. port
// must be in [0, LogPortMax).
func (m *Mux) HandlePort(port byte, h PortHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ports[port] = h
}

// OnImageHash registers a callback for the one-shot image-hash
// announcement sent on ImageHashPort at boot.
func (m *Mux) OnImageHash(f func(hash []byte)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onHash = f
}

// OnTrace registers a callback for raw address-tagged trace records.
func (m *Mux) OnTrace(f func(Frame)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTrace = f
}

// Send frames payload for the given logical port (or ImageHashPort)
// and writes it to the wire.
func (m *Mux) Send(port byte, payload []byte) error {
	m.sendMu.Lock()
	defer m.sendMu.Unlock()
	m.lastSend = time.Now()
	return m.w.WriteFrame(EncodePortFrame(port, payload))
}

// Run reads frames from the wire and dispatches them to registered
// handlers until ctx is canceled or the wire returns an error. It
// also drives the idle pulse. Canceling ctx closes the wire to unblock
// a pending read.
func (m *Mux) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.wire.Close()
		case <-done:
		}
	}()

	go m.pulseLoop(ctx)

	r := NewFrameReader(m.wire)
	for {
		raw, err := r.ReadFrame()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return sblerr.Wrap(sblerr.TransportError, "reading from wire", err)
		}
		if len(raw) == 0 {
			continue
		}
		frame, err := DecodeFrame(raw)
		if err != nil {
			slog.Warn("dropping malformed mux frame", "error", err)
			continue
		}
		m.dispatch(frame)
	}
}

func (m *Mux) dispatch(frame Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch frame.Kind {
	case KindPort:
		switch {
		case int(frame.Port) < LogPortMax && m.ports[frame.Port] != nil:
			m.ports[frame.Port](frame.Payload)
		case frame.Port == ImageHashPort && m.onHash != nil:
			m.onHash(frame.Payload)
		}
	case KindTrace:
		if m.onTrace != nil {
			m.onTrace(frame)
		}
	}
}

func (m *Mux) pulseLoop(ctx context.Context) {
	t := time.NewTicker(pulseIdle / 5)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			var err error
			m.sendMu.Lock()
			if time.Since(m.lastSend) >= pulseIdle {
				m.lastSend = time.Now()
				err = m.w.WritePulse()
			}
			m.sendMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
