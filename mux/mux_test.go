// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package mux_test

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/unitcircleinc/sbl/mux"
)

func TestEncodeDecodePortFrame(t *testing.T) {
	raw := mux.EncodePortFrame(5, []byte("hello"))
	frame, err := mux.DecodeFrame(raw)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if frame.Kind != mux.KindPort {
		t.Fatalf("Kind = %v, want KindPort", frame.Kind)
	}
	if frame.Port != 5 {
		t.Errorf("Port = %d, want 5", frame.Port)
	}
	if string(frame.Payload) != "hello" {
		t.Errorf("Payload = %q, want %q", frame.Payload, "hello")
	}
}

func TestDecodeFrameTrace(t *testing.T) {
	raw := []byte{0x01, 0x00, 0x00, 0x00, 'x', 'y'}
	frame, err := mux.DecodeFrame(raw)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if frame.Kind != mux.KindTrace {
		t.Fatalf("Kind = %v, want KindTrace", frame.Kind)
	}
	if frame.Address != 1 {
		t.Errorf("Address = %d, want 1", frame.Address)
	}
}

func TestFrameReaderWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := mux.NewFrameWriter(&buf)
	if err := w.WriteFrame([]byte{0x00, 0x01, 0x02}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if err := w.WriteFrame([]byte("second")); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	r := mux.NewFrameReader(&buf)
	got1, err := r.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(got1, []byte{0x00, 0x01, 0x02}) {
		t.Errorf("first frame = %x, want 000102", got1)
	}
	got2, err := r.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if string(got2) != "second" {
		t.Errorf("second frame = %q, want %q", got2, "second")
	}
}

// pipeTransport adapts a net.Conn (half of a net.Pipe) to mux.Transport.
type pipeTransport struct {
	net.Conn
}

func TestMuxDispatchesToHandler(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	m := mux.New(pipeTransport{a})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan []byte, 1)
	m.HandlePort(3, func(payload []byte) {
		received <- append([]byte(nil), payload...)
	})

	go m.Run(ctx)

	w := mux.NewFrameWriter(b)
	if err := w.WriteFrame(mux.EncodePortFrame(3, []byte("ping"))); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	select {
	case got := <-received:
		if string(got) != "ping" {
			t.Errorf("got %q, want %q", got, "ping")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatched frame")
	}
}

func TestMuxSendEncodesPortFrame(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	m := mux.New(pipeTransport{a})

	go func() {
		m.Send(2, []byte("pong"))
	}()

	r := mux.NewFrameReader(b)
	raw, err := r.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	frame, err := mux.DecodeFrame(raw)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if frame.Port != 2 || string(frame.Payload) != "pong" {
		t.Errorf("frame = %+v, want port 2 payload pong", frame)
	}
}
