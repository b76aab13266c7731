// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

// Package mux multiplexes logical byte streams over a single
// COBS-framed serial (or serial-like) transport, and bridges those
// logical streams to TCP listeners/dialers so a desktop tool can talk
// to an individual stream without knowing about the others sharing the
// wire.
package mux

import (
	"encoding/binary"

	"github.com/unitcircleinc/sbl/sblerr"
)

// LogPortMax is the number of logical port streams multiplexed over
// the wire, numbered 0..LogPortMax-1.
const LogPortMax = 8

// ImageHashPort is the reserved port number carrying a one-shot
// announcement of the running image's SHA-512, sent once at boot.
const ImageHashPort = 63

// Kind distinguishes the two frame shapes that can arrive on the wire:
// a port-tagged frame addressed to one of the logical streams, or a
// trace record prefixed with a raw target address.
type Kind int

const (
	KindPort Kind = iota
	KindTrace
)

// Frame is a decoded mux frame.
type Frame struct {
	Kind    Kind
	Port    byte   // valid when Kind == KindPort
	Address uint32 // valid when Kind == KindTrace
	Payload []byte
}

// EncodePortFrame tags payload for logical port p (0..LogPortMax-1 or
// ImageHashPort), ready to be COBS-framed onto the wire.
func EncodePortFrame(port byte, payload []byte) []byte {
	out := make([]byte, 0, 1+len(payload))
	out = append(out, port<<2)
	out = append(out, payload...)
	return out
}

// DecodeFrame interprets one de-COBS'd frame from the wire. A frame
// whose tag byte's low two bits are zero is a port frame; otherwise,
// if the frame is at least 4 bytes, it is treated as a trace record
// with a little-endian target address in its first 4 bytes.
func DecodeFrame(frame []byte) (Frame, error) {
	if len(frame) == 0 {
		return Frame{}, sblerr.New(sblerr.InvalidInput, "empty mux frame")
	}
	if tag := frame[0]; tag&0x3 == 0 {
		return Frame{Kind: KindPort, Port: tag >> 2, Payload: frame[1:]}, nil
	}
	if len(frame) < 4 {
		return Frame{}, sblerr.New(sblerr.InvalidInput, "short trace frame")
	}
	addr := binary.LittleEndian.Uint32(frame[:4])
	return Frame{Kind: KindTrace, Address: addr, Payload: frame[4:]}, nil
}
