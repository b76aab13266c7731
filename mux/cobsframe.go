// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package mux

import (
	"bufio"
	"io"
	"log/slog"

	"github.com/unitcircleinc/sbl/cobs"
)

// maxFrameBuf bounds how much undelimited input a FrameReader will
// buffer before giving up on ever seeing a terminating zero, matching
// the teacher's own 1500+20 byte backstop against a runaway peer.
const maxFrameBuf = 1500 + 20

// FrameReader reads zero-delimited COBS frames from an underlying
// stream, decoding each with cobs.Decode.
type FrameReader struct {
	r   *bufio.Reader
	buf []byte
}

// NewFrameReader wraps r for zero-delimited COBS frame reading.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: bufio.NewReader(r)}
}

// ReadFrame blocks until one complete frame (possibly empty) has been
// read and decoded, or an error occurs. Empty frames (back-to-back
// zero delimiters, or idle-pulse bytes) are skipped transparently.
// Frames that fail to decode (corrupt or truncated on the wire) are
// logged and discarded rather than returned or treated as fatal.
func (f *FrameReader) ReadFrame() ([]byte, error) {
	for {
		for {
			idx := indexZero(f.buf)
			if idx < 0 {
				break
			}
			raw := f.buf[:idx]
			f.buf = f.buf[idx+1:]
			if len(raw) == 0 {
				continue
			}
			decoded, ok := cobs.Decode(raw)
			if !ok {
				slog.Warn("discarding corrupt cobs frame", "len", len(raw))
				continue
			}
			return decoded, nil
		}

		b, err := f.r.ReadByte()
		if err != nil {
			return nil, err
		}
		f.buf = append(f.buf, b)
		if len(f.buf) > maxFrameBuf {
			f.buf = f.buf[len(f.buf)-maxFrameBuf:]
		}
	}
}

func indexZero(b []byte) int {
	for i, v := range b {
		if v == 0 {
			return i
		}
	}
	return -1
}

// FrameWriter COBS-encodes and zero-delimits frames onto an underlying
// stream.
type FrameWriter struct {
	w io.Writer
}

// NewFrameWriter wraps w for zero-delimited COBS frame writing.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// WriteFrame encodes and sends one frame, preceded and followed by a
// zero delimiter (the leading zero lets a receiver mid-stream resync
// immediately).
func (f *FrameWriter) WriteFrame(payload []byte) error {
	encoded := cobs.Encode(payload)
	buf := make([]byte, 0, len(encoded)+2)
	buf = append(buf, 0)
	buf = append(buf, encoded...)
	buf = append(buf, 0)
	_, err := f.w.Write(buf)
	return err
}

// WritePulse sends a lone zero byte, used to keep a serial link's
// framing in sync during idle periods.
func (f *FrameWriter) WritePulse() error {
	_, err := f.w.Write([]byte{0})
	return err
}
