// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package mux

import (
	"context"
	"fmt"
	"net"
)

// DialStream connects to a Server's logical port over TCP, returning
// the raw connection; bytes written/read are exactly the logical
// stream's payload, with mux/COBS framing handled entirely on the
// server side.
func DialStream(ctx context.Context, host string, base int, port byte) (net.Conn, error) {
	addr := fmt.Sprintf("%s:%d", host, base+1+int(port))
	return DialTCP(ctx, addr)
}

// DialLogChannel connects to a log server's log channel (base port,
// unshifted; opened by cmd/uclog, not by Server), returning the raw connection carrying COBS-framed,
// CBOR-coded log records.
func DialLogChannel(ctx context.Context, host string, base int) (net.Conn, error) {
	addr := fmt.Sprintf("%s:%d", host, base)
	return DialTCP(ctx, addr)
}

// LogChannelReader reads CBOR log records off a COBS-framed log
// channel connection (server or client side).
type LogChannelReader struct {
	frames *FrameReader
}

// NewLogChannelReader wraps conn for reading log records.
func NewLogChannelReader(conn net.Conn) *LogChannelReader {
	return &LogChannelReader{frames: NewFrameReader(conn)}
}

// ReadRecord reads and CBOR-decodes the next log record into v.
func (l *LogChannelReader) ReadRecord(v interface{}) error {
	frame, err := l.frames.ReadFrame()
	if err != nil {
		return err
	}
	return DecodeLog(frame, v)
}

// LogChannelWriter CBOR-encodes and COBS-frames log records onto conn.
type LogChannelWriter struct {
	frames *FrameWriter
}

// NewLogChannelWriter wraps conn for writing log records.
func NewLogChannelWriter(conn net.Conn) *LogChannelWriter {
	return &LogChannelWriter{frames: NewFrameWriter(conn)}
}

// WriteRecord CBOR-encodes v and writes it as one frame.
func (l *LogChannelWriter) WriteRecord(v interface{}) error {
	data, err := EncodeLog(v)
	if err != nil {
		return err
	}
	return l.frames.WriteFrame(data)
}
