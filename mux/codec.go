// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package mux

import (
	"github.com/fxamacker/cbor/v2"
)

// logCodec is the CBOR encoding used on the log channel. It is built
// once from an explicit cbor.EncOptions rather than mutating a
// package-level default encoder, so concurrent callers (and other
// packages importing fxamacker/cbor) are never surprised by a changed
// global. Times are encoded as Unix timestamps, matching the original
// tool's monkey-patched cbor2.dumps default.
var logCodec = mustCodec()

type codec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func mustCodec() codec {
	enc, err := cbor.EncOptions{
		Time:    cbor.TimeUnix,
		TimeTag: cbor.EncTagRequired,
	}.EncMode()
	if err != nil {
		panic(err)
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(err)
	}
	return codec{enc: enc, dec: dec}
}

// EncodeLog CBOR-encodes a log record for transmission on the log
// channel.
func EncodeLog(v interface{}) ([]byte, error) {
	return logCodec.enc.Marshal(v)
}

// DecodeLog decodes a CBOR log record into v.
func DecodeLog(data []byte, v interface{}) error {
	return logCodec.dec.Unmarshal(data, v)
}
