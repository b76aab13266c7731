// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package cobs_test

import (
	"bytes"
	"testing"

	"github.com/unitcircleinc/sbl/cobs"
)

func TestEncodeVectors(t *testing.T) {
	for _, tc := range []struct {
		in   []byte
		want []byte
	}{
		{[]byte{}, []byte{0x01}},
		{[]byte{0x00}, []byte{0x01, 0x01}},
		{[]byte{0x11, 0x22, 0x00, 0x33}, []byte{0x03, 0x11, 0x22, 0x02, 0x33}},
	} {
		got := cobs.Encode(tc.in)
		if !bytes.Equal(got, tc.want) {
			t.Errorf("Encode(%x) = %x, want %x", tc.in, got, tc.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0x11, 0x22, 0x00, 0x33},
		bytes.Repeat([]byte{0x01}, 300),
		bytes.Repeat([]byte{0x00}, 10),
	}
	for _, in := range cases {
		enc := cobs.Encode(in)
		if bytes.IndexByte(enc, 0) != -1 {
			t.Errorf("Encode(%x) contains a zero byte: %x", in, enc)
		}
		dec, ok := cobs.Decode(enc)
		if !ok {
			t.Fatalf("Decode(%x) = not ok, want ok", enc)
		}
		if !bytes.Equal(dec, in) {
			t.Errorf("round trip %x -> %x -> %x", in, enc, dec)
		}
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := [][]byte{
		{0x05},             // code points past end of data
		{0x02, 0x11, 0xff}, // trailing code byte with no body
	}
	for _, in := range cases {
		if _, ok := cobs.Decode(in); ok {
			t.Errorf("Decode(%x): expected not ok", in)
		}
	}
}

func TestDecodeZPERejectsMalformed(t *testing.T) {
	cases := [][]byte{
		{0xe5},
		{0xff, 0x11},
	}
	for _, in := range cases {
		if _, ok := cobs.DecodeZPE(in); ok {
			t.Errorf("DecodeZPE(%x): expected not ok", in)
		}
	}
}

func TestZPERoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0x00, 0x00},
		{0x11, 0x22, 0x00, 0x00, 0x33},
		bytes.Repeat([]byte{0x01}, 300),
		bytes.Repeat([]byte{0x00, 0x00}, 50),
	}
	for _, in := range cases {
		enc := cobs.EncodeZPE(in)
		if bytes.IndexByte(enc, 0) != -1 {
			t.Errorf("EncodeZPE(%x) contains a zero byte: %x", in, enc)
		}
		dec, ok := cobs.DecodeZPE(enc)
		if !ok {
			t.Fatalf("DecodeZPE(%x) = not ok, want ok", enc)
		}
		if !bytes.Equal(dec, in) {
			t.Errorf("zpe round trip %x -> %x -> %x", in, enc, dec)
		}
	}
}
