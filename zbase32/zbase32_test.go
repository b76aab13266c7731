// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package zbase32_test

import (
	"bytes"
	"testing"

	"github.com/unitcircleinc/sbl/zbase32"
)

func TestEncodeVectors(t *testing.T) {
	for _, tc := range []struct {
		in   []byte
		want string
	}{
		{[]byte{0x00}, "yy"},
		{[]byte{0x00, 0x00}, "yyyy"},
		{[]byte{}, ""},
	} {
		got := zbase32.Encode(tc.in)
		if got != tc.want {
			t.Errorf("Encode(%x) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, in := range [][]byte{
		{},
		{0x00},
		{0xff},
		{0x01, 0x02, 0x03, 0x04, 0x05},
		[]byte("the quick brown fox jumps over the lazy dog"),
	} {
		enc := zbase32.Encode(in)
		dec, err := zbase32.Decode(enc)
		if err != nil {
			t.Fatalf("Decode(%q): %v", enc, err)
		}
		if !bytes.Equal(dec, in) {
			t.Errorf("round trip %x -> %q -> %x", in, enc, dec)
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := zbase32.Decode("0"); err == nil {
		t.Error("expected error decoding invalid character")
	}
}
