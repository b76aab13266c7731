// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package ihex_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/unitcircleinc/sbl/ihex"
)

func TestLoadExampleRecord(t *testing.T) {
	const rec = ":10010000214601360121470136007EFE09D2190140\n:00000001FF\n"
	img, err := ihex.Loads(rec)
	if err != nil {
		t.Fatalf("Loads: %v", err)
	}
	if len(img.Segments) != 1 {
		t.Fatalf("len(Segments) = %d, want 1", len(img.Segments))
	}
	if img.Segments[0].Addr != 0x0100 {
		t.Errorf("Addr = %#x, want 0x100", img.Segments[0].Addr)
	}
	if len(img.Segments[0].Data) != 16 {
		t.Errorf("len(Data) = %d, want 16", len(img.Segments[0].Data))
	}
}

func TestLoadBadChecksum(t *testing.T) {
	const rec = ":10010000214601360121470136007EFE09D2190141\n"
	if _, err := ihex.Loads(rec); err == nil {
		t.Error("expected checksum error")
	}
}

func TestDumpUsesCRLF(t *testing.T) {
	img := &ihex.Image{Segments: []ihex.Segment{{Addr: 0x100, Data: []byte("hello world!!!!!")}}}
	s, err := ihex.Dumps(img)
	if err != nil {
		t.Fatalf("Dumps: %v", err)
	}
	if !strings.Contains(s, "\r\n") {
		t.Error("expected CRLF line endings")
	}
	if strings.Contains(strings.ReplaceAll(s, "\r\n", ""), "\n") {
		t.Error("found a bare LF")
	}
}

func TestRoundTrip(t *testing.T) {
	img := &ihex.Image{
		Start: 0x1000,
		Segments: []ihex.Segment{
			{Addr: 0x100, Data: bytes.Repeat([]byte{0xAB}, 40)},
			{Addr: 0x10000, Data: []byte{1, 2, 3, 4}},
		},
	}
	s, err := ihex.Dumps(img)
	if err != nil {
		t.Fatalf("Dumps: %v", err)
	}
	got, err := ihex.Loads(s)
	if err != nil {
		t.Fatalf("Loads: %v", err)
	}
	if got.Start != img.Start {
		t.Errorf("Start = %#x, want %#x", got.Start, img.Start)
	}
	if len(got.Segments) != len(img.Segments) {
		t.Fatalf("len(Segments) = %d, want %d", len(got.Segments), len(img.Segments))
	}
	for i, seg := range img.Segments {
		if got.Segments[i].Addr != seg.Addr || !bytes.Equal(got.Segments[i].Data, seg.Data) {
			t.Errorf("segment %d = %+v, want %+v", i, got.Segments[i], seg)
		}
	}
}
