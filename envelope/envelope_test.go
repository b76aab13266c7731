// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package envelope_test

import (
	"testing"

	"github.com/unitcircleinc/sbl/envelope"
	"github.com/unitcircleinc/sbl/gf2"
	"github.com/unitcircleinc/sbl/sss"
)

func field() *gf2.Field {
	return gf2.New(256, 10, 5, 2, 0)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f := field()
	share := sss.Share{X: f.ElemUint64(3), Y: f.ElemUint64(0xdeadbeef)}

	text, err := envelope.EncodeSplit(share, "correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("EncodeSplit: %v", err)
	}

	got, err := envelope.DecodeSplit(text, f)
	if err != nil {
		t.Fatalf("DecodeSplit: %v", err)
	}
	if got.X.BigInt().Cmp(share.X.BigInt()) != 0 || got.Y.BigInt().Cmp(share.Y.BigInt()) != 0 {
		t.Errorf("DecodeSplit round trip = %+v, want %+v", got, share)
	}
}

func TestDecodeWrongPassphraseFails(t *testing.T) {
	f := field()
	share := sss.Share{X: f.ElemUint64(1), Y: f.ElemUint64(42)}
	text, err := envelope.EncodeSplit(share, "right-passphrase")
	if err != nil {
		t.Fatalf("EncodeSplit: %v", err)
	}

	tampered := text[:len(text)-len("right-passphrase")] + "wrong-passphrase"
	if _, err := envelope.DecodeSplit(tampered, f); err == nil {
		t.Error("expected decode failure with wrong passphrase")
	}
}

func TestGeneratePassphraseHasEightWords(t *testing.T) {
	pp, err := envelope.GeneratePassphrase()
	if err != nil {
		t.Fatalf("GeneratePassphrase: %v", err)
	}
	words := 1
	for _, c := range pp {
		if c == '-' {
			words++
		}
	}
	if words != 8 {
		t.Errorf("GeneratePassphrase() = %q has %d words, want 8", pp, words)
	}
}
