// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package sigblock_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/unitcircleinc/sbl/sigblock"
)

func TestSplitJoinSigningKey(t *testing.T) {
	_, sk, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	shares, err := sigblock.SplitSigningKey(sk, 3, 5)
	if err != nil {
		t.Fatalf("SplitSigningKey: %v", err)
	}
	if len(shares) != 5 {
		t.Fatalf("len(shares) = %d, want 5", len(shares))
	}

	got, err := sigblock.JoinSigningKey(shares[1:4])
	if err != nil {
		t.Fatalf("JoinSigningKey: %v", err)
	}
	if !got.Equal(sk) {
		t.Error("rejoined key does not match original")
	}
}
