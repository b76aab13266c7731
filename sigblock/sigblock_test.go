// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package sigblock_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/unitcircleinc/sbl/sigblock"
)

func mustKey(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pk, sk, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return pk, sk
}

func TestExtractWhat(t *testing.T) {
	code := append([]byte("garbage@(#)widget 1.0 MFI\x00trailing"))
	what, err := sigblock.ExtractWhat(code)
	if err != nil {
		t.Fatalf("ExtractWhat: %v", err)
	}
	if want := "widget 1.0 MFI\x00"; what != want {
		t.Errorf("ExtractWhat = %q, want %q", what, want)
	}
}

func TestExtractWhatMissingMarker(t *testing.T) {
	if _, err := sigblock.ExtractWhat([]byte("no marker here\x00")); err == nil {
		t.Error("expected error for missing marker")
	}
}

func TestCertUnitRoundTrip(t *testing.T) {
	rootPK, rootSK := mustKey(t)
	childPK, _ := mustKey(t)

	unit := sigblock.BuildCertUnit(rootSK, childPK, 100, nil)
	if len(unit) != sigblock.CertSize {
		t.Fatalf("len(unit) = %d, want %d", len(unit), sigblock.CertSize)
	}

	gotPK, gotDate, err := sigblock.VerifyCertUnit(unit, rootPK, 0)
	if err != nil {
		t.Fatalf("VerifyCertUnit: %v", err)
	}
	if gotDate != 100 {
		t.Errorf("date = %d, want 100", gotDate)
	}
	if !gotPK.Equal(childPK) {
		t.Error("recovered pk does not match child pk")
	}
}

func TestCertUnitRejectsEarlierDate(t *testing.T) {
	rootPK, rootSK := mustKey(t)
	childPK, _ := mustKey(t)
	unit := sigblock.BuildCertUnit(rootSK, childPK, 5, nil)
	if _, _, err := sigblock.VerifyCertUnit(unit, rootPK, 10); err == nil {
		t.Error("expected error for date before minDate")
	}
}

func TestNormalizeChainDuplicatesSingleCert(t *testing.T) {
	rootPK, rootSK := mustKey(t)
	leafPK, _ := mustKey(t)
	unit := sigblock.BuildCertUnit(rootSK, leafPK, 1, nil)

	chain, err := sigblock.NormalizeChain(unit)
	if err != nil {
		t.Fatalf("NormalizeChain: %v", err)
	}
	if len(chain) != sigblock.ChainSize {
		t.Fatalf("len(chain) = %d, want %d", len(chain), sigblock.ChainSize)
	}
	first, second := chain[:sigblock.CertSize], chain[sigblock.CertSize:]
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("duplicated chain halves differ at byte %d", i)
		}
	}
	_ = rootPK
}

func buildSignedImage(t *testing.T) (signed []byte, rootPK ed25519.PublicKey) {
	t.Helper()
	rootPK, rootSK := mustKey(t)
	l1PK, l1SK := mustKey(t)
	l2PK, l2SK := mustKey(t)

	l1Unit := sigblock.BuildCertUnit(rootSK, l1PK, 10, nil)
	l2Cert := sigblock.BuildCertUnit(l1SK, l2PK, 20, l1Unit)

	chain, err := sigblock.NormalizeChain(l2Cert)
	if err != nil {
		t.Fatalf("NormalizeChain: %v", err)
	}

	code := []byte("int main(){}\n@(#)widget 1.0 MFI\x00\n")
	block, err := sigblock.BuildSignatureBlock(l2SK, code, chain, 30)
	if err != nil {
		t.Fatalf("BuildSignatureBlock: %v", err)
	}
	if len(block) != sigblock.SigBlockSize {
		t.Fatalf("len(block) = %d, want %d", len(block), sigblock.SigBlockSize)
	}
	return append(block, code...), rootPK
}

func TestBuildAndVerifySignatureBlock(t *testing.T) {
	signed, rootPK := buildSignedImage(t)

	img, err := sigblock.VerifySignatureBlock(signed, rootPK)
	if err != nil {
		t.Fatalf("VerifySignatureBlock: %v", err)
	}
	if img.BuildID != "widget 1.0 MFI" {
		t.Errorf("BuildID = %q, want %q", img.BuildID, "widget 1.0 MFI")
	}
	if img.CodeType != sigblock.CodeTypeMFI {
		t.Errorf("CodeType = %x, want %x", img.CodeType, sigblock.CodeTypeMFI)
	}
}

func TestVerifySignatureBlockRejectsWrongRoot(t *testing.T) {
	signed, _ := buildSignedImage(t)
	otherRootPK, _ := mustKey(t)

	if _, err := sigblock.VerifySignatureBlock(signed, otherRootPK); err == nil {
		t.Error("expected verification failure against wrong root key")
	}
}

func TestVerifySignatureBlockRejectsTamperedCode(t *testing.T) {
	signed, rootPK := buildSignedImage(t)
	signed[len(signed)-1] ^= 0xff

	if _, err := sigblock.VerifySignatureBlock(signed, rootPK); err == nil {
		t.Error("expected verification failure for tampered code")
	}
}
