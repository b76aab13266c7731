// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

// Package sigblock builds and verifies the fixed-size, non-X.509
// certificate chain and 512-byte signature block that secures a
// firmware image. Every size in this package is a hard constant: the
// wire format has no length prefixes, only fixed offsets, matching a
// bootloader that can't afford a general ASN.1 parser.
package sigblock

import (
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/binary"

	"github.com/unitcircleinc/sbl/sblerr"
)

// Fixed sizes that make up the wire format. These must match the
// bootloader's own struct layout (src-uc/signature.h in the firmware
// tree) byte for byte.
const (
	SigSize      = 64  // ed25519 signature
	CertSize     = 104 // sig(64) + date(8) + pk(32)
	ChainSize    = CertSize * 2
	SigBlockSize = 512
	MaxWhatSize  = 163
	HashSize     = 64 // sha512
	PKSize       = 32
	SKSize       = 32
	sigdataSize  = SigBlockSize - SigSize // 448
)

// Code type tags, matched against the last 5 bytes of the "what"
// string (a leading space, 3 letters, and the NUL terminator).
const (
	CodeTypeUnknown byte = 0x00
	CodeTypeMFI     byte = 0x01
	CodeTypeAFI     byte = 0x02
)

var codeTypeNames = map[byte]string{
	CodeTypeUnknown: "unknown/efi",
	CodeTypeMFI:     "mfi",
	CodeTypeAFI:     "afi",
}

var codeTypeSuffixes = map[string]byte{
	" EFI\x00": CodeTypeUnknown,
	" MFI\x00": CodeTypeMFI,
	" AFI\x00": CodeTypeAFI,
}

// CodeTypeName renders a code type byte for display.
func CodeTypeName(t byte) (string, bool) {
	n, ok := codeTypeNames[t]
	return n, ok
}

// DecodeWhat validates that data is printable ASCII terminated by a
// single trailing NUL byte, as required of any "what" string embedded
// in a firmware image or signature block.
func DecodeWhat(data []byte) (string, error) {
	if len(data) == 0 || data[len(data)-1] != 0 {
		return "", sblerr.New(sblerr.InvalidInput, "missing null terminator in what string")
	}
	for _, b := range data[:len(data)-1] {
		if b < 0x20 || b > 0x7e {
			return "", sblerr.New(sblerr.InvalidInput, "bad character in what string")
		}
	}
	return string(data), nil
}

// marker precedes every embedded "what" string, SCCS-style.
const marker = "@(#)"

// ExtractWhat finds the first "@(#)" marker in data and decodes the
// NUL-terminated "what" string that follows it.
func ExtractWhat(data []byte) (string, error) {
	idx := indexOf(data, []byte(marker))
	if idx < 0 {
		return "", sblerr.New(sblerr.InvalidInput, "missing what string marker")
	}
	rest := data[idx+len(marker):]
	nul := indexOf(rest, []byte{0})
	if nul < 0 {
		return "", sblerr.New(sblerr.InvalidInput, "missing what string terminator")
	}
	return DecodeWhat(rest[:nul+1])
}

func indexOf(haystack, needle []byte) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func codeTypeFromWhat(what string) (byte, error) {
	if len(what) < 5 {
		return 0, sblerr.New(sblerr.InvalidInput, "what string too short for code type")
	}
	suffix := what[len(what)-5:]
	ct, ok := codeTypeSuffixes[suffix]
	if !ok {
		return 0, sblerr.New(sblerr.InvalidInput, "invalid code type suffix in what string")
	}
	return ct, nil
}

// BuildCertUnit signs date ∥ subjectPK (∥ chain if non-nil) with
// signingKey, producing one CertSize (or larger, if chain is
// embedded) atomic certificate unit: sig(64) ∥ date(8) ∥ pk(32) ∥
// chain.
func BuildCertUnit(signingKey ed25519.PrivateKey, subjectPK ed25519.PublicKey, date uint64, chain []byte) []byte {
	payload := make([]byte, 0, 8+PKSize+len(chain))
	payload = binary.LittleEndian.AppendUint64(payload, date)
	payload = append(payload, subjectPK...)
	payload = append(payload, chain...)
	sig := ed25519.Sign(signingKey, payload)
	return append(sig, payload...)
}

// VerifyCertUnit verifies one atomic certificate unit against
// parentPK, enforces that its embedded date is no earlier than
// minDate, and returns the certified public key and its date.
func VerifyCertUnit(unit []byte, parentPK ed25519.PublicKey, minDate uint64) (childPK ed25519.PublicKey, date uint64, err error) {
	if len(unit) < SigSize+8+PKSize {
		return nil, 0, sblerr.New(sblerr.InvalidInput, "cert unit too short")
	}
	sig, signed := unit[:SigSize], unit[SigSize:]
	if !ed25519.Verify(parentPK, signed, sig) {
		return nil, 0, sblerr.New(sblerr.VerificationFailure, "unable to validate cert signature")
	}
	date = binary.LittleEndian.Uint64(signed[:8])
	if date < minDate {
		return nil, 0, sblerr.New(sblerr.VerificationFailure, "date in cert earlier than signer's date")
	}
	pk := make([]byte, PKSize)
	copy(pk, signed[8:8+PKSize])
	return ed25519.PublicKey(pk), date, nil
}

// NormalizeChain pads a single CertSize parent certificate to
// ChainSize by duplicating it, so that the fixed two-level chain slot
// in a signature block is always fully populated even when there is
// no real intermediate certificate. A chain that is already ChainSize
// is returned unchanged.
func NormalizeChain(chain []byte) ([]byte, error) {
	switch len(chain) {
	case ChainSize:
		return chain, nil
	case CertSize:
		return append(append([]byte(nil), chain...), chain...), nil
	default:
		return nil, sblerr.New(sblerr.InvalidInput, "certificate chain must be CertSize or ChainSize bytes")
	}
}

// Image is the result of verifying a signed firmware image.
type Image struct {
	BuildID  string
	CodeType byte
	Length   uint32
	Hash     [HashSize]byte
	Date     uint64
}

// BuildSignatureBlock produces the 512-byte signature block to prepend
// to code. chain must be exactly ChainSize bytes (see NormalizeChain).
func BuildSignatureBlock(signingKey ed25519.PrivateKey, code []byte, chain []byte, date uint64) ([]byte, error) {
	if len(chain) != ChainSize {
		return nil, sblerr.New(sblerr.InvalidInput, "chain must be ChainSize bytes")
	}
	what, err := ExtractWhat(code)
	if err != nil {
		return nil, err
	}
	if len(what) > MaxWhatSize {
		return nil, sblerr.New(sblerr.InvalidInput, "what string too long")
	}
	codeType, err := codeTypeFromWhat(what)
	if err != nil {
		return nil, err
	}
	hash := sha512.Sum512(code)

	sigdata := make([]byte, 0, sigdataSize)
	sigdata = binary.LittleEndian.AppendUint32(sigdata, uint32(len(code)))
	sigdata = binary.LittleEndian.AppendUint64(sigdata, date)
	sigdata = append(sigdata, hash[:]...)
	sigdata = append(sigdata, codeType)
	whatField := make([]byte, MaxWhatSize)
	for i := range whatField {
		whatField[i] = 0xff
	}
	copy(whatField, what)
	sigdata = append(sigdata, whatField...)
	sigdata = append(sigdata, chain...)

	if len(sigdata) != sigdataSize {
		return nil, sblerr.New(sblerr.InvalidInput, "internal error: signature block size mismatch")
	}

	sig := ed25519.Sign(signingKey, sigdata)
	if !ed25519.Verify(signingKey.Public().(ed25519.PublicKey), sigdata, sig) {
		return nil, sblerr.New(sblerr.VerificationFailure, "unable to validate code signature")
	}
	return append(sig, sigdata...), nil
}

// VerifySignatureBlock verifies a 512-byte block (as produced by
// BuildSignatureBlock) followed by the code it covers, walking the
// embedded two-level certificate chain up to rootPK.
func VerifySignatureBlock(signedImage []byte, rootPK ed25519.PublicKey) (*Image, error) {
	if len(signedImage) < SigBlockSize {
		return nil, sblerr.New(sblerr.InvalidInput, "signed image shorter than signature block")
	}
	block, code := signedImage[:SigBlockSize], signedImage[SigBlockSize:]

	sig, sigdata := block[:SigSize], block[SigSize:]
	if len(sigdata) != sigdataSize {
		return nil, sblerr.New(sblerr.InvalidInput, "malformed signature block")
	}

	codeN := binary.LittleEndian.Uint32(sigdata[0:4])
	date := binary.LittleEndian.Uint64(sigdata[4:12])
	hash := sigdata[12 : 12+HashSize]
	codeType := sigdata[12+HashSize]
	whatField := sigdata[12+HashSize+1 : 12+HashSize+1+MaxWhatSize]
	chain := sigdata[12+HashSize+1+MaxWhatSize:]
	if len(chain) != ChainSize {
		return nil, sblerr.New(sblerr.InvalidInput, "malformed certificate chain")
	}

	cert2, cert1 := chain, chain[CertSize:]

	pk, pkDate := rootPK, uint64(0)
	pk, pkDate, err := VerifyCertUnit(cert1, pk, pkDate)
	if err != nil {
		return nil, err
	}
	pk, pkDate, err = VerifyCertUnit(cert2, pk, pkDate)
	if err != nil {
		return nil, err
	}

	if !ed25519.Verify(pk, sigdata, sig) {
		return nil, sblerr.New(sblerr.VerificationFailure, "unable to validate code signature")
	}

	nulIdx := indexOf(whatField, []byte{0})
	if nulIdx < 0 {
		return nil, sblerr.New(sblerr.InvalidInput, "invalid what string in signature block")
	}
	sigWhat, err := DecodeWhat(whatField[:nulIdx+1])
	if err != nil {
		return nil, err
	}

	codeHash := sha512.Sum512(code)
	if codeN != uint32(len(code)) {
		return nil, sblerr.New(sblerr.VerificationFailure, "code length mismatch")
	}
	if string(codeHash[:]) != string(hash) {
		return nil, sblerr.New(sblerr.VerificationFailure, "code hash mismatch")
	}
	if pkDate > date {
		return nil, sblerr.New(sblerr.VerificationFailure, "cert dates later than signature date")
	}
	if _, ok := codeTypeNames[codeType]; !ok {
		return nil, sblerr.New(sblerr.InvalidInput, "invalid code type")
	}

	codeWhat, err := ExtractWhat(code)
	if err != nil {
		return nil, err
	}
	if sigWhat != codeWhat {
		return nil, sblerr.New(sblerr.VerificationFailure, "signature what and code what don't match")
	}

	var img Image
	img.BuildID = sigWhat[:len(sigWhat)-1] // drop trailing NUL
	img.CodeType = codeType
	img.Length = codeN
	copy(img.Hash[:], codeHash[:])
	img.Date = date
	return &img, nil
}
