// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package sigblock

import (
	"crypto/ed25519"

	"github.com/unitcircleinc/sbl/gf2"
	"github.com/unitcircleinc/sbl/sblerr"
	"github.com/unitcircleinc/sbl/sss"
)

// Field is the GF(2^256) binary extension field every root/intermediate
// signing key's 32-byte seed is split and joined over. The degree-256
// reduction polynomial's nonzero exponents (256, 10, 5, 2, 0) are fixed
// so that splits produced by one build of this tool always join
// correctly under another.
var Field = gf2.New(256, 10, 5, 2, 0)

func seedToElem(seed []byte) gf2.Elem {
	le := make([]byte, len(seed))
	for i, b := range seed {
		le[len(seed)-1-i] = b
	}
	return Field.ElemBytes(le)
}

func elemToSeed(e gf2.Elem) []byte {
	be := e.Bytes()
	seed := make([]byte, ed25519.SeedSize)
	for i := 0; i < len(seed) && i < len(be); i++ {
		seed[i] = be[len(be)-1-i] // little-endian, undoing seedToElem
	}
	return seed
}

// SplitSigningKey splits an ed25519 private key's seed into k-of-n
// Shamir shares over Field.
func SplitSigningKey(sk ed25519.PrivateKey, k, n int) ([]sss.Share, error) {
	seed := sk.Seed()
	return sss.Split(seedToElem(seed), k, n)
}

// JoinSigningKey reconstructs an ed25519 private key from a quorum of
// shares produced by SplitSigningKey.
func JoinSigningKey(shares []sss.Share) (ed25519.PrivateKey, error) {
	if len(shares) == 0 {
		return nil, sblerr.New(sblerr.InvalidInput, "no key shares provided")
	}
	seed := elemToSeed(sss.Join(shares))
	return ed25519.NewKeyFromSeed(seed), nil
}
