// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

// Package envelope wraps a single Shamir share in a passphrase-derived
// AEAD envelope and serializes it as zbase32 text, per the share
// envelope data model: "<x>:<zbase32(salt ∥ ciphertext)>:<passphrase>".
//
// The KDF is scrypt at the libsodium "interactive" work factor
// (N=2^14, r=8, p=1); the AEAD is XChaCha20-Poly1305. Additional
// authenticated data is x_byte ∥ salt ∥ passphrase_utf8, binding the
// envelope to its share index and the exact passphrase text so a
// ciphertext can't be replayed against a different share or passphrase.
package envelope

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/unitcircleinc/sbl/gf2"
	"github.com/unitcircleinc/sbl/internal/wordlist"
	"github.com/unitcircleinc/sbl/sblerr"
	"github.com/unitcircleinc/sbl/sss"
	"github.com/unitcircleinc/sbl/zbase32"
)

const (
	saltSize  = 32 // nacl.pwhash.scrypt.SALTBYTES
	keySize   = chacha20poly1305.KeySize
	scryptN   = 1 << 14
	scryptR   = 8
	scryptP   = 1
	secretLen = 32 // signing keys are 256 bits
)

func deriveKey(passphrase string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, fmt.Errorf("envelope: scrypt: %w", err)
	}
	return key, nil
}

func aad(x byte, salt []byte, passphrase string) []byte {
	out := make([]byte, 0, 1+len(salt)+len(passphrase))
	out = append(out, x)
	out = append(out, salt...)
	out = append(out, passphrase...)
	return out
}

func seal(key, msg, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("envelope: nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, msg, ad), nil
}

func open(key, ct, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	if len(ct) < aead.NonceSize() {
		return nil, sblerr.New(sblerr.InvalidInput, "envelope ciphertext too short")
	}
	nonce, ct := ct[:aead.NonceSize()], ct[aead.NonceSize():]
	msg, err := aead.Open(nil, nonce, ct, ad)
	if err != nil {
		return nil, sblerr.Wrap(sblerr.BadPassphrase, "unable to decrypt share", err)
	}
	return msg, nil
}

// GeneratePassphrase returns a random 8-word Diceware-style passphrase
// (~82 bits of entropy), rejection-sampling each die roll from
// crypto/rand the same way the original tool does.
func GeneratePassphrase() (string, error) {
	words := make([]string, 8)
	for i := range words {
		var digits strings.Builder
		for j := 0; j < 4; j++ {
			d, err := rollDie()
			if err != nil {
				return "", err
			}
			digits.WriteByte(d)
		}
		w, err := wordlist.Word(digits.String())
		if err != nil {
			return "", err
		}
		words[i] = w
	}
	return strings.Join(words, "-"), nil
}

// rollDie returns a byte '1'-'6' from a uniformly random six-sided die,
// rejection-sampling bytes >= 252 (42*6) to avoid modulo bias.
func rollDie() (byte, error) {
	for {
		var b [1]byte
		if _, err := rand.Read(b[:]); err != nil {
			return 0, fmt.Errorf("envelope: roll: %w", err)
		}
		if b[0] < 42*6 {
			return '1' + b[0]%6, nil
		}
	}
}

// EncodeSplit encrypts one Shamir share under passphrase and returns
// its "<x>:<zbase32 text>:<passphrase>" serialization. If passphrase
// is empty, a fresh random passphrase is generated.
func EncodeSplit(share sss.Share, passphrase string) (string, error) {
	if passphrase == "" {
		pp, err := GeneratePassphrase()
		if err != nil {
			return "", err
		}
		passphrase = pp
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("envelope: salt: %w", err)
	}
	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return "", err
	}

	x := share.X.BigInt().Uint64()
	if x == 0 || x > 255 {
		return "", sblerr.New(sblerr.InvalidInput, "share index out of byte range")
	}

	ybytes := share.Y.Bytes()
	msg := make([]byte, secretLen)
	for i := 0; i < len(msg) && i < len(ybytes); i++ {
		msg[i] = ybytes[len(ybytes)-1-i] // little-endian
	}

	ad := aad(byte(x), salt, passphrase)
	ct, err := seal(key, msg, ad)
	if err != nil {
		return "", err
	}

	body := zbase32.Encode(append(append([]byte(nil), salt...), ct...))
	return fmt.Sprintf("%d:%s:%s", x, body, passphrase), nil
}

// DecodeSplit reverses EncodeSplit, reconstructing the share over
// field.
func DecodeSplit(text string, field *gf2.Field) (sss.Share, error) {
	parts := strings.SplitN(text, ":", 3)
	if len(parts) != 3 {
		return sss.Share{}, sblerr.New(sblerr.InvalidInput, "malformed share text")
	}
	xv, err := strconv.Atoi(parts[0])
	if err != nil || xv <= 0 || xv > 255 {
		return sss.Share{}, sblerr.New(sblerr.InvalidInput, "malformed share index")
	}
	passphrase := parts[2]

	saltCT, err := zbase32.Decode(parts[1])
	if err != nil {
		return sss.Share{}, sblerr.Wrap(sblerr.InvalidInput, "malformed share body", err)
	}
	if len(saltCT) < saltSize {
		return sss.Share{}, sblerr.New(sblerr.InvalidInput, "share body too short")
	}
	salt, ct := saltCT[:saltSize], saltCT[saltSize:]

	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return sss.Share{}, err
	}
	ad := aad(byte(xv), salt, passphrase)
	msg, err := open(key, ct, ad)
	if err != nil {
		return sss.Share{}, err
	}

	yb := make([]byte, len(msg))
	for i, b := range msg {
		yb[len(yb)-1-i] = b // undo little-endian
	}

	return sss.Share{
		X: field.ElemUint64(uint64(xv)),
		Y: field.ElemBytes(yb),
	}, nil
}
