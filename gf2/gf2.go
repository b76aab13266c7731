// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

// Package gf2 implements arithmetic in GF(2^m), a binary extension
// field defined by an irreducible polynomial over GF(2). Field degrees
// up to and including 256 bits (the size this module uses for secret
// sharing) are supported via math/big.
package gf2

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Field is GF(2^m) for the irreducible polynomial whose set bits
// (including the degree-m term) are given to New. Elements are values
// 0..2^m-1 reduced modulo the polynomial.
type Field struct {
	poly []int // exponents present in the polynomial, sorted descending
	p    *big.Int
	n    *big.Int // 2^m
	deg  int      // m, the top exponent
}

// New builds the field defined by the polynomial whose set bits are at
// the given exponents, e.g. New(8, 4, 3, 1, 0) is x^8+x^4+x^3+x+1.
func New(poly ...int) *Field {
	sorted := append([]int(nil), poly...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] > sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	p := new(big.Int)
	deg := 0
	for _, x := range poly {
		p.SetBit(p, x, 1)
		if x > deg {
			deg = x
		}
	}
	n := new(big.Int).Lsh(big.NewInt(1), uint(deg))
	return &Field{
		poly: sorted,
		p:    p,
		n:    n,
		deg:  deg,
	}
}

// Equal reports whether two fields are defined by the same polynomial.
func (f *Field) Equal(o *Field) bool {
	if f == nil || o == nil {
		return f == o
	}
	return f.p.Cmp(o.p) == 0
}

func (f *Field) String() string {
	return fmt.Sprintf("GF2(%v)", f.poly)
}

// Degree returns m, the field's extension degree.
func (f *Field) Degree() int { return f.deg }

// ByteLen returns ceil(m/8), the number of bytes needed to hold any
// element's fixed-width big-endian serialization.
func (f *Field) ByteLen() int {
	return (f.deg + 7) / 8
}

// Elem returns the field element with the given integer representation.
// It panics if v is not a valid member (v >= 2^m and v != the
// polynomial's own value, which long-division intermediates may hit).
func (f *Field) Elem(v *big.Int) Elem {
	if v.Cmp(f.n) >= 0 && v.Cmp(f.p) != 0 {
		panic(fmt.Sprintf("%s not a member of %s", v, f))
	}
	return Elem{v: new(big.Int).Set(v), f: f}
}

// ElemUint64 is a convenience wrapper around Elem for small values.
func (f *Field) ElemUint64(v uint64) Elem {
	return f.Elem(new(big.Int).SetUint64(v))
}

// ElemBytes builds an element from its fixed-width big-endian byte
// serialization, as used by the share envelope format.
func (f *Field) ElemBytes(b []byte) Elem {
	return f.Elem(new(big.Int).SetBytes(b))
}

// Bytes returns e's fixed-width big-endian serialization, zero-padded
// to the field's ByteLen.
func (e Elem) Bytes() []byte {
	raw := e.v.Bytes()
	out := make([]byte, e.f.ByteLen())
	copy(out[len(out)-len(raw):], raw)
	return out
}

// Random returns a uniformly random element of f, rejection-sampled
// from crypto/rand the same way secrets.randbelow does.
func (f *Field) Random() (Elem, error) {
	v, err := randBelow(f.n)
	if err != nil {
		return Elem{}, err
	}
	return f.Elem(v), nil
}

func randBelow(n *big.Int) (*big.Int, error) {
	if n.Sign() == 0 {
		return big.NewInt(0), nil
	}
	v, err := rand.Int(rand.Reader, n)
	if err != nil {
		return nil, fmt.Errorf("gf2: random: %w", err)
	}
	return v, nil
}

// Elem is a value in a specific Field. Elements from different Fields
// must never be mixed; doing so panics, matching the original's
// raised TypeError on cross-field operations.
type Elem struct {
	v *big.Int
	f *Field
}

// BigInt returns the element's integer representation. The returned
// value must not be mutated.
func (e Elem) BigInt() *big.Int { return e.v }

// Field returns the field this element belongs to.
func (e Elem) Field() *Field { return e.f }

// Uint64 returns the element's integer representation truncated to a
// uint64; it is intended for small fields such as GF(2^8).
func (e Elem) Uint64() uint64 { return e.v.Uint64() }

func (e Elem) checkSameField(o Elem, op string) {
	if !e.f.Equal(o.f) {
		panic("gf2: can't " + op + " elements of different fields")
	}
}

// Add is GF(2^m) addition, which equals XOR.
func (e Elem) Add(o Elem) Elem {
	e.checkSameField(o, "add")
	return e.f.Elem(new(big.Int).Xor(e.v, o.v))
}

// Sub is GF(2^m) subtraction, identical to Add since the field has
// characteristic 2.
func (e Elem) Sub(o Elem) Elem {
	return e.Add(o)
}

// Mul is schoolbook shift-and-XOR multiplication, reduced modulo the
// field polynomial as each partial product overflows the degree.
func (e Elem) Mul(o Elem) Elem {
	e.checkSameField(o, "mul")
	c := new(big.Int)
	a := e.v
	b := new(big.Int).Set(o.v)
	n, p := e.f.n, e.f.p
	top := e.f.poly[0]
	bit := new(big.Int)
	for j := 0; j < top; j++ {
		if a.Bit(j) != 0 {
			c.Xor(c, b)
		}
		b.Lsh(b, 1)
		if bit.And(b, n); bit.Sign() != 0 {
			b.Xor(b, p)
		}
	}
	return e.f.Elem(c)
}

// degree returns the position of the highest set bit, or 0 for the
// zero value.
func degree(a *big.Int) int {
	n := a.BitLen() - 1
	if n > 0 {
		return n
	}
	return 0
}

// DivMod performs polynomial long division: e = d*o + m.
func (e Elem) DivMod(o Elem) (quot, rem Elem) {
	e.checkSameField(o, "divmod")
	na := degree(e.v)
	nb := degree(o.v)
	r := new(big.Int)
	a := new(big.Int).Set(e.v)
	b := o.v
	shifted := new(big.Int)
	for na >= nb {
		if a.Bit(na) != 0 {
			r.SetBit(r, na-nb, 1)
			shifted.Lsh(b, uint(na-nb))
			a.Xor(a, shifted)
		}
		na--
	}
	return e.f.Elem(r), e.f.Elem(a)
}

// egcd is the extended Euclidean algorithm over field-element
// polynomials, used by Inverse.
func egcd(a, b Elem) (g, x, y Elem) {
	if a.v.Sign() == 0 {
		return b, a.f.Elem(big.NewInt(0)), a.f.Elem(big.NewInt(1))
	}
	d, m := b.DivMod(a)
	g2, y2, x2 := egcd(m, a)
	return g2, x2.Sub(d.Mul(y2)), y2
}

// Inverse returns the multiplicative inverse of e. It panics if e is
// the zero element, which has none.
func (e Elem) Inverse() Elem {
	if e.v.Sign() == 0 {
		panic("gf2: zero element has no inverse")
	}
	_, _, inv := egcd(e.f.Elem(e.f.p), e)
	return inv
}

// Div is e / o, i.e. e * o.Inverse().
func (e Elem) Div(o Elem) Elem {
	e.checkSameField(o, "div")
	return e.Mul(o.Inverse())
}

func (e Elem) String() string {
	return fmt.Sprintf("%#x", e.v)
}
