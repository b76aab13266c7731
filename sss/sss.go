// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

// Package sss implements Shamir's K-of-N secret sharing over a gf2
// field.
//
// The secret must be a nonzero member of the field; Split rejects the
// zero element with ErrZeroSecret (see
// https://en.wikipedia.org/wiki/Shamir's_secret_sharing). Joining does
// not verify that the reconstructed secret matches the one originally
// split: callers that need that guarantee should carry a MAC alongside
// the secret and verify it after Join.
package sss

import (
	"errors"

	"github.com/unitcircleinc/sbl/gf2"
)

// ErrZeroSecret is returned by Split when given the zero element,
// which cannot be safely shared (the all-zero polynomial reveals the
// secret from any single share).
var ErrZeroSecret = errors.New("sss: secret can't be zero")

// Share is one (x, y) point on the secret's sharing polynomial.
type Share struct {
	X gf2.Elem
	Y gf2.Elem
}

// randPoly builds a degree n-1 polynomial (ascending coefficient
// order, constant term a0) whose leading coefficient is nonzero.
func randPoly(a0 gf2.Elem, n int) ([]gf2.Elem, error) {
	field := a0.Field()
	for {
		p := make([]gf2.Elem, n)
		p[0] = a0
		for i := 1; i < n; i++ {
			c, err := field.Random()
			if err != nil {
				return nil, err
			}
			p[i] = c
		}
		if p[n-1].BigInt().Sign() != 0 {
			return p, nil
		}
	}
}

// evalPoly evaluates p (ascending coefficient order) at x via Horner's
// method.
func evalPoly(x gf2.Elem, p []gf2.Elem) gf2.Elem {
	r := x.Field().ElemUint64(0)
	for i := len(p) - 1; i >= 0; i-- {
		r = r.Mul(x).Add(p[i])
	}
	return r
}

// lagrangeBasis evaluates the i-th Lagrange basis polynomial at x
// given xi (this share's x-coordinate) and xv (the x-coordinates of
// every other share in the quorum).
func lagrangeBasis(x, xi gf2.Elem, xv []gf2.Elem) gf2.Elem {
	num := x.Field().ElemUint64(1)
	den := x.Field().ElemUint64(1)
	for _, xj := range xv {
		num = num.Mul(x.Sub(xj))
		den = den.Mul(xi.Sub(xj))
	}
	return num.Mul(den.Inverse())
}

// lagrange interpolates the polynomial through xy and evaluates it
// at x.
func lagrange(x gf2.Elem, xy []Share) gf2.Elem {
	f := x.Field().ElemUint64(0)
	for i, pt := range xy {
		others := make([]gf2.Elem, 0, len(xy)-1)
		for j, o := range xy {
			if j != i {
				others = append(others, o.X)
			}
		}
		basis := lagrangeBasis(x, pt.X, others)
		f = f.Add(pt.Y.Mul(basis))
	}
	return f
}

// Split shares the secret s among n parties such that any k of them
// can reconstruct it. s must be a nonzero field element.
func Split(s gf2.Elem, k, n int) ([]Share, error) {
	if s.BigInt().Sign() == 0 {
		return nil, ErrZeroSecret
	}
	p, err := randPoly(s, k)
	if err != nil {
		return nil, err
	}
	field := s.Field()
	shares := make([]Share, n)
	for i := 0; i < n; i++ {
		x := field.ElemUint64(uint64(i + 1))
		shares[i] = Share{X: x, Y: evalPoly(x, p)}
	}
	return shares, nil
}

// Join reconstructs the secret from a quorum of shares (at least k of
// the shares produced by the matching Split call).
func Join(shares []Share) gf2.Elem {
	zero := shares[0].X.Field().ElemUint64(0)
	return lagrange(zero, shares)
}
