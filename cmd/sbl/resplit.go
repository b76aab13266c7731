// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"crypto/ed25519"
	"flag"
	"fmt"
	"strings"

	"github.com/unitcircleinc/sbl/keystore"
	"github.com/unitcircleinc/sbl/sigblock"
)

type stringList []string

func (l *stringList) String() string     { return strings.Join(*l, ",") }
func (l *stringList) Set(v string) error { *l = append(*l, v); return nil }

func cmdResplit(args []string) error {
	fs := flag.NewFlagSet("resplit", flag.ExitOnError)
	sblDir := fs.String("sbl", "", ".sbl directory to use")
	var keys stringList
	fs.Var(&keys, "k", "key split to resplit, repeat K times")
	var spec splitSpec
	fs.Var(&spec, "s", "k,n quorum and share count")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireSplitSpec(&spec); err != nil {
		return err
	}
	name := fs.Arg(0)

	ks, err := keystore.Resolve(*sblDir)
	if err != nil {
		ks = nil
	}

	shares, err := loadShares(ks, keys)
	if err != nil {
		return err
	}
	sk, err := sigblock.JoinSigningKey(shares)
	if err != nil {
		return err
	}
	pk := sk.Public().(ed25519.PublicKey)
	fmt.Printf("resplitting key: %x\n", pk)

	newShares, err := sigblock.SplitSigningKey(sk, spec.K, spec.N)
	if err != nil {
		return err
	}
	texts, err := splitSharesToText(newShares, nil)
	if err != nil {
		return err
	}
	return dumpSplits(ks, name, pk, texts, "")
}
