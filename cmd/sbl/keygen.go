// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"crypto/ed25519"
	"flag"
	"strconv"

	"github.com/unitcircleinc/sbl/keystore"
	"github.com/unitcircleinc/sbl/sigblock"
)

func cmdKeygen(args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	sblDir := fs.String("sbl", "", ".sbl directory to use")
	test := fs.Bool("t", false, "use predictable passphrases 1..N (testing only)")
	exportPrefix := fs.String("p", "", "print splits as shell export statements with this prefix")
	var spec splitSpec
	fs.Var(&spec, "s", "k,n quorum and share count")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireSplitSpec(&spec); err != nil {
		return err
	}
	name := fs.Arg(0)

	var ks *keystore.Store
	if name != "" {
		s, err := keystore.Resolve(*sblDir)
		if err != nil {
			return err
		}
		ks = s
	}

	pk, sk, err := ed25519.GenerateKey(nil)
	if err != nil {
		return err
	}

	shares, err := sigblock.SplitSigningKey(sk, spec.K, spec.N)
	if err != nil {
		return err
	}

	var passphrases []string
	if *test {
		passphrases = make([]string, len(shares))
		for i := range passphrases {
			passphrases[i] = strconv.Itoa(i + 1)
		}
	}

	texts, err := splitSharesToText(shares, passphrases)
	if err != nil {
		return err
	}
	return dumpSplits(ks, name, pk, texts, *exportPrefix)
}
