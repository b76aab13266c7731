// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/hex"
	"flag"
	"os"
	"strings"

	"github.com/unitcircleinc/sbl/keystore"
	"github.com/unitcircleinc/sbl/sigblock"
)

func cmdCertgen(args []string) error {
	fs := flag.NewFlagSet("certgen", flag.ExitOnError)
	sblDir := fs.String("sbl", "", ".sbl directory to use")
	var keys stringList
	fs.Var(&keys, "k", "key split used to sign the cert, repeat K times")
	date := fs.String("d", "", "use DATE instead of current time")
	pub := fs.String("p", "", "the public key the cert is being created for (required)")
	chain := fs.String("c", "", "the parent certificate in chain")
	if err := fs.Parse(args); err != nil {
		return err
	}
	out := fs.Arg(0)

	ks, _ := keystore.Resolve(*sblDir)

	subjectPK, err := loadPub(ks, *pub)
	if err != nil {
		return err
	}
	certDate, err := parseDate(*date)
	if err != nil {
		return err
	}

	var chainBytes []byte
	if *chain != "" {
		text := *chain
		if data, err := os.ReadFile(*chain); err == nil {
			text = strings.TrimSpace(string(data))
		}
		cb, err := hex.DecodeString(text)
		if err != nil {
			return err
		}
		chainBytes = cb
	}

	shares, err := loadShares(ks, keys)
	if err != nil {
		return err
	}
	signingKey, err := sigblock.JoinSigningKey(shares)
	if err != nil {
		return err
	}

	cert := sigblock.BuildCertUnit(signingKey, subjectPK, certDate, chainBytes)
	return writeCertOutput(out, cert)
}
