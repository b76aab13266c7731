// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"

	"github.com/unitcircleinc/sbl/keystore"
	"github.com/unitcircleinc/sbl/sigblock"
)

func cmdSign(args []string) error {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	sblDir := fs.String("sbl", "", ".sbl directory to use")
	var keys stringList
	fs.Var(&keys, "k", "key split used to sign the image, repeat K times")
	date := fs.String("d", "", "use DATE instead of current time")
	code := fs.String("code", "", "the binary file to sign (required)")
	cert := fs.String("cert", "", "the certificate chain for KEY (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	out := fs.Arg(0)

	ks, _ := keystore.Resolve(*sblDir)

	img, err := loadCode(*code)
	if err != nil {
		return err
	}
	certBytes, err := loadCertFile(*cert)
	if err != nil {
		return err
	}
	chain, err := sigblock.NormalizeChain(certBytes)
	if err != nil {
		return err
	}
	sigDate, err := parseDate(*date)
	if err != nil {
		return err
	}

	shares, err := loadShares(ks, keys)
	if err != nil {
		return err
	}
	signingKey, err := sigblock.JoinSigningKey(shares)
	if err != nil {
		return err
	}

	block, err := sigblock.BuildSignatureBlock(signingKey, img.code, chain, sigDate)
	if err != nil {
		return err
	}

	signed := append(block, img.code...)
	return saveCode(out, img, signed)
}
