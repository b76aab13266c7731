// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/hex"
	"flag"
	"fmt"

	"github.com/unitcircleinc/sbl/keystore"
	"github.com/unitcircleinc/sbl/sigblock"
)

func cmdVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	sblDir := fs.String("sbl", "", ".sbl directory to use")
	root := fs.String("r", "", "root public key used for verification (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	codePath := fs.Arg(0)

	ks, _ := keystore.Resolve(*sblDir)
	rootPK, err := loadPub(ks, *root)
	if err != nil {
		return err
	}

	img, err := loadCode(codePath)
	if err != nil {
		return err
	}

	info, err := sigblock.VerifySignatureBlock(img.code, rootPK)
	if err != nil {
		return err
	}

	name, _ := sigblock.CodeTypeName(info.CodeType)
	fmt.Println("signature valid")
	fmt.Printf("  build:     %s\n", info.BuildID)
	fmt.Printf("  type:      %s\n", name)
	fmt.Printf("  length:    %d\n", info.Length)
	fmt.Printf("  hash:      %s\n", hex.EncodeToString(info.Hash[:]))
	fmt.Printf("  date:      %d\n", info.Date)
	return nil
}

func cmdVerifyKey(args []string) error {
	fs := flag.NewFlagSet("verifykey", flag.ExitOnError)
	sblDir := fs.String("sbl", "", ".sbl directory to use")
	var keys stringList
	fs.Var(&keys, "k", "key split to verify, repeat K times")
	if err := fs.Parse(args); err != nil {
		return err
	}
	pubArg := fs.Arg(0)

	ks, _ := keystore.Resolve(*sblDir)
	pk, err := loadPub(ks, pubArg)
	if err != nil {
		return err
	}

	shares, err := loadShares(ks, keys)
	if err != nil {
		return err
	}
	sk, err := sigblock.JoinSigningKey(shares)
	if err != nil {
		return err
	}

	if pk.Equal(sk.Public()) {
		fmt.Println("key valid")
		return nil
	}
	fmt.Println("key invalid:")
	fmt.Printf("pk from file:   %s\n", hex.EncodeToString(pk))
	fmt.Printf("pk from splits: %x\n", sk.Public())
	return nil
}
