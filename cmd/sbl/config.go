// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"flag"
	"fmt"
	"strconv"

	"github.com/unitcircleinc/sbl/keystore"
	"github.com/unitcircleinc/sbl/sblerr"
)

// defaultRootPK is the placeholder root public key baked into an
// unconfigured bootloader image (src-uc/apputils.c's ROOT_CODE_PK
// initializer), replaced in-place by this command with the real root
// key plus the flash layout that follows it.
var defaultRootPK = mustHex("73bed90ce4a9505ff8235e51fece9d4ddeb0fcd44c48e422f200c6b78bd481bf")

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

const flashSize = 1024 * 1024

func cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	sblDir := fs.String("sbl", "", ".sbl directory to use")
	root := fs.String("r", "", "root public key to configure SBL image with (required)")
	manuDataSize := fs.String("manu-data-size", "4096", "manufacturing area data size")
	maxAppSize := fs.String("max-app-size", "491520", "maximum size of an application")
	verify := fs.Bool("v", false, "verify that SBL is configured with root")
	if err := fs.Parse(args); err != nil {
		return err
	}
	codePath := fs.Arg(0)

	manuSize, err := strconv.Atoi(*manuDataSize)
	if err != nil || manuSize <= 0 || manuSize%4096 != 0 {
		return sblerr.New(sblerr.InvalidInput, "invalid manu-data-size")
	}
	appSize, err := strconv.Atoi(*maxAppSize)
	if err != nil || appSize <= 0 || appSize%4096 != 0 {
		return sblerr.New(sblerr.InvalidInput, "invalid max-app-size")
	}
	if 32768+8192+manuSize+appSize*2+4096 > flashSize {
		return sblerr.New(sblerr.ConfigurationError, "invalid config for part: out of FLASH")
	}

	ks, _ := keystore.Resolve(*sblDir)
	pk, err := loadPub(ks, *root)
	if err != nil {
		return err
	}
	if bytes.Equal(pk, defaultRootPK) {
		return sblerr.New(sblerr.InvalidInput, "invalid root key - same as default PK")
	}

	img, err := loadCode(codePath)
	if err != nil {
		return err
	}

	if *verify {
		return verifyConfig(img.code, pk)
	}
	return writeConfig(codePath, img, pk, uint32(manuSize), uint32(appSize))
}

func verifyConfig(code []byte, pk []byte) error {
	idx := bytes.Index(code, pk)
	if idx < 0 || idx+len(pk)+32 > len(code) {
		return sblerr.New(sblerr.InvalidInput, "SBL image not configured with given root PK")
	}
	cfg := code[idx+len(pk) : idx+len(pk)+32]
	fields := []string{"bl-len", "bl-state", "bl-state-len", "manu-data", "manu-data-len", "slot0", "slot1", "slot-len"}
	fmt.Println("sbl configured with:")
	fmt.Printf("  pk:             %s\n", hex.EncodeToString(pk))
	for i, name := range fields {
		v := binary.LittleEndian.Uint32(cfg[i*4 : i*4+4])
		fmt.Printf("  %-15s 0x%08x\n", name+":", v)
	}
	return nil
}

func writeConfig(path string, img *codeImage, pk []byte, manuSize, appSize uint32) error {
	idx := bytes.Index(img.code, defaultRootPK)
	if idx < 0 || idx+64 > len(img.code) {
		return sblerr.New(sblerr.InvalidInput, "invalid SBL image - missing default PK")
	}
	for _, b := range img.code[idx+32 : idx+64] {
		if b != 0 {
			return sblerr.New(sblerr.ConfigurationError, "mem config not all zeros")
		}
	}

	blLen := uint32(32768)
	blState := uint32(32768)
	blStateLen := uint32(8192)
	manuData := blState + blStateLen
	slot0 := manuData + manuSize
	slot1 := slot0 + appSize

	cfg := make([]byte, 0, 32)
	for _, v := range []uint32{blLen, blState, blStateLen, manuData, manuSize, slot0, slot1, appSize} {
		cfg = binary.LittleEndian.AppendUint32(cfg, v)
	}

	out := append([]byte(nil), img.code[:idx]...)
	out = append(out, pk...)
	out = append(out, cfg...)
	out = append(out, img.code[idx+64:]...)

	if bytes.Contains(out, defaultRootPK) {
		return sblerr.New(sblerr.InvalidInput, "invalid SBL image - more than 1 default PK in image")
	}
	return saveCode(path, img, out)
}
