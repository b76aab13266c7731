// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/unitcircleinc/sbl/ihex"
	"github.com/unitcircleinc/sbl/sblerr"
)

// codeImage is an in-memory firmware image, optionally carrying the
// Intel HEX base address it was loaded at so it can be written back
// out in the same format.
type codeImage struct {
	addr  uint32
	isHex bool
	code  []byte
}

func loadCode(path string) (*codeImage, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bin":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, sblerr.Wrap(sblerr.InvalidInput, "unable to load code from "+path, err)
		}
		return &codeImage{code: data}, nil
	case ".hex":
		f, err := os.Open(path)
		if err != nil {
			return nil, sblerr.Wrap(sblerr.InvalidInput, "unable to load code from "+path, err)
		}
		defer f.Close()
		img, err := ihex.Load(f)
		if err != nil {
			return nil, sblerr.Wrap(sblerr.InvalidInput, "unable to load code from "+path, err)
		}
		if len(img.Segments) != 1 {
			return nil, sblerr.New(sblerr.InvalidInput, "hex file has gaps or is empty")
		}
		return &codeImage{addr: img.Segments[0].Addr, isHex: true, code: img.Segments[0].Data}, nil
	default:
		return nil, sblerr.New(sblerr.InvalidInput, "only .bin and .hex files are supported for code")
	}
}

func saveCode(path string, src *codeImage, code []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bin":
		if err := os.WriteFile(path, code, 0o644); err != nil {
			return sblerr.Wrap(sblerr.InvalidInput, "writing to "+path, err)
		}
		return nil
	case ".hex":
		if src == nil || !src.isHex {
			return sblerr.New(sblerr.InvalidInput, "can only save hex output if code input is also hex")
		}
		img := &ihex.Image{Segments: []ihex.Segment{{Addr: src.addr, Data: code}}}
		var buf bytes.Buffer
		if err := ihex.Dump(&buf, img); err != nil {
			return sblerr.Wrap(sblerr.InvalidInput, "writing to "+path, err)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return sblerr.Wrap(sblerr.InvalidInput, "writing to "+path, err)
		}
		return nil
	default:
		return sblerr.New(sblerr.InvalidInput, "unknown file extension for "+path)
	}
}
