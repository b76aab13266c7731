// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/unitcircleinc/sbl/envelope"
	"github.com/unitcircleinc/sbl/keystore"
	"github.com/unitcircleinc/sbl/sblerr"
	"github.com/unitcircleinc/sbl/sigblock"
	"github.com/unitcircleinc/sbl/sss"
	"github.com/unitcircleinc/sbl/zbase32"
)

func promptPassphrase(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "passphrase %s: ", label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", sblerr.Wrap(sblerr.InvalidInput, "reading passphrase", err)
	}
	return string(b), nil
}

func promptLine(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	r := bufio.NewReader(os.Stdin)
	line, err := r.ReadString('\n')
	if err != nil {
		return "", sblerr.Wrap(sblerr.InvalidInput, "reading input", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// resolveSplitFile finds a split file either as a literal filesystem
// path or, failing that, as a name inside the .sbl keystore.
func resolveSplitFile(ks *keystore.Store, name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	if ks == nil {
		return "", sblerr.New(sblerr.ConfigurationError, "unable to find key file "+name)
	}
	p := filepath.Join(ks.Dir, name)
	if _, err := os.Stat(p); err != nil {
		return "", sblerr.New(sblerr.ConfigurationError, "unable to find key file "+name)
	}
	return p, nil
}

func readSplitFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", sblerr.Wrap(sblerr.ConfigurationError, "reading "+path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// loadSplitArg normalizes one command-line split reference into the
// full "x:zbase32body:passphrase" text envelope.DecodeSplit expects.
// Accepted forms:
//
//	x:body:passphrase       - fully inline
//	x:body                  - inline, prompts for the passphrase
//	name[:passphrase]       - a keystore/path split file, optionally
//	                          with the passphrase already attached
func loadSplitArg(ks *keystore.Store, arg string) (string, error) {
	parts := strings.SplitN(arg, ":", 3)
	switch len(parts) {
	case 3:
		return arg, nil
	case 2:
		if x, err := strconv.Atoi(parts[0]); err == nil {
			if _, derr := zbase32.Decode(parts[1]); derr == nil {
				pp, err := promptPassphrase(strconv.Itoa(x))
				if err != nil {
					return "", err
				}
				return arg + ":" + pp, nil
			}
		}
		path, err := resolveSplitFile(ks, parts[0])
		if err != nil {
			return "", err
		}
		body, err := readSplitFile(path)
		if err != nil {
			return "", err
		}
		return body + ":" + parts[1], nil
	default:
		path, err := resolveSplitFile(ks, arg)
		if err != nil {
			return "", err
		}
		body, err := readSplitFile(path)
		if err != nil {
			return "", err
		}
		pp, err := promptPassphrase(arg)
		if err != nil {
			return "", err
		}
		return body + ":" + pp, nil
	}
}

// promptSplits interactively reads splits until an empty line, used
// when no -k/--key arguments were given.
func promptSplits() ([]string, error) {
	var out []string
	label := "first"
	for {
		line, err := promptLine(fmt.Sprintf("%s key", label))
		if err != nil {
			return nil, err
		}
		if line == "" {
			break
		}
		idx := strings.SplitN(line, ":", 2)[0]
		pp, err := promptPassphrase(idx)
		if err != nil {
			return nil, err
		}
		out = append(out, line+":"+pp)
		label = "next"
	}
	return out, nil
}

func loadShares(ks *keystore.Store, keys []string) ([]sss.Share, error) {
	var texts []string
	var err error
	if len(keys) == 0 {
		texts, err = promptSplits()
		if err != nil {
			return nil, err
		}
	} else {
		for _, k := range keys {
			t, err := loadSplitArg(ks, k)
			if err != nil {
				return nil, err
			}
			texts = append(texts, t)
		}
	}

	shares := make([]sss.Share, len(texts))
	for i, t := range texts {
		s, err := envelope.DecodeSplit(t, sigblock.Field)
		if err != nil {
			return nil, err
		}
		shares[i] = s
	}
	return shares, nil
}
