// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

// Package keystore resolves and validates the ".sbl" directory that
// holds named key splits and public keys, and provides path helpers
// for reading/writing them.
//
// Unlike the original tool's global, lazily-memoized search path, this
// package exposes a pure Resolve function returning an explicit
// *Store handle: callers thread it through rather than relying on
// package-level mutable state.
package keystore

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/unitcircleinc/sbl/sblerr"
)

// Store is a validated .sbl directory handle.
type Store struct {
	Dir string
}

// Resolve finds the .sbl directory to use. If explicit is non-empty it
// is used directly (and validated). Otherwise Resolve walks upward
// from the current working directory, inside the user's home
// directory, looking for a ".sbl" subdirectory with mode exactly 0700.
func Resolve(explicit string) (*Store, error) {
	if explicit != "" {
		return validate(explicit)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, sblerr.Wrap(sblerr.ConfigurationError, "unable to determine working directory", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, sblerr.Wrap(sblerr.ConfigurationError, "unable to determine home directory", err)
	}

	d := wd
	for len(d) >= len(home) && d[:len(home)] == home {
		p := filepath.Join(d, ".sbl")
		if s, ok := tryDir(p); ok {
			return s, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	return nil, sblerr.New(sblerr.ConfigurationError, ".sbl directory not found or has permissions other than rwx------")
}

func tryDir(p string) (*Store, bool) {
	info, err := os.Stat(p)
	if err != nil || !info.IsDir() {
		return nil, false
	}
	if info.Mode().Perm() != 0o700 {
		return nil, false
	}
	return &Store{Dir: p}, true
}

func validate(dir string) (*Store, error) {
	s, ok := tryDir(dir)
	if !ok {
		return nil, sblerr.New(sblerr.ConfigurationError, dir+" does not exist, is not a directory, or has permissions other than rwx------")
	}
	return s, nil
}

// SplitPath returns the path to a named key's Nth split file.
func (s *Store) SplitPath(name string, x int) string {
	return filepath.Join(s.Dir, name+"."+strconv.Itoa(x))
}

// PubPath returns the path to a named key's public key file.
func (s *Store) PubPath(name string) string {
	return filepath.Join(s.Dir, name+".pub")
}
