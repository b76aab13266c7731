// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package keystore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/unitcircleinc/sbl/keystore"
)

func TestResolveExplicitRejectsBadMode(t *testing.T) {
	dir := t.TempDir()
	sbl := filepath.Join(dir, ".sbl")
	if err := os.Mkdir(sbl, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if _, err := keystore.Resolve(sbl); err == nil {
		t.Error("expected error for non-0700 directory")
	}
}

func TestResolveExplicitAccepts0700(t *testing.T) {
	dir := t.TempDir()
	sbl := filepath.Join(dir, ".sbl")
	if err := os.Mkdir(sbl, 0o700); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	s, err := keystore.Resolve(sbl)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.Dir != sbl {
		t.Errorf("Dir = %q, want %q", s.Dir, sbl)
	}
}

func TestSplitPathAndPubPath(t *testing.T) {
	s := &keystore.Store{Dir: "/tmp/.sbl"}
	if got, want := s.SplitPath("root", 3), "/tmp/.sbl/root.3"; got != want {
		t.Errorf("SplitPath = %q, want %q", got, want)
	}
	if got, want := s.PubPath("root"), "/tmp/.sbl/root.pub"; got != want {
		t.Errorf("PubPath = %q, want %q", got, want)
	}
}
