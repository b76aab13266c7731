// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package wordlist_test

import (
	"testing"

	"github.com/unitcircleinc/sbl/internal/wordlist"
)

func TestWordCoversFullRange(t *testing.T) {
	seen := map[string]bool{}
	rolls := []string{"1111", "1112", "3456", "6666"}
	for _, r := range rolls {
		w, err := wordlist.Word(r)
		if err != nil {
			t.Fatalf("Word(%q): %v", r, err)
		}
		if w == "" {
			t.Fatalf("Word(%q) returned empty string", r)
		}
		if seen[w] {
			t.Fatalf("word %q produced for more than one roll", w)
		}
		seen[w] = true
	}
}

func TestIndexRejectsBadInput(t *testing.T) {
	cases := []string{"", "123", "12345", "0123", "7890", "abcd"}
	for _, c := range cases {
		if _, err := wordlist.Index(c); err == nil {
			t.Errorf("Index(%q): expected error, got nil", c)
		}
	}
}

func TestRollForRoundTrip(t *testing.T) {
	for _, roll := range []string{"1111", "2345", "6666"} {
		w, err := wordlist.Word(roll)
		if err != nil {
			t.Fatalf("Word(%q): %v", roll, err)
		}
		got, ok := wordlist.RollFor(w)
		if !ok {
			t.Fatalf("RollFor(%q): word not found", w)
		}
		if got != roll {
			t.Errorf("RollFor(%q) = %q, want %q", w, got, roll)
		}
	}
}

func TestTableHasNoDuplicates(t *testing.T) {
	seen := map[string]string{}
	for a := '1'; a <= '6'; a++ {
		for b := '1'; b <= '6'; b++ {
			for c := '1'; c <= '6'; c++ {
				for d := '1'; d <= '6'; d++ {
					roll := string([]rune{a, b, c, d})
					w, err := wordlist.Word(roll)
					if err != nil {
						t.Fatalf("Word(%q): %v", roll, err)
					}
					if other, ok := seen[w]; ok {
						t.Fatalf("word %q produced by both roll %q and %q", w, other, roll)
					}
					seen[w] = roll
				}
			}
		}
	}
	if len(seen) != wordlist.Len {
		t.Errorf("got %d distinct words, want %d", len(seen), wordlist.Len)
	}
}
