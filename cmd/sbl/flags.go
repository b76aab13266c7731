// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/unitcircleinc/sbl/sblerr"
)

// splitSpec is a flag.Value parsing "-s K,N" into a quorum/share count
// pair, validated the same way the original tool's argparse type does.
type splitSpec struct {
	K, N int
	set  bool
}

func (s *splitSpec) String() string {
	if !s.set {
		return ""
	}
	return fmt.Sprintf("%d,%d", s.K, s.N)
}

func (s *splitSpec) Set(v string) error {
	parts := strings.Split(v, ",")
	if len(parts) != 2 {
		return fmt.Errorf("invalid split(%s) - needs to be in form K,N", v)
	}
	k, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	n, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return fmt.Errorf("invalid split(%s) - needs to be in form K,N", v)
	}
	if k <= 0 || n <= 0 || k > n {
		return fmt.Errorf("invalid k(%d) or n(%d)", k, n)
	}
	s.K, s.N, s.set = k, n, true
	return nil
}

func requireSplitSpec(s *splitSpec) error {
	if !s.set {
		return sblerr.New(sblerr.InvalidInput, "-s K,N is required")
	}
	return nil
}
