// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package algorithms

import (
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/tomtom215/marketbasket/internal/recommend"
)

// supportEpsilon absorbs float rounding when a ratio sits exactly on a
// threshold, e.g. 2/5 against a minimum support of 0.4.
const supportEpsilon = 1e-9

// Ensure implementations satisfy the engine interfaces.
var (
	_ recommend.Miner         = (*Apriori)(nil)
	_ recommend.RuleGenerator = (*RuleGenerator)(nil)
)

// defaultWorkers returns n, or GOMAXPROCS when n < 1.
func defaultWorkers(n int) int {
	if n < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// minCount returns the smallest transaction count whose support reaches
// minSupport out of n transactions. It is at least 1.
func minCount(minSupport float64, n int) int {
	c := int(math.Ceil((minSupport - supportEpsilon) * float64(n)))
	if c < 1 {
		return 1
	}
	return c
}

// idsKey encodes sorted item IDs as a map key.
func idsKey(ids []uint) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return b.String()
}

// shardRanges splits [0, n) into at most parts contiguous half-open ranges.
func shardRanges(n, parts int) [][2]int {
	if n == 0 {
		return nil
	}
	if parts > n {
		parts = n
	}
	size := (n + parts - 1) / parts
	out := make([][2]int, 0, parts)
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		out = append(out, [2]int{lo, hi})
	}
	return out
}
