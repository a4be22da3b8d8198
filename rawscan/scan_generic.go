// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

//go:build !amd64

package rawscan

import "bytes"

// findCandidate returns the smallest position p in [from, limit) such
// that data[p] == pattern[0] (and, when len(pattern) >= 2, data[p+1] ==
// pattern[1]). On non-SIMD targets §4.3 explicitly permits a
// "byte-at-a-time or memchr-style search"; this uses bytes.IndexByte,
// which the Go runtime implements with a per-platform assembly memchr, as
// the first-byte prefilter.
func findCandidate(data, pattern []byte, from, limit int) (int, bool) {
	first := pattern[0]
	twoByte := len(pattern) >= 2
	var second byte
	if twoByte {
		second = pattern[1]
	}

	pos := from
	for pos < limit {
		rel := bytes.IndexByte(data[pos:limit], first)
		if rel < 0 {
			return 0, false
		}
		cand := pos + rel
		if !twoByte || (cand+1 < len(data) && data[cand+1] == second) {
			return cand, true
		}
		pos = cand + 1
	}
	return 0, false
}
