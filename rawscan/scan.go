// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package rawscan implements the vectorized literal-byte-pattern matcher
// that is the algorithmic core of the scanner (§4.3 of the specification):
// given a contiguous byte slice and a literal pattern, it finds every
// (possibly overlapping) occurrence, in ascending order, up to a caller
// cap.
//
// The package is split the way biosimd is split in the teacher codebase:
// an accelerated amd64 path (scan_amd64.go) and a portable fallback
// (scan_generic.go), both built on top of the shared verification helper
// in this file. Neither path uses assembly; the accelerated path uses a
// SWAR ("SIMD within a register") bit trick over machine words in place of
// hand-written SSE2, which the specification explicitly permits ("SSE2 or
// equivalent").
package rawscan

// verify reports whether data[pos:pos+len(pattern)] == pattern. The
// caller must ensure pos+len(pattern) <= len(data).
func verify(data, pattern []byte, pos int) bool {
	for i := 0; i < len(pattern); i++ {
		if data[pos+i] != pattern[i] {
			return false
		}
	}
	return true
}

// appendMatches scans data for every occurrence of pattern (candidates are
// produced by the platform-specific findCandidate), appending offsets
// relative to data's start to dst until either the scan
// completes or len(dst) reaches cap. It returns the extended slice.
//
// This is the shared driver both scan_amd64.go and scan_generic.go use:
// they differ only in how cheaply they can produce *candidate* first-byte
// (or first-two-byte) positions; full verification and cap bookkeeping are
// identical.
func appendMatches(dst []uint64, data, pattern []byte, cap int) []uint64 {
	p := len(pattern)
	n := len(data)
	if cap <= 0 || p == 0 || n < p {
		return dst
	}
	limit := n - p + 1 // exclusive upper bound on valid match start positions
	pos := 0
	for len(dst) < cap && pos < limit {
		cand, ok := findCandidate(data, pattern, pos, limit)
		if !ok {
			break
		}
		if verify(data, pattern, cand) {
			dst = append(dst, uint64(cand))
		}
		pos = cand + 1
	}
	return dst
}

// ScanRaw is the raw scanner of §4.3: it returns every offset i in
// [0, len(data)-len(pattern)] such that data[i:i+len(pattern)] ==
// pattern, in strictly ascending order, stopping once cap matches have
// been found. It never reads data[len(data):]. If len(data) < len(pattern)
// or cap <= 0, it returns nil.
func ScanRaw(data, pattern []byte, cap int) []uint64 {
	return appendMatches(nil, data, pattern, cap)
}

// ScanRawAppend behaves like ScanRaw, but appends offsets relative to
// data's start to dst instead of allocating a fresh slice, stopping once
// len(dst) reaches cap (which bounds the total, including whatever dst
// already held). This is the entry point the scan coordinator's workers
// use with their growable local buffers.
func ScanRawAppend(dst []uint64, data, pattern []byte, cap int) []uint64 {
	return appendMatches(dst, data, pattern, cap)
}
