// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package region

import (
	"encoding/binary"

	"github.com/minio/highwayhash"
)

// fingerprintKey is a fixed, arbitrary 32-byte key. The fingerprint is
// used only to detect whether the mapped bytes changed between two points
// in time (see the external safety requirement in §5 of the
// specification), never as a security boundary, so a fixed key is fine.
var fingerprintKey = make([]byte, 32)

// fingerprintSampleBytes bounds how much of a large region gets hashed.
// Hashing gigabytes of mapped data just to sanity-check for truncation
// would defeat the purpose of mmap'd scanning; a head/middle/tail sample
// is enough to catch the common case (the file shrinking or being
// rewritten).
const fingerprintSampleBytes = 1 << 16

// Fingerprint returns a fast, non-cryptographic hash of a bounded sample
// of the region's bytes (head, middle, and tail, each up to
// fingerprintSampleBytes long) plus the region's size. It is not part of
// the scan's correctness contract; it exists so a caller can detect the
// hazard documented in §5 — the underlying file being truncated or
// rewritten by another process during a long-running scan — by comparing
// the fingerprint taken at Load time against one taken after Execute.
func (r *Region) Fingerprint() uint64 {
	if r == nil || len(r.data) == 0 {
		return 0
	}
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		// highwayhash.New64 only fails on a malformed key; fingerprintKey
		// is always exactly 32 bytes, so this is unreachable in practice.
		return 0
	}
	n := len(r.data)
	sample := func(start, end int) {
		if start < 0 {
			start = 0
		}
		if end > n {
			end = n
		}
		if start < end {
			h.Write(r.data[start:end]) // nolint: errcheck
		}
	}
	sample(0, fingerprintSampleBytes)
	mid := n / 2
	sample(mid-fingerprintSampleBytes/2, mid+fingerprintSampleBytes/2)
	sample(n-fingerprintSampleBytes, n)
	var sizeBuf [8]byte
	binary.LittleEndian.PutUint64(sizeBuf[:], uint64(n))
	h.Write(sizeBuf[:]) // nolint: errcheck
	return h.Sum64()
}
