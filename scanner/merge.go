// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package scanner

// mergeResults implements §4.4's merge phase: it concatenates per-worker
// result buffers in worker-index order (which is ascending file-offset
// order, since each worker only emits offsets >= its owned start),
// stopping once cap offsets have been collected. The inputs are assumed
// already sorted ascending within each worker, which translateOwned
// guarantees.
func mergeResults(perWorker [][]uint64, cap int) []uint64 {
	total := 0
	for _, w := range perWorker {
		total += len(w)
	}
	n := total
	if n > cap {
		n = cap
	}
	merged := make([]uint64, 0, n)
	for _, w := range perWorker {
		if len(merged) >= n {
			break
		}
		remaining := n - len(merged)
		if remaining >= len(w) {
			merged = append(merged, w...)
		} else {
			merged = append(merged, w[:remaining]...)
		}
	}
	return merged
}

// translateOwned converts a worker's scan-relative offsets (as produced
// by rawscan.ScanRawAppend against data[rng.scanStart:rng.scanEnd]) into
// absolute file offsets, discarding any offset before rng.ownedStart
// (§4.4's overlap rule: such a match belongs to the previous worker). It
// filters in place, reusing rel's backing array rather than allocating a
// second buffer.
func translateOwned(rel []uint64, rng workerRange) []uint64 {
	out := rel[:0]
	for _, r := range rel {
		abs := r + uint64(rng.scanStart)
		if abs < uint64(rng.ownedStart) {
			continue
		}
		out = append(out, abs)
	}
	return out
}
