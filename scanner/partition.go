// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package scanner

// workerRange describes the slice of the region a single worker reads and
// the sub-range of it the worker is authoritative for (§3's "Worker
// partition", §4.4's overlap rule).
type workerRange struct {
	// scanStart/scanEnd bound the bytes this worker actually reads,
	// including the (patternLen-1)-byte overlap prefix/suffix needed to
	// catch matches straddling a logical chunk boundary.
	scanStart, scanEnd int64
	// ownedStart is the absolute offset at which this worker's reported
	// matches begin. Any candidate match starting before ownedStart
	// belongs to the previous worker and must be discarded.
	ownedStart int64
}

// partitionWork splits a region of the given size into at most workers
// contiguous logical chunks, widened by the pattern's overlap on each
// internal boundary, per §4.4's overlap rule:
//
//   - worker w's scan range starts at L_w - (P-1) if w > 0, else 0.
//   - worker w's scan range ends at L_{w+1} + (P-1) if w < W-1, else size.
//   - worker w's owned range starts at L_w.
//
// The number of chunks actually produced may be fewer than workers if
// size is too small to give every worker at least one byte of logical
// range; partitionWork never returns a zero-length logical chunk.
func partitionWork(size int64, patternLen int, workers int) []workerRange {
	if workers < 1 {
		workers = 1
	}
	if int64(workers) > size {
		workers = int(size)
	}
	if workers < 1 {
		workers = 1
	}

	overlap := int64(patternLen - 1)
	chunk := size / int64(workers)

	ranges := make([]workerRange, 0, workers)
	logicalStart := int64(0)
	for w := 0; w < workers; w++ {
		logicalEnd := logicalStart + chunk
		if w == workers-1 {
			logicalEnd = size // last chunk absorbs the remainder
		}

		scanStart := logicalStart
		if w > 0 {
			scanStart = logicalStart - overlap
			if scanStart < 0 {
				scanStart = 0
			}
		}
		scanEnd := logicalEnd
		if w < workers-1 {
			scanEnd = logicalEnd + overlap
			if scanEnd > size {
				scanEnd = size
			}
		}

		ranges = append(ranges, workerRange{
			scanStart:  scanStart,
			scanEnd:    scanEnd,
			ownedStart: logicalStart,
		})
		logicalStart = logicalEnd
	}
	return ranges
}
