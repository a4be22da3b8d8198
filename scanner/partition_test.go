// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionWorkCoversWholeRange(t *testing.T) {
	size := int64(1000)
	patternLen := 5
	ranges := partitionWork(size, patternLen, 4)
	if !assert.Len(t, ranges, 4) {
		t.FailNow()
	}
	// Owned ranges must tile [0, size) with no gaps and no overlaps.
	var prevOwnedEnd int64
	for i, r := range ranges {
		assert.Equal(t, prevOwnedEnd, r.ownedStart, "range %d", i)
		assert.True(t, r.scanStart >= 0 && r.scanEnd <= size, "range %d: scan bounds [%d,%d) outside [0,%d)", i, r.scanStart, r.scanEnd, size)
		if i > 0 {
			assert.True(t, r.scanStart <= r.ownedStart, "range %d: scanStart=%d does not cover ownedStart=%d (missing overlap)", i, r.scanStart, r.ownedStart)
		}
		// Every range but the last reads patternLen-1 bytes past its owned end.
		prevOwnedEnd = r.scanEnd - int64(patternLen-1)
	}
	last := ranges[len(ranges)-1]
	assert.Equal(t, size, last.scanEnd)
	assert.Equal(t, int64(0), ranges[0].scanStart)
}

func TestPartitionWorkOverlapWidth(t *testing.T) {
	size := int64(100)
	patternLen := 10
	ranges := partitionWork(size, patternLen, 2)
	if !assert.Len(t, ranges, 2) {
		t.FailNow()
	}
	// Second worker's scan should start exactly patternLen-1 bytes before
	// its owned start (clamped at 0), per §4.4's overlap rule.
	want := ranges[1].ownedStart - int64(patternLen-1)
	if want < 0 {
		want = 0
	}
	assert.Equal(t, want, ranges[1].scanStart)
	// First worker's scan should extend patternLen-1 bytes past its owned
	// end (which equals the second worker's owned start).
	boundary := ranges[1].ownedStart
	wantScanEnd := boundary + int64(patternLen-1)
	if wantScanEnd > size {
		wantScanEnd = size
	}
	assert.Equal(t, wantScanEnd, ranges[0].scanEnd)
}

func TestPartitionWorkSingleWorker(t *testing.T) {
	ranges := partitionWork(500, 3, 1)
	if !assert.Len(t, ranges, 1) {
		t.FailNow()
	}
	assert.Equal(t, workerRange{scanStart: 0, scanEnd: 500, ownedStart: 0}, ranges[0])
}

func TestPartitionWorkClampsToSize(t *testing.T) {
	// Requesting more workers than bytes must not produce zero-length
	// logical chunks.
	ranges := partitionWork(3, 1, 16)
	assert.True(t, len(ranges) <= 3, "got %d ranges for size 3, want <= 3", len(ranges))
	for _, r := range ranges {
		if r.scanEnd <= r.scanStart && r.ownedStart != r.scanEnd {
			// A zero-width scan range is only acceptable if it still
			// legitimately owns zero bytes (shouldn't happen here).
			t.Errorf("degenerate range: %+v", r)
		}
	}
}
