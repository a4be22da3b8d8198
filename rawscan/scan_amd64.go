// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

//go:build amd64

package rawscan

import (
	"encoding/binary"
	"math/bits"
)

// wordSize is the width, in bytes, of the machine word this file operates
// on at a time — the amd64 analogue of the specification's 16-byte SSE2
// stride, expressed as a SWAR ("SIMD within a register") bit trick instead
// of vector instructions.
const wordSize = 8

// broadcast produces a word with b repeated in every byte lane, the SWAR
// equivalent of loading b into every lane of a 16-wide vector register
// (§4.3 step 1).
func broadcast(b byte) uint64 {
	return 0x0101010101010101 * uint64(b)
}

// hasByteMask returns a word with the high bit of each byte lane set
// wherever that lane of w equals the broadcast target t. Lanes above a
// matching lane may also be set (the subtraction's borrow), so only the
// lowest set bit is exact; the mask is zero only if no lane matches. This
// is the classic "find a zero byte" trick (w XOR t, then test for a zero
// lane) generalized to an arbitrary target byte — the SWAR stand-in for
// §4.3 step 2's wide equality compare producing a 16-bit mask.
func hasByteMask(w, t uint64) uint64 {
	x := w ^ t
	return (x - 0x0101010101010101) &^ x & 0x8080808080808080
}

// findCandidate returns a candidate position p in [from, limit) such that
// no position q in [from, p) has data[q] == pattern[0] (and, when
// len(pattern) >= 2, data[q+1] == pattern[1] — the optional two-byte
// prefilter of §4.3 step 3). Because hasByteMask may flag extra lanes, and
// the two-byte check is skipped for a word whose shifted load would run
// past data, p itself may fail those tests; appendMatches' verify rejects
// such candidates. It processes data eight bytes at a time via
// hasByteMask, with a scalar tail
// for the last < 8 bytes, matching the "stride with scalar tail" shape of
// §4.3 steps 2-6.
func findCandidate(data, pattern []byte, from, limit int) (int, bool) {
	first := pattern[0]
	firstWord := broadcast(first)
	twoByte := len(pattern) >= 2
	var second byte
	var secondWord uint64
	if twoByte {
		second = pattern[1]
		secondWord = broadcast(second)
	}

	pos := from
	// Main 8-byte-stride loop. The stride bound mirrors §4.3's "data +
	// data_len - 16" rule, just with wordSize in place of 16.
	strideLimit := limit - wordSize
	for pos <= strideLimit {
		w := binary.LittleEndian.Uint64(data[pos:])
		mask := hasByteMask(w, firstWord)
		if twoByte && pos+1+wordSize <= len(data) {
			w2 := binary.LittleEndian.Uint64(data[pos+1:])
			mask &= hasByteMask(w2, secondWord)
		}
		if mask != 0 {
			// Each set high bit sits at bit (8*lane + 7); the lane index
			// is therefore the trailing-zero count divided by 8 (§4.3's
			// "iterated cheaply via count-trailing-zeros").
			lane := bits.TrailingZeros64(mask) / 8
			cand := pos + lane
			if cand >= limit {
				break
			}
			return cand, true
		}
		pos += wordSize
	}

	// Scalar tail loop (§4.3 step 6).
	for ; pos < limit; pos++ {
		if data[pos] != first {
			continue
		}
		if twoByte && (pos+1 >= len(data) || data[pos+1] != second) {
			continue
		}
		return pos, true
	}
	return 0, false
}
