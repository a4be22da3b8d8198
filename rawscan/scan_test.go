// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package rawscan_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grailbio/bytefind/rawscan"
)

func naiveScan(data, pattern []byte, cap int) []uint64 {
	var out []uint64
	p := len(pattern)
	for i := 0; i+p <= len(data) && len(out) < cap; i++ {
		if bytes.Equal(data[i:i+p], pattern) {
			out = append(out, uint64(i))
		}
	}
	return out
}

func TestScanRawBasic(t *testing.T) {
	cases := []struct {
		name    string
		data    string
		pattern string
		cap     int
		want    []uint64
	}{
		{"two errors", "Hello World\nERROR: Something broke\nINFO: All good\nERROR: Another error\n", "ERROR", 100, []uint64{12, 50}},
		{"overlap aa", "aaaa", "aa", 100, []uint64{0, 1, 2}},
		{"capped abc", "abcabcabc", "abc", 2, []uint64{0, 3}},
		{"too short", "x", "xx", 100, nil},
		{"single byte pattern", "banana", "a", 100, []uint64{1, 3, 5}},
		{"cap one", "aaaa", "aa", 1, []uint64{0}},
		{"no match", "hello", "z", 100, nil},
		{"exact length match", "abc", "abc", 100, []uint64{0}},
		{"empty data", "", "a", 100, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := rawscan.ScanRaw([]byte(c.data), []byte(c.pattern), c.cap)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestScanRawCapZero(t *testing.T) {
	got := rawscan.ScanRaw([]byte("aaaa"), []byte("a"), 0)
	assert.Empty(t, got)
}

func TestScanRawStrideBoundary(t *testing.T) {
	// Construct data where the pattern straddles every possible byte
	// boundary of an 8-byte (and 16-byte) stride, including word-sized
	// multiples, to make sure no stride-alignment assumption causes a
	// missed or duplicated match.
	pattern := []byte("NEEDLE")
	for offset := 0; offset < 40; offset++ {
		data := bytes.Repeat([]byte{'x'}, offset)
		data = append(data, pattern...)
		data = append(data, bytes.Repeat([]byte{'y'}, 40)...)
		got := rawscan.ScanRaw(data, pattern, 100)
		want := naiveScan(data, pattern, 100)
		assert.Equal(t, want, got, "offset=%d", offset)
	}
}

func TestScanRawRandomAgainstNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	patterns := [][]byte{[]byte("a"), []byte("ab"), []byte("ERROR"), []byte("aaaa"), []byte("xyzxyz")}
	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(4000)
		data := make([]byte, n)
		for i := range data {
			data[i] = byte('a' + rng.Intn(6)) // small alphabet to induce overlaps
		}
		for _, pattern := range patterns {
			cap := 1 + rng.Intn(200)
			got := rawscan.ScanRaw(data, pattern, cap)
			want := naiveScan(data, pattern, cap)
			if !assert.Equal(t, want, got, "trial=%d pattern=%q cap=%d", trial, pattern, cap) {
				t.FailNow()
			}
		}
	}
}

func TestScanRawAppendAccumulates(t *testing.T) {
	dst := []uint64{999} // pretend a previous call already found one match
	dst = rawscan.ScanRawAppend(dst, []byte("aaaa"), []byte("a"), 3)
	assert.Equal(t, []uint64{999, 0, 1}, dst)
}

func TestScanRawNoDuplicatesAndSorted(t *testing.T) {
	data := bytes.Repeat([]byte("ababab"), 200)
	got := rawscan.ScanRaw(data, []byte("ab"), 1<<20)
	seen := map[uint64]bool{}
	for i, off := range got {
		assert.False(t, seen[off], "duplicate offset %d", off)
		seen[off] = true
		if i > 0 {
			assert.True(t, got[i-1] < off, "offsets not strictly ascending at index %d: %v", i, got)
		}
		assert.True(t, off <= uint64(len(data)-2), "offset %d out of range", off)
	}
}
