// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package testdatagen generates synthetic corpora for exercising the
// scanner at scale (spec.md §8 end-to-end scenario 5: "100 MiB synthetic
// file with 'ERROR' inserted at random positions"). Synthetic-data
// generation is explicitly named in spec.md §1 as an external
// collaborator to the scanning core, not part of it; this package and its
// cmd/bytefind-gendata wrapper are that collaborator.
package testdatagen

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"io/ioutil"
	"math/rand"

	"github.com/golang/snappy"
	kzip "github.com/klauspost/compress/gzip"
)

// SeedCodec names a compression format a seed corpus may be encoded with.
type SeedCodec int

const (
	// CodecNone means the seed reader is already plain bytes.
	CodecNone SeedCodec = iota
	// CodecGzip decodes the seed with klauspost/compress/gzip, a drop-in,
	// faster replacement for the standard library's gzip reader.
	CodecGzip
	// CodecSnappy decodes the seed with golang/snappy.
	CodecSnappy
)

// Options configures Generate.
type Options struct {
	// Size is the total number of bytes to write.
	Size int64
	// Pattern is injected at random, non-overlapping offsets.
	Pattern []byte
	// Occurrences is how many times Pattern is injected.
	Occurrences int
	// Seed, if non-nil, supplies filler bytes (decoded per Codec) instead
	// of pseudo-random bytes; it is read repeatedly (wrapping) until Size
	// bytes have been produced.
	Seed  io.Reader
	Codec SeedCodec
	// Rand seeds the offset selection and, absent a Seed, the filler
	// bytes. A nil Rand uses a fresh source seeded with 1.
	Rand *rand.Rand
}

// Generate writes Options.Size bytes to w: filler bytes (from Seed if
// provided, decoded per Codec, else pseudo-random bytes) with Pattern
// injected at Occurrences random, non-overlapping offsets. It returns the
// sorted list of offsets at which Pattern was injected, which callers can
// compare against a scanner.Context's results.
func Generate(w io.Writer, opts Options) ([]int64, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("testdatagen: Size must be positive, got %d", opts.Size)
	}
	if len(opts.Pattern) == 0 {
		return nil, fmt.Errorf("testdatagen: Pattern must be non-empty")
	}
	if int64(opts.Occurrences)*int64(len(opts.Pattern)) > opts.Size {
		return nil, fmt.Errorf("testdatagen: %d occurrences of a %d-byte pattern cannot fit in %d bytes", opts.Occurrences, len(opts.Pattern), opts.Size)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	filler, err := fillerSource(opts, rng)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, opts.Size)
	if _, err := io.ReadFull(filler, buf); err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("testdatagen: reading filler: %w", err)
	}

	offsets := chooseOffsets(rng, opts.Size, int64(len(opts.Pattern)), opts.Occurrences)
	for _, off := range offsets {
		copy(buf[off:], opts.Pattern)
	}

	if _, err := w.Write(buf); err != nil {
		return nil, err
	}
	return offsets, nil
}

// fillerSource returns an io.Reader that yields an effectively unbounded
// stream of filler bytes, decoding opts.Seed per opts.Codec if a seed was
// supplied, else generating pseudo-random bytes from rng.
func fillerSource(opts Options, rng *rand.Rand) (io.Reader, error) {
	if opts.Seed == nil {
		return &randReader{rng: rng}, nil
	}

	var decoded io.Reader
	switch opts.Codec {
	case CodecNone:
		decoded = opts.Seed
	case CodecGzip:
		// Read fully first: gzip readers aren't repeatable, and the
		// filler needs to wrap around to cover arbitrary Size.
		raw, err := ioutil.ReadAll(opts.Seed)
		if err != nil {
			return nil, fmt.Errorf("testdatagen: reading gzip seed: %w", err)
		}
		gz, err := kzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			// Fall back to the standard library's reader in case the
			// seed was produced by a tool klauspost/compress is overly
			// strict about; this keeps the generator usable without
			// silently corrupting output.
			gz2, err2 := gzip.NewReader(bytes.NewReader(raw))
			if err2 != nil {
				return nil, fmt.Errorf("testdatagen: gzip seed: %w", err)
			}
			decoded = gz2
			break
		}
		decoded = gz
	case CodecSnappy:
		decoded = snappy.NewReader(opts.Seed)
	default:
		return nil, fmt.Errorf("testdatagen: unknown codec %v", opts.Codec)
	}

	all, err := ioutil.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("testdatagen: decoding seed: %w", err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("testdatagen: seed decoded to zero bytes")
	}
	return &cyclicReader{data: all}, nil
}

// randReader yields pseudo-random bytes indefinitely.
type randReader struct{ rng *rand.Rand }

func (r *randReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Intn(256))
	}
	return len(p), nil
}

// cyclicReader repeats data indefinitely.
type cyclicReader struct {
	data []byte
	pos  int
}

func (r *cyclicReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		k := copy(p[n:], r.data[r.pos:])
		n += k
		r.pos += k
		if r.pos == len(r.data) {
			r.pos = 0
		}
	}
	return n, nil
}

// chooseOffsets picks count random, pairwise-non-overlapping offsets in
// [0, size-patternLen], retrying on collision. It always succeeds given
// the caller-enforced capacity check in Generate.
func chooseOffsets(rng *rand.Rand, size, patternLen int64, count int) []int64 {
	if count == 0 {
		return nil
	}
	limit := size - patternLen + 1
	taken := make([]bool, limit)
	offsets := make([]int64, 0, count)
	for len(offsets) < count {
		off := rng.Int63n(limit)
		if taken[off] {
			continue
		}
		// Reject offsets that would overlap an already-chosen one; this
		// keeps injected occurrences distinguishable and non-overlapping,
		// which is what the end-to-end scenario in §8 calls for (overlap
		// behavior itself is covered by rawscan's own tests).
		overlaps := false
		for d := -patternLen + 1; d < patternLen; d++ {
			idx := off + d
			if idx >= 0 && idx < limit && taken[idx] {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}
		taken[off] = true
		offsets = append(offsets, off)
	}
	return sortedInt64(offsets)
}

func sortedInt64(s []int64) []int64 {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
	return s
}

// EncodeSeedGzip is a small helper for tests that produces a gzip-compressed seed buffer from plain bytes, exercising the
// same klauspost/compress/gzip codepath fillerSource decodes.
func EncodeSeedGzip(plain []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := kzip.NewWriter(&buf)
	if _, err := w.Write(plain); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
