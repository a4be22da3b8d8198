// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

/*
bytefind-gendata writes a synthetic file with a literal pattern injected
at random, non-overlapping offsets, for exercising bytefind at scale.

Usage:

	bytefind-gendata [OPTIONS] <output-path> <pattern> <size-bytes> <occurrences>

The offsets chosen are printed to stderr in ascending order so the caller
can cross-check them against bytefind's own output.
*/
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io/ioutil"
	"math/rand"
	"os"
	"strconv"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/grailbio/bytefind/testdatagen"
)

var (
	seedPath  = flag.String("seed", "", "Optional path to a seed corpus supplying filler bytes instead of pseudo-random data")
	seedCodec = flag.String("seed-codec", "none", "Codec of the seed file: none, gzip, or snappy")
	randSeed  = flag.Int64("rand-seed", 1, "Seed for the pseudo-random generator controlling filler bytes and offsets")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] <output-path> <pattern> <size-bytes> <occurrences>\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	args := flag.Args()
	if len(args) != 4 {
		usage()
		log.Fatalf("expected 4 positional arguments, got %d", len(args))
	}
	outPath, pattern := args[0], args[1]
	size, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		log.Fatalf("invalid size-bytes %q: %v", args[2], err)
	}
	occurrences, err := strconv.Atoi(args[3])
	if err != nil {
		log.Fatalf("invalid occurrences %q: %v", args[3], err)
	}

	codec, err := parseCodec(*seedCodec)
	if err != nil {
		log.Fatalf("%v", err)
	}

	opts := testdatagen.Options{
		Size:        size,
		Pattern:     []byte(pattern),
		Occurrences: occurrences,
		Codec:       codec,
	}
	opts.Rand = newRand(*randSeed)

	if *seedPath != "" {
		raw, err := ioutil.ReadFile(*seedPath)
		if err != nil {
			log.Fatalf("reading seed %s: %v", *seedPath, err)
		}
		opts.Seed = bytes.NewReader(raw)
	}

	f, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("creating %s: %v", outPath, err)
	}
	w := bufio.NewWriter(f)

	offsets, err := testdatagen.Generate(w, opts)
	if err != nil {
		f.Close() // nolint: errcheck
		log.Fatalf("generating %s: %v", outPath, err)
	}
	if err := w.Flush(); err != nil {
		f.Close() // nolint: errcheck
		log.Fatalf("flushing %s: %v", outPath, err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("closing %s: %v", outPath, err)
	}

	for _, off := range offsets {
		fmt.Fprintln(os.Stderr, off)
	}
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func parseCodec(s string) (testdatagen.SeedCodec, error) {
	switch s {
	case "none":
		return testdatagen.CodecNone, nil
	case "gzip":
		return testdatagen.CodecGzip, nil
	case "snappy":
		return testdatagen.CodecSnappy, nil
	default:
		return 0, fmt.Errorf("unknown -seed-codec %q (want none, gzip, or snappy)", s)
	}
}
