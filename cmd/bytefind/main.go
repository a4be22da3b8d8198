// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

/*
bytefind locates every occurrence of a literal byte pattern in a file and
prints their byte offsets in ascending order.

Usage:

	bytefind [OPTIONS] <path> <pattern> [cap]

cap defaults to 100. This binary is a thin, external-collaborator wrapper
around the scanner package: it marshals arguments, optionally stages a
remote path to local disk, and prints results. All of the actual
scanning lives in github.com/grailbio/bytefind/scanner.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"net/url"
	"os"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/grailbio/bytefind/scanner"
	"github.com/grailbio/bytefind/status"
)

const (
	maxPathBytes    = 1024
	maxPatternBytes = 4096
)

var (
	verbose         = flag.Bool("verbose", false, "Accepted but has no effect: it does not change the vlog level")
	verifyIntegrity = flag.Bool("verify-integrity", false, "Re-fingerprint the region after scanning and fail if it changed")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] <path> <pattern> [cap=100]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	args := flag.Args()
	if len(args) < 2 || len(args) > 3 {
		usage()
		log.Fatalf("expected 2 or 3 positional arguments, got %d", len(args))
	}
	path := args[0]
	pattern := args[1]
	cap := 100
	if len(args) == 3 {
		if _, err := fmt.Sscanf(args[2], "%d", &cap); err != nil {
			log.Fatalf("invalid cap %q: %v", args[2], err)
		}
	}

	if len(path) >= maxPathBytes {
		log.Fatalf("path exceeds %d bytes", maxPathBytes)
	}
	if len(pattern) == 0 || len(pattern) >= maxPatternBytes {
		log.Fatalf("pattern must be 1..%d bytes, got %d", maxPatternBytes-1, len(pattern))
	}
	if cap <= 0 {
		log.Fatalf("cap must be positive, got %d", cap)
	}

	localPath, cleanup, err := materializeLocal(path)
	if err != nil {
		log.Fatalf("staging %s: %v", path, err)
	}
	defer cleanup()

	ctx := scanner.New()
	defer ctx.Destroy()

	if st := ctx.Init([]byte(pattern), cap); st != status.Success {
		fail(st)
	}
	if st := ctx.Load(localPath); st != status.Success {
		fail(st)
	}
	if st := ctx.Execute(); st != status.Success {
		fail(st)
	}
	if *verifyIntegrity {
		if st := ctx.VerifyIntegrity(); st != status.Success {
			fail(st)
		}
	}

	for _, off := range ctx.Matches() {
		fmt.Println(off)
	}
	fmt.Fprintf(os.Stderr, "%d match(es)\n", ctx.MatchCount())
}

func fail(st status.Status) {
	log.Fatalf("%s: %s", st, st.Category())
}

// materializeLocal returns a local, mmap-able path for path. If path has a
// recognized remote scheme (e.g. s3://), the object is staged into a local
// temp file via github.com/grailbio/base/file, since mmap fundamentally
// requires a local, seekable file descriptor — not a stream. For an
// already-local path, materializeLocal is a no-op and the returned cleanup
// does nothing.
func materializeLocal(path string) (local string, cleanup func(), err error) {
	u, err := url.Parse(path)
	if err != nil || u.Scheme == "" || u.Scheme == "file" {
		return path, func() {}, nil
	}

	ctx := vcontext.Background()
	src, err := file.Open(ctx, path)
	if err != nil {
		return "", nil, err
	}
	defer src.Close(ctx) // nolint: errcheck

	tmp, err := ioutil.TempFile("", "bytefind-remote-*")
	if err != nil {
		return "", nil, err
	}
	if _, err := io.Copy(tmp, src.Reader(ctx)); err != nil {
		tmp.Close() // nolint: errcheck
		os.Remove(tmp.Name())
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}
	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}
