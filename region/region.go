// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package region provides an immutable, read-only, memory-mapped view of a
// file's bytes. A Region is opened once, read by any number of concurrent
// readers (the scanner's workers), and closed exactly once.
package region

import (
	"os"

	"github.com/pkg/errors"
	"v.io/x/lib/vlog"

	"github.com/grailbio/bytefind/status"
)

// Region is an opened, read-only mapping of a file's bytes into the
// process address space. The zero Region is not valid; use Open.
type Region struct {
	data   []byte
	file   *os.File
	mapped bool // true if data backs an actual mmap that must be unmapped
}

// Open opens path read-only and establishes a whole-file, read-only,
// shared mapping of its contents. Empty files produce a valid Region with
// Size() == 0 and Bytes() == nil; no mapping syscall is issued for them.
//
// On platforms that support it, Open requests sequential-access and
// pre-fault ("populate") hints to reduce page-fault latency during the
// scan; these are best-effort and never affect correctness.
func Open(path string) (*Region, status.Status) {
	if path == "" {
		return nil, status.InvalidArg
	}
	f, err := os.Open(path)
	if err != nil {
		vlog.VI(1).Infof("region: open %s: %v", path, errors.Wrapf(err, "os.Open"))
		return nil, status.OpenFailed
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close() // nolint: errcheck
		vlog.VI(1).Infof("region: stat %s: %v", path, errors.Wrapf(err, "Stat"))
		return nil, status.OpenFailed
	}
	if !fi.Mode().IsRegular() {
		f.Close() // nolint: errcheck
		vlog.VI(1).Infof("region: %s is not a regular file", path)
		return nil, status.OpenFailed
	}

	size := fi.Size()
	if size == 0 {
		return &Region{file: f}, status.Success
	}

	data, st := mapFile(f, size)
	if st != status.Success {
		f.Close() // nolint: errcheck
		return nil, st
	}
	return &Region{data: data, file: f, mapped: true}, status.Success
}

// Bytes returns the mapped region's bytes. The slice is read-only: writing
// to it is undefined behavior. It is valid until Close is called.
func (r *Region) Bytes() []byte {
	if r == nil {
		return nil
	}
	return r.data
}

// Size returns the number of mapped bytes.
func (r *Region) Size() int64 {
	if r == nil {
		return 0
	}
	return int64(len(r.data))
}

// Close unmaps the region (if mapped) and closes the underlying file
// descriptor. Close is idempotent: calling it more than once is legal and
// a no-op after the first call.
func (r *Region) Close() status.Status {
	if r == nil || r.file == nil {
		return status.Success
	}
	var st status.Status = status.Success
	if r.mapped && r.data != nil {
		if err := unmapFile(r.data); err != nil {
			vlog.VI(1).Infof("region: munmap: %v", err)
			st = status.MmapFailed
		}
	}
	if err := r.file.Close(); err != nil {
		vlog.VI(1).Infof("region: close: %v", err)
	}
	r.data = nil
	r.file = nil
	r.mapped = false
	return st
}
