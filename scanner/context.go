// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package scanner implements the scan coordinator of §4.4: it owns a
// Region, a pattern, a cap, and (after Execute) the final match list,
// deciding between a single-threaded and a parallel scan and merging
// worker results back into one ascending, cap-bounded offset list.
package scanner

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/grailbio/base/errors"
	"v.io/x/lib/vlog"

	"github.com/grailbio/bytefind/rawscan"
	"github.com/grailbio/bytefind/region"
	"github.com/grailbio/bytefind/status"
)

// smallThreshold is the region size below which Execute scans
// single-threaded rather than partitioning into workers. It is a
// tunable, not a correctness boundary (§4.4).
const smallThreshold = 256 * 1024

// minWorkerChunk bounds how small a per-worker logical chunk is allowed
// to get before partitioning backs off to fewer workers; splitting a
// barely-above-threshold region across many workers would make per-worker
// overhead dominate the scan.
const minWorkerChunk = 64 * 1024

// Context is the scan coordinator. The zero Context is ready for Init.
type Context struct {
	pattern []byte
	cap     int

	region *region.Region
	loadFP uint64 // region fingerprint captured at Load time

	matches  []uint64
	detached bool

	initialized bool
	loaded      bool
}

// New returns a freshly-initialized Context. Equivalent to taking the
// address of a zero Context; provided for symmetry with the teacher's
// constructor-style APIs.
func New() *Context {
	return &Context{}
}

// Init validates and stores pattern and cap (§4.4). pattern must be
// non-empty; cap must be positive.
func (c *Context) Init(pattern []byte, cap int) status.Status {
	if pattern == nil {
		return status.NullArg
	}
	if len(pattern) == 0 || cap <= 0 {
		return status.InvalidArg
	}
	c.pattern = pattern
	c.cap = cap
	c.initialized = true
	return status.Success
}

// Load opens a Region for path (§4.4).
func (c *Context) Load(path string) status.Status {
	if !c.initialized {
		return status.InvalidArg
	}
	r, st := region.Open(path)
	if st != status.Success {
		return st
	}
	c.region = r
	c.loadFP = r.Fingerprint()
	c.loaded = true
	return status.Success
}

// VerifyIntegrity re-fingerprints the loaded region and compares it
// against the fingerprint captured at Load time (§4.2's [NEW] integrity
// check). It is not part of the core correctness contract — it exists
// to give a caller a way to detect the hazard documented in §5 (the
// underlying file being truncated or rewritten during a long scan).
// Returns InvalidArg if no region has been loaded, MmapFailed if the
// fingerprints disagree, Success otherwise.
func (c *Context) VerifyIntegrity() status.Status {
	if !c.loaded {
		return status.InvalidArg
	}
	if c.region.Fingerprint() != c.loadFP {
		vlog.VI(1).Infof("scanner: region fingerprint changed since Load; file may have been modified")
		return status.MmapFailed
	}
	return status.Success
}

// Execute performs the scan, populating the Context's match list (§4.4).
func (c *Context) Execute() status.Status {
	if !c.initialized || !c.loaded {
		return status.InvalidArg
	}
	data := c.region.Bytes()
	size := int64(len(data))

	if size < smallThreshold {
		c.matches = rawscan.ScanRaw(data, c.pattern, c.cap)
		return status.Success
	}
	return c.executeParallel(data, size)
}

func (c *Context) executeParallel(data []byte, size int64) status.Status {
	workers := defaultWorkerCount()
	for int64(workers) > 1 && size/int64(workers) < minWorkerChunk {
		workers--
	}
	ranges := partitionWork(size, len(c.pattern), workers)

	results := make([][]uint64, len(ranges))
	var wg sync.WaitGroup
	failures := errors.Once{}

	for i, rng := range ranges {
		wg.Add(1)
		go func(i int, rng workerRange) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					// A panic inside a worker (e.g. an allocation
					// failure surfaced as an OOM panic) is the closest
					// Go analogue to the spec's "worker spawn/allocation
					// failure". Per the Open Question decision in
					// DESIGN.md, this fails the whole scan rather than
					// silently returning a truncated result.
					failures.Set(fmt.Errorf("scanner: worker %d panicked: %v", i, r))
				}
			}()
			// Each worker scans into its own growable local buffer
			// (Go's append doubling already satisfies §4.4's "growable,
			// doubling" requirement), then translates in place.
			local := rawscan.ScanRawAppend(nil, data[rng.scanStart:rng.scanEnd], c.pattern, c.cap)
			results[i] = translateOwned(local, rng)
		}(i, rng)
	}
	wg.Wait()

	if err := failures.Err(); err != nil {
		vlog.VI(1).Infof("scanner: %v", err)
		return status.OutOfBounds
	}

	c.matches = mergeResults(results, c.cap)
	return status.Success
}

func defaultWorkerCount() int {
	w := runtime.NumCPU() - 1
	if w < 1 {
		w = 1
	}
	return w
}

// Matches returns the current match list. Valid after a successful
// Execute, until Destroy or Detach.
func (c *Context) Matches() []uint64 {
	return c.matches
}

// MatchCount returns len(Matches()).
func (c *Context) MatchCount() int {
	return len(c.matches)
}

// Detach transfers ownership of the match list to the caller: once
// detached, Destroy will not free it (§4.5). Detach may be called at most
// once per Context; calling it again returns InvalidArg.
func (c *Context) Detach() (*DetachedBuffer, status.Status) {
	if c.detached {
		return nil, status.InvalidArg
	}
	db := newDetachedBuffer(c.matches)
	c.matches = nil
	c.detached = true
	return db, status.Success
}

// Destroy frees the match list (unless it was detached) and closes the
// Region. Destroy is idempotent.
func (c *Context) Destroy() {
	if c.region != nil {
		c.region.Close()
		c.region = nil
	}
	if !c.detached {
		c.matches = nil
	}
	c.loaded = false
}
