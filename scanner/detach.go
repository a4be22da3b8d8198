// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package scanner

import (
	"runtime"
	"sync/atomic"

	"v.io/x/lib/vlog"
)

// DetachedBuffer is the ownership-transfer hook of §4.5: once a Context's
// match list has been detached, the Context must never free it again —
// the buffer's lifetime belongs to whoever holds the DetachedBuffer. The
// holder must call Release exactly once when finished with Offsets(). If
// it never does, a runtime finalizer invokes Release on its behalf once
// the DetachedBuffer becomes unreachable, so the buffer is always
// released exactly once, matching §4.5's "the host guarantees the
// finalizer will eventually be invoked, freeing it exactly once".
//
// This models, in pure Go, the same contract
// alexeymaximov/mmap's Mapping uses runtime.SetFinalizer for: "free this
// resource if the owner forgets to."
type DetachedBuffer struct {
	offsets  []uint64
	released int32 // atomic; 0 = not yet released, 1 = released
}

func newDetachedBuffer(offsets []uint64) *DetachedBuffer {
	db := &DetachedBuffer{offsets: offsets}
	runtime.SetFinalizer(db, (*DetachedBuffer).finalize)
	return db
}

// Offsets returns the detached match list. It is valid until Release is
// called (explicitly or by the finalizer).
func (db *DetachedBuffer) Offsets() []uint64 {
	return db.offsets
}

// Release transfers the buffer back to ordinary garbage collection.
// Calling Release more than once is safe; only the first call has any
// effect, matching §8's "detach exclusivity" invariant (the finalizer is
// invoked exactly once).
func (db *DetachedBuffer) Release() {
	if atomic.CompareAndSwapInt32(&db.released, 0, 1) {
		runtime.SetFinalizer(db, nil)
		db.offsets = nil
	}
}

func (db *DetachedBuffer) finalize() {
	if atomic.CompareAndSwapInt32(&db.released, 0, 1) {
		vlog.VI(1).Infof("scanner: detached buffer (%d offsets) released by finalizer; caller never called Release", len(db.offsets))
		db.offsets = nil
	}
}
