// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

//go:build unix

package region

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/grailbio/bytefind/status"
)

// mapFile establishes a whole-file, shared, read-only mapping of f, which
// is known to be size bytes long. It requests sequential-access and
// pre-fault hints where the platform supports them; these are best-effort
// and never change the returned mapping's correctness.
func mapFile(f *os.File, size int64) ([]byte, status.Status) {
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, status.MmapFailed
	}
	// Best-effort hints; a failure here does not invalidate the mapping.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
	_ = unix.Madvise(data, unix.MADV_WILLNEED)
	return data, status.Success
}

func unmapFile(data []byte) error {
	return unix.Munmap(data)
}
