// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

//go:build windows

package region

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/grailbio/bytefind/status"
)

// mapFile establishes a whole-file, read-only file mapping of f, which is
// known to be size bytes long, following the CreateFileMapping +
// MapViewOfFile shape used throughout the retrieval pack's Windows mmap
// wrappers. Sequential/pre-fault hints have no Windows analogue exposed by
// golang.org/x/sys/windows, so this path maps without them; that is within
// §4.2's "optional for correctness" allowance.
func mapFile(f *os.File, size int64) ([]byte, status.Status) {
	h, err := windows.CreateFileMapping(windows.Handle(f.Fd()), nil, windows.PAGE_READONLY, 0, 0, nil)
	if err != nil {
		return nil, status.MmapFailed
	}
	defer windows.CloseHandle(h) // nolint: errcheck

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_READ, 0, 0, uintptr(size))
	if err != nil {
		return nil, status.MmapFailed
	}

	var data []byte
	hdr := (*sliceHeader)(unsafe.Pointer(&data))
	hdr.Data = addr
	hdr.Len = int(size)
	hdr.Cap = int(size)
	return data, status.Success
}

func unmapFile(data []byte) error {
	hdr := (*sliceHeader)(unsafe.Pointer(&data))
	return windows.UnmapViewOfFile(hdr.Data)
}

type sliceHeader struct {
	Data uintptr
	Len  int
	Cap  int
}
