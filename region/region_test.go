// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package region_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/grailbio/bytefind/region"
	"github.com/grailbio/bytefind/status"
)

func tempDir(t *testing.T) string {
	t.Helper()
	dir, cleanup := testutil.TempDir(t, "", "")
	t.Cleanup(cleanup)
	return dir
}

func writeTemp(t *testing.T, contents []byte) string {
	t.Helper()
	path := filepath.Join(tempDir(t), "data.bin")
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestOpenNonEmpty(t *testing.T) {
	path := writeTemp(t, []byte("hello world"))
	r, st := region.Open(path)
	if !assert.Equal(t, status.Success, st) {
		t.FailNow()
	}
	defer r.Close()
	assert.Equal(t, "hello world", string(r.Bytes()))
	assert.Equal(t, int64(11), r.Size())
}

func TestOpenEmpty(t *testing.T) {
	path := writeTemp(t, nil)
	r, st := region.Open(path)
	if !assert.Equal(t, status.Success, st) {
		t.FailNow()
	}
	defer r.Close()
	assert.Equal(t, int64(0), r.Size())
	assert.Nil(t, r.Bytes())
}

func TestOpenMissing(t *testing.T) {
	_, st := region.Open(filepath.Join(tempDir(t), "does-not-exist"))
	assert.Equal(t, status.OpenFailed, st)
}

func TestOpenEmptyPath(t *testing.T) {
	_, st := region.Open("")
	assert.Equal(t, status.InvalidArg, st)
}

func TestOpenDirectory(t *testing.T) {
	_, st := region.Open(tempDir(t))
	assert.Equal(t, status.OpenFailed, st)
}

func TestCloseIdempotent(t *testing.T) {
	path := writeTemp(t, []byte("abc"))
	r, st := region.Open(path)
	if !assert.Equal(t, status.Success, st) {
		t.FailNow()
	}
	assert.Equal(t, status.Success, r.Close())
	assert.Equal(t, status.Success, r.Close())
}

func TestFingerprintStableUntilRewrite(t *testing.T) {
	path := writeTemp(t, []byte("the quick brown fox jumps over the lazy dog"))
	r, st := region.Open(path)
	if !assert.Equal(t, status.Success, st) {
		t.FailNow()
	}
	defer r.Close()
	fp1 := r.Fingerprint()
	fp2 := r.Fingerprint()
	assert.Equal(t, fp1, fp2, "Fingerprint() not stable across calls")

	r2, st := region.Open(writeTemp(t, []byte("a different file entirely, of a different length")))
	if !assert.Equal(t, status.Success, st) {
		t.FailNow()
	}
	defer r2.Close()
	assert.NotEqual(t, r.Fingerprint(), r2.Fingerprint(), "Fingerprint() collided across distinct contents")
}
