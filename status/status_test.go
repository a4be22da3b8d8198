// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package status_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grailbio/bytefind/status"
)

func TestOK(t *testing.T) {
	assert.True(t, status.Success.OK())
	for _, s := range []status.Status{
		status.NullArg, status.InvalidArg, status.OutOfBounds,
		status.MmapFailed, status.OpenFailed,
	} {
		assert.False(t, s.OK(), "%v.OK()", s)
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		s    status.Status
		want string
	}{
		{status.Success, "Success"},
		{status.NullArg, "NullArg"},
		{status.InvalidArg, "InvalidArg"},
		{status.OutOfBounds, "OutOfBounds"},
		{status.MmapFailed, "MmapFailed"},
		{status.OpenFailed, "OpenFailed"},
		{status.Status(99), "Unknown"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.s.String())
	}
}

func TestCategory(t *testing.T) {
	cases := []struct {
		s    status.Status
		want string
	}{
		{status.OpenFailed, "File not found"},
		{status.MmapFailed, "Memory mapping failed"},
		{status.OutOfBounds, "Buffer allocation failed"},
		{status.InvalidArg, "Invalid argument"},
		{status.NullArg, "generic failure"},
		{status.Status(99), "generic failure"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.s.Category())
	}
}
