// Copyright 2024 The slotpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slotpool

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// TestUnixDecommitterReleasesMappedPages exercises the production
// Decommitter against a real anonymous mapping, the same way balloc's own
// tests would exercise buddyInit/buddyDestroy against a real mmap.
func TestUnixDecommitterReleasesMappedPages(t *testing.T) {
	const size = 4 * 4096
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	require.NoError(t, err)
	defer unix.Munmap(data)

	for i := range data {
		data[i] = 0xAA
	}

	addr := uintptr(unsafe.Pointer(&data[0]))
	dec := UnixDecommitter{}
	require.NoError(t, dec.Decommit(addr, size))
}

func TestUnixDecommitterZeroLengthNoop(t *testing.T) {
	dec := UnixDecommitter{}
	require.NoError(t, dec.Decommit(0x1000, 0))
}
