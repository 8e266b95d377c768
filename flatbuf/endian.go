// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package flatbuf

import (
	"encoding/binary"
	"unsafe"
)

// protocolIsBE mirrors flatc's PROTOCOL_IS_BE compile-time constant: the
// wire format is little-endian unless this is true. No build of this
// package flips it; it exists so the byte-swap helpers below have a
// single place to branch, matching a single binary.LittleEndian call
// site convention throughout this package.
const protocolIsBE = false

// NativeIsLittleEndian reports the host's native byte order, computed once
// by reading the first in-memory byte of a uint16 holding 1.
var NativeIsLittleEndian = func() bool {
	var x uint16 = 1
	return *(*byte)(unsafe.Pointer(&x)) == 1
}()

func byteOrder() binary.ByteOrder {
	if protocolIsBE {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func writeToPE16(b []byte, v uint16) { byteOrder().PutUint16(b, v) }
func writeToPE32(b []byte, v uint32) { byteOrder().PutUint32(b, v) }
func writeToPE64(b []byte, v uint64) { byteOrder().PutUint64(b, v) }

func readFromPE16(b []byte) uint16 { return byteOrder().Uint16(b) }
func readFromPE32(b []byte) uint32 { return byteOrder().Uint32(b) }
func readFromPE64(b []byte) uint64 { return byteOrder().Uint64(b) }
