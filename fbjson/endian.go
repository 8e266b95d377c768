// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fbjson

import "encoding/binary"

func readU16(buf []byte, at uint32) uint16 { return binary.LittleEndian.Uint16(buf[at : at+2]) }
func readU32(buf []byte, at uint32) uint32 { return binary.LittleEndian.Uint32(buf[at : at+4]) }
func readU64(buf []byte, at uint32) uint64 { return binary.LittleEndian.Uint64(buf[at : at+8]) }
func readI32(buf []byte, at uint32) int32  { return int32(readU32(buf, at)) }
