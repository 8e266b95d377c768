// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fbjson

import (
	"sort"

	"github.com/flatcc-go/flatcc/schema"
)

// TrieNode is one decision point in a key dispatch trie: a pivot word
// packing up to 8 bytes of a field name big-endian, a mask covering only
// the bytes both branches still share, and either two children or a
// resolved field at a leaf.
type TrieNode struct {
	Pivot uint64
	Mask  uint64
	Field *schema.Member // non-nil at a leaf
	Left  *TrieNode
	Right *TrieNode
}

// packKey packs up to the first 8 bytes of name big-endian into a word,
// zero-padding short names, the same layout the trie's pivots use so a
// direct comparison works regardless of name length.
func packKey(name string) uint64 {
	var w uint64
	for i := 0; i < 8; i++ {
		w <<= 8
		if i < len(name) {
			w |= uint64(name[i])
		}
	}
	return w
}

// BuildTrie builds a dispatch trie over members's names. It is the
// runtime stand-in for the code generator's compile-time trie emission:
// the shape (pivot/mask decisions over packed 8-byte prefixes) is
// identical, only the "emit" step differs.
func BuildTrie(members []*schema.Member) *TrieNode {
	if len(members) == 0 {
		return nil
	}
	sorted := make([]*schema.Member, len(members))
	copy(sorted, members)
	sort.Slice(sorted, func(i, j int) bool {
		return packKey(sorted[i].Name) < packKey(sorted[j].Name)
	})
	return buildTrieRange(sorted)
}

func buildTrieRange(members []*schema.Member) *TrieNode {
	if len(members) == 1 {
		return &TrieNode{Pivot: packKey(members[0].Name), Mask: ^uint64(0), Field: members[0]}
	}
	mid := len(members) / 2
	left := buildTrieRange(members[:mid])
	right := buildTrieRange(members[mid:])
	pivot := packKey(members[mid].Name)
	mask := sharedPrefixMask(packKey(members[0].Name), packKey(members[len(members)-1].Name))
	return &TrieNode{Pivot: pivot, Mask: mask, Left: left, Right: right}
}

// sharedPrefixMask returns a mask covering the leading bytes a and b
// agree on, byte-aligned the way the trie's 8-byte words compare.
func sharedPrefixMask(a, b uint64) uint64 {
	diff := a ^ b
	mask := uint64(0)
	for i := 0; i < 8; i++ {
		shift := uint(56 - i*8)
		byteMask := uint64(0xFF) << shift
		if diff&byteMask != 0 {
			break
		}
		mask |= byteMask
	}
	return mask
}

// Lookup walks the trie for name, returning the matching Member or nil.
// At each node the bytes under Mask are shared by every name below it, so
// only the remaining bytes are compared against the pivot (the first name
// of the right subtree). Names whose first 8 bytes coincide may still
// reach the wrong leaf and return nil; the parser then falls back to its
// exact-match index.
func Lookup(root *TrieNode, name string) *schema.Member {
	key := packKey(name)
	n := root
	for n != nil {
		if n.Field != nil {
			if n.Field.Name == name {
				return n.Field
			}
			return nil
		}
		if key&^n.Mask < n.Pivot&^n.Mask {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return nil
}
