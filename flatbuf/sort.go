// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package flatbuf

import "container/heap"

// KeyedRef pairs an already-finished table's Ref with its sort key's
// encoded bytes, compared byte-lexicographically: a UTF-8 string or a
// big-endian unsigned integer sorts in its natural order, while a
// little-endian or signed integer encoding does not.
type KeyedRef struct {
	Key []byte
	Ref Ref
}

// SortKeyedRefs sorts items ascending by Key using a binary heap, so that
// a table vector with a declared key field is emitted key-ascending and
// the verifier and accessor layer can binary search it. Build the vector
// by pushing VectorPushOffset(items[i].Ref)
// for i from len(items)-1 down to 0 — the usual push-in-reverse
// discipline — so the ascending order survives into the finished buffer.
func SortKeyedRefs(items []KeyedRef) {
	h := &keyedRefHeap{items: items}
	heap.Init(h)
	sorted := make([]KeyedRef, 0, len(items))
	for h.Len() > 0 {
		sorted = append(sorted, heap.Pop(h).(KeyedRef))
	}
	copy(items, sorted)
}

type keyedRefHeap struct {
	items []KeyedRef
}

func (h *keyedRefHeap) Len() int { return len(h.items) }
func (h *keyedRefHeap) Less(i, j int) bool {
	return compareBytes(h.items[i].Key, h.items[j].Key) < 0
}
func (h *keyedRefHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *keyedRefHeap) Push(x interface{}) {
	h.items = append(h.items, x.(KeyedRef))
}

func (h *keyedRefHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
