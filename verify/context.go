// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package verify

import (
	"fmt"

	"github.com/flatcc-go/flatcc/schema"
)

// vtableCacheSize bounds the small, fixed set of most-recently-validated
// vtable addresses a Context remembers. Interned vtables are shared by
// every table of a given shape, so a buffer with a large vector of
// same-shape tables would otherwise re-verify one identical vtable
// thousands of times; this is a cache, not a correctness requirement —
// a miss just means redoing work that would still pass.
const vtableCacheSize = 8

// Context carries the immutable inputs (the buffer and its schema) and the
// small amount of mutable bookkeeping (the vtable cache, the field path for
// diagnostics) threaded through one verification walk.
type Context struct {
	buf  []byte
	root *schema.RootSchema

	vtCache [vtableCacheSize]uint32
	vtNext  int

	path []string
}

// NewContext prepares a verification walk over buf against root.
func NewContext(buf []byte, root *schema.RootSchema) *Context {
	return &Context{buf: buf, root: root}
}

func (c *Context) size() uint32 { return uint32(len(c.buf)) }

func (c *Context) seenVTable(addr uint32) bool {
	for _, v := range c.vtCache {
		if v == addr {
			return true
		}
	}
	return false
}

func (c *Context) rememberVTable(addr uint32) {
	c.vtCache[c.vtNext] = addr
	c.vtNext = (c.vtNext + 1) % vtableCacheSize
}

func (c *Context) push(name string) { c.path = append(c.path, name) }
func (c *Context) pop()             { c.path = c.path[:len(c.path)-1] }

func (c *Context) currentPath() string {
	out := ""
	for i, p := range c.path {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

func (c *Context) fail(err error) error {
	return &Violation{Path: c.currentPath(), Err: err}
}

func (c *Context) failf(format string, args ...interface{}) error {
	return c.fail(fmt.Errorf(format, args...))
}
