/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

package ion

import (
	"io"
)

// Binary Ion containers are prefixed by their own encoded length, which
// isn't known until every value nested inside has been written, and even
// the length of THAT length prefix is variable. Rather than buffer raw
// bytes and patch the prefix in afterward, a binaryWriter builds a tree of
// bufnodes as it goes: each container collects its children's lengths
// as they're appended, so by the time a container is closed its own
// length is already known and it can emit its tag before emitting its
// contents.

// bufnode is one node of that tree: something with a known encoded length
// that can write itself out.
type bufnode interface {
	Len() uint64
	EmitTo(w io.Writer) error
}

// bufseq is a bufnode that can still grow; new children are appended to it
// until the writer closes the container it represents.
type bufseq interface {
	bufnode
	Append(n bufnode)
}

var (
	_ bufnode = atom(nil)
	_ bufseq  = &datagram{}
	_ bufseq  = &container{}
)

// atom is a leaf node: a value already fully encoded to bytes.
type atom []byte

func (a atom) Len() uint64 {
	return uint64(len(a))
}

func (a atom) EmitTo(w io.Writer) error {
	_, err := w.Write(a)
	return err
}

// datagram is an ordered run of sibling nodes with no tag of its own. The
// top-level stream uses one directly, to hold values written before the
// local symbol table is finalized.
type datagram struct {
	len      uint64
	children []bufnode
}

func (d *datagram) Append(n bufnode) {
	d.children = append(d.children, n)
	d.len += n.Len()
}

func (d *datagram) Len() uint64 {
	return d.len
}

func (d *datagram) EmitTo(w io.Writer) error {
	for _, child := range d.children {
		if err := child.EmitTo(w); err != nil {
			return err
		}
	}
	return nil
}

// container is a datagram wrapped in a type-code-plus-length tag: a list,
// sexp, or struct.
type container struct {
	code byte
	datagram
}

// tagLen is the number of bytes the length-prefix tag itself occupies: one
// byte for the tag when the content fits the short form (< 0x0E), otherwise
// one tag byte plus however many VarUInt bytes the length needs.
func (c *container) tagLen() uint64 {
	if c.len < 0x0E {
		return 1
	}
	return varUintLen(c.len) + 1
}

func (c *container) Len() uint64 {
	return c.len + c.tagLen()
}

func (c *container) EmitTo(w io.Writer) error {
	var arr [11]byte
	tag := appendTag(arr[:0], c.code, c.len)
	if _, err := w.Write(tag); err != nil {
		return err
	}
	return c.datagram.EmitTo(w)
}

// bufstack is the stack of open bufseqs a binaryWriter is currently
// nested inside, innermost (currently being written into) last. Closing a
// container pops it off and appends it to whatever is now on top.
type bufstack struct {
	arr []bufseq
}

func (s *bufstack) peek() bufseq {
	if n := len(s.arr); n > 0 {
		return s.arr[n-1]
	}
	return nil
}

func (s *bufstack) push(b bufseq) {
	s.arr = append(s.arr, b)
}

func (s *bufstack) pop() {
	n := len(s.arr)
	if n == 0 {
		panic("pop called on an empty stack")
	}
	s.arr = s.arr[:n-1]
}
