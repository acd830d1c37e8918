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

import "fmt"

// ctx identifies what kind of container (if any) a reader or writer is
// currently positioned inside of.
type ctx uint8

const (
	ctxAtTopLevel ctx = iota
	ctxInList
	ctxInSexp
	ctxInStruct
)

// containerTypes maps each container ctx to the Type a value of that shape
// reports; ctxAtTopLevel has no corresponding value type.
var containerTypes = map[ctx]Type{
	ctxInList:   ListType,
	ctxInSexp:   SexpType,
	ctxInStruct: StructType,
}

func ctxToContainerType(c ctx) Type {
	if t, ok := containerTypes[c]; ok {
		return t
	}
	return NoType
}

func containerTypeToCtx(t Type) ctx {
	for c, ct := range containerTypes {
		if ct == t {
			return c
		}
	}
	panic(fmt.Sprintf("type %v is not a container type", t))
}

// ctxstack tracks the chain of containers a reader or writer has stepped
// into, innermost last.
type ctxstack struct {
	arr []ctx
}

// peek reports the innermost context currently open, or ctxAtTopLevel if
// the stack is empty.
func (c *ctxstack) peek() ctx {
	if n := len(c.arr); n > 0 {
		return c.arr[n-1]
	}
	return ctxAtTopLevel
}

// push opens a new, innermost context.
func (c *ctxstack) push(v ctx) {
	c.arr = append(c.arr, v)
}

// pop closes the innermost context. It panics if called with nothing open,
// since that indicates a bug in the caller's step-in/step-out bookkeeping
// rather than a recoverable runtime condition.
func (c *ctxstack) pop() {
	n := len(c.arr)
	if n == 0 {
		panic("pop called at top level")
	}
	c.arr = c.arr[:n-1]
}
